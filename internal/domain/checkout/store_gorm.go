// internal/domain/checkout/store_gorm.go
package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/your-org/bookstore-backend/internal/domain/book"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
	"github.com/your-org/bookstore-backend/internal/domain/coupon"
	"github.com/your-org/bookstore-backend/internal/domain/order"
	"gorm.io/gorm"
)

// GormStore implements Store on top of PostgreSQL through GORM
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a database-backed checkout store
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// InTransaction runs fn inside one database transaction. All stock
// decrements, the coupon redemption, the order insert, and the cart
// wipe share its fate.
func (s *GormStore) InTransaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// LoadCart returns the buyer's cart with lines and books preloaded
func (s *GormStore) LoadCart(ctx context.Context, buyerID uint) (*cart.Cart, error) {
	var c cart.Cart
	err := s.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Lines.Book").
		Where("user_id = ?", buyerID).
		First(&c).Error

	if err == gorm.ErrRecordNotFound {
		return &cart.Cart{UserID: buyerID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return &c, nil
}

// FindCoupon looks up a coupon by its normalized code. Soft-deleted
// coupons are returned too; Availability classifies them as deleted,
// which is distinct from no coupon matching the code at all.
func (s *GormStore) FindCoupon(ctx context.Context, code string) (*coupon.Coupon, error) {
	var c coupon.Coupon
	err := s.db.WithContext(ctx).Unscoped().
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&c).Error

	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up coupon: %w", err)
	}
	return &c, nil
}

// DecrementStock performs a conditional atomic decrement. The WHERE
// guard makes concurrent checkouts of the last unit race safely: the
// loser's update matches zero rows.
func (s *GormStore) DecrementStock(ctx context.Context, bookID uint, quantity int) (bool, error) {
	result := s.db.WithContext(ctx).Model(&book.Book{}).
		Where("id = ? AND stock >= ?", bookID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return false, fmt.Errorf("failed to decrement stock: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// RedeemCoupon performs a conditional atomic increment guarded by the
// usage limit, so the limit cannot be overshot under concurrency
func (s *GormStore) RedeemCoupon(ctx context.Context, couponID uint) (bool, error) {
	result := s.db.WithContext(ctx).Model(&coupon.Coupon{}).
		Where("id = ? AND (usage_limit IS NULL OR used_count < usage_limit)", couponID).
		Update("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return false, fmt.Errorf("failed to redeem coupon: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// NextOrderSequence draws the next value from the database sequence.
// Sequence values survive rollback, so two concurrent checkouts can
// never compute the same order number.
func (s *GormStore) NextOrderSequence(ctx context.Context) (int64, error) {
	var seq int64
	if err := s.db.WithContext(ctx).Raw("SELECT nextval('order_number_seq')").Scan(&seq).Error; err != nil {
		return 0, fmt.Errorf("failed to allocate order sequence: %w", err)
	}
	return seq, nil
}

// CreateOrder inserts the order together with its details
func (s *GormStore) CreateOrder(ctx context.Context, o *order.Order) error {
	if err := s.db.WithContext(ctx).Create(o).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// ClearCart removes every line from the cart
func (s *GormStore) ClearCart(ctx context.Context, cartID uint) error {
	if err := s.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&cart.CartLine{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
