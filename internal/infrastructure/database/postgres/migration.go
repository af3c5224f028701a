// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/your-org/bookstore-backend/internal/domain/book"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
	"github.com/your-org/bookstore-backend/internal/domain/complaint"
	"github.com/your-org/bookstore-backend/internal/domain/coupon"
	"github.com/your-org/bookstore-backend/internal/domain/order"
	"github.com/your-org/bookstore-backend/internal/domain/review"
	"github.com/your-org/bookstore-backend/internal/domain/user"
	"github.com/your-org/bookstore-backend/internal/pkg/auth"
	"gorm.io/gorm"
)

// Migration handles schema migrations and seed data
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration runner
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{db: db}
}

// RunAutoMigrations runs GORM auto-migrations for all domain models
func (m *Migration) RunAutoMigrations() error {
	models := []interface{}{
		&user.User{},
		&user.Vendor{},
		&book.Author{},
		&book.Category{},
		&book.Book{},
		&book.BookImage{},
		&cart.Cart{},
		&cart.CartLine{},
		&coupon.Coupon{},
		&order.Order{},
		&order.OrderDetail{},
		&review.Review{},
		&complaint.Complaint{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}

// CreateIndexes creates indexes and sequences AutoMigrate does not cover
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE SEQUENCE IF NOT EXISTS order_number_seq",
		"CREATE INDEX IF NOT EXISTS idx_books_vendor_active ON books (vendor_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_orders_buyer_placed ON orders (buyer_id, placed_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_vendor_status ON orders (vendor_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_coupons_vendor ON coupons (vendor_id) WHERE deleted_at IS NULL",
	}

	for _, stmt := range indexes {
		if err := m.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to run %q: %w", stmt, err)
		}
	}
	return nil
}

// SeedInitialData inserts a default admin account and starter catalog
// metadata when the database is empty. Intended for development.
func (m *Migration) SeedInitialData(bcryptCost int) error {
	var adminCount int64
	if err := m.db.Model(&user.User{}).Where("role = ?", user.RoleAdmin).Count(&adminCount).Error; err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}

	if adminCount == 0 {
		hash, err := auth.HashPassword("admin123456", bcryptCost)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		admin := user.User{
			Email:         "admin@bookstore.local",
			Password:      hash,
			Name:          "Administrator",
			Role:          user.RoleAdmin,
			IsActive:      true,
			EmailVerified: true,
		}
		if err := m.db.Create(&admin).Error; err != nil {
			return fmt.Errorf("failed to seed admin user: %w", err)
		}
	}

	var categoryCount int64
	if err := m.db.Model(&book.Category{}).Count(&categoryCount).Error; err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}

	if categoryCount == 0 {
		categories := []book.Category{
			{Name: "Fiction", Slug: "fiction", SortOrder: 1, IsActive: true},
			{Name: "Non-Fiction", Slug: "non-fiction", SortOrder: 2, IsActive: true},
			{Name: "Science & Technology", Slug: "science-technology", SortOrder: 3, IsActive: true},
			{Name: "Children", Slug: "children", SortOrder: 4, IsActive: true},
		}
		if err := m.db.Create(&categories).Error; err != nil {
			return fmt.Errorf("failed to seed categories: %w", err)
		}
	}

	return nil
}
