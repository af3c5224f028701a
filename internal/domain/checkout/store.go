// internal/domain/checkout/store.go
package checkout

import (
	"context"

	"github.com/your-org/bookstore-backend/internal/domain/cart"
	"github.com/your-org/bookstore-backend/internal/domain/coupon"
	"github.com/your-org/bookstore-backend/internal/domain/order"
)

// Store is the persistence surface the checkout orchestrator needs.
// InTransaction runs fn against a transactional view; returning an
// error rolls back everything fn did.
type Store interface {
	InTransaction(ctx context.Context, fn func(tx Store) error) error

	// LoadCart returns the buyer's cart with lines and their books
	// loaded, or an empty cart if none exists yet.
	LoadCart(ctx context.Context, buyerID uint) (*cart.Cart, error)

	// FindCoupon looks up a coupon by its normalized code, including
	// soft-deleted ones so they can be reported as unavailable rather
	// than not found. Only a code with no coupon at all returns
	// (nil, nil).
	FindCoupon(ctx context.Context, code string) (*coupon.Coupon, error)

	// DecrementStock atomically subtracts quantity from the book's
	// stock only if enough remains. It reports whether the decrement
	// was applied.
	DecrementStock(ctx context.Context, bookID uint, quantity int) (bool, error)

	// RedeemCoupon atomically increments the coupon's used count only
	// if the usage limit has not been reached. It reports whether the
	// redemption was applied.
	RedeemCoupon(ctx context.Context, couponID uint) (bool, error)

	// NextOrderSequence returns a monotonically increasing sequence
	// used to build the order number. Values are never reused, even
	// when the surrounding transaction rolls back.
	NextOrderSequence(ctx context.Context) (int64, error)

	CreateOrder(ctx context.Context, o *order.Order) error

	// ClearCart removes all lines from the cart
	ClearCart(ctx context.Context, cartID uint) error
}
