// internal/domain/checkout/errors.go
package checkout

import (
	"errors"
	"fmt"

	"github.com/your-org/bookstore-backend/internal/domain/coupon"
)

// Kind classifies checkout failures so handlers can map them to
// precise responses
type Kind string

const (
	KindEmptyCart            Kind = "empty_cart"
	KindInsufficientStock    Kind = "insufficient_stock"
	KindCouponNotFound       Kind = "coupon_not_found"
	KindCouponUnavailable    Kind = "coupon_unavailable"
	KindCouponBelowThreshold Kind = "coupon_below_threshold"
	KindAmbiguousVendor      Kind = "ambiguous_vendor"
	KindPersistenceFailure   Kind = "persistence_failure"
)

// Error is the typed checkout failure. Exactly one is returned per
// failed attempt; the whole attempt rolls back.
type Error struct {
	Kind    Kind
	Message string

	// Set for KindInsufficientStock
	BookID    uint
	BookTitle string

	// Set for KindCouponUnavailable
	Reason coupon.UnavailableReason

	// Set for KindCouponBelowThreshold
	MinimumOrderAmount int64

	// Wrapped cause for KindPersistenceFailure
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// IsKind reports whether err is a checkout Error of the given kind
func IsKind(err error, kind Kind) bool {
	var ce *Error
	return errors.As(err, &ce) && ce.Kind == kind
}

func emptyCartError() *Error {
	return &Error{Kind: KindEmptyCart, Message: "cart is empty"}
}

func insufficientStockError(bookID uint, title string) *Error {
	return &Error{
		Kind:      KindInsufficientStock,
		Message:   fmt.Sprintf("insufficient stock for %q", title),
		BookID:    bookID,
		BookTitle: title,
	}
}

func couponNotFoundError(code string) *Error {
	return &Error{
		Kind:    KindCouponNotFound,
		Message: fmt.Sprintf("coupon %q not found", code),
	}
}

func couponUnavailableError(code string, reason coupon.UnavailableReason) *Error {
	return &Error{
		Kind:    KindCouponUnavailable,
		Message: fmt.Sprintf("coupon %q is not available (%s)", code, reason),
		Reason:  reason,
	}
}

func couponBelowThresholdError(code string, minimum int64) *Error {
	return &Error{
		Kind:               KindCouponBelowThreshold,
		Message:            fmt.Sprintf("order subtotal is below the %d minimum for coupon %q", minimum, code),
		MinimumOrderAmount: minimum,
	}
}

func ambiguousVendorError() *Error {
	return &Error{
		Kind:    KindAmbiguousVendor,
		Message: "cart contains books from more than one vendor",
	}
}

func persistenceError(msg string, err error) *Error {
	return &Error{Kind: KindPersistenceFailure, Message: msg, Err: err}
}
