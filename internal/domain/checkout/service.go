// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"time"

	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
	"github.com/your-org/bookstore-backend/internal/domain/coupon"
	"github.com/your-org/bookstore-backend/internal/domain/order"
)

// Service converts a cart into an order, enforcing stock, pricing and
// coupon rules inside one transaction
type Service struct {
	store  Store
	config *config.Config
	now    func() time.Time
}

// NewService creates a new checkout service
func NewService(store Store, cfg *config.Config) *Service {
	return &Service{
		store:  store,
		config: cfg,
		now:    time.Now,
	}
}

// PlaceOrderRequest represents the checkout input
type PlaceOrderRequest struct {
	CouponCode    string `json:"coupon_code"`
	PaymentMethod string `json:"payment_method" binding:"required,oneof=cod card wallet"`
}

// PlaceOrder turns the buyer's cart into an order. Either every effect
// happens (stock decremented, coupon redeemed, order created, cart
// cleared) or none does; on failure the cart is untouched and the
// buyer may retry.
func (s *Service) PlaceOrder(ctx context.Context, buyerID uint, req *PlaceOrderRequest) (*order.Order, error) {
	var placed *order.Order

	err := s.store.InTransaction(ctx, func(tx Store) error {
		c, err := tx.LoadCart(ctx, buyerID)
		if err != nil {
			return persistenceError("failed to load cart", err)
		}
		if c.IsEmpty() {
			return emptyCartError()
		}

		vendorID, err := resolveVendor(c)
		if err != nil {
			return err
		}

		// Fail fast on stock before evaluating anything else; the
		// conditional decrement below remains the authoritative guard
		for _, line := range c.Lines {
			if !line.Book.HasStock(line.Quantity) {
				return insufficientStockError(line.BookID, line.Book.Title)
			}
		}

		subtotal := c.SubtotalAmount()

		var appliedCoupon *coupon.Coupon
		var discount int64
		if req.CouponCode != "" {
			appliedCoupon, discount, err = s.evaluateCoupon(ctx, tx, req.CouponCode, subtotal)
			if err != nil {
				return err
			}
		}

		total := subtotal - discount
		if total < 0 {
			total = 0
		}
		total += s.config.Checkout.ShippingFee

		for _, line := range c.Lines {
			ok, err := tx.DecrementStock(ctx, line.BookID, line.Quantity)
			if err != nil {
				return persistenceError("failed to reserve stock", err)
			}
			if !ok {
				title := ""
				if line.Book != nil {
					title = line.Book.Title
				}
				return insufficientStockError(line.BookID, title)
			}
		}

		if appliedCoupon != nil {
			ok, err := tx.RedeemCoupon(ctx, appliedCoupon.ID)
			if err != nil {
				return persistenceError("failed to redeem coupon", err)
			}
			if !ok {
				// A concurrent checkout took the last use
				return couponUnavailableError(appliedCoupon.Code, coupon.ReasonExhausted)
			}
		}

		seq, err := tx.NextOrderSequence(ctx)
		if err != nil {
			return persistenceError("failed to allocate order number", err)
		}

		placedAt := s.now().UTC()
		o := &order.Order{
			OrderNumber:    order.GenerateOrderNumber(placedAt, seq),
			BuyerID:        buyerID,
			VendorID:       vendorID,
			SubtotalAmount: subtotal,
			DiscountAmount: discount,
			ShippingFee:    s.config.Checkout.ShippingFee,
			TotalAmount:    total,
			PaymentMethod:  req.PaymentMethod,
			Status:         order.StatusReceived,
			PlacedAt:       placedAt,
			Details:        buildDetails(c),
		}
		if appliedCoupon != nil {
			o.CouponID = &appliedCoupon.ID
			o.CouponCode = appliedCoupon.Code
		}

		if err := tx.CreateOrder(ctx, o); err != nil {
			return persistenceError("failed to create order", err)
		}

		if err := tx.ClearCart(ctx, c.ID); err != nil {
			return persistenceError("failed to clear cart", err)
		}

		placed = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	return placed, nil
}

// Preview computes the totals an order would have without placing it
type Preview struct {
	Subtotal    int64  `json:"subtotal"`
	Discount    int64  `json:"discount"`
	ShippingFee int64  `json:"shipping_fee"`
	Total       int64  `json:"total"`
	CouponCode  string `json:"coupon_code,omitempty"`
}

// PreviewOrder evaluates the cart and an optional coupon without
// touching stock or usage counts
func (s *Service) PreviewOrder(ctx context.Context, buyerID uint, couponCode string) (*Preview, error) {
	c, err := s.store.LoadCart(ctx, buyerID)
	if err != nil {
		return nil, persistenceError("failed to load cart", err)
	}
	if c.IsEmpty() {
		return nil, emptyCartError()
	}
	if _, err := resolveVendor(c); err != nil {
		return nil, err
	}

	subtotal := c.SubtotalAmount()

	var discount int64
	var code string
	if couponCode != "" {
		applied, d, err := s.evaluateCoupon(ctx, s.store, couponCode, subtotal)
		if err != nil {
			return nil, err
		}
		discount = d
		code = applied.Code
	}

	total := subtotal - discount
	if total < 0 {
		total = 0
	}
	total += s.config.Checkout.ShippingFee

	return &Preview{
		Subtotal:    subtotal,
		Discount:    discount,
		ShippingFee: s.config.Checkout.ShippingFee,
		Total:       total,
		CouponCode:  code,
	}, nil
}

// evaluateCoupon resolves a code and computes the discount it grants
// against the subtotal. Redemption is deferred until the order is
// committed.
func (s *Service) evaluateCoupon(ctx context.Context, tx Store, code string, subtotal int64) (*coupon.Coupon, int64, error) {
	cp, err := tx.FindCoupon(ctx, code)
	if err != nil {
		return nil, 0, persistenceError("failed to look up coupon", err)
	}
	if cp == nil {
		return nil, 0, couponNotFoundError(code)
	}

	if ok, reason := cp.Availability(s.now().UTC()); !ok {
		return nil, 0, couponUnavailableError(cp.Code, reason)
	}
	if !cp.MeetsThreshold(subtotal) {
		return nil, 0, couponBelowThresholdError(cp.Code, cp.MinimumOrderAmount)
	}

	return cp, cp.DiscountFor(subtotal), nil
}

// resolveVendor determines the selling vendor from the cart's books.
// Every line must belong to the same vendor; a line whose book is gone
// or carries no vendor leaves the order without a determinable seller.
func resolveVendor(c *cart.Cart) (uint, error) {
	var vendorID uint
	for i, line := range c.Lines {
		if line.Book == nil || line.Book.VendorID == 0 {
			return 0, ambiguousVendorError()
		}
		if i == 0 {
			vendorID = line.Book.VendorID
			continue
		}
		if line.Book.VendorID != vendorID {
			return 0, ambiguousVendorError()
		}
	}
	return vendorID, nil
}

// buildDetails snapshots the cart lines into order details
func buildDetails(c *cart.Cart) []order.OrderDetail {
	details := make([]order.OrderDetail, 0, len(c.Lines))
	for _, line := range c.Lines {
		title := ""
		if line.Book != nil {
			title = line.Book.Title
		}
		details = append(details, order.OrderDetail{
			BookID:     line.BookID,
			Title:      title,
			Quantity:   line.Quantity,
			PiecePrice: line.UnitPrice,
		})
	}
	return details
}
