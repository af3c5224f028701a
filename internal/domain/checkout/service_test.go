// internal/domain/checkout/service_test.go
package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/book"
	"github.com/your-org/bookstore-backend/internal/domain/cart"
	"github.com/your-org/bookstore-backend/internal/domain/coupon"
	"github.com/your-org/bookstore-backend/internal/domain/order"
	"gorm.io/gorm"
)

// memStore is an in-memory Store used by the tests. InTransaction
// serializes callers and restores a snapshot on error, mirroring the
// database transaction's rollback.
type memStore struct {
	mu      sync.Mutex
	books    map[uint]*book.Book
	carts    map[uint]*cart.Cart // keyed by buyer ID
	coupons  map[uint]*coupon.Coupon
	orders   []*order.Order
	nextID   uint
	orderSeq int64
}

func newMemStore() *memStore {
	return &memStore{
		books:   map[uint]*book.Book{},
		carts:   map[uint]*cart.Cart{},
		coupons: map[uint]*coupon.Coupon{},
		nextID:  1,
	}
}

// snapshot deep-copies the mutable state
func (m *memStore) snapshot() (map[uint]*book.Book, map[uint]*cart.Cart, map[uint]*coupon.Coupon, int) {
	books := make(map[uint]*book.Book, len(m.books))
	for id, b := range m.books {
		cp := *b
		books[id] = &cp
	}
	carts := make(map[uint]*cart.Cart, len(m.carts))
	for id, c := range m.carts {
		cp := *c
		cp.Lines = append([]cart.CartLine(nil), c.Lines...)
		carts[id] = &cp
	}
	coupons := make(map[uint]*coupon.Coupon, len(m.coupons))
	for id, c := range m.coupons {
		cp := *c
		if c.UsageLimit != nil {
			limit := *c.UsageLimit
			cp.UsageLimit = &limit
		}
		coupons[id] = &cp
	}
	return books, carts, coupons, len(m.orders)
}

func (m *memStore) InTransaction(ctx context.Context, fn func(tx Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	books, carts, coupons, orderCount := m.snapshot()
	if err := fn((*txMemStore)(m)); err != nil {
		m.books = books
		m.carts = carts
		m.coupons = coupons
		m.orders = m.orders[:orderCount]
		return err
	}
	return nil
}

func (m *memStore) LoadCart(ctx context.Context, buyerID uint) (*cart.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (*txMemStore)(m).LoadCart(ctx, buyerID)
}

func (m *memStore) FindCoupon(ctx context.Context, code string) (*coupon.Coupon, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (*txMemStore)(m).FindCoupon(ctx, code)
}

func (m *memStore) DecrementStock(ctx context.Context, bookID uint, quantity int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (*txMemStore)(m).DecrementStock(ctx, bookID, quantity)
}

func (m *memStore) RedeemCoupon(ctx context.Context, couponID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (*txMemStore)(m).RedeemCoupon(ctx, couponID)
}

func (m *memStore) NextOrderSequence(ctx context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (*txMemStore)(m).NextOrderSequence(ctx)
}

func (m *memStore) CreateOrder(ctx context.Context, o *order.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (*txMemStore)(m).CreateOrder(ctx, o)
}

func (m *memStore) ClearCart(ctx context.Context, cartID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (*txMemStore)(m).ClearCart(ctx, cartID)
}

// txMemStore is the unlocked view handed to InTransaction callbacks
type txMemStore memStore

func (m *txMemStore) InTransaction(ctx context.Context, fn func(tx Store) error) error {
	return fn(m)
}

func (m *txMemStore) LoadCart(ctx context.Context, buyerID uint) (*cart.Cart, error) {
	c, ok := m.carts[buyerID]
	if !ok {
		return &cart.Cart{UserID: buyerID}, nil
	}
	loaded := *c
	loaded.Lines = append([]cart.CartLine(nil), c.Lines...)
	for i := range loaded.Lines {
		loaded.Lines[i].Book = m.books[loaded.Lines[i].BookID]
	}
	return &loaded, nil
}

func (m *txMemStore) FindCoupon(ctx context.Context, code string) (*coupon.Coupon, error) {
	// Soft-deleted coupons are still found; availability decides
	for _, c := range m.coupons {
		if c.Code == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *txMemStore) DecrementStock(ctx context.Context, bookID uint, quantity int) (bool, error) {
	b, ok := m.books[bookID]
	if !ok || b.Stock < quantity {
		return false, nil
	}
	b.Stock -= quantity
	return true, nil
}

func (m *txMemStore) RedeemCoupon(ctx context.Context, couponID uint) (bool, error) {
	c, ok := m.coupons[couponID]
	if !ok {
		return false, nil
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return false, nil
	}
	c.UsedCount++
	return true, nil
}

// NextOrderSequence mimics a database sequence: values are handed out
// once and never reused, regardless of rollback
func (m *txMemStore) NextOrderSequence(ctx context.Context) (int64, error) {
	m.orderSeq++
	return m.orderSeq, nil
}

func (m *txMemStore) CreateOrder(ctx context.Context, o *order.Order) error {
	o.ID = m.nextID
	m.nextID++
	m.orders = append(m.orders, o)
	return nil
}

func (m *txMemStore) ClearCart(ctx context.Context, cartID uint) error {
	for _, c := range m.carts {
		if c.ID == cartID {
			c.Lines = nil
		}
	}
	return nil
}

// Test fixture helpers

var testTime = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestService(store Store) *Service {
	cfg := &config.Config{}
	cfg.Checkout.ShippingFee = 60
	svc := NewService(store, cfg)
	svc.now = func() time.Time { return testTime }
	return svc
}

func seedBook(m *memStore, id uint, title string, vendorID uint, price int64, stock int) {
	m.books[id] = &book.Book{ID: id, Title: title, VendorID: vendorID, Price: price, Stock: stock, IsActive: true}
}

func seedCart(m *memStore, buyerID uint, lines ...cart.CartLine) {
	c := &cart.Cart{ID: buyerID * 100, UserID: buyerID, Lines: lines}
	for i := range c.Lines {
		c.Lines[i].CartID = c.ID
	}
	m.carts[buyerID] = c
}

func line(bookID uint, quantity int, unitPrice int64) cart.CartLine {
	return cart.CartLine{BookID: bookID, Quantity: quantity, UnitPrice: unitPrice}
}

func intPtr(v int) *int { return &v }

func checkoutKind(t *testing.T, err error, want Kind) *Error {
	t.Helper()
	var ce *Error
	if !errors.As(err, &ce) {
		t.Fatalf("expected checkout error, got %v", err)
	}
	if ce.Kind != want {
		t.Fatalf("error kind = %s, want %s", ce.Kind, want)
	}
	return ce
}

func TestPlaceOrderComputesTotals(t *testing.T) {
	m := newMemStore()
	seedBook(m, 1, "The Go Programming Language", 7, 450, 5)
	seedBook(m, 2, "Designing Data-Intensive Applications", 7, 380, 2)
	seedCart(m, 42, line(1, 2, 450), line(2, 1, 380))

	svc := newTestService(m)
	o, err := svc.PlaceOrder(context.Background(), 42, &PlaceOrderRequest{PaymentMethod: "cod"})
	if err != nil {
		t.Fatalf("PlaceOrder() error = %v", err)
	}

	if o.SubtotalAmount != 1280 {
		t.Errorf("subtotal = %d, want 1280", o.SubtotalAmount)
	}
	if o.DiscountAmount != 0 {
		t.Errorf("discount = %d, want 0", o.DiscountAmount)
	}
	if o.ShippingFee != 60 {
		t.Errorf("shipping fee = %d, want 60", o.ShippingFee)
	}
	if o.TotalAmount != 1340 {
		t.Errorf("total = %d, want 1340", o.TotalAmount)
	}
	if o.Status != order.StatusReceived {
		t.Errorf("status = %s, want %s", o.Status, order.StatusReceived)
	}
	if o.VendorID != 7 {
		t.Errorf("vendor = %d, want 7", o.VendorID)
	}
	if len(o.Details) != 2 {
		t.Fatalf("details = %d entries, want 2", len(o.Details))
	}
	if o.Details[0].Title != "The Go Programming Language" || o.Details[0].PiecePrice != 450 {
		t.Errorf("first detail not frozen correctly: %+v", o.Details[0])
	}

	if m.books[1].Stock != 3 {
		t.Errorf("book 1 stock = %d, want 3", m.books[1].Stock)
	}
	if m.books[2].Stock != 1 {
		t.Errorf("book 2 stock = %d, want 1", m.books[2].Stock)
	}
	if len(m.carts[42].Lines) != 0 {
		t.Errorf("cart should be empty after checkout, has %d lines", len(m.carts[42].Lines))
	}
}

func TestPlaceOrderAppliesPercentCoupon(t *testing.T) {
	m := newMemStore()
	seedBook(m, 1, "Clean Architecture", 7, 640, 10)
	seedCart(m, 42, line(1, 2, 640))
	m.coupons[5] = &coupon.Coupon{
		ID: 5, Code: "SUMMER10", VendorID: 7,
		DiscountType: coupon.DiscountTypePercent, DiscountValue: 10,
		ValidFrom: testTime.Add(-time.Hour),
	}

	svc := newTestService(m)
	o, err := svc.PlaceOrder(context.Background(), 42, &PlaceOrderRequest{
		CouponCode: "SUMMER10", PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("PlaceOrder() error = %v", err)
	}

	if o.DiscountAmount != 128 {
		t.Errorf("discount = %d, want 128", o.DiscountAmount)
	}
	if o.TotalAmount != 1280-128+60 {
		t.Errorf("total = %d, want %d", o.TotalAmount, 1280-128+60)
	}
	if o.CouponCode != "SUMMER10" || o.CouponID == nil || *o.CouponID != 5 {
		t.Errorf("coupon not recorded on order: code=%q id=%v", o.CouponCode, o.CouponID)
	}
	if m.coupons[5].UsedCount != 1 {
		t.Errorf("used count = %d, want 1", m.coupons[5].UsedCount)
	}
}

func TestPlaceOrderClampsDiscountToSubtotal(t *testing.T) {
	m := newMemStore()
	seedBook(m, 1, "Short Stories", 7, 300, 5)
	seedCart(m, 42, line(1, 1, 300))
	m.coupons[5] = &coupon.Coupon{
		ID: 5, Code: "BIGFIXED", VendorID: 7,
		DiscountType: coupon.DiscountTypeFixed, DiscountValue: 5000,
		ValidFrom: testTime.Add(-time.Hour),
	}

	svc := newTestService(m)
	o, err := svc.PlaceOrder(context.Background(), 42, &PlaceOrderRequest{
		CouponCode: "BIGFIXED", PaymentMethod: "cod",
	})
	if err != nil {
		t.Fatalf("PlaceOrder() error = %v", err)
	}

	if o.DiscountAmount != 300 {
		t.Errorf("discount = %d, want clamp to subtotal 300", o.DiscountAmount)
	}
	if o.TotalAmount != 60 {
		t.Errorf("total = %d, want shipping fee only (60)", o.TotalAmount)
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	m := newMemStore()
	svc := newTestService(m)

	_, err := svc.PlaceOrder(context.Background(), 42, &PlaceOrderRequest{PaymentMethod: "cod"})
	checkoutKind(t, err, KindEmptyCart)
}

func TestPlaceOrderInsufficientStockRollsBack(t *testing.T) {
	m := newMemStore()
	seedBook(m, 1, "In Stock", 7, 200, 10)
	seedBook(m, 2, "Nearly Gone", 7, 500, 1)
	seedCart(m, 42, line(1, 2, 200), line(2, 3, 500))

	svc := newTestService(m)
	_, err := svc.PlaceOrder(context.Background(), 42, &PlaceOrderRequest{PaymentMethod: "cod"})
	ce := checkoutKind(t, err, KindInsufficientStock)
	if ce.BookID != 2 {
		t.Errorf("failing book = %d, want 2", ce.BookID)
	}

	// The first line's decrement must be rolled back
	if m.books[1].Stock != 10 {
		t.Errorf("book 1 stock = %d, want 10 after rollback", m.books[1].Stock)
	}
	if m.books[2].Stock != 1 {
		t.Errorf("book 2 stock = %d, want 1 after rollback", m.books[2].Stock)
	}
	if len(m.carts[42].Lines) != 2 {
		t.Errorf("cart should be intact after failed checkout, has %d lines", len(m.carts[42].Lines))
	}
	if len(m.orders) != 0 {
		t.Errorf("no order should exist, found %d", len(m.orders))
	}
}

func TestPlaceOrderCouponErrors(t *testing.T) {
	setup := func() *memStore {
		m := newMemStore()
		seedBook(m, 1, "A Book", 7, 400, 10)
		seedCart(m, 42, line(1, 1, 400))
		return m
	}

	t.Run("not found", func(t *testing.T) {
		m := setup()
		svc := newTestService(m)
		_, err := svc.PlaceOrder(context.Background(), 42, &PlaceOrderRequest{
			CouponCode: "NOPE", PaymentMethod: "cod",
		})
		checkoutKind(t, err, KindCouponNotFound)
	})

	t.Run("expired", func(t *testing.T) {
		m := setup()
		until := testTime.Add(-time.Hour)
		m.coupons[5] = &coupon.Coupon{
			ID: 5, Code: "OLD", DiscountType: coupon.DiscountTypePercent, DiscountValue: 10,
			ValidFrom: testTime.Add(-48 * time.Hour), ValidUntil: &until,
		}
		svc := newTestService(m)
		_, err := svc.PlaceOrder(context.Background(), 42, &PlaceOrderRequest{
			CouponCode: "OLD", PaymentMethod: "cod",
		})
		ce := checkoutKind(t, err, KindCouponUnavailable)
		if ce.Reason != coupon.ReasonExpired {
			t.Errorf("reason = %s, want %s", ce.Reason, coupon.ReasonExpired)
		}
	})

	t.Run("not started", func(t *testing.T) {
		m := setup()
		m.coupons[5] = &coupon.Coupon{
			ID: 5, Code: "SOON", DiscountType: coupon.DiscountTypePercent, DiscountValue: 10,
			ValidFrom: testTime.Add(time.Hour),
		}
		svc := newTestService(m)
		_, err := svc.PlaceOrder(context.Background(), 42, &PlaceOrderRequest{
			CouponCode: "SOON", PaymentMethod: "cod",
		})
		ce := checkoutKind(t, err, KindCouponUnavailable)
		if ce.Reason != coupon.ReasonNotStarted {
			t.Errorf("reason = %s, want %s", ce.Reason, coupon.ReasonNotStarted)
		}
	})

	t.Run("deleted", func(t *testing.T) {
		m := setup()
		m.coupons[5] = &coupon.Coupon{
			ID: 5, Code: "GONE", DiscountType: coupon.DiscountTypePercent, DiscountValue: 10,
			ValidFrom: testTime.Add(-time.Hour),
			DeletedAt: gorm.DeletedAt{Time: testTime.Add(-time.Minute), Valid: true},
		}
		svc := newTestService(m)
		_, err := svc.PlaceOrder(context.Background(), 42, &PlaceOrderRequest{
			CouponCode: "GONE", PaymentMethod: "cod",
		})
		ce := checkoutKind(t, err, KindCouponUnavailable)
		if ce.Reason != coupon.ReasonDeleted {
			t.Errorf("reason = %s, want %s", ce.Reason, coupon.ReasonDeleted)
		}
	})

	t.Run("below threshold", func(t *testing.T) {
		m := setup()
		m.coupons[5] = &coupon.Coupon{
			ID: 5, Code: "MIN1000", DiscountType: coupon.DiscountTypePercent, DiscountValue: 10,
			MinimumOrderAmount: 1000, ValidFrom: testTime.Add(-time.Hour),
		}
		svc := newTestService(m)
		_, err := svc.PlaceOrder(context.Background(), 42, &PlaceOrderRequest{
			CouponCode: "MIN1000", PaymentMethod: "cod",
		})
		ce := checkoutKind(t, err, KindCouponBelowThreshold)
		if ce.MinimumOrderAmount != 1000 {
			t.Errorf("minimum = %d, want 1000", ce.MinimumOrderAmount)
		}
		// Failed coupon must not consume stock
		if m.books[1].Stock != 10 {
			t.Errorf("stock = %d, want 10", m.books[1].Stock)
		}
	})
}

func TestPlaceOrderUsageLimit(t *testing.T) {
	m := newMemStore()
	seedBook(m, 1, "Popular Title", 7, 800, 10)
	seedCart(m, 1, line(1, 1, 800))
	seedCart(m, 2, line(1, 1, 800))
	m.coupons[5] = &coupon.Coupon{
		ID: 5, Code: "ONCE", DiscountType: coupon.DiscountTypeFixed, DiscountValue: 100,
		ValidFrom: testTime.Add(-time.Hour), UsageLimit: intPtr(1),
	}

	svc := newTestService(m)
	req := &PlaceOrderRequest{CouponCode: "ONCE", PaymentMethod: "cod"}

	if _, err := svc.PlaceOrder(context.Background(), 1, req); err != nil {
		t.Fatalf("first redemption failed: %v", err)
	}

	_, err := svc.PlaceOrder(context.Background(), 2, req)
	ce := checkoutKind(t, err, KindCouponUnavailable)
	if ce.Reason != coupon.ReasonExhausted {
		t.Errorf("reason = %s, want %s", ce.Reason, coupon.ReasonExhausted)
	}
	if m.coupons[5].UsedCount != 1 {
		t.Errorf("used count = %d, want 1", m.coupons[5].UsedCount)
	}
	// The loser keeps their cart
	if len(m.carts[2].Lines) != 1 {
		t.Errorf("second buyer's cart should be intact")
	}
}

func TestPlaceOrderAmbiguousVendor(t *testing.T) {
	t.Run("mixed vendors", func(t *testing.T) {
		m := newMemStore()
		seedBook(m, 1, "From Vendor A", 7, 400, 5)
		seedBook(m, 2, "From Vendor B", 8, 300, 5)
		seedCart(m, 42, line(1, 1, 400), line(2, 1, 300))

		svc := newTestService(m)
		_, err := svc.PlaceOrder(context.Background(), 42, &PlaceOrderRequest{PaymentMethod: "cod"})
		checkoutKind(t, err, KindAmbiguousVendor)
	})

	t.Run("line without a book", func(t *testing.T) {
		m := newMemStore()
		seedBook(m, 1, "Still Listed", 7, 400, 5)
		seedCart(m, 42, line(1, 1, 400), line(99, 1, 300))

		svc := newTestService(m)
		_, err := svc.PlaceOrder(context.Background(), 42, &PlaceOrderRequest{PaymentMethod: "cod"})
		checkoutKind(t, err, KindAmbiguousVendor)
	})

	t.Run("book without a vendor", func(t *testing.T) {
		m := newMemStore()
		seedBook(m, 1, "Orphaned", 0, 400, 5)
		seedCart(m, 42, line(1, 1, 400))

		svc := newTestService(m)
		_, err := svc.PlaceOrder(context.Background(), 42, &PlaceOrderRequest{PaymentMethod: "cod"})
		checkoutKind(t, err, KindAmbiguousVendor)
	})
}

func TestPlaceOrderLastUnitRace(t *testing.T) {
	m := newMemStore()
	seedBook(m, 1, "Last Copy", 7, 900, 1)
	seedCart(m, 1, line(1, 1, 900))
	seedCart(m, 2, line(1, 1, 900))

	svc := newTestService(m)
	req := &PlaceOrderRequest{PaymentMethod: "cod"}

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i, buyer := range []uint{1, 2} {
		wg.Add(1)
		go func(i int, buyer uint) {
			defer wg.Done()
			_, results[i] = svc.PlaceOrder(context.Background(), buyer, req)
		}(i, buyer)
	}
	wg.Wait()

	var successes, stockFailures int
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case IsKind(err, KindInsufficientStock):
			stockFailures++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if successes != 1 || stockFailures != 1 {
		t.Fatalf("got %d successes and %d stock failures, want exactly 1 of each", successes, stockFailures)
	}
	if m.books[1].Stock != 0 {
		t.Errorf("stock = %d, want 0", m.books[1].Stock)
	}
	if len(m.orders) != 1 {
		t.Errorf("orders = %d, want 1", len(m.orders))
	}
}

func TestPlaceOrderNumbersAreUnique(t *testing.T) {
	m := newMemStore()
	seedBook(m, 1, "Well Stocked", 7, 100, 10)
	seedCart(m, 1, line(1, 1, 100))
	seedCart(m, 2, line(1, 1, 100))

	svc := newTestService(m)
	req := &PlaceOrderRequest{PaymentMethod: "cod"}

	o1, err := svc.PlaceOrder(context.Background(), 1, req)
	if err != nil {
		t.Fatalf("first checkout failed: %v", err)
	}
	o2, err := svc.PlaceOrder(context.Background(), 2, req)
	if err != nil {
		t.Fatalf("second checkout failed: %v", err)
	}

	if o1.OrderNumber == o2.OrderNumber {
		t.Errorf("both orders got number %s", o1.OrderNumber)
	}
}

func TestPreviewOrderDoesNotMutate(t *testing.T) {
	m := newMemStore()
	seedBook(m, 1, "Previewed", 7, 500, 3)
	seedCart(m, 42, line(1, 2, 500))
	m.coupons[5] = &coupon.Coupon{
		ID: 5, Code: "PREVIEW", DiscountType: coupon.DiscountTypePercent, DiscountValue: 20,
		ValidFrom: testTime.Add(-time.Hour), UsageLimit: intPtr(10),
	}

	svc := newTestService(m)
	p, err := svc.PreviewOrder(context.Background(), 42, "PREVIEW")
	if err != nil {
		t.Fatalf("PreviewOrder() error = %v", err)
	}

	if p.Subtotal != 1000 || p.Discount != 200 || p.Total != 860 {
		t.Errorf("preview = %+v, want subtotal 1000, discount 200, total 860", p)
	}
	if m.books[1].Stock != 3 {
		t.Errorf("preview changed stock: %d", m.books[1].Stock)
	}
	if m.coupons[5].UsedCount != 0 {
		t.Errorf("preview redeemed coupon: used count %d", m.coupons[5].UsedCount)
	}
	if len(m.carts[42].Lines) != 1 {
		t.Errorf("preview changed the cart")
	}
}

func TestPlaceOrderIsRepeatableAfterFailure(t *testing.T) {
	m := newMemStore()
	seedBook(m, 1, "Restocked Later", 7, 250, 0)
	seedCart(m, 42, line(1, 1, 250))

	svc := newTestService(m)
	req := &PlaceOrderRequest{PaymentMethod: "cod"}

	_, err := svc.PlaceOrder(context.Background(), 42, req)
	checkoutKind(t, err, KindInsufficientStock)

	// Vendor restocks; the untouched cart can simply be retried
	m.books[1].Stock = 2
	o, err := svc.PlaceOrder(context.Background(), 42, req)
	if err != nil {
		t.Fatalf("retry after restock failed: %v", err)
	}
	if o.TotalAmount != 250+60 {
		t.Errorf("total = %d, want 310", o.TotalAmount)
	}
}
