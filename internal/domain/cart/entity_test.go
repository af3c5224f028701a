// internal/domain/cart/entity_test.go
package cart

import "testing"

func TestSubtotal(t *testing.T) {
	l := CartLine{Quantity: 3, UnitPrice: 450}
	if got := l.Subtotal(); got != 1350 {
		t.Errorf("Subtotal() = %d, want 1350", got)
	}
}

func TestCartTotals(t *testing.T) {
	c := Cart{
		Lines: []CartLine{
			{Quantity: 2, UnitPrice: 450},
			{Quantity: 1, UnitPrice: 380},
		},
	}

	if c.IsEmpty() {
		t.Error("cart with lines reported empty")
	}
	if got := c.ItemCount(); got != 3 {
		t.Errorf("ItemCount() = %d, want 3", got)
	}
	if got := c.SubtotalAmount(); got != 1280 {
		t.Errorf("SubtotalAmount() = %d, want 1280", got)
	}
}

func TestEmptyCart(t *testing.T) {
	c := Cart{}
	if !c.IsEmpty() {
		t.Error("cart without lines reported non-empty")
	}
	if got := c.SubtotalAmount(); got != 0 {
		t.Errorf("SubtotalAmount() = %d, want 0", got)
	}
}
