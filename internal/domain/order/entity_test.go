// internal/domain/order/entity_test.go
package order

import (
	"testing"
	"time"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name   string
		from   Status
		to     Status
		want   bool
	}{
		{"received to processing", StatusReceived, StatusProcessing, true},
		{"processing to shipped", StatusProcessing, StatusShipped, true},
		{"shipped to completed", StatusShipped, StatusCompleted, true},
		{"received to shipped skips a step", StatusReceived, StatusShipped, false},
		{"shipped back to processing", StatusShipped, StatusProcessing, false},
		{"completed to anything", StatusCompleted, StatusProcessing, false},
		{"received to cancelled", StatusReceived, StatusCancelled, true},
		{"processing to cancelled", StatusProcessing, StatusCancelled, true},
		{"shipped to cancelled", StatusShipped, StatusCancelled, true},
		{"completed to cancelled", StatusCompleted, StatusCancelled, false},
		{"cancelled to cancelled", StatusCancelled, StatusCancelled, false},
		{"cancelled to processing", StatusCancelled, StatusProcessing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := Order{Status: tt.from}
			if got := o.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestCanBeCancelled(t *testing.T) {
	for _, s := range []Status{StatusReceived, StatusProcessing, StatusShipped} {
		o := Order{Status: s}
		if !o.CanBeCancelled() {
			t.Errorf("order in %s should be cancellable", s)
		}
	}
	for _, s := range []Status{StatusCompleted, StatusCancelled} {
		o := Order{Status: s}
		if o.CanBeCancelled() {
			t.Errorf("order in %s should not be cancellable", s)
		}
	}
}

func TestTerminalStatusesGuardCancellation(t *testing.T) {
	// The cancel update's WHERE clause excludes exactly the statuses
	// that CanBeCancelled rejects. If the two sets drift apart, a
	// cancellation could slip past the guard and restock twice.
	guarded := map[Status]bool{}
	for _, s := range terminalStatuses() {
		guarded[s] = true
	}

	all := []Status{StatusReceived, StatusProcessing, StatusShipped, StatusCompleted, StatusCancelled}
	for _, s := range all {
		o := Order{Status: s}
		if got, want := o.CanBeCancelled(), !guarded[s]; got != want {
			t.Errorf("status %s: CanBeCancelled() = %v but guard excludes it = %v", s, got, guarded[s])
		}
		if s.IsTerminal() != guarded[s] {
			t.Errorf("status %s: IsTerminal() = %v but guard excludes it = %v", s, s.IsTerminal(), guarded[s])
		}
	}
}

func TestLineTotal(t *testing.T) {
	d := OrderDetail{Quantity: 3, PiecePrice: 450}
	if got := d.LineTotal(); got != 1350 {
		t.Errorf("LineTotal() = %d, want 1350", got)
	}
}

func TestGenerateOrderNumber(t *testing.T) {
	placedAt := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	if got := GenerateOrderNumber(placedAt, 42); got != "ORD-20260615-00042" {
		t.Errorf("GenerateOrderNumber() = %q, want ORD-20260615-00042", got)
	}
	// Sequence wraps at five digits
	if got := GenerateOrderNumber(placedAt, 123456); got != "ORD-20260615-23456" {
		t.Errorf("GenerateOrderNumber() = %q, want ORD-20260615-23456", got)
	}
}
