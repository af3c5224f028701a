// internal/domain/coupon/entity_test.go
package coupon

import (
	"testing"
	"time"

	"gorm.io/gorm"
)

func intPtr(v int) *int            { return &v }
func timePtr(t time.Time) *time.Time { return &t }

func TestAvailability(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		coupon     Coupon
		wantOK     bool
		wantReason UnavailableReason
	}{
		{
			name: "active window no limit",
			coupon: Coupon{
				ValidFrom: now.Add(-time.Hour),
			},
			wantOK: true,
		},
		{
			name: "not started yet",
			coupon: Coupon{
				ValidFrom: now.Add(time.Hour),
			},
			wantOK:     false,
			wantReason: ReasonNotStarted,
		},
		{
			name: "expired",
			coupon: Coupon{
				ValidFrom:  now.Add(-48 * time.Hour),
				ValidUntil: timePtr(now.Add(-time.Hour)),
			},
			wantOK:     false,
			wantReason: ReasonExpired,
		},
		{
			name: "usage limit reached",
			coupon: Coupon{
				ValidFrom:  now.Add(-time.Hour),
				UsageLimit: intPtr(5),
				UsedCount:  5,
			},
			wantOK:     false,
			wantReason: ReasonExhausted,
		},
		{
			name: "one use remaining",
			coupon: Coupon{
				ValidFrom:  now.Add(-time.Hour),
				UsageLimit: intPtr(5),
				UsedCount:  4,
			},
			wantOK: true,
		},
		{
			name: "soft deleted",
			coupon: Coupon{
				ValidFrom: now.Add(-time.Hour),
				DeletedAt: gorm.DeletedAt{Time: now.Add(-time.Minute), Valid: true},
			},
			wantOK:     false,
			wantReason: ReasonDeleted,
		},
		{
			name: "valid exactly at start",
			coupon: Coupon{
				ValidFrom: now,
			},
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, reason := tt.coupon.Availability(now)
			if ok != tt.wantOK {
				t.Errorf("Availability() ok = %v, want %v", ok, tt.wantOK)
			}
			if reason != tt.wantReason {
				t.Errorf("Availability() reason = %q, want %q", reason, tt.wantReason)
			}
		})
	}
}

func TestDiscountFor(t *testing.T) {
	tests := []struct {
		name     string
		coupon   Coupon
		subtotal int64
		want     int64
	}{
		{
			name:     "ten percent",
			coupon:   Coupon{DiscountType: DiscountTypePercent, DiscountValue: 10},
			subtotal: 1280,
			want:     128,
		},
		{
			name:     "percentage truncates toward zero",
			coupon:   Coupon{DiscountType: DiscountTypePercent, DiscountValue: 15},
			subtotal: 999,
			want:     149, // 149.85 truncated
		},
		{
			name:     "fixed amount",
			coupon:   Coupon{DiscountType: DiscountTypeFixed, DiscountValue: 200},
			subtotal: 1500,
			want:     200,
		},
		{
			name:     "fixed amount clamped to subtotal",
			coupon:   Coupon{DiscountType: DiscountTypeFixed, DiscountValue: 500},
			subtotal: 300,
			want:     300,
		},
		{
			name:     "hundred percent equals subtotal",
			coupon:   Coupon{DiscountType: DiscountTypePercent, DiscountValue: 100},
			subtotal: 750,
			want:     750,
		},
		{
			name:     "unknown type gives nothing",
			coupon:   Coupon{DiscountType: "bogus", DiscountValue: 50},
			subtotal: 1000,
			want:     0,
		},
		{
			name:     "zero subtotal",
			coupon:   Coupon{DiscountType: DiscountTypePercent, DiscountValue: 25},
			subtotal: 0,
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.coupon.DiscountFor(tt.subtotal)
			if got != tt.want {
				t.Errorf("DiscountFor(%d) = %d, want %d", tt.subtotal, got, tt.want)
			}
		})
	}
}

func TestMeetsThreshold(t *testing.T) {
	c := Coupon{MinimumOrderAmount: 500}

	if c.MeetsThreshold(499) {
		t.Error("subtotal below minimum should not meet threshold")
	}
	if !c.MeetsThreshold(500) {
		t.Error("subtotal equal to minimum should meet threshold")
	}
	if !c.MeetsThreshold(501) {
		t.Error("subtotal above minimum should meet threshold")
	}
}
