// internal/domain/coupon/entity.go
package coupon

import (
	"time"

	"gorm.io/gorm"
)

// DiscountType represents how a coupon's value is interpreted
type DiscountType string

const (
	DiscountTypePercent DiscountType = "percent_off"
	DiscountTypeFixed   DiscountType = "fixed"
)

// UnavailableReason explains why a coupon cannot currently be applied
type UnavailableReason string

const (
	ReasonNotStarted UnavailableReason = "not_started"
	ReasonExpired    UnavailableReason = "expired"
	ReasonExhausted  UnavailableReason = "exhausted"
	ReasonDeleted    UnavailableReason = "deleted"
)

// Coupon represents a vendor-issued discount code
type Coupon struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	Code               string         `gorm:"uniqueIndex;not null;size:50" json:"code"`
	VendorID           uint           `gorm:"not null;index" json:"vendor_id"`
	DiscountType       DiscountType   `gorm:"not null;size:20" json:"discount_type"`
	DiscountValue      float64        `gorm:"not null" json:"discount_value"`
	MinimumOrderAmount int64          `gorm:"not null;default:0" json:"minimum_order_amount"`
	ValidFrom          time.Time      `gorm:"not null" json:"valid_from"`
	ValidUntil         *time.Time     `json:"valid_until"`
	UsageLimit         *int           `json:"usage_limit"` // nil means unlimited
	UsedCount          int            `gorm:"not null;default:0" json:"used_count"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Coupon) TableName() string { return "coupons" }

// Availability reports whether the coupon can be applied at the given
// instant, and if not, why. It does not consider the order subtotal;
// threshold checks are separate.
func (c *Coupon) Availability(now time.Time) (bool, UnavailableReason) {
	if c.DeletedAt.Valid {
		return false, ReasonDeleted
	}
	if now.Before(c.ValidFrom) {
		return false, ReasonNotStarted
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return false, ReasonExpired
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return false, ReasonExhausted
	}
	return true, ""
}

// MeetsThreshold reports whether the subtotal reaches the coupon's
// minimum order amount
func (c *Coupon) MeetsThreshold(subtotal int64) bool {
	return subtotal >= c.MinimumOrderAmount
}

// DiscountFor computes the discount amount for the given subtotal.
// Percentage discounts truncate toward zero; the result is clamped so
// it never exceeds the subtotal and is never negative.
func (c *Coupon) DiscountFor(subtotal int64) int64 {
	var discount int64
	switch c.DiscountType {
	case DiscountTypePercent:
		discount = int64(float64(subtotal) * c.DiscountValue / 100)
	case DiscountTypeFixed:
		discount = int64(c.DiscountValue)
	default:
		return 0
	}

	if discount < 0 {
		return 0
	}
	if discount > subtotal {
		return subtotal
	}
	return discount
}
