// internal/domain/order/entity.go
package order

import (
	"time"

	"gorm.io/gorm"
)

// Status represents the order lifecycle state
type Status string

const (
	StatusReceived   Status = "received"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// validTransitions defines the allowed forward moves of the lifecycle.
// Cancellation is handled separately: allowed from any non-terminal state.
var validTransitions = map[Status][]Status{
	StatusReceived:   {StatusProcessing},
	StatusProcessing: {StatusShipped},
	StatusShipped:    {StatusCompleted},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// Order represents a placed order. All amounts are in the smallest
// currency unit and are frozen at checkout time.
type Order struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	OrderNumber    string         `gorm:"uniqueIndex;not null;size:32" json:"order_number"`
	BuyerID        uint           `gorm:"not null;index" json:"buyer_id"`
	VendorID       uint           `gorm:"not null;index" json:"vendor_id"`
	SubtotalAmount int64          `gorm:"not null" json:"subtotal_amount"`
	DiscountAmount int64          `gorm:"not null;default:0" json:"discount_amount"`
	ShippingFee    int64          `gorm:"not null;default:0" json:"shipping_fee"`
	TotalAmount    int64          `gorm:"not null" json:"total_amount"`
	CouponID       *uint          `gorm:"index" json:"coupon_id"`
	CouponCode     string         `gorm:"size:50" json:"coupon_code,omitempty"`
	PaymentMethod  string         `gorm:"not null;size:30" json:"payment_method"`
	Status         Status         `gorm:"not null;default:'received';size:20" json:"status"`
	PlacedAt       time.Time      `gorm:"not null" json:"placed_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Details []OrderDetail `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"details,omitempty"`
}

// OrderDetail represents one purchased line, denormalized so the order
// remains readable after catalog changes
type OrderDetail struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OrderID    uint      `gorm:"not null;index" json:"order_id"`
	BookID     uint      `gorm:"not null;index" json:"book_id"`
	Title      string    `gorm:"not null;size:255" json:"title"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	PiecePrice int64     `gorm:"not null" json:"piece_price"` // Unit price at purchase time
	CreatedAt  time.Time `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string       { return "orders" }
func (OrderDetail) TableName() string { return "order_details" }

// LineTotal returns quantity times the frozen piece price
func (d *OrderDetail) LineTotal() int64 {
	return d.PiecePrice * int64(d.Quantity)
}

// IsTerminal reports whether the status admits no further transitions
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether moving from the order's current
// status to the target is allowed
func (o *Order) CanTransitionTo(target Status) bool {
	if target == StatusCancelled {
		return !o.Status.IsTerminal()
	}
	for _, next := range validTransitions[o.Status] {
		if next == target {
			return true
		}
	}
	return false
}

// CanBeCancelled reports whether the order may still be cancelled
func (o *Order) CanBeCancelled() bool {
	return !o.Status.IsTerminal()
}

// terminalStatuses lists the states a conditional update must not
// overwrite. Kept in lockstep with Status.IsTerminal.
func terminalStatuses() []Status {
	return []Status{StatusCompleted, StatusCancelled}
}
