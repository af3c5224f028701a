// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/your-org/bookstore-backend/internal/domain/book"
)

// Cart represents a buyer's shopping cart. Each user has at most one.
type Cart struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Lines []CartLine `gorm:"foreignKey:CartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"lines,omitempty"`
}

// CartLine represents one book entry in a cart. UnitPrice is frozen at
// the moment the line is added; later catalog price changes do not
// affect it.
type CartLine struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"not null;index;uniqueIndex:idx_cart_book" json:"cart_id"`
	BookID    uint      `gorm:"not null;uniqueIndex:idx_cart_book" json:"book_id"`
	Quantity  int       `gorm:"not null" json:"quantity"`
	UnitPrice int64     `gorm:"not null" json:"unit_price"` // Smallest currency unit
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Book *book.Book `gorm:"foreignKey:BookID" json:"book,omitempty"`
}

// TableName overrides
func (Cart) TableName() string     { return "carts" }
func (CartLine) TableName() string { return "cart_lines" }

// Subtotal returns the line total: frozen unit price times quantity
func (l *CartLine) Subtotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// ItemCount returns the total number of units across all lines
func (c *Cart) ItemCount() int {
	count := 0
	for _, l := range c.Lines {
		count += l.Quantity
	}
	return count
}

// SubtotalAmount returns the sum of line subtotals
func (c *Cart) SubtotalAmount() int64 {
	var total int64
	for _, l := range c.Lines {
		total += l.Subtotal()
	}
	return total
}
