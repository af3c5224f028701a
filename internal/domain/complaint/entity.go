// internal/domain/complaint/entity.go
package complaint

import (
	"time"

	"gorm.io/gorm"
)

// Status represents the handling state of a complaint
type Status string

const (
	StatusOpen     Status = "open"
	StatusResolved Status = "resolved"
	StatusRejected Status = "rejected"
)

// Complaint represents a buyer's issue with an order, handled by admins
type Complaint struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	OrderID    uint           `gorm:"not null;index" json:"order_id"`
	UserID     uint           `gorm:"not null;index" json:"user_id"`
	Subject    string         `gorm:"not null;size:255" json:"subject"`
	Body       string         `gorm:"type:text" json:"body"`
	Status     Status         `gorm:"not null;default:'open';size:20" json:"status"`
	Resolution string         `gorm:"type:text" json:"resolution,omitempty"`
	ResolvedAt *time.Time     `json:"resolved_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Complaint) TableName() string { return "complaints" }

// IsOpen reports whether the complaint still awaits a decision
func (c *Complaint) IsOpen() bool {
	return c.Status == StatusOpen
}
