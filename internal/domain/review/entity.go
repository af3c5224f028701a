// internal/domain/review/entity.go
package review

import (
	"time"

	"gorm.io/gorm"
)

// Review represents a buyer's rating of a book. One review per buyer
// per book.
type Review struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	BookID    uint           `gorm:"not null;index;uniqueIndex:idx_book_user" json:"book_id"`
	UserID    uint           `gorm:"not null;uniqueIndex:idx_book_user" json:"user_id"`
	Rating    int            `gorm:"not null" json:"rating"` // 1..5
	Comment   string         `gorm:"type:text" json:"comment"`
	Approved  bool           `gorm:"default:false" json:"approved"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Review) TableName() string { return "reviews" }

// Summary represents aggregate rating information for a book
type Summary struct {
	BookID        uint    `json:"book_id"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int64   `json:"review_count"`
}
