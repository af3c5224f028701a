// internal/domain/review/service.go
package review

import (
	"fmt"

	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/order"
	"gorm.io/gorm"
)

// Service handles book review business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new review service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateReviewRequest represents review submission data
type CreateReviewRequest struct {
	BookID  uint   `json:"book_id" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// Create records a review. The buyer must have a completed order
// containing the book, and may review each book once.
func (s *Service) Create(userID uint, req *CreateReviewRequest) (*Review, error) {
	var purchased int64
	err := s.db.Model(&order.OrderDetail{}).
		Joins("JOIN orders ON orders.id = order_details.order_id").
		Where("orders.buyer_id = ? AND order_details.book_id = ? AND orders.status = ?",
			userID, req.BookID, order.StatusCompleted).
		Count(&purchased).Error
	if err != nil {
		return nil, fmt.Errorf("failed to verify purchase: %w", err)
	}
	if purchased == 0 {
		return nil, fmt.Errorf("only buyers with a completed order can review this book")
	}

	var existing Review
	if err := s.db.Where("book_id = ? AND user_id = ?", req.BookID, userID).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("you have already reviewed this book")
	}

	r := Review{
		BookID:  req.BookID,
		UserID:  userID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}
	if err := s.db.Create(&r).Error; err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	return &r, nil
}

// ListForBook retrieves a book's approved reviews, newest first
func (s *Service) ListForBook(bookID uint, page, limit int) ([]Review, int64, error) {
	var reviews []Review
	var total int64

	query := s.db.Model(&Review{}).Where("book_id = ? AND approved = ?", bookID, true)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&reviews).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve reviews: %w", err)
	}

	return reviews, total, nil
}

// SummaryForBook computes the average rating and review count
func (s *Service) SummaryForBook(bookID uint) (*Summary, error) {
	var result struct {
		Avg   float64
		Count int64
	}
	err := s.db.Model(&Review{}).
		Where("book_id = ? AND approved = ?", bookID, true).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Scan(&result).Error
	if err != nil {
		return nil, fmt.Errorf("failed to summarize reviews: %w", err)
	}

	return &Summary{
		BookID:        bookID,
		AverageRating: result.Avg,
		ReviewCount:   result.Count,
	}, nil
}

// ListPending retrieves reviews awaiting moderation, oldest first
func (s *Service) ListPending(page, limit int) ([]Review, int64, error) {
	var reviews []Review
	var total int64

	query := s.db.Model(&Review{}).Where("approved = ?", false)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count pending reviews: %w", err)
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at ASC").Offset(offset).Limit(limit).Find(&reviews).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve pending reviews: %w", err)
	}

	return reviews, total, nil
}

// Approve publishes a pending review
func (s *Service) Approve(reviewID uint) (*Review, error) {
	var r Review
	if err := s.db.First(&r, reviewID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("review not found")
		}
		return nil, fmt.Errorf("failed to retrieve review: %w", err)
	}

	if !r.Approved {
		if err := s.db.Model(&r).Update("approved", true).Error; err != nil {
			return nil, fmt.Errorf("failed to approve review: %w", err)
		}
		r.Approved = true
	}
	return &r, nil
}

// Delete removes the buyer's own review
func (s *Service) Delete(userID, reviewID uint) error {
	result := s.db.Where("id = ? AND user_id = ?", reviewID, userID).Delete(&Review{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete review: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("review not found")
	}
	return nil
}
