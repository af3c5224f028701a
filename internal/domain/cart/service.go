// internal/domain/cart/service.go
package cart

import (
	"fmt"

	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/book"
	"gorm.io/gorm"
)

// Service handles cart business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new cart service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// AddLineRequest represents a request to add a book to the cart
type AddLineRequest struct {
	BookID   uint `json:"book_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1"`
}

// UpdateLineRequest represents a quantity change for an existing line
type UpdateLineRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// CartResponse represents the cart with computed totals
type CartResponse struct {
	Cart      *Cart `json:"cart"`
	ItemCount int   `json:"item_count"`
	Subtotal  int64 `json:"subtotal"`
}

// Get retrieves the user's cart, creating it on first use
func (s *Service) Get(userID uint) (*CartResponse, error) {
	c, err := s.getOrCreate(userID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(c), nil
}

// AddLine adds a book to the cart. Adding a book already present
// increments its quantity; the unit price stays frozen at the value
// captured when the line was first created.
func (s *Service) AddLine(userID uint, req *AddLineRequest) (*CartResponse, error) {
	var b book.Book
	if err := s.db.Where("id = ? AND is_active = ?", req.BookID, true).First(&b).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("book not found")
		}
		return nil, fmt.Errorf("failed to retrieve book: %w", err)
	}

	c, err := s.getOrCreate(userID)
	if err != nil {
		return nil, err
	}

	var line CartLine
	err = s.db.Where("cart_id = ? AND book_id = ?", c.ID, req.BookID).First(&line).Error
	switch {
	case err == nil:
		newQuantity := line.Quantity + req.Quantity
		if !b.HasStock(newQuantity) {
			return nil, fmt.Errorf("insufficient stock for %q: %d available", b.Title, b.Stock)
		}
		if err := s.db.Model(&line).Update("quantity", newQuantity).Error; err != nil {
			return nil, fmt.Errorf("failed to update cart line: %w", err)
		}
	case err == gorm.ErrRecordNotFound:
		if !b.HasStock(req.Quantity) {
			return nil, fmt.Errorf("insufficient stock for %q: %d available", b.Title, b.Stock)
		}
		line = CartLine{
			CartID:    c.ID,
			BookID:    req.BookID,
			Quantity:  req.Quantity,
			UnitPrice: b.Price, // Freeze the price at add time
		}
		if err := s.db.Create(&line).Error; err != nil {
			return nil, fmt.Errorf("failed to add cart line: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to check cart line: %w", err)
	}

	return s.Get(userID)
}

// UpdateLine changes the quantity of an existing cart line
func (s *Service) UpdateLine(userID, lineID uint, req *UpdateLineRequest) (*CartResponse, error) {
	c, err := s.getOrCreate(userID)
	if err != nil {
		return nil, err
	}

	var line CartLine
	if err := s.db.Where("id = ? AND cart_id = ?", lineID, c.ID).First(&line).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("cart line not found")
		}
		return nil, fmt.Errorf("failed to retrieve cart line: %w", err)
	}

	var b book.Book
	if err := s.db.First(&b, line.BookID).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve book: %w", err)
	}
	if !b.HasStock(req.Quantity) {
		return nil, fmt.Errorf("insufficient stock for %q: %d available", b.Title, b.Stock)
	}

	if err := s.db.Model(&line).Update("quantity", req.Quantity).Error; err != nil {
		return nil, fmt.Errorf("failed to update cart line: %w", err)
	}

	return s.Get(userID)
}

// RemoveLine removes a line from the cart
func (s *Service) RemoveLine(userID, lineID uint) (*CartResponse, error) {
	c, err := s.getOrCreate(userID)
	if err != nil {
		return nil, err
	}

	result := s.db.Where("id = ? AND cart_id = ?", lineID, c.ID).Delete(&CartLine{})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to remove cart line: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("cart line not found")
	}

	return s.Get(userID)
}

// Clear removes all lines from the user's cart
func (s *Service) Clear(userID uint) error {
	c, err := s.getOrCreate(userID)
	if err != nil {
		return err
	}
	if err := s.db.Where("cart_id = ?", c.ID).Delete(&CartLine{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (s *Service) getOrCreate(userID uint) (*Cart, error) {
	var c Cart
	err := s.db.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Preload("Lines.Book").Where("user_id = ?", userID).First(&c).Error

	if err == gorm.ErrRecordNotFound {
		c = Cart{UserID: userID}
		if err := s.db.Create(&c).Error; err != nil {
			return nil, fmt.Errorf("failed to create cart: %w", err)
		}
		return &c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve cart: %w", err)
	}
	return &c, nil
}

func (s *Service) toResponse(c *Cart) *CartResponse {
	return &CartResponse{
		Cart:      c,
		ItemCount: c.ItemCount(),
		Subtotal:  c.SubtotalAmount(),
	}
}
