// internal/domain/order/service.go
package order

import (
	"fmt"
	"time"

	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/book"
	"gorm.io/gorm"
)

// Service handles order business logic after checkout
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// ListResponse represents a paginated list of orders
type ListResponse struct {
	Orders     []Order `json:"orders"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
	Total      int64   `json:"total"`
	TotalPages int     `json:"total_pages"`
}

// UpdateStatusRequest represents a vendor status change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=processing shipped completed cancelled"`
}

// ListForBuyer retrieves the buyer's orders, newest first
func (s *Service) ListForBuyer(buyerID uint, page, limit int) (*ListResponse, error) {
	return s.list("buyer_id = ?", buyerID, page, limit)
}

// ListForVendor retrieves the vendor's incoming orders, newest first
func (s *Service) ListForVendor(vendorID uint, page, limit int) (*ListResponse, error) {
	return s.list("vendor_id = ?", vendorID, page, limit)
}

func (s *Service) list(cond string, id uint, page, limit int) (*ListResponse, error) {
	var orders []Order
	var total int64

	query := s.db.Model(&Order{}).Where(cond, id)
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	offset := (page - 1) * limit
	if err := query.Preload("Details").
		Order("placed_at DESC").
		Offset(offset).Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve orders: %w", err)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ListResponse{
		Orders:     orders,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// GetForBuyer retrieves one of the buyer's orders
func (s *Service) GetForBuyer(buyerID, orderID uint) (*Order, error) {
	return s.get("buyer_id = ?", buyerID, orderID)
}

// GetForVendor retrieves one of the vendor's orders
func (s *Service) GetForVendor(vendorID, orderID uint) (*Order, error) {
	return s.get("vendor_id = ?", vendorID, orderID)
}

func (s *Service) get(cond string, id, orderID uint) (*Order, error) {
	var o Order
	err := s.db.Preload("Details").Where(cond, id).First(&o, orderID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order not found")
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &o, nil
}

// UpdateStatus moves a vendor's order along the lifecycle. Cancelling
// restocks the sold units.
func (s *Service) UpdateStatus(vendorID, orderID uint, req *UpdateStatusRequest) (*Order, error) {
	o, err := s.GetForVendor(vendorID, orderID)
	if err != nil {
		return nil, err
	}

	target := Status(req.Status)
	if !o.CanTransitionTo(target) {
		return nil, fmt.Errorf("cannot change order status from %s to %s", o.Status, target)
	}

	if target == StatusCancelled {
		return s.cancel(o)
	}

	if err := s.db.Model(o).Update("status", target).Error; err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	o.Status = target
	return o, nil
}

// CancelForBuyer cancels one of the buyer's own orders and restocks it
func (s *Service) CancelForBuyer(buyerID, orderID uint) (*Order, error) {
	o, err := s.GetForBuyer(buyerID, orderID)
	if err != nil {
		return nil, err
	}
	if !o.CanBeCancelled() {
		return nil, fmt.Errorf("order in %s status cannot be cancelled", o.Status)
	}
	return s.cancel(o)
}

// cancel marks the order cancelled and returns its units to stock
// inside one transaction. The status flip is conditional on the order
// not already being terminal, so two racing cancellations cannot both
// run the restock loop.
func (s *Service) cancel(o *Order) (*Order, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Order{}).
			Where("id = ? AND status NOT IN ?", o.ID, terminalStatuses()).
			Update("status", StatusCancelled)
		if result.Error != nil {
			return fmt.Errorf("failed to cancel order: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return fmt.Errorf("order %s can no longer be cancelled", o.OrderNumber)
		}
		for _, d := range o.Details {
			if err := tx.Model(&book.Book{}).Where("id = ?", d.BookID).
				Update("stock", gorm.Expr("stock + ?", d.Quantity)).Error; err != nil {
				return fmt.Errorf("failed to restock book %d: %w", d.BookID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	o.Status = StatusCancelled
	return o, nil
}

// GenerateOrderNumber builds a unique human-readable order number
func GenerateOrderNumber(placedAt time.Time, sequence int64) string {
	return fmt.Sprintf("ORD-%s-%05d", placedAt.Format("20060102"), sequence%100000)
}
