// internal/domain/complaint/service.go
package complaint

import (
	"fmt"
	"time"

	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/order"
	"gorm.io/gorm"
)

// Service handles complaint business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new complaint service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateComplaintRequest represents a buyer filing a complaint
type CreateComplaintRequest struct {
	OrderID uint   `json:"order_id" binding:"required"`
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body" binding:"required"`
}

// ResolveComplaintRequest represents an admin decision
type ResolveComplaintRequest struct {
	Status     string `json:"status" binding:"required,oneof=resolved rejected"`
	Resolution string `json:"resolution" binding:"required"`
}

// Create files a complaint against one of the buyer's own orders
func (s *Service) Create(userID uint, req *CreateComplaintRequest) (*Complaint, error) {
	var o order.Order
	if err := s.db.Where("id = ? AND buyer_id = ?", req.OrderID, userID).First(&o).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order not found")
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}

	c := Complaint{
		OrderID: req.OrderID,
		UserID:  userID,
		Subject: req.Subject,
		Body:    req.Body,
		Status:  StatusOpen,
	}
	if err := s.db.Create(&c).Error; err != nil {
		return nil, fmt.Errorf("failed to create complaint: %w", err)
	}

	return &c, nil
}

// ListForUser retrieves the buyer's own complaints, newest first
func (s *Service) ListForUser(userID uint) ([]Complaint, error) {
	var complaints []Complaint
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&complaints).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve complaints: %w", err)
	}
	return complaints, nil
}

// ListOpen retrieves complaints awaiting an admin decision
func (s *Service) ListOpen(page, limit int) ([]Complaint, int64, error) {
	var complaints []Complaint
	var total int64

	query := s.db.Model(&Complaint{}).Where("status = ?", StatusOpen)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count complaints: %w", err)
	}

	offset := (page - 1) * limit
	if err := query.Order("created_at ASC").Offset(offset).Limit(limit).Find(&complaints).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve complaints: %w", err)
	}

	return complaints, total, nil
}

// Resolve records an admin decision on an open complaint
func (s *Service) Resolve(complaintID uint, req *ResolveComplaintRequest) (*Complaint, error) {
	var c Complaint
	if err := s.db.First(&c, complaintID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("complaint not found")
		}
		return nil, fmt.Errorf("failed to retrieve complaint: %w", err)
	}

	if !c.IsOpen() {
		return nil, fmt.Errorf("complaint is already %s", c.Status)
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":      Status(req.Status),
		"resolution":  req.Resolution,
		"resolved_at": now,
	}
	if err := s.db.Model(&c).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve complaint: %w", err)
	}

	c.Status = Status(req.Status)
	c.Resolution = req.Resolution
	c.ResolvedAt = &now
	return &c, nil
}
