// internal/domain/coupon/service.go
package coupon

import (
	"fmt"
	"strings"
	"time"

	"github.com/your-org/bookstore-backend/internal/config"
	"gorm.io/gorm"
)

// Service handles coupon management for vendors
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new coupon service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateCouponRequest represents coupon creation data
type CreateCouponRequest struct {
	Code               string     `json:"code" binding:"required"`
	DiscountType       string     `json:"discount_type" binding:"required,oneof=percent_off fixed"`
	DiscountValue      float64    `json:"discount_value" binding:"required,gt=0"`
	MinimumOrderAmount int64      `json:"minimum_order_amount" binding:"min=0"`
	ValidFrom          time.Time  `json:"valid_from" binding:"required"`
	ValidUntil         *time.Time `json:"valid_until"`
	UsageLimit         *int       `json:"usage_limit"`
}

// UpdateCouponRequest represents coupon update data
type UpdateCouponRequest struct {
	DiscountValue      *float64   `json:"discount_value"`
	MinimumOrderAmount *int64     `json:"minimum_order_amount"`
	ValidUntil         *time.Time `json:"valid_until"`
	UsageLimit         *int       `json:"usage_limit"`
}

// Create creates a coupon for the given vendor
func (s *Service) Create(vendorID uint, req *CreateCouponRequest) (*Coupon, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))
	if code == "" {
		return nil, fmt.Errorf("coupon code cannot be empty")
	}

	if req.DiscountType == string(DiscountTypePercent) && req.DiscountValue > 100 {
		return nil, fmt.Errorf("percentage discount cannot exceed 100")
	}
	if req.ValidUntil != nil && req.ValidUntil.Before(req.ValidFrom) {
		return nil, fmt.Errorf("valid_until must be after valid_from")
	}
	if req.UsageLimit != nil && *req.UsageLimit <= 0 {
		return nil, fmt.Errorf("usage_limit must be positive")
	}

	var existing Coupon
	if err := s.db.Unscoped().Where("code = ?", code).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("coupon code %q already exists", code)
	}

	c := Coupon{
		Code:               code,
		VendorID:           vendorID,
		DiscountType:       DiscountType(req.DiscountType),
		DiscountValue:      req.DiscountValue,
		MinimumOrderAmount: req.MinimumOrderAmount,
		ValidFrom:          req.ValidFrom,
		ValidUntil:         req.ValidUntil,
		UsageLimit:         req.UsageLimit,
	}

	if err := s.db.Create(&c).Error; err != nil {
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}

	return &c, nil
}

// List retrieves all coupons owned by the given vendor
func (s *Service) List(vendorID uint) ([]Coupon, error) {
	var coupons []Coupon
	if err := s.db.Where("vendor_id = ?", vendorID).
		Order("created_at DESC").Find(&coupons).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve coupons: %w", err)
	}
	return coupons, nil
}

// Get retrieves a single coupon owned by the given vendor
func (s *Service) Get(vendorID, couponID uint) (*Coupon, error) {
	var c Coupon
	if err := s.db.Where("id = ? AND vendor_id = ?", couponID, vendorID).First(&c).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("coupon not found")
		}
		return nil, fmt.Errorf("failed to retrieve coupon: %w", err)
	}
	return &c, nil
}

// Update modifies a coupon owned by the given vendor. The code and
// discount type are immutable after creation.
func (s *Service) Update(vendorID, couponID uint, req *UpdateCouponRequest) (*Coupon, error) {
	c, err := s.Get(vendorID, couponID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.DiscountValue != nil {
		if *req.DiscountValue <= 0 {
			return nil, fmt.Errorf("discount_value must be positive")
		}
		if c.DiscountType == DiscountTypePercent && *req.DiscountValue > 100 {
			return nil, fmt.Errorf("percentage discount cannot exceed 100")
		}
		updates["discount_value"] = *req.DiscountValue
	}
	if req.MinimumOrderAmount != nil {
		if *req.MinimumOrderAmount < 0 {
			return nil, fmt.Errorf("minimum_order_amount cannot be negative")
		}
		updates["minimum_order_amount"] = *req.MinimumOrderAmount
	}
	if req.ValidUntil != nil {
		if req.ValidUntil.Before(c.ValidFrom) {
			return nil, fmt.Errorf("valid_until must be after valid_from")
		}
		updates["valid_until"] = *req.ValidUntil
	}
	if req.UsageLimit != nil {
		if *req.UsageLimit <= 0 {
			return nil, fmt.Errorf("usage_limit must be positive")
		}
		updates["usage_limit"] = *req.UsageLimit
	}

	if len(updates) > 0 {
		if err := s.db.Model(c).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update coupon: %w", err)
		}
	}

	return c, nil
}

// Delete soft-deletes a coupon. Existing orders that redeemed it keep
// their recorded discount.
func (s *Service) Delete(vendorID, couponID uint) error {
	result := s.db.Where("id = ? AND vendor_id = ?", couponID, vendorID).Delete(&Coupon{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete coupon: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("coupon not found")
	}
	return nil
}
