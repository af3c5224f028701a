// internal/interfaces/http/handlers/coupon.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/coupon"
	"github.com/your-org/bookstore-backend/internal/domain/user"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// CouponHandler handles vendor coupon management endpoints
type CouponHandler struct {
	couponService *coupon.Service
	userService   *user.Service
	config        *config.Config
}

// NewCouponHandler creates a new coupon handler
func NewCouponHandler(db *gorm.DB, cfg *config.Config) *CouponHandler {
	return &CouponHandler{
		couponService: coupon.NewService(db, cfg),
		userService:   user.NewService(db, cfg),
		config:        cfg,
	}
}

// Create handles POST /vendor/coupons
func (h *CouponHandler) Create(c *gin.Context) {
	vendorID, ok := h.resolveVendor(c)
	if !ok {
		return
	}

	var req coupon.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cp, err := h.couponService.Create(vendorID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Coupon created successfully",
		"data":    cp,
	})
}

// List handles GET /vendor/coupons
func (h *CouponHandler) List(c *gin.Context) {
	vendorID, ok := h.resolveVendor(c)
	if !ok {
		return
	}

	coupons, err := h.couponService.List(vendorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve coupons",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupons retrieved successfully",
		"data":    coupons,
	})
}

// Get handles GET /vendor/coupons/:id
func (h *CouponHandler) Get(c *gin.Context) {
	vendorID, ok := h.resolveVendor(c)
	if !ok {
		return
	}

	couponID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon ID"})
		return
	}

	cp, err := h.couponService.Get(vendorID, couponID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon retrieved successfully",
		"data":    cp,
	})
}

// Update handles PUT /vendor/coupons/:id
func (h *CouponHandler) Update(c *gin.Context) {
	vendorID, ok := h.resolveVendor(c)
	if !ok {
		return
	}

	couponID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon ID"})
		return
	}

	var req coupon.UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cp, err := h.couponService.Update(vendorID, couponID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon updated successfully",
		"data":    cp,
	})
}

// Delete handles DELETE /vendor/coupons/:id
func (h *CouponHandler) Delete(c *gin.Context) {
	vendorID, ok := h.resolveVendor(c)
	if !ok {
		return
	}

	couponID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid coupon ID"})
		return
	}

	if err := h.couponService.Delete(vendorID, couponID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon deleted successfully",
	})
}

func (h *CouponHandler) resolveVendor(c *gin.Context) (uint, bool) {
	userID, _ := middleware.GetUserIDFromContext(c)
	vendorID, err := h.userService.VendorIDForUser(userID)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Vendor profile required",
		})
		return 0, false
	}
	return vendorID, true
}
