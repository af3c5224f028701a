// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/checkout"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// CheckoutHandler handles checkout endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
	config          *config.Config
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(db *gorm.DB, cfg *config.Config) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkout.NewService(checkout.NewGormStore(db), cfg),
		config:          cfg,
	}
}

// PlaceOrder handles POST /checkout
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req checkout.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	o, err := h.checkoutService.PlaceOrder(c.Request.Context(), userID, &req)
	if err != nil {
		status, body := checkoutErrorResponse(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"data":    o,
	})
}

// Preview handles POST /checkout/preview
func (h *CheckoutHandler) Preview(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req struct {
		CouponCode string `json:"coupon_code"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	p, err := h.checkoutService.PreviewOrder(c.Request.Context(), userID, req.CouponCode)
	if err != nil {
		status, body := checkoutErrorResponse(err)
		c.JSON(status, body)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout preview computed successfully",
		"data":    p,
	})
}

// checkoutErrorResponse maps a checkout failure onto an HTTP status
// and response body
func checkoutErrorResponse(err error) (int, gin.H) {
	var ce *checkout.Error
	if !errors.As(err, &ce) {
		return http.StatusInternalServerError, gin.H{"error": "Checkout failed"}
	}

	body := gin.H{
		"error": ce.Message,
		"code":  string(ce.Kind),
	}

	switch ce.Kind {
	case checkout.KindEmptyCart,
		checkout.KindCouponBelowThreshold,
		checkout.KindAmbiguousVendor:
		return http.StatusUnprocessableEntity, body
	case checkout.KindCouponNotFound:
		return http.StatusNotFound, body
	case checkout.KindCouponUnavailable:
		body["reason"] = string(ce.Reason)
		return http.StatusConflict, body
	case checkout.KindInsufficientStock:
		body["book_id"] = ce.BookID
		return http.StatusConflict, body
	default:
		return http.StatusInternalServerError, gin.H{"error": "Checkout failed"}
	}
}
