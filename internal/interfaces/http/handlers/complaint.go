// internal/interfaces/http/handlers/complaint.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/complaint"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// ComplaintHandler handles complaint endpoints
type ComplaintHandler struct {
	complaintService *complaint.Service
	config           *config.Config
}

// NewComplaintHandler creates a new complaint handler
func NewComplaintHandler(db *gorm.DB, cfg *config.Config) *ComplaintHandler {
	return &ComplaintHandler{
		complaintService: complaint.NewService(db, cfg),
		config:           cfg,
	}
}

// Create handles POST /complaints
func (h *ComplaintHandler) Create(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	var req complaint.CreateComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cm, err := h.complaintService.Create(userID, &req)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Complaint filed successfully",
		"data":    cm,
	})
}

// ListMine handles GET /complaints
func (h *ComplaintHandler) ListMine(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	complaints, err := h.complaintService.ListForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve complaints",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Complaints retrieved successfully",
		"data":    complaints,
	})
}

// ListOpen handles GET /admin/complaints
func (h *ComplaintHandler) ListOpen(c *gin.Context) {
	page, limit := paginationParams(c)

	complaints, total, err := h.complaintService.ListOpen(page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve complaints",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Open complaints retrieved successfully",
		"data": gin.H{
			"complaints": complaints,
			"total":      total,
			"page":       page,
			"limit":      limit,
		},
	})
}

// Resolve handles PUT /admin/complaints/:id
func (h *ComplaintHandler) Resolve(c *gin.Context) {
	complaintID, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid complaint ID"})
		return
	}

	var req complaint.ResolveComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	cm, err := h.complaintService.Resolve(complaintID, &req)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Complaint resolved successfully",
		"data":    cm,
	})
}
