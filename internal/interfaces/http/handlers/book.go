// internal/interfaces/http/handlers/book.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/book"
	"github.com/your-org/bookstore-backend/internal/domain/user"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// BookHandler handles catalog endpoints
type BookHandler struct {
	bookService *book.Service
	userService *user.Service
	config      *config.Config
}

// NewBookHandler creates a new book handler
func NewBookHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *BookHandler {
	return &BookHandler{
		bookService: book.NewService(db, redisClient, cfg),
		userService: user.NewService(db, cfg),
		config:      cfg,
	}
}

// List handles GET /books
func (h *BookHandler) List(c *gin.Context) {
	var req book.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid query parameters",
		})
		return
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	resp, err := h.bookService.List(&req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve books",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Books retrieved successfully",
		"data":    resp,
	})
}

// Get handles GET /books/:id
func (h *BookHandler) Get(c *gin.Context) {
	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid book ID"})
		return
	}

	b, err := h.bookService.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Book retrieved successfully",
		"data":    b,
	})
}

// Search handles GET /books/search
func (h *BookHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Search query is required"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var userID *uint
	if id, ok := middleware.GetUserIDFromContext(c); ok {
		userID = &id
	}

	resp, err := h.bookService.Search(userID, query, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to search books",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Search completed successfully",
		"data":    resp,
	})
}

// SearchHistory handles GET /books/search/history
func (h *BookHandler) SearchHistory(c *gin.Context) {
	userID, _ := middleware.GetUserIDFromContext(c)

	history, err := h.bookService.SearchHistory(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve search history",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Search history retrieved successfully",
		"data":    history,
	})
}

// Create handles POST /vendor/books
func (h *BookHandler) Create(c *gin.Context) {
	vendorID, ok := h.resolveVendor(c)
	if !ok {
		return
	}

	var req book.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	b, err := h.bookService.Create(vendorID, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Book created successfully",
		"data":    b,
	})
}

// Update handles PUT /vendor/books/:id
func (h *BookHandler) Update(c *gin.Context) {
	vendorID, ok := h.resolveVendor(c)
	if !ok {
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid book ID"})
		return
	}

	var req book.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	b, err := h.bookService.Update(vendorID, id, &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Book updated successfully",
		"data":    b,
	})
}

// Delete handles DELETE /vendor/books/:id
func (h *BookHandler) Delete(c *gin.Context) {
	vendorID, ok := h.resolveVendor(c)
	if !ok {
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid book ID"})
		return
	}

	if err := h.bookService.Delete(vendorID, id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Book deleted successfully",
	})
}

// AddImage handles POST /vendor/books/:id/images
func (h *BookHandler) AddImage(c *gin.Context) {
	vendorID, ok := h.resolveVendor(c)
	if !ok {
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid book ID"})
		return
	}

	var req struct {
		URL     string `json:"url" binding:"required,url"`
		AltText string `json:"alt_text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	img, err := h.bookService.AddImage(vendorID, id, req.URL, req.AltText)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Image added successfully",
		"data":    img,
	})
}

// ReorderImages handles PUT /vendor/books/:id/images/order
func (h *BookHandler) ReorderImages(c *gin.Context) {
	vendorID, ok := h.resolveVendor(c)
	if !ok {
		return
	}

	id, err := parseIDParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid book ID"})
		return
	}

	var req struct {
		ImageIDs []uint `json:"image_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	images, err := h.bookService.ReorderImages(vendorID, id, req.ImageIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Images reordered successfully",
		"data":    images,
	})
}

// resolveVendor maps the authenticated user to their vendor profile
func (h *BookHandler) resolveVendor(c *gin.Context) (uint, bool) {
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

// parseIDParam parses a numeric path parameter
func parseIDParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
