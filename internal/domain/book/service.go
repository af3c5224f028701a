// internal/domain/book/service.go
package book

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/your-org/bookstore-backend/internal/config"
	"gorm.io/gorm"
)

// Service handles catalog business logic
type Service struct {
	db          *gorm.DB
	redisClient *redis.Client
	config      *config.Config
}

// NewService creates a new book service
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Service {
	return &Service{
		db:          db,
		redisClient: redisClient,
		config:      cfg,
	}
}

// ListRequest represents catalog list query parameters
type ListRequest struct {
	Page       int    `form:"page,default=1"`
	Limit      int    `form:"limit,default=20"`
	CategoryID uint   `form:"category_id"`
	AuthorID   uint   `form:"author_id"`
	VendorID   uint   `form:"vendor_id"`
	SortBy     string `form:"sort_by,default=created_at"`
	SortOrder  string `form:"sort_order,default=desc"`
}

// ListResponse represents a paginated catalog page
type ListResponse struct {
	Books      []Book     `json:"books"`
	Pagination Pagination `json:"pagination"`
}

// Pagination represents pagination information
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// CreateBookRequest represents book creation data
type CreateBookRequest struct {
	Title       string `json:"title" binding:"required"`
	Slug        string `json:"slug" binding:"required"`
	Description string `json:"description"`
	ISBN        string `json:"isbn"`
	Price       int64  `json:"price" binding:"required,min=0"`
	Stock       int    `json:"stock" binding:"min=0"`
	AuthorID    *uint  `json:"author_id"`
	CategoryID  *uint  `json:"category_id"`
}

// UpdateBookRequest represents book update data
type UpdateBookRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	Stock       *int    `json:"stock"`
	IsActive    *bool   `json:"is_active"`
	AuthorID    *uint   `json:"author_id"`
	CategoryID  *uint   `json:"category_id"`
}

// List retrieves active books with filtering and pagination
func (s *Service) List(req *ListRequest) (*ListResponse, error) {
	var books []Book
	var total int64

	query := s.db.Model(&Book{}).
		Preload("Author").
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Where("is_active = ?", true)

	if req.CategoryID > 0 {
		query = query.Where("category_id = ?", req.CategoryID)
	}
	if req.AuthorID > 0 {
		query = query.Where("author_id = ?", req.AuthorID)
	}
	if req.VendorID > 0 {
		query = query.Where("vendor_id = ?", req.VendorID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count books: %w", err)
	}

	query = query.Order(buildOrderClause(req.SortBy, req.SortOrder))

	offset := (req.Page - 1) * req.Limit
	if err := query.Offset(offset).Limit(req.Limit).Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve books: %w", err)
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &ListResponse{
		Books: books,
		Pagination: Pagination{
			Page:       req.Page,
			Limit:      req.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    req.Page < totalPages,
			HasPrev:    req.Page > 1,
		},
	}, nil
}

// Get retrieves a single book by ID
func (s *Service) Get(id uint) (*Book, error) {
	var b Book
	result := s.db.
		Preload("Author").
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		First(&b, id)

	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("book not found")
		}
		return nil, fmt.Errorf("failed to retrieve book: %w", result.Error)
	}

	return &b, nil
}

// Search searches active books by title, author name, or ISBN and records
// the query in the user's search history
func (s *Service) Search(userID *uint, query string, page, limit int) (*ListResponse, error) {
	var books []Book
	var total int64

	like := "%" + query + "%"
	dbQuery := s.db.Model(&Book{}).
		Preload("Author").
		Preload("Category").
		Joins("LEFT JOIN authors ON authors.id = books.author_id").
		Where("books.is_active = ?", true).
		Where("books.title ILIKE ? OR books.isbn = ? OR authors.name ILIKE ?", like, query, like)

	if err := dbQuery.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count search results: %w", err)
	}

	offset := (page - 1) * limit
	if err := dbQuery.Order("books.created_at DESC").Offset(offset).Limit(limit).Find(&books).Error; err != nil {
		return nil, fmt.Errorf("failed to search books: %w", err)
	}

	if userID != nil {
		s.recordSearchHistory(*userID, query)
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ListResponse{
		Books: books,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}, nil
}

// SearchHistory returns the user's most recent search queries, newest first
func (s *Service) SearchHistory(userID uint) ([]string, error) {
	ctx := context.Background()
	key := fmt.Sprintf("search_history:%d", userID)

	history, err := s.redisClient.LRange(ctx, key, 0, 9).Result()
	if err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to retrieve search history: %w", err)
	}
	return history, nil
}

// Create creates a new book for the given vendor
func (s *Service) Create(vendorID uint, req *CreateBookRequest) (*Book, error) {
	b := Book{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		ISBN:        req.ISBN,
		Price:       req.Price,
		Stock:       req.Stock,
		VendorID:    vendorID,
		AuthorID:    req.AuthorID,
		CategoryID:  req.CategoryID,
		IsActive:    true,
	}

	if err := s.db.Create(&b).Error; err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}

	return &b, nil
}

// Update updates a book owned by the given vendor
func (s *Service) Update(vendorID, bookID uint, req *UpdateBookRequest) (*Book, error) {
	var b Book
	if err := s.db.Where("id = ? AND vendor_id = ?", bookID, vendorID).First(&b).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("book not found")
		}
		return nil, fmt.Errorf("failed to retrieve book: %w", err)
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, fmt.Errorf("stock cannot be negative")
		}
		updates["stock"] = *req.Stock
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.AuthorID != nil {
		updates["author_id"] = *req.AuthorID
	}
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}

	if len(updates) > 0 {
		if err := s.db.Model(&b).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("failed to update book: %w", err)
		}
	}

	return &b, nil
}

// Delete soft-deletes a book owned by the given vendor
func (s *Service) Delete(vendorID, bookID uint) error {
	result := s.db.Where("id = ? AND vendor_id = ?", bookID, vendorID).Delete(&Book{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("book not found")
	}
	return nil
}

// AddImage appends an image to a book, placing it after existing images
func (s *Service) AddImage(vendorID, bookID uint, url, altText string) (*BookImage, error) {
	var b Book
	if err := s.db.Where("id = ? AND vendor_id = ?", bookID, vendorID).First(&b).Error; err != nil {
		return nil, fmt.Errorf("book not found")
	}

	var maxOrder int
	s.db.Model(&BookImage{}).Where("book_id = ?", bookID).
		Select("COALESCE(MAX(sort_order), 0)").Scan(&maxOrder)

	img := BookImage{
		BookID:    bookID,
		URL:       url,
		AltText:   altText,
		SortOrder: maxOrder + 1,
	}
	if err := s.db.Create(&img).Error; err != nil {
		return nil, fmt.Errorf("failed to add image: %w", err)
	}

	return &img, nil
}

// ReorderImages re-indexes a book's images to match the supplied ID order.
// Every existing image must appear in orderedIDs exactly once.
func (s *Service) ReorderImages(vendorID, bookID uint, orderedIDs []uint) ([]BookImage, error) {
	var b Book
	if err := s.db.Where("id = ? AND vendor_id = ?", bookID, vendorID).First(&b).Error; err != nil {
		return nil, fmt.Errorf("book not found")
	}

	var images []BookImage
	if err := s.db.Where("book_id = ?", bookID).Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve images: %w", err)
	}

	assignments, err := reindexImages(images, orderedIDs)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for id, order := range assignments {
			if err := tx.Model(&BookImage{}).Where("id = ?", id).
				Update("sort_order", order).Error; err != nil {
				return fmt.Errorf("failed to update image order: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var reordered []BookImage
	if err := s.db.Where("book_id = ?", bookID).Order("sort_order ASC").Find(&reordered).Error; err != nil {
		return nil, fmt.Errorf("failed to reload images: %w", err)
	}
	return reordered, nil
}

// reindexImages maps image IDs to contiguous sort orders 1..n following
// orderedIDs. It rejects unknown, missing, or duplicate IDs.
func reindexImages(images []BookImage, orderedIDs []uint) (map[uint]int, error) {
	if len(orderedIDs) != len(images) {
		return nil, fmt.Errorf("expected %d image IDs, got %d", len(images), len(orderedIDs))
	}

	known := make(map[uint]bool, len(images))
	for _, img := range images {
		known[img.ID] = true
	}

	assignments := make(map[uint]int, len(orderedIDs))
	for i, id := range orderedIDs {
		if !known[id] {
			return nil, fmt.Errorf("image %d does not belong to this book", id)
		}
		if _, dup := assignments[id]; dup {
			return nil, fmt.Errorf("image %d appears more than once", id)
		}
		assignments[id] = i + 1
	}

	return assignments, nil
}

// CategoryRequest represents category create/update data
type CategoryRequest struct {
	Name      string `json:"name" binding:"required"`
	Slug      string `json:"slug" binding:"required"`
	SortOrder int    `json:"sort_order"`
	IsActive  *bool  `json:"is_active"`
}

// AuthorRequest represents author create/update data
type AuthorRequest struct {
	Name string `json:"name" binding:"required"`
	Slug string `json:"slug" binding:"required"`
	Bio  string `json:"bio"`
}

// ListCategories retrieves active categories in display order
func (s *Service) ListCategories() ([]Category, error) {
	var categories []Category
	if err := s.db.Where("is_active = ?", true).
		Order("sort_order ASC, name ASC").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve categories: %w", err)
	}
	return categories, nil
}

// CreateCategory creates a new category
func (s *Service) CreateCategory(req *CategoryRequest) (*Category, error) {
	cat := Category{
		Name:      req.Name,
		Slug:      req.Slug,
		SortOrder: req.SortOrder,
		IsActive:  true,
	}
	if req.IsActive != nil {
		cat.IsActive = *req.IsActive
	}
	if err := s.db.Create(&cat).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &cat, nil
}

// UpdateCategory updates an existing category
func (s *Service) UpdateCategory(id uint, req *CategoryRequest) (*Category, error) {
	var cat Category
	if err := s.db.First(&cat, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("category not found")
		}
		return nil, fmt.Errorf("failed to retrieve category: %w", err)
	}

	updates := map[string]interface{}{
		"name":       req.Name,
		"slug":       req.Slug,
		"sort_order": req.SortOrder,
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if err := s.db.Model(&cat).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return &cat, nil
}

// ListAuthors retrieves all authors alphabetically
func (s *Service) ListAuthors() ([]Author, error) {
	var authors []Author
	if err := s.db.Order("name ASC").Find(&authors).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve authors: %w", err)
	}
	return authors, nil
}

// CreateAuthor creates a new author
func (s *Service) CreateAuthor(req *AuthorRequest) (*Author, error) {
	a := Author{
		Name: req.Name,
		Slug: req.Slug,
		Bio:  req.Bio,
	}
	if err := s.db.Create(&a).Error; err != nil {
		return nil, fmt.Errorf("failed to create author: %w", err)
	}
	return &a, nil
}

// UpdateAuthor updates an existing author
func (s *Service) UpdateAuthor(id uint, req *AuthorRequest) (*Author, error) {
	var a Author
	if err := s.db.First(&a, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("author not found")
		}
		return nil, fmt.Errorf("failed to retrieve author: %w", err)
	}

	updates := map[string]interface{}{
		"name": req.Name,
		"slug": req.Slug,
		"bio":  req.Bio,
	}
	if err := s.db.Model(&a).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update author: %w", err)
	}
	return &a, nil
}

func (s *Service) recordSearchHistory(userID uint, query string) {
	ctx := context.Background()
	key := fmt.Sprintf("search_history:%d", userID)

	pipe := s.redisClient.Pipeline()
	pipe.LRem(ctx, key, 0, query)
	pipe.LPush(ctx, key, query)
	pipe.LTrim(ctx, key, 0, 9)
	pipe.Expire(ctx, key, 30*24*time.Hour)
	// History is best effort; a Redis failure never fails the search
	_, _ = pipe.Exec(ctx)
}

func buildOrderClause(sortBy, sortOrder string) string {
	validSortFields := map[string]bool{
		"created_at": true,
		"updated_at": true,
		"price":      true,
		"title":      true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}
	if sortOrder != "asc" && sortOrder != "desc" {
		sortOrder = "desc"
	}

	return fmt.Sprintf("%s %s", sortBy, sortOrder)
}
