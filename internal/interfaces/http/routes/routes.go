// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/domain/user"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/handlers"
	"github.com/your-org/bookstore-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires all API routes under the given group
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) error {
	setupAuthRoutes(rg, db, cfg)
	setupBookRoutes(rg, db, redisClient, cfg)
	setupCartRoutes(rg, db, cfg)
	setupCheckoutRoutes(rg, db, cfg)
	if err := setupOrderRoutes(rg, db, cfg); err != nil {
		return err
	}
	setupReviewRoutes(rg, db, cfg)
	setupComplaintRoutes(rg, db, cfg)
	setupVendorRoutes(rg, db, redisClient, cfg)
	setupAdminRoutes(rg, db, redisClient, cfg)
	return nil
}

func setupAuthRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)

	auth := rg.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)

		protected := auth.Group("")
		protected.Use(middleware.AuthMiddleware(cfg))
		{
			protected.GET("/profile", authHandler.GetProfile)
			protected.PUT("/profile", authHandler.UpdateProfile)
		}
	}
}

func setupBookRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	bookHandler := handlers.NewBookHandler(db, redisClient, cfg)
	reviewHandler := handlers.NewReviewHandler(db, cfg)

	books := rg.Group("/books")
	books.Use(middleware.OptionalAuthMiddleware(cfg)) // Search history needs the user when present
	{
		books.GET("", bookHandler.List)
		books.GET("/search", bookHandler.Search)
		books.GET("/:id", bookHandler.Get)
		books.GET("/:id/reviews", reviewHandler.ListForBook)
		books.GET("/:id/reviews/summary", reviewHandler.Summary)
	}

	history := rg.Group("/books/search/history")
	history.Use(middleware.AuthMiddleware(cfg))
	{
		history.GET("", bookHandler.SearchHistory)
	}

	catalogHandler := handlers.NewCatalogHandler(db, redisClient, cfg)
	rg.GET("/categories", catalogHandler.ListCategories)
	rg.GET("/authors", catalogHandler.ListAuthors)
}

func setupCartRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	cartHandler := handlers.NewCartHandler(db, cfg)

	cart := rg.Group("/cart")
	cart.Use(middleware.AuthMiddleware(cfg))
	{
		cart.GET("", cartHandler.GetCart)
		cart.DELETE("", cartHandler.Clear)
		cart.POST("/lines", cartHandler.AddLine)
		cart.PUT("/lines/:id", cartHandler.UpdateLine)
		cart.DELETE("/lines/:id", cartHandler.RemoveLine)
	}
}

func setupCheckoutRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	checkoutHandler := handlers.NewCheckoutHandler(db, cfg)

	checkout := rg.Group("/checkout")
	checkout.Use(middleware.AuthMiddleware(cfg))
	{
		checkout.POST("", checkoutHandler.PlaceOrder)
		checkout.POST("/preview", checkoutHandler.Preview)
	}
}

func setupOrderRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) error {
	orderHandler := handlers.NewOrderHandler(db, cfg)
	invoiceHandler, err := handlers.NewInvoiceHandler(db, cfg)
	if err != nil {
		return err
	}

	orders := rg.Group("/orders")
	orders.Use(middleware.AuthMiddleware(cfg))
	{
		orders.GET("", orderHandler.ListMine)
		orders.GET("/:id", orderHandler.GetMine)
		orders.POST("/:id/cancel", orderHandler.CancelMine)
		orders.GET("/:id/invoice", invoiceHandler.Download)
	}

	return nil
}

func setupReviewRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	reviewHandler := handlers.NewReviewHandler(db, cfg)

	reviews := rg.Group("/reviews")
	reviews.Use(middleware.AuthMiddleware(cfg))
	{
		reviews.POST("", reviewHandler.Create)
		reviews.DELETE("/:id", reviewHandler.Delete)
	}
}

func setupComplaintRoutes(rg *gin.RouterGroup, db *gorm.DB, cfg *config.Config) {
	complaintHandler := handlers.NewComplaintHandler(db, cfg)

	complaints := rg.Group("/complaints")
	complaints.Use(middleware.AuthMiddleware(cfg))
	{
		complaints.POST("", complaintHandler.Create)
		complaints.GET("", complaintHandler.ListMine)
	}

	admin := rg.Group("/admin/complaints")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RequireRole(string(user.RoleAdmin)))
	{
		admin.GET("", complaintHandler.ListOpen)
		admin.PUT("/:id", complaintHandler.Resolve)
	}
}

func setupAdminRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	catalogHandler := handlers.NewCatalogHandler(db, redisClient, cfg)
	reviewHandler := handlers.NewReviewHandler(db, cfg)

	admin := rg.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RequireRole(string(user.RoleAdmin)))
	{
		admin.POST("/categories", catalogHandler.CreateCategory)
		admin.PUT("/categories/:id", catalogHandler.UpdateCategory)
		admin.POST("/authors", catalogHandler.CreateAuthor)
		admin.PUT("/authors/:id", catalogHandler.UpdateAuthor)

		admin.GET("/reviews", reviewHandler.ListPending)
		admin.PUT("/reviews/:id/approve", reviewHandler.Approve)
	}
}

func setupVendorRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	bookHandler := handlers.NewBookHandler(db, redisClient, cfg)
	couponHandler := handlers.NewCouponHandler(db, cfg)
	orderHandler := handlers.NewOrderHandler(db, cfg)

	vendor := rg.Group("/vendor")
	vendor.Use(middleware.AuthMiddleware(cfg), middleware.RequireRole(string(user.RoleVendor), string(user.RoleAdmin)))
	{
		vendor.POST("/books", bookHandler.Create)
		vendor.PUT("/books/:id", bookHandler.Update)
		vendor.DELETE("/books/:id", bookHandler.Delete)
		vendor.POST("/books/:id/images", bookHandler.AddImage)
		vendor.PUT("/books/:id/images/order", bookHandler.ReorderImages)

		vendor.POST("/coupons", couponHandler.Create)
		vendor.GET("/coupons", couponHandler.List)
		vendor.GET("/coupons/:id", couponHandler.Get)
		vendor.PUT("/coupons/:id", couponHandler.Update)
		vendor.DELETE("/coupons/:id", couponHandler.Delete)

		vendor.GET("/orders", orderHandler.ListForVendor)
		vendor.PUT("/orders/:id/status", orderHandler.UpdateStatus)
	}
}
