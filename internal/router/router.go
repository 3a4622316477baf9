package router

import (
	"database/sql"
	"net/http"

	"restaurant_pos_backend/internal/config"
	"restaurant_pos_backend/internal/handlers"
	"restaurant_pos_backend/internal/middleware"
	"restaurant_pos_backend/internal/repositories"
	"restaurant_pos_backend/internal/services"
	"restaurant_pos_backend/internal/storage"
	"restaurant_pos_backend/pkg/metrics"
	"restaurant_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application. m may be nil.
func Setup(engine *gin.Engine, db *sql.DB, cfg *config.Config, images *storage.ImageStore, m *metrics.Metrics) {
	// Initialize Repositories
	userRepo := repositories.NewUserRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	productRepo := repositories.NewProductRepository(db)
	tableRepo := repositories.NewTableRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	transactor := repositories.NewTransactor(db)

	// Initialize Services
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)
	authService := services.NewAuthService(userRepo, tokens)
	userService := services.NewUserService(userRepo)
	categoryService := services.NewCategoryService(categoryRepo)
	productService := services.NewProductService(productRepo, categoryRepo, images)
	tableService := services.NewTableService(tableRepo)
	orderService := services.NewOrderService(orderRepo, tableRepo, productRepo, transactor)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	productHandler := handlers.NewProductHandler(productService)
	tableHandler := handlers.NewTableHandler(tableService)
	orderHandler := handlers.NewOrderHandler(orderService, m)

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if m != nil {
		engine.GET("/metrics", gin.WrapH(m.Handler()))
	}
	engine.Static(handlers.ProductImagesPath, images.Dir())

	api := engine.Group("/api")

	SetupPublicAuthRoutes(api.Group("/auth"), authHandler)

	authenticated := api.Group("")
	authenticated.Use(middleware.AuthMiddleware(tokens, userRepo))
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)
		SetupCategoryRoutes(authenticated, categoryHandler)
		SetupProductRoutes(authenticated, productHandler)
		SetupTableRoutes(authenticated, tableHandler)
		SetupOrderRoutes(authenticated, orderHandler)
		SetupUserRoutes(authenticated, userHandler)
	}
}
