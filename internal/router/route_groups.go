package router

import (
	"restaurant_pos_backend/internal/handlers"
	"restaurant_pos_backend/internal/middleware"
	"restaurant_pos_backend/internal/models"

	"github.com/gin-gonic/gin"
)

var (
	adminOnly   = middleware.RoleAuthMiddleware(models.RoleAdmin)
	menuEditors = middleware.RoleAuthMiddleware(models.RoleAdmin, models.RoleChef)
)

// SetupPublicAuthRoutes sets up /register and /login.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/register", authHandler.Register)
	group.POST("/login", authHandler.Login)
}

// SetupAuthenticatedAuthRoutes sets up the routes for the current session.
func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.GET("/profile", authHandler.GetProfile)
}

// SetupCategoryRoutes sets up the menu category routes.
func SetupCategoryRoutes(authenticatedGroup *gin.RouterGroup, categoryHandler *handlers.CategoryHandler) {
	categoryRoutes := authenticatedGroup.Group("/categories")
	{
		categoryRoutes.GET("", categoryHandler.GetCategories)
		categoryRoutes.GET("/:id", categoryHandler.GetCategory)
		categoryRoutes.POST("", menuEditors, categoryHandler.CreateCategory)
		categoryRoutes.PUT("/:id", menuEditors, categoryHandler.UpdateCategory)
		categoryRoutes.DELETE("/:id", adminOnly, categoryHandler.DeleteCategory)
	}
}

// SetupProductRoutes sets up the menu product routes.
func SetupProductRoutes(authenticatedGroup *gin.RouterGroup, productHandler *handlers.ProductHandler) {
	productRoutes := authenticatedGroup.Group("/products")
	{
		productRoutes.GET("", productHandler.GetProducts)
		productRoutes.GET("/:id", productHandler.GetProduct)
		productRoutes.POST("", menuEditors, productHandler.CreateProduct)
		productRoutes.PUT("/:id", menuEditors, productHandler.UpdateProduct)
		productRoutes.DELETE("/:id", adminOnly, productHandler.DeleteProduct)
	}
}

// SetupTableRoutes sets up the dining table routes. Any staff member may change a table's status.
func SetupTableRoutes(authenticatedGroup *gin.RouterGroup, tableHandler *handlers.TableHandler) {
	tableRoutes := authenticatedGroup.Group("/tables")
	{
		tableRoutes.GET("", tableHandler.GetTables)
		tableRoutes.GET("/:id", tableHandler.GetTable)
		tableRoutes.PUT("/:id", tableHandler.UpdateTable)
		tableRoutes.POST("", adminOnly, tableHandler.CreateTable)
		tableRoutes.DELETE("/:id", adminOnly, tableHandler.DeleteTable)
	}
}

// SetupOrderRoutes sets up the order routes.
func SetupOrderRoutes(authenticatedGroup *gin.RouterGroup, orderHandler *handlers.OrderHandler) {
	orderRoutes := authenticatedGroup.Group("/orders")
	{
		orderRoutes.POST("", orderHandler.CreateOrder)
		orderRoutes.GET("", orderHandler.GetOrders)
		orderRoutes.GET("/:id", orderHandler.GetOrder)
		orderRoutes.PUT("/:id", orderHandler.UpdateOrder)
		orderRoutes.PATCH("/:id", orderHandler.UpdateOrder)
		orderRoutes.PATCH("/:id/status", orderHandler.UpdateOrderStatus)
		orderRoutes.PATCH("/:id/items/:itemId/status", orderHandler.UpdateOrderItemStatus)
		orderRoutes.DELETE("/:id", adminOnly, orderHandler.DeleteOrder)
	}
}

// SetupUserRoutes sets up staff account management. Admin only.
func SetupUserRoutes(authenticatedGroup *gin.RouterGroup, userHandler *handlers.UserHandler) {
	userRoutes := authenticatedGroup.Group("/users")
	userRoutes.Use(adminOnly)
	{
		userRoutes.GET("", userHandler.GetUsers)
		userRoutes.GET("/:id", userHandler.GetUser)
		userRoutes.POST("", userHandler.CreateUser)
		userRoutes.PUT("/:id", userHandler.UpdateUser)
		userRoutes.DELETE("/:id", userHandler.DeleteUser)
	}
}
