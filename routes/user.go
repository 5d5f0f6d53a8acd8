package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/soereshchotkan/afhaalrestaurant-website/config"
	cartControllers "github.com/soereshchotkan/afhaalrestaurant-website/controllers/cart"
	orderControllers "github.com/soereshchotkan/afhaalrestaurant-website/controllers/order"
	"github.com/soereshchotkan/afhaalrestaurant-website/middleware"
	"gorm.io/gorm"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetCartHandler(db, cfg))
			cartGroup.POST("/", cartControllers.AddToCartHandler(db))
			cartGroup.GET("/validate", cartControllers.ValidateCartHandler(db, cfg))
			cartGroup.PUT("/:id/quantity", cartControllers.UpdateQuantityHandler(db))
			cartGroup.PUT("/:id/instructions", cartControllers.UpdateInstructionsHandler(db))
			cartGroup.DELETE("/:id", cartControllers.RemoveCartItemHandler(db))
			cartGroup.DELETE("/", cartControllers.ClearCartHandler(db))
		}

		// ──────────────── Orders ────────────────
		orderGroup := userGroup.Group("/orders")
		{
			orderGroup.POST("/checkout", orderControllers.CheckoutHandler(db, cfg))
			orderGroup.GET("/", orderControllers.GetOrderHistoryHandler(db))
			orderGroup.GET("/:id", orderControllers.GetOrderHandler(db))
			orderGroup.POST("/:id/cancel", orderControllers.CancelOrderHandler(db))
		}
	}
}
