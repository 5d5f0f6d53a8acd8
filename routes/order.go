package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/soereshchotkan/afhaalrestaurant-website/controllers/order"
	productControllers "github.com/soereshchotkan/afhaalrestaurant-website/controllers/product"
	"gorm.io/gorm"
)

// SetupMenuRoutes registers the public menu reads and the kitchen
// websocket feed.
func SetupMenuRoutes(r *gin.Engine, db *gorm.DB) {
	menu := r.Group("/menu")
	{
		menu.GET("/products", productControllers.GetProducts(db))
		menu.GET("/products/:id", productControllers.GetProductByID(db))
		menu.GET("/categories", productControllers.GetCategoriesWithProducts(db))
	}

	// websocket endpoint for real-time order updates on the kitchen screen
	r.GET("/ws/orders", orderControllers.OrderWebSocketHandler)
}
