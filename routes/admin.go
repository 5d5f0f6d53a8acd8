package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/soereshchotkan/afhaalrestaurant-website/controllers/order"
	"github.com/soereshchotkan/afhaalrestaurant-website/middleware"
	"gorm.io/gorm"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires API key middleware.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey)
	{
		orders := adminGroup.Group("/orders")
		{
			orders.GET("/", orderControllers.AdminListOrdersHandler(db))
			orders.GET("/stats", orderControllers.AdminStatsHandler(db))
			orders.GET("/export-excel", orderControllers.ExportOrdersToExcel(db))
			orders.PUT("/:id/status", orderControllers.UpdateOrderStatusHandler(db))
			orders.POST("/:id/mark-paid", orderControllers.MarkPaidHandler(db))
		}
	}
}
