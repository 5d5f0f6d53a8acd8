package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/soereshchotkan/afhaalrestaurant-website/config"
	"gorm.io/gorm"
)

// SetupRoutes wires up the menu, user and admin route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	// Public menu routes (no middleware)
	SetupMenuRoutes(r, db)

	// User routes (JWT protected): cart + orders
	SetupUserRoutes(r, db, cfg)

	// Admin routes (API key protected)
	SetupAdminRoutes(r, db)
}
