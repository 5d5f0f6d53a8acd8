package productControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/soereshchotkan/afhaalrestaurant-website/models"
	"gorm.io/gorm"
)

// Read-only menu endpoints. Catalog management lives in the admin
// backoffice and is out of scope here.

// GET /menu/products
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Category").Where("is_available = ?", true)
		if categoryID := c.Query("category_id"); categoryID != "" {
			query = query.Where("category_id = ?", categoryID)
		}

		var products []models.Product
		if err := query.Order("name").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Fout bij ophalen producten"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"products": products}})
	}
}

// GET /menu/products/:id
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Ongeldig product ID"})
			return
		}

		var product models.Product
		if err := db.Preload("Category").First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Product niet gevonden"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Fout bij ophalen product"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"product": product}})
	}
}

// GET /menu/categories
func GetCategoriesWithProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.Category
		if err := db.Preload("Products", "is_available = ?", true).
			Order("name").Find(&categories).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Fout bij ophalen categorieën"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"categories": categories}})
	}
}
