package cartControllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/soereshchotkan/afhaalrestaurant-website/config"
	"github.com/soereshchotkan/afhaalrestaurant-website/models"
	"github.com/soereshchotkan/afhaalrestaurant-website/pricing"
	"gorm.io/gorm"
)

// ErrProductUnavailable rejects adding a product the menu currently
// marks as unavailable. Lines already in carts are not affected.
var ErrProductUnavailable = errors.New("product is not available")

type AddToCartRequest struct {
	ProductID           uint   `json:"product_id" binding:"required"`
	Quantity            int    `json:"quantity" binding:"required,min=1,max=10"`
	SpecialInstructions string `json:"special_instructions" binding:"omitempty,max=500"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1,max=10"`
}

type UpdateInstructionsRequest struct {
	SpecialInstructions string `json:"special_instructions" binding:"omitempty,max=500"`
}

func cartSummary(items []models.CartItem, taxRate float64) gin.H {
	lines := make([]pricing.Line, 0, len(items))
	itemCount := 0
	for _, item := range items {
		lines = append(lines, pricing.Line{Quantity: item.Quantity, UnitPrice: item.Price})
		itemCount += item.Quantity
	}
	summary := pricing.Calculate(lines, taxRate)
	return gin.H{
		"subtotal":   summary.Subtotal,
		"tax":        summary.Tax,
		"total":      summary.Total,
		"item_count": itemCount,
	}
}

// GET /user/cart
func GetCartHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var items []models.CartItem
		if err := db.Preload("Product.Category").
			Where("user_id = ?", userID).
			Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Fout bij ophalen winkelwagen"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"items":   items,
				"summary": cartSummary(items, cfg.TaxRate),
			},
		})
	}
}

// AddToCart puts a product in the user's cart with the menu price
// snapshotted onto the line. Adding a product that is already in the
// cart increments the existing line instead of duplicating it.
func AddToCart(db *gorm.DB, userID uint, req AddToCartRequest) (*models.CartItem, error) {
	var product models.Product
	if err := db.First(&product, req.ProductID).Error; err != nil {
		return nil, err
	}
	if !product.IsAvailable {
		return nil, ErrProductUnavailable
	}

	var item models.CartItem
	err := db.Where("user_id = ? AND product_id = ?", userID, req.ProductID).First(&item).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		item = models.CartItem{
			UserID:              userID,
			ProductID:           product.ID,
			Quantity:            req.Quantity,
			Price:               product.Price,
			SpecialInstructions: req.SpecialInstructions,
		}
		if err := db.Create(&item).Error; err != nil {
			return nil, err
		}
	} else {
		item.Quantity += req.Quantity
		if req.SpecialInstructions != "" {
			item.SpecialInstructions = req.SpecialInstructions
		}
		if err := db.Save(&item).Error; err != nil {
			return nil, err
		}
	}

	if err := db.Preload("Product").First(&item, item.ID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// POST /user/cart
func AddToCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var req AddToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"message": "Validatie fout",
				"errors":  err.Error(),
			})
			return
		}

		item, err := AddToCart(db, userID, req)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Product bestaat niet"})
				return
			}
			if errors.Is(err, ErrProductUnavailable) {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Product is niet beschikbaar"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Fout bij toevoegen aan winkelwagen"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"message":    "Product toegevoegd aan winkelwagen",
			"data":       item,
			"cart_count": cartCount(db, userID),
		})
	}
}

// PUT /user/cart/:id/quantity
func UpdateQuantityHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		itemID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Ongeldig cart item ID"})
			return
		}

		var req UpdateQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"message": "Validatie fout",
				"errors":  err.Error(),
			})
			return
		}

		var item models.CartItem
		if err := db.Where("user_id = ?", userID).First(&item, itemID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Cart item niet gevonden"})
			return
		}

		item.Quantity = req.Quantity
		if err := db.Save(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Fout bij bijwerken aantal"})
			return
		}

		db.Preload("Product").First(&item, item.ID)
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Aantal bijgewerkt",
			"data":    item,
		})
	}
}

// PUT /user/cart/:id/instructions
func UpdateInstructionsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		itemID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Ongeldig cart item ID"})
			return
		}

		var req UpdateInstructionsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"message": "Validatie fout",
				"errors":  err.Error(),
			})
			return
		}

		var item models.CartItem
		if err := db.Where("user_id = ?", userID).First(&item, itemID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Cart item niet gevonden"})
			return
		}

		item.SpecialInstructions = req.SpecialInstructions
		if err := db.Save(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Fout bij bijwerken instructies"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Speciale instructies bijgewerkt",
			"data":    item,
		})
	}
}

// DELETE /user/cart/:id
func RemoveCartItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		itemID, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Ongeldig cart item ID"})
			return
		}

		result := db.Where("user_id = ? AND id = ?", userID, itemID).Delete(&models.CartItem{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Fout bij verwijderen item"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Cart item niet gevonden"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"message":    "Item verwijderd uit winkelwagen",
			"cart_count": cartCount(db, userID),
		})
	}
}

// DELETE /user/cart
func ClearCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		result := db.Where("user_id = ?", userID).Delete(&models.CartItem{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Fout bij legen winkelwagen"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": fmt.Sprintf("Winkelwagen geleegd (%d items verwijderd)", result.RowsAffected),
		})
	}
}

// GET /user/cart/validate
func ValidateCartHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")

		var items []models.CartItem
		if err := db.Where("user_id = ?", userID).Find(&items).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Fout bij ophalen winkelwagen"})
			return
		}

		if len(items) == 0 {
			c.JSON(http.StatusOK, gin.H{
				"success": false,
				"message": "Winkelwagen is leeg",
				"data":    gin.H{"valid": false},
			})
			return
		}

		lines := make([]pricing.Line, 0, len(items))
		for _, item := range items {
			lines = append(lines, pricing.Line{Quantity: item.Quantity, UnitPrice: item.Price})
		}
		summary := pricing.Calculate(lines, cfg.TaxRate)

		if summary.Total < cfg.MinOrderAmount {
			c.JSON(http.StatusOK, gin.H{
				"success": false,
				"message": fmt.Sprintf("Minimum bestelbedrag is €%.2f", cfg.MinOrderAmount),
				"data": gin.H{
					"valid":            false,
					"current_total":    summary.Total,
					"minimum_required": cfg.MinOrderAmount,
					"amount_needed":    cfg.MinOrderAmount - summary.Total,
				},
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Winkelwagen is geldig voor bestelling",
			"data":    gin.H{"valid": true, "total": summary.Total},
		})
	}
}

// cartCount feeds the badge in success responses. The mutation itself
// already committed, so a failing count is logged instead of failing
// the whole request.
func cartCount(db *gorm.DB, userID uint) int64 {
	var count int64
	if err := db.Model(&models.CartItem{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&count).Error; err != nil {
		log.Printf("❌ Cart count mislukt voor user %d: %v", userID, err)
	}
	return count
}
