package orderControllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/soereshchotkan/afhaalrestaurant-website/models"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// GET /admin/orders/export-excel
func ExportOrdersToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Preload("Items.Product")
		if date := c.Query("date"); date != "" {
			query = query.Where("DATE(created_at) = ?", date)
		}

		var orders []models.Order
		if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Fout bij ophalen bestellingen"})
			return
		}

		file := xlsx.NewFile()
		sheet, err := file.AddSheet("Orders")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Fout bij aanmaken Excel sheet"})
			return
		}

		headers := []string{
			"OrderNumber", "CustomerName", "CustomerPhone", "CustomerEmail",
			"Status", "PaymentMethod", "PaymentStatus",
			"Subtotal", "TaxAmount", "TotalAmount",
			"PickupTime", "CreatedAt", "Items",
		}
		headerRow := sheet.AddRow()
		for _, h := range headers {
			headerRow.AddCell().SetValue(h)
		}

		for _, o := range orders {
			row := sheet.AddRow()

			row.AddCell().SetValue(o.OrderNumber)
			row.AddCell().SetValue(o.CustomerName)
			row.AddCell().SetValue(o.CustomerPhone)
			row.AddCell().SetValue(o.CustomerEmail)
			row.AddCell().SetValue(string(o.Status))
			row.AddCell().SetValue(string(o.PaymentMethod))
			row.AddCell().SetValue(string(o.PaymentStatus))
			row.AddCell().SetValue(o.Subtotal)
			row.AddCell().SetValue(o.TaxAmount)
			row.AddCell().SetValue(o.TotalAmount)
			row.AddCell().SetValue(o.PickupTime.Format("2006-01-02 15:04"))
			row.AddCell().SetValue(o.CreatedAt.Format("2006-01-02 15:04:05"))

			var items []string
			for _, item := range o.Items {
				items = append(items, strconv.Itoa(item.Quantity)+"x "+item.Product.Name)
			}
			row.AddCell().SetValue(strings.Join(items, ", "))
		}

		c.Header("Content-Disposition", "attachment; filename=orders.xlsx")
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Fout bij schrijven Excel bestand"})
			return
		}
	}
}
