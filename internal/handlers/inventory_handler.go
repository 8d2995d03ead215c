package handlers

import (
	"net/http"

	"github.com/RokestarRubel11/khm-sales/internal/database"
	"github.com/RokestarRubel11/khm-sales/internal/models"

	"github.com/gin-gonic/gin"
)

// StockView is the common projection both inventories render into.
// Source tags the row so the client can tell a warehouse row from a
// van allocation without guessing from which endpoint it called.
type StockView struct {
	Source        string  `json:"source"` // CENTRAL or VAN
	ProductID     uint    `json:"product_id"`
	Name          string  `json:"name"`
	SKU           string  `json:"sku"`
	Category      string  `json:"category,omitempty"`
	UOM           string  `json:"uom"`
	Stock         int     `json:"stock"`
	Price         float64 `json:"price"`
	PurchasePrice float64 `json:"purchase_price,omitempty"`
}

const (
	SourceCentral = "CENTRAL"
	SourceVan     = "VAN"
)

// --- GET: Inventory for the caller ---
// Admins get the central warehouse (cost included); salesmen get
// their own van allocation priced at the assigned rate.
func GetInventory(c *gin.Context) {
	user := currentUser(c)

	if user.Role == models.RoleAdmin {
		var products []models.Product
		if err := database.DB.Order("name asc").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory"})
			return
		}

		view := make([]StockView, 0, len(products))
		for _, p := range products {
			view = append(view, StockView{
				Source:        SourceCentral,
				ProductID:     p.ID,
				Name:          p.Name,
				SKU:           p.SKU,
				Category:      p.Category,
				UOM:           p.UOM,
				Stock:         p.Stock,
				Price:         p.SalePrice,
				PurchasePrice: p.PurchasePrice,
			})
		}
		c.JSON(http.StatusOK, view)
		return
	}

	var allocations []models.SalesmanStock
	if err := database.DB.Where("salesman_id = ?", user.ID).Order("product_name asc").Find(&allocations).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory"})
		return
	}

	view := make([]StockView, 0, len(allocations))
	for _, a := range allocations {
		view = append(view, StockView{
			Source:    SourceVan,
			ProductID: a.ProductID,
			Name:      a.ProductName,
			SKU:       a.SKU,
			UOM:       a.UOM,
			Stock:     a.Stock,
			Price:     a.AssignedPrice,
		})
	}
	c.JSON(http.StatusOK, view)
}
