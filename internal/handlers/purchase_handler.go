package handlers

import (
	"net/http"
	"time"

	"github.com/RokestarRubel11/khm-sales/internal/database"
	"github.com/RokestarRubel11/khm-sales/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// --- GET: Purchase history (append-only ledger) ---
func GetPurchases(c *gin.Context) {
	var purchases []models.Purchase
	if err := database.DB.Order("date desc").Find(&purchases).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch purchases"})
		return
	}
	c.JSON(http.StatusOK, purchases)
}

type RefillRequest struct {
	ProductID uint    `json:"product_id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required"`
	Cost      float64 `json:"cost"`
	SalePrice float64 `json:"sale_price"`
}

// --- POST: Refill central stock from a supplier delivery ---
// Increases the product's stock, overwrites its purchase and list
// prices with the new batch values, and appends a Purchase record.
func Refill(c *gin.Context) {
	var req RefillRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var p models.Product
		if err := tx.First(&p, req.ProductID).Error; err != nil {
			return err
		}

		p.Stock += req.Quantity
		p.PurchasePrice = req.Cost
		p.SalePrice = req.SalePrice
		if err := tx.Save(&p).Error; err != nil {
			return err
		}

		return tx.Create(&models.Purchase{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    req.Quantity,
			Cost:        req.Cost,
			Total:       float64(req.Quantity) * req.Cost,
			Date:        time.Now(),
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to refill stock"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Central inventory refilled."})
}

type NewProductRequest struct {
	Name          string  `json:"name" binding:"required"`
	SKU           string  `json:"sku" binding:"required"`
	Category      string  `json:"category"`
	PurchasePrice float64 `json:"purchase_price"`
	SalePrice     float64 `json:"sale_price"`
	Stock         int     `json:"stock"`
	UOM           string  `json:"uom"`
}

// --- POST: Register a brand new product ---
// The initial batch is recorded as a Purchase so the procurement
// history accounts for every unit that ever entered the warehouse.
func RegisterProduct(c *gin.Context) {
	var req NewProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if req.UOM == "" {
		req.UOM = "24"
	}

	product := models.Product{
		Name:          req.Name,
		SKU:           req.SKU,
		Category:      req.Category,
		PurchasePrice: req.PurchasePrice,
		SalePrice:     req.SalePrice,
		Stock:         req.Stock,
		UOM:           req.UOM,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&product).Error; err != nil {
			return err
		}
		return tx.Create(&models.Purchase{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    req.Stock,
			Cost:        req.PurchasePrice,
			Total:       float64(req.Stock) * req.PurchasePrice,
			Date:        time.Now(),
		}).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, product)
}
