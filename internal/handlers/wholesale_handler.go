package handlers

import (
	"errors"
	"net/http"

	"github.com/RokestarRubel11/khm-sales/internal/database"
	"github.com/RokestarRubel11/khm-sales/internal/models"
	"github.com/RokestarRubel11/khm-sales/internal/sales"

	"github.com/gin-gonic/gin"
)

type TransferRequest struct {
	SalesmanID uint    `json:"salesman_id" binding:"required"`
	ProductID  uint    `json:"product_id" binding:"required"`
	Quantity   int     `json:"quantity" binding:"required"`
	SellPrice  float64 `json:"sell_price"`
}

// --- POST: Van loading ---
// Moves stock from the central warehouse into a salesman's allocation
// and sets the van sell price. Admin only.
func TransferStock(c *gin.Context) {
	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	// The target has to be an approved salesman
	var salesman models.User
	err := database.DB.Where("id = ? AND role = ? AND status = ?",
		req.SalesmanID, models.RoleSalesman, models.StatusApproved).First(&salesman).Error
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Salesman not found or not approved"})
		return
	}

	err = sales.Transfer(database.DB, req.SalesmanID, req.ProductID, req.Quantity, req.SellPrice)
	switch {
	case errors.Is(err, sales.ErrInsufficientStock):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient inventory in central warehouse."})
		return
	case errors.Is(err, sales.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Quantity must be positive"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transfer failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Van loading confirmed!"})
}

// --- GET: Allocation log ---
func GetAllocations(c *gin.Context) {
	var stocks []models.SalesmanStock
	if err := database.DB.Find(&stocks).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch allocations"})
		return
	}
	c.JSON(http.StatusOK, stocks)
}
