package handlers

import (
	"net/http"
	"strconv"

	"github.com/RokestarRubel11/khm-sales/internal/database"
	"github.com/RokestarRubel11/khm-sales/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// --- GET: List all field salesmen ---
func GetSalesmen(c *gin.Context) {
	var salesmen []models.User
	if err := database.DB.Where("role = ?", models.RoleSalesman).Order("name asc").Find(&salesmen).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch salesmen"})
		return
	}
	c.JSON(http.StatusOK, salesmen)
}

// --- POST: Onboard a salesman directly ---
// Admin-created accounts skip the approval queue and start APPROVED,
// unlike self-signup which lands in PENDING.
func AddSalesman(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to secure password"})
		return
	}

	user := models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         models.RoleSalesman,
		Status:       models.StatusApproved,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}
	c.JSON(http.StatusCreated, user)
}

// --- PUT: Flip a salesman between PENDING and APPROVED ---
// Suspending an agent locks them out at next login but leaves their
// van stock and ledger history in place.
func ToggleSalesmanStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Salesman not found"})
		return
	}
	if user.Role != models.RoleSalesman {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only salesman accounts can be toggled"})
		return
	}

	if user.Status == models.StatusApproved {
		user.Status = models.StatusPending
	} else {
		user.Status = models.StatusApproved
	}
	if err := database.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// --- DELETE: Remove a salesman account ---
// Their invoices stay in the ledger (SalesMan is a snapshot string);
// any remaining van stock is returned to the central warehouse first.
func DeleteSalesman(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Salesman not found"})
		return
	}
	if user.Role != models.RoleSalesman {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only salesman accounts can be deleted"})
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		// 1. Hand any unsold van stock back to central
		var allocations []models.SalesmanStock
		if err := tx.Where("salesman_id = ?", user.ID).Find(&allocations).Error; err != nil {
			return err
		}
		for _, a := range allocations {
			if a.Stock > 0 {
				if err := tx.Model(&models.Product{}).
					Where("id = ?", a.ProductID).
					Update("stock", gorm.Expr("stock + ?", a.Stock)).Error; err != nil {
					return err
				}
			}
		}
		if err := tx.Where("salesman_id = ?", user.ID).Delete(&models.SalesmanStock{}).Error; err != nil {
			return err
		}

		// 2. Drop the account itself
		return tx.Delete(&user).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete salesman"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Salesman removed, van stock returned to warehouse"})
}
