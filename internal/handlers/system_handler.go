package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/RokestarRubel11/khm-sales/internal/database"
	"github.com/RokestarRubel11/khm-sales/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BackupPayload is the single document the whole system serializes into.
// Restoring an older payload rolls every collection back together, so a
// backup is always internally consistent.
type BackupPayload struct {
	ExportedAt     time.Time                `json:"exported_at"`
	Users          []models.User            `json:"users"`
	Products       []models.Product         `json:"products"`
	SalesmanStocks []models.SalesmanStock   `json:"salesman_stocks"`
	Customers      []models.Customer        `json:"customers"`
	Sales          []models.Sale            `json:"sales"`
	Purchases      []models.Purchase        `json:"purchases"`
	Settings       []models.Settings        `json:"settings"`
	Sequences      []models.InvoiceSequence `json:"sequences"`
}

// --- GET: /api/admin/backup ---
// Streams the entire database as one downloadable JSON document.
func Backup(c *gin.Context) {
	var payload BackupPayload
	payload.ExportedAt = time.Now()

	// 1. Collect every table. Sales carry their items so the ledger
	// survives the round trip intact.
	steps := []error{
		database.DB.Find(&payload.Users).Error,
		database.DB.Find(&payload.Products).Error,
		database.DB.Find(&payload.SalesmanStocks).Error,
		database.DB.Find(&payload.Customers).Error,
		database.DB.Preload("Items").Find(&payload.Sales).Error,
		database.DB.Find(&payload.Purchases).Error,
		database.DB.Find(&payload.Settings).Error,
		database.DB.Find(&payload.Sequences).Error,
	}
	for _, err := range steps {
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export data"})
			return
		}
	}

	// 2. Date-stamped filename so browsers don't overwrite older backups
	filename := fmt.Sprintf("khm-backup-%s.json", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.JSON(http.StatusOK, payload)
}

// --- POST: /api/admin/restore ---
// Replaces the whole database with the uploaded backup. The payload is
// parsed and sanity-checked BEFORE anything is deleted; a malformed file
// leaves the running system untouched.
func Restore(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read upload"})
		return
	}

	// 1. Validate first. json.Unmarshal rejects garbage outright.
	var payload BackupPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Backup file is not valid JSON"})
		return
	}
	if len(payload.Users) == 0 || len(payload.Settings) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Backup file is missing required collections"})
		return
	}

	// 2. Wholesale swap inside one transaction. If any insert fails the
	// old data comes back on rollback.
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		tables := []interface{}{
			&models.SaleItem{}, &models.Sale{}, &models.Purchase{},
			&models.SalesmanStock{}, &models.Product{}, &models.Customer{},
			&models.User{}, &models.Settings{}, &models.InvoiceSequence{},
		}
		for _, t := range tables {
			if err := tx.Where("1 = 1").Delete(t).Error; err != nil {
				return err
			}
		}

		if err := tx.Create(&payload.Users).Error; err != nil {
			return err
		}
		if len(payload.Products) > 0 {
			if err := tx.Create(&payload.Products).Error; err != nil {
				return err
			}
		}
		if len(payload.SalesmanStocks) > 0 {
			if err := tx.Create(&payload.SalesmanStocks).Error; err != nil {
				return err
			}
		}
		if len(payload.Customers) > 0 {
			if err := tx.Create(&payload.Customers).Error; err != nil {
				return err
			}
		}
		if len(payload.Sales) > 0 {
			if err := tx.Create(&payload.Sales).Error; err != nil {
				return err
			}
		}
		if len(payload.Purchases) > 0 {
			if err := tx.Create(&payload.Purchases).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(&payload.Settings).Error; err != nil {
			return err
		}
		if len(payload.Sequences) > 0 {
			if err := tx.Create(&payload.Sequences).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Restore failed, database rolled back"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "System restored successfully!"})
}

// --- GET: /api/admin/settings ---
func GetSettings(c *gin.Context) {
	var settings models.Settings
	if err := database.DB.First(&settings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}
	c.JSON(http.StatusOK, settings)
}

// --- PUT: /api/admin/settings ---
// Updates company identity and the VAT rate used by every new sale.
// Finalized invoices keep the rate they were struck at.
func UpdateSettings(c *gin.Context) {
	var settings models.Settings
	if err := database.DB.First(&settings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}

	var input models.Settings
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	if input.VATPercent < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "VAT percent cannot be negative"})
		return
	}

	input.ID = settings.ID
	if err := database.DB.Save(&input).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save settings"})
		return
	}
	c.JSON(http.StatusOK, input)
}
