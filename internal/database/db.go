package database

import (
	"log"
	"os"
	"time"

	"github.com/RokestarRubel11/khm-sales/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect() {
	// 1. Pick the backend from the environment.
	// A hosted install sets DB_DSN (MySQL); a single-terminal shop runs
	// on a local SQLite file, the default.
	dsn := os.Getenv("DB_DSN")

	var err error
	if dsn != "" {
		// Connect with GORM (wait for MySQL to be ready)
		for i := 0; i < 5; i++ {
			DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
				Logger: logger.Default.LogMode(logger.Info),
			})
			if err == nil {
				break
			}
			log.Printf("Failed to connect to database. Retrying in 2 seconds... (%d/5)", i+1)
			time.Sleep(2 * time.Second)
		}
		if err != nil {
			log.Fatal("Failed to connect to database after 5 attempts:", err)
		}
		log.Println("✅ Successfully connected to MySQL!")
	} else {
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "khm_sales.db"
		}
		DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Warn),
		})
		if err != nil {
			log.Fatal("Failed to open local database:", err)
		}
		log.Println("✅ Local SQLite store ready: " + path)
	}

	// 2. Auto-Migrate
	err = DB.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.SalesmanStock{},
		&models.Customer{},
		&models.Sale{},
		&models.SaleItem{},
		&models.Purchase{},
		&models.Settings{},
		&models.InvoiceSequence{},
	)
	if err != nil {
		log.Fatal("Migration failed:", err)
	}

	seedSettings(DB)

	log.Println("✅ Database Schema Synced!")
}

// seedSettings makes sure the single company-settings row exists so the
// invoice renderer and tax calculator always have a VAT rate to read.
func seedSettings(db *gorm.DB) {
	var count int64
	db.Model(&models.Settings{}).Count(&count)
	if count > 0 {
		return
	}
	db.Create(&models.Settings{
		CompanyName:       "QUEEN FOOD PRODUCT LTD",
		CompanyNameArabic: "شركة كوين للمنتجات الغذائية المحدودة",
		VATNumber:         "35252630700003",
		ExciseTRN:         "35252630700003",
		Address:           "Dammam, Eastern Province, Saudi Arabia",
		Phone:             "0560659793",
		Email:             "contact@queenfood.com",
		VATPercent:        15,
		WarehouseDetails:  "Dammam Central Store",
	})
}
