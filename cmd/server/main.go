package main

import (
	"log"
	"os"
	"time"

	"github.com/RokestarRubel11/khm-sales/internal/database"
	"github.com/RokestarRubel11/khm-sales/internal/handlers"
	"github.com/RokestarRubel11/khm-sales/internal/middleware"
	"github.com/RokestarRubel11/khm-sales/internal/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: No .env file found")
	}

	database.Connect()
	handlers.Init()
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.POST("/login", handlers.Login)
	// Self-signup lands in the PENDING queue; an admin approves it later
	r.POST("/signup", handlers.Signup)

	// --- PROTECTED ROUTES ---
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware())
	{
		// STAFF & ADMIN
		api.GET("/products", handlers.GetProducts)
		api.GET("/inventory", handlers.GetInventory)
		api.GET("/customers", handlers.GetCustomers)
		api.POST("/customers", handlers.AddCustomer)
		api.GET("/reports", handlers.GetSalesReport)

		// POS cart (one session per logged-in user)
		api.GET("/cart", handlers.GetCart)
		api.POST("/cart/add", handlers.AddToCart)
		api.POST("/cart/quantity", handlers.ChangeCartQuantity)
		api.POST("/cart/discount", handlers.SetCartDiscount)
		api.POST("/cart/remove", handlers.RemoveFromCart)
		api.POST("/cart/clear", handlers.ClearCart)
		api.POST("/cart/customer", handlers.SetCartCustomer)
		api.POST("/cart/payment", handlers.SetCartPayment)
		api.POST("/checkout", handlers.Checkout)

		api.GET("/sales", handlers.GetSales)
		api.GET("/sales/:id/invoice", handlers.GetInvoice)

		// ADMIN ONLY
		admin := api.Group("/admin")
		admin.Use(middleware.RequireRole(models.RoleAdmin))
		{
			admin.POST("/ask", handlers.AskAI)

			admin.POST("/products", handlers.RegisterProduct)
			admin.PUT("/products/:id", handlers.UpdateProduct)
			admin.DELETE("/products/:id", handlers.DeleteProduct)
			admin.GET("/purchases", handlers.GetPurchases)
			admin.POST("/purchases/refill", handlers.Refill)

			admin.POST("/wholesale/transfer", handlers.TransferStock)
			admin.GET("/wholesale/allocations", handlers.GetAllocations)

			admin.GET("/salesmen", handlers.GetSalesmen)
			admin.POST("/salesmen", handlers.AddSalesman)
			admin.PUT("/salesmen/:id/status", handlers.ToggleSalesmanStatus)
			admin.DELETE("/salesmen/:id", handlers.DeleteSalesman)

			admin.PUT("/customers/:id", handlers.UpdateCustomer)
			admin.DELETE("/customers/:id", handlers.DeleteCustomer)

			admin.GET("/reports/valuation", handlers.GetStockValuation)

			admin.GET("/settings", handlers.GetSettings)
			admin.PUT("/settings", handlers.UpdateSettings)

			admin.GET("/backup", handlers.Backup)
			admin.POST("/restore", handlers.Restore)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Server starting on :" + port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
