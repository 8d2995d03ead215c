package handlers

import (
	"net/http"
	"time"

	"github.com/RokestarRubel11/khm-sales/internal/database"
	"github.com/RokestarRubel11/khm-sales/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ReportData defines the shape of our analytics response
type ReportData struct {
	TotalRevenue float64 `json:"total_revenue"`
	TotalOrders  int64   `json:"total_orders"`
	TotalVAT     float64 `json:"total_vat"`
	TopSelling   []struct {
		ProductName string  `json:"product_name"`
		Sold        int     `json:"sold"`
		Revenue     float64 `json:"revenue"`
	} `json:"top_selling"`
	RecentSales []models.Sale `json:"recent_sales"`
}

// --- GET: /api/reports ---
// Optional query params: start, end (YYYY-MM-DD) and salesman.
// A non-admin caller is always pinned to their own figures.
func GetSalesReport(c *gin.Context) {
	var data ReportData

	user := currentUser(c)
	salesman := c.Query("salesman")
	if user.Role != models.RoleAdmin {
		salesman = user.Name
	}

	// Each aggregate gets its own query; gorm builders accumulate
	// conditions when reused across Scans.
	filtered := func() *gorm.DB {
		q := database.DB.Model(&models.Sale{})
		if s := c.Query("start"); s != "" {
			if t, err := time.Parse("2006-01-02", s); err == nil {
				q = q.Where("date >= ?", t)
			}
		}
		if e := c.Query("end"); e != "" {
			if t, err := time.Parse("2006-01-02", e); err == nil {
				q = q.Where("date < ?", t.AddDate(0, 0, 1))
			}
		}
		if salesman != "" {
			q = q.Where("sales_man = ?", salesman)
		}
		return q
	}

	// 1. Calculate Total Revenue and collected VAT
	err := filtered().
		Select("COALESCE(SUM(total), 0)").
		Scan(&data.TotalRevenue).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate revenue"})
		return
	}
	err = filtered().
		Select("COALESCE(SUM(vat_amount), 0)").
		Scan(&data.TotalVAT).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to calculate VAT"})
		return
	}

	// 2. Count Total Orders
	err = filtered().Count(&data.TotalOrders).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count orders"})
		return
	}

	// 3. Find Top 5 Best Sellers
	top := database.DB.Table("sale_items").
		Select("sale_items.product_name as product_name, SUM(sale_items.quantity) as sold, SUM(sale_items.total_incl) as revenue").
		Joins("JOIN sales ON sale_items.sale_id = sales.id")
	if salesman != "" {
		top = top.Where("sales.sales_man = ?", salesman)
	}
	err = top.Group("sale_items.product_name").
		Order("sold desc").
		Limit(5).
		Scan(&data.TopSelling).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch top selling items"})
		return
	}

	// 4. Fetch Recent Transactions (last 10, newest first)
	recent := database.DB.Preload("Items").Order("date desc").Limit(10)
	if salesman != "" {
		recent = recent.Where("sales_man = ?", salesman)
	}
	err = recent.Find(&data.RecentSales).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent sales"})
		return
	}

	c.JSON(http.StatusOK, data)
}

// --- DATA STRUCTURES FOR VALUATION REPORT ---

// ValuationItem represents a single row in the valuation table
type ValuationItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	CostPrice float64 `json:"cost_price"`
	TotalCost float64 `json:"total_cost"`
}

// CategoryGroup represents one entire table section (e.g., "DRINKS")
type CategoryGroup struct {
	CategoryName string          `json:"category_name"`
	Items        []ValuationItem `json:"items"`
	Subtotal     float64         `json:"subtotal"`
}

// ValuationResponse is the final payload sent to the client
type ValuationResponse struct {
	Categories []CategoryGroup `json:"categories"`
	GrandTotal float64         `json:"grand_total"`
}

// --- GET: /api/reports/valuation ---
// GetStockValuation prices the central warehouse at cost, grouped by category.
// Van allocations are excluded; they already left the warehouse.
func GetStockValuation(c *gin.Context) {
	var products []models.Product

	// 1. Fetch all products from the database
	if err := database.DB.Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch inventory"})
		return
	}

	// 2. Group by category while keeping a running grand total
	var grandTotal float64
	groupedMap := make(map[string]*CategoryGroup)

	for _, p := range products {
		catName := p.Category
		if catName == "" {
			catName = "Uncategorized"
		}

		if _, exists := groupedMap[catName]; !exists {
			groupedMap[catName] = &CategoryGroup{
				CategoryName: catName,
				Items:        []ValuationItem{},
				Subtotal:     0,
			}
		}

		itemTotal := float64(p.Stock) * p.PurchasePrice

		groupedMap[catName].Items = append(groupedMap[catName].Items, ValuationItem{
			Name:      p.Name,
			Quantity:  p.Stock,
			CostPrice: p.PurchasePrice,
			TotalCost: itemTotal,
		})

		groupedMap[catName].Subtotal += itemTotal
		grandTotal += itemTotal
	}

	// 3. Flatten the map so the client can loop over it
	var response ValuationResponse
	response.GrandTotal = grandTotal
	for _, group := range groupedMap {
		response.Categories = append(response.Categories, *group)
	}

	c.JSON(http.StatusOK, response)
}
