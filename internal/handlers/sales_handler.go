package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/RokestarRubel11/khm-sales/internal/cart"
	"github.com/RokestarRubel11/khm-sales/internal/database"
	"github.com/RokestarRubel11/khm-sales/internal/invoice"
	"github.com/RokestarRubel11/khm-sales/internal/models"
	"github.com/RokestarRubel11/khm-sales/internal/pricing"
	"github.com/RokestarRubel11/khm-sales/internal/sales"

	"github.com/gin-gonic/gin"
)

type cartLineRequest struct {
	ProductID uint    `json:"product_id" binding:"required"`
	Delta     int     `json:"delta"`
	Value     float64 `json:"value"`
}

// --- POST: Add one piece of a product to the caller's cart ---
func AddToCart(c *gin.Context) {
	var req cartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user := currentUser(c)
	err := Carts.AddLine(user.ID, user.Role, req.ProductID)
	switch {
	case errors.Is(err, cart.ErrInsufficientStock):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient field stock."})
		return
	case errors.Is(err, cart.ErrNotAvailable):
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not available for this seller"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}
	respondCart(c, user)
}

// --- POST: Move a line's quantity by delta (clamped, no-op on bounds) ---
func ChangeCartQuantity(c *gin.Context) {
	var req cartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user := currentUser(c)
	if err := Carts.ChangeQuantity(user.ID, user.Role, req.ProductID, req.Delta); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}
	respondCart(c, user)
}

// --- POST: Set a line's absolute discount ---
func SetCartDiscount(c *gin.Context) {
	var req cartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user := currentUser(c)
	Carts.SetDiscount(user.ID, req.ProductID, req.Value)
	respondCart(c, user)
}

// --- POST: Remove a line ---
func RemoveFromCart(c *gin.Context) {
	var req cartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user := currentUser(c)
	Carts.RemoveLine(user.ID, req.ProductID)
	respondCart(c, user)
}

// --- POST: Empty the cart ---
func ClearCart(c *gin.Context) {
	user := currentUser(c)
	Carts.Clear(user.ID)
	respondCart(c, user)
}

// --- POST: Select the customer (0 = walk-in) ---
func SetCartCustomer(c *gin.Context) {
	var req struct {
		CustomerID uint `json:"customer_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user := currentUser(c)
	Carts.SetCustomer(user.ID, req.CustomerID)
	respondCart(c, user)
}

// --- POST: CASH or CREDIT ---
func SetCartPayment(c *gin.Context) {
	var req struct {
		Mode string `json:"mode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user := currentUser(c)
	Carts.SetPaymentMode(user.ID, req.Mode)
	respondCart(c, user)
}

// --- GET: Current cart with live totals ---
func GetCart(c *gin.Context) {
	respondCart(c, currentUser(c))
}

// respondCart sends the session plus totals computed at the current
// VAT rate. Nothing is persisted here; the numbers are for display.
func respondCart(c *gin.Context, user models.User) {
	var settings models.Settings
	if err := database.DB.First(&settings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}

	session := Carts.Snapshot(user.ID)
	lines := make([]pricing.Line, 0, len(session.Lines))
	for _, l := range session.Lines {
		lines = append(lines, pricing.Line{Price: l.Price, Quantity: l.Quantity, Discount: l.Discount})
	}
	totals := pricing.Calculate(lines, settings.VATPercent)

	c.JSON(http.StatusOK, gin.H{
		"cart":        session,
		"subtotal":    totals.Subtotal,
		"vat_amount":  totals.VATAmount,
		"total":       totals.Total,
		"vat_percent": settings.VATPercent,
	})
}

// --- POST: Checkout ---
// Finalizes the caller's cart into the ledger and returns the sale
// together with its rendered invoice document.
func Checkout(c *gin.Context) {
	user := currentUser(c)
	session := Carts.Snapshot(user.ID)

	sale, err := Finalizer.Finalize(user, session)
	switch {
	case errors.Is(err, sales.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	case errors.Is(err, sales.ErrInsufficientStock):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, sales.ErrDiscountExceedsGross):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process sale"})
		return
	}

	// The committed cart is done; a fresh session starts on next add.
	Carts.Clear(user.ID)

	var settings models.Settings
	database.DB.First(&settings)

	c.JSON(http.StatusOK, gin.H{
		"message":    "Sale successful!",
		"sale":       sale,
		"invoice_no": sale.InvoiceNo,
		"invoice":    invoice.Render(*sale, settings),
	})
}

// --- GET: Sales ledger ---
// Admins see the whole ledger; a salesman only their own invoices.
func GetSales(c *gin.Context) {
	user := currentUser(c)

	q := database.DB.Preload("Items").Order("date desc")
	if user.Role != models.RoleAdmin {
		q = q.Where("sales_man = ?", user.Name)
	}

	var ledger []models.Sale
	if err := q.Find(&ledger).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sales"})
		return
	}
	c.JSON(http.StatusOK, ledger)
}

// --- GET: Re-render the invoice for a past sale ---
func GetInvoice(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid Sale ID"})
		return
	}

	var sale models.Sale
	if err := database.DB.Preload("Items").First(&sale, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Sale not found"})
		return
	}

	user := currentUser(c)
	if user.Role != models.RoleAdmin && sale.SalesMan != user.Name {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your invoice"})
		return
	}

	var settings models.Settings
	if err := database.DB.First(&settings).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load settings"})
		return
	}

	c.JSON(http.StatusOK, invoice.Render(sale, settings))
}
