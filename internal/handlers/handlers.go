package handlers

import (
	"github.com/RokestarRubel11/khm-sales/internal/cart"
	"github.com/RokestarRubel11/khm-sales/internal/database"
	"github.com/RokestarRubel11/khm-sales/internal/models"
	"github.com/RokestarRubel11/khm-sales/internal/sales"

	"github.com/gin-gonic/gin"
)

// Shared service instances, wired up once after the database connects.
var (
	Carts     *cart.Manager
	Finalizer *sales.Finalizer
)

// Init builds the cart manager and finalizer on top of the live store.
func Init() {
	Carts = cart.NewManager(sales.NewStoreCatalog(database.DB))
	Finalizer = sales.NewFinalizer(database.DB)
}

// currentUser rebuilds the acting user from the JWT claims the
// middleware stashed on the context.
func currentUser(c *gin.Context) models.User {
	return models.User{
		ID:   c.MustGet("userID").(uint),
		Role: c.MustGet("role").(string),
		Name: c.MustGet("name").(string),
	}
}
