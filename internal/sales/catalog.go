package sales

import (
	"errors"

	"github.com/RokestarRubel11/khm-sales/internal/cart"
	"github.com/RokestarRubel11/khm-sales/internal/models"

	"gorm.io/gorm"
)

// StoreCatalog answers the cart's availability lookups from the gorm
// store. Admins sell central Product stock at the catalog price,
// salesmen sell only their own van allocation at the assigned price.
type StoreCatalog struct {
	db *gorm.DB
}

func NewStoreCatalog(db *gorm.DB) *StoreCatalog {
	return &StoreCatalog{db: db}
}

func (c *StoreCatalog) Available(userID uint, role string, productID uint) (*cart.AvailableItem, error) {
	if role == models.RoleAdmin {
		var p models.Product
		if err := c.db.First(&p, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, cart.ErrNotAvailable
			}
			return nil, err
		}
		return &cart.AvailableItem{
			ProductID: p.ID,
			Name:      p.Name,
			SKU:       p.SKU,
			UOM:       p.UOM,
			Stock:     p.Stock,
			Price:     p.SalePrice,
		}, nil
	}

	var ss models.SalesmanStock
	err := c.db.Where("salesman_id = ? AND product_id = ?", userID, productID).First(&ss).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cart.ErrNotAvailable
		}
		return nil, err
	}
	return &cart.AvailableItem{
		ProductID: ss.ProductID,
		Name:      ss.ProductName,
		SKU:       ss.SKU,
		UOM:       ss.UOM,
		Stock:     ss.Stock,
		Price:     ss.AssignedPrice,
	}, nil
}
