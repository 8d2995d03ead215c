package sales

import (
	"errors"
	"fmt"

	"github.com/RokestarRubel11/khm-sales/internal/models"

	"gorm.io/gorm"
)

var ErrInvalidQuantity = errors.New("quantity must be positive")

// Transfer moves qty pieces of a product from the central warehouse
// into a salesman's van allocation at the given sell price. This is
// the only path by which van inventory increases. No partial
// transfers: the operation is rejected whole when central stock is
// short.
//
// An existing allocation row gains the quantity and its price is
// overwritten (last-write-wins, never averaged); otherwise a new row
// is created with the product's name/SKU/UOM denormalized onto it.
func Transfer(db *gorm.DB, salesmanID, productID uint, qty int, unitPrice float64) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var p models.Product
		if err := lockForUpdate(tx).First(&p, productID).Error; err != nil {
			return fmt.Errorf("load product: %w", err)
		}
		if p.Stock < qty {
			return fmt.Errorf("%w: %s", ErrInsufficientStock, p.Name)
		}

		p.Stock -= qty
		if err := tx.Save(&p).Error; err != nil {
			return err
		}

		var ss models.SalesmanStock
		err := lockForUpdate(tx).
			Where("salesman_id = ? AND product_id = ?", salesmanID, productID).
			First(&ss).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			ss = models.SalesmanStock{
				SalesmanID:    salesmanID,
				ProductID:     productID,
				ProductName:   p.Name,
				SKU:           p.SKU,
				UOM:           p.UOM,
				Stock:         qty,
				AssignedPrice: unitPrice,
			}
			return tx.Create(&ss).Error
		case err != nil:
			return err
		default:
			ss.Stock += qty
			ss.AssignedPrice = unitPrice
			return tx.Save(&ss).Error
		}
	})
}
