package sales

import (
	"errors"
	"fmt"
	"time"

	"github.com/RokestarRubel11/khm-sales/internal/cart"
	"github.com/RokestarRubel11/khm-sales/internal/models"
	"github.com/RokestarRubel11/khm-sales/internal/pricing"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInsufficientStock    = errors.New("insufficient stock")
	ErrDiscountExceedsGross = errors.New("discount exceeds line gross")
)

// WalkInCustomer is the snapshot used when no customer is selected.
const (
	WalkInCustomer = "WALK-IN CASH CUSTOMER"
	WalkInCode     = "WALK-01"
)

// Finalizer commits cart sessions into the append-only sales ledger.
// Everything happens in one transaction: invoice numbering, stock
// re-validation, deduction and the ledger append either all land or
// none do.
type Finalizer struct {
	db *gorm.DB
}

func NewFinalizer(db *gorm.DB) *Finalizer {
	return &Finalizer{db: db}
}

// lockForUpdate adds row locking on backends that support it. SQLite
// has no row locks; its single writer serializes the transaction
// anyway.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// Finalize turns the session into a Sale. The whole sale is rejected
// if any line's stock has dropped below its cart quantity since it was
// added, or if any discount exceeds the line gross.
func (f *Finalizer) Finalize(user models.User, session cart.Session) (*models.Sale, error) {
	if len(session.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	var settings models.Settings
	if err := f.db.First(&settings).Error; err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	vat := settings.VATPercent

	now := time.Now()
	var sale *models.Sale

	err := f.db.Transaction(func(tx *gorm.DB) error {
		// 1. Re-validate every line against current stock, under lock,
		// and deduct. A stale cart fails the whole sale here.
		items := make([]models.SaleItem, 0, len(session.Lines))
		lines := make([]pricing.Line, 0, len(session.Lines))

		for _, l := range session.Lines {
			pl := pricing.Line{Price: l.Price, Quantity: l.Quantity, Discount: l.Discount}
			if pricing.LineNet(pl) < 0 {
				return fmt.Errorf("%w: %s", ErrDiscountExceedsGross, l.ProductName)
			}

			if user.Role == models.RoleAdmin {
				var p models.Product
				if err := lockForUpdate(tx).First(&p, l.ProductID).Error; err != nil {
					return fmt.Errorf("%w: product %d", ErrInsufficientStock, l.ProductID)
				}
				if p.Stock < l.Quantity {
					return fmt.Errorf("%w: %s", ErrInsufficientStock, p.Name)
				}
				p.Stock -= l.Quantity
				if err := tx.Save(&p).Error; err != nil {
					return err
				}
			} else {
				var ss models.SalesmanStock
				err := lockForUpdate(tx).
					Where("salesman_id = ? AND product_id = ?", user.ID, l.ProductID).
					First(&ss).Error
				if err != nil {
					return fmt.Errorf("%w: product %d", ErrInsufficientStock, l.ProductID)
				}
				if ss.Stock < l.Quantity {
					return fmt.Errorf("%w: %s", ErrInsufficientStock, ss.ProductName)
				}
				ss.Stock -= l.Quantity
				if err := tx.Save(&ss).Error; err != nil {
					return err
				}
			}

			// 2. Freeze the invoice line.
			uomSize := pricing.UOMSize(l.UOM)
			ctn, _ := pricing.Cartons(l.Quantity, uomSize)
			items = append(items, models.SaleItem{
				ProductID:       l.ProductID,
				ProductName:     l.ProductName,
				Quantity:        l.Quantity,
				QuantityCtn:     ctn,
				PriceCtn:        l.Price * float64(uomSize),
				GrossAmount:     l.Price,
				DiscountPercent: pricing.DiscountPercent(pl),
				DiscountVal:     l.Discount,
				VATPercent:      vat,
				VATAmount:       pricing.LineVAT(pl, vat),
				TotalIncl:       pricing.LineNet(pl) + pricing.LineVAT(pl, vat),
				UOM:             l.UOM,
			})
			lines = append(lines, pl)
		}

		totals := pricing.Calculate(lines, vat)

		// 3. Allocate the invoice number from the persisted per-year
		// sequence. Never derived from ledger length.
		invoiceNo, err := nextInvoiceNo(tx, now.Year())
		if err != nil {
			return err
		}

		// 4. Snapshot the customer, or fall back to the walk-in
		// sentinel. A missing customer never fails the sale.
		s := models.Sale{
			InvoiceNo:    invoiceNo,
			CustomerName: WalkInCustomer,
			CustCode:     WalkInCode,
			Items:        items,
			Subtotal:     totals.Subtotal,
			VATAmount:    totals.VATAmount,
			Total:        totals.Total,
			Date:         now,
			OrderDate:    now,
			DeliveryDate: now,
			SalesMan:     user.Name,
			PaymentType:  session.PaymentMode,
			VehicleNo:    "QN-FIELD-01",
			SiteCode:     "CENTRAL",
			Currency:     "SR",
			DmID:         fmt.Sprintf("DM%04d", now.Unix()%10000),
		}
		if s.PaymentType == "" {
			s.PaymentType = models.PaymentCash
		}
		if session.CustomerID != 0 {
			var c models.Customer
			if err := tx.First(&c, session.CustomerID).Error; err == nil {
				s.CustomerID = c.ID
				s.CustomerName = c.Name
				s.CustomerPhone = c.Phone
				s.CustomerAddress = c.Address
				s.CustomerTRN = c.TRN
				s.CustCode = fmt.Sprintf("C%04d", c.ID)
			}
		}

		// 5. Append to the ledger. GORM inserts the items with it.
		if err := tx.Create(&s).Error; err != nil {
			return err
		}
		sale = &s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// nextInvoiceNo increments the year's sequence row inside the caller's
// transaction and formats INV/{YYYY}/{00001}.
func nextInvoiceNo(tx *gorm.DB, year int) (string, error) {
	var seq models.InvoiceSequence
	err := lockForUpdate(tx).Where("year = ?", year).First(&seq).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		seq = models.InvoiceSequence{Year: year, Next: 1}
		if err := tx.Create(&seq).Error; err != nil {
			return "", err
		}
	} else if err != nil {
		return "", err
	}

	n := seq.Next
	seq.Next = n + 1
	if err := tx.Save(&seq).Error; err != nil {
		return "", err
	}
	return fmt.Sprintf("INV/%d/%05d", year, n), nil
}
