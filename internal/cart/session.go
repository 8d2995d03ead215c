// Package cart keeps the in-progress sale for each logged-in user.
// Sessions are working state only: nothing here touches the store,
// and a session is discarded on finalize or clear. Stock is checked
// at add time against the caller's visible pool (central warehouse
// for admins, own van allocation for salesmen); the finalizer checks
// again under lock before committing.
package cart

import (
	"errors"
	"sync"

	"github.com/RokestarRubel11/khm-sales/internal/models"
)

var (
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrNotAvailable      = errors.New("product not available for this seller")
)

// AvailableItem is the sellable view of a product for one user:
// a central-warehouse Product for ADMIN, the user's own SalesmanStock
// row (at the assigned van price) for SALESMAN.
type AvailableItem struct {
	ProductID uint
	Name      string
	SKU       string
	UOM       string
	Stock     int
	Price     float64
}

// Catalog resolves what a user may sell and how much of it is left.
type Catalog interface {
	Available(userID uint, role string, productID uint) (*AvailableItem, error)
}

// Line is one position in a cart.
type Line struct {
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	SKU         string  `json:"sku"`
	UOM         string  `json:"uom"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
	Discount    float64 `json:"discount"` // absolute currency amount
}

// Session is one user's in-progress sale.
type Session struct {
	CustomerID  uint   `json:"customer_id"` // 0 = walk-in
	PaymentMode string `json:"payment_mode"`
	Lines       []Line `json:"lines"`
}

// Manager owns all live sessions, one per user ID.
type Manager struct {
	mu       sync.Mutex
	catalog  Catalog
	sessions map[uint]*Session
}

func NewManager(catalog Catalog) *Manager {
	return &Manager{catalog: catalog, sessions: make(map[uint]*Session)}
}

// session returns (creating if needed) the caller's session. Callers
// must hold m.mu.
func (m *Manager) session(userID uint) *Session {
	s, ok := m.sessions[userID]
	if !ok {
		s = &Session{PaymentMode: models.PaymentCash}
		m.sessions[userID] = s
	}
	return s
}

// AddLine puts one more piece of the product into the cart. Rejected
// when the visible stock is already fully carted.
func (m *Manager) AddLine(userID uint, role string, productID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, err := m.catalog.Available(userID, role, productID)
	if err != nil {
		return err
	}

	s := m.session(userID)
	for i := range s.Lines {
		if s.Lines[i].ProductID == productID {
			if item.Stock <= s.Lines[i].Quantity {
				return ErrInsufficientStock
			}
			s.Lines[i].Quantity++
			return nil
		}
	}
	if item.Stock < 1 {
		return ErrInsufficientStock
	}
	uom := item.UOM
	if uom == "" {
		uom = "24"
	}
	s.Lines = append(s.Lines, Line{
		ProductID:   productID,
		ProductName: item.Name,
		SKU:         item.SKU,
		UOM:         uom,
		Quantity:    1,
		Price:       item.Price,
	})
	return nil
}

// ChangeQuantity moves a line's quantity by delta. A delta that would
// drop below 1 or exceed the available stock cap is a no-op, not an
// error.
func (m *Manager) ChangeQuantity(userID uint, role string, productID uint, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.session(userID)
	for i := range s.Lines {
		if s.Lines[i].ProductID != productID {
			continue
		}
		next := s.Lines[i].Quantity + delta
		if next < 1 {
			return nil
		}
		item, err := m.catalog.Available(userID, role, productID)
		if err != nil {
			return err
		}
		if next > item.Stock {
			return nil
		}
		s.Lines[i].Quantity = next
		return nil
	}
	return nil
}

// SetDiscount sets a line's absolute discount, clamped to >= 0.
func (m *Manager) SetDiscount(userID uint, productID uint, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if value < 0 {
		value = 0
	}
	s := m.session(userID)
	for i := range s.Lines {
		if s.Lines[i].ProductID == productID {
			s.Lines[i].Discount = value
			return
		}
	}
}

// RemoveLine drops a product from the cart unconditionally.
func (m *Manager) RemoveLine(userID uint, productID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.session(userID)
	for i := range s.Lines {
		if s.Lines[i].ProductID == productID {
			s.Lines = append(s.Lines[:i], s.Lines[i+1:]...)
			return
		}
	}
}

// Clear empties the caller's cart and resets it to walk-in/CASH.
func (m *Manager) Clear(userID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

func (m *Manager) SetCustomer(userID uint, customerID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session(userID).CustomerID = customerID
}

// SetPaymentMode accepts CASH or CREDIT; anything else is ignored and
// the session keeps its current mode (CASH by default).
func (m *Manager) SetPaymentMode(userID uint, mode string) {
	if mode != models.PaymentCash && mode != models.PaymentCredit {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session(userID).PaymentMode = mode
}

// Snapshot returns a copy of the caller's session for totals display
// and finalization.
func (m *Manager) Snapshot(userID uint) Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.session(userID)
	cp := *s
	cp.Lines = make([]Line, len(s.Lines))
	copy(cp.Lines, s.Lines)
	return cp
}
