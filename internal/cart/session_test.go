package cart

import (
	"testing"

	"github.com/RokestarRubel11/khm-sales/internal/models"
)

// fakeCatalog serves fixed availability keyed by (userID, role, productID).
type fakeCatalog struct {
	items map[uint]AvailableItem
}

func (f *fakeCatalog) Available(userID uint, role string, productID uint) (*AvailableItem, error) {
	item, ok := f.items[productID]
	if !ok {
		return nil, ErrNotAvailable
	}
	return &item, nil
}

func newManager(stock int, price float64) (*Manager, uint) {
	cat := &fakeCatalog{items: map[uint]AvailableItem{
		1: {ProductID: 1, Name: "Drinko Float Pineapple", SKU: "58064", UOM: "24", Stock: stock, Price: price},
	}}
	return NewManager(cat), uint(7)
}

func TestAddLineRespectsStockCap(t *testing.T) {
	m, user := newManager(5, 28)

	for i := 0; i < 5; i++ {
		if err := m.AddLine(user, models.RoleSalesman, 1); err != nil {
			t.Fatalf("add %d: %v", i+1, err)
		}
	}
	// sixth add must be rejected, cart stays at 5
	if err := m.AddLine(user, models.RoleSalesman, 1); err != ErrInsufficientStock {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	s := m.Snapshot(user)
	if len(s.Lines) != 1 || s.Lines[0].Quantity != 5 {
		t.Fatalf("cart should hold 5, got %+v", s.Lines)
	}
}

func TestAddLineUnknownProduct(t *testing.T) {
	m, user := newManager(5, 28)
	if err := m.AddLine(user, models.RoleAdmin, 99); err != ErrNotAvailable {
		t.Fatalf("expected ErrNotAvailable, got %v", err)
	}
}

func TestChangeQuantityClamps(t *testing.T) {
	m, user := newManager(10, 28)
	if err := m.AddLine(user, models.RoleAdmin, 1); err != nil {
		t.Fatal(err)
	}

	// below 1 is a no-op
	if err := m.ChangeQuantity(user, models.RoleAdmin, 1, -5); err != nil {
		t.Fatal(err)
	}
	if got := m.Snapshot(user).Lines[0].Quantity; got != 1 {
		t.Fatalf("expected 1 after underflow no-op, got %d", got)
	}

	if err := m.ChangeQuantity(user, models.RoleAdmin, 1, 9); err != nil {
		t.Fatal(err)
	}
	if got := m.Snapshot(user).Lines[0].Quantity; got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}

	// beyond stock is a no-op
	if err := m.ChangeQuantity(user, models.RoleAdmin, 1, 1); err != nil {
		t.Fatal(err)
	}
	if got := m.Snapshot(user).Lines[0].Quantity; got != 10 {
		t.Fatalf("expected 10 after overflow no-op, got %d", got)
	}
}

func TestSetDiscountClampsToZero(t *testing.T) {
	m, user := newManager(10, 28)
	if err := m.AddLine(user, models.RoleAdmin, 1); err != nil {
		t.Fatal(err)
	}
	m.SetDiscount(user, 1, -4)
	if got := m.Snapshot(user).Lines[0].Discount; got != 0 {
		t.Fatalf("expected discount 0, got %v", got)
	}
	m.SetDiscount(user, 1, 2.5)
	if got := m.Snapshot(user).Lines[0].Discount; got != 2.5 {
		t.Fatalf("expected discount 2.5, got %v", got)
	}
}

func TestRemoveAndClear(t *testing.T) {
	m, user := newManager(10, 28)
	if err := m.AddLine(user, models.RoleAdmin, 1); err != nil {
		t.Fatal(err)
	}
	m.RemoveLine(user, 1)
	if got := len(m.Snapshot(user).Lines); got != 0 {
		t.Fatalf("expected empty cart, got %d lines", got)
	}

	if err := m.AddLine(user, models.RoleAdmin, 1); err != nil {
		t.Fatal(err)
	}
	m.SetCustomer(user, 3)
	m.SetPaymentMode(user, models.PaymentCredit)
	m.Clear(user)
	s := m.Snapshot(user)
	if len(s.Lines) != 0 || s.CustomerID != 0 || s.PaymentMode != models.PaymentCash {
		t.Fatalf("clear should reset to walk-in/CASH, got %+v", s)
	}
}

func TestPaymentModeValidation(t *testing.T) {
	m, user := newManager(10, 28)
	m.SetPaymentMode(user, "BARTER")
	if got := m.Snapshot(user).PaymentMode; got != models.PaymentCash {
		t.Fatalf("expected CASH kept, got %s", got)
	}
	m.SetPaymentMode(user, models.PaymentCredit)
	if got := m.Snapshot(user).PaymentMode; got != models.PaymentCredit {
		t.Fatalf("expected CREDIT, got %s", got)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	m, user := newManager(10, 28)
	other := user + 1
	if err := m.AddLine(user, models.RoleAdmin, 1); err != nil {
		t.Fatal(err)
	}
	if got := len(m.Snapshot(other).Lines); got != 0 {
		t.Fatalf("expected other user's cart empty, got %d lines", got)
	}
}
