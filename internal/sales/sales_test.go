package sales

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/RokestarRubel11/khm-sales/internal/cart"
	"github.com/RokestarRubel11/khm-sales/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const eps = 1e-9

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.Product{}, &models.SalesmanStock{},
		&models.Customer{}, &models.Sale{}, &models.SaleItem{},
		&models.Purchase{}, &models.Settings{}, &models.InvoiceSequence{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := db.Create(&models.Settings{CompanyName: "QUEEN FOOD PRODUCT LTD", VATNumber: "35252630700003", VATPercent: 15}).Error; err != nil {
		t.Fatalf("seed settings: %v", err)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB) models.Product {
	t.Helper()
	p := models.Product{
		Name: "Drinko Float Pineapple 250ml X 24pcs", SKU: "58064", Category: "Beverage",
		PurchasePrice: 20, SalePrice: 28, Stock: 100, UOM: "24",
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

var admin = models.User{ID: 1, Name: "Admin Roki", Role: models.RoleAdmin}

func TestTransferCreatesAllocation(t *testing.T) {
	db := testDB(t)
	p := seedProduct(t, db)

	if err := Transfer(db, 9, p.ID, 20, 30); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	var after models.Product
	db.First(&after, p.ID)
	if after.Stock != 80 {
		t.Fatalf("central stock: expected 80, got %d", after.Stock)
	}

	var ss models.SalesmanStock
	if err := db.Where("salesman_id = ? AND product_id = ?", 9, p.ID).First(&ss).Error; err != nil {
		t.Fatalf("allocation row missing: %v", err)
	}
	if ss.Stock != 20 || ss.AssignedPrice != 30 {
		t.Fatalf("expected {stock:20, price:30}, got {stock:%d, price:%v}", ss.Stock, ss.AssignedPrice)
	}
	if ss.ProductName != p.Name || ss.SKU != p.SKU || ss.UOM != p.UOM {
		t.Fatalf("product fields not denormalized: %+v", ss)
	}
}

func TestTransferTopUpOverwritesPrice(t *testing.T) {
	db := testDB(t)
	p := seedProduct(t, db)

	if err := Transfer(db, 9, p.ID, 20, 30); err != nil {
		t.Fatal(err)
	}
	if err := Transfer(db, 9, p.ID, 10, 32.5); err != nil {
		t.Fatal(err)
	}

	var ss models.SalesmanStock
	db.Where("salesman_id = ? AND product_id = ?", 9, p.ID).First(&ss)
	if ss.Stock != 30 {
		t.Fatalf("expected stock 30, got %d", ss.Stock)
	}
	// last-write-wins, never averaged
	if ss.AssignedPrice != 32.5 {
		t.Fatalf("expected price 32.5, got %v", ss.AssignedPrice)
	}
}

func TestTransferRejectsOverdraw(t *testing.T) {
	db := testDB(t)
	p := seedProduct(t, db)

	if err := Transfer(db, 9, p.ID, 101, 30); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if err := Transfer(db, 9, p.ID, 0, 30); !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}

	// nothing moved
	var after models.Product
	db.First(&after, p.ID)
	if after.Stock != 100 {
		t.Fatalf("central stock should be untouched, got %d", after.Stock)
	}
	var count int64
	db.Model(&models.SalesmanStock{}).Count(&count)
	if count != 0 {
		t.Fatalf("no allocation should exist, found %d", count)
	}
}

func TestFinalizeAdminSale(t *testing.T) {
	db := testDB(t)
	p := seedProduct(t, db)
	f := NewFinalizer(db)

	session := cart.Session{
		PaymentMode: models.PaymentCash,
		Lines: []cart.Line{{
			ProductID: p.ID, ProductName: p.Name, SKU: p.SKU, UOM: "24",
			Quantity: 30, Price: 28, Discount: 10,
		}},
	}

	sale, err := f.Finalize(admin, session)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}

	want := fmt.Sprintf("INV/%d/00001", time.Now().Year())
	if sale.InvoiceNo != want {
		t.Fatalf("invoice no: expected %s, got %s", want, sale.InvoiceNo)
	}
	if math.Abs(sale.Subtotal-830) > eps || math.Abs(sale.VATAmount-124.5) > eps || math.Abs(sale.Total-954.5) > eps {
		t.Fatalf("totals: got %v / %v / %v", sale.Subtotal, sale.VATAmount, sale.Total)
	}
	if sale.CustomerName != WalkInCustomer || sale.CustCode != WalkInCode {
		t.Fatalf("expected walk-in sentinel, got %q / %q", sale.CustomerName, sale.CustCode)
	}

	item := sale.Items[0]
	if item.QuantityCtn != 1 {
		t.Fatalf("expected 1 CTN, got %d", item.QuantityCtn)
	}
	if math.Abs(item.TotalIncl-954.5) > eps {
		t.Fatalf("line total: expected 954.5, got %v", item.TotalIncl)
	}
	if math.Abs(item.VATAmount-124.5) > eps {
		t.Fatalf("line vat: expected 124.5, got %v", item.VATAmount)
	}

	// line totals reconcile to the document total
	var sum float64
	for _, it := range sale.Items {
		sum += it.TotalIncl
	}
	if math.Abs(sum-sale.Total) > eps {
		t.Fatalf("items do not reconcile: %v vs %v", sum, sale.Total)
	}

	// central stock deducted
	var after models.Product
	db.First(&after, p.ID)
	if after.Stock != 70 {
		t.Fatalf("expected stock 70, got %d", after.Stock)
	}
}

func TestFinalizeSalesmanDeductsVanStock(t *testing.T) {
	db := testDB(t)
	p := seedProduct(t, db)
	salesman := models.User{ID: 9, Name: "Field Agent X", Role: models.RoleSalesman}

	if err := Transfer(db, salesman.ID, p.ID, 20, 30); err != nil {
		t.Fatal(err)
	}

	f := NewFinalizer(db)
	session := cart.Session{
		PaymentMode: models.PaymentCredit,
		Lines: []cart.Line{{
			ProductID: p.ID, ProductName: p.Name, UOM: "24",
			Quantity: 5, Price: 30,
		}},
	}
	sale, err := f.Finalize(salesman, session)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if sale.SalesMan != salesman.Name || sale.PaymentType != models.PaymentCredit {
		t.Fatalf("header fields wrong: %+v", sale)
	}

	// van stock down, central untouched (already down to 80 by transfer)
	var ss models.SalesmanStock
	db.Where("salesman_id = ? AND product_id = ?", salesman.ID, p.ID).First(&ss)
	if ss.Stock != 15 {
		t.Fatalf("van stock: expected 15, got %d", ss.Stock)
	}
	var central models.Product
	db.First(&central, p.ID)
	if central.Stock != 80 {
		t.Fatalf("central stock: expected 80, got %d", central.Stock)
	}
}

func TestFinalizeEmptyCartIsNoOp(t *testing.T) {
	db := testDB(t)
	seedProduct(t, db)
	f := NewFinalizer(db)

	_, err := f.Finalize(admin, cart.Session{})
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	var count int64
	db.Model(&models.Sale{}).Count(&count)
	if count != 0 {
		t.Fatalf("no sale should be appended, found %d", count)
	}
}

func TestFinalizeStaleCartRejected(t *testing.T) {
	db := testDB(t)
	p := seedProduct(t, db)
	f := NewFinalizer(db)

	// stock changed elsewhere after the cart was built
	db.Model(&models.Product{}).Where("id = ?", p.ID).Update("stock", 3)

	session := cart.Session{Lines: []cart.Line{{
		ProductID: p.ID, ProductName: p.Name, UOM: "24", Quantity: 5, Price: 28,
	}}}
	_, err := f.Finalize(admin, session)
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// whole operation rolled back: no sale, no deduction
	var count int64
	db.Model(&models.Sale{}).Count(&count)
	if count != 0 {
		t.Fatalf("no sale should exist, found %d", count)
	}
	var after models.Product
	db.First(&after, p.ID)
	if after.Stock != 3 {
		t.Fatalf("stock should be untouched at 3, got %d", after.Stock)
	}
}

func TestFinalizeRejectsDiscountOverGross(t *testing.T) {
	db := testDB(t)
	p := seedProduct(t, db)
	f := NewFinalizer(db)

	session := cart.Session{Lines: []cart.Line{{
		ProductID: p.ID, ProductName: p.Name, UOM: "24",
		Quantity: 1, Price: 28, Discount: 30,
	}}}
	_, err := f.Finalize(admin, session)
	if !errors.Is(err, ErrDiscountExceedsGross) {
		t.Fatalf("expected ErrDiscountExceedsGross, got %v", err)
	}
}

func TestInvoiceNumbersMonotonicAndUnique(t *testing.T) {
	db := testDB(t)
	p := seedProduct(t, db)
	f := NewFinalizer(db)

	newSession := func() cart.Session {
		return cart.Session{Lines: []cart.Line{{
			ProductID: p.ID, ProductName: p.Name, UOM: "24", Quantity: 1, Price: 28,
		}}}
	}

	year := time.Now().Year()
	for i := 1; i <= 3; i++ {
		sale, err := f.Finalize(admin, newSession())
		if err != nil {
			t.Fatalf("finalize %d: %v", i, err)
		}
		want := fmt.Sprintf("INV/%d/%05d", year, i)
		if sale.InvoiceNo != want {
			t.Fatalf("expected %s, got %s", want, sale.InvoiceNo)
		}
	}

	// numbering survives ledger deletion: no reuse
	db.Where("1 = 1").Delete(&models.Sale{})
	sale, err := f.Finalize(admin, newSession())
	if err != nil {
		t.Fatal(err)
	}
	want := fmt.Sprintf("INV/%d/00004", year)
	if sale.InvoiceNo != want {
		t.Fatalf("expected %s after ledger wipe, got %s", want, sale.InvoiceNo)
	}
}

func TestFinalizeSnapshotsCustomer(t *testing.T) {
	db := testDB(t)
	p := seedProduct(t, db)
	c := models.Customer{Name: "City Mart", Phone: "0551112222", Address: "Dammam", TRN: "310000000000003"}
	if err := db.Create(&c).Error; err != nil {
		t.Fatal(err)
	}

	f := NewFinalizer(db)
	session := cart.Session{
		CustomerID: c.ID,
		Lines: []cart.Line{{
			ProductID: p.ID, ProductName: p.Name, UOM: "24", Quantity: 2, Price: 28,
		}},
	}
	sale, err := f.Finalize(admin, session)
	if err != nil {
		t.Fatal(err)
	}
	if sale.CustomerName != c.Name || sale.CustomerTRN != c.TRN || sale.CustomerPhone != c.Phone {
		t.Fatalf("customer not snapshotted: %+v", sale)
	}

	// later customer edits must not touch the frozen sale
	db.Model(&models.Customer{}).Where("id = ?", c.ID).Update("name", "Renamed Mart")
	var stored models.Sale
	db.First(&stored, sale.ID)
	if stored.CustomerName != "City Mart" {
		t.Fatalf("sale snapshot mutated: %s", stored.CustomerName)
	}
}
