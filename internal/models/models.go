package models

import (
	"time"
)

// Role / status values mirror what the frontend sends.
const (
	RoleAdmin    = "ADMIN"
	RoleSalesman = "SALESMAN"

	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"

	PaymentCash   = "CASH"
	PaymentCredit = "CREDIT"
)

// User - Admin or a field salesman. Salesmen sign up as PENDING and
// cannot log in until an admin approves them.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:120" json:"email"`
	PasswordHash string    `json:"-"` // Never return this in JSON
	Name         string    `json:"name"`
	Role         string    `json:"role"`   // 'ADMIN' or 'SALESMAN'
	Status       string    `json:"status"` // 'PENDING' or 'APPROVED'
	CreatedAt    time.Time `json:"created_at"`
}

// Product - Central warehouse inventory
type Product struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	Name          string  `json:"name"`
	SKU           string  `gorm:"size:40" json:"sku"`
	Category      string  `json:"category"`
	PurchasePrice float64 `json:"purchase_price"`
	SalePrice     float64 `json:"sale_price"`
	Stock         int     `json:"stock"`
	UOM           string  `gorm:"size:10" json:"uom"` // pieces per carton, e.g. "24"
}

// SalesmanStock - Van inventory loaded out of the central warehouse.
// Product name/SKU/UOM are denormalized so van listings survive catalog edits.
type SalesmanStock struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	SalesmanID    uint    `gorm:"index:idx_salesman_product,unique" json:"salesman_id"`
	ProductID     uint    `gorm:"index:idx_salesman_product,unique" json:"product_id"`
	ProductName   string  `json:"product_name"`
	SKU           string  `gorm:"size:40" json:"sku"`
	UOM           string  `gorm:"size:10" json:"uom"`
	Stock         int     `json:"stock"`
	AssignedPrice float64 `json:"assigned_price"` // van sell price, set at load time
}

// Customer - CRM entity, no lifecycle beyond unique ID
type Customer struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	TRN     string `gorm:"size:20" json:"trn"` // Tax Registration Number (optional)
}

// Sale - The transaction header. Append-only: once created it is never
// mutated, so every customer field is a snapshot, not a live link.
type Sale struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	InvoiceNo       string     `gorm:"uniqueIndex;size:20" json:"invoice_no"`
	CustomerID      uint       `json:"customer_id"`
	CustomerName    string     `json:"customer_name"`
	CustomerPhone   string     `json:"customer_phone"`
	CustomerAddress string     `json:"customer_address"`
	CustomerTRN     string     `json:"customer_trn"`
	Items           []SaleItem `gorm:"foreignKey:SaleID" json:"items"`
	Subtotal        float64    `json:"subtotal"`
	VATAmount       float64    `json:"vat_amount"`
	Total           float64    `json:"total"`
	Date            time.Time  `json:"date"`
	OrderDate       time.Time  `json:"order_date"`
	DeliveryDate    time.Time  `json:"delivery_date"`
	SalesMan        string     `json:"sales_man"`
	PaymentType     string     `json:"payment_type"` // 'CASH' or 'CREDIT'
	VehicleNo       string     `json:"vehicle_no"`
	SiteCode        string     `json:"site_code"`
	CustCode        string     `json:"cust_code"`
	Currency        string     `json:"currency"`
	DmID            string     `json:"dm_id"`
}

// SaleItem - Per-line snapshot inside a Sale. All values frozen at sale
// time; later price edits never touch past invoices.
type SaleItem struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	SaleID          uint    `json:"sale_id"`
	ProductID       uint    `json:"product_id"`
	ProductName     string  `json:"product_name"`
	Quantity        int     `json:"quantity"`     // PCS
	QuantityCtn     int     `json:"quantity_ctn"` // whole cartons
	PriceCtn        float64 `json:"price_ctn"`
	GrossAmount     float64 `json:"gross_amount"` // unit price before discount
	DiscountPercent float64 `json:"discount_percent"`
	DiscountVal     float64 `json:"discount_val"`
	VATPercent      float64 `json:"vat_percent"`
	VATAmount       float64 `json:"vat_amount"`
	TotalIncl       float64 `json:"total_incl"` // tax-inclusive line total
	UOM             string  `gorm:"size:10" json:"uom"`
}

// Purchase - Stock-in event, append-only
type Purchase struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProductID   uint      `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	Cost        float64   `json:"cost"`
	Total       float64   `json:"total"`
	Date        time.Time `json:"date"`
}

// Settings - Company identity and tax configuration. Single row.
type Settings struct {
	ID                uint    `gorm:"primaryKey" json:"id"`
	CompanyName       string  `json:"company_name"`
	CompanyNameArabic string  `json:"company_name_arabic"`
	LogoURL           string  `json:"logo_url"`
	VATNumber         string  `json:"vat_number"`
	ExciseTRN         string  `json:"excise_trn"`
	Address           string  `json:"address"`
	Phone             string  `json:"phone"`
	Email             string  `json:"email"`
	VATPercent        float64 `json:"vat_percent"`
	WarehouseDetails  string  `json:"warehouse_details"`
}

// InvoiceSequence - Persisted monotonic counter, one row per year.
// Invoice numbers come from here, NOT from counting the sales table,
// so deleting ledger rows can never cause number reuse.
type InvoiceSequence struct {
	ID   uint `gorm:"primaryKey" json:"id"`
	Year int  `gorm:"uniqueIndex" json:"year"`
	Next int  `json:"next"`
}
