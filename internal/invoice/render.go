// Package invoice projects a finalized Sale into the fixed-layout tax
// invoice document. Pure projection: every numeric field is copied
// from the stored Sale verbatim, never recomputed, because the printed
// invoice is the compliance artifact and must match the ledger record.
package invoice

import (
	"fmt"
	"time"

	"github.com/RokestarRubel11/khm-sales/internal/models"
	"github.com/RokestarRubel11/khm-sales/internal/pricing"
)

// Document is the render-ready invoice.
type Document struct {
	Supplier Supplier  `json:"supplier"`
	Title    string    `json:"title"`
	Dates    DateBlock `json:"dates"`
	ShipTo   Party     `json:"ship_to"`
	BillTo   Party     `json:"bill_to"`

	InvoiceNo   string `json:"invoice_no"`
	PaymentMode string `json:"payment_mode"`
	SalesMan    string `json:"sales_man"`
	VehicleNo   string `json:"vehicle_no"`
	SiteCode    string `json:"site_code"`
	CustCode    string `json:"cust_code"`

	Rows     []Row   `json:"rows"`
	TotalCtn int     `json:"total_ctn"`
	Subtotal float64 `json:"subtotal"`
	VAT      float64 `json:"vat_amount"`
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`

	QRPayload string `json:"qr_payload"`
}

type Supplier struct {
	Name          string `json:"name"`
	NameArabic    string `json:"name_arabic"`
	Address       string `json:"address"`
	VATNumber     string `json:"vat_number"`
	CommercialReg string `json:"commercial_reg"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	LogoURL       string `json:"logo_url"`
}

type Party struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	TRN     string `json:"trn"`
}

type DateBlock struct {
	Order    time.Time `json:"order"`
	Invoice  time.Time `json:"invoice"`
	Delivery time.Time `json:"delivery"`
}

// Row is one item line on the printed table. The CTN/PCS split is the
// stored carton count plus the loose-piece remainder from the frozen
// UOM; amounts come straight off the SaleItem.
type Row struct {
	No          int     `json:"no"`
	ProductName string  `json:"product_name"`
	Code        string  `json:"code"`
	UOM         string  `json:"uom"`
	Ctn         int     `json:"ctn"`
	Pcs         int     `json:"pcs"`
	Rate        float64 `json:"rate"`
	Discount    float64 `json:"discount"`
	VATPercent  float64 `json:"vat_percent"`
	VATAmount   float64 `json:"vat_amount"`
	Total       float64 `json:"total"`
}

// QRPayload builds the pipe-delimited machine-readable string embedded
// in the invoice QR code. Totals are formatted to 2 decimals here and
// nowhere earlier.
func QRPayload(settings models.Settings, sale models.Sale) string {
	return fmt.Sprintf("Seller:%s|VAT:%s|Date:%s|Total:%.2f|VATTotal:%.2f",
		settings.CompanyName,
		settings.VATNumber,
		sale.Date.Format(time.RFC3339),
		sale.Total,
		sale.VATAmount,
	)
}

// Render projects the sale and company settings into a Document.
func Render(sale models.Sale, settings models.Settings) Document {
	commercialReg := settings.ExciseTRN
	if commercialReg == "" {
		commercialReg = settings.VATNumber
	}

	doc := Document{
		Supplier: Supplier{
			Name:          settings.CompanyName,
			NameArabic:    settings.CompanyNameArabic,
			Address:       settings.Address,
			VATNumber:     settings.VATNumber,
			CommercialReg: commercialReg,
			Phone:         settings.Phone,
			Email:         settings.Email,
			LogoURL:       settings.LogoURL,
		},
		Title: "TAX INVOICE",
		Dates: DateBlock{
			Order:    sale.OrderDate,
			Invoice:  sale.Date,
			Delivery: sale.DeliveryDate,
		},
		ShipTo: Party{
			Name:    sale.CustomerName,
			Address: sale.CustomerAddress,
			Phone:   sale.CustomerPhone,
		},
		BillTo: Party{
			Name: sale.CustomerName,
			TRN:  sale.CustomerTRN,
		},
		InvoiceNo:   sale.InvoiceNo,
		PaymentMode: sale.PaymentType,
		SalesMan:    sale.SalesMan,
		VehicleNo:   sale.VehicleNo,
		SiteCode:    sale.SiteCode,
		CustCode:    sale.CustCode,
		Subtotal:    sale.Subtotal,
		VAT:         sale.VATAmount,
		Total:       sale.Total,
		Currency:    sale.Currency,
		QRPayload:   QRPayload(settings, sale),
	}

	for i, item := range sale.Items {
		uomSize := pricing.UOMSize(item.UOM)
		pcs := item.Quantity % uomSize
		doc.Rows = append(doc.Rows, Row{
			No:          i + 1,
			ProductName: item.ProductName,
			Code:        fmt.Sprintf("%08d", item.ProductID),
			UOM:         item.UOM,
			Ctn:         item.QuantityCtn,
			Pcs:         pcs,
			Rate:        item.GrossAmount,
			Discount:    item.DiscountVal,
			VATPercent:  item.VATPercent,
			VATAmount:   item.VATAmount,
			Total:       item.TotalIncl,
		})
		doc.TotalCtn += item.QuantityCtn
	}

	return doc
}
