package invoice

import (
	"testing"
	"time"

	"github.com/RokestarRubel11/khm-sales/internal/models"
)

func sampleSale() models.Sale {
	date := time.Date(2026, 8, 30, 10, 30, 0, 0, time.UTC)
	return models.Sale{
		InvoiceNo:    "INV/2026/00042",
		CustomerName: "City Mart",
		CustomerTRN:  "310000000000003",
		Subtotal:     830,
		VATAmount:    124.5,
		Total:        954.5,
		Date:         date,
		OrderDate:    date,
		DeliveryDate: date,
		SalesMan:     "Admin Roki",
		PaymentType:  models.PaymentCash,
		Currency:     "SR",
		Items: []models.SaleItem{{
			ProductID:   1,
			ProductName: "Drinko Float Pineapple 250ml X 24pcs",
			Quantity:    30,
			QuantityCtn: 1,
			PriceCtn:    672,
			GrossAmount: 28,
			DiscountVal: 10,
			VATPercent:  15,
			VATAmount:   124.5,
			TotalIncl:   954.5,
			UOM:         "24",
		}},
	}
}

func sampleSettings() models.Settings {
	return models.Settings{
		CompanyName: "QUEEN FOOD PRODUCT LTD",
		VATNumber:   "35252630700003",
		VATPercent:  15,
	}
}

func TestQRPayloadFormat(t *testing.T) {
	got := QRPayload(sampleSettings(), sampleSale())
	want := "Seller:QUEEN FOOD PRODUCT LTD|VAT:35252630700003|Date:2026-08-30T10:30:00Z|Total:954.50|VATTotal:124.50"
	if got != want {
		t.Fatalf("qr payload:\n got %s\nwant %s", got, want)
	}
}

func TestRenderCopiesStoredAmountsVerbatim(t *testing.T) {
	sale := sampleSale()
	doc := Render(sale, sampleSettings())

	if doc.Subtotal != sale.Subtotal || doc.VAT != sale.VATAmount || doc.Total != sale.Total {
		t.Fatalf("totals must be copied, not recomputed: %+v", doc)
	}
	if len(doc.Rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(doc.Rows))
	}
	row := doc.Rows[0]
	if row.Ctn != 1 || row.Pcs != 6 {
		t.Fatalf("expected 1 CTN / 6 PCS, got %d / %d", row.Ctn, row.Pcs)
	}
	if row.Rate != 28 || row.Discount != 10 || row.VATAmount != 124.5 || row.Total != 954.5 {
		t.Fatalf("row amounts mismatch: %+v", row)
	}
	if doc.TotalCtn != 1 {
		t.Fatalf("expected total 1 CTN, got %d", doc.TotalCtn)
	}
	if doc.InvoiceNo != sale.InvoiceNo {
		t.Fatalf("invoice no mismatch: %s", doc.InvoiceNo)
	}
}

func TestRenderCommercialRegFallsBackToVAT(t *testing.T) {
	s := sampleSettings()
	s.ExciseTRN = ""
	doc := Render(sampleSale(), s)
	if doc.Supplier.CommercialReg != s.VATNumber {
		t.Fatalf("expected fallback to VAT number, got %s", doc.Supplier.CommercialReg)
	}
}
