package pricing

import (
	"math"
	"testing"
)

const eps = 1e-9

func TestCalculateScenario(t *testing.T) {
	// 30 units at 28 with a 10 discount under 15% VAT
	lines := []Line{{Price: 28, Quantity: 30, Discount: 10}}
	got := Calculate(lines, 15)

	if math.Abs(got.Subtotal-830) > eps {
		t.Fatalf("subtotal: expected 830, got %v", got.Subtotal)
	}
	if math.Abs(got.VATAmount-124.5) > eps {
		t.Fatalf("vat: expected 124.5, got %v", got.VATAmount)
	}
	if math.Abs(got.Total-954.5) > eps {
		t.Fatalf("total: expected 954.5, got %v", got.Total)
	}
}

func TestTotalsReconcile(t *testing.T) {
	lines := []Line{
		{Price: 28, Quantity: 3, Discount: 1.25},
		{Price: 80.4, Quantity: 7, Discount: 0},
		{Price: 0.35, Quantity: 144, Discount: 2},
	}
	got := Calculate(lines, 15)

	var subtotal float64
	for _, l := range lines {
		subtotal += l.Price*float64(l.Quantity) - l.Discount
	}
	if math.Abs(got.Subtotal-subtotal) > eps {
		t.Fatalf("subtotal mismatch: %v vs %v", got.Subtotal, subtotal)
	}
	if math.Abs(got.Total-(got.Subtotal+got.VATAmount)) > eps {
		t.Fatalf("total != subtotal + vat: %v vs %v", got.Total, got.Subtotal+got.VATAmount)
	}
}

func TestLineNetCanGoNegative(t *testing.T) {
	// The calculator does not clamp; rejection is the finalizer's job.
	net := LineNet(Line{Price: 5, Quantity: 1, Discount: 10})
	if net != -5 {
		t.Fatalf("expected -5, got %v", net)
	}
}

func TestDiscountPercent(t *testing.T) {
	l := Line{Price: 28, Quantity: 30, Discount: 10}
	want := 10.0 / 840.0 * 100
	if got := DiscountPercent(l); math.Abs(got-want) > eps {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if got := DiscountPercent(Line{Price: 0, Quantity: 0, Discount: 5}); got != 0 {
		t.Fatalf("zero gross should give 0 percent, got %v", got)
	}
}

func TestUOMSize(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"24", 24},
		{"60", 60},
		{"", 24},
		{"carton", 24},
		{"-3", 24},
	}
	for _, c := range cases {
		if got := UOMSize(c.in); got != c.want {
			t.Errorf("UOMSize(%q): expected %d, got %d", c.in, c.want, got)
		}
	}
}

func TestCartons(t *testing.T) {
	ctn, pcs := Cartons(30, 24)
	if ctn != 1 || pcs != 6 {
		t.Fatalf("expected 1 CTN / 6 PCS, got %d / %d", ctn, pcs)
	}
	ctn, pcs = Cartons(48, 24)
	if ctn != 2 || pcs != 0 {
		t.Fatalf("expected 2 CTN / 0 PCS, got %d / %d", ctn, pcs)
	}
	ctn, pcs = Cartons(10, 0) // bad uom falls back to 24
	if ctn != 0 || pcs != 10 {
		t.Fatalf("expected 0 CTN / 10 PCS, got %d / %d", ctn, pcs)
	}
}
