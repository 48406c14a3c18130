package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatInvoiceNumber(t *testing.T) {
	cases := []struct {
		seq  int64
		want string
	}{
		{1, "INV-000001"},
		{42, "INV-000042"},
		{999999, "INV-999999"},
		{1000000, "INV-1000000"},
	}
	for _, c := range cases {
		if got := FormatInvoiceNumber(c.seq); got != c.want {
			t.Errorf("FormatInvoiceNumber(%d) = %q, want %q", c.seq, got, c.want)
		}
	}
}

func TestComputeTax(t *testing.T) {
	cases := []struct {
		subtotal string
		percent  string
		want     string
	}{
		{"30.00", "12", "3.60"},
		{"100", "15", "15.00"},
		{"10.05", "12", "1.21"},
		{"0", "12", "0.00"},
		{"33.33", "12", "4.00"},
	}
	for _, c := range cases {
		subtotal := decimal.RequireFromString(c.subtotal)
		percent := decimal.RequireFromString(c.percent)
		got := ComputeTax(subtotal, percent)
		if got.StringFixed(2) != c.want {
			t.Errorf("ComputeTax(%s, %s%%) = %s, want %s", c.subtotal, c.percent, got, c.want)
		}
	}
}

func TestLineSubtotal(t *testing.T) {
	price := decimal.RequireFromString("9.99")
	got := LineSubtotal(3, price)
	if got.StringFixed(2) != "29.97" {
		t.Errorf("LineSubtotal(3, 9.99) = %s, want 29.97", got)
	}
}

func TestInvoiceTotalInvariant(t *testing.T) {
	subtotal := decimal.RequireFromString("30.00")
	percent := decimal.RequireFromString("12")
	tax := ComputeTax(subtotal, percent)
	total := subtotal.Add(tax)
	if total.StringFixed(2) != "33.60" {
		t.Errorf("total = %s, want 33.60", total)
	}
	if !total.Equal(subtotal.Add(tax)) {
		t.Error("total must equal subtotal plus tax")
	}
}

func TestProductLowStock(t *testing.T) {
	minStock := 10
	cases := []struct {
		name string
		p    Product
		want bool
	}{
		{"below explicit threshold", Product{Stock: 9, MinStock: &minStock}, true},
		{"at explicit threshold", Product{Stock: 10, MinStock: &minStock}, true},
		{"above explicit threshold", Product{Stock: 11, MinStock: &minStock}, false},
		{"no threshold at fallback", Product{Stock: 5}, true},
		{"no threshold above fallback", Product{Stock: 6}, false},
	}
	for _, c := range cases {
		if got := c.p.LowStock(); got != c.want {
			t.Errorf("%s: LowStock() = %v, want %v", c.name, got, c.want)
		}
	}
}
