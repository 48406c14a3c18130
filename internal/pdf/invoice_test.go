package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/danielgibran18tj/FacturacionBG/internal/domain"
	"github.com/shopspring/decimal"
)

func sampleInvoice() *domain.Invoice {
	notes := "entrega en oficina"
	return &domain.Invoice{
		ID:               1,
		InvoiceNumber:    "INV-000001",
		InvoiceDate:      time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		CustomerName:     "Ana Pérez",
		CustomerDocument: "0912345678",
		SellerName:       "Luis Gómez",
		Subtotal:         decimal.RequireFromString("30.00"),
		TaxIva:           decimal.RequireFromString("3.60"),
		Total:            decimal.RequireFromString("33.60"),
		Notes:            &notes,
		Status:           domain.InvoiceActive,
		Details: []domain.InvoiceDetail{
			{ProductName: "Cuaderno", Quantity: 3, UnitPrice: decimal.RequireFromString("10.00"), Subtotal: decimal.RequireFromString("30.00")},
		},
		Payments: []domain.InvoicePayment{
			{PaymentMethodName: "Efectivo", Amount: decimal.RequireFromString("33.60")},
		},
	}
}

func TestRenderInvoice(t *testing.T) {
	data, err := RenderInvoice(sampleInvoice(), Company{
		Name:  "Comercial BG",
		TaxID: "1790012345001",
		Phone: "02-2345678",
		Email: "ventas@comercialbg.ec",
	})
	if err != nil {
		t.Fatalf("RenderInvoice: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty pdf output")
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("output does not start with %%PDF header: %q", data[:8])
	}
}

func TestRenderInvoiceWithoutPayments(t *testing.T) {
	inv := sampleInvoice()
	inv.Payments = nil
	inv.Notes = nil
	data, err := RenderInvoice(inv, Company{Name: "Comercial BG"})
	if err != nil {
		t.Fatalf("RenderInvoice: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output does not start with %PDF header")
	}
}
