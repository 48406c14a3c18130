package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceParams is the validated input for the invoice creation
// workflow. TaxPercent is resolved from system settings before the
// transaction starts.
type CreateInvoiceParams struct {
	CustomerID  int64
	SellerID    int64
	InvoiceDate time.Time
	Notes       *string
	TaxPercent  decimal.Decimal
	Lines       []InvoiceLineParams
	Payments    []InvoicePaymentParams
}

type InvoiceLineParams struct {
	ProductID int64
	Quantity  int
}

type InvoicePaymentParams struct {
	PaymentMethodID int64
	Amount          decimal.Decimal
}

// InvoiceFilter narrows the paged invoice listing. Nil fields are skipped.
// CustomerID restricts the result to one customer's invoices, used when a
// Customer-role caller may only see their own.
type InvoiceFilter struct {
	Page       int
	PageSize   int
	SearchTerm string
	StartDate  *time.Time
	EndDate    *time.Time
	MinAmount  *decimal.Decimal
	MaxAmount  *decimal.Decimal
	CustomerID *int64
}

// FormatInvoiceNumber renders the sequential invoice number, INV-000042.
func FormatInvoiceNumber(seq int64) string {
	return fmt.Sprintf("INV-%06d", seq)
}

// ComputeTax applies the configured percentage to a subtotal, rounded to
// two decimal places half away from zero (currency rounding).
func ComputeTax(subtotal, taxPercent decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(taxPercent).Div(decimal.NewFromInt(100)).Round(2)
}

// LineSubtotal prices a line item at the product's current unit price.
func LineSubtotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
