package repository

import (
	"context"

	"github.com/danielgibran18tj/FacturacionBG/internal/db"
	"github.com/shopspring/decimal"
)

type DashboardRepository struct {
	DB *db.Postgres
}

type DashboardSummary struct {
	InvoiceCount    int64           `json:"invoiceCount"`
	Revenue         decimal.Decimal `json:"revenue"`
	ActiveCustomers int64           `json:"activeCustomers"`
	LowStockCount   int64           `json:"lowStockCount"`
}

// Summary aggregates the headline numbers for the admin dashboard.
// Revenue only counts active invoices; logically deleted ones are excluded.
func (r DashboardRepository) Summary(ctx context.Context) (*DashboardSummary, error) {
	var s DashboardSummary
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM invoices WHERE status='Active'),
			(SELECT COALESCE(SUM(total), 0) FROM invoices WHERE status='Active'),
			(SELECT COUNT(*) FROM customers WHERE is_active),
			(SELECT COUNT(*) FROM products WHERE is_active AND stock <= COALESCE(min_stock, 5))
	`).Scan(&s.InvoiceCount, &s.Revenue, &s.ActiveCustomers, &s.LowStockCount)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
