package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/danielgibran18tj/FacturacionBG/internal/db"
	"github.com/danielgibran18tj/FacturacionBG/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type InvoiceRepository struct {
	DB *db.Postgres
}

const invoiceHeaderSelect = `
	SELECT i.id, i.invoice_number, i.invoice_date, i.customer_id, c.full_name, c.document_number,
	       i.seller_id, u.username, i.subtotal, i.tax_iva, i.total, i.notes, i.status,
	       i.created_at, i.updated_at
	FROM invoices i
	JOIN customers c ON c.id = i.customer_id
	JOIN users u ON u.id = i.seller_id
`

// Create runs the invoice workflow in a single transaction. The invoice
// number derives from max(id)+1, so two concurrent creates can collide on
// the unique index; the loser recomputes and retries.
func (r InvoiceRepository) Create(ctx context.Context, p domain.CreateInvoiceParams) (*domain.Invoice, error) {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		inv, err := r.createOnce(ctx, p)
		if err != nil {
			if db.IsUniqueViolation(err) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return inv, nil
	}
	return nil, fmt.Errorf("allocate invoice number: %w", lastErr)
}

func (r InvoiceRepository) createOnce(ctx context.Context, p domain.CreateInvoiceParams) (*domain.Invoice, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var customerID int64
	err = tx.QueryRow(ctx, `SELECT id FROM customers WHERE id=$1`, p.CustomerID).Scan(&customerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("customer", p.CustomerID)
		}
		return nil, err
	}

	var sellerID int64
	err = tx.QueryRow(ctx, `SELECT id FROM users WHERE id=$1`, p.SellerID).Scan(&sellerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("seller", p.SellerID)
		}
		return nil, err
	}

	var next int64
	if err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM invoices`).Scan(&next); err != nil {
		return nil, err
	}

	var invoiceID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO invoices (invoice_number, invoice_date, customer_id, seller_id, notes, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING id
	`, domain.FormatInvoiceNumber(next), p.InvoiceDate, customerID, sellerID, p.Notes, domain.InvoiceActive).Scan(&invoiceID)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	for _, line := range p.Lines {
		var (
			name  string
			price decimal.Decimal
		)
		err := tx.QueryRow(ctx, `SELECT name, unit_price FROM products WHERE id=$1`, line.ProductID).
			Scan(&name, &price)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, domain.NewNotFound("product", line.ProductID)
			}
			return nil, err
		}

		// Conditional decrement: zero rows affected means the remaining
		// stock cannot cover the quantity, regardless of what a previous
		// read saw. This is what makes concurrent creates oversell-safe.
		ct, err := tx.Exec(ctx, `
			UPDATE products SET stock = stock - $1, updated_at = now()
			WHERE id = $2 AND stock >= $1
		`, line.Quantity, line.ProductID)
		if err != nil {
			return nil, err
		}
		if ct.RowsAffected() == 0 {
			return nil, domain.NewInsufficientStock(name)
		}

		lineSubtotal := domain.LineSubtotal(line.Quantity, price)
		_, err = tx.Exec(ctx, `
			INSERT INTO invoice_details (invoice_id, product_id, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5)
		`, invoiceID, line.ProductID, line.Quantity, price, lineSubtotal)
		if err != nil {
			return nil, err
		}
		subtotal = subtotal.Add(lineSubtotal)
	}

	tax := domain.ComputeTax(subtotal, p.TaxPercent)
	total := subtotal.Add(tax)
	_, err = tx.Exec(ctx, `
		UPDATE invoices SET subtotal=$1, tax_iva=$2, total=$3, updated_at=now() WHERE id=$4
	`, subtotal, tax, total, invoiceID)
	if err != nil {
		return nil, err
	}

	for _, pay := range p.Payments {
		var (
			name   string
			active bool
		)
		err := tx.QueryRow(ctx, `SELECT name, is_active FROM payment_methods WHERE id=$1`, pay.PaymentMethodID).
			Scan(&name, &active)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, domain.NewNotFound("payment method", pay.PaymentMethodID)
			}
			return nil, err
		}
		if !active {
			return nil, domain.NewInactivePaymentMethod(name)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO invoice_payment_methods (invoice_id, payment_method_id, amount)
			VALUES ($1, $2, $3)
		`, invoiceID, pay.PaymentMethodID, pay.Amount)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, invoiceID)
}

func (r InvoiceRepository) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	row := r.DB.Pool.QueryRow(ctx, invoiceHeaderSelect+` WHERE i.id=$1`, id)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NewNotFound("invoice", id)
		}
		return nil, err
	}
	if err := r.loadChildren(ctx, []*domain.Invoice{inv}); err != nil {
		return nil, err
	}
	return inv, nil
}

func (r InvoiceRepository) List(ctx context.Context, limit int) ([]domain.Invoice, error) {
	invs, err := r.queryHeaders(ctx, invoiceHeaderSelect+` ORDER BY i.invoice_date DESC, i.id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	if err := r.loadChildrenSlice(ctx, invs); err != nil {
		return nil, err
	}
	return invs, nil
}

func (r InvoiceRepository) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Invoice, error) {
	return r.queryHeaders(ctx, invoiceHeaderSelect+` WHERE i.customer_id=$1 ORDER BY i.invoice_date DESC, i.id DESC`, customerID)
}

func (r InvoiceRepository) ListBySeller(ctx context.Context, sellerID int64) ([]domain.Invoice, error) {
	return r.queryHeaders(ctx, invoiceHeaderSelect+` WHERE i.seller_id=$1 ORDER BY i.invoice_date DESC, i.id DESC`, sellerID)
}

func (r InvoiceRepository) Paged(ctx context.Context, f domain.InvoiceFilter) (domain.Paged[domain.Invoice], error) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.SearchTerm != "" {
		n := arg("%" + f.SearchTerm + "%")
		where = append(where, fmt.Sprintf(
			"(i.invoice_number ILIKE %[1]s OR c.full_name ILIKE %[1]s OR c.document_number ILIKE %[1]s OR u.username ILIKE %[1]s)", n))
	}
	if f.StartDate != nil {
		where = append(where, "i.invoice_date >= "+arg(*f.StartDate))
	}
	if f.EndDate != nil {
		where = append(where, "i.invoice_date <= "+arg(*f.EndDate))
	}
	if f.MinAmount != nil {
		where = append(where, "i.total >= "+arg(*f.MinAmount))
	}
	if f.MaxAmount != nil {
		where = append(where, "i.total <= "+arg(*f.MaxAmount))
	}
	if f.CustomerID != nil {
		where = append(where, "i.customer_id = "+arg(*f.CustomerID))
	}

	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	countQuery := `
		SELECT COUNT(*)
		FROM invoices i
		JOIN customers c ON c.id = i.customer_id
		JOIN users u ON u.id = i.seller_id
	` + cond
	if err := r.DB.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return domain.Paged[domain.Invoice]{}, err
	}

	pageArgs := append(args, f.PageSize, (f.Page-1)*f.PageSize)
	query := invoiceHeaderSelect + cond + fmt.Sprintf(
		" ORDER BY i.invoice_date DESC, i.id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	invs, err := r.queryHeaders(ctx, query, pageArgs...)
	if err != nil {
		return domain.Paged[domain.Invoice]{}, err
	}
	if err := r.loadChildrenSlice(ctx, invs); err != nil {
		return domain.Paged[domain.Invoice]{}, err
	}

	return domain.NewPaged(invs, total, f.Page, f.PageSize), nil
}

// SetInactive performs the logical delete. Deleting an already-inactive
// invoice is a no-op success; false means the invoice does not exist.
func (r InvoiceRepository) SetInactive(ctx context.Context, id int64) (bool, error) {
	ct, err := r.DB.Pool.Exec(ctx, `
		UPDATE invoices SET status=$1, updated_at=now() WHERE id=$2
	`, domain.InvoiceInactive, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r InvoiceRepository) queryHeaders(ctx context.Context, query string, args ...any) ([]domain.Invoice, error) {
	rows, err := r.DB.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invs []domain.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invs = append(invs, *inv)
	}
	return invs, rows.Err()
}

func scanInvoice(row interface {
	Scan(dest ...any) error
}) (*domain.Invoice, error) {
	var (
		inv    domain.Invoice
		status string
	)
	if err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.InvoiceDate, &inv.CustomerID, &inv.CustomerName, &inv.CustomerDocument,
		&inv.SellerID, &inv.SellerName, &inv.Subtotal, &inv.TaxIva, &inv.Total, &inv.Notes, &status,
		&inv.CreatedAt, &inv.UpdatedAt,
	); err != nil {
		return nil, err
	}
	inv.Status = domain.InvoiceStatus(status)
	return &inv, nil
}

func (r InvoiceRepository) loadChildrenSlice(ctx context.Context, invs []domain.Invoice) error {
	ptrs := make([]*domain.Invoice, len(invs))
	for i := range invs {
		ptrs[i] = &invs[i]
	}
	return r.loadChildren(ctx, ptrs)
}

func (r InvoiceRepository) loadChildren(ctx context.Context, invs []*domain.Invoice) error {
	if len(invs) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(invs))
	byID := make(map[int64]*domain.Invoice, len(invs))
	for _, inv := range invs {
		ids = append(ids, inv.ID)
		byID[inv.ID] = inv
	}

	rows, err := r.DB.Pool.Query(ctx, `
		SELECT d.invoice_id, d.id, d.product_id, p.code, p.name, d.quantity, d.unit_price, d.subtotal
		FROM invoice_details d
		JOIN products p ON p.id = d.product_id
		WHERE d.invoice_id = ANY($1)
		ORDER BY d.id
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var d domain.InvoiceDetail
		if err := rows.Scan(&d.InvoiceID, &d.ID, &d.ProductID, &d.ProductCode, &d.ProductName, &d.Quantity, &d.UnitPrice, &d.Subtotal); err != nil {
			return err
		}
		inv := byID[d.InvoiceID]
		inv.Details = append(inv.Details, d)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	payRows, err := r.DB.Pool.Query(ctx, `
		SELECT ipm.invoice_id, ipm.id, ipm.payment_method_id, pm.name, ipm.amount
		FROM invoice_payment_methods ipm
		JOIN payment_methods pm ON pm.id = ipm.payment_method_id
		WHERE ipm.invoice_id = ANY($1)
		ORDER BY ipm.id
	`, ids)
	if err != nil {
		return err
	}
	defer payRows.Close()
	for payRows.Next() {
		var p domain.InvoicePayment
		if err := payRows.Scan(&p.InvoiceID, &p.ID, &p.PaymentMethodID, &p.PaymentMethodName, &p.Amount); err != nil {
			return err
		}
		inv := byID[p.InvoiceID]
		inv.Payments = append(inv.Payments, p)
	}
	return payRows.Err()
}
