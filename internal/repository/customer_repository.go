package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/danielgibran18tj/FacturacionBG/internal/db"
	"github.com/danielgibran18tj/FacturacionBG/internal/domain"
	"github.com/jackc/pgx/v5"
)

type CustomerRepository struct {
	DB *db.Postgres
}

const customerSelect = `
	SELECT id, document_number, full_name, phone, email, address, user_id, is_active, created_at, updated_at
	FROM customers
`

func (r CustomerRepository) List(ctx context.Context, includeInactive bool) ([]domain.Customer, error) {
	query := customerSelect + ` ORDER BY full_name ASC`
	if !includeInactive {
		query = customerSelect + ` WHERE is_active ORDER BY full_name ASC`
	}
	return r.query(ctx, query)
}

func (r CustomerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	row := r.DB.Pool.QueryRow(ctx, customerSelect+` WHERE id=$1`, id)
	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

// GetByUserID resolves the customer record linked to a user account,
// used to restrict Customer-role callers to their own invoices.
func (r CustomerRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Customer, error) {
	row := r.DB.Pool.QueryRow(ctx, customerSelect+` WHERE user_id=$1`, userID)
	c, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r CustomerRepository) ExistsByDocumentNumber(ctx context.Context, doc string) (bool, error) {
	var exists bool
	err := r.DB.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM customers WHERE document_number=$1)`, doc).Scan(&exists)
	return exists, err
}

func (r CustomerRepository) Create(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO customers (document_number, full_name, phone, email, address, user_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING id, document_number, full_name, phone, email, address, user_id, is_active, created_at, updated_at
	`, c.DocumentNumber, c.FullName, c.Phone, c.Email, c.Address, c.UserID, c.IsActive)
	return scanCustomer(row)
}

func (r CustomerRepository) Update(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE customers
		SET document_number=$1, full_name=$2, phone=$3, email=$4, address=$5, is_active=$6, updated_at=now()
		WHERE id=$7
		RETURNING id, document_number, full_name, phone, email, address, user_id, is_active, created_at, updated_at
	`, c.DocumentNumber, c.FullName, c.Phone, c.Email, c.Address, c.IsActive, c.ID)
	out, err := scanCustomer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return out, nil
}

// Deactivate is the customer's logical delete.
func (r CustomerRepository) Deactivate(ctx context.Context, id int64) (bool, error) {
	ct, err := r.DB.Pool.Exec(ctx, `UPDATE customers SET is_active=FALSE, updated_at=now() WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r CustomerRepository) Paged(ctx context.Context, page, pageSize int, search string) (domain.Paged[domain.Customer], error) {
	var (
		where []string
		args  []any
	)
	if search != "" {
		args = append(args, "%"+search+"%")
		where = append(where, fmt.Sprintf("(document_number ILIKE $%[1]d OR full_name ILIKE $%[1]d)", len(args)))
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.DB.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM customers`+cond, args...).Scan(&total); err != nil {
		return domain.Paged[domain.Customer]{}, err
	}

	args = append(args, pageSize, (page-1)*pageSize)
	items, err := r.query(ctx, customerSelect+cond+fmt.Sprintf(
		" ORDER BY full_name ASC LIMIT $%d OFFSET $%d", len(args)-1, len(args)), args...)
	if err != nil {
		return domain.Paged[domain.Customer]{}, err
	}
	return domain.NewPaged(items, total, page, pageSize), nil
}

func (r CustomerRepository) query(ctx context.Context, query string, args ...any) ([]domain.Customer, error) {
	rows, err := r.DB.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

func scanCustomer(row interface {
	Scan(dest ...any) error
}) (*domain.Customer, error) {
	var c domain.Customer
	if err := row.Scan(
		&c.ID, &c.DocumentNumber, &c.FullName, &c.Phone, &c.Email, &c.Address, &c.UserID,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
