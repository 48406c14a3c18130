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

type ProductRepository struct {
	DB *db.Postgres
}

// ErrStockFloor is returned when an additive stock adjustment would drive
// the quantity on hand negative.
var ErrStockFloor = errors.New("stock cannot go negative")

const productSelect = `
	SELECT id, code, name, description, unit_price, stock, min_stock, is_active, created_at, updated_at
	FROM products
`

func (r ProductRepository) List(ctx context.Context, includeInactive bool) ([]domain.Product, error) {
	query := productSelect + ` ORDER BY id ASC`
	if !includeInactive {
		query = productSelect + ` WHERE is_active ORDER BY id ASC`
	}
	return r.query(ctx, query)
}

func (r ProductRepository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	row := r.DB.Pool.QueryRow(ctx, productSelect+` WHERE id=$1`, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r ProductRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := r.DB.Pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM products WHERE code=$1)`, code).Scan(&exists)
	return exists, err
}

func (r ProductRepository) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		INSERT INTO products (code, name, description, unit_price, stock, min_stock, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		RETURNING id, code, name, description, unit_price, stock, min_stock, is_active, created_at, updated_at
	`, p.Code, p.Name, p.Description, p.UnitPrice, p.Stock, p.MinStock, p.IsActive)
	return scanProduct(row)
}

func (r ProductRepository) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE products
		SET code=$1, name=$2, description=$3, unit_price=$4, min_stock=$5, is_active=$6, updated_at=now()
		WHERE id=$7
		RETURNING id, code, name, description, unit_price, stock, min_stock, is_active, created_at, updated_at
	`, p.Code, p.Name, p.Description, p.UnitPrice, p.MinStock, p.IsActive, p.ID)
	out, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return out, nil
}

// AdjustStock applies an additive delta with the same conditional-update
// floor invoicing relies on, so no caller can push stock below zero.
func (r ProductRepository) AdjustStock(ctx context.Context, id int64, delta int) (*domain.Product, error) {
	row := r.DB.Pool.QueryRow(ctx, `
		UPDATE products
		SET stock = stock + $1, updated_at = now()
		WHERE id = $2 AND stock + $1 >= 0
		RETURNING id, code, name, description, unit_price, stock, min_stock, is_active, created_at, updated_at
	`, delta, id)
	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, ErrStockFloor
		}
		return nil, err
	}
	return p, nil
}

// LowStock lists active products at or below their minimum threshold.
// Products without a threshold use the fixed low-water mark of 5.
func (r ProductRepository) LowStock(ctx context.Context) ([]domain.Product, error) {
	return r.query(ctx, productSelect+`
		WHERE is_active AND stock <= COALESCE(min_stock, 5)
		ORDER BY stock ASC
	`)
}

func (r ProductRepository) Paged(ctx context.Context, page, pageSize int, search string) (domain.Paged[domain.Product], error) {
	var (
		where []string
		args  []any
	)
	where = append(where, "is_active")
	if search != "" {
		args = append(args, "%"+search+"%")
		where = append(where, fmt.Sprintf("(code ILIKE $%[1]d OR name ILIKE $%[1]d)", len(args)))
	}
	cond := " WHERE " + strings.Join(where, " AND ")

	var total int64
	if err := r.DB.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`+cond, args...).Scan(&total); err != nil {
		return domain.Paged[domain.Product]{}, err
	}

	args = append(args, pageSize, (page-1)*pageSize)
	items, err := r.query(ctx, productSelect+cond+fmt.Sprintf(
		" ORDER BY code ASC LIMIT $%d OFFSET $%d", len(args)-1, len(args)), args...)
	if err != nil {
		return domain.Paged[domain.Product]{}, err
	}
	return domain.NewPaged(items, total, page, pageSize), nil
}

func (r ProductRepository) query(ctx context.Context, query string, args ...any) ([]domain.Product, error) {
	rows, err := r.DB.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

func scanProduct(row interface {
	Scan(dest ...any) error
}) (*domain.Product, error) {
	var p domain.Product
	if err := row.Scan(
		&p.ID, &p.Code, &p.Name, &p.Description, &p.UnitPrice, &p.Stock, &p.MinStock,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}
