package repository

import (
	"context"

	"github.com/danielgibran18tj/FacturacionBG/internal/db"
	"github.com/danielgibran18tj/FacturacionBG/internal/domain"
)

type PaymentMethodRepository struct {
	DB *db.Postgres
}

func (r PaymentMethodRepository) ListActive(ctx context.Context) ([]domain.PaymentMethod, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, name, is_active FROM payment_methods WHERE is_active ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var methods []domain.PaymentMethod
	for rows.Next() {
		var m domain.PaymentMethod
		if err := rows.Scan(&m.ID, &m.Name, &m.IsActive); err != nil {
			return nil, err
		}
		methods = append(methods, m)
	}
	return methods, rows.Err()
}

func (r PaymentMethodRepository) SeedDefaults(ctx context.Context) error {
	defaults := []string{"Efectivo", "Tarjeta", "Transferencia"}
	for _, name := range defaults {
		_, err := r.DB.Pool.Exec(ctx, `
			INSERT INTO payment_methods (name, is_active)
			VALUES ($1, TRUE)
			ON CONFLICT (name) DO NOTHING
		`, name)
		if err != nil {
			return err
		}
	}
	return nil
}
