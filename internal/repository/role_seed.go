package repository

import (
	"context"

	"github.com/danielgibran18tj/FacturacionBG/internal/db"
	"github.com/danielgibran18tj/FacturacionBG/internal/domain"
)

type RoleRepository struct {
	DB *db.Postgres
}

func (r RoleRepository) SeedDefaults(ctx context.Context) error {
	defaults := []struct {
		name        domain.RoleName
		description string
	}{
		{domain.RoleAdministrator, "Full access to every module"},
		{domain.RoleSeller, "Creates invoices and manages the catalog"},
		{domain.RoleCustomer, "Reads their own invoices"},
	}
	for _, role := range defaults {
		_, err := r.DB.Pool.Exec(ctx, `
			INSERT INTO roles (name, description)
			VALUES ($1, $2)
			ON CONFLICT (name) DO NOTHING
		`, string(role.name), role.description)
		if err != nil {
			return err
		}
	}
	return nil
}
