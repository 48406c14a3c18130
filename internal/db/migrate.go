package db

import (
	"context"
	"fmt"
)

// Migrate bootstraps the schema. Statements are idempotent so startup can
// run them unconditionally.
func Migrate(ctx context.Context, p *Postgres) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS roles (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			description TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			first_name TEXT,
			last_name TEXT,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			last_login_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS user_roles (
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			role_id BIGINT NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
			PRIMARY KEY (user_id, role_id)
		)`,
		`CREATE TABLE IF NOT EXISTS customers (
			id BIGSERIAL PRIMARY KEY,
			document_number TEXT NOT NULL UNIQUE,
			full_name TEXT NOT NULL,
			phone TEXT,
			email TEXT,
			address TEXT,
			user_id BIGINT UNIQUE REFERENCES users(id) ON DELETE SET NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id BIGSERIAL PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			description TEXT,
			unit_price NUMERIC(12,2) NOT NULL CHECK (unit_price >= 0),
			stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
			min_stock INTEGER,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS payment_methods (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		`CREATE TABLE IF NOT EXISTS invoices (
			id BIGSERIAL PRIMARY KEY,
			invoice_number TEXT NOT NULL UNIQUE,
			invoice_date TIMESTAMPTZ NOT NULL DEFAULT now(),
			customer_id BIGINT NOT NULL REFERENCES customers(id),
			seller_id BIGINT NOT NULL REFERENCES users(id),
			subtotal NUMERIC(12,2) NOT NULL DEFAULT 0,
			tax_iva NUMERIC(12,2) NOT NULL DEFAULT 0,
			total NUMERIC(12,2) NOT NULL DEFAULT 0,
			notes TEXT,
			status TEXT NOT NULL DEFAULT 'Active',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS invoice_details (
			id BIGSERIAL PRIMARY KEY,
			invoice_id BIGINT NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
			product_id BIGINT NOT NULL REFERENCES products(id),
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			unit_price NUMERIC(12,2) NOT NULL,
			subtotal NUMERIC(12,2) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS invoice_payment_methods (
			id BIGSERIAL PRIMARY KEY,
			invoice_id BIGINT NOT NULL REFERENCES invoices(id) ON DELETE CASCADE,
			payment_method_id BIGINT NOT NULL REFERENCES payment_methods(id),
			amount NUMERIC(12,2) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS refresh_tokens (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			token TEXT NOT NULL UNIQUE,
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			revoked_at TIMESTAMPTZ,
			is_revoked BOOLEAN NOT NULL DEFAULT FALSE,
			replaced_by_token TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS system_settings (
			id BIGSERIAL PRIMARY KEY,
			setting_key TEXT NOT NULL UNIQUE,
			setting_value TEXT NOT NULL,
			data_type TEXT NOT NULL DEFAULT 'string',
			is_system BOOLEAN NOT NULL DEFAULT FALSE,
			updated_by BIGINT REFERENCES users(id) ON DELETE SET NULL,
			updated_at TIMESTAMPTZ
		)`,
		`CREATE TABLE IF NOT EXISTS audit_log (
			id BIGSERIAL PRIMARY KEY,
			entity TEXT NOT NULL,
			entity_id BIGINT,
			action TEXT NOT NULL,
			actor BIGINT,
			detail TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS invoices_invoice_date_idx ON invoices (invoice_date DESC)`,
		`CREATE INDEX IF NOT EXISTS invoices_customer_id_idx ON invoices (customer_id)`,
		`CREATE INDEX IF NOT EXISTS invoices_seller_id_idx ON invoices (seller_id)`,
		`CREATE INDEX IF NOT EXISTS refresh_tokens_user_id_idx ON refresh_tokens (user_id)`,
	}

	for _, stmt := range stmts {
		if _, err := p.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
