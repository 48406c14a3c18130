package repository

import (
	"context"
	"errors"

	"github.com/danielgibran18tj/FacturacionBG/internal/db"
	"github.com/danielgibran18tj/FacturacionBG/internal/domain"
	"github.com/jackc/pgx/v5"
)

type SettingsRepository struct {
	DB *db.Postgres
}

func (r SettingsRepository) GetValue(ctx context.Context, key string) (string, error) {
	var value string
	err := r.DB.Pool.QueryRow(ctx, `
		SELECT setting_value FROM system_settings WHERE setting_key=$1
	`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

func (r SettingsRepository) SetValue(ctx context.Context, key, value string, updatedBy *int64) error {
	_, err := r.DB.Pool.Exec(ctx, `
		INSERT INTO system_settings (setting_key, setting_value, updated_by, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (setting_key) DO UPDATE SET
			setting_value=EXCLUDED.setting_value,
			updated_by=EXCLUDED.updated_by,
			updated_at=now()
	`, key, value, updatedBy)
	return err
}

func (r SettingsRepository) List(ctx context.Context) ([]domain.SystemSetting, error) {
	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, setting_key, setting_value, data_type, is_system, updated_by, updated_at
		FROM system_settings
		ORDER BY setting_key ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []domain.SystemSetting
	for rows.Next() {
		var s domain.SystemSetting
		if err := rows.Scan(&s.ID, &s.Key, &s.Value, &s.DataType, &s.IsSystem, &s.UpdatedBy, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

func (r SettingsRepository) SeedDefaults(ctx context.Context) error {
	_, err := r.DB.Pool.Exec(ctx, `
		INSERT INTO system_settings (setting_key, setting_value, data_type, is_system)
		VALUES ('IVA_PERCENTAGE', '12', 'decimal', TRUE)
		ON CONFLICT (setting_key) DO NOTHING
	`)
	return err
}
