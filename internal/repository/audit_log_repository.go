package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/danielgibran18tj/FacturacionBG/internal/db"
	"github.com/danielgibran18tj/FacturacionBG/internal/domain"
)

type AuditLogRepository struct {
	DB *db.Postgres
}

func (r AuditLogRepository) Append(ctx context.Context, e domain.AuditEntry) error {
	_, err := r.DB.Pool.Exec(ctx, `
		INSERT INTO audit_log (entity, entity_id, action, actor, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, now())
	`, e.Entity, e.EntityID, e.Action, e.Actor, e.Detail)
	return err
}

func (r AuditLogRepository) List(ctx context.Context, startDate, endDate *time.Time, limit int) ([]domain.AuditEntry, error) {
	var (
		where []string
		args  []any
	)
	if startDate != nil {
		args = append(args, *startDate)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if endDate != nil {
		args = append(args, *endDate)
		where = append(where, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, limit)

	rows, err := r.DB.Pool.Query(ctx, `
		SELECT id, entity, entity_id, action, actor, detail, created_at
		FROM audit_log
	`+cond+fmt.Sprintf(" ORDER BY id DESC LIMIT $%d", len(args)), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(&e.ID, &e.Entity, &e.EntityID, &e.Action, &e.Actor, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
