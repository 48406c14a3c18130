package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/danielgibran18tj/FacturacionBG/internal/db"
	"github.com/danielgibran18tj/FacturacionBG/internal/domain"
	"github.com/danielgibran18tj/FacturacionBG/internal/ports"
	"github.com/jackc/pgx/v5"
)

type UserRepository struct {
	DB *db.Postgres
}

const userSelect = `
	SELECT id, username, email, password_hash, first_name, last_name, is_active, last_login_at, created_at, updated_at
	FROM users
`

// Create inserts the user and its role assignments in one transaction.
// Unknown role names are skipped rather than rejected.
func (r UserRepository) Create(ctx context.Context, p ports.CreateUserParams) (*domain.User, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO users (username, email, password_hash, first_name, last_name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, now(), now())
		RETURNING id
	`, p.Username, p.Email, p.PasswordHash, p.FirstName, p.LastName).Scan(&id)
	if err != nil {
		return nil, err
	}

	for _, role := range p.Roles {
		_, err = tx.Exec(ctx, `
			INSERT INTO user_roles (user_id, role_id)
			SELECT $1, id FROM roles WHERE name=$2
			ON CONFLICT DO NOTHING
		`, id, string(role))
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.DB.Pool.QueryRow(ctx, userSelect+` WHERE id=$1`, id)
	return r.scanWithRoles(ctx, row)
}

func (r UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.DB.Pool.QueryRow(ctx, userSelect+` WHERE username=$1`, username)
	return r.scanWithRoles(ctx, row)
}

func (r UserRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := r.DB.Pool.Exec(ctx, `UPDATE users SET last_login_at=$1, updated_at=now() WHERE id=$2`, at, id)
	return err
}

func (r UserRepository) Update(ctx context.Context, u domain.User) (*domain.User, error) {
	tx, err := r.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ct, err := tx.Exec(ctx, `
		UPDATE users
		SET username=$1, email=$2, first_name=$3, last_name=$4, is_active=$5, updated_at=now()
		WHERE id=$6
	`, u.Username, u.Email, u.FirstName, u.LastName, u.IsActive, u.ID)
	if err != nil {
		return nil, err
	}
	if ct.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	if u.Roles != nil {
		if _, err := tx.Exec(ctx, `DELETE FROM user_roles WHERE user_id=$1`, u.ID); err != nil {
			return nil, err
		}
		for _, role := range u.Roles {
			_, err = tx.Exec(ctx, `
				INSERT INTO user_roles (user_id, role_id)
				SELECT $1, id FROM roles WHERE name=$2
				ON CONFLICT DO NOTHING
			`, u.ID, string(role))
			if err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, u.ID)
}

func (r UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.DB.Pool.Query(ctx, userSelect+` ORDER BY username ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadRoles(ctx, users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r UserRepository) Paged(ctx context.Context, page, pageSize int, search string) (domain.Paged[domain.User], error) {
	var (
		where []string
		args  []any
	)
	if search != "" {
		args = append(args, "%"+search+"%")
		where = append(where, fmt.Sprintf("(username ILIKE $%[1]d OR email ILIKE $%[1]d)", len(args)))
	}
	cond := ""
	if len(where) > 0 {
		cond = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := r.DB.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`+cond, args...).Scan(&total); err != nil {
		return domain.Paged[domain.User]{}, err
	}

	args = append(args, pageSize, (page-1)*pageSize)
	rows, err := r.DB.Pool.Query(ctx, userSelect+cond+fmt.Sprintf(
		" ORDER BY username ASC LIMIT $%d OFFSET $%d", len(args)-1, len(args)), args...)
	if err != nil {
		return domain.Paged[domain.User]{}, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return domain.Paged[domain.User]{}, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return domain.Paged[domain.User]{}, err
	}
	if err := r.loadRoles(ctx, users); err != nil {
		return domain.Paged[domain.User]{}, err
	}
	return domain.NewPaged(users, total, page, pageSize), nil
}

func (r UserRepository) scanWithRoles(ctx context.Context, row pgx.Row) (*domain.User, error) {
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	users := []domain.User{*u}
	if err := r.loadRoles(ctx, users); err != nil {
		return nil, err
	}
	return &users[0], nil
}

func (r UserRepository) loadRoles(ctx context.Context, users []domain.User) error {
	if len(users) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(users))
	byID := make(map[int64]*domain.User, len(users))
	for i := range users {
		ids = append(ids, users[i].ID)
		byID[users[i].ID] = &users[i]
	}

	rows, err := r.DB.Pool.Query(ctx, `
		SELECT ur.user_id, r.name
		FROM user_roles ur
		JOIN roles r ON r.id = ur.role_id
		WHERE ur.user_id = ANY($1)
		ORDER BY r.name
	`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			userID int64
			name   string
		)
		if err := rows.Scan(&userID, &name); err != nil {
			return err
		}
		u := byID[userID]
		u.Roles = append(u.Roles, domain.RoleName(name))
	}
	return rows.Err()
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.IsActive, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &u, nil
}
