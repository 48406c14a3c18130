package ports

import (
	"context"
	"time"

	"github.com/danielgibran18tj/FacturacionBG/internal/domain"
)

// HealthChecker is used to probe dependencies.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// InvoiceStore persists invoices. Create runs the whole multi-step
// workflow inside one transaction: nothing is observable on failure.
type InvoiceStore interface {
	Create(ctx context.Context, p domain.CreateInvoiceParams) (*domain.Invoice, error)
	GetByID(ctx context.Context, id int64) (*domain.Invoice, error)
	List(ctx context.Context, limit int) ([]domain.Invoice, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]domain.Invoice, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]domain.Invoice, error)
	Paged(ctx context.Context, f domain.InvoiceFilter) (domain.Paged[domain.Invoice], error)
	SetInactive(ctx context.Context, id int64) (bool, error)
}

// CustomerStore is the slice of the customer repository the invoice
// service needs to map a caller's user account to its customer record.
type CustomerStore interface {
	GetByUserID(ctx context.Context, userID int64) (*domain.Customer, error)
}

type CreateUserParams struct {
	Username     string
	Email        string
	PasswordHash string
	FirstName    *string
	LastName     *string
	Roles        []domain.RoleName
}

type UserStore interface {
	Create(ctx context.Context, p CreateUserParams) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
}

// RefreshTokenStore persists the rotation chain. Revoke is a conditional
// update: it returns false when the token is unknown or already revoked,
// so exactly one of two concurrent refresh calls wins.
type RefreshTokenStore interface {
	Add(ctx context.Context, userID int64, token string, expiresAt time.Time) error
	Get(ctx context.Context, token string) (*domain.RefreshToken, error)
	Revoke(ctx context.Context, token string, replacedBy *string, at time.Time) (bool, error)
}

type SettingsStore interface {
	GetValue(ctx context.Context, key string) (string, error)
	SetValue(ctx context.Context, key, value string, updatedBy *int64) error
	List(ctx context.Context) ([]domain.SystemSetting, error)
}

type AuditStore interface {
	Append(ctx context.Context, e domain.AuditEntry) error
}
