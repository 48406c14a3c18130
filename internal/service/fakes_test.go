package service

import (
	"context"
	"sync"
	"time"

	"github.com/danielgibran18tj/FacturacionBG/internal/domain"
	"github.com/danielgibran18tj/FacturacionBG/internal/ports"
	"github.com/danielgibran18tj/FacturacionBG/internal/repository"
)

type fakeSettingsStore struct {
	mu       sync.Mutex
	values   map[string]string
	getCalls int
	setErr   error
}

func newFakeSettingsStore(values map[string]string) *fakeSettingsStore {
	if values == nil {
		values = map[string]string{}
	}
	return &fakeSettingsStore{values: values}
}

func (f *fakeSettingsStore) GetValue(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	value, ok := f.values[key]
	if !ok {
		return "", repository.ErrNotFound
	}
	return value, nil
}

func (f *fakeSettingsStore) SetValue(_ context.Context, key, value string, _ *int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.values[key] = value
	return nil
}

func (f *fakeSettingsStore) List(context.Context) ([]domain.SystemSetting, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	settings := make([]domain.SystemSetting, 0, len(f.values))
	for k, v := range f.values {
		settings = append(settings, domain.SystemSetting{Key: k, Value: v})
	}
	return settings, nil
}

type fakeUserStore struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1, users: map[int64]*domain.User{}}
}

func (f *fakeUserStore) add(u domain.User) *domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u.ID = f.nextID
	f.nextID++
	f.users[u.ID] = &u
	return &u
}

func (f *fakeUserStore) Create(_ context.Context, p ports.CreateUserParams) (*domain.User, error) {
	return f.add(domain.User{
		Username:     p.Username,
		Email:        p.Email,
		PasswordHash: p.PasswordHash,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		IsActive:     true,
		Roles:        p.Roles,
	}), nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (f *fakeUserStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		u.LastLoginAt = &at
	}
	return nil
}

type fakeTokenStore struct {
	mu     sync.Mutex
	tokens map[string]*domain.RefreshToken
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: map[string]*domain.RefreshToken{}}
}

func (f *fakeTokenStore) Add(_ context.Context, userID int64, token string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = &domain.RefreshToken{
		ID:        int64(len(f.tokens) + 1),
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	return nil
}

func (f *fakeTokenStore) Get(_ context.Context, token string) (*domain.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[token]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *t
	return &clone, nil
}

func (f *fakeTokenStore) Revoke(_ context.Context, token string, replacedBy *string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[token]
	if !ok || t.IsRevoked {
		return false, nil
	}
	t.IsRevoked = true
	t.RevokedAt = &at
	t.ReplacedByToken = replacedBy
	return true, nil
}

type fakeAuditStore struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

func (f *fakeAuditStore) Append(_ context.Context, e domain.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, e)
	return nil
}

type fakeInvoiceStore struct {
	mu         sync.Mutex
	nextID     int64
	created    []domain.CreateInvoiceParams
	invoices   map[int64]*domain.Invoice
	lastFilter domain.InvoiceFilter
}

func newFakeInvoiceStore() *fakeInvoiceStore {
	return &fakeInvoiceStore{nextID: 1, invoices: map[int64]*domain.Invoice{}}
}

func (f *fakeInvoiceStore) Create(_ context.Context, p domain.CreateInvoiceParams) (*domain.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, p)
	inv := &domain.Invoice{
		ID:            f.nextID,
		InvoiceNumber: domain.FormatInvoiceNumber(f.nextID),
		InvoiceDate:   p.InvoiceDate,
		CustomerID:    p.CustomerID,
		SellerID:      p.SellerID,
		Notes:         p.Notes,
		Status:        domain.InvoiceActive,
	}
	f.nextID++
	f.invoices[inv.ID] = inv
	return inv, nil
}

func (f *fakeInvoiceStore) GetByID(_ context.Context, id int64) (*domain.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invoices[id]
	if !ok {
		return nil, domain.NewNotFound("invoice", id)
	}
	clone := *inv
	return &clone, nil
}

func (f *fakeInvoiceStore) List(context.Context, int) ([]domain.Invoice, error) {
	return nil, nil
}

func (f *fakeInvoiceStore) ListByCustomer(context.Context, int64) ([]domain.Invoice, error) {
	return nil, nil
}

func (f *fakeInvoiceStore) ListBySeller(context.Context, int64) ([]domain.Invoice, error) {
	return nil, nil
}

func (f *fakeInvoiceStore) Paged(_ context.Context, filter domain.InvoiceFilter) (domain.Paged[domain.Invoice], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = filter
	return domain.NewPaged[domain.Invoice](nil, 0, filter.Page, filter.PageSize), nil
}

func (f *fakeInvoiceStore) SetInactive(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invoices[id]
	if !ok {
		return false, nil
	}
	inv.Status = domain.InvoiceInactive
	return true, nil
}

type fakeCustomerStore struct {
	byUserID map[int64]*domain.Customer
}

func (f *fakeCustomerStore) GetByUserID(_ context.Context, userID int64) (*domain.Customer, error) {
	c, ok := f.byUserID[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *c
	return &clone, nil
}
