package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/danielgibran18tj/FacturacionBG/internal/domain"
	"github.com/danielgibran18tj/FacturacionBG/internal/ports"
	"github.com/shopspring/decimal"
)

// TaxPercentKey is the system setting holding the IVA percentage applied
// to every invoice.
const TaxPercentKey = "IVA_PERCENTAGE"

// SettingsService fronts the settings store with a process-local
// read-through cache. Writes go to the store first; the cache is only
// updated after the store accepts the value, so a failed write can never
// be served.
type SettingsService struct {
	store ports.SettingsStore

	mu    sync.RWMutex
	cache map[string]string
}

func NewSettingsService(store ports.SettingsStore) *SettingsService {
	return &SettingsService{
		store: store,
		cache: make(map[string]string),
	}
}

func (s *SettingsService) Value(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	value, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return value, nil
	}

	value, err := s.store.GetValue(ctx, key)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.cache[key] = value
	s.mu.Unlock()
	return value, nil
}

func (s *SettingsService) SetValue(ctx context.Context, key, value string, updatedBy *int64) error {
	if err := s.store.SetValue(ctx, key, value, updatedBy); err != nil {
		return err
	}
	s.mu.Lock()
	s.cache[key] = value
	s.mu.Unlock()
	return nil
}

// TaxPercent parses the configured IVA percentage. A missing or
// unparsable value is a hard error: silently defaulting would mask
// misconfiguration on a financial figure.
func (s *SettingsService) TaxPercent(ctx context.Context) (decimal.Decimal, error) {
	raw, err := s.Value(ctx, TaxPercentKey)
	if err != nil {
		return decimal.Zero, fmt.Errorf("read %s: %w", TaxPercentKey, err)
	}
	pct, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("setting %s holds %q, not a number", TaxPercentKey, raw)
	}
	return pct, nil
}

func (s *SettingsService) List(ctx context.Context) ([]domain.SystemSetting, error) {
	return s.store.List(ctx)
}
