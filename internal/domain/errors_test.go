package domain

import (
	"fmt"
	"testing"
	"time"
)

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return parsed
}

func TestErrorClassification(t *testing.T) {
	notFound := NewNotFound("customer", 7)
	if !IsNotFound(notFound) {
		t.Error("expected IsNotFound")
	}
	if IsNotFound(fmt.Errorf("other")) {
		t.Error("plain error must not classify as not found")
	}
	if !IsNotFound(fmt.Errorf("wrap: %w", notFound)) {
		t.Error("wrapped NotFoundError must still classify")
	}

	conflict := NewConflict("product", "code", "P-001")
	if !IsConflict(conflict) {
		t.Error("expected IsConflict")
	}

	stock := NewInsufficientStock("Widget")
	if !IsBusiness(stock) {
		t.Error("expected IsBusiness")
	}
	if stock.Code != "INSUFFICIENT_STOCK" {
		t.Errorf("code = %q", stock.Code)
	}

	method := NewInactivePaymentMethod("Cheque")
	if method.Code != "PAYMENT_METHOD_INACTIVE" {
		t.Errorf("code = %q", method.Code)
	}
}

func TestRefreshTokenUsability(t *testing.T) {
	now := mustParse(t, "2026-09-01T12:00:00Z")
	later := mustParse(t, "2026-09-02T12:00:00Z")

	token := RefreshToken{ExpiresAt: later}
	if !token.IsUsable(now) {
		t.Error("unrevoked, unexpired token must be usable")
	}
	if token.IsUsable(later) {
		t.Error("token at expiry instant must not be usable")
	}

	token.IsRevoked = true
	if token.IsUsable(now) {
		t.Error("revoked token must not be usable")
	}
}
