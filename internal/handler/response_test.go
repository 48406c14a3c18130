package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielgibran18tj/FacturacionBG/internal/domain"
	"github.com/danielgibran18tj/FacturacionBG/internal/repository"
)

func TestWriteDomainErrorStatuses(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", domain.NewNotFound("invoice", 7), http.StatusNotFound},
		{"repository not found", repository.ErrNotFound, http.StatusNotFound},
		{"conflict", domain.NewConflict("product", "code", "P-1"), http.StatusConflict},
		{"insufficient stock", domain.NewInsufficientStock("Cuaderno"), http.StatusBadRequest},
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"invalid token", domain.ErrInvalidToken, http.StatusUnauthorized},
		{"unclassified", errors.New("pool exhausted"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		rec := httptest.NewRecorder()
		writeDomainError(rec, c.err)
		if rec.Code != c.wantStatus {
			t.Errorf("%s: status = %d, want %d", c.name, rec.Code, c.wantStatus)
		}

		var envelope errorEnvelope
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("%s: body not json: %v", c.name, err)
		}
		if envelope.Success {
			t.Errorf("%s: success must be false", c.name)
		}
		if envelope.StatusCode != c.wantStatus {
			t.Errorf("%s: envelope status = %d, want %d", c.name, envelope.StatusCode, c.wantStatus)
		}
		if envelope.Timestamp.IsZero() {
			t.Errorf("%s: timestamp missing", c.name)
		}
	}
}

func TestWriteDomainErrorHidesInternals(t *testing.T) {
	rec := httptest.NewRecorder()
	writeDomainError(rec, errors.New("pq: connection refused host=10.0.0.5"))
	if got := rec.Body.String(); got == "" || rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected response: %d %s", rec.Code, got)
	}
	var envelope errorEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	if envelope.Message != "internal server error" {
		t.Errorf("message = %q, internals must not leak", envelope.Message)
	}
}

func TestBusinessErrorCarriesCode(t *testing.T) {
	rec := httptest.NewRecorder()
	writeDomainError(rec, domain.NewInactivePaymentMethod("Cheque"))
	var envelope errorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("body not json: %v", err)
	}
	if envelope.Code != "PAYMENT_METHOD_INACTIVE" {
		t.Errorf("code = %q", envelope.Code)
	}
}

func TestValidationErrorsListFields(t *testing.T) {
	var req struct {
		Username string `json:"username" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
	}
	req.Email = "not-an-email"
	err := validate.Struct(req)
	if err == nil {
		t.Fatal("expected validation error")
	}

	rec := httptest.NewRecorder()
	writeDomainError(rec, err)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	var envelope errorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("body not json: %v", err)
	}
	if len(envelope.Errors) != 2 {
		t.Fatalf("field errors = %d, want 2", len(envelope.Errors))
	}
	for _, fe := range envelope.Errors {
		if fe.Field == "" || fe.Message == "" {
			t.Errorf("incomplete field error: %+v", fe)
		}
	}
}
