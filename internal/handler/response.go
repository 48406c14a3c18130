package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/danielgibran18tj/FacturacionBG/internal/domain"
	"github.com/danielgibran18tj/FacturacionBG/internal/repository"
	"github.com/go-playground/validator/v10"
)

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// errorEnvelope is the uniform error shape for every endpoint. Success
// responses return the data payload directly.
type errorEnvelope struct {
	Success    bool         `json:"success"`
	StatusCode int          `json:"statusCode"`
	Message    string       `json:"message"`
	Code       string       `json:"code,omitempty"`
	Errors     []fieldError `json:"errors,omitempty"`
	Timestamp  time.Time    `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeFieldErrors(w, status, message, nil)
}

func writeFieldErrors(w http.ResponseWriter, status int, message string, fields []fieldError) {
	writeJSON(w, status, errorEnvelope{
		Success:    false,
		StatusCode: status,
		Message:    message,
		Errors:     fields,
		Timestamp:  time.Now().UTC(),
	})
}

// writeDomainError maps service and repository errors onto HTTP statuses.
// Anything unclassified becomes a generic 500 so internals never leak.
func writeDomainError(w http.ResponseWriter, err error) {
	var notFound *domain.NotFoundError
	var conflict *domain.ConflictError
	var business *domain.BusinessError
	var invalid validator.ValidationErrors

	switch {
	case errors.As(err, &notFound):
		writeError(w, http.StatusNotFound, notFound.Error())
	case errors.As(err, &conflict):
		writeError(w, http.StatusConflict, conflict.Error())
	case errors.As(err, &business):
		writeJSON(w, http.StatusBadRequest, errorEnvelope{
			Success:    false,
			StatusCode: http.StatusBadRequest,
			Message:    business.Message,
			Code:       business.Code,
			Timestamp:  time.Now().UTC(),
		})
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "resource not found")
	case errors.As(err, &invalid):
		writeFieldErrors(w, http.StatusBadRequest, "validation failed", toFieldErrors(invalid))
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func toFieldErrors(errs validator.ValidationErrors) []fieldError {
	out := make([]fieldError, 0, len(errs))
	for _, fe := range errs {
		out = append(out, fieldError{
			Field:   strings.ToLower(fe.Field()[:1]) + fe.Field()[1:],
			Message: validationMessage(fe),
		})
	}
	return out
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	default:
		return "is invalid"
	}
}
