package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is returned for unknown users, inactive users
	// and password mismatches alike, so callers cannot enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInvalidToken covers unknown, revoked and expired refresh tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// NotFoundError identifies a missing entity by name and key.
type NotFoundError struct {
	Entity string
	Key    any
}

func (e *NotFoundError) Error() string {
	if e.Key == nil {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s %v not found", e.Entity, e.Key)
}

func NewNotFound(entity string, key any) *NotFoundError {
	return &NotFoundError{Entity: entity, Key: key}
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// ConflictError marks a unique-key collision (duplicate code, username, ...).
type ConflictError struct {
	Entity string
	Field  string
	Value  string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Entity, e.Field, e.Value)
}

func NewConflict(entity, field, value string) *ConflictError {
	return &ConflictError{Entity: entity, Field: field, Value: value}
}

func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}

// BusinessError carries a stable machine code alongside the message,
// distinguishing rule violations from field validation.
type BusinessError struct {
	Code    string
	Message string
}

func (e *BusinessError) Error() string { return e.Message }

func NewInsufficientStock(productName string) *BusinessError {
	return &BusinessError{
		Code:    "INSUFFICIENT_STOCK",
		Message: fmt.Sprintf("insufficient stock for product %q", productName),
	}
}

func NewInactivePaymentMethod(name string) *BusinessError {
	return &BusinessError{
		Code:    "PAYMENT_METHOD_INACTIVE",
		Message: fmt.Sprintf("payment method %q is not active", name),
	}
}

func IsBusiness(err error) bool {
	var b *BusinessError
	return errors.As(err, &b)
}
