package authctx

import (
	"context"

	"github.com/danielgibran18tj/FacturacionBG/internal/domain"
)

type contextKey string

const userContextKey contextKey = "currentUser"

type CurrentUser struct {
	ID       int64
	Username string
	Email    string
	Roles    []domain.RoleName
}

// HasRole reports whether the caller carries any of the given roles.
func (u CurrentUser) HasRole(roles ...domain.RoleName) bool {
	for _, want := range roles {
		for _, have := range u.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}

func WithCurrentUser(ctx context.Context, user CurrentUser) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func FromContext(ctx context.Context) *CurrentUser {
	val, ok := ctx.Value(userContextKey).(CurrentUser)
	if !ok {
		return nil
	}
	return &val
}
