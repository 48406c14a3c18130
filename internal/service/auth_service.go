package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielgibran18tj/FacturacionBG/internal/config"
	"github.com/danielgibran18tj/FacturacionBG/internal/domain"
	"github.com/danielgibran18tj/FacturacionBG/internal/ports"
	"github.com/danielgibran18tj/FacturacionBG/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	Config config.Config
	Users  ports.UserStore
	Tokens ports.RefreshTokenStore
	Audit  ports.AuditStore
	Logger *slog.Logger
}

type AuthResult struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         domain.User
}

type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName *string
	LastName  *string
	Roles     []domain.RoleName
}

func (s AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if _, err := s.Users.GetByUsername(ctx, in.Username); err == nil {
		return nil, domain.NewConflict("user", "username", in.Username)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.Config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	roles := in.Roles
	if len(roles) == 0 {
		roles = []domain.RoleName{domain.RoleSeller}
	}

	user, err := s.Users.Create(ctx, ports.CreateUserParams{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Roles:        roles,
	})
	if err != nil {
		if repository.IsDuplicate(err) {
			return nil, domain.NewConflict("user", "email", in.Email)
		}
		return nil, err
	}

	s.audit(ctx, "user", &user.ID, "register", nil, "user "+user.Username+" registered")
	s.Logger.Info("user registered", "id", user.ID, "username", user.Username)
	return user, nil
}

// Login returns the same error for unknown users, inactive users and
// password mismatches, so responses cannot be used to enumerate accounts.
func (s AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now().UTC()
	if err := s.Users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}

	result, err := s.issueTokens(ctx, user, now)
	if err != nil {
		return nil, err
	}
	s.audit(ctx, "user", &user.ID, "login", &user.ID, "user "+user.Username+" logged in")
	return result, nil
}

// Refresh rotates a refresh token. The conditional revoke in the store
// guarantees that of two concurrent calls with the same token, exactly
// one succeeds; the other gets an authentication error.
func (s AuthService) Refresh(ctx context.Context, token string) (*AuthResult, error) {
	stored, err := s.Tokens.Get(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	now := time.Now().UTC()
	if !stored.IsUsable(now) {
		return nil, domain.ErrInvalidToken
	}

	user, err := s.Users.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrInvalidToken
	}

	newRefresh, err := newRefreshToken()
	if err != nil {
		return nil, err
	}

	revoked, err := s.Tokens.Revoke(ctx, token, &newRefresh, now)
	if err != nil {
		return nil, err
	}
	if !revoked {
		// Lost the race against a concurrent refresh of the same token.
		return nil, domain.ErrInvalidToken
	}

	if err := s.Tokens.Add(ctx, user.ID, newRefresh, now.Add(s.Config.RefreshTokenTTL)); err != nil {
		return nil, err
	}

	access, expiresAt, err := s.signAccessToken(user, now)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		AccessToken:  access,
		RefreshToken: newRefresh,
		ExpiresAt:    expiresAt,
		User:         *user,
	}, nil
}

// Revoke is the logout path. Unknown or already-revoked tokens return
// false rather than an error.
func (s AuthService) Revoke(ctx context.Context, token string) (bool, error) {
	return s.Tokens.Revoke(ctx, token, nil, time.Now().UTC())
}

func (s AuthService) issueTokens(ctx context.Context, user *domain.User, now time.Time) (*AuthResult, error) {
	access, expiresAt, err := s.signAccessToken(user, now)
	if err != nil {
		return nil, err
	}

	refresh, err := newRefreshToken()
	if err != nil {
		return nil, err
	}
	if err := s.Tokens.Add(ctx, user.ID, refresh, now.Add(s.Config.RefreshTokenTTL)); err != nil {
		return nil, err
	}

	return &AuthResult{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		User:         *user,
	}, nil
}

func (s AuthService) signAccessToken(user *domain.User, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(s.Config.AccessTokenTTL)

	roles := make([]string, 0, len(user.Roles))
	for _, r := range user.Roles {
		roles = append(roles, string(r))
	}

	firstName, lastName := "", ""
	if user.FirstName != nil {
		firstName = *user.FirstName
	}
	if user.LastName != nil {
		lastName = *user.LastName
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        fmt.Sprintf("%d", user.ID),
		"username":   user.Username,
		"email":      user.Email,
		"firstName":  firstName,
		"lastName":   lastName,
		"roles":      roles,
		"token_type": "access",
		"iss":        s.Config.JWTIssuer,
		"aud":        s.Config.JWTAudience,
		"exp":        expiresAt.Unix(),
		"iat":        now.Unix(),
	}).SignedString([]byte(s.Config.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// newRefreshToken draws 64 bytes of entropy; the value is opaque and
// only ever matched against the server-side store.
func newRefreshToken() (string, error) {
	buf := make([]byte, 64)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf), nil
}

func (s AuthService) audit(ctx context.Context, entity string, entityID *int64, action string, actor *int64, detail string) {
	if s.Audit == nil {
		return
	}
	if err := s.Audit.Append(ctx, domain.AuditEntry{
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Actor:    actor,
		Detail:   detail,
	}); err != nil {
		s.Logger.Warn("audit append failed", "entity", entity, "action", action, "err", err)
	}
}
