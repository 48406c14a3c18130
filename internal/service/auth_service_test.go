package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/danielgibran18tj/FacturacionBG/internal/config"
	"github.com/danielgibran18tj/FacturacionBG/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() config.Config {
	return config.Config{
		JWTSecret:       "test-secret",
		JWTIssuer:       "facturacion-bg",
		JWTAudience:     "facturacion-bg-clients",
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
		BcryptCost:      bcrypt.MinCost,
	}
}

func newTestAuthService() (AuthService, *fakeUserStore, *fakeTokenStore) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	svc := AuthService{
		Config: testConfig(),
		Users:  users,
		Tokens: tokens,
		Audit:  &fakeAuditStore{},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return svc, users, tokens
}

func TestRegisterDefaultsToSellerRole(t *testing.T) {
	svc, _, _ := newTestAuthService()
	user, err := svc.Register(context.Background(), RegisterInput{
		Username: "maria",
		Email:    "maria@example.com",
		Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !user.HasRole(domain.RoleSeller) {
		t.Errorf("roles = %v, want default Seller", user.Roles)
	}
	if user.PasswordHash == "s3cret-pass" {
		t.Error("password must be stored hashed")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterInput{Username: "maria", Email: "a@example.com", Password: "s3cret-pass"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, RegisterInput{Username: "maria", Email: "b@example.com", Password: "s3cret-pass"})
	if !domain.IsConflict(err) {
		t.Fatalf("err = %v, want conflict", err)
	}
}

func TestLoginIssuesTokensAndRecordsLogin(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterInput{Username: "maria", Email: "maria@example.com", Password: "s3cret-pass"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	res, err := svc.Login(ctx, "maria", "s3cret-pass")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.AccessToken == "" || res.RefreshToken == "" {
		t.Fatal("expected both tokens")
	}

	stored, err := users.GetByUsername(ctx, "maria")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if stored.LastLoginAt == nil {
		t.Error("last login must be recorded")
	}

	token, err := jwt.Parse(res.AccessToken, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	}, jwt.WithIssuer("facturacion-bg"), jwt.WithAudience("facturacion-bg-clients"))
	if err != nil || !token.Valid {
		t.Fatalf("access token invalid: %v", err)
	}
	claims := token.Claims.(jwt.MapClaims)
	if claims["token_type"] != "access" {
		t.Errorf("token_type = %v", claims["token_type"])
	}
	if claims["username"] != "maria" {
		t.Errorf("username claim = %v", claims["username"])
	}
}

func TestLoginUniformFailures(t *testing.T) {
	svc, users, _ := newTestAuthService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterInput{Username: "maria", Email: "maria@example.com", Password: "s3cret-pass"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Login(ctx, "nobody", "whatever"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("unknown user: err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(ctx, "maria", "wrong-pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v, want ErrInvalidCredentials", err)
	}

	stored, _ := users.GetByUsername(ctx, "maria")
	if stored.LastLoginAt != nil {
		t.Error("failed logins must not touch last login")
	}

	users.users[stored.ID].IsActive = false
	if _, err := svc.Login(ctx, "maria", "s3cret-pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("inactive user: err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	svc, _, tokens := newTestAuthService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterInput{Username: "maria", Email: "maria@example.com", Password: "s3cret-pass"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	login, err := svc.Login(ctx, "maria", "s3cret-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Fatal("refresh must issue a new token")
	}

	old, err := tokens.Get(ctx, login.RefreshToken)
	if err != nil {
		t.Fatalf("get old token: %v", err)
	}
	if !old.IsRevoked {
		t.Error("old token must be revoked")
	}
	if old.ReplacedByToken == nil || *old.ReplacedByToken != refreshed.RefreshToken {
		t.Error("old token must link to its replacement")
	}

	// Reuse of the rotated token is an authentication error.
	if _, err := svc.Refresh(ctx, login.RefreshToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("reuse: err = %v, want ErrInvalidToken", err)
	}
}

func TestRefreshUnknownToken(t *testing.T) {
	svc, _, _ := newTestAuthService()
	if _, err := svc.Refresh(context.Background(), "never-issued"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestRefreshExpiredToken(t *testing.T) {
	svc, users, tokens := newTestAuthService()
	ctx := context.Background()
	user := users.add(domain.User{Username: "maria", Email: "maria@example.com", IsActive: true})
	if err := tokens.Add(ctx, user.ID, "stale", time.Now().Add(-time.Hour)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.Refresh(ctx, "stale"); !errors.Is(err, domain.ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestLogoutRevokesOnce(t *testing.T) {
	svc, _, _ := newTestAuthService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, RegisterInput{Username: "maria", Email: "maria@example.com", Password: "s3cret-pass"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	login, err := svc.Login(ctx, "maria", "s3cret-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	revoked, err := svc.Revoke(ctx, login.RefreshToken)
	if err != nil || !revoked {
		t.Fatalf("first revoke = (%v, %v), want (true, nil)", revoked, err)
	}
	revoked, err = svc.Revoke(ctx, login.RefreshToken)
	if err != nil {
		t.Fatalf("second revoke: %v", err)
	}
	if revoked {
		t.Error("second revoke must report false")
	}
}
