package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielgibran18tj/FacturacionBG/internal/config"
	"github.com/danielgibran18tj/FacturacionBG/internal/domain"
	"github.com/danielgibran18tj/FacturacionBG/internal/server/authctx"
	"github.com/golang-jwt/jwt/v5"
)

func middlewareConfig() config.Config {
	return config.Config{
		JWTSecret:   "test-secret",
		JWTIssuer:   "facturacion-bg",
		JWTAudience: "facturacion-bg-clients",
	}
}

func signTestToken(t *testing.T, cfg config.Config, mutate func(jwt.MapClaims)) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":        "7",
		"username":   "maria",
		"email":      "maria@example.com",
		"roles":      []string{"Seller"},
		"token_type": "access",
		"iss":        cfg.JWTIssuer,
		"aud":        cfg.JWTAudience,
		"exp":        time.Now().Add(time.Hour).Unix(),
		"iat":        time.Now().Unix(),
	}
	if mutate != nil {
		mutate(claims)
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func callProtected(cfg config.Config, token string) (*httptest.ResponseRecorder, *authctx.CurrentUser) {
	var seen *authctx.CurrentUser
	handler := AuthMiddleware(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = authctx.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/invoice", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, seen
}

func TestAuthMiddlewareAcceptsAccessToken(t *testing.T) {
	cfg := middlewareConfig()
	rec, user := callProtected(cfg, signTestToken(t, cfg, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if user == nil {
		t.Fatal("current user not set")
	}
	if user.ID != 7 || user.Username != "maria" {
		t.Errorf("user = %+v", user)
	}
	if !user.HasRole(domain.RoleSeller) {
		t.Errorf("roles = %v", user.Roles)
	}
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	rec, _ := callProtected(middlewareConfig(), "")
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthMiddlewareRejectsWrongTokenType(t *testing.T) {
	cfg := middlewareConfig()
	token := signTestToken(t, cfg, func(c jwt.MapClaims) { c["token_type"] = "refresh" })
	rec, _ := callProtected(cfg, token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthMiddlewareRejectsWrongIssuer(t *testing.T) {
	cfg := middlewareConfig()
	token := signTestToken(t, cfg, func(c jwt.MapClaims) { c["iss"] = "someone-else" })
	rec, _ := callProtected(cfg, token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuthMiddlewareRejectsExpiredToken(t *testing.T) {
	cfg := middlewareConfig()
	token := signTestToken(t, cfg, func(c jwt.MapClaims) {
		c["exp"] = time.Now().Add(-time.Minute).Unix()
	})
	rec, _ := callProtected(cfg, token)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	guard := RequireRole(domain.RoleAdministrator)(next)

	asSeller := authctx.WithCurrentUser(httptest.NewRequest(http.MethodGet, "/users", nil).Context(),
		authctx.CurrentUser{ID: 1, Roles: []domain.RoleName{domain.RoleSeller}})
	req := httptest.NewRequest(http.MethodGet, "/users", nil).WithContext(asSeller)
	rec := httptest.NewRecorder()
	guard.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("seller on admin route: status = %d, want 403", rec.Code)
	}

	asAdmin := authctx.WithCurrentUser(httptest.NewRequest(http.MethodGet, "/users", nil).Context(),
		authctx.CurrentUser{ID: 1, Roles: []domain.RoleName{domain.RoleAdministrator}})
	req = httptest.NewRequest(http.MethodGet, "/users", nil).WithContext(asAdmin)
	rec = httptest.NewRecorder()
	guard.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("admin on admin route: status = %d, want 200", rec.Code)
	}
}
