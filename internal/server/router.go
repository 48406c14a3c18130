package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgibran18tj/FacturacionBG/internal/config"
	"github.com/danielgibran18tj/FacturacionBG/internal/domain"
	"github.com/danielgibran18tj/FacturacionBG/internal/handler"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires HTTP routes and middleware.
func NewRouter(cfg config.Config,
	logger *slog.Logger,
	health handler.HealthHandler,
	auth handler.AuthHandler,
	customers handler.CustomerHandler,
	products handler.ProductHandler,
	invoices handler.InvoiceHandler,
	paymentMethods handler.PaymentMethodHandler,
	settings handler.SettingsHandler,
	users handler.UsersHandler,
	auditLog handler.AuditLogHandler,
	dashboard handler.DashboardHandler,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggerMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(httprate.LimitByIP(200, 1*time.Minute))

	health.RegisterRoutes(r)
	auth.RegisterRoutes(r)
	r.Method("GET", "/metrics", promhttp.Handler())

	staffOnly := RequireRole(domain.RoleAdministrator, domain.RoleSeller)

	r.Group(func(pr chi.Router) {
		pr.Use(AuthMiddleware(cfg))
		auth.RegisterProtectedRoutes(pr)

		// invoicing: reads for every role, writes and listings staff-only
		pr.Group(func(ir chi.Router) {
			ir.Use(RequireRole(domain.RoleAdministrator, domain.RoleSeller, domain.RoleCustomer))
			invoices.RegisterRoutes(ir, staffOnly)
			paymentMethods.RegisterRoutes(ir)
		})

		// catalog and customer base (seller/admin)
		pr.Group(func(sr chi.Router) {
			sr.Use(staffOnly)
			customers.RegisterRoutes(sr)
			products.RegisterRoutes(sr)
		})

		// administration
		pr.Group(func(ar chi.Router) {
			ar.Use(RequireRole(domain.RoleAdministrator))
			users.RegisterRoutes(ar)
			settings.RegisterRoutes(ar)
			auditLog.RegisterRoutes(ar)
			dashboard.RegisterRoutes(ar)
		})
	})

	return r
}
