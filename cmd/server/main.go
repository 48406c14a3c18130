package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/danielgibran18tj/FacturacionBG/internal/config"
	"github.com/danielgibran18tj/FacturacionBG/internal/db"
	"github.com/danielgibran18tj/FacturacionBG/internal/handler"
	"github.com/danielgibran18tj/FacturacionBG/internal/repository"
	"github.com/danielgibran18tj/FacturacionBG/internal/server"
	"github.com/danielgibran18tj/FacturacionBG/internal/service"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("failed to connect database", "err", err)
		os.Exit(1)
	}
	defer pg.Close()

	if err := db.Migrate(ctx, pg); err != nil {
		logger.Error("failed to run migrations", "err", err)
		os.Exit(1)
	}

	// repositories
	userRepo := repository.UserRepository{DB: pg}
	customerRepo := repository.CustomerRepository{DB: pg}
	productRepo := repository.ProductRepository{DB: pg}
	invoiceRepo := repository.InvoiceRepository{DB: pg}
	paymentMethodRepo := repository.PaymentMethodRepository{DB: pg}
	refreshTokenRepo := repository.RefreshTokenRepository{DB: pg}
	settingsRepo := repository.SettingsRepository{DB: pg}
	auditRepo := repository.AuditLogRepository{DB: pg}
	dashboardRepo := repository.DashboardRepository{DB: pg}
	roleRepo := repository.RoleRepository{DB: pg}

	// seed data
	if err := roleRepo.SeedDefaults(ctx); err != nil {
		logger.Error("failed to seed roles", "err", err)
		os.Exit(1)
	}
	if err := paymentMethodRepo.SeedDefaults(ctx); err != nil {
		logger.Error("failed to seed payment methods", "err", err)
		os.Exit(1)
	}
	if err := settingsRepo.SeedDefaults(ctx); err != nil {
		logger.Error("failed to seed settings", "err", err)
		os.Exit(1)
	}

	// services
	settingsSvc := service.NewSettingsService(settingsRepo)
	authSvc := service.AuthService{Config: cfg, Users: userRepo, Tokens: refreshTokenRepo, Audit: auditRepo, Logger: logger}
	invoiceSvc := service.InvoiceService{
		Invoices:  invoiceRepo,
		Customers: customerRepo,
		Settings:  settingsSvc,
		Audit:     auditRepo,
		Company:   cfg.Company,
		Logger:    logger,
	}

	// handlers
	healthHandler := handler.HealthHandler{DB: pg}
	authHandler := handler.AuthHandler{Service: &authSvc}
	customerHandler := handler.CustomerHandler{Repo: customerRepo}
	productHandler := handler.ProductHandler{Repo: productRepo}
	invoiceHandler := handler.InvoiceHandler{Service: &invoiceSvc}
	paymentMethodHandler := handler.PaymentMethodHandler{Repo: paymentMethodRepo}
	settingsHandler := handler.SettingsHandler{Service: settingsSvc}
	usersHandler := handler.UsersHandler{Auth: &authSvc, Repo: userRepo}
	auditLogHandler := handler.AuditLogHandler{Repo: auditRepo}
	dashboardHandler := handler.DashboardHandler{Repo: dashboardRepo}

	router := server.NewRouter(cfg, logger,
		healthHandler, authHandler, customerHandler, productHandler, invoiceHandler,
		paymentMethodHandler, settingsHandler, usersHandler, auditLogHandler, dashboardHandler)

	if err := server.Start(ctx, cfg, router, logger); err != nil {
		logger.Error("server error", "err", err)
		os.Exit(1)
	}
}
