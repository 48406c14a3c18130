package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielgibran18tj/FacturacionBG/internal/config"
	"github.com/danielgibran18tj/FacturacionBG/internal/domain"
	"github.com/danielgibran18tj/FacturacionBG/internal/pdf"
	"github.com/danielgibran18tj/FacturacionBG/internal/ports"
	"github.com/danielgibran18tj/FacturacionBG/internal/repository"
	"github.com/shopspring/decimal"
)

// InvoiceService drives the invoice workflow. All multi-step writes
// happen inside the store's transaction; the service resolves the tax
// rate, shapes input and classifies errors.
type InvoiceService struct {
	Invoices  ports.InvoiceStore
	Customers ports.CustomerStore
	Settings  *SettingsService
	Audit     ports.AuditStore
	Company   config.CompanySettings
	Logger    *slog.Logger
}

type CreateInvoiceInput struct {
	CustomerID  int64
	SellerID    int64
	InvoiceDate *time.Time
	Notes       *string
	Lines       []domain.InvoiceLineParams
	Payments    []domain.InvoicePaymentParams
}

func (s InvoiceService) Create(ctx context.Context, in CreateInvoiceInput) (*domain.Invoice, error) {
	taxPercent, err := s.Settings.TaxPercent(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve tax rate: %w", err)
	}

	invoiceDate := time.Now().UTC()
	if in.InvoiceDate != nil {
		invoiceDate = *in.InvoiceDate
	}

	inv, err := s.Invoices.Create(ctx, domain.CreateInvoiceParams{
		CustomerID:  in.CustomerID,
		SellerID:    in.SellerID,
		InvoiceDate: invoiceDate,
		Notes:       in.Notes,
		TaxPercent:  taxPercent,
		Lines:       in.Lines,
		Payments:    in.Payments,
	})
	if err != nil {
		return nil, err
	}

	s.audit(ctx, &inv.ID, "create", &in.SellerID, "invoice "+inv.InvoiceNumber+" created, total "+inv.Total.StringFixed(2))
	s.Logger.Info("invoice created",
		"id", inv.ID, "number", inv.InvoiceNumber, "customer", inv.CustomerID, "total", inv.Total.StringFixed(2))
	return inv, nil
}

func (s InvoiceService) GetByID(ctx context.Context, id int64) (*domain.Invoice, error) {
	return s.Invoices.GetByID(ctx, id)
}

func (s InvoiceService) List(ctx context.Context) ([]domain.Invoice, error) {
	return s.Invoices.List(ctx, 200)
}

func (s InvoiceService) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Invoice, error) {
	return s.Invoices.ListByCustomer(ctx, customerID)
}

func (s InvoiceService) ListBySeller(ctx context.Context, sellerID int64) ([]domain.Invoice, error) {
	return s.Invoices.ListBySeller(ctx, sellerID)
}

// Paged lists invoices with filters. When restrictToUserID is set the
// result is narrowed to the customer record linked to that user; a user
// without a linked customer sees an empty page, not an error.
func (s InvoiceService) Paged(ctx context.Context, f domain.InvoiceFilter, restrictToUserID *int64) (domain.Paged[domain.Invoice], error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 10
	}

	if restrictToUserID != nil {
		customer, err := s.Customers.GetByUserID(ctx, *restrictToUserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.NewPaged[domain.Invoice](nil, 0, f.Page, f.PageSize), nil
			}
			return domain.Paged[domain.Invoice]{}, err
		}
		f.CustomerID = &customer.ID
	}

	return s.Invoices.Paged(ctx, f)
}

// Delete marks the invoice inactive. Stock is deliberately not restored;
// a correction invoice is the way to put goods back.
func (s InvoiceService) Delete(ctx context.Context, id int64, actor *int64) (bool, error) {
	ok, err := s.Invoices.SetInactive(ctx, id)
	if err != nil || !ok {
		return ok, err
	}
	s.audit(ctx, &id, "delete", actor, "invoice marked inactive")
	return true, nil
}

// Pdf renders the printable invoice.
func (s InvoiceService) Pdf(ctx context.Context, id int64) ([]byte, error) {
	inv, err := s.Invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return pdf.RenderInvoice(inv, pdf.Company{
		Name:  s.Company.Name,
		TaxID: s.Company.TaxID,
		Phone: s.Company.Phone,
		Email: s.Company.Email,
	})
}

// PaymentsTotal sums the recorded payments. Informational: the workflow
// does not require payments to cover the invoice total.
func PaymentsTotal(inv *domain.Invoice) decimal.Decimal {
	total := decimal.Zero
	for _, p := range inv.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

func (s InvoiceService) audit(ctx context.Context, invoiceID *int64, action string, actor *int64, detail string) {
	if s.Audit == nil {
		return
	}
	if err := s.Audit.Append(ctx, domain.AuditEntry{
		Entity:   "invoice",
		EntityID: invoiceID,
		Action:   action,
		Actor:    actor,
		Detail:   detail,
	}); err != nil {
		s.Logger.Warn("audit append failed", "entity", "invoice", "action", action, "err", err)
	}
}
