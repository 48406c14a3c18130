package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgibran18tj/FacturacionBG/internal/domain"
	"github.com/danielgibran18tj/FacturacionBG/internal/server/authctx"
	"github.com/danielgibran18tj/FacturacionBG/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type InvoiceHandler struct {
	Service *service.InvoiceService
}

// RegisterRoutes mounts the invoice surface. Reads are open to every
// authenticated role (customer-role callers are narrowed to their own
// invoices in the handlers); mutating and listing operations go through
// the staffOnly middleware.
func (h InvoiceHandler) RegisterRoutes(r chi.Router, staffOnly func(http.Handler) http.Handler) {
	r.With(staffOnly).Post("/invoice", h.create)
	r.With(staffOnly).Get("/invoice", h.list)
	r.With(staffOnly).Get("/invoice/export", h.export)
	r.With(staffOnly).Get("/invoice/customer/{id}", h.listByCustomer)
	r.With(staffOnly).Get("/invoice/seller/{id}", h.listBySeller)
	r.With(staffOnly).Delete("/invoice/{id}", h.delete)
	r.Get("/invoice/{id}", h.get)
	r.Get("/invoice/{id}/pdf", h.pdf)
	r.Post("/invoice/paged", h.paged)
}

func (h InvoiceHandler) create(w http.ResponseWriter, r *http.Request) {
	current := authctx.FromContext(r.Context())
	if current == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		CustomerID  int64   `json:"customerId" validate:"required"`
		InvoiceDate *string `json:"invoiceDate"`
		Notes       *string `json:"notes"`
		Details     []struct {
			ProductID int64 `json:"productId" validate:"required"`
			Quantity  int   `json:"quantity" validate:"required,gt=0"`
		} `json:"details" validate:"required,min=1,dive"`
		Payments []struct {
			PaymentMethodID int64           `json:"paymentMethodId" validate:"required"`
			Amount          decimal.Decimal `json:"amount"`
		} `json:"payments" validate:"dive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeDomainError(w, err)
		return
	}

	var invoiceDate *time.Time
	if req.InvoiceDate != nil && *req.InvoiceDate != "" {
		parsed, err := time.Parse(dateLayout, *req.InvoiceDate)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid invoiceDate")
			return
		}
		invoiceDate = &parsed
	}

	lines := make([]domain.InvoiceLineParams, 0, len(req.Details))
	for _, d := range req.Details {
		lines = append(lines, domain.InvoiceLineParams{ProductID: d.ProductID, Quantity: d.Quantity})
	}
	payments := make([]domain.InvoicePaymentParams, 0, len(req.Payments))
	for _, p := range req.Payments {
		if p.Amount.IsNegative() || p.Amount.IsZero() {
			writeError(w, http.StatusBadRequest, "payment amount must be positive")
			return
		}
		payments = append(payments, domain.InvoicePaymentParams{PaymentMethodID: p.PaymentMethodID, Amount: p.Amount})
	}

	inv, err := h.Service.Create(r.Context(), service.CreateInvoiceInput{
		CustomerID:  req.CustomerID,
		SellerID:    current.ID,
		InvoiceDate: invoiceDate,
		Notes:       req.Notes,
		Lines:       lines,
		Payments:    payments,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toInvoiceResponse(inv))
}

func (h InvoiceHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceList(items))
}

func (h InvoiceHandler) listByCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	items, err := h.Service.ListByCustomer(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceList(items))
}

func (h InvoiceHandler) listBySeller(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	items, err := h.Service.ListBySeller(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceList(items))
}

func (h InvoiceHandler) get(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.fetchVisible(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceResponse(inv))
}

func (h InvoiceHandler) pdf(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.fetchVisible(w, r)
	if !ok {
		return
	}
	data, err := h.Service.Pdf(r.Context(), inv.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", inv.InvoiceNumber+".pdf"))
	_, _ = w.Write(data)
}

func (h InvoiceHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var actor *int64
	if current := authctx.FromContext(r.Context()); current != nil {
		actor = &current.ID
	}
	ok, err := h.Service.Delete(r.Context(), id, actor)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "invoice not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

func (h InvoiceHandler) paged(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Page       int     `json:"page"`
		PageSize   int     `json:"pageSize"`
		SearchTerm string  `json:"searchTerm"`
		StartDate  *string `json:"startDate"`
		EndDate    *string `json:"endDate"`
		MinAmount  *string `json:"minAmount"`
		MaxAmount  *string `json:"maxAmount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}

	filter := domain.InvoiceFilter{
		Page:       req.Page,
		PageSize:   req.PageSize,
		SearchTerm: req.SearchTerm,
	}
	var err error
	if filter.StartDate, err = parseOptionalDate(req.StartDate); err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate")
		return
	}
	if filter.EndDate, err = parseOptionalDate(req.EndDate); err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate")
		return
	}
	if filter.MinAmount, err = parseOptionalDecimal(req.MinAmount); err != nil {
		writeError(w, http.StatusBadRequest, "invalid minAmount")
		return
	}
	if filter.MaxAmount, err = parseOptionalDecimal(req.MaxAmount); err != nil {
		writeError(w, http.StatusBadRequest, "invalid maxAmount")
		return
	}

	result, err := h.Service.Paged(r.Context(), filter, restrictedUserID(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPagedResponse(result, func(inv *domain.Invoice) map[string]any {
		return toInvoiceResponse(inv)
	}))
}

func (h InvoiceHandler) export(w http.ResponseWriter, r *http.Request) {
	startDate, err := parseDateQuery(r, "startDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid startDate")
		return
	}
	endDate, err := parseDateQuery(r, "endDate")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid endDate")
		return
	}
	if startDate != nil && endDate != nil && startDate.After(*endDate) {
		writeError(w, http.StatusBadRequest, "startDate must be before endDate")
		return
	}

	result, err := h.Service.Paged(r.Context(), domain.InvoiceFilter{
		Page:      1,
		PageSize:  2000,
		StartDate: startDate,
		EndDate:   endDate,
	}, nil)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	data, err := exportInvoicesXLSX(result.Items)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	filenameSuffix := time.Now().Format("20060102_150405")
	if startDate != nil && endDate != nil {
		filenameSuffix = fmt.Sprintf("%s_%s", startDate.Format("20060102"), endDate.Format("20060102"))
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"invoices_%s.xlsx\"", filenameSuffix))
	_, _ = w.Write(data)
}

func exportInvoicesXLSX(items []domain.Invoice) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "Invoices"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	header := []string{"Number", "Date", "Customer", "Document", "Seller", "Subtotal", "Tax", "Total", "Status"}
	for c, v := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(sheet, cell, v)
	}
	for row, inv := range items {
		values := []any{
			inv.InvoiceNumber,
			inv.InvoiceDate.Format("2006-01-02"),
			inv.CustomerName,
			inv.CustomerDocument,
			inv.SellerName,
			inv.Subtotal.StringFixed(2),
			inv.TaxIva.StringFixed(2),
			inv.Total.StringFixed(2),
			string(inv.Status),
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 14)
	_ = f.SetColWidth(sheet, "B", "B", 12)
	_ = f.SetColWidth(sheet, "C", "C", 28)
	_ = f.SetColWidth(sheet, "D", "D", 16)
	_ = f.SetColWidth(sheet, "E", "E", 22)
	_ = f.SetColWidth(sheet, "F", "H", 12)
	_ = f.SetColWidth(sheet, "I", "I", 10)

	style, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#1F2937"}, Pattern: 1},
	})
	_ = f.SetCellStyle(sheet, "A1", "I1", style)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fetchVisible loads the invoice and hides it from customer-role callers
// that do not own it; a foreign invoice reads as not found.
func (h InvoiceHandler) fetchVisible(w http.ResponseWriter, r *http.Request) (*domain.Invoice, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return nil, false
	}
	inv, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return nil, false
	}
	if userID := restrictedUserID(r); userID != nil {
		customer, err := h.Service.Customers.GetByUserID(r.Context(), *userID)
		if err != nil || customer.ID != inv.CustomerID {
			writeError(w, http.StatusNotFound, "invoice not found")
			return nil, false
		}
	}
	return inv, true
}

// restrictedUserID returns the caller's user id when the token carries
// only the Customer role, nil for staff.
func restrictedUserID(r *http.Request) *int64 {
	current := authctx.FromContext(r.Context())
	if current == nil {
		return nil
	}
	for _, role := range current.Roles {
		if role == domain.RoleAdministrator || role == domain.RoleSeller {
			return nil
		}
	}
	return &current.ID
}

func parseOptionalDate(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(dateLayout, *value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseOptionalDecimal(value *string) (*decimal.Decimal, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := decimal.NewFromString(*value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func toInvoiceList(items []domain.Invoice) []map[string]any {
	resp := make([]map[string]any, 0, len(items))
	for i := range items {
		resp = append(resp, toInvoiceResponse(&items[i]))
	}
	return resp
}

func toInvoiceResponse(inv *domain.Invoice) map[string]any {
	details := make([]map[string]any, 0, len(inv.Details))
	for _, d := range inv.Details {
		details = append(details, map[string]any{
			"id":          d.ID,
			"productId":   d.ProductID,
			"productCode": d.ProductCode,
			"productName": d.ProductName,
			"quantity":    d.Quantity,
			"unitPrice":   d.UnitPrice,
			"subtotal":    d.Subtotal,
		})
	}
	payments := make([]map[string]any, 0, len(inv.Payments))
	for _, p := range inv.Payments {
		payments = append(payments, map[string]any{
			"id":                p.ID,
			"paymentMethodId":   p.PaymentMethodID,
			"paymentMethodName": p.PaymentMethodName,
			"amount":            p.Amount,
		})
	}
	return map[string]any{
		"id":               inv.ID,
		"invoiceNumber":    inv.InvoiceNumber,
		"invoiceDate":      inv.InvoiceDate.Format("2006-01-02"),
		"customerId":       inv.CustomerID,
		"customerName":     inv.CustomerName,
		"customerDocument": inv.CustomerDocument,
		"sellerId":         inv.SellerID,
		"sellerName":       inv.SellerName,
		"subtotal":         inv.Subtotal,
		"taxIva":           inv.TaxIva,
		"total":            inv.Total,
		"paymentsTotal":    service.PaymentsTotal(inv),
		"notes":            inv.Notes,
		"status":           string(inv.Status),
		"details":          details,
		"payments":         payments,
	}
}
