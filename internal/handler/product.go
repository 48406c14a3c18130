package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/danielgibran18tj/FacturacionBG/internal/domain"
	"github.com/danielgibran18tj/FacturacionBG/internal/repository"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	Repo repository.ProductRepository
}

func (h ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/product", h.list)
	r.Get("/product/paged", h.paged)
	r.Get("/product/low-stock", h.lowStock)
	r.Get("/product/{id}", h.get)
	r.Post("/product", h.create)
	r.Put("/product/{id}", h.update)
	r.Patch("/product/{id}/stock", h.adjustStock)
}

func (h ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("includeInactive") == "true"
	items, err := h.Repo.List(r.Context(), includeInactive)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for i := range items {
		resp = append(resp, toProductResponse(&items[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h ProductHandler) paged(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePageQuery(r)
	result, err := h.Repo.Paged(r.Context(), page, pageSize, r.URL.Query().Get("search"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPagedResponse(result, toProductResponse))
}

func (h ProductHandler) lowStock(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.LowStock(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for i := range items {
		resp = append(resp, toProductResponse(&items[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h ProductHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	p, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(p))
}

func (h ProductHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code        string          `json:"code" validate:"required,max=50"`
		Name        string          `json:"name" validate:"required,max=150"`
		Description *string         `json:"description"`
		UnitPrice   decimal.Decimal `json:"unitPrice"`
		Stock       int             `json:"stock" validate:"gte=0"`
		MinStock    *int            `json:"minStock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeDomainError(w, err)
		return
	}
	if req.UnitPrice.IsNegative() {
		writeError(w, http.StatusBadRequest, "unitPrice must not be negative")
		return
	}

	exists, err := h.Repo.ExistsByCode(r.Context(), req.Code)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if exists {
		writeDomainError(w, domain.NewConflict("product", "code", req.Code))
		return
	}

	p, err := h.Repo.Create(r.Context(), domain.Product{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		UnitPrice:   req.UnitPrice,
		Stock:       req.Stock,
		MinStock:    req.MinStock,
		IsActive:    true,
	})
	if err != nil {
		if repository.IsDuplicate(err) {
			writeDomainError(w, domain.NewConflict("product", "code", req.Code))
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductResponse(p))
}

// update never touches stock; quantity on hand only moves through
// invoicing or the explicit stock adjustment endpoint.
func (h ProductHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		Code        string          `json:"code" validate:"required,max=50"`
		Name        string          `json:"name" validate:"required,max=150"`
		Description *string         `json:"description"`
		UnitPrice   decimal.Decimal `json:"unitPrice"`
		MinStock    *int            `json:"minStock"`
		IsActive    *bool           `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeDomainError(w, err)
		return
	}
	if req.UnitPrice.IsNegative() {
		writeError(w, http.StatusBadRequest, "unitPrice must not be negative")
		return
	}

	current, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	isActive := current.IsActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	p, err := h.Repo.Update(r.Context(), domain.Product{
		ID:          id,
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		UnitPrice:   req.UnitPrice,
		MinStock:    req.MinStock,
		IsActive:    isActive,
	})
	if err != nil {
		if repository.IsDuplicate(err) {
			writeDomainError(w, domain.NewConflict("product", "code", req.Code))
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(p))
}

func (h ProductHandler) adjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		Delta int `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Delta == 0 {
		writeError(w, http.StatusBadRequest, "delta must not be zero")
		return
	}
	p, err := h.Repo.AdjustStock(r.Context(), id, req.Delta)
	if err != nil {
		if errors.Is(err, repository.ErrStockFloor) {
			writeError(w, http.StatusBadRequest, "stock cannot go negative")
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductResponse(p))
}

func toProductResponse(p *domain.Product) map[string]any {
	return map[string]any{
		"id":          p.ID,
		"code":        p.Code,
		"name":        p.Name,
		"description": p.Description,
		"unitPrice":   p.UnitPrice,
		"stock":       p.Stock,
		"minStock":    p.MinStock,
		"lowStock":    p.LowStock(),
		"isActive":    p.IsActive,
	}
}
