package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgibran18tj/FacturacionBG/internal/domain"
	"github.com/danielgibran18tj/FacturacionBG/internal/repository"
	"github.com/go-chi/chi/v5"
)

type CustomerHandler struct {
	Repo repository.CustomerRepository
}

func (h CustomerHandler) RegisterRoutes(r chi.Router) {
	r.Get("/customer", h.list)
	r.Get("/customer/paged", h.paged)
	r.Get("/customer/{id}", h.get)
	r.Post("/customer", h.create)
	r.Put("/customer/{id}", h.update)
	r.Delete("/customer/{id}", h.deactivate)
}

func (h CustomerHandler) list(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("includeInactive") == "true"
	items, err := h.Repo.List(r.Context(), includeInactive)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for i := range items {
		resp = append(resp, toCustomerResponse(&items[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h CustomerHandler) paged(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePageQuery(r)
	result, err := h.Repo.Paged(r.Context(), page, pageSize, r.URL.Query().Get("search"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPagedResponse(result, toCustomerResponse))
}

func (h CustomerHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	c, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerResponse(c))
}

func (h CustomerHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DocumentNumber string  `json:"documentNumber" validate:"required,max=20"`
		FullName       string  `json:"fullName" validate:"required,max=150"`
		Phone          *string `json:"phone"`
		Email          *string `json:"email" validate:"omitempty,email"`
		Address        *string `json:"address"`
		UserID         *int64  `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeDomainError(w, err)
		return
	}

	exists, err := h.Repo.ExistsByDocumentNumber(r.Context(), req.DocumentNumber)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if exists {
		writeDomainError(w, domain.NewConflict("customer", "documentNumber", req.DocumentNumber))
		return
	}

	c, err := h.Repo.Create(r.Context(), domain.Customer{
		DocumentNumber: req.DocumentNumber,
		FullName:       req.FullName,
		Phone:          req.Phone,
		Email:          req.Email,
		Address:        req.Address,
		UserID:         req.UserID,
		IsActive:       true,
	})
	if err != nil {
		if repository.IsDuplicate(err) {
			writeDomainError(w, domain.NewConflict("customer", "documentNumber", req.DocumentNumber))
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCustomerResponse(c))
}

func (h CustomerHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		DocumentNumber string  `json:"documentNumber" validate:"required,max=20"`
		FullName       string  `json:"fullName" validate:"required,max=150"`
		Phone          *string `json:"phone"`
		Email          *string `json:"email" validate:"omitempty,email"`
		Address        *string `json:"address"`
		IsActive       *bool   `json:"isActive"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeDomainError(w, err)
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

	c, err := h.Repo.Update(r.Context(), domain.Customer{
		ID:             id,
		DocumentNumber: req.DocumentNumber,
		FullName:       req.FullName,
		Phone:          req.Phone,
		Email:          req.Email,
		Address:        req.Address,
		IsActive:       isActive,
	})
	if err != nil {
		if repository.IsDuplicate(err) {
			writeDomainError(w, domain.NewConflict("customer", "documentNumber", req.DocumentNumber))
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toCustomerResponse(c))
}

func (h CustomerHandler) deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	ok, err := h.Repo.Deactivate(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "customer not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deactivated": true})
}

func toCustomerResponse(c *domain.Customer) map[string]any {
	return map[string]any{
		"id":             c.ID,
		"documentNumber": c.DocumentNumber,
		"fullName":       c.FullName,
		"phone":          c.Phone,
		"email":          c.Email,
		"address":        c.Address,
		"userId":         c.UserID,
		"isActive":       c.IsActive,
		"createdAt":      c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func parsePageQuery(r *http.Request) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("pageSize"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}
	return page, pageSize
}

func toPagedResponse[T any](p domain.Paged[T], mapItem func(*T) map[string]any) map[string]any {
	items := make([]map[string]any, 0, len(p.Items))
	for i := range p.Items {
		items = append(items, mapItem(&p.Items[i]))
	}
	return map[string]any{
		"items":      items,
		"totalItems": p.TotalItems,
		"totalPages": p.TotalPages,
		"page":       p.Page,
		"pageSize":   p.PageSize,
	}
}
