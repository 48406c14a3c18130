package handler

import (
	"net/http"

	"github.com/danielgibran18tj/FacturacionBG/internal/repository"
	"github.com/go-chi/chi/v5"
)

type PaymentMethodHandler struct {
	Repo repository.PaymentMethodRepository
}

func (h PaymentMethodHandler) RegisterRoutes(r chi.Router) {
	r.Get("/payment-method", h.list)
}

func (h PaymentMethodHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.ListActive(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, m := range items {
		resp = append(resp, map[string]any{
			"id":       m.ID,
			"name":     m.Name,
			"isActive": m.IsActive,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
