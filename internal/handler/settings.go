package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/danielgibran18tj/FacturacionBG/internal/domain"
	"github.com/danielgibran18tj/FacturacionBG/internal/server/authctx"
	"github.com/danielgibran18tj/FacturacionBG/internal/service"
	"github.com/go-chi/chi/v5"
)

type SettingsHandler struct {
	Service *service.SettingsService
}

func (h SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/system-settings", h.list)
	r.Put("/system-settings", h.save)
	r.Get("/system-settings/iva", h.iva)
}

func (h SettingsHandler) list(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Service.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(settings))
	for i := range settings {
		resp = append(resp, toSettingResponse(&settings[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h SettingsHandler) save(w http.ResponseWriter, r *http.Request) {
	current := authctx.FromContext(r.Context())
	if current == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req struct {
		Key   string `json:"key" validate:"required,max=100"`
		Value string `json:"value" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeDomainError(w, err)
		return
	}
	if err := h.Service.SetValue(r.Context(), req.Key, req.Value, &current.ID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"key": req.Key, "value": req.Value})
}

// iva returns the parsed tax percentage so clients can preview totals
// before submitting an invoice.
func (h SettingsHandler) iva(w http.ResponseWriter, r *http.Request) {
	pct, err := h.Service.TaxPercent(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ivaPercentage": pct})
}

func toSettingResponse(s *domain.SystemSetting) map[string]any {
	resp := map[string]any{
		"id":       s.ID,
		"key":      s.Key,
		"value":    s.Value,
		"dataType": s.DataType,
		"isSystem": s.IsSystem,
	}
	if s.UpdatedAt != nil {
		resp["updatedAt"] = s.UpdatedAt.UTC().Format(time.RFC3339)
		resp["updatedBy"] = s.UpdatedBy
	}
	return resp
}
