package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/danielgibran18tj/FacturacionBG/internal/repository"
	"github.com/go-chi/chi/v5"
)

type AuditLogHandler struct {
	Repo repository.AuditLogRepository
}

func (h AuditLogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/audit-log", h.list)
}

func (h AuditLogHandler) list(w http.ResponseWriter, r *http.Request) {
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

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 1000 {
		limit = 200
	}

	entries, err := h.Repo.List(r.Context(), startDate, endDate, limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, map[string]any{
			"id":        e.ID,
			"entity":    e.Entity,
			"entityId":  e.EntityID,
			"action":    e.Action,
			"actor":     e.Actor,
			"detail":    e.Detail,
			"createdAt": e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
