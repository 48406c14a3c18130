package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/danielgibran18tj/FacturacionBG/internal/domain"
	"github.com/danielgibran18tj/FacturacionBG/internal/repository"
	"github.com/danielgibran18tj/FacturacionBG/internal/service"
	"github.com/go-chi/chi/v5"
)

// UsersHandler is the administrator's user management surface. Account
// creation goes through the auth service so password hashing and
// duplicate checks stay in one place.
type UsersHandler struct {
	Auth *service.AuthService
	Repo repository.UserRepository
}

func (h UsersHandler) RegisterRoutes(r chi.Router) {
	r.Get("/users", h.list)
	r.Get("/users/paged", h.paged)
	r.Get("/users/{id}", h.get)
	r.Post("/users", h.create)
	r.Put("/users/{id}", h.update)
}

func (h UsersHandler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.Repo.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(users))
	for i := range users {
		resp = append(resp, toUserResponse(&users[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h UsersHandler) paged(w http.ResponseWriter, r *http.Request) {
	page, pageSize := parsePageQuery(r)
	result, err := h.Repo.Paged(r.Context(), page, pageSize, r.URL.Query().Get("search"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toPagedResponse(result, toUserResponse))
}

func (h UsersHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	u, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}

func (h UsersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username  string   `json:"username" validate:"required,min=3,max=50"`
		Email     string   `json:"email" validate:"required,email"`
		Password  string   `json:"password" validate:"required,min=8"`
		FirstName *string  `json:"firstName"`
		LastName  *string  `json:"lastName"`
		Roles     []string `json:"roles" validate:"required,min=1"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeDomainError(w, err)
		return
	}

	roles := make([]domain.RoleName, 0, len(req.Roles))
	for _, role := range req.Roles {
		roles = append(roles, domain.RoleName(role))
	}
	user, err := h.Auth.Register(r.Context(), service.RegisterInput{
		Username:  req.Username,
		Email:     strings.ToLower(req.Email),
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Roles:     roles,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (h UsersHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	var req struct {
		Username  string   `json:"username" validate:"required,min=3,max=50"`
		Email     string   `json:"email" validate:"required,email"`
		FirstName *string  `json:"firstName"`
		LastName  *string  `json:"lastName"`
		IsActive  *bool    `json:"isActive"`
		Roles     []string `json:"roles"`
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
	var roles []domain.RoleName
	if req.Roles != nil {
		roles = make([]domain.RoleName, 0, len(req.Roles))
		for _, role := range req.Roles {
			roles = append(roles, domain.RoleName(role))
		}
	}

	u, err := h.Repo.Update(r.Context(), domain.User{
		ID:        id,
		Username:  req.Username,
		Email:     strings.ToLower(req.Email),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		IsActive:  isActive,
		Roles:     roles,
	})
	if err != nil {
		if repository.IsDuplicate(err) {
			writeDomainError(w, domain.NewConflict("user", "username", req.Username))
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(u))
}
