package handler

import (
	"context"
	"net/http"

	"github.com/forgo/devcamper/api/internal/model"
	"github.com/forgo/devcamper/api/internal/query"
)

// UserService is the admin user-management surface used by UserHandler
type UserService interface {
	List(ctx context.Context, q *query.ListQuery) (*query.Page[model.User], error)
	Get(ctx context.Context, id string) (*model.User, error)
	Create(ctx context.Context, in model.UserInput) (*model.User, error)
	Update(ctx context.Context, id string, apply func(*model.UserInput) error) (*model.User, error)
	Delete(ctx context.Context, id string) error
}

// UserHandler serves /users. Every route is admin only.
type UserHandler struct {
	users UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterRoutes registers admin user routes on the mux
func (h *UserHandler) RegisterRoutes(mux *http.ServeMux, guard Guard) {
	mux.Handle(route("GET", "/users"), guard.Protect(h.List, model.RoleAdmin))
	mux.Handle(route("GET", "/users/{id}"), guard.Protect(h.Get, model.RoleAdmin))
	mux.Handle(route("POST", "/users"), guard.Protect(h.Create, model.RoleAdmin))
	mux.Handle(route("PUT", "/users/{id}"), guard.Protect(h.Update, model.RoleAdmin))
	mux.Handle(route("DELETE", "/users/{id}"), guard.Protect(h.Delete, model.RoleAdmin))
}

// List handles GET /api/v1/users
func (h *UserHandler) List(r *http.Request) (*Response, error) {
	q, err := query.Parse(r.URL.Query())
	if err != nil {
		return nil, err
	}
	page, err := h.users.List(r.Context(), q)
	if err != nil {
		return nil, err
	}
	return Paged(page, q.Select)
}

// Get handles GET /api/v1/users/{id}
func (h *UserHandler) Get(r *http.Request) (*Response, error) {
	user, err := h.users.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		return nil, err
	}
	return Data(http.StatusOK, user), nil
}

// Create handles POST /api/v1/users
func (h *UserHandler) Create(r *http.Request) (*Response, error) {
	var in model.UserInput
	if err := DecodeJSON(r, &in); err != nil {
		return nil, err
	}
	user, err := h.users.Create(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return Data(http.StatusCreated, user), nil
}

// Update handles PUT /api/v1/users/{id}
func (h *UserHandler) Update(r *http.Request) (*Response, error) {
	user, err := h.users.Update(r.Context(), r.PathValue("id"), decodeOnto[model.UserInput](r))
	if err != nil {
		return nil, err
	}
	return Data(http.StatusOK, user), nil
}

// Delete handles DELETE /api/v1/users/{id}
func (h *UserHandler) Delete(r *http.Request) (*Response, error) {
	if err := h.users.Delete(r.Context(), r.PathValue("id")); err != nil {
		return nil, err
	}
	return Empty(), nil
}
