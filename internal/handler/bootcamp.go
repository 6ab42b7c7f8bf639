package handler

import (
	"context"
	"net/http"

	"github.com/forgo/devcamper/api/internal/model"
	"github.com/forgo/devcamper/api/internal/query"
)

// BootcampService is the business surface used by BootcampHandler
type BootcampService interface {
	List(ctx context.Context, q *query.ListQuery) (*query.Page[model.Bootcamp], error)
	Get(ctx context.Context, id string) (*model.Bootcamp, error)
	Create(ctx context.Context, p model.Principal, in model.BootcampInput) (*model.Bootcamp, error)
	Update(ctx context.Context, p model.Principal, id string, apply func(*model.BootcampInput) error) (*model.Bootcamp, error)
	Delete(ctx context.Context, p model.Principal, id string) error
}

// BootcampHandler serves /bootcamps
type BootcampHandler struct {
	bootcamps BootcampService
}

// NewBootcampHandler creates a new bootcamp handler
func NewBootcampHandler(bootcamps BootcampService) *BootcampHandler {
	return &BootcampHandler{bootcamps: bootcamps}
}

// RegisterRoutes registers bootcamp routes on the mux
func (h *BootcampHandler) RegisterRoutes(mux *http.ServeMux, guard Guard) {
	mux.Handle(route("GET", "/bootcamps"), Endpoint(h.List))
	mux.Handle(route("GET", "/bootcamps/{id}"), Endpoint(h.Get))
	mux.Handle(route("POST", "/bootcamps"), guard.Protect(h.Create, model.RolePublisher, model.RoleAdmin))
	mux.Handle(route("PUT", "/bootcamps/{id}"), guard.Protect(h.Update, model.RolePublisher, model.RoleAdmin))
	mux.Handle(route("DELETE", "/bootcamps/{id}"), guard.Protect(h.Delete, model.RolePublisher, model.RoleAdmin))
}

// List handles GET /api/v1/bootcamps
func (h *BootcampHandler) List(r *http.Request) (*Response, error) {
	q, err := query.Parse(r.URL.Query())
	if err != nil {
		return nil, err
	}
	page, err := h.bootcamps.List(r.Context(), q)
	if err != nil {
		return nil, err
	}
	return Paged(page, q.Select, "courses")
}

// Get handles GET /api/v1/bootcamps/{id}
func (h *BootcampHandler) Get(r *http.Request) (*Response, error) {
	bootcamp, err := h.bootcamps.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		return nil, err
	}
	return Data(http.StatusOK, bootcamp), nil
}

// Create handles POST /api/v1/bootcamps
func (h *BootcampHandler) Create(r *http.Request) (*Response, error) {
	p, err := principal(r)
	if err != nil {
		return nil, err
	}
	var in model.BootcampInput
	if err := DecodeJSON(r, &in); err != nil {
		return nil, err
	}
	bootcamp, err := h.bootcamps.Create(r.Context(), p, in)
	if err != nil {
		return nil, err
	}
	return Data(http.StatusCreated, bootcamp), nil
}

// Update handles PUT /api/v1/bootcamps/{id}
func (h *BootcampHandler) Update(r *http.Request) (*Response, error) {
	p, err := principal(r)
	if err != nil {
		return nil, err
	}
	bootcamp, err := h.bootcamps.Update(r.Context(), p, r.PathValue("id"), decodeOnto[model.BootcampInput](r))
	if err != nil {
		return nil, err
	}
	return Data(http.StatusOK, bootcamp), nil
}

// Delete handles DELETE /api/v1/bootcamps/{id}
func (h *BootcampHandler) Delete(r *http.Request) (*Response, error) {
	p, err := principal(r)
	if err != nil {
		return nil, err
	}
	if err := h.bootcamps.Delete(r.Context(), p, r.PathValue("id")); err != nil {
		return nil, err
	}
	return Empty(), nil
}
