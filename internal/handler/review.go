package handler

import (
	"context"
	"net/http"

	"github.com/forgo/devcamper/api/internal/model"
	"github.com/forgo/devcamper/api/internal/query"
)

// ReviewService is the business surface used by ReviewHandler
type ReviewService interface {
	List(ctx context.Context, q *query.ListQuery) (*query.Page[model.Review], error)
	ListByBootcamp(ctx context.Context, bootcampID string) ([]*model.Review, error)
	Get(ctx context.Context, id string) (*model.Review, error)
	Create(ctx context.Context, p model.Principal, bootcampID string, in model.ReviewInput) (*model.Review, error)
	Update(ctx context.Context, p model.Principal, id string, apply func(*model.ReviewInput) error) (*model.Review, error)
	Delete(ctx context.Context, p model.Principal, id string) error
}

// ReviewHandler serves /reviews and the nested /bootcamps/{bootcampId}/reviews
type ReviewHandler struct {
	reviews ReviewService
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviews ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

// RegisterRoutes registers review routes on the mux
func (h *ReviewHandler) RegisterRoutes(mux *http.ServeMux, guard Guard) {
	mux.Handle(route("GET", "/reviews"), Endpoint(h.List))
	mux.Handle(route("GET", "/reviews/{id}"), Endpoint(h.Get))
	mux.Handle(route("GET", "/bootcamps/{bootcampId}/reviews"), Endpoint(h.ListByBootcamp))
	mux.Handle(route("POST", "/bootcamps/{bootcampId}/reviews"), guard.Protect(h.Create, model.RoleUser, model.RoleAdmin))
	mux.Handle(route("PUT", "/reviews/{id}"), guard.Protect(h.Update, model.RoleUser, model.RoleAdmin))
	mux.Handle(route("DELETE", "/reviews/{id}"), guard.Protect(h.Delete, model.RoleUser, model.RoleAdmin))
}

// List handles GET /api/v1/reviews
func (h *ReviewHandler) List(r *http.Request) (*Response, error) {
	q, err := query.Parse(r.URL.Query())
	if err != nil {
		return nil, err
	}
	page, err := h.reviews.List(r.Context(), q)
	if err != nil {
		return nil, err
	}
	return Paged(page, q.Select, "bootcamp")
}

// ListByBootcamp handles GET /api/v1/bootcamps/{bootcampId}/reviews
func (h *ReviewHandler) ListByBootcamp(r *http.Request) (*Response, error) {
	reviews, err := h.reviews.ListByBootcamp(r.Context(), r.PathValue("bootcampId"))
	if err != nil {
		return nil, err
	}
	return Collection(reviews, len(reviews)), nil
}

// Get handles GET /api/v1/reviews/{id}
func (h *ReviewHandler) Get(r *http.Request) (*Response, error) {
	review, err := h.reviews.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		return nil, err
	}
	return Data(http.StatusOK, review), nil
}

// Create handles POST /api/v1/bootcamps/{bootcampId}/reviews
func (h *ReviewHandler) Create(r *http.Request) (*Response, error) {
	p, err := principal(r)
	if err != nil {
		return nil, err
	}
	var in model.ReviewInput
	if err := DecodeJSON(r, &in); err != nil {
		return nil, err
	}
	review, err := h.reviews.Create(r.Context(), p, r.PathValue("bootcampId"), in)
	if err != nil {
		return nil, err
	}
	return Data(http.StatusCreated, review), nil
}

// Update handles PUT /api/v1/reviews/{id}. The response carries the
// updated review.
func (h *ReviewHandler) Update(r *http.Request) (*Response, error) {
	p, err := principal(r)
	if err != nil {
		return nil, err
	}
	review, err := h.reviews.Update(r.Context(), p, r.PathValue("id"), decodeOnto[model.ReviewInput](r))
	if err != nil {
		return nil, err
	}
	return Data(http.StatusOK, review), nil
}

// Delete handles DELETE /api/v1/reviews/{id}
func (h *ReviewHandler) Delete(r *http.Request) (*Response, error) {
	p, err := principal(r)
	if err != nil {
		return nil, err
	}
	if err := h.reviews.Delete(r.Context(), p, r.PathValue("id")); err != nil {
		return nil, err
	}
	return Empty(), nil
}
