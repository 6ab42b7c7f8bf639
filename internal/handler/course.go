package handler

import (
	"context"
	"net/http"

	"github.com/forgo/devcamper/api/internal/model"
	"github.com/forgo/devcamper/api/internal/query"
)

// CourseService is the business surface used by CourseHandler
type CourseService interface {
	List(ctx context.Context, q *query.ListQuery) (*query.Page[model.Course], error)
	ListByBootcamp(ctx context.Context, bootcampID string) ([]*model.Course, error)
	Get(ctx context.Context, id string) (*model.Course, error)
	Create(ctx context.Context, p model.Principal, bootcampID string, in model.CourseInput) (*model.Course, error)
	Update(ctx context.Context, p model.Principal, id string, apply func(*model.CourseInput) error) (*model.Course, error)
	Delete(ctx context.Context, p model.Principal, id string) error
}

// CourseHandler serves /courses and the nested /bootcamps/{bootcampId}/courses
type CourseHandler struct {
	courses CourseService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courses CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// RegisterRoutes registers course routes on the mux
func (h *CourseHandler) RegisterRoutes(mux *http.ServeMux, guard Guard) {
	mux.Handle(route("GET", "/courses"), Endpoint(h.List))
	mux.Handle(route("GET", "/courses/{id}"), Endpoint(h.Get))
	mux.Handle(route("GET", "/bootcamps/{bootcampId}/courses"), Endpoint(h.ListByBootcamp))
	mux.Handle(route("POST", "/bootcamps/{bootcampId}/courses"), guard.Protect(h.Create, model.RolePublisher, model.RoleAdmin))
	mux.Handle(route("PUT", "/courses/{id}"), guard.Protect(h.Update, model.RolePublisher, model.RoleAdmin))
	mux.Handle(route("DELETE", "/courses/{id}"), guard.Protect(h.Delete, model.RolePublisher, model.RoleAdmin))
}

// List handles GET /api/v1/courses
func (h *CourseHandler) List(r *http.Request) (*Response, error) {
	q, err := query.Parse(r.URL.Query())
	if err != nil {
		return nil, err
	}
	page, err := h.courses.List(r.Context(), q)
	if err != nil {
		return nil, err
	}
	return Paged(page, q.Select, "bootcamp")
}

// ListByBootcamp handles GET /api/v1/bootcamps/{bootcampId}/courses
func (h *CourseHandler) ListByBootcamp(r *http.Request) (*Response, error) {
	courses, err := h.courses.ListByBootcamp(r.Context(), r.PathValue("bootcampId"))
	if err != nil {
		return nil, err
	}
	return Collection(courses, len(courses)), nil
}

// Get handles GET /api/v1/courses/{id}
func (h *CourseHandler) Get(r *http.Request) (*Response, error) {
	course, err := h.courses.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		return nil, err
	}
	return Data(http.StatusOK, course), nil
}

// Create handles POST /api/v1/bootcamps/{bootcampId}/courses
func (h *CourseHandler) Create(r *http.Request) (*Response, error) {
	p, err := principal(r)
	if err != nil {
		return nil, err
	}
	var in model.CourseInput
	if err := DecodeJSON(r, &in); err != nil {
		return nil, err
	}
	course, err := h.courses.Create(r.Context(), p, r.PathValue("bootcampId"), in)
	if err != nil {
		return nil, err
	}
	return Data(http.StatusCreated, course), nil
}

// Update handles PUT /api/v1/courses/{id}
func (h *CourseHandler) Update(r *http.Request) (*Response, error) {
	p, err := principal(r)
	if err != nil {
		return nil, err
	}
	course, err := h.courses.Update(r.Context(), p, r.PathValue("id"), decodeOnto[model.CourseInput](r))
	if err != nil {
		return nil, err
	}
	return Data(http.StatusOK, course), nil
}

// Delete handles DELETE /api/v1/courses/{id}
func (h *CourseHandler) Delete(r *http.Request) (*Response, error) {
	p, err := principal(r)
	if err != nil {
		return nil, err
	}
	if err := h.courses.Delete(r.Context(), p, r.PathValue("id")); err != nil {
		return nil, err
	}
	return Empty(), nil
}
