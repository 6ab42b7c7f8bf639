package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/forgo/devcamper/api/internal/middleware"
	"github.com/forgo/devcamper/api/internal/model"
	"github.com/forgo/devcamper/api/internal/query"
	"github.com/forgo/devcamper/api/internal/service"
)

// ============================================================================
// Mock services
// ============================================================================

type mockBootcampService struct {
	listFunc   func(ctx context.Context, q *query.ListQuery) (*query.Page[model.Bootcamp], error)
	getFunc    func(ctx context.Context, id string) (*model.Bootcamp, error)
	createFunc func(ctx context.Context, p model.Principal, in model.BootcampInput) (*model.Bootcamp, error)
	updateFunc func(ctx context.Context, p model.Principal, id string, apply func(*model.BootcampInput) error) (*model.Bootcamp, error)
	deleteFunc func(ctx context.Context, p model.Principal, id string) error
}

func (m *mockBootcampService) List(ctx context.Context, q *query.ListQuery) (*query.Page[model.Bootcamp], error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, q)
	}
	return &query.Page[model.Bootcamp]{}, nil
}

func (m *mockBootcampService) Get(ctx context.Context, id string) (*model.Bootcamp, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockBootcampService) Create(ctx context.Context, p model.Principal, in model.BootcampInput) (*model.Bootcamp, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, p, in)
	}
	return nil, nil
}

func (m *mockBootcampService) Update(ctx context.Context, p model.Principal, id string, apply func(*model.BootcampInput) error) (*model.Bootcamp, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, p, id, apply)
	}
	return nil, nil
}

func (m *mockBootcampService) Delete(ctx context.Context, p model.Principal, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, p, id)
	}
	return nil
}

type mockCourseService struct {
	listFunc           func(ctx context.Context, q *query.ListQuery) (*query.Page[model.Course], error)
	listByBootcampFunc func(ctx context.Context, bootcampID string) ([]*model.Course, error)
	getFunc            func(ctx context.Context, id string) (*model.Course, error)
	createFunc         func(ctx context.Context, p model.Principal, bootcampID string, in model.CourseInput) (*model.Course, error)
	updateFunc         func(ctx context.Context, p model.Principal, id string, apply func(*model.CourseInput) error) (*model.Course, error)
	deleteFunc         func(ctx context.Context, p model.Principal, id string) error
}

func (m *mockCourseService) List(ctx context.Context, q *query.ListQuery) (*query.Page[model.Course], error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, q)
	}
	return &query.Page[model.Course]{}, nil
}

func (m *mockCourseService) ListByBootcamp(ctx context.Context, bootcampID string) ([]*model.Course, error) {
	if m.listByBootcampFunc != nil {
		return m.listByBootcampFunc(ctx, bootcampID)
	}
	return nil, nil
}

func (m *mockCourseService) Get(ctx context.Context, id string) (*model.Course, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockCourseService) Create(ctx context.Context, p model.Principal, bootcampID string, in model.CourseInput) (*model.Course, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, p, bootcampID, in)
	}
	return nil, nil
}

func (m *mockCourseService) Update(ctx context.Context, p model.Principal, id string, apply func(*model.CourseInput) error) (*model.Course, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, p, id, apply)
	}
	return nil, nil
}

func (m *mockCourseService) Delete(ctx context.Context, p model.Principal, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, p, id)
	}
	return nil
}

type mockReviewService struct {
	listFunc           func(ctx context.Context, q *query.ListQuery) (*query.Page[model.Review], error)
	listByBootcampFunc func(ctx context.Context, bootcampID string) ([]*model.Review, error)
	getFunc            func(ctx context.Context, id string) (*model.Review, error)
	createFunc         func(ctx context.Context, p model.Principal, bootcampID string, in model.ReviewInput) (*model.Review, error)
	updateFunc         func(ctx context.Context, p model.Principal, id string, apply func(*model.ReviewInput) error) (*model.Review, error)
	deleteFunc         func(ctx context.Context, p model.Principal, id string) error
}

func (m *mockReviewService) List(ctx context.Context, q *query.ListQuery) (*query.Page[model.Review], error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, q)
	}
	return &query.Page[model.Review]{}, nil
}

func (m *mockReviewService) ListByBootcamp(ctx context.Context, bootcampID string) ([]*model.Review, error) {
	if m.listByBootcampFunc != nil {
		return m.listByBootcampFunc(ctx, bootcampID)
	}
	return nil, nil
}

func (m *mockReviewService) Get(ctx context.Context, id string) (*model.Review, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockReviewService) Create(ctx context.Context, p model.Principal, bootcampID string, in model.ReviewInput) (*model.Review, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, p, bootcampID, in)
	}
	return nil, nil
}

func (m *mockReviewService) Update(ctx context.Context, p model.Principal, id string, apply func(*model.ReviewInput) error) (*model.Review, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, p, id, apply)
	}
	return nil, nil
}

func (m *mockReviewService) Delete(ctx context.Context, p model.Principal, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, p, id)
	}
	return nil
}

type mockAuthService struct {
	registerFunc       func(ctx context.Context, req model.RegisterRequest) (*service.AuthResult, error)
	loginFunc          func(ctx context.Context, req model.LoginRequest) (*service.AuthResult, error)
	meFunc             func(ctx context.Context, p model.Principal) (*model.User, error)
	updateDetailsFunc  func(ctx context.Context, p model.Principal, req model.UpdateDetailsRequest) (*model.User, error)
	updatePasswordFunc func(ctx context.Context, p model.Principal, req model.UpdatePasswordRequest) (*service.AuthResult, error)
	logoutFunc         func(ctx context.Context, p model.Principal) error
}

func (m *mockAuthService) Register(ctx context.Context, req model.RegisterRequest) (*service.AuthResult, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, req)
	}
	return nil, nil
}

func (m *mockAuthService) Login(ctx context.Context, req model.LoginRequest) (*service.AuthResult, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, req)
	}
	return nil, nil
}

func (m *mockAuthService) Me(ctx context.Context, p model.Principal) (*model.User, error) {
	if m.meFunc != nil {
		return m.meFunc(ctx, p)
	}
	return nil, nil
}

func (m *mockAuthService) UpdateDetails(ctx context.Context, p model.Principal, req model.UpdateDetailsRequest) (*model.User, error) {
	if m.updateDetailsFunc != nil {
		return m.updateDetailsFunc(ctx, p, req)
	}
	return nil, nil
}

func (m *mockAuthService) UpdatePassword(ctx context.Context, p model.Principal, req model.UpdatePasswordRequest) (*service.AuthResult, error) {
	if m.updatePasswordFunc != nil {
		return m.updatePasswordFunc(ctx, p, req)
	}
	return nil, nil
}

func (m *mockAuthService) Logout(ctx context.Context, p model.Principal) error {
	if m.logoutFunc != nil {
		return m.logoutFunc(ctx, p)
	}
	return nil
}

type mockUserService struct {
	listFunc   func(ctx context.Context, q *query.ListQuery) (*query.Page[model.User], error)
	getFunc    func(ctx context.Context, id string) (*model.User, error)
	createFunc func(ctx context.Context, in model.UserInput) (*model.User, error)
	updateFunc func(ctx context.Context, id string, apply func(*model.UserInput) error) (*model.User, error)
	deleteFunc func(ctx context.Context, id string) error
}

func (m *mockUserService) List(ctx context.Context, q *query.ListQuery) (*query.Page[model.User], error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, q)
	}
	return &query.Page[model.User]{}, nil
}

func (m *mockUserService) Get(ctx context.Context, id string) (*model.User, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockUserService) Create(ctx context.Context, in model.UserInput) (*model.User, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, in)
	}
	return nil, nil
}

func (m *mockUserService) Update(ctx context.Context, id string, apply func(*model.UserInput) error) (*model.User, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, apply)
	}
	return nil, nil
}

func (m *mockUserService) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// ============================================================================
// Authentication stub
// ============================================================================

// tokenAuthenticator maps bearer tokens to principals
type tokenAuthenticator map[string]model.Principal

func (a tokenAuthenticator) Authenticate(ctx context.Context, token string) (model.Principal, error) {
	p, ok := a[token]
	if !ok {
		return model.Principal{}, model.NewUnauthorizedError("Not authorized to access this route")
	}
	return p, nil
}

const (
	publisherToken = "publisher-token"
	userToken      = "user-token"
	adminToken     = "admin-token"
)

var testPrincipals = tokenAuthenticator{
	publisherToken: {ID: "user:publisher", Role: model.RolePublisher, TokenID: "jti-publisher", ExpiresAt: time.Now().Add(time.Hour)},
	userToken:      {ID: "user:reader", Role: model.RoleUser, TokenID: "jti-reader"},
	adminToken:     {ID: "user:admin", Role: model.RoleAdmin, TokenID: "jti-admin"},
}

func testGuard() Guard {
	return Guard{Auth: middleware.Auth(testPrincipals)}
}

// routeRegistrar is satisfied by every resource handler
type routeRegistrar interface {
	RegisterRoutes(mux *http.ServeMux, guard Guard)
}

func newTestMux(h routeRegistrar) *http.ServeMux {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux, testGuard())
	return mux
}

// ============================================================================
// Request helpers
// ============================================================================

func makeJSONRequest(method, path string, body interface{}, token string) *http.Request {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// envelope is a loose view of any response body
type envelope struct {
	Success    bool              `json:"success"`
	Error      string            `json:"error"`
	Errors     []string          `json:"errors"`
	Count      int               `json:"count"`
	Token      string            `json:"token"`
	Pagination *query.Pagination `json:"pagination"`
	Data       json.RawMessage   `json:"data"`
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response %q: %v", rr.Body.String(), err)
	}
	return env
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("expected status %d, got %d (body %s)", want, rr.Code, strings.TrimSpace(rr.Body.String()))
	}
}

func expectError(t *testing.T, rr *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	expectStatus(t, rr, status)
	env := decode(t, rr)
	if env.Success {
		t.Error("expected success=false")
	}
	if env.Error != message {
		t.Errorf("expected error %q, got %q", message, env.Error)
	}
}

var errBoom = errors.New("boom")

func newTestBootcamp() *model.Bootcamp {
	return &model.Bootcamp{
		ID:          "bootcamp:devworks",
		Name:        "Devworks Bootcamp",
		Slug:        "devworks-bootcamp",
		Description: "Full stack web development",
		Address:     "233 Bay State Rd Boston MA 02215",
		Careers:     []string{"Web Development", "UI/UX"},
		Photo:       model.DefaultPhoto,
		User:        "user:publisher",
		CreatedAt:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func newTestCourse() *model.Course {
	return &model.Course{
		ID:           "course:frontend",
		Title:        "Front End Web Development",
		Description:  "HTML, CSS and JavaScript",
		Weeks:        8,
		Tuition:      8000,
		MinimumSkill: "beginner",
		Bootcamp:     model.BootcampRef{ID: "bootcamp:devworks", Name: "Devworks Bootcamp"},
		User:         "user:publisher",
	}
}

func newTestReview() *model.Review {
	return &model.Review{
		ID:       "review:1",
		Title:    "Learned a ton",
		Text:     "Great instructors",
		Rating:   9,
		Bootcamp: model.BootcampRef{ID: "bootcamp:devworks"},
		User:     "user:reader",
	}
}

func newTestUser() *model.User {
	return &model.User{
		ID:    "user:reader",
		Name:  "Reader",
		Email: "reader@example.com",
		Role:  model.RoleUser,
	}
}
