package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/forgo/devcamper/api/internal/database"
	"github.com/forgo/devcamper/api/internal/model"
)

// ============================================================================
// Review Handler Tests
// ============================================================================

func TestReviewCreate_AsUser_Returns201(t *testing.T) {
	t.Parallel()

	svc := &mockReviewService{
		createFunc: func(ctx context.Context, p model.Principal, bootcampID string, in model.ReviewInput) (*model.Review, error) {
			if p.Role != model.RoleUser {
				t.Errorf("expected user principal, got %q", p.Role)
			}
			if in.Rating != 9 {
				t.Errorf("expected decoded rating, got %d", in.Rating)
			}
			return newTestReview(), nil
		},
	}
	mux := newTestMux(NewReviewHandler(svc))

	body := map[string]interface{}{"title": "Learned a ton", "text": "Great instructors", "rating": 9}
	rr := serve(mux, makeJSONRequest(http.MethodPost, "/api/v1/bootcamps/bootcamp:devworks/reviews", body, userToken))

	expectStatus(t, rr, http.StatusCreated)
}

func TestReviewCreate_AsPublisher_ReturnsForbidden(t *testing.T) {
	t.Parallel()

	mux := newTestMux(NewReviewHandler(&mockReviewService{}))

	rr := serve(mux, makeJSONRequest(http.MethodPost, "/api/v1/bootcamps/bootcamp:devworks/reviews", map[string]string{}, publisherToken))

	expectError(t, rr, http.StatusForbidden, "User role publisher is not authorized to access this route")
}

func TestReviewCreate_Duplicate_ReturnsBadRequest(t *testing.T) {
	t.Parallel()

	svc := &mockReviewService{
		createFunc: func(ctx context.Context, p model.Principal, bootcampID string, in model.ReviewInput) (*model.Review, error) {
			return nil, fmt.Errorf("%w: review_bootcamp_user", database.ErrDuplicate)
		},
	}
	mux := newTestMux(NewReviewHandler(svc))

	rr := serve(mux, makeJSONRequest(http.MethodPost, "/api/v1/bootcamps/bootcamp:devworks/reviews", map[string]int{"rating": 3}, userToken))

	expectError(t, rr, http.StatusBadRequest, "Duplicate field entered")
}

func TestReviewUpdate_ReturnsReview(t *testing.T) {
	t.Parallel()

	svc := &mockReviewService{
		updateFunc: func(ctx context.Context, p model.Principal, id string, apply func(*model.ReviewInput) error) (*model.Review, error) {
			r := newTestReview()
			in := model.ReviewInput{Title: r.Title, Text: r.Text, Rating: r.Rating}
			if err := apply(&in); err != nil {
				return nil, err
			}
			r.Rating = in.Rating
			return r, nil
		},
	}
	mux := newTestMux(NewReviewHandler(svc))

	rr := serve(mux, makeJSONRequest(http.MethodPut, "/api/v1/reviews/review:1", map[string]int{"rating": 4}, userToken))

	expectStatus(t, rr, http.StatusOK)
	var got model.Review
	if err := json.Unmarshal(decode(t, rr).Data, &got); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if got.ID != "review:1" || got.Rating != 4 {
		t.Errorf("expected the updated review, got %+v", got)
	}
}

func TestReviewListByBootcamp_ReturnsCount(t *testing.T) {
	t.Parallel()

	svc := &mockReviewService{
		listByBootcampFunc: func(ctx context.Context, bootcampID string) ([]*model.Review, error) {
			return []*model.Review{newTestReview()}, nil
		},
	}
	mux := newTestMux(NewReviewHandler(svc))

	rr := serve(mux, makeJSONRequest(http.MethodGet, "/api/v1/bootcamps/bootcamp:devworks/reviews", nil, ""))

	expectStatus(t, rr, http.StatusOK)
	if env := decode(t, rr); env.Count != 1 {
		t.Errorf("expected count 1, got %d", env.Count)
	}
}

func TestReviewDelete_AsAdmin_Succeeds(t *testing.T) {
	t.Parallel()

	svc := &mockReviewService{
		deleteFunc: func(ctx context.Context, p model.Principal, id string) error {
			if !p.IsAdmin() {
				t.Error("expected admin principal")
			}
			return nil
		},
	}
	mux := newTestMux(NewReviewHandler(svc))

	rr := serve(mux, makeJSONRequest(http.MethodDelete, "/api/v1/reviews/review:1", nil, adminToken))

	expectStatus(t, rr, http.StatusOK)
}
