package service

import (
	"context"
	"log/slog"

	"github.com/forgo/devcamper/api/internal/model"
	"github.com/forgo/devcamper/api/internal/query"
)

// ReviewRepository defines the interface for review storage
type ReviewRepository interface {
	Create(ctx context.Context, r *model.Review) error
	GetByID(ctx context.Context, id string) (*model.Review, error)
	ListByBootcamp(ctx context.Context, bootcampID string) ([]*model.Review, error)
	Update(ctx context.Context, r *model.Review) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q *query.ListQuery) (*query.Page[model.Review], error)
	RecalculateAverageRating(ctx context.Context, bootcampID string) error
}

// ReviewService handles review business logic
type ReviewService struct {
	reviewRepo   ReviewRepository
	bootcampRepo BootcampReader
}

// ReviewServiceConfig holds configuration for the review service
type ReviewServiceConfig struct {
	ReviewRepo   ReviewRepository
	BootcampRepo BootcampReader
}

// NewReviewService creates a new review service
func NewReviewService(cfg ReviewServiceConfig) *ReviewService {
	return &ReviewService{
		reviewRepo:   cfg.ReviewRepo,
		bootcampRepo: cfg.BootcampRepo,
	}
}

// List returns one page of reviews
func (s *ReviewService) List(ctx context.Context, q *query.ListQuery) (*query.Page[model.Review], error) {
	return s.reviewRepo.List(ctx, q)
}

// ListByBootcamp returns every review of an existing bootcamp
func (s *ReviewService) ListByBootcamp(ctx context.Context, rawBootcampID string) ([]*model.Review, error) {
	bootcamp, err := loadBootcamp(ctx, s.bootcampRepo, rawBootcampID)
	if err != nil {
		return nil, err
	}
	return s.reviewRepo.ListByBootcamp(ctx, bootcamp.ID)
}

// Get returns a review with its bootcamp summary
func (s *ReviewService) Get(ctx context.Context, rawID string) (*model.Review, error) {
	id, err := model.ParseRecordID(model.TableReview, rawID)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

// Create reviews an existing bootcamp. A second review of the same bootcamp
// by the same user is rejected by the storage index.
func (s *ReviewService) Create(ctx context.Context, p model.Principal, rawBootcampID string, in model.ReviewInput) (*model.Review, error) {
	bootcamp, err := loadBootcamp(ctx, s.bootcampRepo, rawBootcampID)
	if err != nil {
		return nil, err
	}

	if err := model.Validate(&in); err != nil {
		return nil, err
	}

	review := &model.Review{
		Bootcamp: model.BootcampRef{ID: bootcamp.ID},
		User:     p.ID,
	}
	review.Apply(in)

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	s.recalculate(ctx, bootcamp.ID)
	return review, nil
}

// Update applies a partial update to a review the principal wrote
func (s *ReviewService) Update(ctx context.Context, p model.Principal, rawID string, apply func(*model.ReviewInput) error) (*model.Review, error) {
	id, err := model.ParseRecordID(model.TableReview, rawID)
	if err != nil {
		return nil, err
	}

	review, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(p, review.User, "update", "review", id); err != nil {
		return nil, err
	}

	in := review.Input()
	if err := apply(&in); err != nil {
		return nil, err
	}
	if err := model.Validate(&in); err != nil {
		return nil, err
	}

	bootcampID := review.Bootcamp.ID
	review.Apply(in)
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	s.recalculate(ctx, bootcampID)
	return review, nil
}

// Delete removes a review the principal wrote
func (s *ReviewService) Delete(ctx context.Context, p model.Principal, rawID string) error {
	id, err := model.ParseRecordID(model.TableReview, rawID)
	if err != nil {
		return err
	}

	review, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizeOwner(p, review.User, "delete", "review", id); err != nil {
		return err
	}

	if err := s.reviewRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.recalculate(ctx, review.Bootcamp.ID)
	return nil
}

func (s *ReviewService) load(ctx context.Context, id string) (*model.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if review == nil {
		return nil, notFound("Review", id)
	}
	return review, nil
}

func (s *ReviewService) recalculate(ctx context.Context, bootcampID string) {
	if err := s.reviewRepo.RecalculateAverageRating(ctx, bootcampID); err != nil {
		slog.Warn("failed to recalculate average rating",
			slog.String("bootcamp_id", bootcampID),
			slog.String("error", err.Error()))
	}
}
