package service

import (
	"context"
	"fmt"

	"github.com/forgo/devcamper/api/internal/model"
	"github.com/forgo/devcamper/api/internal/query"
)

// BootcampRepository defines the interface for bootcamp storage
type BootcampRepository interface {
	Create(ctx context.Context, b *model.Bootcamp) error
	GetByID(ctx context.Context, id string) (*model.Bootcamp, error)
	CountByOwner(ctx context.Context, userID string) (int, error)
	Update(ctx context.Context, b *model.Bootcamp) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q *query.ListQuery) (*query.Page[model.Bootcamp], error)
}

// BootcampService handles bootcamp business logic
type BootcampService struct {
	bootcampRepo BootcampRepository
}

// BootcampServiceConfig holds configuration for the bootcamp service
type BootcampServiceConfig struct {
	BootcampRepo BootcampRepository
}

// NewBootcampService creates a new bootcamp service
func NewBootcampService(cfg BootcampServiceConfig) *BootcampService {
	return &BootcampService{
		bootcampRepo: cfg.BootcampRepo,
	}
}

// List returns one page of bootcamps with their courses
func (s *BootcampService) List(ctx context.Context, q *query.ListQuery) (*query.Page[model.Bootcamp], error) {
	return s.bootcampRepo.List(ctx, q)
}

// Get returns a single bootcamp with its courses
func (s *BootcampService) Get(ctx context.Context, rawID string) (*model.Bootcamp, error) {
	id, err := model.ParseRecordID(model.TableBootcamp, rawID)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

// Create publishes a bootcamp owned by the principal. Non-admins may own at
// most one bootcamp.
func (s *BootcampService) Create(ctx context.Context, p model.Principal, in model.BootcampInput) (*model.Bootcamp, error) {
	if !p.IsAdmin() {
		count, err := s.bootcampRepo.CountByOwner(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, model.NewBadRequestError(fmt.Sprintf("The user with ID %s has already published a bootcamp", p.ID))
		}
	}

	if err := model.Validate(&in); err != nil {
		return nil, err
	}

	bootcamp := &model.Bootcamp{User: p.ID}
	bootcamp.Apply(in)

	if err := s.bootcampRepo.Create(ctx, bootcamp); err != nil {
		return nil, err
	}
	return bootcamp, nil
}

// Update applies a partial update to a bootcamp the principal owns
func (s *BootcampService) Update(ctx context.Context, p model.Principal, rawID string, apply func(*model.BootcampInput) error) (*model.Bootcamp, error) {
	id, err := model.ParseRecordID(model.TableBootcamp, rawID)
	if err != nil {
		return nil, err
	}

	bootcamp, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(p, bootcamp.User, "update", "bootcamp", id); err != nil {
		return nil, err
	}

	in := bootcamp.Input()
	if err := apply(&in); err != nil {
		return nil, err
	}
	if err := model.Validate(&in); err != nil {
		return nil, err
	}

	bootcamp.Apply(in)
	if err := s.bootcampRepo.Update(ctx, bootcamp); err != nil {
		return nil, err
	}
	return bootcamp, nil
}

// Delete removes a bootcamp the principal owns, along with its courses and reviews
func (s *BootcampService) Delete(ctx context.Context, p model.Principal, rawID string) error {
	id, err := model.ParseRecordID(model.TableBootcamp, rawID)
	if err != nil {
		return err
	}

	bootcamp, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizeOwner(p, bootcamp.User, "delete", "bootcamp", id); err != nil {
		return err
	}

	return s.bootcampRepo.Delete(ctx, id)
}

func (s *BootcampService) load(ctx context.Context, id string) (*model.Bootcamp, error) {
	bootcamp, err := s.bootcampRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bootcamp == nil {
		return nil, notFound("Bootcamp", id)
	}
	return bootcamp, nil
}
