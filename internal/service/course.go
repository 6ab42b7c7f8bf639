package service

import (
	"context"
	"log/slog"

	"github.com/forgo/devcamper/api/internal/model"
	"github.com/forgo/devcamper/api/internal/query"
)

// BootcampReader is the parent lookup nested resources need
type BootcampReader interface {
	GetByID(ctx context.Context, id string) (*model.Bootcamp, error)
}

// CourseRepository defines the interface for course storage
type CourseRepository interface {
	Create(ctx context.Context, c *model.Course) error
	GetByID(ctx context.Context, id string) (*model.Course, error)
	ListByBootcamp(ctx context.Context, bootcampID string) ([]*model.Course, error)
	Update(ctx context.Context, c *model.Course) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q *query.ListQuery) (*query.Page[model.Course], error)
	RecalculateAverageCost(ctx context.Context, bootcampID string) error
}

// CourseService handles course business logic
type CourseService struct {
	courseRepo   CourseRepository
	bootcampRepo BootcampReader
}

// CourseServiceConfig holds configuration for the course service
type CourseServiceConfig struct {
	CourseRepo   CourseRepository
	BootcampRepo BootcampReader
}

// NewCourseService creates a new course service
func NewCourseService(cfg CourseServiceConfig) *CourseService {
	return &CourseService{
		courseRepo:   cfg.CourseRepo,
		bootcampRepo: cfg.BootcampRepo,
	}
}

// List returns one page of courses
func (s *CourseService) List(ctx context.Context, q *query.ListQuery) (*query.Page[model.Course], error) {
	return s.courseRepo.List(ctx, q)
}

// ListByBootcamp returns every course of an existing bootcamp
func (s *CourseService) ListByBootcamp(ctx context.Context, rawBootcampID string) ([]*model.Course, error) {
	bootcamp, err := loadBootcamp(ctx, s.bootcampRepo, rawBootcampID)
	if err != nil {
		return nil, err
	}
	return s.courseRepo.ListByBootcamp(ctx, bootcamp.ID)
}

// Get returns a course with its bootcamp summary
func (s *CourseService) Get(ctx context.Context, rawID string) (*model.Course, error) {
	id, err := model.ParseRecordID(model.TableCourse, rawID)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

// Create adds a course to a bootcamp the principal owns
func (s *CourseService) Create(ctx context.Context, p model.Principal, rawBootcampID string, in model.CourseInput) (*model.Course, error) {
	bootcamp, err := loadBootcamp(ctx, s.bootcampRepo, rawBootcampID)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(p, bootcamp.User, "add a course to", "bootcamp", bootcamp.ID); err != nil {
		return nil, err
	}

	if err := model.Validate(&in); err != nil {
		return nil, err
	}

	course := &model.Course{
		Bootcamp: model.BootcampRef{ID: bootcamp.ID},
		User:     p.ID,
	}
	course.Apply(in)

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}
	s.recalculate(ctx, bootcamp.ID)
	return course, nil
}

// Update applies a partial update to a course the principal owns
func (s *CourseService) Update(ctx context.Context, p model.Principal, rawID string, apply func(*model.CourseInput) error) (*model.Course, error) {
	id, err := model.ParseRecordID(model.TableCourse, rawID)
	if err != nil {
		return nil, err
	}

	course, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(p, course.User, "update", "course", id); err != nil {
		return nil, err
	}

	in := course.Input()
	if err := apply(&in); err != nil {
		return nil, err
	}
	if err := model.Validate(&in); err != nil {
		return nil, err
	}

	bootcampID := course.Bootcamp.ID
	course.Apply(in)
	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}
	s.recalculate(ctx, bootcampID)
	return course, nil
}

// Delete removes a course the principal owns
func (s *CourseService) Delete(ctx context.Context, p model.Principal, rawID string) error {
	id, err := model.ParseRecordID(model.TableCourse, rawID)
	if err != nil {
		return err
	}

	course, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := authorizeOwner(p, course.User, "delete", "course", id); err != nil {
		return err
	}

	if err := s.courseRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.recalculate(ctx, course.Bootcamp.ID)
	return nil
}

func (s *CourseService) load(ctx context.Context, id string) (*model.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, notFound("Course", id)
	}
	return course, nil
}

// recalculate refreshes the parent's averageCost. The course write has
// already succeeded, so a failure here is logged rather than returned.
func (s *CourseService) recalculate(ctx context.Context, bootcampID string) {
	if err := s.courseRepo.RecalculateAverageCost(ctx, bootcampID); err != nil {
		slog.Warn("failed to recalculate average cost",
			slog.String("bootcamp_id", bootcampID),
			slog.String("error", err.Error()))
	}
}

// loadBootcamp resolves a parent bootcamp from a route parameter
func loadBootcamp(ctx context.Context, repo BootcampReader, rawID string) (*model.Bootcamp, error) {
	id, err := model.ParseRecordID(model.TableBootcamp, rawID)
	if err != nil {
		return nil, err
	}
	bootcamp, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if bootcamp == nil {
		return nil, notFound("Bootcamp", id)
	}
	return bootcamp, nil
}
