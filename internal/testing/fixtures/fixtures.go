package fixtures

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/forgo/devcamper/api/internal/database"
	"github.com/forgo/devcamper/api/internal/model"
	"github.com/forgo/devcamper/api/internal/repository"
)

// DefaultPassword is the plaintext password of every fixture user
const DefaultPassword = "testpass123"

// Factory creates test entities in the database
type Factory struct {
	users     *repository.UserRepository
	bootcamps *repository.BootcampRepository
	courses   *repository.CourseRepository
	reviews   *repository.ReviewRepository
}

// New creates a new fixture factory
func New(db database.Database) *Factory {
	return &Factory{
		users:     repository.NewUserRepository(db),
		bootcamps: repository.NewBootcampRepository(db),
		courses:   repository.NewCourseRepository(db),
		reviews:   repository.NewReviewRepository(db),
	}
}

// randomID generates a random hex ID
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func ctx(t *testing.T) context.Context {
	c, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return c
}

// ============================================================================
// User Fixtures
// ============================================================================

// UserOpts customizes user creation
type UserOpts struct {
	Name     string
	Email    string
	Password string
	Role     model.Role
}

// CreateUser creates a user with optional customizations
func (f *Factory) CreateUser(t *testing.T, opts ...func(*UserOpts)) *model.User {
	t.Helper()

	id := randomID()
	o := &UserOpts{
		Name:     fmt.Sprintf("User %s", id),
		Email:    fmt.Sprintf("user_%s@test.local", id),
		Password: DefaultPassword,
		Role:     model.RoleUser,
	}
	for _, fn := range opts {
		fn(o)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(o.Password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("fixtures: failed to hash password: %v", err)
	}

	user := &model.User{
		Name:         o.Name,
		Email:        o.Email,
		Role:         o.Role,
		PasswordHash: string(hash),
	}
	if err := f.users.Create(ctx(t), user); err != nil {
		t.Fatalf("fixtures: failed to create user: %v", err)
	}
	return user
}

// CreatePublisher creates a user with the publisher role
func (f *Factory) CreatePublisher(t *testing.T) *model.User {
	t.Helper()
	return f.CreateUser(t, func(o *UserOpts) {
		o.Role = model.RolePublisher
	})
}

// CreateAdmin creates an admin user
func (f *Factory) CreateAdmin(t *testing.T) *model.User {
	t.Helper()
	return f.CreateUser(t, func(o *UserOpts) {
		o.Role = model.RoleAdmin
	})
}

// ============================================================================
// Bootcamp Fixtures
// ============================================================================

// CreateBootcamp creates a bootcamp owned by owner
func (f *Factory) CreateBootcamp(t *testing.T, owner *model.User, opts ...func(*model.BootcampInput)) *model.Bootcamp {
	t.Helper()

	in := model.BootcampInput{
		Name:        fmt.Sprintf("Bootcamp %s", randomID()),
		Description: "Test bootcamp description",
		Address:     "233 Bay State Rd Boston MA 02215",
		Careers:     []string{"Web Development"},
		Housing:     true,
	}
	for _, fn := range opts {
		fn(&in)
	}

	b := &model.Bootcamp{User: owner.ID}
	b.Apply(in)
	if err := f.bootcamps.Create(ctx(t), b); err != nil {
		t.Fatalf("fixtures: failed to create bootcamp: %v", err)
	}
	return b
}

// ============================================================================
// Course Fixtures
// ============================================================================

// CreateCourse creates a course under bootcamp owned by owner
func (f *Factory) CreateCourse(t *testing.T, bootcamp *model.Bootcamp, owner *model.User, opts ...func(*model.CourseInput)) *model.Course {
	t.Helper()

	in := model.CourseInput{
		Title:        fmt.Sprintf("Course %s", randomID()),
		Description:  "Test course description",
		Weeks:        8,
		Tuition:      10000,
		MinimumSkill: "beginner",
	}
	for _, fn := range opts {
		fn(&in)
	}

	c := &model.Course{Bootcamp: model.BootcampRef{ID: bootcamp.ID}, User: owner.ID}
	c.Apply(in)
	if err := f.courses.Create(ctx(t), c); err != nil {
		t.Fatalf("fixtures: failed to create course: %v", err)
	}
	return c
}

// WithTuition sets a course's tuition
func WithTuition(tuition float64) func(*model.CourseInput) {
	return func(in *model.CourseInput) { in.Tuition = tuition }
}

// ============================================================================
// Review Fixtures
// ============================================================================

// CreateReview creates a review of bootcamp written by author
func (f *Factory) CreateReview(t *testing.T, bootcamp *model.Bootcamp, author *model.User, rating int) *model.Review {
	t.Helper()

	r := &model.Review{Bootcamp: model.BootcampRef{ID: bootcamp.ID}, User: author.ID}
	r.Apply(model.ReviewInput{
		Title:  fmt.Sprintf("Review %s", randomID()),
		Text:   "Test review text",
		Rating: rating,
	})
	if err := f.reviews.Create(ctx(t), r); err != nil {
		t.Fatalf("fixtures: failed to create review: %v", err)
	}
	return r
}
