package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/forgo/devcamper/api/internal/model"
	"github.com/forgo/devcamper/api/internal/query"
)

// UserService handles admin user management
type UserService struct {
	userRepo   UserRepository
	bcryptCost int
}

// UserServiceConfig holds configuration for the user service
type UserServiceConfig struct {
	UserRepo   UserRepository
	BcryptCost int // Default: 12
}

// NewUserService creates a new user service
func NewUserService(cfg UserServiceConfig) *UserService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcryptCost
	}
	return &UserService{
		userRepo:   cfg.UserRepo,
		bcryptCost: cfg.BcryptCost,
	}
}

// List returns one page of users
func (s *UserService) List(ctx context.Context, q *query.ListQuery) (*query.Page[model.User], error) {
	return s.userRepo.List(ctx, q)
}

// Get returns a single user
func (s *UserService) Get(ctx context.Context, rawID string) (*model.User, error) {
	id, err := model.ParseRecordID(model.TableUser, rawID)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

// Create adds a user with any role, including admin
func (s *UserService) Create(ctx context.Context, in model.UserInput) (*model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := model.Validate(&in); err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, model.NewValidationError([]string{"Please add a password"})
	}

	hash, err := hashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{Role: model.RoleUser, PasswordHash: hash}
	user.Apply(in)
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("user created by admin", slog.String("user_id", user.ID), slog.String("role", string(user.Role)))
	return user, nil
}

// Update applies a partial update to name, email and role. A password in
// the body is ignored.
func (s *UserService) Update(ctx context.Context, rawID string, apply func(*model.UserInput) error) (*model.User, error) {
	id, err := model.ParseRecordID(model.TableUser, rawID)
	if err != nil {
		return nil, err
	}

	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	in := user.Input()
	if err := apply(&in); err != nil {
		return nil, err
	}
	in.Password = ""
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if err := model.Validate(&in); err != nil {
		return nil, err
	}

	user.Apply(in)
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes a user
func (s *UserService) Delete(ctx context.Context, rawID string) error {
	id, err := model.ParseRecordID(model.TableUser, rawID)
	if err != nil {
		return err
	}
	if _, err := s.load(ctx, id); err != nil {
		return err
	}

	slog.Info("deleting user", slog.String("user_id", id))
	return s.userRepo.Delete(ctx, id)
}

func (s *UserService) load(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFound("User", id)
	}
	return user, nil
}
