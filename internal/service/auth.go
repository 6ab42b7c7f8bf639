package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/forgo/devcamper/api/internal/model"
	"github.com/forgo/devcamper/api/internal/query"
	"github.com/forgo/devcamper/api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// bcrypt cost factor (10-14 recommended for production)
const bcryptCost = 12

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, userID, hash string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q *query.ListQuery) (*query.Page[model.User], error)
}

// AuthService handles registration, login and bearer token resolution
type AuthService struct {
	userRepo    UserRepository
	jwtService  *jwt.Service
	revocations RevocationStore
	bcryptCost  int
}

// AuthServiceConfig holds configuration for the auth service
type AuthServiceConfig struct {
	UserRepo    UserRepository
	JWTService  *jwt.Service
	Revocations RevocationStore
	BcryptCost  int // Default: 12
}

// NewAuthService creates a new auth service
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcryptCost
	}
	return &AuthService{
		userRepo:    cfg.UserRepo,
		jwtService:  cfg.JWTService,
		revocations: cfg.Revocations,
		bcryptCost:  cfg.BcryptCost,
	}
}

// AuthResult is a user together with a freshly signed token
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a user account. Only the user and publisher roles can be
// self-assigned.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*AuthResult, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	if err := model.Validate(&req); err != nil {
		return nil, err
	}

	hash, err := hashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = model.RoleUser
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		Role:         role,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issue(user)
}

// Login verifies email and password
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*AuthResult, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !checkPassword(user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

// Me returns the principal's user record
func (s *AuthService) Me(ctx context.Context, p model.Principal) (*model.User, error) {
	return s.loadUser(ctx, p.ID)
}

// UpdateDetails changes the principal's name and email
func (s *AuthService) UpdateDetails(ctx context.Context, p model.Principal, req model.UpdateDetailsRequest) (*model.User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	if err := model.Validate(&req); err != nil {
		return nil, err
	}

	user, err := s.loadUser(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	user.Name = req.Name
	user.Email = req.Email
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePassword replaces the principal's password after checking the
// current one, and returns a new token
func (s *AuthService) UpdatePassword(ctx context.Context, p model.Principal, req model.UpdatePasswordRequest) (*AuthResult, error) {
	if err := model.Validate(&req); err != nil {
		return nil, err
	}

	user, err := s.loadUser(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if !checkPassword(user.PasswordHash, req.CurrentPassword) {
		return nil, ErrInvalidPassword
	}

	hash, err := hashPassword(req.NewPassword, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, hash); err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	return s.issue(user)
}

// Logout denylists the token the principal authenticated with until it
// would have expired
func (s *AuthService) Logout(ctx context.Context, p model.Principal) error {
	if s.revocations == nil || p.TokenID == "" {
		return nil
	}
	return s.revocations.Revoke(ctx, p.TokenID, p.ExpiresAt)
}

// Authenticate resolves a bearer token to a Principal. Token and lookup
// failures are 401; an unreachable revocation store is a server error.
func (s *AuthService) Authenticate(ctx context.Context, token string) (model.Principal, error) {
	claims, err := s.jwtService.Validate(token)
	if err != nil {
		return model.Principal{}, unauthenticated()
	}

	if s.revocations != nil && claims.ID != "" {
		revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return model.Principal{}, err
		}
		if revoked {
			return model.Principal{}, unauthenticated()
		}
	}

	userID, err := model.ParseRecordID(model.TableUser, claims.UserID())
	if err != nil {
		return model.Principal{}, unauthenticated()
	}
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return model.Principal{}, err
	}
	if user == nil {
		return model.Principal{}, unauthenticated()
	}

	principal := user.Principal()
	principal.TokenID = claims.ID
	principal.ExpiresAt = claims.Expiry()
	return principal, nil
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	var claims jwt.Claims
	claims.Subject = user.ID

	token, err := s.jwtService.Sign(claims)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}

func (s *AuthService) loadUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, notFound("User", id)
	}
	return user, nil
}

func unauthenticated() *model.APIError {
	return model.NewUnauthorizedError("Not authorized to access this route")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
