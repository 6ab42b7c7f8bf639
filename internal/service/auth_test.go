package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/forgo/devcamper/api/internal/database"
	"github.com/forgo/devcamper/api/internal/model"
	"github.com/forgo/devcamper/api/pkg/jwt"
	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type authFixture struct {
	svc         *AuthService
	users       *mockUserRepo
	jwt         *jwt.Service
	revocations *MemoryRevocationStore
}

func newTestAuthService() *authFixture {
	users := newMockUserRepo()
	jwtSvc := jwt.NewTestService([]byte("test-secret-that-is-long-enough!!"), "devcamper", time.Hour, nil)
	revocations := NewMemoryRevocationStore(100, time.Hour)
	svc := NewAuthService(AuthServiceConfig{
		UserRepo:    users,
		JWTService:  jwtSvc,
		Revocations: revocations,
		BcryptCost:  bcrypt.MinCost,
	})
	return &authFixture{svc: svc, users: users, jwt: jwtSvc, revocations: revocations}
}

func (f *authFixture) register(t *testing.T, email, password string, role model.Role) *AuthResult {
	t.Helper()
	result, err := f.svc.Register(context.Background(), model.RegisterRequest{
		Name:     "John Doe",
		Email:    email,
		Password: password,
		Role:     role,
	})
	require.NoError(t, err)
	return result
}

func registeredSubject(sub string) gojwt.RegisteredClaims {
	return gojwt.RegisteredClaims{Subject: sub}
}

// ============================================================================
// Register / Login
// ============================================================================

func TestAuthService_Register_Success(t *testing.T) {
	f := newTestAuthService()

	result := f.register(t, "john@gmail.com", "123456", "")

	assert.Equal(t, model.RoleUser, result.User.Role)
	assert.NotEqual(t, "123456", f.users.users[result.User.ID].PasswordHash)

	claims, err := f.jwt.Validate(result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID())
	assert.NotEmpty(t, claims.ID)
}

func TestAuthService_Register_PublisherRole(t *testing.T) {
	f := newTestAuthService()

	result := f.register(t, "pub@gmail.com", "123456", model.RolePublisher)
	assert.Equal(t, model.RolePublisher, result.User.Role)
}

func TestAuthService_Register_AdminRole_Rejected(t *testing.T) {
	f := newTestAuthService()

	_, err := f.svc.Register(context.Background(), model.RegisterRequest{
		Name: "Mallory", Email: "m@gmail.com", Password: "123456", Role: model.RoleAdmin,
	})

	var verr *model.ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Empty(t, f.users.users)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	f := newTestAuthService()
	f.users.createErr = database.ErrDuplicate

	_, err := f.svc.Register(context.Background(), model.RegisterRequest{
		Name: "John", Email: "john@gmail.com", Password: "123456",
	})
	assert.ErrorIs(t, err, database.ErrDuplicate)
}

func TestAuthService_Register_EmailNormalization(t *testing.T) {
	f := newTestAuthService()

	result := f.register(t, "  John@GMAIL.com ", "123456", "")
	assert.Equal(t, "john@gmail.com", result.User.Email)
}

func TestAuthService_Login_Success(t *testing.T) {
	f := newTestAuthService()
	registered := f.register(t, "john@gmail.com", "123456", "")

	result, err := f.svc.Login(context.Background(), model.LoginRequest{Email: "JOHN@gmail.com", Password: "123456"})
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, result.User.ID)
	assert.NotEmpty(t, result.Token)
}

func TestAuthService_Login_MissingCredentials(t *testing.T) {
	f := newTestAuthService()

	_, err := f.svc.Login(context.Background(), model.LoginRequest{Email: "john@gmail.com"})
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = f.svc.Login(context.Background(), model.LoginRequest{Password: "123456"})
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	f := newTestAuthService()
	f.register(t, "john@gmail.com", "123456", "")

	_, err := f.svc.Login(context.Background(), model.LoginRequest{Email: "john@gmail.com", Password: "654321"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	f := newTestAuthService()

	_, err := f.svc.Login(context.Background(), model.LoginRequest{Email: "nobody@gmail.com", Password: "123456"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

// ============================================================================
// Account
// ============================================================================

func TestAuthService_UpdateDetails_Success(t *testing.T) {
	f := newTestAuthService()
	registered := f.register(t, "john@gmail.com", "123456", "")

	user, err := f.svc.UpdateDetails(context.Background(), registered.User.Principal(), model.UpdateDetailsRequest{
		Name: "John Smith", Email: "smith@gmail.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "John Smith", user.Name)
	assert.Equal(t, "smith@gmail.com", f.users.users[registered.User.ID].Email)
}

func TestAuthService_UpdatePassword_WrongCurrent(t *testing.T) {
	f := newTestAuthService()
	registered := f.register(t, "john@gmail.com", "123456", "")

	_, err := f.svc.UpdatePassword(context.Background(), registered.User.Principal(), model.UpdatePasswordRequest{
		CurrentPassword: "wrong1", NewPassword: "abcdef",
	})
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestAuthService_UpdatePassword_Success(t *testing.T) {
	f := newTestAuthService()
	registered := f.register(t, "john@gmail.com", "123456", "")

	result, err := f.svc.UpdatePassword(context.Background(), registered.User.Principal(), model.UpdatePasswordRequest{
		CurrentPassword: "123456", NewPassword: "abcdef",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)

	_, err = f.svc.Login(context.Background(), model.LoginRequest{Email: "john@gmail.com", Password: "abcdef"})
	assert.NoError(t, err)
	_, err = f.svc.Login(context.Background(), model.LoginRequest{Email: "john@gmail.com", Password: "123456"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Me_DeletedUser_ReturnsNotFound(t *testing.T) {
	f := newTestAuthService()

	_, err := f.svc.Me(context.Background(), regularUser("user:gone"))
	requireAPIError(t, err, http.StatusNotFound)
}

// ============================================================================
// Authenticate / Logout
// ============================================================================

func TestAuthService_Authenticate_Success(t *testing.T) {
	f := newTestAuthService()
	registered := f.register(t, "pub@gmail.com", "123456", model.RolePublisher)

	p, err := f.svc.Authenticate(context.Background(), registered.Token)
	require.NoError(t, err)

	assert.Equal(t, registered.User.ID, p.ID)
	assert.Equal(t, model.RolePublisher, p.Role)
	assert.NotEmpty(t, p.TokenID)
	assert.True(t, p.ExpiresAt.After(time.Now()))
}

func TestAuthService_Authenticate_RoleComesFromStorage(t *testing.T) {
	f := newTestAuthService()
	registered := f.register(t, "john@gmail.com", "123456", "")
	f.users.users[registered.User.ID].Role = model.RoleAdmin

	p, err := f.svc.Authenticate(context.Background(), registered.Token)
	require.NoError(t, err)
	assert.True(t, p.IsAdmin())
}

func TestAuthService_Authenticate_Failures(t *testing.T) {
	f := newTestAuthService()
	registered := f.register(t, "john@gmail.com", "123456", "")

	otherSecret := jwt.NewTestService([]byte("another-secret-that-is-long-enough"), "devcamper", time.Hour, nil)
	forged, err := otherSecret.Sign(jwt.Claims{RegisteredClaims: registeredSubject(registered.User.ID)})
	require.NoError(t, err)

	past := func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredSigner := jwt.NewTestService([]byte("test-secret-that-is-long-enough!!"), "devcamper", time.Hour, past)
	expired, err := expiredSigner.Sign(jwt.Claims{RegisteredClaims: registeredSubject(registered.User.ID)})
	require.NoError(t, err)

	ghost, err := f.jwt.Sign(jwt.Claims{RegisteredClaims: registeredSubject("user:ghost")})
	require.NoError(t, err)

	badSubject, err := f.jwt.Sign(jwt.Claims{RegisteredClaims: registeredSubject("bootcamp:b1")})
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not-a-token"},
		{"wrong secret", forged},
		{"expired", expired},
		{"deleted user", ghost},
		{"subject of another table", badSubject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Authenticate(context.Background(), tt.token)
			apiErr := requireAPIError(t, err, http.StatusUnauthorized)
			assert.Equal(t, "Not authorized to access this route", apiErr.Message)
		})
	}
}

func TestAuthService_Logout_RevokesToken(t *testing.T) {
	f := newTestAuthService()
	registered := f.register(t, "john@gmail.com", "123456", "")

	p, err := f.svc.Authenticate(context.Background(), registered.Token)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(context.Background(), p))

	_, err = f.svc.Authenticate(context.Background(), registered.Token)
	requireAPIError(t, err, http.StatusUnauthorized)
}

func TestAuthService_Authenticate_RevocationStoreDown_ReturnsServerError(t *testing.T) {
	f := newTestAuthService()
	registered := f.register(t, "john@gmail.com", "123456", "")
	f.svc.revocations = &failingRevocations{err: ErrRevocationUnavailable}

	_, err := f.svc.Authenticate(context.Background(), registered.Token)

	assert.ErrorIs(t, err, ErrRevocationUnavailable)
	var apiErr *model.APIError
	assert.False(t, errors.As(err, &apiErr))
}
