package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrTokenNotYetValid = errors.New("token not yet valid")
	ErrInvalidSignature = errors.New("invalid signature")
	ErrInvalidKey       = errors.New("invalid key")
)

// Claims represents the JWT claims issued for a user session. The role is
// not signed into the token; it is read from storage on every request.
type Claims struct {
	gojwt.RegisteredClaims
}

// UserID returns the subject of the token
func (c *Claims) UserID() string {
	return c.Subject
}

// Expiry returns the expiration time, or the zero time when unset
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Config holds JWT service configuration
type Config struct {
	Secret     []byte
	Issuer     string
	Expiration time.Duration
}

// Service handles JWT operations
type Service struct {
	secret     []byte
	issuer     string
	expiration time.Duration
	now        func() time.Time
}

// NewService creates a new JWT service
func NewService(cfg Config) (*Service, error) {
	if len(cfg.Secret) == 0 {
		return nil, fmt.Errorf("%w: secret is empty", ErrInvalidKey)
	}
	if cfg.Expiration <= 0 {
		cfg.Expiration = 30 * 24 * time.Hour
	}

	return &Service{
		secret:     cfg.Secret,
		issuer:     cfg.Issuer,
		expiration: cfg.Expiration,
		now:        time.Now,
	}, nil
}

// Sign creates a signed JWT token. Issuer, issued-at, not-before, expiry and
// token id are filled in when the caller leaves them empty.
func (s *Service) Sign(claims Claims) (string, error) {
	if s == nil || len(s.secret) == 0 {
		return "", ErrInvalidKey
	}

	now := s.now()
	if claims.Issuer == "" {
		claims.Issuer = s.issuer
	}
	if claims.IssuedAt == nil {
		claims.IssuedAt = gojwt.NewNumericDate(now)
	}
	if claims.NotBefore == nil {
		claims.NotBefore = gojwt.NewNumericDate(now)
	}
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = gojwt.NewNumericDate(now.Add(s.expiration))
	}
	if claims.ID == "" {
		claims.ID = uuid.New().String()
	}

	token := gojwt.NewWithClaims(gojwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate parses and validates a JWT token
func (s *Service) Validate(tokenString string) (*Claims, error) {
	if s == nil || len(s.secret) == 0 {
		return nil, ErrInvalidKey
	}

	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}),
		gojwt.WithExpirationRequired(),
		gojwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.issuer))
	}

	claims := &Claims{}
	token, err := gojwt.ParseWithClaims(tokenString, claims, func(*gojwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, gojwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, gojwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		case errors.Is(err, gojwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
	}

	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// GetExpiration returns the configured token lifetime, after defaulting
func (s *Service) GetExpiration() time.Duration {
	return s.expiration
}

// NewTestService creates a JWT service with a fixed clock (for testing)
func NewTestService(secret []byte, issuer string, expiration time.Duration, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		secret:     secret,
		issuer:     issuer,
		expiration: expiration,
		now:        now,
	}
}
