package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/forgo/devcamper/api/internal/model"
	"github.com/forgo/devcamper/api/internal/service"
)

// TokenCookie is the name of the cookie mirroring the bearer token
const TokenCookie = "token"

// AuthService is the account surface used by AuthHandler
type AuthService interface {
	Register(ctx context.Context, req model.RegisterRequest) (*service.AuthResult, error)
	Login(ctx context.Context, req model.LoginRequest) (*service.AuthResult, error)
	Me(ctx context.Context, p model.Principal) (*model.User, error)
	UpdateDetails(ctx context.Context, p model.Principal, req model.UpdateDetailsRequest) (*model.User, error)
	UpdatePassword(ctx context.Context, p model.Principal, req model.UpdatePasswordRequest) (*service.AuthResult, error)
	Logout(ctx context.Context, p model.Principal) error
}

// AuthHandler serves /auth
type AuthHandler struct {
	auth         AuthService
	cookieMaxAge time.Duration
	secureCookie bool
	now          func() time.Time
}

// AuthHandlerConfig holds configuration for the auth handler
type AuthHandlerConfig struct {
	AuthService  AuthService
	CookieMaxAge time.Duration
	SecureCookie bool // set in production
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(cfg AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		auth:         cfg.AuthService,
		cookieMaxAge: cfg.CookieMaxAge,
		secureCookie: cfg.SecureCookie,
		now:          time.Now,
	}
}

// RegisterRoutes registers auth routes on the mux
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux, guard Guard) {
	mux.Handle(route("POST", "/auth/register"), Endpoint(h.Register))
	mux.Handle(route("POST", "/auth/login"), Endpoint(h.Login))
	mux.Handle(route("GET", "/auth/logout"), guard.Protect(h.Logout))
	mux.Handle(route("GET", "/auth/me"), guard.Protect(h.Me))
	mux.Handle(route("PUT", "/auth/update-details"), guard.Protect(h.UpdateDetails))
	mux.Handle(route("PUT", "/auth/update-password"), guard.Protect(h.UpdatePassword))
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(r *http.Request) (*Response, error) {
	var req model.RegisterRequest
	if err := DecodeJSON(r, &req); err != nil {
		return nil, err
	}
	result, err := h.auth.Register(r.Context(), req)
	if err != nil {
		return nil, err
	}
	return h.tokenResponse(result.Token), nil
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(r *http.Request) (*Response, error) {
	var req model.LoginRequest
	if err := DecodeJSON(r, &req); err != nil {
		return nil, err
	}
	result, err := h.auth.Login(r.Context(), req)
	if err != nil {
		return nil, err
	}
	return h.tokenResponse(result.Token), nil
}

// Logout handles GET /api/v1/auth/logout
func (h *AuthHandler) Logout(r *http.Request) (*Response, error) {
	p, err := principal(r)
	if err != nil {
		return nil, err
	}
	if err := h.auth.Logout(r.Context(), p); err != nil {
		return nil, err
	}
	resp := Empty()
	resp.Cookies = []*http.Cookie{{
		Name:     TokenCookie,
		Value:    "none",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}}
	return resp, nil
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(r *http.Request) (*Response, error) {
	p, err := principal(r)
	if err != nil {
		return nil, err
	}
	user, err := h.auth.Me(r.Context(), p)
	if err != nil {
		return nil, err
	}
	return Data(http.StatusOK, user), nil
}

// UpdateDetails handles PUT /api/v1/auth/update-details
func (h *AuthHandler) UpdateDetails(r *http.Request) (*Response, error) {
	p, err := principal(r)
	if err != nil {
		return nil, err
	}
	var req model.UpdateDetailsRequest
	if err := DecodeJSON(r, &req); err != nil {
		return nil, err
	}
	user, err := h.auth.UpdateDetails(r.Context(), p, req)
	if err != nil {
		return nil, err
	}
	return Data(http.StatusOK, user), nil
}

// UpdatePassword handles PUT /api/v1/auth/update-password
func (h *AuthHandler) UpdatePassword(r *http.Request) (*Response, error) {
	p, err := principal(r)
	if err != nil {
		return nil, err
	}
	var req model.UpdatePasswordRequest
	if err := DecodeJSON(r, &req); err != nil {
		return nil, err
	}
	result, err := h.auth.UpdatePassword(r.Context(), p, req)
	if err != nil {
		return nil, err
	}
	return h.tokenResponse(result.Token), nil
}

// tokenResponse returns {success, token} and mirrors the token in a cookie
func (h *AuthHandler) tokenResponse(token string) *Response {
	return &Response{
		Status: http.StatusOK,
		Body:   TokenResponse{Success: true, Token: token},
		Cookies: []*http.Cookie{{
			Name:     TokenCookie,
			Value:    token,
			Path:     "/",
			Expires:  h.now().Add(h.cookieMaxAge),
			MaxAge:   int(h.cookieMaxAge.Seconds()),
			HttpOnly: true,
			Secure:   h.secureCookie,
			SameSite: http.SameSiteLaxMode,
		}},
	}
}
