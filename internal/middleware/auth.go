package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/forgo/devcamper/api/internal/model"
)

// Authenticator resolves a bearer token to the principal it was issued to.
// Returning a *model.APIError makes the guard respond with that error;
// any other error is treated as a server fault.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (model.Principal, error)
}

const bearerPrefix = "Bearer "

// Auth returns a middleware that requires a valid bearer token and stores
// the resolved Principal in the request context
func Auth(authenticator Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				notAuthorized().WriteJSON(w)
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
			if token == "" {
				notAuthorized().WriteJSON(w)
				return
			}

			principal, err := authenticator.Authenticate(r.Context(), token)
			if err != nil {
				var apiErr *model.APIError
				if errors.As(err, &apiErr) {
					apiErr.WriteJSON(w)
					return
				}
				slog.Error("authentication failed",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				model.NewInternalError("").WriteJSON(w)
				return
			}

			ctx := WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Authorize returns a middleware that only admits principals holding one of
// roles. It must run after Auth.
func Authorize(roles ...model.Role) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := GetPrincipal(r.Context())
			if !ok {
				notAuthorized().WriteJSON(w)
				return
			}
			if !principal.HasRole(roles...) {
				model.NewForbiddenError(fmt.Sprintf("User role %s is not authorized to access this route", principal.Role)).WriteJSON(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetPrincipal extracts the authenticated principal from context
func GetPrincipal(ctx context.Context) (model.Principal, bool) {
	p, ok := ctx.Value(PrincipalKey).(model.Principal)
	return p, ok
}

// WithPrincipal returns a copy of ctx carrying p
func WithPrincipal(ctx context.Context, p model.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}

func notAuthorized() *model.APIError {
	return model.NewUnauthorizedError("Not authorized to access this route")
}
