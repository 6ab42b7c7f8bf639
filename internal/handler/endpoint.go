package handler

import (
	"net/http"

	"github.com/forgo/devcamper/api/internal/middleware"
	"github.com/forgo/devcamper/api/internal/model"
)

// APIPrefix is prepended to every resource route
const APIPrefix = "/api/v1"

// Endpoint is a request handler that returns its result instead of writing
// it. Errors of any kind are normalized by WriteError.
type Endpoint func(r *http.Request) (*Response, error)

// ServeHTTP implements http.Handler
func (e Endpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp, err := e(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	for _, c := range resp.Cookies {
		http.SetCookie(w, c)
	}
	WriteJSON(w, resp.Status, resp.Body)
}

// Guard bundles the middleware that protects routes. Limit, when set, runs
// after Auth so it sees the principal.
type Guard struct {
	Auth  middleware.Middleware
	Limit middleware.Middleware
}

// Protect wraps an endpoint with authentication, the optional per-principal
// limit and, when roles are given, a role check.
func (g Guard) Protect(e Endpoint, roles ...model.Role) http.Handler {
	mws := []middleware.Middleware{g.Auth}
	if g.Limit != nil {
		mws = append(mws, g.Limit)
	}
	if len(roles) > 0 {
		mws = append(mws, middleware.Authorize(roles...))
	}
	return middleware.Chain(e, mws...)
}

// route joins a method and a resource path under the API prefix
func route(method, path string) string {
	return method + " " + APIPrefix + path
}

// principal returns the authenticated caller. Protected routes always have
// one; reaching here without it means the route was registered unguarded.
func principal(r *http.Request) (model.Principal, error) {
	p, ok := middleware.GetPrincipal(r.Context())
	if !ok {
		return model.Principal{}, model.NewUnauthorizedError("Not authorized to access this route")
	}
	return p, nil
}

// NotFound answers unmatched routes with the failure envelope
func NotFound(w http.ResponseWriter, r *http.Request) {
	model.NewNotFoundError("Route not found").WriteJSON(w)
}
