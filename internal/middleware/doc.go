// Package middleware provides HTTP middleware for the DevCamper API.
//
// # Available Middleware
//
// Global middleware, applied with Chain in this order:
//
//   - RequestID: assigns or propagates X-Request-ID
//   - Logger: one structured "request" line per request
//   - Recovery: turns panics into a 500 error envelope
//   - Metrics: Prometheus request counters and latency histograms
//   - CORS: origin allow-list and preflight handling
//   - RateLimit: token bucket per principal or client IP
//   - Compress: gzip when the client accepts it
//
// Per-route middleware:
//
//   - Auth: requires "Authorization: Bearer <token>" and stores the Principal
//   - Authorize: admits only the listed roles
//
// # Authentication
//
// Auth delegates token checks to an Authenticator so the guard has no
// knowledge of signing keys or storage:
//
//	protected := middleware.Chain(handler,
//	    middleware.Auth(authService),
//	    middleware.Authorize(model.RolePublisher, model.RoleAdmin),
//	)
//
// Handlers read the principal back with GetPrincipal(r.Context()).
package middleware
