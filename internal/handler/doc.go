// Package handler provides HTTP request handlers for the DevCamper API.
//
// Each handler struct serves one resource and depends on a small service
// interface declared next to it, so tests can substitute function-field
// mocks.
//
// # Endpoints
//
// Handler methods have the Endpoint signature:
//
//	func(r *http.Request) (*Response, error)
//
// Endpoint.ServeHTTP writes the Response, or passes the error to WriteError.
// WriteError runs MapError, the single translation from service and storage
// errors to the {success:false,error} envelope.
//
// # Response Format
//
//   - Data: {success:true,data}
//   - Collection: {success:true,count,data} for nested lists
//   - Paged: {success:true,count,pagination,data} for Query Builder lists
//   - Empty: {success:true,data:{}} for deletes and logout
//
// # Routes
//
// Every handler registers its own routes under /api/v1. Protected routes
// are wrapped by Guard.Protect, which applies the bearer-token middleware and
// an optional role check:
//
//	guard := handler.Guard{Auth: middleware.Auth(authService)}
//	handler.NewBootcampHandler(bootcampService).RegisterRoutes(mux, guard)
package handler
