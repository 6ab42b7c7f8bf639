// Package service implements the business rules of the DevCamper API.
//
// Services sit between the HTTP handlers and the repositories. They parse
// identifiers, load records, check ownership, validate payloads and keep the
// derived bootcamp aggregates (averageCost, averageRating) current.
//
// # Service Pattern
//
// All services follow a consistent pattern:
//
//   - Constructor function (NewXxxService) accepts a config struct with repository dependencies
//   - Methods take the request Principal explicitly when the rule depends on it
//   - Errors are sentinel errors or *model.APIError values carrying their own status
//   - Context is passed through for cancellation and request-scoped values
//
// # Repository Interfaces
//
// Services define their own repository interfaces, so unit tests can use
// in-memory fakes and the SurrealDB repositories satisfy them implicitly.
//
// # Ownership
//
// Role checks happen per route in the middleware. Ownership checks happen
// here, after the record is loaded:
//
//	if err := authorizeOwner(p, bootcamp.User, "update", "bootcamp", id); err != nil {
//	    return nil, err
//	}
//
// # Partial Updates
//
// Update methods receive an apply function instead of a payload. The service
// loads the record, authorizes, hands the record's current input to apply
// (which decodes the request body over it), validates the merged result and
// saves it. Fields the client omits keep their stored value.
//
// # Example Usage
//
//	svc := NewBootcampService(BootcampServiceConfig{
//	    BootcampRepo: bootcampRepository,
//	})
//	bootcamp, err := svc.Create(ctx, principal, model.BootcampInput{
//	    Name: "Devworks Bootcamp",
//	})
package service
