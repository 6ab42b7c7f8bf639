// Package model defines the domain types shared by every layer of the API.
//
// # Domain Entities
//
//   - User: account with a role (user, publisher, admin)
//   - Bootcamp: training provider owned by a publisher
//   - Course: program offered by a bootcamp
//   - Review: rating of a bootcamp by a user
//   - Principal: authenticated identity of a request
//
// Storage field names equal the JSON names, so query parameters, sort keys
// and projections use the same vocabulary as responses.
//
// # Writable Views
//
// Each resource has an Input struct holding the fields clients may set.
// Partial updates decode the request body over Input() of the stored
// record, run Validate, then Apply the result back:
//
//	in := bootcamp.Input()
//	_ = json.Unmarshal(body, &in)
//	if err := model.Validate(in); err != nil { ... }
//	bootcamp.Apply(in)
//
// # Errors
//
// APIError carries its own HTTP status. InvalidIDError and ValidationError
// are translated by the handler error mapper.
package model
