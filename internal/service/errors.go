package service

import (
	"errors"
	"fmt"

	"github.com/forgo/devcamper/api/internal/model"
)

// Centralized service layer errors.
// Fixed-message failures are sentinels; failures whose message names a
// specific resource are built as *model.APIError by the helpers below.

// ===== Authentication Errors =====
var (
	ErrMissingCredentials = errors.New("please provide email and password")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidPassword    = errors.New("invalid password")
)

// ===== Revocation Errors =====
var (
	ErrRevocationUnavailable = errors.New("revocation store unavailable")
)

func notFound(resource, id string) *model.APIError {
	return model.NewNotFoundError(fmt.Sprintf("%s not found with id %s", resource, id))
}

func forbidden(p model.Principal, action, resource, id string) *model.APIError {
	return model.NewForbiddenError(fmt.Sprintf("User %s is not authorized to %s %s %s", p.ID, action, resource, id))
}

// authorizeOwner is the resource-level check: it runs after the record has
// been loaded because ownership belongs to the instance, not the route.
func authorizeOwner(p model.Principal, ownerID, action, resource, id string) error {
	if p.CanModify(ownerID) {
		return nil
	}
	return forbidden(p, action, resource, id)
}
