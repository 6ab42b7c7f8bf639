// Package helpers provides test utilities for end-to-end API tests.
//
// # JWT Helpers
//
// JWTHelper signs tokens with a fixed test secret. Wire its Service into
// the auth service under test so the tokens it mints are accepted:
//
//	jwtHelper := helpers.NewJWTHelper(t)
//	auth := service.NewAuthService(service.AuthServiceConfig{JWTService: jwtHelper.Service(), ...})
//
// # Requests
//
//	rr := helpers.NewRequest(t, http.MethodPost, "/api/v1/bootcamps").
//	    WithBody(body).
//	    WithAuth(jwtHelper, publisher).
//	    Do(mux)
//
// # Assertions
//
//	helpers.AssertErrorEnvelope(t, rr, http.StatusForbidden, "...")
//	helpers.AssertValidationError(t, rr, "Please add a name")
//	helpers.AssertRecordNotExists(t, db, "course:abc")
package helpers
