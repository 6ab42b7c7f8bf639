// Package jwt signs and verifies the bearer tokens handed out by the auth
// endpoints.
//
// Tokens are HS256 JWTs carrying the user id in "sub", the user's role, a
// unique "jti" used for revocation, and the usual iat/nbf/exp timestamps.
//
//	svc, err := jwt.NewService(jwt.Config{
//	    Secret:     []byte(cfg.JWT.Secret),
//	    Issuer:     "devcamper",
//	    Expiration: 30 * 24 * time.Hour,
//	})
//
//	token, err := svc.Sign(jwt.Claims{Role: "publisher", RegisteredClaims: gojwt.RegisteredClaims{Subject: userID}})
//
//	claims, err := svc.Validate(token)
//	if err != nil {
//	    // ErrTokenExpired, ErrInvalidSignature or ErrInvalidToken
//	}
package jwt
