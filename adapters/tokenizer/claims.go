package tokenizer

import "github.com/golang-jwt/jwt/v5"

// AccessClaims combines standard claims with the session reference.
// Token signature and session liveness are independent checks: a valid
// signature alone does not authorize a request.
type AccessClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid"`
}
