package auth

import "github.com/ktmouk/minute-sub000/internal/domain/models"

// JWTVerifier defines the interface for JWT token verification.
// The middleware only needs the claims; how keys are obtained stays behind it.
type JWTVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	// Returns an error if the token is invalid, expired, or has an invalid signature.
	VerifyToken(tokenString string) (*models.AccessClaims, error)

	// Close releases any resources held by the verifier
	Close() error
}
