package auth

import "github.com/C3604/ChronoAtlas/internal/domain/models"

// JWTVerifier defines the interface for JWT token verification.
// The middleware stays agnostic to how tokens are signed.
type JWTVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	// Returns domain.ErrUnauthorized if the token is invalid, expired, or has an invalid signature.
	VerifyToken(tokenString string) (*models.Claims, error)

	// Close releases any resources held by the verifier (e.g., the JWKS refresh goroutine).
	Close() error
}

// Options are the registered claims every verifier checks.
// Empty values skip the check.
type Options struct {
	Issuer   string
	Audience string
}
