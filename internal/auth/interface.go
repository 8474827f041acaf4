package auth

import "linkhive/internal/domain/models"

// JWTVerifier validates bearer tokens for the auth middleware
type JWTVerifier interface {
	// VerifyToken returns the claims of a valid, signed, unexpired token
	VerifyToken(tokenString string) (*models.AuthClaims, error)

	// Close releases background resources such as JWKS refresh
	Close() error
}
