package auth

import (
	"errors"

	"github.com/C3604/ChronoAtlas/internal/domain"
	"github.com/C3604/ChronoAtlas/internal/domain/models"
)

// ChainVerifier accepts a token if any of its verifiers does.
type ChainVerifier struct {
	verifiers []JWTVerifier
}

// NewChainVerifier combines verifiers, tried in order.
func NewChainVerifier(verifiers ...JWTVerifier) *ChainVerifier {
	return &ChainVerifier{verifiers: verifiers}
}

func (c *ChainVerifier) VerifyToken(tokenString string) (*models.Claims, error) {
	for _, v := range c.verifiers {
		if claims, err := v.VerifyToken(tokenString); err == nil {
			return claims, nil
		}
	}
	return nil, domain.ErrUnauthorized
}

// Close closes every verifier and joins their errors.
func (c *ChainVerifier) Close() error {
	var errs []error
	for _, v := range c.verifiers {
		errs = append(errs, v.Close())
	}
	return errors.Join(errs...)
}
