package auth

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/C3604/ChronoAtlas/internal/domain"
	"github.com/C3604/ChronoAtlas/internal/domain/models"

	"github.com/golang-jwt/jwt/v5"
)

// HMACVerifier verifies HS256 tokens signed with a shared secret, and can
// issue them for local tooling.
type HMACVerifier struct {
	secret []byte
	opts   Options
	parser *jwt.Parser
	logger *slog.Logger
}

// NewHMACVerifier creates a shared-secret verifier
func NewHMACVerifier(secret string, opts Options, logger *slog.Logger) (*HMACVerifier, error) {
	if secret == "" {
		return nil, errors.New("JWT secret cannot be empty")
	}
	return &HMACVerifier{
		secret: []byte(secret),
		opts:   opts,
		parser: newParser([]string{jwt.SigningMethodHS256.Alg()}, opts),
		logger: logger,
	}, nil
}

func (v *HMACVerifier) keyfunc(*jwt.Token) (any, error) {
	return v.secret, nil
}

// VerifyToken validates an HS256 token.
func (v *HMACVerifier) VerifyToken(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, v.keyfunc)
	if err != nil || !token.Valid {
		v.logger.Debug("hmac token rejected", "error", err)
		return nil, domain.ErrUnauthorized
	}
	if claims.Subject == "" {
		v.logger.Debug("token missing subject claim")
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

// Issue signs a token for actor valid for ttl, stamped with the
// configured issuer and audience.
func (v *HMACVerifier) Issue(actor *models.Actor, ttl time.Duration) (string, error) {
	issuedAt := time.Now()
	claims := &models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
		Email:       actor.Email,
		DisplayName: actor.Name,
		Role:        string(actor.Role),
	}
	if v.opts.Issuer != "" {
		claims.Issuer = v.opts.Issuer
	}
	if v.opts.Audience != "" {
		claims.Audience = jwt.ClaimStrings{v.opts.Audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Close is a no-op; the verifier holds no resources.
func (v *HMACVerifier) Close() error {
	return nil
}
