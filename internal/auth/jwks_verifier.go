package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/C3604/ChronoAtlas/internal/domain"
	"github.com/C3604/ChronoAtlas/internal/domain/models"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// JWKSVerifier verifies asymmetric tokens against keys from a JWKS endpoint.
type JWKSVerifier struct {
	jwks   keyfunc.Keyfunc
	parser *jwt.Parser
	cancel context.CancelFunc
	logger *slog.Logger
}

// NewJWKSVerifier creates a verifier that fetches public keys from jwksURL.
// keyfunc caches the keys and refreshes them in the background until Close.
func NewJWKSVerifier(jwksURL string, opts Options, logger *slog.Logger) (*JWKSVerifier, error) {
	if jwksURL == "" {
		return nil, errors.New("JWKS URL cannot be empty")
	}

	ctx, cancel := context.WithCancel(context.Background())
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWKS verifier initialized", "jwks_url", jwksURL)

	return &JWKSVerifier{
		jwks:   jwks,
		parser: newParser([]string{"RS256", "ES256"}, opts),
		cancel: cancel,
		logger: logger,
	}, nil
}

// VerifyToken validates a token signed with RS256 or ES256.
func (v *JWKSVerifier) VerifyToken(tokenString string) (*models.Claims, error) {
	claims := &models.Claims{}
	token, err := v.parser.ParseWithClaims(tokenString, claims, v.jwks.Keyfunc)
	if err != nil || !token.Valid {
		v.logger.Debug("jwks token rejected", "error", err)
		return nil, domain.ErrUnauthorized
	}
	if claims.Subject == "" {
		v.logger.Debug("token missing subject claim")
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

// Close stops the background key refresh.
func (v *JWKSVerifier) Close() error {
	v.cancel()
	v.logger.Info("JWKS verifier closed")
	return nil
}

// newParser builds a parser that pins the algorithms, which prevents
// algorithm confusion between HMAC secrets and public keys.
func newParser(methods []string, opts Options) *jwt.Parser {
	parserOpts := []jwt.ParserOption{jwt.WithValidMethods(methods), jwt.WithExpirationRequired()}
	if opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(opts.Issuer))
	}
	if opts.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(opts.Audience))
	}
	return jwt.NewParser(parserOpts...)
}
