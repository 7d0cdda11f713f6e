package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/C3604/ChronoAtlas/internal/auth"
	"github.com/C3604/ChronoAtlas/internal/httputil"
)

// Auth resolves a Bearer token into the request actor. Requests without an
// Authorization header pass through anonymously; reads are public and the
// services reject anonymous writes. A header that is present but invalid
// is rejected here with 401.
func Auth(verifier auth.JWTVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			claims, err := verifier.VerifyToken(strings.TrimSpace(token))
			if err != nil {
				logger.Debug("token rejected", "path", r.URL.Path, "error", err)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, httputil.WithActor(r, claims.Actor()))
		})
	}
}
