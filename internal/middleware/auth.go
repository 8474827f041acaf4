package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"linkhive/internal/auth"
	"linkhive/internal/httputil"
)

// publicPrefixes are served without a token
var publicPrefixes = []string{"/health", "/api/shared/"}

// queryTokenPath is the only route that may carry ?access_token=. Tokens in
// URLs end up in access logs and Referer headers, so nothing else gets them.
const queryTokenPath = "/api/events"

func isPublic(path string) bool {
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// AuthMiddleware verifies the bearer token and stores its claims in the
// request context. EventSource cannot set headers, so the event stream may
// pass the token as ?access_token= instead.
func AuthMiddleware(verifier auth.JWTVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || isPublic(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r)
			if token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("authentication failed", "path", r.URL.Path, "error", err)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, httputil.WithClaims(r, claims))
		})
	}
}

func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return ""
		}
		return strings.TrimSpace(token)
	}
	if r.Method == http.MethodGet && r.URL.Path == queryTokenPath {
		return r.URL.Query().Get("access_token")
	}
	return ""
}
