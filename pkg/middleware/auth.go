package middleware

import (
	"net/http"
	"strings"

	"github.com/shashiranjanraj/catalog/pkg/auth"
	"github.com/shashiranjanraj/catalog/pkg/lang"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/response"
)

// Auth requires a valid "Authorization: Bearer <jwt>" header and stores the
// claims in the request context for auth.FromContext.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			response.Error(w, http.StatusUnauthorized, lang.T(r.Context(), lang.Unauthorized))
			return
		}

		claims, err := auth.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			logger.WithCtx(r.Context()).Debug("rejected bearer token", "error", err)
			response.Error(w, http.StatusUnauthorized, lang.T(r.Context(), lang.Unauthorized))
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
	})
}
