package middleware

import (
	"net/http"

	"github.com/angelmondragon/grocerfront/api/responses"
	"github.com/angelmondragon/grocerfront/pkg/logger"
)

// SessionGuard blocks every storefront route once session establishment
// has failed: the failure is fatal for the page lifetime and the blocking
// error replaces all content until a reload.
func SessionGuard(fatal func() error, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := fatal(); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
