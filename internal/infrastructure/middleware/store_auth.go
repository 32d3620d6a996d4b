package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"shopsight-gateway/internal/application"
	"shopsight-gateway/internal/domain"

	"github.com/rs/zerolog"
)

// StoreAuth resolves the acting store from the X-Store-ID header (query
// parameter store_id as fallback) and injects it into the request context.
// Requests without a connected store are rejected before any downstream
// call is made.
func StoreAuth(authService *application.AuthService, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			storeID := r.Header.Get("X-Store-ID")
			if storeID == "" {
				storeID = r.URL.Query().Get("store_id")
			}

			store, err := authService.ResolveStore(r.Context(), storeID)
			if err != nil {
				var authErr *domain.AuthError
				if !errors.As(err, &authErr) {
					logger.Error().Err(err).Msg("Store resolution failed")
					writeUnauthorized(w, "Store authentication failed")
					return
				}
				writeUnauthorized(w, authErr.Message)
				return
			}

			ctx := domain.WithStore(r.Context(), store)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
