package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"shopsight-gateway/internal/domain"

	"github.com/rs/zerolog"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError maps the domain error taxonomy onto HTTP statuses in one
// place. Unclassified faults are logged with full detail server-side and
// returned as a generic message.
func writeError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": validationErr.Message})
		return
	}

	var authErr *domain.AuthError
	if errors.As(err, &authErr) {
		body := map[string]string{"error": authErr.Message}
		if authErr.Detail != "" {
			body["message"] = authErr.Detail
		}
		writeJSON(w, http.StatusUnauthorized, body)
		return
	}

	var notFoundErr *domain.NotFoundError
	if errors.As(err, &notFoundErr) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": notFoundErr.Message})
		return
	}

	var upstreamErr *domain.UpstreamUnavailableError
	if errors.As(err, &upstreamErr) {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": upstreamErr.Message})
		return
	}

	logger.Error().Err(err).Msg("Unhandled error")
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
}
