package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"tingles_server/services"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// storeErrorStatus maps the storage error taxonomy onto HTTP statuses.
func storeErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, services.ErrProviderConflict):
		return http.StatusConflict
	case errors.Is(err, services.ErrWrongPassword), errors.Is(err, services.ErrOAuthOnly):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrBackendUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
