package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"centavo/backend/middleware"
	"centavo/backend/models"
)

// writeJSON encodes v as the JSON response body.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// writeError maps the domain error taxonomy onto HTTP status codes:
// validation 400, data constraint 409, not found 404, anything else 500.
func writeError(w http.ResponseWriter, err error) {
	var validation *models.ValidationError
	var constraint *models.ConstraintError
	var notFound *models.NotFoundError

	switch {
	case errors.As(err, &validation):
		http.Error(w, validation.Error(), http.StatusBadRequest)
	case errors.As(err, &constraint):
		http.Error(w, constraint.Error(), http.StatusConflict)
	case errors.As(err, &notFound):
		http.Error(w, notFound.Error(), http.StatusNotFound)
	default:
		log.Printf("Internal error: %v", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// requireUser pulls the authenticated user from the request context.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := middleware.GetUserIDFromContext(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}
