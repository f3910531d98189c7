package handlers

import (
	"net/http"

	"centavo/backend/database"
)

// HealthCheck reports service and database health.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	if err := database.DB.Ping(); err != nil {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
