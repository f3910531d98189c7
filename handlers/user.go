package handlers

import (
	"encoding/json"
	"net/http"

	"centavo/backend/database"
	"centavo/backend/models"
)

// SyncUser upserts the authenticated user's profile row. Called by the
// frontend after the auth proxy establishes a session.
func SyncUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var u models.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if u.Username == "" {
		writeError(w, models.NewValidationError("username", "username is required"))
		return
	}
	if u.Name == "" {
		u.Name = u.Username
	}
	u.ID = userID

	_, err := database.DB.Exec(`
		INSERT INTO users (id, username, name)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET username = excluded.username, name = excluded.name
	`, u.ID, u.Username, u.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, u)
}

// GetUser returns the authenticated user's profile.
func GetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var u models.User
	err := database.DB.QueryRow(`
		SELECT id, username, name FROM users WHERE id = ?
	`, userID).Scan(&u.ID, &u.Username, &u.Name)
	if err != nil {
		writeError(w, models.NewNotFoundError("user", userID))
		return
	}

	writeJSON(w, http.StatusOK, u)
}
