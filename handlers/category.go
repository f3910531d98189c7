package handlers

import (
	"encoding/json"
	"net/http"

	"centavo/backend/database"
	"centavo/backend/models"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

func GetCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	rows, err := database.DB.Query(`
		SELECT id, user_id, name, type FROM categories WHERE user_id = ? ORDER BY name
	`, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Type); err != nil {
			writeError(w, err)
			return
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, categories)
}

func AddCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var c models.Category
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if c.Name == "" {
		writeError(w, models.NewValidationError("name", "name is required"))
		return
	}
	if c.Type == "" {
		c.Type = models.CategoryExpense
	}
	if c.Type != models.CategoryExpense && c.Type != models.CategoryIncome {
		writeError(w, models.NewValidationError("type", "unknown category type %q", c.Type))
		return
	}

	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.UserID = userID

	_, err := database.DB.Exec(`
		INSERT INTO categories (id, user_id, name, type) VALUES (?, ?, ?, ?)
	`, c.ID, userID, c.Name, c.Type)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	id := vars["id"]

	// A category referenced by transactions stays; deleting it would leave
	// refunds without a category to credit.
	var count int
	err := database.DB.QueryRow(`
		SELECT COUNT(*) FROM transactions WHERE category_id = ? AND user_id = ?
	`, id, userID).Scan(&count)
	if err != nil {
		writeError(w, err)
		return
	}
	if count > 0 {
		writeError(w, models.NewConstraintError("category %s is referenced by %d transaction(s)", id, count))
		return
	}

	res, err := database.DB.Exec(`DELETE FROM categories WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		writeError(w, models.NewNotFoundError("category", id))
		return
	}

	w.WriteHeader(http.StatusOK)
}
