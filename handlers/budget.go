package handlers

import (
	"encoding/json"
	"net/http"

	"centavo/backend/models"
	"centavo/backend/services"

	"github.com/gorilla/mux"
)

func GetBudgets(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	budgets, err := services.ListBudgets(userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, budgets)
}

func SetBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var b models.Budget
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	budget, err := services.SetBudget(userID, b.CategoryID, b.Amount)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, budget)
}

func DeleteBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	id := vars["id"]

	if err := services.DeleteBudget(userID, id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// GetBudgetProgress reports each budgeted category's net spend for a month.
func GetBudgetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	yearMonth := r.URL.Query().Get("month")
	if yearMonth == "" {
		writeError(w, models.NewValidationError("month", "month query parameter is required (YYYY-MM)"))
		return
	}

	progress, err := services.BudgetProgressFor(userID, yearMonth)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, progress)
}
