package handlers

import (
	"encoding/json"
	"net/http"

	"centavo/backend/database"
	"centavo/backend/services"

	"github.com/gorilla/mux"
)

func GetFaturas(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	accountID := vars["id"]

	faturas, err := services.ListFaturas(database.DB, userID, accountID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, faturas)
}

// GetFatura returns one statement, recomputing its total on the way out so
// the response never shows a stale aggregate.
func GetFatura(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	accountID := vars["id"]
	yearMonth := vars["yearMonth"]

	fatura, err := services.GetFatura(userID, accountID, yearMonth)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, fatura)
}

func PayFatura(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	faturaID := vars["id"]

	var body struct {
		FromAccountID string `json:"fromAccountId"`
		PaidAt        string `json:"paidAt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fatura, err := services.PayFatura(userID, faturaID, body.FromAccountID, body.PaidAt)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, fatura)
}

// BackfillFaturaTransfers runs the repair batch that synthesizes missing
// fatura payment transfers. Safe to call repeatedly.
func BackfillFaturaTransfers(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}

	result, err := services.BackfillFaturaTransfers()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
