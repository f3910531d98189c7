package handlers

import (
	"encoding/json"
	"net/http"

	"centavo/backend/database"
	"centavo/backend/models"
	"centavo/backend/services"

	"github.com/gorilla/mux"
)

func GetExpenses(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	query := `
		SELECT id, user_id, description, total_amount, total_installments, category_id, refunded_amount
		FROM transactions
		WHERE user_id = ?
	`
	args := []interface{}{userID}

	categoryID := r.URL.Query().Get("categoryId")
	if categoryID != "" {
		query += " AND category_id = ?"
		args = append(args, categoryID)
	}

	rows, err := database.DB.Query(query, args...)
	if err != nil {
		writeError(w, err)
		return
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(&t.ID, &t.UserID, &t.Description, &t.TotalAmount, &t.TotalInstallments, &t.CategoryID, &t.RefundedAmount)
		if err != nil {
			writeError(w, err)
			return
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, transactions)
}

func AddExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var p services.ExpenseParams
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if p.Installments == 0 {
		p.Installments = 1
	}

	txn, err := services.CreateExpense(userID, p)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, txn)
}

func UpdateExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	id := vars["id"]

	var p services.ExpenseParams
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if p.Installments == 0 {
		p.Installments = 1
	}

	txn, err := services.UpdateExpense(userID, id, p)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, txn)
}

func DeleteExpense(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	id := vars["id"]

	if err := services.DeleteExpense(userID, id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
