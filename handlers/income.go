package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"centavo/backend/database"
	"centavo/backend/models"
	"centavo/backend/services"

	"github.com/gorilla/mux"
)

func GetIncomes(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	query := `
		SELECT id, user_id, account_id, description, amount, date, received_at, category_id, replenish_category_id, refund_of_transaction_id, fatura_month
		FROM incomes
		WHERE user_id = ?
	`
	args := []interface{}{userID}

	accountID := r.URL.Query().Get("accountId")
	if accountID != "" {
		query += " AND account_id = ?"
		args = append(args, accountID)
	}
	pending := r.URL.Query().Get("pending")
	if pending == "true" {
		query += " AND received_at IS NULL"
	} else if pending == "false" {
		query += " AND received_at IS NOT NULL"
	}

	query += " ORDER BY date DESC"

	rows, err := database.DB.Query(query, args...)
	if err != nil {
		writeError(w, err)
		return
	}
	defer rows.Close()

	var incomes []models.Income
	for rows.Next() {
		var i models.Income
		var receivedAt, categoryID, replenishID, refundOf, faturaMonth sql.NullString
		err := rows.Scan(&i.ID, &i.UserID, &i.AccountID, &i.Description, &i.Amount, &i.Date,
			&receivedAt, &categoryID, &replenishID, &refundOf, &faturaMonth)
		if err != nil {
			writeError(w, err)
			return
		}
		if receivedAt.Valid {
			i.ReceivedAt = receivedAt.String
		}
		if categoryID.Valid {
			i.CategoryID = categoryID.String
		}
		if replenishID.Valid {
			i.ReplenishCategoryID = replenishID.String
		}
		if refundOf.Valid {
			i.RefundOfTransactionID = refundOf.String
		}
		if faturaMonth.Valid {
			i.FaturaMonth = faturaMonth.String
		}
		incomes = append(incomes, i)
	}
	if err := rows.Err(); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, incomes)
}

func AddIncome(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var p services.IncomeParams
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	income, err := services.CreateIncome(userID, p)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, income)
}

func UpdateIncome(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	id := vars["id"]

	var p services.IncomeParams
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	income, err := services.UpdateIncome(userID, id, p)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, income)
}

func DeleteIncome(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	id := vars["id"]

	if err := services.DeleteIncome(userID, id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// MarkIncomeReceived stamps a pending income (or refund) as received, the
// point at which it starts counting toward the account balance.
func MarkIncomeReceived(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	id := vars["id"]

	var body struct {
		ReceivedAt string `json:"receivedAt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := services.MarkIncomeReceived(userID, id, body.ReceivedAt); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func MarkIncomePending(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	id := vars["id"]

	if err := services.MarkIncomePending(userID, id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
