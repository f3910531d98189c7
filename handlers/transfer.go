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

func GetTransfers(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	query := `
		SELECT id, user_id, type, from_account_id, to_account_id, amount, date, ignored, fatura_id
		FROM transfers
		WHERE user_id = ?
	`
	args := []interface{}{userID}

	accountID := r.URL.Query().Get("accountId")
	if accountID != "" {
		query += " AND (from_account_id = ? OR to_account_id = ?)"
		args = append(args, accountID, accountID)
	}

	query += " ORDER BY date DESC"

	rows, err := database.DB.Query(query, args...)
	if err != nil {
		writeError(w, err)
		return
	}
	defer rows.Close()

	var transfers []models.Transfer
	for rows.Next() {
		var t models.Transfer
		var from, to, faturaID sql.NullString
		err := rows.Scan(&t.ID, &t.UserID, &t.Type, &from, &to, &t.Amount, &t.Date, &t.Ignored, &faturaID)
		if err != nil {
			writeError(w, err)
			return
		}
		if from.Valid {
			t.FromAccountID = from.String
		}
		if to.Valid {
			t.ToAccountID = to.String
		}
		if faturaID.Valid {
			t.FaturaID = faturaID.String
		}
		transfers = append(transfers, t)
	}
	if err := rows.Err(); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, transfers)
}

func AddTransfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var p services.TransferParams
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	transfer, err := services.CreateTransfer(userID, p)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, transfer)
}

func UpdateTransfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	id := vars["id"]

	var p services.TransferParams
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	transfer, err := services.UpdateTransfer(userID, id, p)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, transfer)
}

func DeleteTransfer(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	id := vars["id"]

	if err := services.DeleteTransfer(userID, id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func ToggleTransferIgnored(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	id := vars["id"]

	transfer, err := services.ToggleTransferIgnored(userID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, transfer)
}
