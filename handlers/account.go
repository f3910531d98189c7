package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"centavo/backend/database"
	"centavo/backend/models"
	"centavo/backend/services"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

func GetAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	rows, err := database.DB.Query(`
		SELECT id, user_id, name, type, current_balance, closing_day, payment_due_day, credit_limit
		FROM accounts
		WHERE user_id = ?
		ORDER BY name
	`, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var a models.Account
		var closingDay, paymentDueDay, creditLimit sql.NullInt64
		err := rows.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &a.CurrentBalance, &closingDay, &paymentDueDay, &creditLimit)
		if err != nil {
			writeError(w, err)
			return
		}
		if closingDay.Valid {
			a.ClosingDay = int(closingDay.Int64)
		}
		if paymentDueDay.Valid {
			a.PaymentDueDay = int(paymentDueDay.Int64)
		}
		if creditLimit.Valid {
			limit := creditLimit.Int64
			a.CreditLimit = &limit
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, accounts)
}

func AddAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var a models.Account
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if a.Name == "" {
		writeError(w, models.NewValidationError("name", "name is required"))
		return
	}
	if !models.ValidAccountType(a.Type) {
		writeError(w, models.NewValidationError("type", "unknown account type %q", a.Type))
		return
	}
	if a.Type == models.AccountCreditCard {
		if a.ClosingDay < 1 || a.ClosingDay > 28 {
			writeError(w, models.NewValidationError("closingDay", "closing day %d out of range 1-28", a.ClosingDay))
			return
		}
		if a.PaymentDueDay < 1 || a.PaymentDueDay > 28 {
			writeError(w, models.NewValidationError("paymentDueDay", "payment due day %d out of range 1-28", a.PaymentDueDay))
			return
		}
	}

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.UserID = userID
	a.CurrentBalance = 0

	var closingDay, paymentDueDay, creditLimit interface{}
	if a.Type == models.AccountCreditCard {
		closingDay = a.ClosingDay
		paymentDueDay = a.PaymentDueDay
		if a.CreditLimit != nil {
			creditLimit = *a.CreditLimit
		}
	}

	_, err := database.DB.Exec(`
		INSERT INTO accounts (id, user_id, name, type, current_balance, closing_day, payment_due_day, credit_limit)
		VALUES (?, ?, ?, ?, 0, ?, ?, ?)
	`, a.ID, userID, a.Name, a.Type, closingDay, paymentDueDay, creditLimit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, a)
}

// GetAccountBalance returns the cached balance together with the freshly
// aggregated formula inputs, so clients (and support staff) can see the two
// agree.
func GetAccountBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	accountID := vars["id"]

	inputs, err := services.GatherBalanceInputs(database.DB, userID, accountID)
	if err != nil {
		writeError(w, err)
		return
	}

	var cached int64
	err = database.DB.QueryRow(`
		SELECT current_balance FROM accounts WHERE id = ? AND user_id = ?
	`, accountID, userID).Scan(&cached)
	if err != nil {
		if err == sql.ErrNoRows {
			writeError(w, models.NewNotFoundError("account", accountID))
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"accountId":      accountID,
		"currentBalance": cached,
		"computed":       services.ComputeBalance(inputs),
		"inputs":         inputs,
	})
}

// SyncAccountBalance forces a recompute of the cached balance.
func SyncAccountBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	accountID := vars["id"]

	if err := services.SyncAccountBalance(database.DB, userID, accountID); err != nil {
		writeError(w, err)
		return
	}

	var balance int64
	err := database.DB.QueryRow(`
		SELECT current_balance FROM accounts WHERE id = ? AND user_id = ?
	`, accountID, userID).Scan(&balance)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"accountId":      accountID,
		"currentBalance": balance,
	})
}
