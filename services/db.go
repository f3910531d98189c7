package services

import (
	"database/sql"
	"fmt"

	"centavo/backend/database"
	"centavo/backend/models"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so the recompute functions
// can run inside a caller's transaction or standalone.
type DBTX interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// withTx runs fn inside a transaction on the shared database handle. Any
// error rolls the whole transaction back so ledger writes and the dependent
// recomputes commit or fail together.
func withTx(fn func(tx *sql.Tx) error) error {
	tx, err := database.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// loadAccount fetches an account owned by userID.
func loadAccount(q DBTX, userID, accountID string) (*models.Account, error) {
	var a models.Account
	var closingDay, paymentDueDay, creditLimit sql.NullInt64
	err := q.QueryRow(`
		SELECT id, user_id, name, type, current_balance, closing_day, payment_due_day, credit_limit
		FROM accounts
		WHERE id = ? AND user_id = ?
	`, accountID, userID).Scan(
		&a.ID, &a.UserID, &a.Name, &a.Type, &a.CurrentBalance,
		&closingDay, &paymentDueDay, &creditLimit,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.NewNotFoundError("account", accountID)
		}
		return nil, fmt.Errorf("failed to query account: %w", err)
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
	return &a, nil
}

// loadTransaction fetches a transaction owned by userID.
func loadTransaction(q DBTX, userID, transactionID string) (*models.Transaction, error) {
	var t models.Transaction
	err := q.QueryRow(`
		SELECT id, user_id, description, total_amount, total_installments, category_id, refunded_amount
		FROM transactions
		WHERE id = ? AND user_id = ?
	`, transactionID, userID).Scan(
		&t.ID, &t.UserID, &t.Description, &t.TotalAmount,
		&t.TotalInstallments, &t.CategoryID, &t.RefundedAmount,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.NewNotFoundError("transaction", transactionID)
		}
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}
	return &t, nil
}
