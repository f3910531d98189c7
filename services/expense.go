package services

import (
	"database/sql"
	"fmt"

	"centavo/backend/models"

	"github.com/google/uuid"
)

// ExpenseParams describe a purchase to record, possibly split into
// installments.
type ExpenseParams struct {
	Description  string `json:"description"`
	TotalAmount  int64  `json:"totalAmount"`
	Installments int    `json:"installments"`
	CategoryID   string `json:"categoryId"`
	AccountID    string `json:"accountId"`
	PurchaseDate string `json:"purchaseDate"`
}

func (p *ExpenseParams) validate() error {
	if p.Description == "" {
		return models.NewValidationError("description", "description is required")
	}
	if p.TotalAmount <= 0 {
		return models.NewValidationError("totalAmount", "amount must be positive, got %d", p.TotalAmount)
	}
	if p.Installments < 1 {
		return models.NewValidationError("installments", "installments must be at least 1, got %d", p.Installments)
	}
	if _, err := ParseDate(p.PurchaseDate); err != nil {
		return err
	}
	return nil
}

// splitInstallments divides total cents over n installments without losing
// cents: the first total%n installments carry one extra cent.
func splitInstallments(total int64, n int) []int64 {
	base := total / int64(n)
	extra := total % int64(n)
	amounts := make([]int64, n)
	for i := range amounts {
		amounts[i] = base
		if int64(i) < extra {
			amounts[i]++
		}
	}
	return amounts
}

// CreateExpense records a purchase as a transaction plus one entry per
// installment, re-aggregates every statement the entries land in, and
// re-syncs the account balance, all in one transaction.
func CreateExpense(userID string, p ExpenseParams) (*models.Transaction, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	var txn *models.Transaction
	err := withTx(func(tx *sql.Tx) error {
		account, err := loadAccount(tx, userID, p.AccountID)
		if err != nil {
			return err
		}
		if err := checkCategory(tx, userID, p.CategoryID); err != nil {
			return err
		}

		txn = &models.Transaction{
			ID:                uuid.NewString(),
			UserID:            userID,
			Description:       p.Description,
			TotalAmount:       p.TotalAmount,
			TotalInstallments: p.Installments,
			CategoryID:        p.CategoryID,
		}
		_, err = tx.Exec(`
			INSERT INTO transactions (id, user_id, description, total_amount, total_installments, category_id, refunded_amount)
			VALUES (?, ?, ?, ?, ?, ?, 0)
		`, txn.ID, userID, p.Description, p.TotalAmount, p.Installments, p.CategoryID)
		if err != nil {
			return fmt.Errorf("failed to insert transaction: %w", err)
		}

		entries, err := buildEntries(userID, txn.ID, account, p)
		if err != nil {
			return err
		}
		for _, e := range entries {
			_, err = tx.Exec(`
				INSERT INTO entries (id, user_id, transaction_id, installment, account_id, amount, purchase_date, due_date, paid_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL)
			`, e.ID, e.UserID, e.TransactionID, e.Installment, e.AccountID, e.Amount, e.PurchaseDate, e.DueDate)
			if err != nil {
				return fmt.Errorf("failed to insert entry: %w", err)
			}
		}
		txn.Entries = entries

		if err := reaggregateEntryFaturas(tx, userID, account, entries); err != nil {
			return err
		}
		return SyncAccountBalance(tx, userID, p.AccountID)
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// buildEntries derives the installment rows. Installment i is due one
// calendar month after installment i-1; for credit cards that lands each one
// in the next statement window.
func buildEntries(userID, transactionID string, account *models.Account, p ExpenseParams) ([]models.Entry, error) {
	amounts := splitInstallments(p.TotalAmount, p.Installments)
	entries := make([]models.Entry, 0, p.Installments)
	for i, amount := range amounts {
		dueDate, err := AddMonths(p.PurchaseDate, i)
		if err != nil {
			return nil, err
		}
		entries = append(entries, models.Entry{
			ID:            uuid.NewString(),
			UserID:        userID,
			TransactionID: transactionID,
			Installment:   i + 1,
			AccountID:     account.ID,
			Amount:        amount,
			PurchaseDate:  p.PurchaseDate,
			DueDate:       dueDate,
		})
	}
	return entries, nil
}

// reaggregateEntryFaturas upserts the statement of every distinct month the
// given entries bill into. No-op for non credit card accounts.
func reaggregateEntryFaturas(tx *sql.Tx, userID string, account *models.Account, entries []models.Entry) error {
	if !account.IsCreditCard() {
		return nil
	}
	months := map[string]bool{}
	for _, e := range entries {
		ym, err := FaturaMonthFor(e.DueDate, account.ClosingDay)
		if err != nil {
			return err
		}
		if !months[ym] {
			months[ym] = true
			if _, err := UpsertFaturaTotal(tx, userID, account.ID, ym); err != nil {
				return err
			}
		}
	}
	return nil
}

// UpdateExpense replaces a purchase's fields and re-derives its entries.
// Both the old and new account (when the expense moves) are re-synced, and
// every statement touched on either side is re-aggregated.
func UpdateExpense(userID, transactionID string, p ExpenseParams) (*models.Transaction, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	var txn *models.Transaction
	err := withTx(func(tx *sql.Tx) error {
		old, err := loadTransaction(tx, userID, transactionID)
		if err != nil {
			return err
		}
		if p.TotalAmount < old.RefundedAmount {
			return models.NewConstraintError(
				"total amount %d cannot drop below already refunded %d", p.TotalAmount, old.RefundedAmount)
		}

		oldEntries, err := loadEntries(tx, userID, transactionID)
		if err != nil {
			return err
		}

		newAccount, err := loadAccount(tx, userID, p.AccountID)
		if err != nil {
			return err
		}
		if err := checkCategory(tx, userID, p.CategoryID); err != nil {
			return err
		}

		if _, err := tx.Exec(`DELETE FROM entries WHERE transaction_id = ? AND user_id = ?`, transactionID, userID); err != nil {
			return fmt.Errorf("failed to delete old entries: %w", err)
		}
		_, err = tx.Exec(`
			UPDATE transactions
			SET description = ?, total_amount = ?, total_installments = ?, category_id = ?
			WHERE id = ? AND user_id = ?
		`, p.Description, p.TotalAmount, p.Installments, p.CategoryID, transactionID, userID)
		if err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}

		entries, err := buildEntries(userID, transactionID, newAccount, p)
		if err != nil {
			return err
		}
		for _, e := range entries {
			_, err = tx.Exec(`
				INSERT INTO entries (id, user_id, transaction_id, installment, account_id, amount, purchase_date, due_date, paid_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, NULL)
			`, e.ID, e.UserID, e.TransactionID, e.Installment, e.AccountID, e.Amount, e.PurchaseDate, e.DueDate)
			if err != nil {
				return fmt.Errorf("failed to insert entry: %w", err)
			}
		}

		txn = &models.Transaction{
			ID:                transactionID,
			UserID:            userID,
			Description:       p.Description,
			TotalAmount:       p.TotalAmount,
			TotalInstallments: p.Installments,
			CategoryID:        p.CategoryID,
			RefundedAmount:    old.RefundedAmount,
			Entries:           entries,
		}

		return resyncAfterEntryChange(tx, userID, oldEntries, entries)
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// DeleteExpense removes a purchase and its entries. Purchases with refunds
// recorded against them must have the refunds deleted first, otherwise the
// refund income rows would dangle.
func DeleteExpense(userID, transactionID string) error {
	return withTx(func(tx *sql.Tx) error {
		txn, err := loadTransaction(tx, userID, transactionID)
		if err != nil {
			return err
		}
		if txn.RefundedAmount > 0 {
			return models.NewConstraintError(
				"transaction %s has refunds recorded against it; delete the refunds first", transactionID)
		}

		oldEntries, err := loadEntries(tx, userID, transactionID)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(`DELETE FROM entries WHERE transaction_id = ? AND user_id = ?`, transactionID, userID); err != nil {
			return fmt.Errorf("failed to delete entries: %w", err)
		}
		if _, err := tx.Exec(`DELETE FROM transactions WHERE id = ? AND user_id = ?`, transactionID, userID); err != nil {
			return fmt.Errorf("failed to delete transaction: %w", err)
		}

		return resyncAfterEntryChange(tx, userID, oldEntries, nil)
	})
}

// resyncAfterEntryChange re-aggregates every statement and re-syncs every
// account touched by an entry change, on both the before and after side.
func resyncAfterEntryChange(tx *sql.Tx, userID string, before, after []models.Entry) error {
	accounts := map[string]bool{}
	for _, e := range before {
		accounts[e.AccountID] = true
	}
	for _, e := range after {
		accounts[e.AccountID] = true
	}

	for accountID := range accounts {
		account, err := loadAccount(tx, userID, accountID)
		if err != nil {
			return err
		}
		if account.IsCreditCard() {
			var entries []models.Entry
			for _, e := range before {
				if e.AccountID == accountID {
					entries = append(entries, e)
				}
			}
			for _, e := range after {
				if e.AccountID == accountID {
					entries = append(entries, e)
				}
			}
			if err := reaggregateEntryFaturas(tx, userID, account, entries); err != nil {
				return err
			}
		}
		if err := SyncAccountBalance(tx, userID, accountID); err != nil {
			return err
		}
	}
	return nil
}

func loadEntries(q DBTX, userID, transactionID string) ([]models.Entry, error) {
	rows, err := q.Query(`
		SELECT id, user_id, transaction_id, installment, account_id, amount, purchase_date, due_date, paid_at
		FROM entries
		WHERE transaction_id = ? AND user_id = ?
		ORDER BY installment
	`, transactionID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var entries []models.Entry
	for rows.Next() {
		var e models.Entry
		var paidAt sql.NullString
		err := rows.Scan(&e.ID, &e.UserID, &e.TransactionID, &e.Installment, &e.AccountID, &e.Amount, &e.PurchaseDate, &e.DueDate, &paidAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		if paidAt.Valid {
			e.PaidAt = paidAt.String
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func checkCategory(q DBTX, userID, categoryID string) error {
	var id string
	err := q.QueryRow(`SELECT id FROM categories WHERE id = ? AND user_id = ?`, categoryID, userID).Scan(&id)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.NewNotFoundError("category", categoryID)
		}
		return fmt.Errorf("failed to query category: %w", err)
	}
	return nil
}
