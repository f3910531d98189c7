package services

import (
	"database/sql"
	"fmt"

	"centavo/backend/models"

	"github.com/google/uuid"
)

// RefundParams describe a refund to record against a transaction.
type RefundParams struct {
	TransactionID string `json:"transactionId"`
	Amount        int64  `json:"amount"`
	RefundDate    string `json:"refundDate"`
	FaturaMonth   string `json:"faturaMonth,omitempty"`
	Description   string `json:"description,omitempty"`
}

// CreateRefund records a refund as a pending income row linked to the
// transaction, bumps the transaction's refunded amount, re-aggregates the
// credited fatura when the account is a credit card, and re-syncs the
// account balance. All of it commits or rolls back together.
//
// The refund may not exceed the remaining refundable balance
// (totalAmount - refundedAmount).
func CreateRefund(userID string, p RefundParams) (*models.Income, error) {
	if p.Amount <= 0 {
		return nil, models.NewValidationError("amount", "refund amount must be positive, got %d", p.Amount)
	}
	if _, err := ParseDate(p.RefundDate); err != nil {
		return nil, err
	}
	if p.FaturaMonth != "" {
		if _, _, err := ParseYearMonth(p.FaturaMonth); err != nil {
			return nil, err
		}
	}

	var income *models.Income
	err := withTx(func(tx *sql.Tx) error {
		txn, err := loadTransaction(tx, userID, p.TransactionID)
		if err != nil {
			return err
		}

		remaining := txn.TotalAmount - txn.RefundedAmount
		if p.Amount > remaining {
			return models.NewValidationError("amount",
				"refund of %d exceeds remaining refundable amount %d", p.Amount, remaining)
		}

		// The refund credit needs a category to land in; resolve it from the
		// refunded transaction. A transaction whose category was deleted
		// cannot be refunded.
		var categoryID string
		err = tx.QueryRow(`
			SELECT id FROM categories WHERE id = ? AND user_id = ?
		`, txn.CategoryID, userID).Scan(&categoryID)
		if err != nil {
			if err == sql.ErrNoRows {
				return models.NewValidationError("transactionId",
					"transaction %s has no resolvable income category for the refund", p.TransactionID)
			}
			return fmt.Errorf("failed to resolve refund category: %w", err)
		}

		// The refund credits the account the purchase was made on.
		var accountID string
		err = tx.QueryRow(`
			SELECT account_id FROM entries
			WHERE transaction_id = ? AND user_id = ?
			ORDER BY installment LIMIT 1
		`, p.TransactionID, userID).Scan(&accountID)
		if err != nil {
			if err == sql.ErrNoRows {
				return models.NewValidationError("transactionId",
					"transaction %s has no entries to refund against", p.TransactionID)
			}
			return fmt.Errorf("failed to resolve refund account: %w", err)
		}

		description := p.Description
		if description == "" {
			description = "Refund: " + txn.Description
		}

		income = &models.Income{
			ID:                    uuid.NewString(),
			UserID:                userID,
			AccountID:             accountID,
			Description:           description,
			Amount:                p.Amount,
			Date:                  p.RefundDate,
			CategoryID:            categoryID,
			RefundOfTransactionID: p.TransactionID,
			FaturaMonth:           p.FaturaMonth,
		}

		// Refunds default to pending; the balance only moves once the money
		// actually arrives and the row is marked received.
		_, err = tx.Exec(`
			INSERT INTO incomes (id, user_id, account_id, description, amount, date, received_at, category_id, refund_of_transaction_id, fatura_month)
			VALUES (?, ?, ?, ?, ?, ?, NULL, ?, ?, ?)
		`, income.ID, userID, accountID, description, p.Amount, p.RefundDate, categoryID, p.TransactionID, nullable(p.FaturaMonth))
		if err != nil {
			return fmt.Errorf("failed to insert refund income: %w", err)
		}

		_, err = tx.Exec(`
			UPDATE transactions SET refunded_amount = refunded_amount + ? WHERE id = ?
		`, p.Amount, p.TransactionID)
		if err != nil {
			return fmt.Errorf("failed to update refunded amount: %w", err)
		}

		account, err := loadAccount(tx, userID, accountID)
		if err != nil {
			return err
		}
		if account.IsCreditCard() && p.FaturaMonth != "" {
			if _, err := UpsertFaturaTotal(tx, userID, accountID, p.FaturaMonth); err != nil {
				return err
			}
		}

		return SyncAccountBalance(tx, userID, accountID)
	})
	if err != nil {
		return nil, err
	}
	return income, nil
}

// DeleteRefund removes a refund income row, winds the transaction's
// refunded amount back (never below zero), and re-drives the fatura total
// and account balance.
func DeleteRefund(userID, incomeID string) error {
	return withTx(func(tx *sql.Tx) error {
		var accountID, transactionID string
		var amount int64
		var faturaMonth sql.NullString
		err := tx.QueryRow(`
			SELECT account_id, refund_of_transaction_id, amount, fatura_month
			FROM incomes
			WHERE id = ? AND user_id = ? AND refund_of_transaction_id IS NOT NULL
		`, incomeID, userID).Scan(&accountID, &transactionID, &amount, &faturaMonth)
		if err != nil {
			if err == sql.ErrNoRows {
				return models.NewNotFoundError("refund", incomeID)
			}
			return fmt.Errorf("failed to query refund: %w", err)
		}

		if _, err := tx.Exec(`DELETE FROM incomes WHERE id = ?`, incomeID); err != nil {
			return fmt.Errorf("failed to delete refund income: %w", err)
		}

		txn, err := loadTransaction(tx, userID, transactionID)
		if err != nil {
			return err
		}
		refunded := txn.RefundedAmount - amount
		if refunded < 0 {
			refunded = 0
		}
		_, err = tx.Exec(`
			UPDATE transactions SET refunded_amount = ? WHERE id = ?
		`, refunded, transactionID)
		if err != nil {
			return fmt.Errorf("failed to update refunded amount: %w", err)
		}

		account, err := loadAccount(tx, userID, accountID)
		if err != nil {
			return err
		}
		if account.IsCreditCard() && faturaMonth.Valid {
			if _, err := UpsertFaturaTotal(tx, userID, accountID, faturaMonth.String); err != nil {
				return err
			}
		}

		return SyncAccountBalance(tx, userID, accountID)
	})
}

// nullable maps an empty string to SQL NULL.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
