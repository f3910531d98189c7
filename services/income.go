package services

import (
	"database/sql"
	"fmt"

	"centavo/backend/models"

	"github.com/google/uuid"
)

// IncomeParams describe an income row to create or update. ReceivedAt may be
// empty for pending income.
type IncomeParams struct {
	AccountID           string `json:"accountId"`
	Description         string `json:"description"`
	Amount              int64  `json:"amount"`
	Date                string `json:"date"`
	ReceivedAt          string `json:"receivedAt,omitempty"`
	CategoryID          string `json:"categoryId,omitempty"`
	ReplenishCategoryID string `json:"replenishCategoryId,omitempty"`
}

func (p *IncomeParams) validate() error {
	if p.Description == "" {
		return models.NewValidationError("description", "description is required")
	}
	if p.Amount <= 0 {
		return models.NewValidationError("amount", "amount must be positive, got %d", p.Amount)
	}
	if _, err := ParseDate(p.Date); err != nil {
		return err
	}
	if p.ReceivedAt != "" {
		if _, err := ParseDate(p.ReceivedAt); err != nil {
			return err
		}
	}
	return nil
}

// CreateIncome records an income row and re-syncs the account balance.
// Pending income (no receivedAt) does not move the balance until it is
// marked received.
func CreateIncome(userID string, p IncomeParams) (*models.Income, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	income := &models.Income{
		ID:                  uuid.NewString(),
		UserID:              userID,
		AccountID:           p.AccountID,
		Description:         p.Description,
		Amount:              p.Amount,
		Date:                p.Date,
		ReceivedAt:          p.ReceivedAt,
		CategoryID:          p.CategoryID,
		ReplenishCategoryID: p.ReplenishCategoryID,
	}

	err := withTx(func(tx *sql.Tx) error {
		if _, err := loadAccount(tx, userID, p.AccountID); err != nil {
			return err
		}
		if p.CategoryID != "" {
			if err := checkCategory(tx, userID, p.CategoryID); err != nil {
				return err
			}
		}
		if p.ReplenishCategoryID != "" {
			if err := checkCategory(tx, userID, p.ReplenishCategoryID); err != nil {
				return err
			}
		}

		_, err := tx.Exec(`
			INSERT INTO incomes (id, user_id, account_id, description, amount, date, received_at, category_id, replenish_category_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, income.ID, userID, p.AccountID, p.Description, p.Amount, p.Date,
			nullable(p.ReceivedAt), nullable(p.CategoryID), nullable(p.ReplenishCategoryID))
		if err != nil {
			return fmt.Errorf("failed to insert income: %w", err)
		}

		return SyncAccountBalance(tx, userID, p.AccountID)
	})
	if err != nil {
		return nil, err
	}
	return income, nil
}

// UpdateIncome rewrites an income row. Refund rows are managed by the refund
// operations and rejected here; moving income between accounts re-syncs
// both sides.
func UpdateIncome(userID, incomeID string, p IncomeParams) (*models.Income, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	var income *models.Income
	err := withTx(func(tx *sql.Tx) error {
		old, err := loadIncome(tx, userID, incomeID)
		if err != nil {
			return err
		}
		if old.IsRefund() {
			return models.NewConstraintError("income %s is a refund; use the refund operations", incomeID)
		}
		if _, err := loadAccount(tx, userID, p.AccountID); err != nil {
			return err
		}

		_, err = tx.Exec(`
			UPDATE incomes
			SET account_id = ?, description = ?, amount = ?, date = ?, received_at = ?, category_id = ?, replenish_category_id = ?
			WHERE id = ? AND user_id = ?
		`, p.AccountID, p.Description, p.Amount, p.Date,
			nullable(p.ReceivedAt), nullable(p.CategoryID), nullable(p.ReplenishCategoryID),
			incomeID, userID)
		if err != nil {
			return fmt.Errorf("failed to update income: %w", err)
		}

		if old.AccountID != p.AccountID {
			if err := SyncAccountBalance(tx, userID, old.AccountID); err != nil {
				return err
			}
		}
		if err := SyncAccountBalance(tx, userID, p.AccountID); err != nil {
			return err
		}

		income, err = loadIncome(tx, userID, incomeID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return income, nil
}

// MarkIncomeReceived stamps the income as received on the given date and
// re-syncs the balance. This is the moment a pending row (including a
// pending refund) starts counting toward the account balance.
func MarkIncomeReceived(userID, incomeID, receivedAt string) error {
	if _, err := ParseDate(receivedAt); err != nil {
		return err
	}
	return setIncomeReceived(userID, incomeID, receivedAt)
}

// MarkIncomePending clears the received stamp and re-syncs the balance.
func MarkIncomePending(userID, incomeID string) error {
	return setIncomeReceived(userID, incomeID, "")
}

func setIncomeReceived(userID, incomeID, receivedAt string) error {
	return withTx(func(tx *sql.Tx) error {
		income, err := loadIncome(tx, userID, incomeID)
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
			UPDATE incomes SET received_at = ? WHERE id = ? AND user_id = ?
		`, nullable(receivedAt), incomeID, userID)
		if err != nil {
			return fmt.Errorf("failed to update income received state: %w", err)
		}

		return SyncAccountBalance(tx, userID, income.AccountID)
	})
}

// DeleteIncome removes a non-refund income row and re-syncs the balance.
// Refund rows must go through DeleteRefund so the transaction's refunded
// amount is wound back too.
func DeleteIncome(userID, incomeID string) error {
	return withTx(func(tx *sql.Tx) error {
		income, err := loadIncome(tx, userID, incomeID)
		if err != nil {
			return err
		}
		if income.IsRefund() {
			return models.NewConstraintError("income %s is a refund; use the refund operations", incomeID)
		}

		if _, err := tx.Exec(`DELETE FROM incomes WHERE id = ? AND user_id = ?`, incomeID, userID); err != nil {
			return fmt.Errorf("failed to delete income: %w", err)
		}

		return SyncAccountBalance(tx, userID, income.AccountID)
	})
}

func loadIncome(q DBTX, userID, incomeID string) (*models.Income, error) {
	var i models.Income
	var receivedAt, categoryID, replenishID, refundOf, faturaMonth sql.NullString
	err := q.QueryRow(`
		SELECT id, user_id, account_id, description, amount, date, received_at, category_id, replenish_category_id, refund_of_transaction_id, fatura_month
		FROM incomes
		WHERE id = ? AND user_id = ?
	`, incomeID, userID).Scan(
		&i.ID, &i.UserID, &i.AccountID, &i.Description, &i.Amount, &i.Date,
		&receivedAt, &categoryID, &replenishID, &refundOf, &faturaMonth,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.NewNotFoundError("income", incomeID)
		}
		return nil, fmt.Errorf("failed to query income: %w", err)
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
	return &i, nil
}
