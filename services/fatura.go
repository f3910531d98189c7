package services

import (
	"database/sql"
	"fmt"

	"centavo/backend/models"

	"github.com/google/uuid"
)

// UpsertFaturaTotal recomputes the statement total for (account, yearMonth)
// from the ledger rows and upserts the fatura row. The total is the sum of
// entry amounts whose due date falls inside the statement window, minus
// refunds credited to that month. The aggregation is always re-read inside
// the caller's transaction before the write; the fatura row is never
// incremented blindly or edited directly.
func UpsertFaturaTotal(q DBTX, userID, accountID, yearMonth string) (*models.Fatura, error) {
	account, err := loadAccount(q, userID, accountID)
	if err != nil {
		return nil, err
	}
	if !account.IsCreditCard() {
		return nil, models.NewValidationError("accountId", "account %s is not a credit card", accountID)
	}

	start, end, err := FaturaWindow(yearMonth, account.ClosingDay)
	if err != nil {
		return nil, err
	}

	var entriesTotal int64
	err = q.QueryRow(`
		SELECT COALESCE(SUM(amount), 0)
		FROM entries
		WHERE user_id = ? AND account_id = ? AND due_date >= ? AND due_date < ?
	`, userID, accountID, start, end).Scan(&entriesTotal)
	if err != nil {
		return nil, fmt.Errorf("failed to sum statement entries: %w", err)
	}

	var refundTotal int64
	err = q.QueryRow(`
		SELECT COALESCE(SUM(amount), 0)
		FROM incomes
		WHERE user_id = ? AND account_id = ? AND refund_of_transaction_id IS NOT NULL AND fatura_month = ?
	`, userID, accountID, yearMonth).Scan(&refundTotal)
	if err != nil {
		return nil, fmt.Errorf("failed to sum statement refunds: %w", err)
	}

	total := entriesTotal - refundTotal

	_, err = q.Exec(`
		INSERT INTO faturas (id, user_id, account_id, year_month, total_amount)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(account_id, year_month) DO UPDATE SET total_amount = excluded.total_amount
	`, uuid.NewString(), userID, accountID, yearMonth, total)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert fatura: %w", err)
	}

	return getFatura(q, userID, accountID, yearMonth)
}

func getFatura(q DBTX, userID, accountID, yearMonth string) (*models.Fatura, error) {
	var f models.Fatura
	var paidAt, paidFrom sql.NullString
	err := q.QueryRow(`
		SELECT id, user_id, account_id, year_month, total_amount, paid_at, paid_from_account_id
		FROM faturas
		WHERE user_id = ? AND account_id = ? AND year_month = ?
	`, userID, accountID, yearMonth).Scan(
		&f.ID, &f.UserID, &f.AccountID, &f.YearMonth, &f.TotalAmount, &paidAt, &paidFrom,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.NewNotFoundError("fatura", accountID+"/"+yearMonth)
		}
		return nil, fmt.Errorf("failed to query fatura: %w", err)
	}
	if paidAt.Valid {
		f.PaidAt = paidAt.String
	}
	if paidFrom.Valid {
		f.PaidFromAccountID = paidFrom.String
	}
	return &f, nil
}

func getFaturaByID(q DBTX, userID, faturaID string) (*models.Fatura, error) {
	var f models.Fatura
	var paidAt, paidFrom sql.NullString
	err := q.QueryRow(`
		SELECT id, user_id, account_id, year_month, total_amount, paid_at, paid_from_account_id
		FROM faturas
		WHERE id = ? AND user_id = ?
	`, faturaID, userID).Scan(
		&f.ID, &f.UserID, &f.AccountID, &f.YearMonth, &f.TotalAmount, &paidAt, &paidFrom,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.NewNotFoundError("fatura", faturaID)
		}
		return nil, fmt.Errorf("failed to query fatura: %w", err)
	}
	if paidAt.Valid {
		f.PaidAt = paidAt.String
	}
	if paidFrom.Valid {
		f.PaidFromAccountID = paidFrom.String
	}
	return &f, nil
}

// GetFatura returns one statement, upserting it first so a never-materialized
// month still reads back with a fresh total.
func GetFatura(userID, accountID, yearMonth string) (*models.Fatura, error) {
	var fatura *models.Fatura
	err := withTx(func(tx *sql.Tx) error {
		var err error
		fatura, err = UpsertFaturaTotal(tx, userID, accountID, yearMonth)
		return err
	})
	return fatura, err
}

// ListFaturas returns all materialized statements of an account, newest
// first.
func ListFaturas(q DBTX, userID, accountID string) ([]models.Fatura, error) {
	if _, err := loadAccount(q, userID, accountID); err != nil {
		return nil, err
	}

	rows, err := q.Query(`
		SELECT id, user_id, account_id, year_month, total_amount, paid_at, paid_from_account_id
		FROM faturas
		WHERE user_id = ? AND account_id = ?
		ORDER BY year_month DESC
	`, userID, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query faturas: %w", err)
	}
	defer rows.Close()

	var faturas []models.Fatura
	for rows.Next() {
		var f models.Fatura
		var paidAt, paidFrom sql.NullString
		err := rows.Scan(&f.ID, &f.UserID, &f.AccountID, &f.YearMonth, &f.TotalAmount, &paidAt, &paidFrom)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fatura: %w", err)
		}
		if paidAt.Valid {
			f.PaidAt = paidAt.String
		}
		if paidFrom.Valid {
			f.PaidFromAccountID = paidFrom.String
		}
		faturas = append(faturas, f)
	}
	return faturas, rows.Err()
}

// PayFatura settles a statement from another account: records paid_at and
// paid_from_account_id, creates the locked fatura_payment transfer, and
// re-syncs both balances, all in one transaction.
func PayFatura(userID, faturaID, fromAccountID, paidAt string) (*models.Fatura, error) {
	if _, err := ParseDate(paidAt); err != nil {
		return nil, err
	}

	var fatura *models.Fatura
	err := withTx(func(tx *sql.Tx) error {
		f, err := getFaturaByID(tx, userID, faturaID)
		if err != nil {
			return err
		}
		if f.Paid() {
			return models.NewConstraintError("fatura %s is already paid", faturaID)
		}
		if _, err := loadAccount(tx, userID, fromAccountID); err != nil {
			return err
		}
		if fromAccountID == f.AccountID {
			return models.NewConstraintError("fatura cannot be paid from the card account itself")
		}

		_, err = tx.Exec(`
			UPDATE faturas SET paid_at = ?, paid_from_account_id = ? WHERE id = ?
		`, paidAt, fromAccountID, f.ID)
		if err != nil {
			return fmt.Errorf("failed to mark fatura paid: %w", err)
		}

		_, err = tx.Exec(`
			INSERT INTO transfers (id, user_id, type, from_account_id, to_account_id, amount, date, ignored, fatura_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?)
		`, uuid.NewString(), userID, models.TransferFaturaPayment, fromAccountID, f.AccountID, f.TotalAmount, paidAt, f.ID)
		if err != nil {
			return fmt.Errorf("failed to create fatura payment transfer: %w", err)
		}

		if err := SyncAccountBalance(tx, userID, fromAccountID); err != nil {
			return err
		}
		if err := SyncAccountBalance(tx, userID, f.AccountID); err != nil {
			return err
		}

		fatura, err = getFaturaByID(tx, userID, f.ID)
		return err
	})
	return fatura, err
}
