package services

import (
	"fmt"

	"centavo/backend/models"
)

// BalanceInputs are the four aggregates the account balance is derived from.
// All values are integer cents.
type BalanceInputs struct {
	TotalReceivedIncome int64 `json:"totalReceivedIncome"`
	TotalTransfersIn    int64 `json:"totalTransfersIn"`
	TotalTransfersOut   int64 `json:"totalTransfersOut"`
	TotalExpenses       int64 `json:"totalExpenses"`
}

// ComputeBalance is the balance formula. Pure integer arithmetic, no I/O.
//
// Pending income is excluded from TotalReceivedIncome by the caller, while
// expenses count regardless of paid status: money committed to a purchase is
// already spoken for, money promised to us is not ours yet.
func ComputeBalance(in BalanceInputs) int64 {
	return in.TotalReceivedIncome + in.TotalTransfersIn - in.TotalTransfersOut - in.TotalExpenses
}

// GatherBalanceInputs aggregates the formula inputs for one account straight
// from the ledger rows, never from cached values.
func GatherBalanceInputs(q DBTX, userID, accountID string) (BalanceInputs, error) {
	var in BalanceInputs

	err := q.QueryRow(`
		SELECT COALESCE(SUM(amount), 0)
		FROM incomes
		WHERE user_id = ? AND account_id = ? AND received_at IS NOT NULL
	`, userID, accountID).Scan(&in.TotalReceivedIncome)
	if err != nil {
		return in, fmt.Errorf("failed to sum received income: %w", err)
	}

	// Each transfer is counted once per account, on the side that names it,
	// so an internal transfer between two of the user's own accounts debits
	// one and credits the other.
	err = q.QueryRow(`
		SELECT COALESCE(SUM(amount), 0)
		FROM transfers
		WHERE user_id = ? AND to_account_id = ? AND ignored = 0
	`, userID, accountID).Scan(&in.TotalTransfersIn)
	if err != nil {
		return in, fmt.Errorf("failed to sum transfers in: %w", err)
	}

	err = q.QueryRow(`
		SELECT COALESCE(SUM(amount), 0)
		FROM transfers
		WHERE user_id = ? AND from_account_id = ? AND ignored = 0
	`, userID, accountID).Scan(&in.TotalTransfersOut)
	if err != nil {
		return in, fmt.Errorf("failed to sum transfers out: %w", err)
	}

	err = q.QueryRow(`
		SELECT COALESCE(SUM(amount), 0)
		FROM entries
		WHERE user_id = ? AND account_id = ?
	`, userID, accountID).Scan(&in.TotalExpenses)
	if err != nil {
		return in, fmt.Errorf("failed to sum expenses: %w", err)
	}

	return in, nil
}

// SyncAccountBalance recomputes the account's cached balance from its ledger
// rows and overwrites accounts.current_balance. This is the only code path
// that writes that column. Idempotent; safe to call repeatedly. When called
// with a *sql.Tx, a returned error must abort the caller's transaction so
// the cache never diverges from the ledger.
func SyncAccountBalance(q DBTX, userID, accountID string) error {
	inputs, err := GatherBalanceInputs(q, userID, accountID)
	if err != nil {
		return err
	}

	balance := ComputeBalance(inputs)
	res, err := q.Exec(`
		UPDATE accounts SET current_balance = ? WHERE id = ? AND user_id = ?
	`, balance, accountID, userID)
	if err != nil {
		return fmt.Errorf("failed to update account balance: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check balance update: %w", err)
	}
	if affected == 0 {
		return models.NewNotFoundError("account", accountID)
	}
	return nil
}
