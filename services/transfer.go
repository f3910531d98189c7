package services

import (
	"database/sql"
	"fmt"

	"centavo/backend/models"

	"github.com/google/uuid"
)

// TransferParams describe a user-created transfer. fatura_payment transfers
// are derived from paid faturas and cannot be created through here.
type TransferParams struct {
	Type          string `json:"type"`
	FromAccountID string `json:"fromAccountId,omitempty"`
	ToAccountID   string `json:"toAccountId,omitempty"`
	Amount        int64  `json:"amount"`
	Date          string `json:"date"`
}

func (p *TransferParams) validate() error {
	if !models.ValidTransferType(p.Type) {
		return models.NewValidationError("type", "unknown transfer type %q", p.Type)
	}
	if p.Type == models.TransferFaturaPayment {
		return models.NewConstraintError("fatura_payment transfers are derived from paid faturas and cannot be created directly")
	}
	if p.Amount <= 0 {
		return models.NewValidationError("amount", "amount must be positive, got %d", p.Amount)
	}
	if _, err := ParseDate(p.Date); err != nil {
		return err
	}

	switch p.Type {
	case models.TransferInternal:
		if p.FromAccountID == "" || p.ToAccountID == "" {
			return models.NewConstraintError("internal transfer needs both a source and a destination account")
		}
		if p.FromAccountID == p.ToAccountID {
			return models.NewConstraintError("internal transfer cannot move money from an account to itself")
		}
	case models.TransferDeposit:
		if p.ToAccountID == "" || p.FromAccountID != "" {
			return models.NewConstraintError("deposit needs exactly a destination account")
		}
	case models.TransferWithdrawal:
		if p.FromAccountID == "" || p.ToAccountID != "" {
			return models.NewConstraintError("withdrawal needs exactly a source account")
		}
	}
	return nil
}

// CreateTransfer records a transfer and re-syncs every account it touches.
func CreateTransfer(userID string, p TransferParams) (*models.Transfer, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	transfer := &models.Transfer{
		ID:            uuid.NewString(),
		UserID:        userID,
		Type:          p.Type,
		FromAccountID: p.FromAccountID,
		ToAccountID:   p.ToAccountID,
		Amount:        p.Amount,
		Date:          p.Date,
	}

	err := withTx(func(tx *sql.Tx) error {
		if err := checkTransferAccounts(tx, userID, p.FromAccountID, p.ToAccountID); err != nil {
			return err
		}

		_, err := tx.Exec(`
			INSERT INTO transfers (id, user_id, type, from_account_id, to_account_id, amount, date, ignored, fatura_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, 0, NULL)
		`, transfer.ID, userID, p.Type, nullable(p.FromAccountID), nullable(p.ToAccountID), p.Amount, p.Date)
		if err != nil {
			return fmt.Errorf("failed to insert transfer: %w", err)
		}

		return syncTransferAccounts(tx, userID, p.FromAccountID, p.ToAccountID)
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// UpdateTransfer rewrites a transfer. Locked (fatura-derived) transfers are
// rejected; accounts on both the old and new legs are re-synced.
func UpdateTransfer(userID, transferID string, p TransferParams) (*models.Transfer, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	var transfer *models.Transfer
	err := withTx(func(tx *sql.Tx) error {
		old, err := loadTransfer(tx, userID, transferID)
		if err != nil {
			return err
		}
		if old.Locked() {
			return models.NewConstraintError("transfer %s is derived from fatura %s and cannot be edited", transferID, old.FaturaID)
		}
		if err := checkTransferAccounts(tx, userID, p.FromAccountID, p.ToAccountID); err != nil {
			return err
		}

		_, err = tx.Exec(`
			UPDATE transfers
			SET type = ?, from_account_id = ?, to_account_id = ?, amount = ?, date = ?
			WHERE id = ? AND user_id = ?
		`, p.Type, nullable(p.FromAccountID), nullable(p.ToAccountID), p.Amount, p.Date, transferID, userID)
		if err != nil {
			return fmt.Errorf("failed to update transfer: %w", err)
		}

		if err := syncTransferAccounts(tx, userID, old.FromAccountID, old.ToAccountID); err != nil {
			return err
		}
		if err := syncTransferAccounts(tx, userID, p.FromAccountID, p.ToAccountID); err != nil {
			return err
		}

		transfer, err = loadTransfer(tx, userID, transferID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

// DeleteTransfer removes a transfer. Locked transfers are rejected.
func DeleteTransfer(userID, transferID string) error {
	return withTx(func(tx *sql.Tx) error {
		old, err := loadTransfer(tx, userID, transferID)
		if err != nil {
			return err
		}
		if old.Locked() {
			return models.NewConstraintError("transfer %s is derived from fatura %s and cannot be deleted", transferID, old.FaturaID)
		}

		if _, err := tx.Exec(`DELETE FROM transfers WHERE id = ? AND user_id = ?`, transferID, userID); err != nil {
			return fmt.Errorf("failed to delete transfer: %w", err)
		}

		return syncTransferAccounts(tx, userID, old.FromAccountID, old.ToAccountID)
	})
}

// ToggleTransferIgnored flips the ignored flag, which removes or restores
// the transfer's effect on both balances. Locked transfers are rejected.
func ToggleTransferIgnored(userID, transferID string) (*models.Transfer, error) {
	var transfer *models.Transfer
	err := withTx(func(tx *sql.Tx) error {
		old, err := loadTransfer(tx, userID, transferID)
		if err != nil {
			return err
		}
		if old.Locked() {
			return models.NewConstraintError("transfer %s is derived from fatura %s and cannot be edited", transferID, old.FaturaID)
		}

		_, err = tx.Exec(`
			UPDATE transfers SET ignored = NOT ignored WHERE id = ? AND user_id = ?
		`, transferID, userID)
		if err != nil {
			return fmt.Errorf("failed to toggle transfer: %w", err)
		}

		if err := syncTransferAccounts(tx, userID, old.FromAccountID, old.ToAccountID); err != nil {
			return err
		}

		transfer, err = loadTransfer(tx, userID, transferID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}

func loadTransfer(q DBTX, userID, transferID string) (*models.Transfer, error) {
	var t models.Transfer
	var from, to, faturaID sql.NullString
	err := q.QueryRow(`
		SELECT id, user_id, type, from_account_id, to_account_id, amount, date, ignored, fatura_id
		FROM transfers
		WHERE id = ? AND user_id = ?
	`, transferID, userID).Scan(
		&t.ID, &t.UserID, &t.Type, &from, &to, &t.Amount, &t.Date, &t.Ignored, &faturaID,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.NewNotFoundError("transfer", transferID)
		}
		return nil, fmt.Errorf("failed to query transfer: %w", err)
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
	return &t, nil
}

func checkTransferAccounts(q DBTX, userID, fromID, toID string) error {
	if fromID != "" {
		if _, err := loadAccount(q, userID, fromID); err != nil {
			return err
		}
	}
	if toID != "" {
		if _, err := loadAccount(q, userID, toID); err != nil {
			return err
		}
	}
	return nil
}

func syncTransferAccounts(tx *sql.Tx, userID, fromID, toID string) error {
	if fromID != "" {
		if err := SyncAccountBalance(tx, userID, fromID); err != nil {
			return err
		}
	}
	if toID != "" && toID != fromID {
		if err := SyncAccountBalance(tx, userID, toID); err != nil {
			return err
		}
	}
	return nil
}
