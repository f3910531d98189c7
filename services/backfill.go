package services

import (
	"database/sql"
	"fmt"
	"log"

	"centavo/backend/database"
	"centavo/backend/models"

	"github.com/google/uuid"
)

// BackfillResult reports what a backfill run did.
type BackfillResult struct {
	Created int `json:"created"`
}

type paidFatura struct {
	ID                string
	UserID            string
	AccountID         string
	TotalAmount       int64
	PaidAt            string
	PaidFromAccountID string
}

// BackfillFaturaTransfers scans every paid fatura and synthesizes the
// fatura_payment transfer for any that lack one. Idempotent: an existing
// transfer keyed by fatura_id is skipped, so a second run creates nothing.
// Each fatura is repaired in its own transaction; a failure partway through
// keeps the units already committed.
func BackfillFaturaTransfers() (*BackfillResult, error) {
	rows, err := database.DB.Query(`
		SELECT f.id, f.user_id, f.account_id, f.total_amount, f.paid_at, f.paid_from_account_id
		FROM faturas f
		WHERE f.paid_at IS NOT NULL
		  AND f.paid_from_account_id IS NOT NULL
		  AND NOT EXISTS (SELECT 1 FROM transfers t WHERE t.fatura_id = f.id)
		ORDER BY f.paid_at, f.id
	`)
	if err != nil {
		return &BackfillResult{}, fmt.Errorf("failed to scan paid faturas: %w", err)
	}

	var missing []paidFatura
	for rows.Next() {
		var f paidFatura
		if err := rows.Scan(&f.ID, &f.UserID, &f.AccountID, &f.TotalAmount, &f.PaidAt, &f.PaidFromAccountID); err != nil {
			rows.Close()
			return &BackfillResult{}, fmt.Errorf("failed to scan paid fatura: %w", err)
		}
		missing = append(missing, f)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return &BackfillResult{}, err
	}
	rows.Close()

	result := &BackfillResult{}
	for _, f := range missing {
		created, err := backfillOne(f)
		if err != nil {
			// Already-completed units stay committed; report how far we got.
			return result, fmt.Errorf("backfill stopped at fatura %s: %w", f.ID, err)
		}
		if created {
			result.Created++
		}
	}

	if result.Created > 0 {
		log.Printf("Backfill synthesized %d fatura payment transfer(s)", result.Created)
	}
	return result, nil
}

func backfillOne(f paidFatura) (bool, error) {
	created := false
	err := withTx(func(tx *sql.Tx) error {
		// Re-check inside the transaction; a concurrent run may have
		// repaired this fatura between the scan and now.
		var count int
		err := tx.QueryRow(`SELECT COUNT(*) FROM transfers WHERE fatura_id = ?`, f.ID).Scan(&count)
		if err != nil {
			return fmt.Errorf("failed to re-check fatura transfer: %w", err)
		}
		if count > 0 {
			return nil
		}

		_, err = tx.Exec(`
			INSERT INTO transfers (id, user_id, type, from_account_id, to_account_id, amount, date, ignored, fatura_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, 0, ?)
		`, uuid.NewString(), f.UserID, models.TransferFaturaPayment, f.PaidFromAccountID, f.AccountID, f.TotalAmount, f.PaidAt, f.ID)
		if err != nil {
			return fmt.Errorf("failed to synthesize fatura transfer: %w", err)
		}

		if err := SyncAccountBalance(tx, f.UserID, f.PaidFromAccountID); err != nil {
			return err
		}
		if err := SyncAccountBalance(tx, f.UserID, f.AccountID); err != nil {
			return err
		}
		created = true
		return nil
	})
	return created, err
}
