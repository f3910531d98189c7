package migrations

import (
	"database/sql"
	"fmt"
)

// AddLedgerIndexes adds the indexes the balance and fatura aggregations
// query on. The aggregations always filter by user and account.
func AddLedgerIndexes(db *sql.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_entries_account ON entries(user_id, account_id, due_date);`,
		`CREATE INDEX IF NOT EXISTS idx_entries_transaction ON entries(transaction_id);`,
		`CREATE INDEX IF NOT EXISTS idx_incomes_account ON incomes(user_id, account_id);`,
		`CREATE INDEX IF NOT EXISTS idx_incomes_refund ON incomes(refund_of_transaction_id);`,
		`CREATE INDEX IF NOT EXISTS idx_transfers_from ON transfers(user_id, from_account_id);`,
		`CREATE INDEX IF NOT EXISTS idx_transfers_to ON transfers(user_id, to_account_id);`,
		`CREATE INDEX IF NOT EXISTS idx_transfers_fatura ON transfers(fatura_id);`,
		`CREATE INDEX IF NOT EXISTS idx_faturas_account ON faturas(user_id, account_id, year_month);`,
	}

	for _, stmt := range indexes {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
