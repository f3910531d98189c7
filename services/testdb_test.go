package services

import (
	"testing"

	"centavo/backend/database"
	"centavo/backend/models"

	"github.com/stretchr/testify/require"
)

const testUserID = "test-user"

// setupTestDB points the shared database handle at a fresh in-memory sqlite
// database with the full schema and a test user.
func setupTestDB(t *testing.T) {
	t.Helper()

	require.NoError(t, database.InitDB(":memory:"))
	t.Cleanup(func() {
		database.DB.Close()
	})

	_, err := database.DB.Exec(`
		INSERT INTO users (id, username, name) VALUES (?, 'tester', 'Tester')
	`, testUserID)
	require.NoError(t, err)
}

func createTestAccount(t *testing.T, id, accountType string, closingDay, paymentDueDay int) {
	t.Helper()

	var closing, due interface{}
	if accountType == models.AccountCreditCard {
		closing = closingDay
		due = paymentDueDay
	}
	_, err := database.DB.Exec(`
		INSERT INTO accounts (id, user_id, name, type, current_balance, closing_day, payment_due_day)
		VALUES (?, ?, ?, ?, 0, ?, ?)
	`, id, testUserID, id, accountType, closing, due)
	require.NoError(t, err)
}

func createTestCategory(t *testing.T, id, categoryType string) {
	t.Helper()

	_, err := database.DB.Exec(`
		INSERT INTO categories (id, user_id, name, type) VALUES (?, ?, ?, ?)
	`, id, testUserID, id, categoryType)
	require.NoError(t, err)
}

func accountBalance(t *testing.T, accountID string) int64 {
	t.Helper()

	var balance int64
	err := database.DB.QueryRow(`
		SELECT current_balance FROM accounts WHERE id = ? AND user_id = ?
	`, accountID, testUserID).Scan(&balance)
	require.NoError(t, err)
	return balance
}
