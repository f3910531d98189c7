package services

import (
	"testing"

	"centavo/backend/database"
	"centavo/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// markFaturaPaidDirectly simulates legacy data: a fatura flagged as paid
// without the corresponding fatura_payment transfer.
func markFaturaPaidDirectly(t *testing.T, faturaID, fromAccountID, paidAt string) {
	t.Helper()

	_, err := database.DB.Exec(`
		UPDATE faturas SET paid_at = ?, paid_from_account_id = ? WHERE id = ?
	`, paidAt, fromAccountID, faturaID)
	require.NoError(t, err)
}

func TestBackfillFaturaTransfers_SynthesizesMissing(t *testing.T) {
	setupTestDB(t)
	createTestAccount(t, "card", models.AccountCreditCard, 15, 25)
	createTestAccount(t, "checking", models.AccountChecking, 0, 0)
	createTestCategory(t, "shopping", models.CategoryExpense)

	_, err := CreateExpense(testUserID, ExpenseParams{
		Description:  "Monitor",
		TotalAmount:  4500,
		Installments: 1,
		CategoryID:   "shopping",
		AccountID:    "card",
		PurchaseDate: "2025-03-10",
	})
	require.NoError(t, err)

	fatura, err := GetFatura(testUserID, "card", "2025-03")
	require.NoError(t, err)
	markFaturaPaidDirectly(t, fatura.ID, "checking", "2025-03-25")

	// The legacy state is inconsistent: paid, but the money never moved.
	require.Equal(t, int64(-4500), accountBalance(t, "card"))
	require.Equal(t, int64(0), accountBalance(t, "checking"))

	result, err := BackfillFaturaTransfers()
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)

	transfer := transferForFatura(t, fatura.ID)
	assert.Equal(t, models.TransferFaturaPayment, transfer.Type)
	assert.Equal(t, "checking", transfer.FromAccountID)
	assert.Equal(t, "card", transfer.ToAccountID)
	assert.Equal(t, int64(4500), transfer.Amount)
	assert.Equal(t, "2025-03-25", transfer.Date)
	assert.True(t, transfer.Locked())

	assert.Equal(t, int64(0), accountBalance(t, "card"))
	assert.Equal(t, int64(-4500), accountBalance(t, "checking"))
}

func TestBackfillFaturaTransfers_SecondRunCreatesNothing(t *testing.T) {
	setupTestDB(t)
	createTestAccount(t, "card", models.AccountCreditCard, 15, 25)
	createTestAccount(t, "checking", models.AccountChecking, 0, 0)

	fatura, err := GetFatura(testUserID, "card", "2025-02")
	require.NoError(t, err)
	markFaturaPaidDirectly(t, fatura.ID, "checking", "2025-02-25")

	first, err := BackfillFaturaTransfers()
	require.NoError(t, err)
	require.Equal(t, 1, first.Created)

	second, err := BackfillFaturaTransfers()
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)

	var count int
	err = database.DB.QueryRow(`SELECT COUNT(*) FROM transfers WHERE fatura_id = ?`, fatura.ID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestBackfillFaturaTransfers_SkipsUnpaidAndAlreadyLinked(t *testing.T) {
	setupTestDB(t)
	createTestAccount(t, "card", models.AccountCreditCard, 15, 25)
	createTestAccount(t, "checking", models.AccountChecking, 0, 0)

	// An unpaid fatura and one paid the normal way, which already carries its
	// transfer. Neither needs repair.
	_, err := GetFatura(testUserID, "card", "2025-01")
	require.NoError(t, err)

	paid, err := GetFatura(testUserID, "card", "2025-02")
	require.NoError(t, err)
	_, err = PayFatura(testUserID, paid.ID, "checking", "2025-02-25")
	require.NoError(t, err)

	result, err := BackfillFaturaTransfers()
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
}

func TestBackfillFaturaTransfers_EmptyDatabase(t *testing.T) {
	setupTestDB(t)

	result, err := BackfillFaturaTransfers()
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
}

func TestBackfilledTransferIsLocked(t *testing.T) {
	setupTestDB(t)
	createTestAccount(t, "card", models.AccountCreditCard, 15, 25)
	createTestAccount(t, "checking", models.AccountChecking, 0, 0)

	fatura, err := GetFatura(testUserID, "card", "2025-04")
	require.NoError(t, err)
	markFaturaPaidDirectly(t, fatura.ID, "checking", "2025-04-25")

	_, err = BackfillFaturaTransfers()
	require.NoError(t, err)

	transfer := transferForFatura(t, fatura.ID)

	var constraint *models.ConstraintError
	err = DeleteTransfer(testUserID, transfer.ID)
	assert.ErrorAs(t, err, &constraint)

	_, err = UpdateTransfer(testUserID, transfer.ID, TransferParams{
		Type:          models.TransferInternal,
		FromAccountID: "checking",
		ToAccountID:   "card",
		Amount:        1,
		Date:          "2025-04-26",
	})
	assert.ErrorAs(t, err, &constraint)

	_, err = ToggleTransferIgnored(testUserID, transfer.ID)
	assert.ErrorAs(t, err, &constraint)
}

func transferForFatura(t *testing.T, faturaID string) *models.Transfer {
	t.Helper()

	var id string
	err := database.DB.QueryRow(`SELECT id FROM transfers WHERE fatura_id = ?`, faturaID).Scan(&id)
	require.NoError(t, err)

	transfer, err := loadTransfer(database.DB, testUserID, id)
	require.NoError(t, err)
	return transfer
}
