package services

import (
	"testing"

	"centavo/backend/database"
	"centavo/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertFaturaTotal_WindowFiltering(t *testing.T) {
	setupTestDB(t)
	createTestAccount(t, "card", models.AccountCreditCard, 15, 25)
	createTestCategory(t, "shopping", models.CategoryExpense)

	// 2025-03-14 closes into the March statement, 2025-03-15 into April.
	_, err := CreateExpense(testUserID, ExpenseParams{
		Description:  "Before closing",
		TotalAmount:  1000,
		Installments: 1,
		CategoryID:   "shopping",
		AccountID:    "card",
		PurchaseDate: "2025-03-14",
	})
	require.NoError(t, err)

	_, err = CreateExpense(testUserID, ExpenseParams{
		Description:  "On closing day",
		TotalAmount:  2500,
		Installments: 1,
		CategoryID:   "shopping",
		AccountID:    "card",
		PurchaseDate: "2025-03-15",
	})
	require.NoError(t, err)

	march, err := GetFatura(testUserID, "card", "2025-03")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), march.TotalAmount)

	april, err := GetFatura(testUserID, "card", "2025-04")
	require.NoError(t, err)
	assert.Equal(t, int64(2500), april.TotalAmount)
}

func TestUpsertFaturaTotal_RecomputesInsteadOfIncrementing(t *testing.T) {
	setupTestDB(t)
	createTestAccount(t, "card", models.AccountCreditCard, 15, 25)
	createTestCategory(t, "shopping", models.CategoryExpense)

	_, err := CreateExpense(testUserID, ExpenseParams{
		Description:  "Shoes",
		TotalAmount:  3000,
		Installments: 1,
		CategoryID:   "shopping",
		AccountID:    "card",
		PurchaseDate: "2025-03-10",
	})
	require.NoError(t, err)

	// Repeated upserts converge on the same total; the row is replaced, not
	// incremented.
	for i := 0; i < 3; i++ {
		fatura, err := GetFatura(testUserID, "card", "2025-03")
		require.NoError(t, err)
		assert.Equal(t, int64(3000), fatura.TotalAmount)
	}

	var count int
	err = database.DB.QueryRow(`
		SELECT COUNT(*) FROM faturas WHERE account_id = ? AND year_month = ?
	`, "card", "2025-03").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUpsertFaturaTotal_RefundsReduceTotal(t *testing.T) {
	setupTestDB(t)
	createTestAccount(t, "card", models.AccountCreditCard, 15, 25)
	createTestCategory(t, "shopping", models.CategoryExpense)

	txn, err := CreateExpense(testUserID, ExpenseParams{
		Description:  "Jacket",
		TotalAmount:  5000,
		Installments: 1,
		CategoryID:   "shopping",
		AccountID:    "card",
		PurchaseDate: "2025-03-10",
	})
	require.NoError(t, err)

	_, err = CreateRefund(testUserID, RefundParams{
		TransactionID: txn.ID,
		Amount:        1500,
		RefundDate:    "2025-03-12",
		FaturaMonth:   "2025-03",
	})
	require.NoError(t, err)

	fatura, err := GetFatura(testUserID, "card", "2025-03")
	require.NoError(t, err)
	assert.Equal(t, int64(3500), fatura.TotalAmount)

	// A refund credited to a later statement leaves March alone.
	_, err = CreateRefund(testUserID, RefundParams{
		TransactionID: txn.ID,
		Amount:        1000,
		RefundDate:    "2025-03-20",
		FaturaMonth:   "2025-04",
	})
	require.NoError(t, err)

	fatura, err = GetFatura(testUserID, "card", "2025-03")
	require.NoError(t, err)
	assert.Equal(t, int64(3500), fatura.TotalAmount)

	april, err := GetFatura(testUserID, "card", "2025-04")
	require.NoError(t, err)
	assert.Equal(t, int64(-1000), april.TotalAmount)
}

func TestGetFatura_NotACreditCard(t *testing.T) {
	setupTestDB(t)
	createTestAccount(t, "checking", models.AccountChecking, 0, 0)

	_, err := GetFatura(testUserID, "checking", "2025-03")
	var validation *models.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestGetFatura_MaterializesEmptyMonth(t *testing.T) {
	setupTestDB(t)
	createTestAccount(t, "card", models.AccountCreditCard, 15, 25)

	fatura, err := GetFatura(testUserID, "card", "2025-06")
	require.NoError(t, err)
	assert.Equal(t, int64(0), fatura.TotalAmount)
	assert.False(t, fatura.Paid())
}

func TestPayFatura(t *testing.T) {
	setupTestDB(t)
	createTestAccount(t, "card", models.AccountCreditCard, 15, 25)
	createTestAccount(t, "checking", models.AccountChecking, 0, 0)
	createTestCategory(t, "shopping", models.CategoryExpense)

	_, err := CreateExpense(testUserID, ExpenseParams{
		Description:  "Headphones",
		TotalAmount:  4000,
		Installments: 1,
		CategoryID:   "shopping",
		AccountID:    "card",
		PurchaseDate: "2025-03-10",
	})
	require.NoError(t, err)

	fatura, err := GetFatura(testUserID, "card", "2025-03")
	require.NoError(t, err)

	paid, err := PayFatura(testUserID, fatura.ID, "checking", "2025-03-25")
	require.NoError(t, err)
	assert.True(t, paid.Paid())
	assert.Equal(t, "checking", paid.PaidFromAccountID)

	// The payment moves money from checking to the card, cancelling the
	// expense already counted against the card.
	assert.Equal(t, int64(-4000), accountBalance(t, "checking"))
	assert.Equal(t, int64(0), accountBalance(t, "card"))

	// The derived transfer exists, is locked, and cannot be touched.
	var transferID string
	err = database.DB.QueryRow(`
		SELECT id FROM transfers WHERE fatura_id = ?
	`, fatura.ID).Scan(&transferID)
	require.NoError(t, err)

	var constraint *models.ConstraintError
	err = DeleteTransfer(testUserID, transferID)
	assert.ErrorAs(t, err, &constraint)

	// Paying twice is rejected.
	_, err = PayFatura(testUserID, fatura.ID, "checking", "2025-03-26")
	assert.ErrorAs(t, err, &constraint)
}

func TestPayFatura_NotFromCardItself(t *testing.T) {
	setupTestDB(t)
	createTestAccount(t, "card", models.AccountCreditCard, 15, 25)

	fatura, err := GetFatura(testUserID, "card", "2025-03")
	require.NoError(t, err)

	_, err = PayFatura(testUserID, fatura.ID, "card", "2025-03-25")
	var constraint *models.ConstraintError
	assert.ErrorAs(t, err, &constraint)
}

func TestListFaturas(t *testing.T) {
	setupTestDB(t)
	createTestAccount(t, "card", models.AccountCreditCard, 15, 25)

	for _, ym := range []string{"2025-01", "2025-03", "2025-02"} {
		_, err := GetFatura(testUserID, "card", ym)
		require.NoError(t, err)
	}

	faturas, err := ListFaturas(database.DB, testUserID, "card")
	require.NoError(t, err)
	require.Len(t, faturas, 3)
	assert.Equal(t, "2025-03", faturas[0].YearMonth)
	assert.Equal(t, "2025-02", faturas[1].YearMonth)
	assert.Equal(t, "2025-01", faturas[2].YearMonth)
}
