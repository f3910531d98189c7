package services

import (
	"testing"

	"centavo/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Walks one account through a month of activity and checks the cached balance
// at every step.
func TestLedgerScenario_MonthOfActivity(t *testing.T) {
	setupTestDB(t)
	createTestAccount(t, "checking", models.AccountChecking, 0, 0)
	createTestAccount(t, "savings", models.AccountSavings, 0, 0)
	createTestCategory(t, "salary", models.CategoryIncome)
	createTestCategory(t, "shopping", models.CategoryExpense)

	// Salary arrives.
	_, err := CreateIncome(testUserID, IncomeParams{
		AccountID:   "checking",
		Description: "Salary",
		Amount:      10000,
		Date:        "2025-03-01",
		ReceivedAt:  "2025-03-01",
		CategoryID:  "salary",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10000), accountBalance(t, "checking"))

	// A purchase.
	txn, err := CreateExpense(testUserID, ExpenseParams{
		Description:  "Coffee machine",
		TotalAmount:  3000,
		Installments: 1,
		CategoryID:   "shopping",
		AccountID:    "checking",
		PurchaseDate: "2025-03-05",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7000), accountBalance(t, "checking"))

	// Money set aside into savings.
	_, err = CreateTransfer(testUserID, TransferParams{
		Type:          models.TransferInternal,
		FromAccountID: "checking",
		ToAccountID:   "savings",
		Amount:        2000,
		Date:          "2025-03-10",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5000), accountBalance(t, "checking"))
	assert.Equal(t, int64(2000), accountBalance(t, "savings"))

	// A partial refund is promised. Pending money is not ours yet, so the
	// balance holds still while refundedAmount moves.
	refund, err := CreateRefund(testUserID, RefundParams{
		TransactionID: txn.ID,
		Amount:        1000,
		RefundDate:    "2025-03-12",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5000), accountBalance(t, "checking"))
	assert.Equal(t, int64(1000), refundedAmount(t, txn.ID))

	// The refund lands.
	require.NoError(t, MarkIncomeReceived(testUserID, refund.ID, "2025-03-18"))
	assert.Equal(t, int64(6000), accountBalance(t, "checking"))
	assert.Equal(t, int64(2000), accountBalance(t, "savings"))
}

// A full credit card statement cycle: purchases, a refund, payment, and the
// derived transfer.
func TestLedgerScenario_CreditCardCycle(t *testing.T) {
	setupTestDB(t)
	createTestAccount(t, "checking", models.AccountChecking, 0, 0)
	createTestAccount(t, "card", models.AccountCreditCard, 15, 25)
	createTestCategory(t, "salary", models.CategoryIncome)
	createTestCategory(t, "shopping", models.CategoryExpense)

	_, err := CreateIncome(testUserID, IncomeParams{
		AccountID:   "checking",
		Description: "Salary",
		Amount:      50000,
		Date:        "2025-03-01",
		ReceivedAt:  "2025-03-01",
		CategoryID:  "salary",
	})
	require.NoError(t, err)

	// Two purchases inside the March window, one in three installments.
	_, err = CreateExpense(testUserID, ExpenseParams{
		Description:  "Groceries",
		TotalAmount:  2000,
		Installments: 1,
		CategoryID:   "shopping",
		AccountID:    "card",
		PurchaseDate: "2025-03-01",
	})
	require.NoError(t, err)

	txn, err := CreateExpense(testUserID, ExpenseParams{
		Description:  "Luggage",
		TotalAmount:  9000,
		Installments: 3,
		CategoryID:   "shopping",
		AccountID:    "card",
		PurchaseDate: "2025-03-05",
	})
	require.NoError(t, err)

	// March bills the groceries plus the first installment.
	march, err := GetFatura(testUserID, "card", "2025-03")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), march.TotalAmount)

	// One bag came damaged; the store credits a third of it to this statement.
	_, err = CreateRefund(testUserID, RefundParams{
		TransactionID: txn.ID,
		Amount:        3000,
		RefundDate:    "2025-03-08",
		FaturaMonth:   "2025-03",
	})
	require.NoError(t, err)

	march, err = GetFatura(testUserID, "card", "2025-03")
	require.NoError(t, err)
	assert.Equal(t, int64(2000), march.TotalAmount)

	// Pay the statement from checking.
	paid, err := PayFatura(testUserID, march.ID, "checking", "2025-03-25")
	require.NoError(t, err)
	assert.True(t, paid.Paid())

	// All 9000 of the purchase counts against the card, minus the 2000 paid
	// in. The refund income is still pending so it does not count yet.
	assert.Equal(t, int64(50000-2000), accountBalance(t, "checking"))
	assert.Equal(t, int64(-2000-9000+2000), accountBalance(t, "card"))

	// Nothing for the backfill to repair.
	result, err := BackfillFaturaTransfers()
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
}
