package services

import (
	"testing"

	"centavo/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetBudget_Upserts(t *testing.T) {
	setupTestDB(t)
	createTestCategory(t, "groceries", models.CategoryExpense)

	budget, err := SetBudget(testUserID, "groceries", 50000)
	require.NoError(t, err)
	assert.Equal(t, int64(50000), budget.Amount)

	// Setting again replaces the amount, same row.
	updated, err := SetBudget(testUserID, "groceries", 60000)
	require.NoError(t, err)
	assert.Equal(t, int64(60000), updated.Amount)
	assert.Equal(t, budget.ID, updated.ID)

	budgets, err := ListBudgets(testUserID)
	require.NoError(t, err)
	assert.Len(t, budgets, 1)
}

func TestSetBudget_Validation(t *testing.T) {
	setupTestDB(t)
	createTestCategory(t, "groceries", models.CategoryExpense)

	var validation *models.ValidationError
	_, err := SetBudget(testUserID, "groceries", 0)
	assert.ErrorAs(t, err, &validation)

	var notFound *models.NotFoundError
	_, err = SetBudget(testUserID, "missing", 1000)
	assert.ErrorAs(t, err, &notFound)
}

func TestBudgetProgressFor(t *testing.T) {
	setupTestDB(t)
	createTestAccount(t, "checking", models.AccountChecking, 0, 0)
	createTestCategory(t, "groceries", models.CategoryExpense)
	createTestCategory(t, "transport", models.CategoryExpense)

	_, err := SetBudget(testUserID, "groceries", 50000)
	require.NoError(t, err)
	_, err = SetBudget(testUserID, "transport", 20000)
	require.NoError(t, err)

	_, err = CreateExpense(testUserID, ExpenseParams{
		Description:  "Market",
		TotalAmount:  12000,
		Installments: 1,
		CategoryID:   "groceries",
		AccountID:    "checking",
		PurchaseDate: "2025-03-05",
	})
	require.NoError(t, err)

	// Outside the queried month; must not count.
	_, err = CreateExpense(testUserID, ExpenseParams{
		Description:  "Market",
		TotalAmount:  9000,
		Installments: 1,
		CategoryID:   "groceries",
		AccountID:    "checking",
		PurchaseDate: "2025-04-01",
	})
	require.NoError(t, err)

	// Replenishment income credited back to the groceries envelope.
	_, err = CreateIncome(testUserID, IncomeParams{
		AccountID:           "checking",
		Description:         "Shared groceries payback",
		Amount:              4000,
		Date:                "2025-03-10",
		ReceivedAt:          "2025-03-10",
		ReplenishCategoryID: "groceries",
	})
	require.NoError(t, err)

	progress, err := BudgetProgressFor(testUserID, "2025-03")
	require.NoError(t, err)
	require.Len(t, progress, 2)

	byCategory := map[string]models.BudgetProgress{}
	for _, p := range progress {
		byCategory[p.CategoryID] = p
	}

	groceries := byCategory["groceries"]
	assert.Equal(t, int64(50000), groceries.Budget)
	assert.Equal(t, int64(12000), groceries.Spent)
	assert.Equal(t, int64(4000), groceries.Replenished)
	assert.Equal(t, int64(8000), groceries.NetSpent)

	transport := byCategory["transport"]
	assert.Equal(t, int64(0), transport.Spent)
	assert.Equal(t, int64(0), transport.NetSpent)
}

func TestBudgetProgressFor_BadMonth(t *testing.T) {
	setupTestDB(t)

	_, err := BudgetProgressFor(testUserID, "March 2025")
	assert.Error(t, err)
}

func TestDeleteBudget(t *testing.T) {
	setupTestDB(t)
	createTestCategory(t, "groceries", models.CategoryExpense)

	budget, err := SetBudget(testUserID, "groceries", 10000)
	require.NoError(t, err)

	require.NoError(t, DeleteBudget(testUserID, budget.ID))

	var notFound *models.NotFoundError
	err = DeleteBudget(testUserID, budget.ID)
	assert.ErrorAs(t, err, &notFound)
}
