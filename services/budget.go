package services

import (
	"fmt"

	"centavo/backend/database"
	"centavo/backend/models"

	"github.com/google/uuid"
)

// SetBudget creates or replaces the monthly target for a category.
func SetBudget(userID, categoryID string, amount int64) (*models.Budget, error) {
	if amount <= 0 {
		return nil, models.NewValidationError("amount", "budget amount must be positive, got %d", amount)
	}
	if err := checkCategory(database.DB, userID, categoryID); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	_, err := database.DB.Exec(`
		INSERT INTO budgets (id, user_id, category_id, amount)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, category_id) DO UPDATE SET amount = excluded.amount
	`, id, userID, categoryID, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert budget: %w", err)
	}

	var b models.Budget
	err = database.DB.QueryRow(`
		SELECT id, user_id, category_id, amount FROM budgets WHERE user_id = ? AND category_id = ?
	`, userID, categoryID).Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Amount)
	if err != nil {
		return nil, fmt.Errorf("failed to read back budget: %w", err)
	}
	return &b, nil
}

// DeleteBudget removes a category's target.
func DeleteBudget(userID, budgetID string) error {
	res, err := database.DB.Exec(`DELETE FROM budgets WHERE id = ? AND user_id = ?`, budgetID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.NewNotFoundError("budget", budgetID)
	}
	return nil
}

// BudgetProgressFor compares each budgeted category against the month's net
// spend: entry amounts purchased that month minus replenishment income
// credited back to the category. Spend counts when committed, matching the
// balance formula's treatment of expenses.
func BudgetProgressFor(userID, yearMonth string) ([]models.BudgetProgress, error) {
	if _, _, err := ParseYearMonth(yearMonth); err != nil {
		return nil, err
	}

	rows, err := database.DB.Query(`
		SELECT b.category_id, c.name, b.amount,
			COALESCE((
				SELECT SUM(e.amount)
				FROM entries e
				JOIN transactions t ON t.id = e.transaction_id
				WHERE t.category_id = b.category_id
				  AND e.user_id = b.user_id
				  AND substr(e.purchase_date, 1, 7) = ?
			), 0) AS spent,
			COALESCE((
				SELECT SUM(i.amount)
				FROM incomes i
				WHERE i.replenish_category_id = b.category_id
				  AND i.user_id = b.user_id
				  AND substr(i.date, 1, 7) = ?
			), 0) AS replenished
		FROM budgets b
		JOIN categories c ON c.id = b.category_id
		WHERE b.user_id = ?
		ORDER BY c.name
	`, yearMonth, yearMonth, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query budget progress: %w", err)
	}
	defer rows.Close()

	var progress []models.BudgetProgress
	for rows.Next() {
		var p models.BudgetProgress
		if err := rows.Scan(&p.CategoryID, &p.CategoryName, &p.Budget, &p.Spent, &p.Replenished); err != nil {
			return nil, fmt.Errorf("failed to scan budget progress: %w", err)
		}
		p.NetSpent = p.Spent - p.Replenished
		progress = append(progress, p)
	}
	return progress, rows.Err()
}

// ListBudgets returns the user's budget targets.
func ListBudgets(userID string) ([]models.Budget, error) {
	rows, err := database.DB.Query(`
		SELECT id, user_id, category_id, amount FROM budgets WHERE user_id = ?
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets: %w", err)
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}
