package migrations

import (
	"database/sql"
	"fmt"
)

// defaultCategories are created once per existing user that has none yet.
// New users get theirs on first sync from the handlers.
var defaultCategories = []struct {
	name string
	typ  string
}{
	{"Groceries", "expense"},
	{"Housing", "expense"},
	{"Transport", "expense"},
	{"Leisure", "expense"},
	{"Health", "expense"},
	{"Salary", "income"},
	{"Refunds", "income"},
}

// SeedDefaultCategories gives every user without categories the default set.
func SeedDefaultCategories(db *sql.DB) error {
	rows, err := db.Query(`
		SELECT u.id FROM users u
		WHERE NOT EXISTS (SELECT 1 FROM categories c WHERE c.user_id = u.id)
	`)
	if err != nil {
		return fmt.Errorf("failed to query users without categories: %w", err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan user id: %w", err)
		}
		userIDs = append(userIDs, id)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, userID := range userIDs {
		for i, c := range defaultCategories {
			id := fmt.Sprintf("%s-default-%d", userID, i)
			_, err := db.Exec(`
				INSERT INTO categories (id, user_id, name, type)
				VALUES (?, ?, ?, ?)
			`, id, userID, c.name, c.typ)
			if err != nil {
				return fmt.Errorf("failed to seed category %s: %w", c.name, err)
			}
		}
	}
	return nil
}
