package database

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables. It is shared by InitDB and the test
// helpers so both paths bootstrap identical schemas. All monetary columns
// are INTEGER cents; calendar dates are TEXT YYYY-MM-DD and statement months
// TEXT YYYY-MM.
func CreateSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			name TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS accounts (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			current_balance INTEGER NOT NULL DEFAULT 0,
			closing_day INTEGER,
			payment_due_day INTEGER,
			credit_limit INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS categories (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			name TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT 'expense'
		);`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			description TEXT NOT NULL,
			total_amount INTEGER NOT NULL,
			total_installments INTEGER NOT NULL DEFAULT 1,
			category_id TEXT NOT NULL,
			refunded_amount INTEGER NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS entries (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			transaction_id TEXT NOT NULL,
			installment INTEGER NOT NULL DEFAULT 1,
			account_id TEXT NOT NULL,
			amount INTEGER NOT NULL,
			purchase_date TEXT NOT NULL,
			due_date TEXT NOT NULL,
			paid_at TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS incomes (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			account_id TEXT NOT NULL,
			description TEXT NOT NULL,
			amount INTEGER NOT NULL,
			date TEXT NOT NULL,
			received_at TEXT,
			category_id TEXT,
			replenish_category_id TEXT,
			refund_of_transaction_id TEXT,
			fatura_month TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS transfers (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			type TEXT NOT NULL,
			from_account_id TEXT,
			to_account_id TEXT,
			amount INTEGER NOT NULL,
			date TEXT NOT NULL,
			ignored BOOLEAN NOT NULL DEFAULT 0,
			fatura_id TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS faturas (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			account_id TEXT NOT NULL,
			year_month TEXT NOT NULL,
			total_amount INTEGER NOT NULL DEFAULT 0,
			paid_at TEXT,
			paid_from_account_id TEXT,
			UNIQUE(account_id, year_month)
		);`,
		`CREATE TABLE IF NOT EXISTS budgets (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			category_id TEXT NOT NULL,
			amount INTEGER NOT NULL,
			UNIQUE(user_id, category_id)
		);`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}
