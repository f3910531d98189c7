package database

import (
	"database/sql"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

var DB *sql.DB

// InitDB opens the sqlite database at path and bootstraps the schema. An
// empty path falls back to TEST_DB/in-memory handling so tests and local
// development keep working without configuration.
func InitDB(path string) error {
	dbPath := path
	if dbPath == "" {
		if os.Getenv("TEST_DB") == "1" {
			dbPath = ":memory:"
		} else {
			dbPath = "./centavo.db"
		}
	}

	var err error
	// Connection parameters to better handle concurrent requests.
	dsn := dbPath + "?_journal=WAL&_timeout=10000&_busy_timeout=10000"
	DB, err = sql.Open("sqlite3", dsn)
	if err != nil {
		return err
	}

	if dbPath == ":memory:" {
		// Each sqlite connection gets its own in-memory database; keep a
		// single connection so all statements see the same data.
		DB.SetMaxOpenConns(1)
	} else {
		DB.SetMaxOpenConns(5)
		DB.SetMaxIdleConns(5)
		DB.SetConnMaxLifetime(time.Minute * 5)
	}

	if _, err = DB.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return err
	}
	if _, err = DB.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		return err
	}
	if _, err = DB.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		return err
	}

	if err = DB.Ping(); err != nil {
		return err
	}

	return CreateSchema(DB)
}
