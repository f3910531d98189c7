package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"centavo/backend/database"
	"centavo/backend/middleware"
)

// Define a constant for the test user ID that can be used across all tests
const TestUserID = "test-user-id"

// SetupTestAuth adds authentication context to the request
func SetupTestAuth(req *http.Request) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, TestUserID)
	return req.WithContext(ctx)
}

// SetupTestDB initializes an in-memory test database with the full schema
// and a test user.
func SetupTestDB() {
	if err := database.InitDB(":memory:"); err != nil {
		panic(err)
	}

	_, err := database.DB.Exec(`
		INSERT INTO users (id, username, name) VALUES (?, ?, ?)
	`, TestUserID, "testuser", "Test User")
	if err != nil {
		panic(err)
	}
}

// CleanupTestDB closes the test database connection
func CleanupTestDB() {
	if database.DB != nil {
		database.DB.Close()
	}
}

// NewAuthenticatedRequest creates a new HTTP request with a mock authenticated user
func NewAuthenticatedRequest(method, url string, body interface{}) *http.Request {
	var req *http.Request

	if body != nil {
		buf, _ := json.Marshal(body)
		req = httptest.NewRequest(method, url, bytes.NewBuffer(buf))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	return SetupTestAuth(req)
}

// mustExec runs a statement against the test database and panics on failure
func mustExec(query string, args ...interface{}) {
	if _, err := database.DB.Exec(query, args...); err != nil {
		panic(err)
	}
}
