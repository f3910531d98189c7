package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"centavo/backend/models"

	"github.com/gorilla/mux"
)

func createExpenseVia(t *testing.T, accountID string, total int64) models.Transaction {
	t.Helper()

	body := map[string]interface{}{
		"description":  "Espresso machine",
		"totalAmount":  total,
		"installments": 1,
		"categoryId":   "shopping",
		"accountId":    accountID,
		"purchaseDate": "2025-03-10",
	}
	req := NewAuthenticatedRequest("POST", "/expenses", body)
	w := httptest.NewRecorder()
	AddExpense(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200 creating expense, got %d: %s", w.Code, w.Body.String())
	}

	var txn models.Transaction
	if err := json.NewDecoder(w.Body).Decode(&txn); err != nil {
		t.Fatalf("Failed to decode transaction: %v", err)
	}
	return txn
}

func TestAddRefundEndpoint(t *testing.T) {
	SetupTestDB()
	defer CleanupTestDB()

	mustExec(`
		INSERT INTO accounts (id, user_id, name, type, current_balance)
		VALUES ('checking', ?, 'Checking', ?, 0)
	`, TestUserID, models.AccountChecking)
	mustExec(`
		INSERT INTO categories (id, user_id, name, type)
		VALUES ('shopping', ?, 'Shopping', ?)
	`, TestUserID, models.CategoryExpense)

	txn := createExpenseVia(t, "checking", 5000)

	body := map[string]interface{}{
		"transactionId": txn.ID,
		"amount":        2000,
		"refundDate":    "2025-03-12",
	}
	req := NewAuthenticatedRequest("POST", "/refunds", body)
	w := httptest.NewRecorder()
	AddRefund(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var income models.Income
	if err := json.NewDecoder(w.Body).Decode(&income); err != nil {
		t.Fatalf("Failed to decode income: %v", err)
	}
	if !income.IsRefund() {
		t.Error("Expected a refund income row")
	}
	if income.ReceivedAt != "" {
		t.Error("Expected the refund to start out pending")
	}

	// Over-refunding the remaining 3000 maps onto 400.
	body["amount"] = 3001
	req = NewAuthenticatedRequest("POST", "/refunds", body)
	w = httptest.NewRecorder()
	AddRefund(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 on over-refund, got %d", w.Code)
	}

	// Deleting the refund winds the transaction back.
	req = NewAuthenticatedRequest("DELETE", "/refunds/"+income.ID, nil)
	req = mux.SetURLVars(req, map[string]string{"id": income.ID})
	w = httptest.NewRecorder()
	DeleteRefund(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	req = NewAuthenticatedRequest("DELETE", "/refunds/"+income.ID, nil)
	req = mux.SetURLVars(req, map[string]string{"id": income.ID})
	w = httptest.NewRecorder()
	DeleteRefund(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 deleting twice, got %d", w.Code)
	}
}
