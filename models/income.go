package models

// Income is a received-or-pending credit to an account. A row with
// RefundOfTransactionID set is a refund and also carries the fatura month it
// credits. A row with ReplenishCategoryID set credits a budget category.
type Income struct {
	ID                    string `json:"id"`
	UserID                string `json:"userId"`
	AccountID             string `json:"accountId"`
	Description           string `json:"description"`
	Amount                int64  `json:"amount"`
	Date                  string `json:"date"`
	ReceivedAt            string `json:"receivedAt,omitempty"`
	CategoryID            string `json:"categoryId,omitempty"`
	ReplenishCategoryID   string `json:"replenishCategoryId,omitempty"`
	RefundOfTransactionID string `json:"refundOfTransactionId,omitempty"`
	FaturaMonth           string `json:"faturaMonth,omitempty"`
}

// IsRefund reports whether the income row represents a refund against a
// transaction.
func (i *Income) IsRefund() bool {
	return i.RefundOfTransactionID != ""
}
