package models

// Transaction is a logical purchase, split into one entry per installment.
// RefundedAmount is a denormalized running total of refunds applied to it
// and never exceeds TotalAmount.
type Transaction struct {
	ID                string  `json:"id"`
	UserID            string  `json:"userId"`
	Description       string  `json:"description"`
	TotalAmount       int64   `json:"totalAmount"`
	TotalInstallments int     `json:"totalInstallments"`
	CategoryID        string  `json:"categoryId"`
	RefundedAmount    int64   `json:"refundedAmount"`
	Entries           []Entry `json:"entries,omitempty"`
}

// Entry is one installment of a transaction. For credit card accounts the
// due date decides which fatura the entry belongs to.
type Entry struct {
	ID            string `json:"id"`
	UserID        string `json:"userId"`
	TransactionID string `json:"transactionId"`
	Installment   int    `json:"installment"`
	AccountID     string `json:"accountId"`
	Amount        int64  `json:"amount"`
	PurchaseDate  string `json:"purchaseDate"`
	DueDate       string `json:"dueDate"`
	PaidAt        string `json:"paidAt,omitempty"`
}
