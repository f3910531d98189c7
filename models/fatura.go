package models

// Fatura is one monthly statement of a credit card account. There is exactly
// one row per (account, yearMonth); TotalAmount is always recomputed by
// re-aggregation, never edited directly.
type Fatura struct {
	ID                string `json:"id"`
	UserID            string `json:"userId"`
	AccountID         string `json:"accountId"`
	YearMonth         string `json:"yearMonth"`
	TotalAmount       int64  `json:"totalAmount"`
	PaidAt            string `json:"paidAt,omitempty"`
	PaidFromAccountID string `json:"paidFromAccountId,omitempty"`
}

// Paid reports whether the fatura has been settled.
func (f *Fatura) Paid() bool {
	return f.PaidAt != ""
}
