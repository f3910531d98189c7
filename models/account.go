package models

// Account is a money account owned by a user. CurrentBalance is a cached
// projection over the account's ledger rows; only the balance synchronizer
// writes it.
type Account struct {
	ID             string `json:"id"`
	UserID         string `json:"userId"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	CurrentBalance int64  `json:"currentBalance"`
	// Credit card fields. ClosingDay and PaymentDueDay are 1-28.
	ClosingDay    int    `json:"closingDay,omitempty"`
	PaymentDueDay int    `json:"paymentDueDay,omitempty"`
	CreditLimit   *int64 `json:"creditLimit,omitempty"`
}

// IsCreditCard reports whether the account bills through monthly faturas.
func (a *Account) IsCreditCard() bool {
	return a.Type == AccountCreditCard
}
