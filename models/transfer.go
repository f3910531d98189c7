package models

// Transfer moves money between at most two accounts. Either side may be
// empty: a deposit has only a destination, a withdrawal only a source. A
// transfer with FaturaID set was derived from a paid fatura and is locked
// against edits and deletes.
type Transfer struct {
	ID            string `json:"id"`
	UserID        string `json:"userId"`
	Type          string `json:"type"`
	FromAccountID string `json:"fromAccountId,omitempty"`
	ToAccountID   string `json:"toAccountId,omitempty"`
	Amount        int64  `json:"amount"`
	Date          string `json:"date"`
	Ignored       bool   `json:"ignored"`
	FaturaID      string `json:"faturaId,omitempty"`
}

// Locked reports whether the transfer is derived from a fatura and therefore
// immutable.
func (t *Transfer) Locked() bool {
	return t.FaturaID != ""
}
