package models

// Account types
const (
	AccountChecking   = "checking"
	AccountSavings    = "savings"
	AccountCreditCard = "credit_card"
	AccountCash       = "cash"
)

// Transfer types
const (
	TransferInternal      = "internal_transfer"
	TransferDeposit       = "deposit"
	TransferWithdrawal    = "withdrawal"
	TransferFaturaPayment = "fatura_payment"
)

// Category types
const (
	CategoryExpense = "expense"
	CategoryIncome  = "income"
)

// ValidAccountType reports whether t is one of the supported account types.
func ValidAccountType(t string) bool {
	switch t {
	case AccountChecking, AccountSavings, AccountCreditCard, AccountCash:
		return true
	}
	return false
}

// ValidTransferType reports whether t is one of the supported transfer types.
func ValidTransferType(t string) bool {
	switch t {
	case TransferInternal, TransferDeposit, TransferWithdrawal, TransferFaturaPayment:
		return true
	}
	return false
}
