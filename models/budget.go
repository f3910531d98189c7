package models

// Budget is a monthly spend target for one category.
type Budget struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	CategoryID string `json:"categoryId"`
	Amount     int64  `json:"amount"`
}

// BudgetProgress is a budget target compared against a month's net spend
// (spent minus replenished income credited to the category).
type BudgetProgress struct {
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	Budget       int64  `json:"budget"`
	Spent        int64  `json:"spent"`
	Replenished  int64  `json:"replenished"`
	NetSpent     int64  `json:"netSpent"`
}
