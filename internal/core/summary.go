package core

// CategoryTotal is the sum of transaction amounts for one category in a month.
type CategoryTotal struct {
	CategoryID   int64        `json:"category_id"`
	CategoryName string       `json:"category_name"`
	Type         CategoryType `json:"type"`
	Total        Money        `json:"total"`
}

// Summary is the monthly income/expense overview for one user.
type Summary struct {
	Month        Month           `json:"month"`
	TotalIncome  Money           `json:"total_income"`
	TotalExpense Money           `json:"total_expense"`
	Net          Money           `json:"net"`
	Breakdown    []CategoryTotal `json:"breakdown"`
}

// BudgetSummaryItem compares a category's budget with its spend.
type BudgetSummaryItem struct {
	CategoryID   int64  `json:"category_id"`
	CategoryName string `json:"category_name"`
	Budget       Money  `json:"budget"`
	Spent        Money  `json:"spent"`
	Diff         Money  `json:"diff"`
}

// BudgetStatusItem is a BudgetSummaryItem with the percentage of the budget used.
type BudgetStatusItem struct {
	BudgetSummaryItem
	UsageRate float64 `json:"usage_rate"`
}
