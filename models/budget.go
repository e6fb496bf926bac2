package models

import "time"

type ExpenseCategory struct {
	Code  string `json:"code"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// ExpenseCategories is the fixed category table; expense and budget
// operations reject codes that are not listed here.
var ExpenseCategories = []ExpenseCategory{
	{Code: "food", Label: "Food & Dining", Icon: "🍽️"},
	{Code: "transport", Label: "Transport", Icon: "🚗"},
	{Code: "entertainment", Label: "Entertainment", Icon: "🎬"},
	{Code: "shopping", Label: "Shopping", Icon: "🛍️"},
	{Code: "bills", Label: "Bills & Utilities", Icon: "⚡"},
	{Code: "healthcare", Label: "Healthcare", Icon: "🏥"},
	{Code: "education", Label: "Education", Icon: "📚"},
	{Code: "crypto", Label: "Crypto Trading", Icon: "₿"},
	{Code: "savings", Label: "Savings", Icon: "💰"},
	{Code: "other", Label: "Other", Icon: "📝"},
}

// KnownCategory reports whether code is in the category table.
func KnownCategory(code string) bool {
	for _, c := range ExpenseCategories {
		if c.Code == code {
			return true
		}
	}
	return false
}

type Expense struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Date        time.Time `json:"date"`
}

// Budget tracks one category. Spent is the running sum of expenses
// recorded in that category and survives budget amount changes.
type Budget struct {
	Category string  `json:"category"`
	Budgeted float64 `json:"budgeted"`
	Spent    float64 `json:"spent"`
}

type SavingsGoal struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Target   float64   `json:"target"`
	Current  float64   `json:"current"`
	Deadline time.Time `json:"deadline"`
}
