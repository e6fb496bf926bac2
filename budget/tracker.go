// Package budget tracks category budgets, recorded expenses and savings
// goals for one account.
package budget

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/pinkpay/offramp-engine/engine"
	"github.com/pinkpay/offramp-engine/models"
	"github.com/pinkpay/offramp-engine/store"
)

type Tracker struct {
	store store.Store
}

func NewTracker(s store.Store) *Tracker {
	return &Tracker{store: s}
}

// Budgets loads the account's budgets, seeding one zeroed budget per
// known category on first use.
func (t *Tracker) Budgets(accountID string) ([]models.Budget, error) {
	var budgets []models.Budget
	found, err := t.store.Load(accountID, store.KindBudgets, &budgets)
	if err != nil {
		return nil, err
	}
	if !found {
		budgets = make([]models.Budget, 0, len(models.ExpenseCategories))
		for _, c := range models.ExpenseCategories {
			budgets = append(budgets, models.Budget{Category: c.Code})
		}
	}
	return budgets, nil
}

func (t *Tracker) Expenses(accountID string) ([]models.Expense, error) {
	var expenses []models.Expense
	if _, err := t.store.Load(accountID, store.KindExpenses, &expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

// AddExpense records an expense and bumps the category's running spend.
// Validation failures leave both collections untouched.
func (t *Tracker) AddExpense(accountID, category, description string, amount float64, date time.Time) (models.Expense, error) {
	if amount <= 0 {
		return models.Expense{}, fmt.Errorf("%w: expense amount must be positive", engine.ErrInvalidAmount)
	}
	if !models.KnownCategory(category) {
		return models.Expense{}, fmt.Errorf("%w: %q", engine.ErrUnknownCategory, category)
	}

	expenses, err := t.Expenses(accountID)
	if err != nil {
		return models.Expense{}, err
	}
	budgets, err := t.Budgets(accountID)
	if err != nil {
		return models.Expense{}, err
	}

	expense := models.Expense{
		ID:          uuid.New().String(),
		Category:    category,
		Description: description,
		Amount:      amount,
		Date:        date,
	}
	expenses = append(expenses, expense)
	for i := range budgets {
		if budgets[i].Category == category {
			budgets[i].Spent += amount
			break
		}
	}

	if err := t.store.Save(accountID, store.KindExpenses, expenses); err != nil {
		return models.Expense{}, err
	}
	if err := t.store.Save(accountID, store.KindBudgets, budgets); err != nil {
		return models.Expense{}, err
	}
	return expense, nil
}

// SetBudget overwrites the budgeted amount for a category. The running
// spend is deliberately preserved.
func (t *Tracker) SetBudget(accountID, category string, amount float64) (models.Budget, error) {
	if amount < 0 {
		return models.Budget{}, fmt.Errorf("%w: budget amount cannot be negative", engine.ErrInvalidAmount)
	}
	if !models.KnownCategory(category) {
		return models.Budget{}, fmt.Errorf("%w: %q", engine.ErrUnknownCategory, category)
	}

	budgets, err := t.Budgets(accountID)
	if err != nil {
		return models.Budget{}, err
	}
	var updated models.Budget
	for i := range budgets {
		if budgets[i].Category == category {
			budgets[i].Budgeted = amount
			updated = budgets[i]
			break
		}
	}
	if err := t.store.Save(accountID, store.KindBudgets, budgets); err != nil {
		return models.Budget{}, err
	}
	return updated, nil
}

// IsOverBudget reports spend strictly above the budgeted amount.
func IsOverBudget(b models.Budget) bool {
	return b.Spent > b.Budgeted
}

// Overage is the amount spent beyond the budget, zero when within it.
func Overage(b models.Budget) float64 {
	if over := b.Spent - b.Budgeted; over > 0 {
		return over
	}
	return 0
}

// MonthlyExpenses returns expenses dated on or after the first of the
// month containing now.
func (t *Tracker) MonthlyExpenses(accountID string, now time.Time) ([]models.Expense, error) {
	expenses, err := t.Expenses(accountID)
	if err != nil {
		return nil, err
	}
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	out := make([]models.Expense, 0, len(expenses))
	for _, e := range expenses {
		if !e.Date.Before(monthStart) {
			out = append(out, e)
		}
	}
	return out, nil
}

// MonthlyTotal sums the current month's expenses.
func (t *Tracker) MonthlyTotal(accountID string, now time.Time) (float64, error) {
	expenses, err := t.MonthlyExpenses(accountID, now)
	if err != nil {
		return 0, err
	}
	total := 0.0
	for _, e := range expenses {
		total += e.Amount
	}
	return total, nil
}

func (t *Tracker) Goals(accountID string) ([]models.SavingsGoal, error) {
	var goals []models.SavingsGoal
	if _, err := t.store.Load(accountID, store.KindGoals, &goals); err != nil {
		return nil, err
	}
	return goals, nil
}

// AddGoal creates a savings goal. Target must be positive so progress is
// always defined.
func (t *Tracker) AddGoal(accountID, title string, target float64, deadline time.Time) (models.SavingsGoal, error) {
	if target <= 0 {
		return models.SavingsGoal{}, fmt.Errorf("%w: goal target must be positive", engine.ErrInvalidAmount)
	}
	goals, err := t.Goals(accountID)
	if err != nil {
		return models.SavingsGoal{}, err
	}
	goal := models.SavingsGoal{
		ID:       uuid.New().String(),
		Title:    title,
		Target:   target,
		Deadline: deadline,
	}
	goals = append(goals, goal)
	if err := t.store.Save(accountID, store.KindGoals, goals); err != nil {
		return models.SavingsGoal{}, err
	}
	return goal, nil
}

// Contribute adds amount to a goal's saved total.
func (t *Tracker) Contribute(accountID, goalID string, amount float64) (models.SavingsGoal, error) {
	if amount <= 0 {
		return models.SavingsGoal{}, fmt.Errorf("%w: contribution must be positive", engine.ErrInvalidAmount)
	}
	goals, err := t.Goals(accountID)
	if err != nil {
		return models.SavingsGoal{}, err
	}
	for i := range goals {
		if goals[i].ID == goalID {
			goals[i].Current += amount
			if err := t.store.Save(accountID, store.KindGoals, goals); err != nil {
				return models.SavingsGoal{}, err
			}
			return goals[i], nil
		}
	}
	return models.SavingsGoal{}, fmt.Errorf("goal %s not found", goalID)
}

// GoalProgress is the saved percentage of the target.
func GoalProgress(g models.SavingsGoal) float64 {
	return g.Current / g.Target * 100
}

// DaysLeft counts whole days until the deadline, rounding partial days
// up. Zero or negative means the goal is overdue.
func DaysLeft(g models.SavingsGoal, now time.Time) int {
	return int(math.Ceil(g.Deadline.Sub(now).Hours() / 24))
}

// Overdue reports a passed deadline.
func Overdue(g models.SavingsGoal, now time.Time) bool {
	return DaysLeft(g, now) <= 0
}

// Summary is the planner overview card.
type Summary struct {
	TotalSpent    float64 `json:"total_spent"`
	TotalBudgeted float64 `json:"total_budgeted"`
	MonthlyTotal  float64 `json:"monthly_total"`
	OverBudget    int     `json:"over_budget_categories"`
}

func (t *Tracker) Summarize(accountID string, now time.Time) (Summary, error) {
	budgets, err := t.Budgets(accountID)
	if err != nil {
		return Summary{}, err
	}
	monthly, err := t.MonthlyTotal(accountID, now)
	if err != nil {
		return Summary{}, err
	}
	s := Summary{MonthlyTotal: monthly}
	for _, b := range budgets {
		s.TotalSpent += b.Spent
		s.TotalBudgeted += b.Budgeted
		if IsOverBudget(b) {
			s.OverBudget++
		}
	}
	return s, nil
}
