package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pinkpay/offramp-engine/budget"
	"github.com/pinkpay/offramp-engine/models"
)

type BudgetHandler struct {
	tracker *budget.Tracker
}

func NewBudgetHandler(t *budget.Tracker) *BudgetHandler {
	return &BudgetHandler{tracker: t}
}

func (h *BudgetHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": models.ExpenseCategories})
}

type AddExpenseRequest struct {
	Category    string  `json:"category" binding:"required"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount" binding:"required"`
}

func (h *BudgetHandler) AddExpense(c *gin.Context) {
	var req AddExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	expense, err := h.tracker.AddExpense(accountID(c), req.Category, req.Description, req.Amount, time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// ListExpenses returns all expenses, or only the current month's with
// ?month=current.
func (h *BudgetHandler) ListExpenses(c *gin.Context) {
	account := accountID(c)
	var (
		expenses []models.Expense
		err      error
	)
	if c.Query("month") == "current" {
		expenses, err = h.tracker.MonthlyExpenses(account, time.Now())
	} else {
		expenses, err = h.tracker.Expenses(account)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expenses": expenses})
}

type budgetView struct {
	models.Budget
	OverBudget bool    `json:"over_budget"`
	Overage    float64 `json:"overage"`
}

func (h *BudgetHandler) ListBudgets(c *gin.Context) {
	budgets, err := h.tracker.Budgets(accountID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	views := make([]budgetView, 0, len(budgets))
	for _, b := range budgets {
		views = append(views, budgetView{
			Budget:     b,
			OverBudget: budget.IsOverBudget(b),
			Overage:    budget.Overage(b),
		})
	}
	c.JSON(http.StatusOK, gin.H{"budgets": views})
}

type SetBudgetRequest struct {
	Amount float64 `json:"amount" binding:"required,gte=0"`
}

func (h *BudgetHandler) SetBudget(c *gin.Context) {
	var req SetBudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	b, err := h.tracker.SetBudget(accountID(c), c.Param("category"), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, budgetView{
		Budget:     b,
		OverBudget: budget.IsOverBudget(b),
		Overage:    budget.Overage(b),
	})
}

type AddGoalRequest struct {
	Title    string    `json:"title" binding:"required"`
	Target   float64   `json:"target" binding:"required"`
	Deadline time.Time `json:"deadline" binding:"required"`
}

type goalView struct {
	models.SavingsGoal
	Progress float64 `json:"progress"`
	DaysLeft int     `json:"days_left"`
	Overdue  bool    `json:"overdue"`
}

func newGoalView(g models.SavingsGoal, now time.Time) goalView {
	return goalView{
		SavingsGoal: g,
		Progress:    budget.GoalProgress(g),
		DaysLeft:    budget.DaysLeft(g, now),
		Overdue:     budget.Overdue(g, now),
	}
}

func (h *BudgetHandler) AddGoal(c *gin.Context) {
	var req AddGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	goal, err := h.tracker.AddGoal(accountID(c), req.Title, req.Target, req.Deadline)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newGoalView(goal, time.Now()))
}

func (h *BudgetHandler) ListGoals(c *gin.Context) {
	goals, err := h.tracker.Goals(accountID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	now := time.Now()
	views := make([]goalView, 0, len(goals))
	for _, g := range goals {
		views = append(views, newGoalView(g, now))
	}
	c.JSON(http.StatusOK, gin.H{"goals": views})
}

type ContributeRequest struct {
	Amount float64 `json:"amount" binding:"required"`
}

func (h *BudgetHandler) Contribute(c *gin.Context) {
	var req ContributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	goal, err := h.tracker.Contribute(accountID(c), c.Param("id"), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newGoalView(goal, time.Now()))
}

func (h *BudgetHandler) Summary(c *gin.Context) {
	summary, err := h.tracker.Summarize(accountID(c), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
