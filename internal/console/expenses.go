package console

import (
	"context"
	"time"

	"github.com/alfredjeanlab/sankalp/internal/client"
	"github.com/alfredjeanlab/sankalp/internal/events"
	"github.com/alfredjeanlab/sankalp/internal/model"
)

// DefaultAddedBy is recorded on expenses added without a signed-in username.
const DefaultAddedBy = "Admin"

// ExpenseStats summarizes the loaded expenses and the yearly summary.
type ExpenseStats struct {
	Count       int
	Total       model.Number // of the loaded (filtered) expenses
	YearTotal   model.Number
	TopCategory string
	Breakdown   []model.CategoryShare
}

// LoadExpenses fetches the expenses for month and category (either may be
// blank) together with the yearly summary for month's year, or this year's
// when month is blank.
func (a *App) LoadExpenses(ctx context.Context, month, category string) error {
	filter := client.ExpenseFilter{Month: month, Category: category}
	year := a.now().Year()
	if month != "" {
		if t, err := time.Parse(monthLayout, month); err == nil {
			year = t.Year()
		}
	}

	var (
		expenses []model.Expense
		summary  *model.ExpenseSummary
	)
	err := join(ctx,
		func(ctx context.Context) error {
			var err error
			expenses, err = a.API.GetExpenses(ctx, &filter)
			return err
		},
		func(ctx context.Context) error {
			var err error
			summary, err = a.API.GetExpenseSummary(ctx, year)
			return err
		},
	)
	if err != nil {
		return a.HandleError(ctx, err)
	}

	a.commit(ctx, func() {
		a.Expenses.Replace(expenses)
		a.mu.Lock()
		a.summary = summary
		a.expenseFilter = filter
		a.mu.Unlock()
	})
	return nil
}

// ExpenseStats computes totals over the loaded expenses.
func (a *App) ExpenseStats() ExpenseStats {
	expenses := a.Expenses.All()
	st := ExpenseStats{
		Count: len(expenses),
		Total: model.TotalExpenses(expenses),
	}
	a.mu.Lock()
	summary := a.summary
	a.mu.Unlock()
	if summary != nil {
		st.YearTotal = summary.Total
		st.TopCategory = summary.TopCategory()
		st.Breakdown = summary.Breakdown()
	}
	return st
}

// AddExpense records an expense. Blank date means today and blank AddedBy
// means the signed-in operator.
func (a *App) AddExpense(ctx context.Context, req *client.NewExpense) error {
	if req.Category == "" || req.Amount <= 0 {
		return a.fail("Category and Amount are required.")
	}
	r := *req
	if r.Date == "" {
		r.Date = a.today()
	}
	if r.AddedBy == "" {
		r.AddedBy = a.Session.Username()
	}
	if r.AddedBy == "" {
		r.AddedBy = DefaultAddedBy
	}
	if err := a.API.AddExpense(ctx, &r); err != nil {
		return a.HandleError(ctx, err)
	}
	a.publish(ctx, events.TopicExpenseAdded, events.ExpenseAdded{
		Category: r.Category,
		Amount:   r.Amount,
		Date:     r.Date,
		AddedBy:  r.AddedBy,
	})
	a.notifier.Notify(LevelSuccess, "Expense added!")
	a.Go(ctx, a.reloadExpenses)
	return nil
}

// DeleteExpense removes an expense.
func (a *App) DeleteExpense(ctx context.Context, expenseID string) error {
	if err := a.API.DeleteExpense(ctx, expenseID); err != nil {
		return a.HandleError(ctx, err)
	}
	a.publish(ctx, events.TopicExpenseDeleted, events.ExpenseDeleted{ExpenseID: expenseID})
	a.notifier.Notify(LevelSuccess, "Expense deleted.")
	a.Go(ctx, a.reloadExpenses)
	return nil
}

// reloadExpenses refetches with the filter of the last load.
func (a *App) reloadExpenses(ctx context.Context) {
	a.mu.Lock()
	f := a.expenseFilter
	a.mu.Unlock()
	_ = a.LoadExpenses(ctx, f.Month, f.Category)
}

// ExpenseSummary fetches the category roll-up for year, or for the current
// year when year is zero.
func (a *App) ExpenseSummary(ctx context.Context, year int) (*model.ExpenseSummary, error) {
	if year == 0 {
		year = a.now().Year()
	}
	summary, err := a.API.GetExpenseSummary(ctx, year)
	if err != nil {
		return nil, a.HandleError(ctx, err)
	}
	a.mu.Lock()
	a.summary = summary
	a.mu.Unlock()
	return summary, nil
}
