package console

import (
	"context"

	"github.com/alfredjeanlab/sankalp/internal/client"
	"github.com/alfredjeanlab/sankalp/internal/model"
)

// RecentCount is how many of the latest admissions the dashboard lists.
const RecentCount = 5

// Dashboard is the landing screen's summary.
type Dashboard struct {
	TotalStudents int
	Collected     model.Number
	Pending       model.Number
	MonthExpense  model.Number
	Month         string
	Recent        []model.Student // newest first
}

// LoadDashboard fetches students and this month's expenses concurrently and
// summarizes them. The student cache is refreshed as a side effect. If only
// the expense fetch fails, the month's expense total shows as zero; an
// authorization failure from either fetch still ends the session.
func (a *App) LoadDashboard(ctx context.Context) (*Dashboard, error) {
	month := a.now().Format(monthLayout)

	var (
		students []model.Student
		expenses []model.Expense
	)
	err := join(ctx,
		func(ctx context.Context) error {
			var err error
			students, err = a.API.GetStudents(ctx)
			return err
		},
		func(ctx context.Context) error {
			var err error
			expenses, err = a.API.GetExpenses(ctx, &client.ExpenseFilter{Month: month})
			if err != nil && !client.IsUnauthorized(err) {
				a.logger.Warn("console: dashboard expenses unavailable", "month", month, "error", err)
				expenses = nil
				return nil
			}
			return err
		},
	)
	if err != nil {
		return nil, a.HandleError(ctx, err)
	}

	a.commit(ctx, func() { a.Students.Replace(students) })
	return summarize(students, expenses, month), nil
}

func summarize(students []model.Student, expenses []model.Expense, month string) *Dashboard {
	d := &Dashboard{
		TotalStudents: len(students),
		MonthExpense:  model.TotalExpenses(expenses),
		Month:         month,
	}
	for _, s := range students {
		d.Collected += s.FeesPaid
		d.Pending += s.PendingFee
	}
	n := min(RecentCount, len(students))
	d.Recent = make([]model.Student, 0, n)
	for i := len(students) - 1; i >= len(students)-n; i-- {
		d.Recent = append(d.Recent, students[i])
	}
	return d
}
