package console

import (
	"context"
	"fmt"

	"github.com/alfredjeanlab/sankalp/internal/client"
	"github.com/alfredjeanlab/sankalp/internal/events"
	"github.com/alfredjeanlab/sankalp/internal/model"
)

// FeeStats summarizes the fee view.
type FeeStats struct {
	Students   int
	Yearly     model.Number
	Collected  model.Number
	Pending    model.Number
	Defaulters int // students with anything pending
}

// Payment is a payment as entered by the operator. Blank Date means today;
// blank Mode means cash.
type Payment struct {
	StudentID string
	Amount    model.Number
	Date      string
	Mode      string
	Remark    string
}

// LoadFees replaces the fee view's cache with the backend's student list.
func (a *App) LoadFees(ctx context.Context) error {
	students, err := a.API.GetStudents(ctx)
	if err != nil {
		return a.HandleError(ctx, err)
	}
	a.commit(ctx, func() { a.FeeStudents.Replace(students) })
	return nil
}

// FeeStats computes totals over the fee cache.
func (a *App) FeeStats() FeeStats {
	var st FeeStats
	for _, s := range a.FeeStudents.All() {
		st.Students++
		st.Yearly += s.YearlyFee
		st.Collected += s.FeesPaid
		st.Pending += s.PendingFee
		if s.PendingFee > 0 {
			st.Defaulters++
		}
	}
	return st
}

// FilterFees returns fee rows matching query (as FilterStudents does) and,
// when status is set, that fee status.
func (a *App) FilterFees(query string, status model.FeeStatus) []model.Student {
	match := studentMatcher(query)
	return a.FeeStudents.Filter(func(s model.Student) bool {
		if status != "" && s.FeeStatus() != status {
			return false
		}
		return match(s)
	})
}

// feeRecord finds a student in the fee cache, falling back to the student
// cache.
func (a *App) feeRecord(studentID string) (model.Student, bool) {
	if s, ok := a.FeeStudents.Get(studentID); ok {
		return s, true
	}
	return a.Students.Get(studentID)
}

// RecordPayment records a payment against a cached student. Once the backend
// accepts it the cached row shows the new paid total and pending balance,
// and the fee and dashboard data are refetched in the background.
func (a *App) RecordPayment(ctx context.Context, p Payment) error {
	s, ok := a.feeRecord(p.StudentID)
	if !ok {
		return a.fail("Student not found.")
	}
	if p.Amount <= 0 {
		return a.fail("Please enter a valid amount.")
	}
	if p.Date == "" {
		p.Date = a.today()
	}
	if p.Mode == "" {
		p.Mode = model.ModeCash
	}

	newTotal := s.FeesPaid + p.Amount
	err := a.API.RecordPayment(ctx, &client.PaymentRequest{
		StudentID:   s.StudentID,
		StudentName: s.Name,
		Amount:      p.Amount,
		Date:        p.Date,
		Mode:        p.Mode,
		Remark:      p.Remark,
		NewTotal:    newTotal,
	})
	if err != nil {
		return a.HandleError(ctx, err)
	}

	a.FeeStudents.Patch(s.StudentID, func(cur model.Student) model.Student {
		return model.ApplyPayment(cur, p.Amount)
	})
	a.Students.Patch(s.StudentID, func(cur model.Student) model.Student {
		return model.ApplyFeeUpdate(cur, cur.YearlyFee, newTotal)
	})

	a.publish(ctx, events.TopicPaymentRecorded, events.PaymentRecorded{
		StudentID:   s.StudentID,
		StudentName: s.Name,
		Amount:      p.Amount,
		NewTotal:    newTotal,
		Mode:        p.Mode,
		Date:        p.Date,
	})
	a.notifier.Notify(LevelSuccess, fmt.Sprintf("Payment of %s recorded for %s.", FormatAmount(p.Amount), s.Name))
	a.Go(ctx, a.refreshFees)
	return nil
}

// UpdateFees overwrites a student's yearly fee and paid total.
func (a *App) UpdateFees(ctx context.Context, studentID string, yearly, paid model.Number) error {
	if yearly < 0 || paid < 0 {
		return a.fail("Please enter valid fee amounts.")
	}
	err := a.API.UpdateStudent(ctx, &client.StudentUpdate{
		StudentID: studentID,
		YearlyFee: &yearly,
		FeesPaid:  &paid,
	})
	if err != nil {
		return a.HandleError(ctx, err)
	}

	apply := func(cur model.Student) model.Student { return model.ApplyFeeUpdate(cur, yearly, paid) }
	a.FeeStudents.Patch(studentID, apply)
	a.Students.Patch(studentID, apply)

	a.publish(ctx, events.TopicStudentUpdated, events.StudentUpdated{
		StudentID: studentID,
		Changes:   map[string]any{"yearlyFee": yearly, "feesPaid": paid},
	})
	a.notifier.Notify(LevelSuccess, "Fee details updated.")
	a.Go(ctx, a.refreshFees)
	return nil
}

func (a *App) refreshFees(ctx context.Context) {
	if err := a.LoadFees(ctx); err != nil || a.stale(ctx) {
		return
	}
	_, _ = a.LoadDashboard(ctx)
}

// PaymentHistory returns the recorded payments for studentID (all payments
// when empty) and their total.
func (a *App) PaymentHistory(ctx context.Context, studentID string) ([]model.Payment, model.Number, error) {
	payments, err := a.API.GetFeePayments(ctx)
	if err != nil {
		return nil, 0, a.HandleError(ctx, err)
	}
	if studentID != "" {
		out := payments[:0:0]
		for _, p := range payments {
			if p.StudentID == studentID {
				out = append(out, p)
			}
		}
		payments = out
	}
	return payments, model.TotalPaid(payments), nil
}
