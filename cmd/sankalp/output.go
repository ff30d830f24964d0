package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/alfredjeanlab/sankalp/internal/console"
	"github.com/alfredjeanlab/sankalp/internal/model"
	"github.com/alfredjeanlab/sankalp/internal/ui"
)

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func truncate(s string, n int) string {
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-3]) + "..."
}

func printDashboard(w io.Writer, d *console.Dashboard) {
	fmt.Fprintf(w, "Students:       %d\n", d.TotalStudents)
	fmt.Fprintf(w, "Fees collected: %s\n", ui.RenderSuccess(console.FormatAmount(d.Collected)))
	fmt.Fprintf(w, "Fees pending:   %s\n", ui.RenderWarn(console.FormatAmount(d.Pending)))
	fmt.Fprintf(w, "Expenses (%s): %s\n", d.Month, console.FormatAmount(d.MonthExpense))
	if len(d.Recent) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.RenderAccent("Recent admissions"))
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tCLASS\tCOURSE\tADMITTED")
	for _, s := range d.Recent {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.StudentID, s.Name, s.Class, s.Course, s.AdmissionDate)
	}
	tw.Flush()
}

func printStudentTable(w io.Writer, students []model.Student) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tFATHER\tMOBILE\tCLASS\tCOURSE\tATTENDANCE\tFEES")
	for _, s := range students {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			s.StudentID,
			truncate(s.Name, 30),
			truncate(s.FatherName, 24),
			s.Mobile,
			s.Class,
			s.Course,
			ui.RenderStanding(s.AttendancePercent, s.AttendanceStanding()),
			ui.RenderFeeStatus(s.FeeStatus()),
		)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d students\n", len(students))
}

func printFeeTable(w io.Writer, students []model.Student, st console.FeeStats) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tCLASS\tYEARLY\tPAID\tPENDING\tPAID%\tSTATUS")
	for _, s := range students {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%d%%\t%s\n",
			s.StudentID,
			truncate(s.Name, 30),
			s.Class,
			console.FormatAmount(s.YearlyFee),
			console.FormatAmount(s.FeesPaid),
			console.FormatAmount(s.PendingFee),
			s.PaidPercent(),
			ui.RenderFeeStatus(s.FeeStatus()),
		)
	}
	tw.Flush()
	fmt.Fprintf(w, "\nYearly %s  Collected %s  Pending %s  Defaulters %d\n",
		console.FormatAmount(st.Yearly),
		console.FormatAmount(st.Collected),
		console.FormatAmount(st.Pending),
		st.Defaulters,
	)
}

func printPaymentTable(w io.Writer, payments []model.Payment, total model.Number) {
	tw := newTable(w)
	fmt.Fprintln(tw, "DATE\tSTUDENT\tNAME\tAMOUNT\tMODE\tBALANCE\tREMARK")
	for _, p := range payments {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			p.Date,
			p.StudentID,
			p.StudentName,
			console.FormatAmount(p.Amount),
			p.Mode,
			console.FormatAmount(p.BalanceAfter),
			p.Remark,
		)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d payments, %s total\n", len(payments), console.FormatAmount(total))
}

func printRoster(w io.Writer, rows []console.RosterEntry, st console.AttendanceStats) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tCLASS\tOVERALL\tMARK")
	for _, r := range rows {
		s := r.Student
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			s.StudentID,
			truncate(s.Name, 30),
			s.Class,
			ui.RenderStanding(s.AttendancePercent, s.AttendanceStanding()),
			ui.RenderAttendance(r.Status),
		)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d students: %d present, %d absent, %d below %d%%\n",
		st.Total, st.Present, st.Absent, st.LowAttendance, model.LowAttendanceThreshold)
}

func printAttendanceLog(w io.Writer, date string, entries []model.AttendanceEntry, sum console.LogSummary) {
	if len(entries) == 0 {
		fmt.Fprintf(w, "No attendance recorded for %s.\n", date)
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tCLASS\tSTATUS")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.StudentID, e.Name, e.Class, ui.RenderAttendance(e.Status))
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%s: %d present, %d absent\n", date, sum.Present, sum.Absent)
}

func printExpenseTable(w io.Writer, expenses []model.Expense, st console.ExpenseStats) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tDATE\tCATEGORY\tAMOUNT\tMODE\tADDED BY\tDESCRIPTION")
	for _, e := range expenses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ExpenseID,
			e.Date,
			e.Category,
			console.FormatAmount(e.Amount),
			e.PaymentMode,
			e.AddedBy,
			truncate(e.Description, 40),
		)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d expenses, %s total", st.Count, console.FormatAmount(st.Total))
	if st.TopCategory != "" {
		fmt.Fprintf(w, " (year %s, top category %s)", console.FormatAmount(st.YearTotal), st.TopCategory)
	}
	fmt.Fprintln(w)
}

func printExpenseSummary(w io.Writer, year int, summary *model.ExpenseSummary) {
	fmt.Fprintf(w, "%s %d: %s\n", ui.RenderAccent("Expenses"), year, console.FormatAmount(summary.Total))
	tw := newTable(w)
	for _, c := range summary.Breakdown() {
		fmt.Fprintf(tw, "  %s\t%s\t%d%%\n", c.Category, console.FormatAmount(c.Amount), c.Percent)
	}
	tw.Flush()
}

func printClassTable(w io.Writer, classes []model.Class, st console.ClassStats) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tCLASS\tBATCH\tSUBJECT\tTEACHER\tSCHEDULE\tROOM\tSEATS\tSTATUS")
	for _, c := range classes {
		status := c.Status
		if status == "" {
			status = model.StatusActive
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s/%s (%d%%)\t%s\n",
			c.ClassID,
			c.ClassName,
			c.BatchName,
			c.Subject,
			c.TeacherName,
			c.Schedule,
			c.Room,
			c.Enrolled,
			c.Capacity,
			c.OccupancyPercent(),
			status,
		)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d classes (%d active), %s/%s seats filled\n",
		st.Total, st.Active, st.Enrolled, st.Capacity)
}
