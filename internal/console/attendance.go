package console

import (
	"context"
	"fmt"
	"strings"

	"github.com/alfredjeanlab/sankalp/internal/client"
	"github.com/alfredjeanlab/sankalp/internal/events"
	"github.com/alfredjeanlab/sankalp/internal/model"
)

// attendanceSheet is the day's marking in progress: the active students in
// roster order and each one's current mark.
type attendanceSheet struct {
	roster []model.Student
	marks  map[string]model.AttendanceStatus
}

// RosterEntry is one row of the marking sheet.
type RosterEntry struct {
	Student model.Student
	Status  model.AttendanceStatus
}

// AttendanceStats summarizes the marking sheet.
type AttendanceStats struct {
	Total         int
	Present       int
	Absent        int
	LowAttendance int // students below model.LowAttendanceThreshold
}

// LogSummary counts a day's attendance log.
type LogSummary struct {
	Present int
	Absent  int
}

// LoadRoster fetches the students and starts a fresh marking sheet with
// every active student marked present.
func (a *App) LoadRoster(ctx context.Context) error {
	if err := a.LoadStudents(ctx); err != nil {
		return err
	}
	sheet := &attendanceSheet{marks: make(map[string]model.AttendanceStatus)}
	for _, s := range a.Students.Filter(model.Student.IsActive) {
		sheet.roster = append(sheet.roster, s)
		sheet.marks[s.StudentID] = model.Present
	}
	a.mu.Lock()
	a.sheet = sheet
	a.mu.Unlock()
	return nil
}

// Roster returns the marking sheet rows, optionally limited to one class and
// a search query.
func (a *App) Roster(class, query string) []RosterEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sheet == nil {
		return nil
	}
	keep := rosterFilter(class, query)
	var out []RosterEntry
	for _, s := range a.sheet.roster {
		if keep(s) {
			out = append(out, RosterEntry{Student: s, Status: a.sheet.marks[s.StudentID]})
		}
	}
	return out
}

func rosterFilter(class, query string) func(model.Student) bool {
	match := studentMatcher(query)
	return func(s model.Student) bool {
		if class != "" && !strings.EqualFold(s.Class, class) {
			return false
		}
		return match(s)
	}
}

// Toggle flips a student's mark and returns the new one. It reports false if
// the student is not on the sheet.
func (a *App) Toggle(studentID string) (model.AttendanceStatus, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sheet == nil {
		return "", false
	}
	cur, ok := a.sheet.marks[studentID]
	if !ok {
		return "", false
	}
	next := cur.Toggle()
	a.sheet.marks[studentID] = next
	return next, true
}

// SetMark sets a student's mark. It reports false if the student is not on
// the sheet.
func (a *App) SetMark(studentID string, status model.AttendanceStatus) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sheet == nil || !status.IsValid() {
		return false
	}
	if _, ok := a.sheet.marks[studentID]; !ok {
		return false
	}
	a.sheet.marks[studentID] = status
	return true
}

// MarkAll sets status on every sheet row matching class and query, and
// returns how many rows it touched.
func (a *App) MarkAll(status model.AttendanceStatus, class, query string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sheet == nil || !status.IsValid() {
		return 0
	}
	keep := rosterFilter(class, query)
	n := 0
	for _, s := range a.sheet.roster {
		if keep(s) {
			a.sheet.marks[s.StudentID] = status
			n++
		}
	}
	return n
}

// AttendanceStats counts the marking sheet.
func (a *App) AttendanceStats() AttendanceStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	var st AttendanceStats
	if a.sheet == nil {
		return st
	}
	for _, s := range a.sheet.roster {
		st.Total++
		if a.sheet.marks[s.StudentID] == model.Present {
			st.Present++
		} else {
			st.Absent++
		}
		if s.AttendancePercent < model.LowAttendanceThreshold {
			st.LowAttendance++
		}
	}
	return st
}

// SubmitAttendance sends the marking sheet for date (today when blank).
func (a *App) SubmitAttendance(ctx context.Context, date string) error {
	if date == "" {
		date = a.today()
	}
	a.mu.Lock()
	var marks []model.AttendanceMark
	if a.sheet != nil {
		for _, s := range a.sheet.roster {
			marks = append(marks, model.AttendanceMark{StudentID: s.StudentID, Status: a.sheet.marks[s.StudentID]})
		}
	}
	a.mu.Unlock()
	if len(marks) == 0 {
		return a.fail("No students to mark.")
	}

	if err := a.API.MarkAttendance(ctx, &client.MarkAttendanceRequest{Date: date, Marks: marks}); err != nil {
		return a.HandleError(ctx, err)
	}

	ev := events.AttendanceMarked{Date: date}
	for _, m := range marks {
		if m.Status == model.Present {
			ev.Present++
		} else {
			ev.Absent++
		}
	}
	a.publish(ctx, events.TopicAttendanceMarked, ev)
	a.notifier.Notify(LevelSuccess, fmt.Sprintf("Attendance saved for %d students.", len(marks)))
	return nil
}

// AttendanceLog returns the recorded attendance for date and its counts.
func (a *App) AttendanceLog(ctx context.Context, date string) ([]model.AttendanceEntry, LogSummary, error) {
	if date == "" {
		date = a.today()
	}
	entries, err := a.API.GetAttendanceLog(ctx, date)
	if err != nil {
		return nil, LogSummary{}, a.HandleError(ctx, err)
	}
	present := model.CountPresent(entries)
	return entries, LogSummary{Present: present, Absent: len(entries) - present}, nil
}

// UpdateAttendancePercent overwrites a student's attendance percentage.
func (a *App) UpdateAttendancePercent(ctx context.Context, studentID string, pct model.Number) error {
	if pct < 0 || pct > 100 {
		return a.fail("Please enter a valid percentage (0-100).")
	}
	if err := a.API.UpdateStudent(ctx, &client.StudentUpdate{StudentID: studentID, AttendancePercent: &pct}); err != nil {
		return a.HandleError(ctx, err)
	}

	apply := func(cur model.Student) model.Student { return model.ApplyAttendancePercent(cur, pct) }
	a.Students.Patch(studentID, apply)
	a.FeeStudents.Patch(studentID, apply)
	a.mu.Lock()
	if a.sheet != nil {
		for i, s := range a.sheet.roster {
			if s.StudentID == studentID {
				a.sheet.roster[i] = apply(s)
			}
		}
	}
	a.mu.Unlock()

	a.publish(ctx, events.TopicStudentUpdated, events.StudentUpdated{
		StudentID: studentID,
		Changes:   map[string]any{"attendancePercent": pct},
	})
	a.notifier.Notify(LevelSuccess, "Attendance updated.")
	a.Go(ctx, func(ctx context.Context) { _ = a.LoadStudents(ctx) })
	return nil
}
