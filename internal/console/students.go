package console

import (
	"context"
	"strings"

	"github.com/alfredjeanlab/sankalp/internal/client"
	"github.com/alfredjeanlab/sankalp/internal/events"
	"github.com/alfredjeanlab/sankalp/internal/model"
)

// LoadStudents replaces the student cache with the backend's list.
func (a *App) LoadStudents(ctx context.Context) error {
	students, err := a.API.GetStudents(ctx)
	if err != nil {
		return a.HandleError(ctx, err)
	}
	a.commit(ctx, func() { a.Students.Replace(students) })
	return nil
}

// FilterStudents returns cached students whose name, mobile, class, course,
// id or father's name contains query, ignoring case. An empty query matches
// everyone.
func (a *App) FilterStudents(query string) []model.Student {
	return a.Students.Filter(studentMatcher(query))
}

func studentMatcher(query string) func(model.Student) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	return func(s model.Student) bool {
		if q == "" {
			return true
		}
		for _, field := range []string{s.Name, s.Mobile.String(), s.Class, s.Course, s.StudentID, s.FatherName} {
			if strings.Contains(strings.ToLower(field), q) {
				return true
			}
		}
		return false
	}
}

// AddStudent admits a student. A blank admission date means today.
func (a *App) AddStudent(ctx context.Context, req *client.NewStudent) error {
	r := *req
	if r.AdmissionDate == "" {
		r.AdmissionDate = a.today()
	}
	if err := a.API.AddStudent(ctx, &r); err != nil {
		return a.HandleError(ctx, err)
	}
	a.publish(ctx, events.TopicStudentAdded, events.StudentAdded{Name: r.Name, Class: r.Class, Course: r.Course})
	a.notifier.Notify(LevelSuccess, "Student added successfully!")
	a.Go(ctx, func(ctx context.Context) { _ = a.LoadStudents(ctx) })
	return nil
}

// DeleteStudent removes a student.
func (a *App) DeleteStudent(ctx context.Context, studentID string) error {
	if err := a.API.DeleteStudent(ctx, studentID); err != nil {
		return a.HandleError(ctx, err)
	}
	a.publish(ctx, events.TopicStudentDeleted, events.StudentDeleted{StudentID: studentID})
	a.notifier.Notify(LevelSuccess, "Student deleted.")
	a.Go(ctx, func(ctx context.Context) { _ = a.LoadStudents(ctx) })
	return nil
}
