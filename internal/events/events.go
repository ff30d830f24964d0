package events

import (
	"context"

	"github.com/alfredjeanlab/sankalp/internal/model"
)

// Event topic constants
const (
	// TopicAll matches every console activity topic.
	TopicAll = "sankalp.>"

	TopicSessionLogin   = "sankalp.session.login"
	TopicSessionLogout  = "sankalp.session.logout"
	TopicSessionExpired = "sankalp.session.expired"

	TopicStudentAdded   = "sankalp.student.added"
	TopicStudentUpdated = "sankalp.student.updated"
	TopicStudentDeleted = "sankalp.student.deleted"

	TopicPaymentRecorded = "sankalp.payment.recorded"

	TopicAttendanceMarked = "sankalp.attendance.marked"

	TopicExpenseAdded   = "sankalp.expense.added"
	TopicExpenseDeleted = "sankalp.expense.deleted"

	TopicClassAdded   = "sankalp.class.added"
	TopicClassUpdated = "sankalp.class.updated"
	TopicClassDeleted = "sankalp.class.deleted"
)

// Event types

type SessionEvent struct {
	Username string `json:"username"`
}

type StudentAdded struct {
	Name   string `json:"name"`
	Class  string `json:"class"`
	Course string `json:"course"`
}

type StudentUpdated struct {
	StudentID string         `json:"student_id"`
	Changes   map[string]any `json:"changes"` // wire param -> new value
}

type StudentDeleted struct {
	StudentID string `json:"student_id"`
}

type PaymentRecorded struct {
	StudentID   string       `json:"student_id"`
	StudentName string       `json:"student_name"`
	Amount      model.Number `json:"amount"`
	NewTotal    model.Number `json:"new_total"`
	Mode        string       `json:"mode"`
	Date        string       `json:"date"`
}

type AttendanceMarked struct {
	Date    string `json:"date"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
}

type ExpenseAdded struct {
	Category string       `json:"category"`
	Amount   model.Number `json:"amount"`
	Date     string       `json:"date"`
	AddedBy  string       `json:"added_by,omitempty"`
}

type ExpenseDeleted struct {
	ExpenseID string `json:"expense_id"`
}

type ClassAdded struct {
	ClassName string `json:"class_name"`
	BatchName string `json:"batch_name,omitempty"`
}

type ClassUpdated struct {
	ClassID string         `json:"class_id"`
	Changes map[string]any `json:"changes"`
}

type ClassDeleted struct {
	ClassID string `json:"class_id"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
