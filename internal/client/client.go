// Package client provides a typed interface to the institute backend's
// actions, built on the gateway's uniform call.
package client

import (
	"context"

	"github.com/alfredjeanlab/sankalp/internal/gateway"
	"github.com/alfredjeanlab/sankalp/internal/model"
)

// Backend action names.
const (
	ActionLogin             = "login"
	ActionGetStudents       = "getStudents"
	ActionAddStudent        = "addStudent"
	ActionDeleteStudent     = "deleteStudent"
	ActionUpdateStudent     = "updateStudent"
	ActionRecordPayment     = "recordPayment"
	ActionGetFeePayments    = "getFeePayments"
	ActionMarkAttendance    = "markAttendance"
	ActionGetAttendanceLog  = "getAttendanceLog"
	ActionGetExpenses       = "getExpenses"
	ActionGetExpenseSummary = "getExpenseSummary"
	ActionAddExpense        = "addExpense"
	ActionDeleteExpense     = "deleteExpense"
	ActionGetClasses        = "getClasses"
	ActionAddClass          = "addClass"
	ActionUpdateClass       = "updateClass"
	ActionDeleteClass       = "deleteClass"
)

// Caller issues one backend action. *gateway.Gateway implements it.
type Caller interface {
	Call(ctx context.Context, action string, params map[string]string) gateway.Result
}

// API is the set of backend actions the console uses. It is implemented by
// Client.
type API interface {
	// Auth
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)

	// Students
	GetStudents(ctx context.Context) ([]model.Student, error)
	AddStudent(ctx context.Context, req *NewStudent) error
	DeleteStudent(ctx context.Context, studentID string) error
	UpdateStudent(ctx context.Context, req *StudentUpdate) error

	// Fees
	RecordPayment(ctx context.Context, req *PaymentRequest) error
	GetFeePayments(ctx context.Context) ([]model.Payment, error)

	// Attendance
	MarkAttendance(ctx context.Context, req *MarkAttendanceRequest) error
	GetAttendanceLog(ctx context.Context, date string) ([]model.AttendanceEntry, error)

	// Expenses
	GetExpenses(ctx context.Context, filter *ExpenseFilter) ([]model.Expense, error)
	GetExpenseSummary(ctx context.Context, year int) (*model.ExpenseSummary, error)
	AddExpense(ctx context.Context, req *NewExpense) error
	DeleteExpense(ctx context.Context, expenseID string) error

	// Classes
	GetClasses(ctx context.Context) ([]model.Class, error)
	AddClass(ctx context.Context, req *NewClass) error
	UpdateClass(ctx context.Context, req *ClassUpdate) error
	DeleteClass(ctx context.Context, classID string) error
}

// LoginRequest holds credentials for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the payload of a successful login.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// NewStudent holds the fields of the admission form.
type NewStudent struct {
	Name          string       `json:"name" validate:"required"`
	FatherName    string       `json:"fatherName" validate:"required"`
	Mobile        string       `json:"mobile" validate:"required"`
	Class         string       `json:"class" validate:"required"`
	Course        string       `json:"course" validate:"required"`
	AdmissionDate string       `json:"admissionDate" validate:"omitempty,datetime=2006-01-02"`
	YearlyFee     model.Number `json:"yearlyFee" validate:"gte=0"`
	FeesPaid      model.Number `json:"feesPaid" validate:"gte=0"`
}

// StudentUpdate holds optional changes to a student row.
// Nil pointer fields mean "don't change".
type StudentUpdate struct {
	StudentID         string        `json:"studentId" validate:"required"`
	YearlyFee         *model.Number `json:"yearlyFee" validate:"omitempty,gte=0"`
	FeesPaid          *model.Number `json:"feesPaid" validate:"omitempty,gte=0"`
	AttendancePercent *model.Number `json:"attendancePercent" validate:"omitempty,gte=0,lte=100"`
}

// PaymentRequest records one fee payment. NewTotal is the student's paid
// total after this payment.
type PaymentRequest struct {
	StudentID   string       `json:"studentId" validate:"required"`
	StudentName string       `json:"studentName"`
	Amount      model.Number `json:"amount" validate:"gt=0"`
	Date        string       `json:"date" validate:"required,datetime=2006-01-02"`
	Mode        string       `json:"mode" validate:"required"`
	Remark      string       `json:"remark"`
	NewTotal    model.Number `json:"newTotal" validate:"gte=0"`
}

// MarkAttendanceRequest records one day's attendance.
type MarkAttendanceRequest struct {
	Date  string                 `json:"date" validate:"required,datetime=2006-01-02"`
	Marks []model.AttendanceMark `json:"records" validate:"required,min=1"`
}

// ExpenseFilter narrows getExpenses. Empty fields are not sent.
type ExpenseFilter struct {
	Month    string `json:"month" validate:"omitempty,datetime=2006-01"`
	Category string `json:"category"`
}

// NewExpense holds the fields of the expense form.
type NewExpense struct {
	Date        string       `json:"date" validate:"required,datetime=2006-01-02"`
	Category    string       `json:"category" validate:"required"`
	Description string       `json:"description"`
	Amount      model.Number `json:"amount" validate:"gt=0"`
	PaymentMode string       `json:"paymentMode"`
	AddedBy     string       `json:"addedBy"`
}

// NewClass holds the fields of the class form.
type NewClass struct {
	ClassName   string       `json:"className" validate:"required"`
	BatchName   string       `json:"batchName"`
	Subject     string       `json:"subject"`
	TeacherName string       `json:"teacherName"`
	Schedule    string       `json:"schedule"`
	Room        string       `json:"room"`
	Capacity    model.Number `json:"capacity" validate:"gte=0"`
}

// ClassUpdate holds optional changes to a class row.
// Nil pointer fields mean "don't change".
type ClassUpdate struct {
	ClassID     string        `json:"classId" validate:"required"`
	ClassName   *string       `json:"className" validate:"omitempty,min=1"`
	BatchName   *string       `json:"batchName"`
	Subject     *string       `json:"subject"`
	TeacherName *string       `json:"teacherName"`
	Schedule    *string       `json:"schedule"`
	Room        *string       `json:"room"`
	Capacity    *model.Number `json:"capacity" validate:"omitempty,gte=0"`
	Status      *string       `json:"status"`
}
