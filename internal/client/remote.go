package client

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/alfredjeanlab/sankalp/internal/gateway"
	"github.com/alfredjeanlab/sankalp/internal/model"
)

// ErrNoToken is returned by Login when the backend reports success without
// issuing a token.
var ErrNoToken = errors.New("login succeeded without a token")

var _ API = (*Client)(nil)

// Client implements API on top of a Caller.
type Client struct {
	caller Caller
}

// New creates a client issuing calls through caller.
func New(caller Caller) *Client {
	return &Client{caller: caller}
}

// RemoteError is a failed backend action. Message is the text to show the
// user: the backend's own message, or the gateway's fixed text for timeouts
// and transport failures.
type RemoteError struct {
	Action  string
	Kind    gateway.ErrorKind
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// IsUnauthorized reports whether err is a backend authorization failure.
func IsUnauthorized(err error) bool {
	return KindOf(err) == gateway.KindUnauthorized
}

// KindOf returns the gateway error kind carried by err, or KindNone if err is
// not a *RemoteError.
func KindOf(err error) gateway.ErrorKind {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Kind
	}
	return gateway.KindNone
}

// do issues one action and decodes its payload into result. If result is
// nil the payload is discarded.
func (c *Client) do(ctx context.Context, action string, params map[string]string, result any) error {
	res := c.caller.Call(ctx, action, params)
	if !res.OK {
		return &RemoteError{Action: action, Kind: res.Kind, Message: res.Error}
	}
	if result != nil {
		if err := res.Decode(result); err != nil {
			return fmt.Errorf("%s: %w", action, err)
		}
	}
	return nil
}

// --- Auth ---

func (c *Client) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := validateRequest(ActionLogin, req); err != nil {
		return nil, err
	}
	var resp LoginResponse
	err := c.do(ctx, ActionLogin, map[string]string{
		"username": req.Username,
		"password": req.Password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, ErrNoToken
	}
	if resp.Username == "" {
		resp.Username = req.Username
	}
	return &resp, nil
}

// --- Students ---

func (c *Client) GetStudents(ctx context.Context) ([]model.Student, error) {
	var students []model.Student
	if err := c.do(ctx, ActionGetStudents, nil, &students); err != nil {
		return nil, err
	}
	return students, nil
}

func (c *Client) AddStudent(ctx context.Context, req *NewStudent) error {
	if err := validateRequest(ActionAddStudent, req); err != nil {
		return err
	}
	return c.do(ctx, ActionAddStudent, map[string]string{
		"name":          req.Name,
		"fatherName":    req.FatherName,
		"mobile":        req.Mobile,
		"class":         req.Class,
		"course":        req.Course,
		"admissionDate": req.AdmissionDate,
		"yearlyFee":     req.YearlyFee.String(),
		"feesPaid":      req.FeesPaid.String(),
	}, nil)
}

func (c *Client) DeleteStudent(ctx context.Context, studentID string) error {
	if studentID == "" {
		return &ValidationError{Action: ActionDeleteStudent, Fields: []FieldError{{Field: "studentId", Message: "studentId is a required field"}}}
	}
	return c.do(ctx, ActionDeleteStudent, map[string]string{"studentId": studentID}, nil)
}

// UpdateStudent sends only the fields set on req. The yearly fee travels
// under the backend's legacy monthlyFee key.
func (c *Client) UpdateStudent(ctx context.Context, req *StudentUpdate) error {
	if err := validateRequest(ActionUpdateStudent, req); err != nil {
		return err
	}
	params := map[string]string{"studentId": req.StudentID}
	if req.YearlyFee != nil {
		params["monthlyFee"] = req.YearlyFee.String()
	}
	if req.FeesPaid != nil {
		params["feesPaid"] = req.FeesPaid.String()
	}
	if req.AttendancePercent != nil {
		params["attendancePercent"] = req.AttendancePercent.String()
	}
	return c.do(ctx, ActionUpdateStudent, params, nil)
}

// --- Fees ---

func (c *Client) RecordPayment(ctx context.Context, req *PaymentRequest) error {
	if err := validateRequest(ActionRecordPayment, req); err != nil {
		return err
	}
	return c.do(ctx, ActionRecordPayment, map[string]string{
		"studentId":   req.StudentID,
		"studentName": req.StudentName,
		"amount":      req.Amount.String(),
		"date":        req.Date,
		"mode":        req.Mode,
		"remark":      req.Remark,
		"newTotal":    req.NewTotal.String(),
	}, nil)
}

func (c *Client) GetFeePayments(ctx context.Context) ([]model.Payment, error) {
	var payments []model.Payment
	if err := c.do(ctx, ActionGetFeePayments, nil, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// --- Attendance ---

func (c *Client) MarkAttendance(ctx context.Context, req *MarkAttendanceRequest) error {
	if err := validateRequest(ActionMarkAttendance, req); err != nil {
		return err
	}
	return c.do(ctx, ActionMarkAttendance, map[string]string{
		"date":    req.Date,
		"records": model.FormatMarks(req.Marks),
	}, nil)
}

func (c *Client) GetAttendanceLog(ctx context.Context, date string) ([]model.AttendanceEntry, error) {
	var entries []model.AttendanceEntry
	if err := c.do(ctx, ActionGetAttendanceLog, map[string]string{"date": date}, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// --- Expenses ---

func (c *Client) GetExpenses(ctx context.Context, filter *ExpenseFilter) ([]model.Expense, error) {
	params := map[string]string{}
	if filter != nil {
		if err := validateRequest(ActionGetExpenses, filter); err != nil {
			return nil, err
		}
		if filter.Month != "" {
			params["month"] = filter.Month
		}
		if filter.Category != "" {
			params["category"] = filter.Category
		}
	}
	var expenses []model.Expense
	if err := c.do(ctx, ActionGetExpenses, params, &expenses); err != nil {
		return nil, err
	}
	return expenses, nil
}

func (c *Client) GetExpenseSummary(ctx context.Context, year int) (*model.ExpenseSummary, error) {
	var summary model.ExpenseSummary
	if err := c.do(ctx, ActionGetExpenseSummary, map[string]string{"year": strconv.Itoa(year)}, &summary); err != nil {
		return nil, err
	}
	if summary.ByCategory == nil {
		summary.ByCategory = map[string]model.Number{}
	}
	return &summary, nil
}

func (c *Client) AddExpense(ctx context.Context, req *NewExpense) error {
	if err := validateRequest(ActionAddExpense, req); err != nil {
		return err
	}
	return c.do(ctx, ActionAddExpense, map[string]string{
		"date":        req.Date,
		"category":    req.Category,
		"description": req.Description,
		"amount":      req.Amount.String(),
		"paymentMode": req.PaymentMode,
		"addedBy":     req.AddedBy,
	}, nil)
}

func (c *Client) DeleteExpense(ctx context.Context, expenseID string) error {
	if expenseID == "" {
		return &ValidationError{Action: ActionDeleteExpense, Fields: []FieldError{{Field: "expenseId", Message: "expenseId is a required field"}}}
	}
	return c.do(ctx, ActionDeleteExpense, map[string]string{"expenseId": expenseID}, nil)
}

// --- Classes ---

func (c *Client) GetClasses(ctx context.Context) ([]model.Class, error) {
	var classes []model.Class
	if err := c.do(ctx, ActionGetClasses, nil, &classes); err != nil {
		return nil, err
	}
	return classes, nil
}

func (c *Client) AddClass(ctx context.Context, req *NewClass) error {
	if err := validateRequest(ActionAddClass, req); err != nil {
		return err
	}
	return c.do(ctx, ActionAddClass, map[string]string{
		"className":   req.ClassName,
		"batchName":   req.BatchName,
		"subject":     req.Subject,
		"teacherName": req.TeacherName,
		"schedule":    req.Schedule,
		"room":        req.Room,
		"capacity":    req.Capacity.String(),
	}, nil)
}

func (c *Client) UpdateClass(ctx context.Context, req *ClassUpdate) error {
	if err := validateRequest(ActionUpdateClass, req); err != nil {
		return err
	}
	params := map[string]string{"classId": req.ClassID}
	setString := func(key string, v *string) {
		if v != nil {
			params[key] = *v
		}
	}
	setString("className", req.ClassName)
	setString("batchName", req.BatchName)
	setString("subject", req.Subject)
	setString("teacherName", req.TeacherName)
	setString("schedule", req.Schedule)
	setString("room", req.Room)
	setString("status", req.Status)
	if req.Capacity != nil {
		params["capacity"] = req.Capacity.String()
	}
	return c.do(ctx, ActionUpdateClass, params, nil)
}

func (c *Client) DeleteClass(ctx context.Context, classID string) error {
	if classID == "" {
		return &ValidationError{Action: ActionDeleteClass, Fields: []FieldError{{Field: "classId", Message: "classId is a required field"}}}
	}
	return c.do(ctx, ActionDeleteClass, map[string]string{"classId": classID}, nil)
}
