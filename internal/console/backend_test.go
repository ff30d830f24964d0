package console

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alfredjeanlab/sankalp/internal/client"
	"github.com/alfredjeanlab/sankalp/internal/gateway"
	"github.com/alfredjeanlab/sankalp/internal/model"
	"github.com/alfredjeanlab/sankalp/internal/session"
)

const (
	testToken    = "tok-1"
	testUser     = "admin"
	testPassword = "secret"
)

// instituteBackend is an in-memory stand-in for the script backend. It sits
// behind a real gateway as its Transport.
type instituteBackend struct {
	mu         sync.Mutex
	calls      []map[string]string
	hold       map[string]chan struct{} // action -> gate released by the test
	fail       map[string]string        // action -> backend error message
	students   []model.Student
	payments   []model.Payment
	attendance map[string][]model.AttendanceEntry
	expenses   []model.Expense
	classes    []model.Class
	nextID     int
}

func newBackend() *instituteBackend {
	return &instituteBackend{
		hold:       make(map[string]chan struct{}),
		fail:       make(map[string]string),
		attendance: make(map[string][]model.AttendanceEntry),
	}
}

func (b *instituteBackend) Send(ctx context.Context, req *gateway.Request) (*gateway.Response, error) {
	params := req.Params
	action := params[gateway.ParamAction]

	b.mu.Lock()
	b.calls = append(b.calls, params)
	gate := b.hold[action]
	b.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	body := b.handle(action, params)
	return &gateway.Response{Callback: req.Callback, Body: []byte(body)}, nil
}

func (b *instituteBackend) handle(action string, p map[string]string) string {
	if msg, ok := b.fail[action]; ok {
		return failure(msg)
	}
	if action != client.ActionLogin && p[gateway.ParamToken] != testToken {
		return failure("Invalid token")
	}

	switch action {
	case client.ActionLogin:
		if p["username"] != testUser || p["password"] != testPassword {
			return failure("Invalid credentials.")
		}
		return success(map[string]string{"token": testToken, "username": testUser})

	case client.ActionGetStudents:
		return success(b.students)
	case client.ActionAddStudent:
		b.nextID++
		b.students = append(b.students, model.Student{
			StudentID:     fmt.Sprintf("S%03d", 100+b.nextID),
			Name:          p["name"],
			FatherName:    p["fatherName"],
			Mobile:        model.Text(p["mobile"]),
			Class:         p["class"],
			Course:        p["course"],
			AdmissionDate: p["admissionDate"],
			YearlyFee:     num(p["yearlyFee"]),
			FeesPaid:      num(p["feesPaid"]),
			PendingFee:    model.PendingFor(num(p["yearlyFee"]), num(p["feesPaid"])),
			Status:        model.StatusActive,
		})
		return success(nil)
	case client.ActionDeleteStudent:
		for i, s := range b.students {
			if s.StudentID == p["studentId"] {
				b.students = append(b.students[:i], b.students[i+1:]...)
				return success(nil)
			}
		}
		return failure("Student not found")
	case client.ActionUpdateStudent:
		s := b.student(p["studentId"])
		if s == nil {
			return failure("Student not found")
		}
		if v, ok := p["monthlyFee"]; ok {
			s.YearlyFee = num(v)
		}
		if v, ok := p["feesPaid"]; ok {
			s.FeesPaid = num(v)
		}
		if v, ok := p["attendancePercent"]; ok {
			s.AttendancePercent = num(v)
		}
		s.PendingFee = model.PendingFor(s.YearlyFee, s.FeesPaid)
		return success(nil)

	case client.ActionRecordPayment:
		s := b.student(p["studentId"])
		if s == nil {
			return failure("Student not found")
		}
		s.FeesPaid = num(p["newTotal"])
		s.PendingFee = model.PendingFor(s.YearlyFee, s.FeesPaid)
		b.payments = append(b.payments, model.Payment{
			PaymentID:    fmt.Sprintf("P%d", len(b.payments)+1),
			Date:         p["date"],
			StudentID:    s.StudentID,
			StudentName:  p["studentName"],
			Amount:       num(p["amount"]),
			Mode:         p["mode"],
			Remark:       p["remark"],
			BalanceAfter: s.PendingFee,
		})
		return success(nil)
	case client.ActionGetFeePayments:
		return success(b.payments)

	case client.ActionMarkAttendance:
		marks, err := model.ParseMarks(p["records"])
		if err != nil {
			return failure(err.Error())
		}
		var entries []model.AttendanceEntry
		for _, m := range marks {
			e := model.AttendanceEntry{StudentID: m.StudentID, Status: m.Status}
			if s := b.student(m.StudentID); s != nil {
				e.Name, e.Class = s.Name, s.Class
			}
			entries = append(entries, e)
		}
		b.attendance[p["date"]] = entries
		return success(nil)
	case client.ActionGetAttendanceLog:
		return success(b.attendance[p["date"]])

	case client.ActionGetExpenses:
		var out []model.Expense
		for _, e := range b.expenses {
			if m := p["month"]; m != "" && !strings.HasPrefix(e.Date, m) {
				continue
			}
			if c := p["category"]; c != "" && e.Category != c {
				continue
			}
			out = append(out, e)
		}
		return success(out)
	case client.ActionGetExpenseSummary:
		sum := model.ExpenseSummary{ByCategory: map[string]model.Number{}}
		for _, e := range b.expenses {
			if strings.HasPrefix(e.Date, p["year"]) {
				sum.Total += e.Amount
				sum.ByCategory[e.Category] += e.Amount
			}
		}
		return success(sum)
	case client.ActionAddExpense:
		b.nextID++
		b.expenses = append(b.expenses, model.Expense{
			ExpenseID:   fmt.Sprintf("EX-%d", b.nextID),
			Date:        p["date"],
			Category:    p["category"],
			Description: p["description"],
			Amount:      num(p["amount"]),
			PaymentMode: p["paymentMode"],
			AddedBy:     p["addedBy"],
		})
		return success(nil)
	case client.ActionDeleteExpense:
		for i, e := range b.expenses {
			if e.ExpenseID == p["expenseId"] {
				b.expenses = append(b.expenses[:i], b.expenses[i+1:]...)
				return success(nil)
			}
		}
		return failure("Expense not found")

	case client.ActionGetClasses:
		return success(b.classes)
	case client.ActionAddClass:
		b.nextID++
		b.classes = append(b.classes, model.Class{
			ClassID:   fmt.Sprintf("CL-%d", b.nextID),
			ClassName: p["className"],
			BatchName: p["batchName"],
			Capacity:  num(p["capacity"]),
			Status:    model.StatusActive,
		})
		return success(nil)
	case client.ActionUpdateClass:
		for i := range b.classes {
			c := &b.classes[i]
			if c.ClassID != p["classId"] {
				continue
			}
			if v, ok := p["room"]; ok {
				c.Room = v
			}
			if v, ok := p["status"]; ok {
				c.Status = v
			}
			if v, ok := p["capacity"]; ok {
				c.Capacity = num(v)
			}
			return success(nil)
		}
		return failure("Class not found")
	case client.ActionDeleteClass:
		for i, c := range b.classes {
			if c.ClassID == p["classId"] {
				b.classes = append(b.classes[:i], b.classes[i+1:]...)
				return success(nil)
			}
		}
		return failure("Class not found")
	}
	return failure("Unknown action: " + action)
}

func (b *instituteBackend) student(id string) *model.Student {
	for i := range b.students {
		if b.students[i].StudentID == id {
			return &b.students[i]
		}
	}
	return nil
}

// holdAction makes calls to action wait until the returned func is called.
func (b *instituteBackend) holdAction(action string) (release func()) {
	gate := make(chan struct{})
	b.mu.Lock()
	b.hold[action] = gate
	b.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

func (b *instituteBackend) failAction(action, msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail[action] = msg
}

func (b *instituteBackend) setStudents(students ...model.Student) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.students = students
}

// callsTo returns the params of every call to action, in order.
func (b *instituteBackend) callsTo(action string) []map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []map[string]string
	for _, c := range b.calls {
		if c[gateway.ParamAction] == action {
			out = append(out, c)
		}
	}
	return out
}

func (b *instituteBackend) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.calls)
}

func success(data any) string {
	raw, err := json.Marshal(data)
	if err != nil {
		panic(err)
	}
	return fmt.Sprintf(`{"success":true,"data":%s}`, raw)
}

func failure(msg string) string {
	raw, _ := json.Marshal(msg)
	return fmt.Sprintf(`{"success":false,"error":%s}`, raw)
}

func num(s string) model.Number {
	f, _ := strconv.ParseFloat(s, 64)
	return model.Number(f)
}

// notice is one message shown to the operator.
type notice struct {
	Level Level
	Msg   string
}

type recorder struct {
	mu      sync.Mutex
	notices []notice
}

func (r *recorder) Notify(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, notice{level, msg})
}

func (r *recorder) all() []notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]notice(nil), r.notices...)
}

func (r *recorder) last() notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return notice{}
	}
	return r.notices[len(r.notices)-1]
}

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []any
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.topics...)
}

var testNow = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

type testEnv struct {
	app     *App
	backend *instituteBackend
	notes   *recorder
	events  *recordingPublisher
	gw      *gateway.Gateway
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	b := newBackend()
	mgr := session.NewManager(&session.MemoryStore{}, logger)
	gw := gateway.New(b, mgr, gateway.WithLogger(logger), gateway.WithTimeout(2*time.Second))
	notes := &recorder{}
	pub := &recordingPublisher{}
	app := New(mgr, client.New(gw),
		WithNotifier(notes),
		WithPublisher(pub),
		WithLogger(logger),
		WithClock(func() time.Time { return testNow }),
	)
	t.Cleanup(func() {
		app.Wait()
		gw.Close()
	})
	return &testEnv{app: app, backend: b, notes: notes, events: pub, gw: gw}
}

// signIn stores a valid session without going through login.
func (e *testEnv) signIn(t *testing.T) {
	t.Helper()
	if err := e.app.Session.Store(testToken, testUser); err != nil {
		t.Fatalf("storing session: %v", err)
	}
}

// waitFor polls cond until it holds or a second has passed.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met within 1s")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
