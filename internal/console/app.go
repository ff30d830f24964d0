// Package console holds the admin console's application state and the
// controllers that drive each screen: dashboard, students, fees, attendance,
// expenses and classes.
//
// Controllers talk to the backend only through client.API. After a mutation
// succeeds they patch the affected cached rows so the change shows at once,
// then schedule a full refresh that replaces the cache with the backend's
// copy.
package console

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/alfredjeanlab/sankalp/internal/cache"
	"github.com/alfredjeanlab/sankalp/internal/client"
	"github.com/alfredjeanlab/sankalp/internal/events"
	"github.com/alfredjeanlab/sankalp/internal/model"
	"github.com/alfredjeanlab/sankalp/internal/session"
)

// Messages shown by the console itself.
const (
	MsgSessionExpired     = "Session expired. Please login again."
	MsgUnexpected         = "An unexpected error occurred."
	MsgInvalidCredentials = "Invalid credentials."
	MsgMissingCredentials = "Please enter username and password."
	MsgLoggedOut          = "Logged out successfully."
)

const (
	dateLayout  = "2006-01-02"
	monthLayout = "2006-01"
)

// App is the console's state: the session, the backend client, the entity
// caches and the attendance sheet being marked. It is owned by the shell and
// shared by every controller method.
type App struct {
	Session *session.Manager
	API     client.API

	Students    *cache.Cache[model.Student]
	FeeStudents *cache.Cache[model.Student]
	Expenses    *cache.Cache[model.Expense]
	Classes     *cache.Cache[model.Class]

	notifier Notifier
	events   events.Publisher
	logger   *slog.Logger
	now      func() time.Time

	mu            sync.Mutex
	sheet         *attendanceSheet
	summary       *model.ExpenseSummary
	expenseFilter client.ExpenseFilter

	// stateMu orders cache commits from background refreshes against reset.
	stateMu sync.Mutex
	bg      sync.WaitGroup
}

// Option configures an App.
type Option func(*App)

// WithNotifier sets where user-facing messages go.
func WithNotifier(n Notifier) Option {
	return func(a *App) { a.notifier = n }
}

// WithPublisher sets the activity event publisher.
func WithPublisher(p events.Publisher) Option {
	return func(a *App) { a.events = p }
}

// WithLogger sets the logger; slog.Default() is used otherwise.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) { a.logger = l }
}

// WithClock overrides time.Now for default dates.
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// New creates the application state.
func New(sessions *session.Manager, api client.API, opts ...Option) *App {
	a := &App{
		Session:     sessions,
		API:         api,
		Students:    cache.New(model.StudentKey),
		FeeStudents: cache.New(model.StudentKey),
		Expenses:    cache.New(model.ExpenseKey),
		Classes:     cache.New(model.ClassKey),
		notifier:    NopNotifier{},
		events:      &events.NoopPublisher{},
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// scheduledToken is the context key for the session token a background
// refresh was scheduled under.
type scheduledToken struct{}

// Go runs fn in the background, detached from ctx's cancellation. Wait
// blocks until every such function has returned. fn is bound to the current
// session: it is skipped if the operator has logged out or signed in again
// by the time it starts, and its results and errors are dropped if that
// happens while it runs.
func (a *App) Go(ctx context.Context, fn func(ctx context.Context)) {
	bgCtx := context.WithValue(context.WithoutCancel(ctx), scheduledToken{}, a.Session.CurrentToken())
	a.bg.Add(1)
	go func() {
		defer a.bg.Done()
		if a.stale(bgCtx) {
			a.logger.Debug("console: session changed, skipping refresh")
			return
		}
		fn(bgCtx)
	}()
}

// stale reports whether ctx belongs to a background refresh whose session
// has since ended or been replaced.
func (a *App) stale(ctx context.Context) bool {
	token, ok := ctx.Value(scheduledToken{}).(string)
	return ok && token != a.Session.CurrentToken()
}

// commit runs fn, which stores fetched results, unless ctx is stale.
func (a *App) commit(ctx context.Context, fn func()) bool {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	if a.stale(ctx) {
		a.logger.Debug("console: session changed, dropping refresh result")
		return false
	}
	fn()
	return true
}

// Wait blocks until all background refreshes have finished.
func (a *App) Wait() {
	a.bg.Wait()
}

// reportedError marks an error whose message has already been shown.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// Reported reports whether err has already been shown to the user by
// HandleError.
func Reported(err error) bool {
	var re *reportedError
	return errors.As(err, &re)
}

// HandleError shows err to the user. An authorization failure ends the
// session instead. The returned error wraps err and satisfies Reported.
func (a *App) HandleError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if Reported(err) {
		return err
	}
	if a.stale(ctx) {
		a.logger.Debug("console: dropping error from an ended session", "error", err)
		return &reportedError{err: err}
	}
	if client.IsUnauthorized(err) {
		a.expire(ctx)
		return &reportedError{err: err}
	}
	a.notifier.Notify(LevelError, Message(err))
	return &reportedError{err: err}
}

// Message returns the text to show for err.
func Message(err error) string {
	var re *client.RemoteError
	if errors.As(err, &re) {
		if re.Message == "" {
			return MsgUnexpected
		}
		return re.Message
	}
	var ve *client.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	if err == nil || err.Error() == "" {
		return MsgUnexpected
	}
	return err.Error()
}

// fail shows a console-side rejection and returns it as a reported error.
func (a *App) fail(msg string) error {
	a.notifier.Notify(LevelError, msg)
	return &reportedError{err: errors.New(msg)}
}

// expire tears down a session the backend no longer accepts.
func (a *App) expire(ctx context.Context) {
	username := a.Session.Username()
	if err := a.Session.Clear(); err != nil {
		a.logger.Warn("console: clearing expired session", "error", err)
	}
	a.reset()
	a.logger.Info("console: session expired", "user", username)
	a.publish(ctx, events.TopicSessionExpired, events.SessionEvent{Username: username})
	a.notifier.Notify(LevelError, MsgSessionExpired)
}

// reset drops everything cached for the signed-in operator.
func (a *App) reset() {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	a.Students.Replace(nil)
	a.FeeStudents.Replace(nil)
	a.Expenses.Replace(nil)
	a.Classes.Replace(nil)
	a.mu.Lock()
	a.sheet = nil
	a.summary = nil
	a.expenseFilter = client.ExpenseFilter{}
	a.mu.Unlock()
}

func (a *App) publish(ctx context.Context, topic string, event any) {
	if err := a.events.Publish(ctx, topic, event); err != nil {
		a.logger.Warn("console: publishing event", "topic", topic, "error", err)
	}
}

func (a *App) today() string {
	return a.now().Format(dateLayout)
}

// join runs fns concurrently and returns the first failure, preferring an
// authorization failure so it is never masked by another error.
func join(ctx context.Context, fns ...func(ctx context.Context) error) error {
	errs := make([]error, len(fns))
	var wg sync.WaitGroup
	for i, fn := range fns {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = fn(ctx)
		}()
	}
	wg.Wait()

	var first error
	for _, err := range errs {
		if err == nil {
			continue
		}
		if client.IsUnauthorized(err) {
			return err
		}
		if first == nil {
			first = err
		}
	}
	return first
}
