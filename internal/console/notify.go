package console

// Level is the severity of a user-facing message.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	}
	return "info"
}

// Notifier shows short messages to the operator.
type Notifier interface {
	Notify(level Level, msg string)
}

// NopNotifier discards every message.
type NopNotifier struct{}

func (NopNotifier) Notify(Level, string) {}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(level Level, msg string)

func (f NotifierFunc) Notify(level Level, msg string) { f(level, msg) }
