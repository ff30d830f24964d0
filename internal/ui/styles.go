package ui

import (
	"fmt"

	"github.com/alfredjeanlab/sankalp/internal/model"
)

// ANSI256 color codes matching the Ayu palette.
const (
	colorAccent  = 74  // blue
	colorMuted   = 245 // medium gray
	colorSuccess = 114 // green
	colorWarn    = 179 // amber
	colorError   = 203 // red
)

var noColor bool

func render(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string { return render(colorAccent, s) }

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string { return render(colorMuted, s) }

// RenderCommand returns a command name in the accent color, bold.
func RenderCommand(s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[1;38;5;%dm%s\x1b[0m", colorAccent, s)
}

// RenderSuccess returns s in green.
func RenderSuccess(s string) string { return render(colorSuccess, s) }

// RenderWarn returns s in amber.
func RenderWarn(s string) string { return render(colorWarn, s) }

// RenderError returns s in red.
func RenderError(s string) string { return render(colorError, s) }

// RenderFeeStatus returns the fee status label colored by severity.
func RenderFeeStatus(f model.FeeStatus) string {
	switch f {
	case model.FeePaid:
		return RenderSuccess(f.Label())
	case model.FeePartial:
		return RenderWarn(f.Label())
	}
	return RenderError(f.Label())
}

// RenderStanding returns an attendance percentage colored by standing.
func RenderStanding(pct model.Number, s model.Standing) string {
	text := pct.String() + "%"
	switch s {
	case model.StandingGood:
		return RenderSuccess(text)
	case model.StandingAverage:
		return RenderWarn(text)
	}
	return RenderError(text)
}

// RenderAttendance returns a Present/Absent mark colored green or red.
func RenderAttendance(a model.AttendanceStatus) string {
	if a == model.Present {
		return RenderSuccess(a.String())
	}
	return RenderError(a.String())
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}
