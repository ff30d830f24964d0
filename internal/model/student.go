package model

import "math"

// StatusActive is the status of an enrolled student or a running class.
const StatusActive = "Active"

// Student is one row of the students sheet. It doubles as the fee record:
// the fee views list the same rows.
type Student struct {
	StudentID         string `json:"StudentID"`
	Name              string `json:"Name"`
	FatherName        string `json:"FatherName"`
	Mobile            Text   `json:"Mobile"`
	Class             string `json:"Class"`
	Course            string `json:"Course"`
	AdmissionDate     string `json:"AdmissionDate,omitempty"`
	YearlyFee         Number `json:"YearlyFee"`
	FeesPaid          Number `json:"FeesPaid"`
	PendingFee        Number `json:"PendingFee"`
	AttendancePercent Number `json:"AttendancePercent"`
	Status            string `json:"Status,omitempty"`
}

// StudentKey is the cache key for students.
func StudentKey(s Student) string { return s.StudentID }

// IsActive reports whether the student is enrolled. A blank status counts as
// active.
func (s Student) IsActive() bool {
	return s.Status == "" || s.Status == StatusActive
}

// FeeStatus classifies how much of the yearly fee is paid.
type FeeStatus string

const (
	FeePaid    FeeStatus = "paid"
	FeePartial FeeStatus = "partial"
	FeeUnpaid  FeeStatus = "unpaid"
)

// String returns the string representation of the fee status.
func (f FeeStatus) String() string { return string(f) }

// Label returns the display label.
func (f FeeStatus) Label() string {
	switch f {
	case FeePaid:
		return "Fully Paid"
	case FeePartial:
		return "Partial"
	}
	return "Unpaid"
}

// IsValid checks whether the fee status is a known value.
func (f FeeStatus) IsValid() bool {
	switch f {
	case FeePaid, FeePartial, FeeUnpaid:
		return true
	}
	return false
}

// FeeStatus returns paid when nothing is pending against a non-zero yearly
// fee, partial when something has been paid, unpaid otherwise.
func (s Student) FeeStatus() FeeStatus {
	switch {
	case s.PendingFee <= 0 && s.YearlyFee > 0:
		return FeePaid
	case s.FeesPaid > 0:
		return FeePartial
	}
	return FeeUnpaid
}

// PaidPercent is FeesPaid as a whole percentage of YearlyFee, capped at 100.
func (s Student) PaidPercent() int {
	return percentOf(s.FeesPaid, s.YearlyFee)
}

// Standing buckets an attendance percentage.
type Standing string

const (
	StandingGood    Standing = "good"
	StandingAverage Standing = "average"
	StandingLow     Standing = "low"
)

// LowAttendanceThreshold is the percentage below which a student is flagged.
const LowAttendanceThreshold = 75

// AttendanceStanding returns good at 75% and above, average from 50%, low
// below that.
func (s Student) AttendanceStanding() Standing {
	pct := math.Min(100, math.Max(0, s.AttendancePercent.Float()))
	switch {
	case pct >= LowAttendanceThreshold:
		return StandingGood
	case pct >= 50:
		return StandingAverage
	}
	return StandingLow
}

func percentOf(part, whole Number) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Min(100, math.Round(part.Float()/whole.Float()*100)))
}
