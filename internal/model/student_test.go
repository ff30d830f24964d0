package model

import "testing"

func TestStudent_FeeStatus(t *testing.T) {
	for _, tc := range []struct {
		name string
		s    Student
		want FeeStatus
	}{
		{"FullyPaid", Student{YearlyFee: 2000, FeesPaid: 2000, PendingFee: 0}, FeePaid},
		{"Partial", Student{YearlyFee: 2000, FeesPaid: 500, PendingFee: 1500}, FeePartial},
		{"Unpaid", Student{YearlyFee: 2000, PendingFee: 2000}, FeeUnpaid},
		{"NoFeeSet", Student{}, FeeUnpaid},
		{"NoFeeButPaid", Student{FeesPaid: 100}, FeePartial},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.s.FeeStatus(); got != tc.want {
				t.Errorf("FeeStatus() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFeeStatus_Label(t *testing.T) {
	for _, tc := range []struct {
		status FeeStatus
		want   string
	}{
		{FeePaid, "Fully Paid"},
		{FeePartial, "Partial"},
		{FeeUnpaid, "Unpaid"},
	} {
		if got := tc.status.Label(); got != tc.want {
			t.Errorf("FeeStatus(%q).Label() = %q, want %q", tc.status, got, tc.want)
		}
	}
	if FeeStatus("bogus").IsValid() {
		t.Error("FeeStatus(bogus).IsValid() = true")
	}
}

func TestStudent_PaidPercent(t *testing.T) {
	for _, tc := range []struct {
		yearly, paid Number
		want         int
	}{
		{2000, 1000, 50},
		{2000, 3000, 100},
		{0, 500, 0},
		{3000, 1000, 33},
	} {
		s := Student{YearlyFee: tc.yearly, FeesPaid: tc.paid}
		if got := s.PaidPercent(); got != tc.want {
			t.Errorf("PaidPercent(%v/%v) = %d, want %d", tc.paid, tc.yearly, got, tc.want)
		}
	}
}

func TestStudent_IsActive(t *testing.T) {
	if !(Student{}).IsActive() {
		t.Error("blank status should be active")
	}
	if !(Student{Status: "Active"}).IsActive() {
		t.Error("Active status should be active")
	}
	if (Student{Status: "Inactive"}).IsActive() {
		t.Error("Inactive status should not be active")
	}
}

func TestStudent_AttendanceStanding(t *testing.T) {
	for _, tc := range []struct {
		pct  Number
		want Standing
	}{
		{100, StandingGood},
		{75, StandingGood},
		{74.9, StandingAverage},
		{50, StandingAverage},
		{10, StandingLow},
		{-5, StandingLow},
		{150, StandingGood},
	} {
		if got := (Student{AttendancePercent: tc.pct}).AttendanceStanding(); got != tc.want {
			t.Errorf("AttendanceStanding(%v) = %q, want %q", tc.pct, got, tc.want)
		}
	}
}

func TestApplyPayment(t *testing.T) {
	before := Student{StudentID: "S001", YearlyFee: 2000, FeesPaid: 1000, PendingFee: 1000}
	after := ApplyPayment(before, 500)
	if after.FeesPaid != 1500 || after.PendingFee != 500 {
		t.Errorf("ApplyPayment = paid %v pending %v, want 1500/500", after.FeesPaid, after.PendingFee)
	}
	if before.FeesPaid != 1000 {
		t.Error("ApplyPayment mutated its input")
	}

	over := ApplyPayment(before, 5000)
	if over.PendingFee != 0 {
		t.Errorf("overpayment PendingFee = %v, want 0", over.PendingFee)
	}
}

func TestApplyFeeUpdate(t *testing.T) {
	s := ApplyFeeUpdate(Student{YearlyFee: 1000, FeesPaid: 100}, 3000, 1200)
	if s.YearlyFee != 3000 || s.FeesPaid != 1200 || s.PendingFee != 1800 {
		t.Errorf("ApplyFeeUpdate = %+v", s)
	}
}

func TestApplyAttendancePercent(t *testing.T) {
	s := ApplyAttendancePercent(Student{AttendancePercent: 60}, 90)
	if s.AttendancePercent != 90 {
		t.Errorf("AttendancePercent = %v, want 90", s.AttendancePercent)
	}
}
