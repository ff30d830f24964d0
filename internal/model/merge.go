package model

// The Apply functions compute the record a successful mutation should leave
// behind, from values the caller already has. They let a cached row reflect
// the change before the next full fetch replaces it.

// PendingFor is the unpaid remainder of a yearly fee, never negative.
func PendingFor(yearly, paid Number) Number {
	if p := yearly - paid; p > 0 {
		return p
	}
	return 0
}

// ApplyPayment returns s after a payment of amount.
func ApplyPayment(s Student, amount Number) Student {
	s.FeesPaid += amount
	s.PendingFee = PendingFor(s.YearlyFee, s.FeesPaid)
	return s
}

// ApplyFeeUpdate returns s with its yearly fee and paid total overwritten.
func ApplyFeeUpdate(s Student, yearly, paid Number) Student {
	s.YearlyFee = yearly
	s.FeesPaid = paid
	s.PendingFee = PendingFor(yearly, paid)
	return s
}

// ApplyAttendancePercent returns s with a new attendance percentage.
func ApplyAttendancePercent(s Student, pct Number) Student {
	s.AttendancePercent = pct
	return s
}
