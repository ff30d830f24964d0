package model

import "encoding/json"

// A sheet cell holding an id like 1024 comes back as a JSON number. The row
// decoders below read id columns as Text so such rows still decode; the
// fields themselves stay plain strings.

func (s *Student) UnmarshalJSON(data []byte) error {
	type row Student
	aux := struct {
		*row
		StudentID Text `json:"StudentID"`
	}{row: (*row)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	s.StudentID = string(aux.StudentID)
	return nil
}

func (e *Expense) UnmarshalJSON(data []byte) error {
	type row Expense
	aux := struct {
		*row
		ExpenseID Text `json:"ExpenseID"`
	}{row: (*row)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.ExpenseID = string(aux.ExpenseID)
	return nil
}

func (c *Class) UnmarshalJSON(data []byte) error {
	type row Class
	aux := struct {
		*row
		ClassID Text `json:"ClassID"`
	}{row: (*row)(c)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.ClassID = string(aux.ClassID)
	return nil
}

func (p *Payment) UnmarshalJSON(data []byte) error {
	type row Payment
	aux := struct {
		*row
		PaymentID Text `json:"PaymentID"`
		StudentID Text `json:"StudentID"`
	}{row: (*row)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	p.PaymentID = string(aux.PaymentID)
	p.StudentID = string(aux.StudentID)
	return nil
}

func (e *AttendanceEntry) UnmarshalJSON(data []byte) error {
	type row AttendanceEntry
	aux := struct {
		*row
		StudentID Text `json:"StudentID"`
	}{row: (*row)(e)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	e.StudentID = string(aux.StudentID)
	return nil
}
