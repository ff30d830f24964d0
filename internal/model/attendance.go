package model

import (
	"fmt"
	"strings"
)

// AttendanceStatus is a day's mark for one student.
type AttendanceStatus string

const (
	Present AttendanceStatus = "Present"
	Absent  AttendanceStatus = "Absent"
)

// String returns the string representation of the status.
func (a AttendanceStatus) String() string { return string(a) }

// IsValid checks whether the status is a known value.
func (a AttendanceStatus) IsValid() bool {
	return a == Present || a == Absent
}

// Toggle flips Present and Absent.
func (a AttendanceStatus) Toggle() AttendanceStatus {
	if a == Present {
		return Absent
	}
	return Present
}

// AttendanceMark pairs a student with a status for markAttendance.
type AttendanceMark struct {
	StudentID string
	Status    AttendanceStatus
}

// FormatMarks encodes marks as the backend's comma-joined id:status list.
func FormatMarks(marks []AttendanceMark) string {
	parts := make([]string, len(marks))
	for i, m := range marks {
		parts[i] = m.StudentID + ":" + string(m.Status)
	}
	return strings.Join(parts, ",")
}

// ParseMarks decodes a comma-joined id:status list.
func ParseMarks(s string) ([]AttendanceMark, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var marks []AttendanceMark
	for _, part := range strings.Split(s, ",") {
		id, status, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid attendance mark %q: expected id:status", part)
		}
		st := AttendanceStatus(status)
		if !st.IsValid() {
			return nil, fmt.Errorf("invalid attendance status %q for %s", status, id)
		}
		marks = append(marks, AttendanceMark{StudentID: id, Status: st})
	}
	return marks, nil
}

// AttendanceEntry is one row of a day's attendance log.
type AttendanceEntry struct {
	StudentID string           `json:"StudentID"`
	Name      string           `json:"Name"`
	Class     string           `json:"Class"`
	Status    AttendanceStatus `json:"Status"`
	MarkedAt  string           `json:"MarkedAt,omitempty"`
}

// CountPresent returns how many entries are marked present.
func CountPresent(entries []AttendanceEntry) int {
	n := 0
	for _, e := range entries {
		if e.Status == Present {
			n++
		}
	}
	return n
}
