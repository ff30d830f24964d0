package model

// Class is one row of the classes sheet: a batch with a schedule and a
// capacity.
type Class struct {
	ClassID     string `json:"ClassID"`
	ClassName   string `json:"ClassName"`
	BatchName   string `json:"BatchName,omitempty"`
	Subject     string `json:"Subject,omitempty"`
	TeacherName string `json:"TeacherName,omitempty"`
	Schedule    string `json:"Schedule,omitempty"`
	Room        string `json:"Room,omitempty"`
	Capacity    Number `json:"Capacity"`
	Enrolled    Number `json:"Enrolled"`
	Status      string `json:"Status,omitempty"`
}

// ClassKey is the cache key for classes.
func ClassKey(c Class) string { return c.ClassID }

// OccupancyPercent is Enrolled as a whole percentage of Capacity, capped at
// 100.
func (c Class) OccupancyPercent() int {
	return percentOf(c.Enrolled, c.Capacity)
}
