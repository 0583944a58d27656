package model

import "time"

// Task represents a single item on the matrix.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Important   bool       `json:"important"`
	Urgent      bool       `json:"urgent"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Quadrant returns the matrix cell the task currently falls into.
func (t Task) Quadrant() Quadrant {
	return Classify(t.Important, t.Urgent)
}

// Clone returns a copy that shares no pointers with t.
func (t Task) Clone() Task {
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		t.CompletedAt = &at
	}
	return t
}
