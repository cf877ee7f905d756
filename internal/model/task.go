package model

import "time"

type Task struct {
	ID         int       `json:"id"`
	Title      string    `json:"title"`
	Completed  bool      `json:"completed"`
	DueDate    *string   `json:"dueDate"`
	Attachment *string   `json:"attachment"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TaskPatch carries the fields of an update. Nil fields keep their
// current value.
type TaskPatch struct {
	Title      *string
	DueDate    *string
	Completed  *bool
	Attachment *string
}

type TaskFilter string

const (
	FilterAll       TaskFilter = "all"
	FilterActive    TaskFilter = "active"
	FilterCompleted TaskFilter = "completed"
)

// ParseTaskFilter maps unknown or empty values to FilterAll.
func ParseTaskFilter(s string) TaskFilter {
	switch TaskFilter(s) {
	case FilterActive, FilterCompleted:
		return TaskFilter(s)
	default:
		return FilterAll
	}
}

func (f TaskFilter) Match(t *Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}
