package domain

import (
	"errors"
	"time"
)

// ErrTaskNotFound covers both a missing task and a task owned by someone
// else; callers must not be able to tell the two apart.
var ErrTaskNotFound = errors.New("task not found")

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type Task struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Priority    Priority
	DueDate     time.Time
	Completed   bool

	// RemindedAt records when a due-date reminder was last dispatched for this
	// task. Persisted so dedup survives process restarts.
	RemindedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
