package repository

import (
	"context"
	"time"

	"github.com/ShivamNishad0/tasktracker/internal/domain"
)

type ListTasksInput struct {
	OwnerID    string
	Completed  *bool      // nil = all tasks
	CursorTime *time.Time // nil = first page
	CursorID   string     // used only when CursorTime is non-nil
	Limit      int
}

// UpdateTaskInput carries a partial update; nil fields are left untouched.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *domain.Priority
	DueDate     *time.Time
	Completed   *bool
}

type TaskRepository interface {
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)

	// Every read/write below is scoped by (task id, owner id) jointly. A task
	// owned by someone else behaves exactly like a missing task.
	GetByID(ctx context.Context, taskID, ownerID string) (*domain.Task, error)
	List(ctx context.Context, input ListTasksInput) ([]*domain.Task, error)
	Update(ctx context.Context, taskID, ownerID string, input UpdateTaskInput) (*domain.Task, error)
	Delete(ctx context.Context, taskID, ownerID string) error

	// ClaimDueTasks marks and returns reminder candidates: incomplete tasks due
	// within [now, now+horizon] whose marker doesn't already cover this due
	// window. Marking happens atomically with selection so concurrent sweeps
	// never pick the same task twice.
	ClaimDueTasks(ctx context.Context, now time.Time, horizon time.Duration, limit int) ([]*domain.Task, error)
}
