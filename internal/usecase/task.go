package usecase

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ShivamNishad0/tasktracker/internal/domain"
	"github.com/ShivamNishad0/tasktracker/internal/repository"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// ErrInvalidCursor marks a pagination cursor the client sent that cannot be
// decoded. It is client input, not a server fault.
var ErrInvalidCursor = errors.New("invalid cursor")

type TaskUsecase struct {
	repo repository.TaskRepository
}

func NewTaskUsecase(repo repository.TaskRepository) *TaskUsecase {
	return &TaskUsecase{repo: repo}
}

type CreateTaskInput struct {
	OwnerID     string
	Title       string
	Description string
	Priority    domain.Priority
	DueDate     time.Time
	Completed   bool
}

func (u *TaskUsecase) CreateTask(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	if input.Priority == "" {
		input.Priority = domain.PriorityMedium
	}

	task := &domain.Task{
		OwnerID:     input.OwnerID,
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		Completed:   input.Completed,
	}

	created, err := u.repo.Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return created, nil
}

func (u *TaskUsecase) GetTask(ctx context.Context, taskID, ownerID string) (*domain.Task, error) {
	task, err := u.repo.GetByID(ctx, taskID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

type ListTasksInput struct {
	OwnerID   string
	Completed *bool
	Cursor    string
	Limit     int
}

type ListTasksResult struct {
	Tasks      []*domain.Task
	NextCursor *string
}

type taskCursor struct {
	CreatedAt time.Time `json:"c"`
	ID        string    `json:"i"`
}

func decodeTaskCursor(s string) (*time.Time, string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, "", fmt.Errorf("decode cursor: %w", err)
	}
	var c taskCursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, "", fmt.Errorf("unmarshal cursor: %w", err)
	}
	return &c.CreatedAt, c.ID, nil
}

func encodeTaskCursor(t *domain.Task) string {
	raw, _ := json.Marshal(taskCursor{CreatedAt: t.CreatedAt, ID: t.ID})
	return base64.RawURLEncoding.EncodeToString(raw)
}

func (u *TaskUsecase) ListTasks(ctx context.Context, input ListTasksInput) (*ListTasksResult, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	repoInput := repository.ListTasksInput{
		OwnerID:   input.OwnerID,
		Completed: input.Completed,
		Limit:     limit + 1, // fetch one extra to know if there's a next page
	}
	if input.Cursor != "" {
		cursorTime, cursorID, err := decodeTaskCursor(input.Cursor)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
		}
		repoInput.CursorTime = cursorTime
		repoInput.CursorID = cursorID
	}

	tasks, err := u.repo.List(ctx, repoInput)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	result := &ListTasksResult{Tasks: tasks}
	if len(tasks) > limit {
		result.Tasks = tasks[:limit]
		cursor := encodeTaskCursor(result.Tasks[limit-1])
		result.NextCursor = &cursor
	}
	return result, nil
}

type UpdateTaskInput struct {
	Title       *string
	Description *string
	Priority    *domain.Priority
	DueDate     *time.Time
	Completed   *bool
}

func (u *TaskUsecase) UpdateTask(ctx context.Context, taskID, ownerID string, input UpdateTaskInput) (*domain.Task, error) {
	task, err := u.repo.Update(ctx, taskID, ownerID, repository.UpdateTaskInput{
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		Completed:   input.Completed,
	})
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	return task, nil
}

func (u *TaskUsecase) DeleteTask(ctx context.Context, taskID, ownerID string) error {
	if err := u.repo.Delete(ctx, taskID, ownerID); err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}
