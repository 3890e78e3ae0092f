package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ShivamNishad0/tasktracker/internal/domain"
	"github.com/ShivamNishad0/tasktracker/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id, owner_id, title, description, priority, due_date,
	completed, reminded_at, created_at, updated_at`

type TaskRepository struct {
	pool *pgxpool.Pool
}

func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	query := `
		INSERT INTO tasks (owner_id, title, description, priority, due_date, completed)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + taskColumns

	row := r.pool.QueryRow(ctx, query,
		task.OwnerID,
		task.Title,
		task.Description,
		task.Priority,
		task.DueDate,
		task.Completed,
	)
	return scanTask(row)
}

func (r *TaskRepository) GetByID(ctx context.Context, taskID, ownerID string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND owner_id = $2`
	return scanTask(r.pool.QueryRow(ctx, query, taskID, ownerID))
}

func (r *TaskRepository) List(ctx context.Context, input repository.ListTasksInput) ([]*domain.Task, error) {
	args := []any{input.OwnerID}
	where := []string{"owner_id = $1"}

	if input.Completed != nil {
		args = append(args, *input.Completed)
		where = append(where, fmt.Sprintf("completed = $%d", len(args)))
	}
	if input.CursorTime != nil {
		args = append(args, *input.CursorTime, input.CursorID)
		where = append(where, fmt.Sprintf("(created_at, id) < ($%d, $%d)", len(args)-1, len(args)))
	}
	args = append(args, input.Limit)

	query := fmt.Sprintf(`
		SELECT %s
		FROM tasks
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d`,
		taskColumns, strings.Join(where, " AND "), len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (r *TaskRepository) Update(ctx context.Context, taskID, ownerID string, input repository.UpdateTaskInput) (*domain.Task, error) {
	// Moving the due date clears the reminder marker so the task becomes
	// eligible again in its new due window.
	query := `
		UPDATE tasks
		SET    title       = COALESCE($3, title),
		       description = COALESCE($4, description),
		       priority    = COALESCE($5, priority),
		       due_date    = COALESCE($6, due_date),
		       completed   = COALESCE($7, completed),
		       reminded_at = CASE WHEN $6::timestamptz IS NOT NULL AND $6::timestamptz <> due_date
		                          THEN NULL ELSE reminded_at END,
		       updated_at  = NOW()
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + taskColumns

	row := r.pool.QueryRow(ctx, query,
		taskID,
		ownerID,
		input.Title,
		input.Description,
		input.Priority,
		input.DueDate,
		input.Completed,
	)
	return scanTask(row)
}

func (r *TaskRepository) Delete(ctx context.Context, taskID, ownerID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM tasks WHERE id = $1 AND owner_id = $2`, taskID, ownerID)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *TaskRepository) ClaimDueTasks(ctx context.Context, now time.Time, horizon time.Duration, limit int) ([]*domain.Task, error) {
	// FOR UPDATE SKIP LOCKED plus marking in the same statement: a candidate is
	// claimed exactly once even with concurrent sweeps, and a sweep re-run in
	// the same window finds nothing left to claim. A marker older than the due
	// window no longer suppresses (covers tasks whose due date was pushed out).
	query := `
		UPDATE tasks
		SET    reminded_at = NOW(),
		       updated_at  = NOW()
		WHERE id IN (
			SELECT id FROM tasks
			WHERE  completed = FALSE
			  AND  due_date >= $1
			  AND  due_date <= $2
			  AND  (reminded_at IS NULL OR reminded_at <= due_date - $3::interval)
			ORDER BY due_date ASC
			LIMIT $4
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + taskColumns

	rows, err := r.pool.Query(ctx, query, now, now.Add(horizon), horizon.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("claim due tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

// pgx.Row and pgx.Rows both implement this.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var t domain.Task
	err := row.Scan(
		&t.ID, &t.OwnerID, &t.Title, &t.Description, &t.Priority, &t.DueDate,
		&t.Completed, &t.RemindedAt, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &t, nil
}
