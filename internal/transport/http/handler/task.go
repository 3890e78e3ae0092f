package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/ShivamNishad0/tasktracker/internal/domain"
	"github.com/ShivamNishad0/tasktracker/internal/transport/http/middleware"
	"github.com/ShivamNishad0/tasktracker/internal/usecase"
	"github.com/gin-gonic/gin"
)

type taskUsecaser interface {
	CreateTask(ctx context.Context, input usecase.CreateTaskInput) (*domain.Task, error)
	GetTask(ctx context.Context, taskID, ownerID string) (*domain.Task, error)
	ListTasks(ctx context.Context, input usecase.ListTasksInput) (*usecase.ListTasksResult, error)
	UpdateTask(ctx context.Context, taskID, ownerID string, input usecase.UpdateTaskInput) (*domain.Task, error)
	DeleteTask(ctx context.Context, taskID, ownerID string) error
}

type TaskHandler struct {
	taskUsecase taskUsecaser
	logger      *slog.Logger
}

func NewTaskHandler(taskUsecase taskUsecaser, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{taskUsecase: taskUsecase, logger: logger.With("component", "task_handler")}
}

type taskResponse struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Priority    domain.Priority `json:"priority"`
	DueDate     time.Time       `json:"due_date"`
	Completed   bool            `json:"completed"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		DueDate:     t.DueDate,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

type createTaskRequest struct {
	Title       string                `json:"title"       binding:"required,max=256"`
	Description string                `json:"description" binding:"max=4096"`
	Priority    domain.Priority       `json:"priority"    binding:"omitempty,oneof=low medium high"`
	DueDate     time.Time             `json:"due_date"    binding:"required"`
	Completed   *domain.CompletedFlag `json:"completed"`
}

// POST /api/tasks
func (h *TaskHandler) Create(c *gin.Context) {
	identity, found := middleware.IdentityFrom(c)
	if !found {
		fail(c, http.StatusUnauthorized, errUnauthorized)
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	completed := false
	if req.Completed != nil {
		completed = req.Completed.Bool()
	}

	task, err := h.taskUsecase.CreateTask(c.Request.Context(), usecase.CreateTaskInput{
		OwnerID:     identity.ID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Completed:   completed,
	})
	if err != nil {
		h.logger.Error("create task", "error", err)
		fail(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	ok(c, http.StatusCreated, gin.H{"task": toTaskResponse(task)})
}

// GET /api/tasks?completed=&cursor=&limit=
func (h *TaskHandler) List(c *gin.Context) {
	identity, found := middleware.IdentityFrom(c)
	if !found {
		fail(c, http.StatusUnauthorized, errUnauthorized)
		return
	}

	input := usecase.ListTasksInput{
		OwnerID: identity.ID,
		Cursor:  c.Query("cursor"),
	}
	if raw := c.Query("completed"); raw != "" {
		completed := domain.NormalizeCompleted(raw)
		input.Completed = &completed
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			fail(c, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		input.Limit = limit
	}

	result, err := h.taskUsecase.ListTasks(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCursor) {
			fail(c, http.StatusBadRequest, errInvalidCursor)
			return
		}
		h.logger.Error("list tasks", "error", err)
		fail(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	tasks := make([]taskResponse, 0, len(result.Tasks))
	for _, t := range result.Tasks {
		tasks = append(tasks, toTaskResponse(t))
	}

	payload := gin.H{"tasks": tasks}
	if result.NextCursor != nil {
		payload["next_cursor"] = *result.NextCursor
	}
	ok(c, http.StatusOK, payload)
}

// GET /api/tasks/:id
func (h *TaskHandler) GetByID(c *gin.Context) {
	identity, found := middleware.IdentityFrom(c)
	if !found {
		fail(c, http.StatusUnauthorized, errUnauthorized)
		return
	}
	taskID := c.Param("id")

	task, err := h.taskUsecase.GetTask(c.Request.Context(), taskID, identity.ID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			fail(c, http.StatusNotFound, errTaskNotFound)
			return
		}
		h.logger.Error("get task", "task_id", taskID, "error", err)
		fail(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	ok(c, http.StatusOK, gin.H{"task": toTaskResponse(task)})
}

// completedPatch distinguishes an absent completed field from a present one.
// An explicit null counts as provided and normalizes to false, same as any
// other falsy value.
type completedPatch struct {
	set  bool
	flag domain.CompletedFlag
}

func (p *completedPatch) UnmarshalJSON(data []byte) error {
	p.set = true
	return p.flag.UnmarshalJSON(data)
}

type updateTaskRequest struct {
	Title       *string          `json:"title"       binding:"omitempty,max=256"`
	Description *string          `json:"description" binding:"omitempty,max=4096"`
	Priority    *domain.Priority `json:"priority"    binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time       `json:"due_date"`
	Completed   completedPatch   `json:"completed"`
}

// PUT /api/tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	identity, found := middleware.IdentityFrom(c)
	if !found {
		fail(c, http.StatusUnauthorized, errUnauthorized)
		return
	}
	taskID := c.Param("id")

	var req updateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	input := usecase.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
	}
	if req.Completed.set {
		completed := req.Completed.flag.Bool()
		input.Completed = &completed
	}

	task, err := h.taskUsecase.UpdateTask(c.Request.Context(), taskID, identity.ID, input)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			fail(c, http.StatusNotFound, errTaskNotFound)
			return
		}
		h.logger.Error("update task", "task_id", taskID, "error", err)
		fail(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	ok(c, http.StatusOK, gin.H{"task": toTaskResponse(task)})
}

// DELETE /api/tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	identity, found := middleware.IdentityFrom(c)
	if !found {
		fail(c, http.StatusUnauthorized, errUnauthorized)
		return
	}
	taskID := c.Param("id")

	if err := h.taskUsecase.DeleteTask(c.Request.Context(), taskID, identity.ID); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			fail(c, http.StatusNotFound, errTaskNotFound)
			return
		}
		h.logger.Error("delete task", "task_id", taskID, "error", err)
		fail(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	ok(c, http.StatusOK, gin.H{"message": "Task deleted successfully"})
}
