package sweeper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ShivamNishad0/tasktracker/internal/domain"
	"github.com/ShivamNishad0/tasktracker/internal/metrics"
	"github.com/ShivamNishad0/tasktracker/internal/notify"
	"github.com/ShivamNishad0/tasktracker/internal/repository"
)

// Sweeper scans for tasks coming due and sends each owner one reminder per due
// window. Dedup lives on the task row (reminded_at), claimed atomically by the
// repository, so restarts and concurrent sweeps cannot double-send.
type Sweeper struct {
	tasks         repository.TaskRepository
	users         repository.UserRepository
	notifier      notify.Sender
	logger        *slog.Logger
	horizon       time.Duration
	notifyTimeout time.Duration
	batchSize     int
	now           func() time.Time
}

func New(
	tasks repository.TaskRepository,
	users repository.UserRepository,
	notifier notify.Sender,
	logger *slog.Logger,
	horizon time.Duration,
	notifyTimeout time.Duration,
	batchSize int,
) *Sweeper {
	return &Sweeper{
		tasks:         tasks,
		users:         users,
		notifier:      notifier,
		logger:        logger.With("component", "sweeper"),
		horizon:       horizon,
		notifyTimeout: notifyTimeout,
		batchSize:     batchSize,
		now:           time.Now,
	}
}

// RunSweepOnce performs one sweep: claim all incomplete tasks due within the
// horizon that haven't been reminded for this window, then dispatch a
// notification per task. A failed dispatch is logged and skipped; it never
// aborts the sweep for the remaining candidates.
func (s *Sweeper) RunSweepOnce(ctx context.Context) {
	start := s.now()
	defer func() {
		metrics.SweepDuration.Observe(time.Since(start).Seconds())
	}()

	var claimed int
	for {
		tasks, err := s.tasks.ClaimDueTasks(ctx, s.now(), s.horizon, s.batchSize)
		if err != nil {
			s.logger.ErrorContext(ctx, "claim due tasks", "error", err)
			break
		}
		if len(tasks) == 0 {
			break
		}
		claimed += len(tasks)

		for _, task := range tasks {
			if ctx.Err() != nil {
				return
			}
			s.remind(ctx, task)
		}

		if len(tasks) < s.batchSize {
			break
		}
	}

	metrics.SweepCandidates.Observe(float64(claimed))
	if claimed > 0 {
		s.logger.InfoContext(ctx, "sweep finished", "candidates", claimed, "duration", time.Since(start))
	}
}

func (s *Sweeper) remind(ctx context.Context, task *domain.Task) {
	owner, err := s.users.FindByID(ctx, task.OwnerID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.logger.WarnContext(ctx, "task owner missing, skipping reminder", "task_id", task.ID, "owner_id", task.OwnerID)
			metrics.RemindersFailedTotal.WithLabelValues("owner_missing").Inc()
			return
		}
		s.logger.ErrorContext(ctx, "resolve task owner", "task_id", task.ID, "error", err)
		metrics.RemindersFailedTotal.WithLabelValues("owner_lookup").Inc()
		return
	}

	subject := fmt.Sprintf("Reminder: %q is due soon", task.Title)
	body := fmt.Sprintf(
		"<p>Hi %s, your task <b>%s</b> is due at %s.</p>",
		owner.Name, task.Title, task.DueDate.Format(time.RFC1123),
	)

	// Per-notification timeout so one unreachable channel can't stall the rest
	// of the sweep.
	sendCtx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()

	if err := s.notifier.Send(sendCtx, owner.Email, subject, body); err != nil {
		s.logger.WarnContext(ctx, "reminder dispatch failed", "task_id", task.ID, "owner_id", owner.ID, "error", err)
		metrics.RemindersFailedTotal.WithLabelValues("dispatch").Inc()
		return
	}

	metrics.RemindersSentTotal.Inc()
	s.logger.InfoContext(ctx, "reminder sent", "task_id", task.ID, "owner_id", owner.ID, "due_date", task.DueDate)
}
