package sweeper_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/ShivamNishad0/tasktracker/internal/domain"
	"github.com/ShivamNishad0/tasktracker/internal/repository"
	"github.com/ShivamNishad0/tasktracker/internal/sweeper"
)

// claimTrackingRepo hands out each task at most once, mirroring the atomic
// claim the real repository performs.
type claimTrackingRepo struct {
	due     []*domain.Task
	claimed map[string]bool
	calls   int
}

func newClaimTrackingRepo(due ...*domain.Task) *claimTrackingRepo {
	return &claimTrackingRepo{due: due, claimed: make(map[string]bool)}
}

func (r *claimTrackingRepo) ClaimDueTasks(_ context.Context, now time.Time, horizon time.Duration, limit int) ([]*domain.Task, error) {
	r.calls++
	var out []*domain.Task
	for _, t := range r.due {
		if r.claimed[t.ID] || t.Completed {
			continue
		}
		if t.DueDate.Before(now) || t.DueDate.After(now.Add(horizon)) {
			continue
		}
		r.claimed[t.ID] = true
		out = append(out, t)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *claimTrackingRepo) Create(_ context.Context, _ *domain.Task) (*domain.Task, error) {
	panic("not used")
}
func (r *claimTrackingRepo) GetByID(_ context.Context, _, _ string) (*domain.Task, error) {
	panic("not used")
}
func (r *claimTrackingRepo) List(_ context.Context, _ repository.ListTasksInput) ([]*domain.Task, error) {
	panic("not used")
}
func (r *claimTrackingRepo) Update(_ context.Context, _, _ string, _ repository.UpdateTaskInput) (*domain.Task, error) {
	panic("not used")
}
func (r *claimTrackingRepo) Delete(_ context.Context, _, _ string) error {
	panic("not used")
}

type stubUserRepo struct {
	users map[string]*domain.User
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (r *stubUserRepo) Create(_ context.Context, _ *domain.User) (*domain.User, error) {
	panic("not used")
}
func (r *stubUserRepo) FindByEmail(_ context.Context, _ string) (*domain.User, error) {
	panic("not used")
}
func (r *stubUserRepo) CredentialByID(_ context.Context, _ string) (string, error) {
	panic("not used")
}
func (r *stubUserRepo) UpdateProfile(_ context.Context, _ string, _ repository.UpdateProfileInput) (*domain.User, error) {
	panic("not used")
}
func (r *stubUserRepo) UpdatePassword(_ context.Context, _, _ string) error {
	panic("not used")
}

type recordingSender struct {
	sent    []string // recipient addresses in dispatch order
	failFor map[string]error
}

func (s *recordingSender) Send(_ context.Context, to, _, _ string) error {
	if err, ok := s.failFor[to]; ok {
		return err
	}
	s.sent = append(s.sent, to)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func dueTask(id, ownerID string, dueIn time.Duration) *domain.Task {
	return &domain.Task{
		ID:      id,
		OwnerID: ownerID,
		Title:   "task " + id,
		DueDate: time.Now().Add(dueIn),
	}
}

func TestRunSweepOnce_NotifiesDueTasks(t *testing.T) {
	tasks := newClaimTrackingRepo(
		dueTask("t1", "u1", 30*time.Minute),
		dueTask("t2", "u2", 45*time.Minute),
		dueTask("t3", "u1", 3*time.Hour), // outside the horizon
	)
	users := &stubUserRepo{users: map[string]*domain.User{
		"u1": {ID: "u1", Name: "Alice", Email: "alice@example.com"},
		"u2": {ID: "u2", Name: "Bob", Email: "bob@example.com"},
	}}
	sender := &recordingSender{}

	s := sweeper.New(tasks, users, sender, testLogger(), time.Hour, time.Second, 100)
	s.RunSweepOnce(context.Background())

	if len(sender.sent) != 2 {
		t.Fatalf("sent %d reminders, want 2: %v", len(sender.sent), sender.sent)
	}
}

func TestRunSweepOnce_SecondSweepSameWindow_SendsNothing(t *testing.T) {
	tasks := newClaimTrackingRepo(dueTask("t1", "u1", 30*time.Minute))
	users := &stubUserRepo{users: map[string]*domain.User{
		"u1": {ID: "u1", Name: "Alice", Email: "alice@example.com"},
	}}
	sender := &recordingSender{}

	s := sweeper.New(tasks, users, sender, testLogger(), time.Hour, time.Second, 100)
	s.RunSweepOnce(context.Background())
	s.RunSweepOnce(context.Background())

	if len(sender.sent) != 1 {
		t.Fatalf("sent %d reminders across two sweeps, want 1", len(sender.sent))
	}
}

func TestRunSweepOnce_DispatchFailure_DoesNotAbortSweep(t *testing.T) {
	tasks := newClaimTrackingRepo(
		dueTask("t1", "u1", 10*time.Minute),
		dueTask("t2", "u2", 20*time.Minute),
	)
	users := &stubUserRepo{users: map[string]*domain.User{
		"u1": {ID: "u1", Name: "Alice", Email: "alice@example.com"},
		"u2": {ID: "u2", Name: "Bob", Email: "bob@example.com"},
	}}
	sender := &recordingSender{
		failFor: map[string]error{"alice@example.com": errors.New("channel unreachable")},
	}

	s := sweeper.New(tasks, users, sender, testLogger(), time.Hour, time.Second, 100)
	s.RunSweepOnce(context.Background())

	if len(sender.sent) != 1 || sender.sent[0] != "bob@example.com" {
		t.Fatalf("sent = %v, want just bob@example.com", sender.sent)
	}
}

func TestRunSweepOnce_MissingOwner_SkipsTask(t *testing.T) {
	tasks := newClaimTrackingRepo(
		dueTask("t1", "ghost", 10*time.Minute),
		dueTask("t2", "u2", 20*time.Minute),
	)
	users := &stubUserRepo{users: map[string]*domain.User{
		"u2": {ID: "u2", Name: "Bob", Email: "bob@example.com"},
	}}
	sender := &recordingSender{}

	s := sweeper.New(tasks, users, sender, testLogger(), time.Hour, time.Second, 100)
	s.RunSweepOnce(context.Background())

	if len(sender.sent) != 1 || sender.sent[0] != "bob@example.com" {
		t.Fatalf("sent = %v, want just bob@example.com", sender.sent)
	}
}

func TestRunSweepOnce_DrainsInBatches(t *testing.T) {
	var due []*domain.Task
	users := &stubUserRepo{users: map[string]*domain.User{}}
	for i := range 5 {
		id := string(rune('a' + i))
		due = append(due, dueTask(id, "u"+id, 10*time.Minute))
		users.users["u"+id] = &domain.User{ID: "u" + id, Name: id, Email: id + "@example.com"}
	}
	tasks := newClaimTrackingRepo(due...)
	sender := &recordingSender{}

	s := sweeper.New(tasks, users, sender, testLogger(), time.Hour, time.Second, 2)
	s.RunSweepOnce(context.Background())

	if len(sender.sent) != 5 {
		t.Fatalf("sent %d reminders, want 5", len(sender.sent))
	}
	if tasks.calls < 3 {
		t.Errorf("claim calls = %d, want at least 3 with batch size 2", tasks.calls)
	}
}
