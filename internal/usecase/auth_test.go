package usecase_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/ShivamNishad0/tasktracker/internal/auth"
	"github.com/ShivamNishad0/tasktracker/internal/domain"
	"github.com/ShivamNishad0/tasktracker/internal/repository"
	"github.com/ShivamNishad0/tasktracker/internal/usecase"
	"golang.org/x/crypto/bcrypt"
)

// ---- fakes ----

type fakeUserRepo struct {
	create         func(ctx context.Context, user *domain.User) (*domain.User, error)
	findByID       func(ctx context.Context, id string) (*domain.User, error)
	findByEmail    func(ctx context.Context, email string) (*domain.User, error)
	credentialByID func(ctx context.Context, id string) (string, error)
	updateProfile  func(ctx context.Context, id string, input repository.UpdateProfileInput) (*domain.User, error)
	updatePassword func(ctx context.Context, id, hash string) error
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	return r.create(ctx, user)
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findByID(ctx, id)
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findByEmail(ctx, email)
}

func (r *fakeUserRepo) CredentialByID(ctx context.Context, id string) (string, error) {
	return r.credentialByID(ctx, id)
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, id string, input repository.UpdateProfileInput) (*domain.User, error) {
	return r.updateProfile(ctx, id, input)
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	return r.updatePassword(ctx, id, hash)
}

type fakeSender struct {
	send func(ctx context.Context, to, subject, body string) error
}

func (s *fakeSender) Send(ctx context.Context, to, subject, body string) error {
	if s.send == nil {
		return nil
	}
	return s.send(ctx, to, subject, body)
}

// ---- helpers ----

const testJWTKey = "test-jwt-secret-at-least-32-chars!!"

func newUsecase(repo *fakeUserRepo, sender *fakeSender) *usecase.AuthUsecase {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	return usecase.NewAuthUsecase(repo, auth.NewTokenService([]byte(testJWTKey)), sender, logger)
}

// ---- Register ----

func TestRegister_StoresBcryptHash(t *testing.T) {
	var storedHash string
	repo := &fakeUserRepo{
		create: func(_ context.Context, u *domain.User) (*domain.User, error) {
			storedHash = u.PasswordHash
			created := *u
			created.ID = "user-1"
			return &created, nil
		},
	}

	_, _, err := newUsecase(repo, &fakeSender{}).Register(context.Background(), usecase.RegisterInput{
		Name: "Alice", Email: "a@b.com", Password: "password1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if storedHash == "password1" || storedHash == "" {
		t.Fatalf("password stored in the clear or empty: %q", storedHash)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("password1")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}

func TestRegister_ReturnsVerifiableToken(t *testing.T) {
	repo := &fakeUserRepo{
		create: func(_ context.Context, u *domain.User) (*domain.User, error) {
			created := *u
			created.ID = "user-1"
			return &created, nil
		},
	}

	_, token, err := newUsecase(repo, &fakeSender{}).Register(context.Background(), usecase.RegisterInput{
		Name: "Alice", Email: "a@b.com", Password: "password1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := auth.NewTokenService([]byte(testJWTKey)).Verify(token)
	if err != nil {
		t.Fatalf("returned token does not verify: %v", err)
	}
	if got != "user-1" {
		t.Errorf("token subject = %q, want %q", got, "user-1")
	}
}

func TestRegister_DuplicateEmail_ReturnsErrEmailTaken(t *testing.T) {
	repo := &fakeUserRepo{
		create: func(_ context.Context, _ *domain.User) (*domain.User, error) {
			return nil, domain.ErrEmailTaken
		},
	}

	_, _, err := newUsecase(repo, &fakeSender{}).Register(context.Background(), usecase.RegisterInput{
		Name: "Alice", Email: "a@b.com", Password: "password1",
	})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Errorf("want ErrEmailTaken, got %v", err)
	}
}

func TestRegister_WelcomeFailure_DoesNotFailSignup(t *testing.T) {
	repo := &fakeUserRepo{
		create: func(_ context.Context, u *domain.User) (*domain.User, error) {
			created := *u
			created.ID = "user-1"
			return &created, nil
		},
	}
	sender := &fakeSender{
		send: func(_ context.Context, _, _, _ string) error {
			return errors.New("channel unreachable")
		},
	}

	if _, _, err := newUsecase(repo, sender).Register(context.Background(), usecase.RegisterInput{
		Name: "Alice", Email: "a@b.com", Password: "password1",
	}); err != nil {
		t.Errorf("register failed on notification error: %v", err)
	}
}

func TestRegister_WelcomeDispatchIsDeadlineBound(t *testing.T) {
	repo := &fakeUserRepo{
		create: func(_ context.Context, u *domain.User) (*domain.User, error) {
			created := *u
			created.ID = "user-1"
			return &created, nil
		},
	}
	sender := &fakeSender{
		send: func(ctx context.Context, _, _, _ string) error {
			if _, ok := ctx.Deadline(); !ok {
				t.Error("welcome dispatch runs without a deadline")
			}
			return nil
		},
	}

	if _, _, err := newUsecase(repo, sender).Register(context.Background(), usecase.RegisterInput{
		Name: "Alice", Email: "a@b.com", Password: "password1",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// ---- Login ----

func hashOf(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(h)
}

func TestLogin_ValidCredentials_ReturnsToken(t *testing.T) {
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return &domain.User{ID: "user-1", Email: "a@b.com", PasswordHash: hashOf(t, "password1")}, nil
		},
	}

	user, token, err := newUsecase(repo, &fakeSender{}).Login(context.Background(), "a@b.com", "password1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Error("empty token")
	}
	if user.PasswordHash != "" {
		t.Error("password hash leaked on the login response path")
	}
}

func TestLogin_WrongPassword_ReturnsErrInvalidCredentials(t *testing.T) {
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return &domain.User{ID: "user-1", PasswordHash: hashOf(t, "password1")}, nil
		},
	}

	_, _, err := newUsecase(repo, &fakeSender{}).Login(context.Background(), "a@b.com", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("want ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmail_SameErrorAsWrongPassword(t *testing.T) {
	repo := &fakeUserRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}

	_, _, err := newUsecase(repo, &fakeSender{}).Login(context.Background(), "nobody@b.com", "password1")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("want ErrInvalidCredentials, got %v", err)
	}
}

// ---- ChangePassword ----

func TestChangePassword_WrongCurrent_ReturnsErrInvalidCredentials(t *testing.T) {
	repo := &fakeUserRepo{
		credentialByID: func(_ context.Context, _ string) (string, error) {
			return hashOf(t, "password1"), nil
		},
	}

	err := newUsecase(repo, &fakeSender{}).ChangePassword(context.Background(), "user-1", "wrong", "newpassword")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Errorf("want ErrInvalidCredentials, got %v", err)
	}
}

func TestChangePassword_StoresNewHash(t *testing.T) {
	var storedHash string
	repo := &fakeUserRepo{
		credentialByID: func(_ context.Context, _ string) (string, error) {
			return hashOf(t, "password1"), nil
		},
		updatePassword: func(_ context.Context, _, hash string) error {
			storedHash = hash
			return nil
		},
	}

	if err := newUsecase(repo, &fakeSender{}).ChangePassword(context.Background(), "user-1", "password1", "newpassword"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("newpassword")); err != nil {
		t.Errorf("new hash does not verify: %v", err)
	}
}
