package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ShivamNishad0/tasktracker/internal/auth"
	"github.com/ShivamNishad0/tasktracker/internal/domain"
	"github.com/ShivamNishad0/tasktracker/internal/notify"
	"github.com/ShivamNishad0/tasktracker/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost = 10

	// welcomeTimeout caps the welcome dispatch so a slow channel cannot hold
	// up the signup response.
	welcomeTimeout = 5 * time.Second
)

type AuthUsecase struct {
	users    repository.UserRepository
	tokens   *auth.TokenService
	notifier notify.Sender
	logger   *slog.Logger
}

func NewAuthUsecase(users repository.UserRepository, tokens *auth.TokenService, notifier notify.Sender, logger *slog.Logger) *AuthUsecase {
	return &AuthUsecase{
		users:    users,
		tokens:   tokens,
		notifier: notifier,
		logger:   logger.With("component", "auth_usecase"),
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    *string
}

// Register creates the user with a bcrypt-hashed password and returns the user
// together with a signed token, so signup doubles as the first login.
func (u *AuthUsecase) Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user, err := u.users.Create(ctx, &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Phone:        input.Phone,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, "", domain.ErrEmailTaken
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	// Welcome message is best-effort; a delivery failure must not fail signup.
	subject := "Welcome to TaskTracker"
	body := fmt.Sprintf("<p>Thanks for signing up, %s! We're excited to have you on board.</p>", user.Name)
	sendCtx, cancel := context.WithTimeout(ctx, welcomeTimeout)
	defer cancel()
	if err := u.notifier.Send(sendCtx, user.Email, subject, body); err != nil {
		u.logger.WarnContext(ctx, "welcome notification failed", "user_id", user.ID, "error", err)
	}

	token, err := u.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

// Login verifies credentials and issues a token. An unknown email and a wrong
// password are indistinguishable to the caller.
func (u *AuthUsecase) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := u.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	user.PasswordHash = ""
	return user, token, nil
}

func (u *AuthUsecase) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

type UpdateProfileInput struct {
	Name  string
	Email string
	Phone *string
}

func (u *AuthUsecase) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error) {
	user, err := u.users.UpdateProfile(ctx, userID, repository.UpdateProfileInput{
		Name:  input.Name,
		Email: input.Email,
		Phone: input.Phone,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) || errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// ChangePassword re-checks the current password before storing the new hash.
func (u *AuthUsecase) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	hash, err := u.users.CredentialByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("load credential: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(currentPassword)) != nil {
		return domain.ErrInvalidCredentials
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := u.users.UpdatePassword(ctx, userID, string(newHash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}
