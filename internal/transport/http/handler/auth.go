package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ShivamNishad0/tasktracker/internal/domain"
	"github.com/ShivamNishad0/tasktracker/internal/transport/http/middleware"
	"github.com/ShivamNishad0/tasktracker/internal/usecase"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, input usecase.UpdateProfileInput) (*domain.User, error)
	ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error
}

type AuthHandler struct {
	authUsecase authUsecaser
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		logger:      logger.With("component", "auth_handler"),
	}
}

type userResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email string  `json:"email"`
	Phone *string `json:"phone,omitempty"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}

type registerRequest struct {
	Name     string  `json:"name"     binding:"required,max=256"`
	Email    string  `json:"email"    binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Phone    *string `json:"phone"    binding:"omitempty,e164"`
}

// POST /api/user/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.authUsecase.Register(c.Request.Context(), usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			fail(c, http.StatusConflict, errEmailTaken)
			return
		}
		h.logger.Error("register", "error", err)
		fail(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	ok(c, http.StatusCreated, gin.H{"token": token, "user": toUserResponse(user)})
}

type loginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /api/user/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.authUsecase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			fail(c, http.StatusUnauthorized, errInvalidCredentials)
			return
		}
		h.logger.Error("login", "error", err)
		fail(c, http.StatusInternalServerError, errInternalServer)
		return
	}

	ok(c, http.StatusOK, gin.H{"token": token, "user": toUserResponse(user)})
}

// GET /api/user/me
func (h *AuthHandler) Me(c *gin.Context) {
	identity, found := middleware.IdentityFrom(c)
	if !found {
		fail(c, http.StatusUnauthorized, errUnauthorized)
		return
	}

	ok(c, http.StatusOK, gin.H{"user": toUserResponse(identity)})
}

type updateProfileRequest struct {
	Name  string  `json:"name"  binding:"required,max=256"`
	Email string  `json:"email" binding:"required,email"`
	Phone *string `json:"phone" binding:"omitempty,e164"`
}

// PUT /api/user/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	identity, found := middleware.IdentityFrom(c)
	if !found {
		fail(c, http.StatusUnauthorized, errUnauthorized)
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.authUsecase.UpdateProfile(c.Request.Context(), identity.ID, usecase.UpdateProfileInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmailTaken):
			fail(c, http.StatusConflict, errEmailTaken)
		case errors.Is(err, domain.ErrUserNotFound):
			fail(c, http.StatusNotFound, errUserNotFound)
		default:
			h.logger.Error("update profile", "error", err)
			fail(c, http.StatusInternalServerError, errInternalServer)
		}
		return
	}

	ok(c, http.StatusOK, gin.H{"user": toUserResponse(user)})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password"     binding:"required,min=8"`
}

// PUT /api/user/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	identity, found := middleware.IdentityFrom(c)
	if !found {
		fail(c, http.StatusUnauthorized, errUnauthorized)
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	err := h.authUsecase.ChangePassword(c.Request.Context(), identity.ID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			fail(c, http.StatusUnauthorized, errPasswordIncorrect)
		case errors.Is(err, domain.ErrUserNotFound):
			fail(c, http.StatusNotFound, errUserNotFound)
		default:
			h.logger.Error("change password", "error", err)
			fail(c, http.StatusInternalServerError, errInternalServer)
		}
		return
	}

	ok(c, http.StatusOK, gin.H{"message": "Password updated successfully"})
}
