package domain

import (
	"errors"
	"time"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTokenInvalid       = errors.New("token is invalid or expired")
)

// User is a registered identity. PasswordHash is only populated on the
// credential lookup paths (login, password change) and is never serialized.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Phone        *string // E.164, optional
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
