package handler

const (
	errInternalServer     = "Internal server error"
	errUnauthorized       = "Unauthorized"
	errTaskNotFound       = "Task not found"
	errUserNotFound       = "User not found"
	errEmailTaken         = "Email already exists"
	errInvalidCursor      = "Invalid cursor"
	errInvalidCredentials = "Invalid email or password"
	errPasswordIncorrect  = "Current password is incorrect"
)
