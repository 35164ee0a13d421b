package core

import "errors"

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNoSession          = errors.New("no session")
	ErrForbidden          = errors.New("forbidden")
	ErrEmailTaken         = errors.New("email already registered")
	ErrAccountNotFound    = errors.New("account not found")
	ErrAuthInvalidArgs    = errors.New("auth invalid args")
)

// Profile errors
var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrProfileLimit       = errors.New("profile limit reached")
	ErrProfileHasTasks    = errors.New("profile still has tasks")
	ErrProfileInvalidArgs = errors.New("profile invalid args")
)

// Task errors
var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrTaskInvalidArgs = errors.New("task invalid args")
)
