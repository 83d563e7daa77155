package errors

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrUserNotFound   = errors.New("user not found")
	// ErrExecutorNotFound deliberately covers both "no such record" and
	// "record exists but belongs to someone else" so callers cannot probe
	// for other users' delegation ids.
	ErrExecutorNotFound      = errors.New("executor not found or unauthorized")
	ErrInvalidToken          = errors.New("invite token is invalid or expired")
	ErrInvalidState          = errors.New("invite is no longer pending")
	ErrInvalidAction         = errors.New("unknown invite action")
	ErrNoActiveDelegation    = errors.New("you are not assigned as executor to any user")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
