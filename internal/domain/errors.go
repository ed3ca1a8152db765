package domain

import "errors"

// Sentinel errors shared by services, repositories and controllers.
var (
	ErrNotFound             = errors.New("not found")
	ErrValidation           = errors.New("validation failed")
	ErrInvalidTimeInput     = errors.New("invalid time input")
	ErrTransportUnavailable = errors.New("mail transport unavailable")
	ErrDuplicate            = errors.New("already exists")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrForbidden            = errors.New("forbidden")
)
