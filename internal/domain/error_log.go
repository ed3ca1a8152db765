package domain

import (
	"context"
	"time"
)

// ErrorLog is a persisted record of an unexpected failure.
type ErrorLog struct {
	ID        string
	Message   string
	Detail    string
	Route     string
	Method    string
	CreatedAt time.Time
}

// ErrorLogRepository stores error logs.
type ErrorLogRepository interface {
	Create(ctx context.Context, entry *ErrorLog) error
}

// ErrorReporter records unexpected errors. Implementations never fail the caller.
type ErrorReporter interface {
	Report(ctx context.Context, err error, route, method string)
}
