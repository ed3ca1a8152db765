package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"skkevents/internal/domain"
)

const errorLogTimeout = 5 * time.Second

type errorLogService struct {
	repo   domain.ErrorLogRepository
	logger *slog.Logger
}

// NewErrorLogService returns an ErrorReporter that logs to slog and persists to repo.
// repo may be nil, in which case errors are only logged.
func NewErrorLogService(repo domain.ErrorLogRepository, logger *slog.Logger) domain.ErrorReporter {
	return &errorLogService{repo: repo, logger: logger}
}

// Report never returns or panics on failure; a failed write is logged and dropped.
func (s *errorLogService) Report(ctx context.Context, err error, route, method string) {
	if err == nil {
		return
	}
	s.logger.ErrorContext(ctx, "error logged", "route", route, "method", method, "err", err)
	if s.repo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), errorLogTimeout)
	defer cancel()
	entry := &domain.ErrorLog{
		Message:   err.Error(),
		Detail:    detail(err),
		Route:     route,
		Method:    method,
		CreatedAt: time.Now(),
	}
	if werr := s.repo.Create(ctx, entry); werr != nil {
		s.logger.ErrorContext(ctx, "failed to persist error log", "err", werr)
	}
}

// detail unwraps the chain into "outer | inner | ..." so the stored row shows the cause.
func detail(err error) string {
	out := ""
	for e := err; e != nil; {
		if out != "" {
			out += " | "
		}
		out += e.Error()
		e = errors.Unwrap(e)
	}
	return out
}
