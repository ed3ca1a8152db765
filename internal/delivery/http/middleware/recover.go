package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	h "skkevents/internal/delivery/http/helpers"
	"skkevents/internal/domain"
)

// Recover turns a panic in next into a 500 and records it through reporter.
func Recover(logger *slog.Logger, reporter domain.ErrorReporter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			err := fmt.Errorf("panic: %v", rec)
			logger.ErrorContext(r.Context(), "handler panicked", "request_id", RequestIDFromContext(r.Context()), "path", r.URL.Path, "err", err, "stack", string(debug.Stack()))
			if reporter != nil {
				reporter.Report(r.Context(), err, r.URL.Path, r.Method)
			}
			h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal server error")
		}()
		next.ServeHTTP(w, r)
	})
}
