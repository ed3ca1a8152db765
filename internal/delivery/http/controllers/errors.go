package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	h "skkevents/internal/delivery/http/helpers"
	"skkevents/internal/domain"
)

// writeServiceError maps a service error onto the API envelope. Unexpected errors are
// logged and reported, and the client only sees a generic message.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, reporter domain.ErrorReporter, err error, notFound string) {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidTimeInput):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, notFound)
	case errors.Is(err, domain.ErrDuplicate):
		h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid credentials")
	case errors.Is(err, domain.ErrForbidden):
		h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
	default:
		reportFailure(r, logger, reporter, err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal server error")
	}
}

// writeFormError is writeServiceError for the {status, message} endpoints.
func writeFormError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, reporter domain.ErrorReporter, err error, notFound, failed string) {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidTimeInput):
		h.WriteStatusError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		h.WriteStatusError(w, http.StatusNotFound, notFound)
	default:
		reportFailure(r, logger, reporter, err)
		h.WriteStatusError(w, http.StatusInternalServerError, failed)
	}
}

func reportFailure(r *http.Request, logger *slog.Logger, reporter domain.ErrorReporter, err error) {
	if reporter != nil {
		reporter.Report(r.Context(), err, r.URL.Path, r.Method)
		return
	}
	logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
}

// pathUUID returns the named path value when it is a well-formed UUID.
func pathUUID(r *http.Request, name string) (string, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return "", false
	}
	return id.String(), true
}
