package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lastRecord struct {
	record slog.Record
}

func (h *lastRecord) Enabled(context.Context, slog.Level) bool { return true }

func (h *lastRecord) Handle(_ context.Context, r slog.Record) error {
	h.record = r.Clone()
	return nil
}

func (h *lastRecord) WithAttrs([]slog.Attr) slog.Handler { return h }

func (h *lastRecord) WithGroup(string) slog.Handler { return h }

func (h *lastRecord) attrs() map[string]slog.Value {
	out := make(map[string]slog.Value)
	h.record.Attrs(func(a slog.Attr) bool {
		out[a.Key] = a.Value
		return true
	})
	return out
}

func TestLoggingMiddleware_LevelsAndAttrs(t *testing.T) {
	var sink lastRecord
	logger := slog.New(&sink)

	tests := []struct {
		name      string
		status    int
		method    string
		path      string
		wantLevel slog.Level
	}{
		{"list events", http.StatusOK, http.MethodGet, "/api/events", slog.LevelInfo},
		{"create form", http.StatusCreated, http.MethodPost, "/createEvent", slog.LevelInfo},
		{"missing event", http.StatusNotFound, http.MethodPut, "/editEvent/abc", slog.LevelWarn},
		{"db failure", http.StatusInternalServerError, http.MethodPost, "/api/members", slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := LoggingMiddleware(logger, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("ok"))
			}))
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, httptest.NewRequest(tt.method, "http://test"+tt.path, nil))

			require.Equal(t, "request", sink.record.Message)
			assert.Equal(t, tt.wantLevel, sink.record.Level)
			attrs := sink.attrs()
			assert.Equal(t, tt.method, attrs["method"].String())
			assert.Equal(t, tt.path, attrs["path"].String())
			assert.Equal(t, int64(tt.status), attrs["status"].Int64())
			assert.Equal(t, int64(2), attrs["bytes"].Int64())
			assert.NotEmpty(t, attrs["request_id"].String())
			assert.Equal(t, attrs["request_id"].String(), rr.Header().Get(RequestIDHeader))
		})
	}
}

func TestLoggingMiddleware_RequestID(t *testing.T) {
	var seen string
	handler := LoggingMiddleware(slog.New(&lastRecord{}), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rr.Header().Get(RequestIDHeader))

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/events", nil))
	assert.Len(t, seen, 36)
	assert.Equal(t, "", RequestIDFromContext(context.Background()))
}
