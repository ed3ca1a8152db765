package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"skkevents/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeErrorLogRepo struct {
	entries []*domain.ErrorLog
	err     error
	ctxErr  error
}

func (f *fakeErrorLogRepo) Create(ctx context.Context, e *domain.ErrorLog) error {
	f.ctxErr = ctx.Err()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, e)
	return nil
}

func TestErrorLogService_Report(t *testing.T) {
	repo := &fakeErrorLogRepo{}
	reporter := NewErrorLogService(repo, testLogger)

	cause := errors.New("relation \"events\" does not exist")
	reporter.Report(context.Background(), fmt.Errorf("create event: %w", cause), "/createEvent", "POST")

	require.Len(t, repo.entries, 1)
	got := repo.entries[0]
	assert.Equal(t, "create event: relation \"events\" does not exist", got.Message)
	assert.Equal(t, "create event: relation \"events\" does not exist | relation \"events\" does not exist", got.Detail)
	assert.Equal(t, "/createEvent", got.Route)
	assert.Equal(t, "POST", got.Method)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestErrorLogService_ReportNeverFails(t *testing.T) {
	repo := &fakeErrorLogRepo{err: errors.New("disk full")}
	reporter := NewErrorLogService(repo, testLogger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NotPanics(t, func() {
		reporter.Report(ctx, errors.New("boom"), "/api/events", "GET")
	})
	assert.NoError(t, repo.ctxErr, "persisting should not inherit request cancellation")

	assert.NotPanics(t, func() {
		NewErrorLogService(nil, testLogger).Report(context.Background(), errors.New("boom"), "/x", "GET")
		reporter.Report(context.Background(), nil, "/x", "GET")
	})
}
