package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"skkevents/internal/delivery/http/helpers"
	"skkevents/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const (
	testEventID  = "0b6f8a52-6a43-4d5b-9a1e-6a4b1f0f2c11"
	testMemberID = "5d2c7e1a-3f4b-4c8d-8e9f-0a1b2c3d4e5f"
	testUserID   = "9f8e7d6c-5b4a-4321-8fed-cba987654321"
)

type fakeReporter struct {
	errs []error
}

func (f *fakeReporter) Report(ctx context.Context, err error, route, method string) {
	f.errs = append(f.errs, err)
}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	err          error
	report       *domain.DispatchReport
	events       []*domain.Event
	lastInput    domain.EventInput
	lastScope    domain.RecipientScope
	lastPatch    domain.EventPatch
	lastID       string
	lastFrom     time.Time
	lastTo       time.Time
	previousUsed bool
}

func (f *fakeEventService) created(input domain.EventInput) *domain.Event {
	return &domain.Event{
		ID:                testEventID,
		Name:              input.Name,
		Description:       input.Description,
		Location:          input.Location,
		Category:          input.Category,
		StartUTC:          input.StartUTC,
		EndUTC:            input.EndUTC,
		ExpectedAttendees: input.ExpectedAttendees,
		CreatedBy:         input.CreatedBy,
		Status:            domain.EventStatusUpcoming,
	}
}

func (f *fakeEventService) CreateEvent(ctx context.Context, input domain.EventInput, scope domain.RecipientScope) (*domain.Event, *domain.DispatchReport, error) {
	f.lastInput, f.lastScope = input, scope
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.created(input), f.report, nil
}

func (f *fakeEventService) AddPreviousEvent(ctx context.Context, input domain.EventInput) (*domain.Event, error) {
	f.lastInput, f.previousUsed = input, true
	if f.err != nil {
		return nil, f.err
	}
	e := f.created(input)
	e.Status = domain.EventStatusPrevious
	return e, nil
}

func (f *fakeEventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	for _, e := range f.events {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventService) ListEvents(ctx context.Context, from, to time.Time) ([]*domain.Event, error) {
	f.lastFrom, f.lastTo = from, to
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func (f *fakeEventService) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	f.lastID, f.lastPatch = id, patch
	if f.err != nil {
		return nil, f.err
	}
	e := &domain.Event{ID: id, Name: "Updated", Status: domain.EventStatusUpcoming}
	if patch.Name != nil {
		e.Name = *patch.Name
	}
	return e, nil
}

func (f *fakeEventService) DeleteEvent(ctx context.Context, id string) error {
	f.lastID = id
	return f.err
}

type fakeCalendar struct {
	got []*domain.Event
	err error
}

func (f *fakeCalendar) Encode(events []*domain.Event) (string, error) {
	f.got = events
	if f.err != nil {
		return "", f.err
	}
	return "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n", nil
}

// decodeEnvelope reads the API envelope and re-decodes its data into dest when dest is non-nil.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
	if dest != nil {
		require.Nil(t, envelope.Error, "success response must have error nil")
		raw, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, dest))
	}
	return envelope
}

func decodeStatus(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body), "response must be valid JSON")
	return body
}
