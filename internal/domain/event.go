package domain

import (
	"context"
	"time"
)

// EventStatus is the lifecycle state stored with an event.
type EventStatus string

const (
	EventStatusUpcoming  EventStatus = "upcoming"
	EventStatusPrevious  EventStatus = "previous"
	EventStatusCancelled EventStatus = "cancelled"
)

// Valid reports whether s is one of the known statuses.
func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusUpcoming, EventStatusPrevious, EventStatusCancelled:
		return true
	}
	return false
}

// DefaultEventCategory is used when a form omits the event type.
const DefaultEventCategory = "Other"

// Event represents a church event. StartUTC and EndUTC are always stored in UTC.
// swagger:model Event
type Event struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Description       string      `json:"description"`
	Location          string      `json:"location"`
	Category          string      `json:"category"`
	StartUTC          time.Time   `json:"start_utc"`
	EndUTC            time.Time   `json:"end_utc"`
	ExpectedAttendees int         `json:"expected_attendees"`
	CreatedBy         *string     `json:"created_by"`
	Status            EventStatus `json:"status"`
	MinutesLink       string      `json:"minutes_link"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

// StatusAt returns the status as seen at now. An upcoming event whose start has
// passed reads as previous; the stored value is left untouched.
func (e *Event) StatusAt(now time.Time) EventStatus {
	if e.Status == EventStatusUpcoming && e.StartUTC.Before(now) {
		return EventStatusPrevious
	}
	return e.Status
}

// EventInput carries the already-normalized fields for creating an event.
type EventInput struct {
	Name              string
	Description       string
	Location          string
	Category          string
	StartUTC          time.Time
	EndUTC            time.Time
	ExpectedAttendees int
	CreatedBy         *string
	Status            EventStatus
	MinutesLink       string
}

// EventPatch holds optional updates for an event. Nil fields are left unchanged.
type EventPatch struct {
	Name              *string
	Description       *string
	Location          *string
	Category          *string
	StartUTC          *time.Time
	EndUTC            *time.Time
	ExpectedAttendees *int
	Status            *EventStatus
	MinutesLink       *string
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
	// ListOverlapping returns events with start <= to and end >= from, ordered by start.
	ListOverlapping(ctx context.Context, from, to time.Time) ([]*Event, error)
	CountByStatus(ctx context.Context, now time.Time) (map[EventStatus]int, error)
}

// EventService defines the business logic for events and their invitations.
type EventService interface {
	CreateEvent(ctx context.Context, input EventInput, scope RecipientScope) (*Event, *DispatchReport, error)
	AddPreviousEvent(ctx context.Context, input EventInput) (*Event, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	ListEvents(ctx context.Context, from, to time.Time) ([]*Event, error)
	UpdateEvent(ctx context.Context, id string, patch EventPatch) (*Event, error)
	DeleteEvent(ctx context.Context, id string) error
}

// CalendarEncoder renders events as an iCalendar feed.
type CalendarEncoder interface {
	Encode(events []*Event) (string, error)
}
