package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"skkevents/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	resolver       domain.RecipientResolver
	composer       domain.InvitationComposer
	dispatcher     domain.Dispatcher
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

func NewEventService(eventRepo domain.EventRepository,
	resolver domain.RecipientResolver,
	composer domain.InvitationComposer,
	dispatcher domain.Dispatcher,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		resolver:       resolver,
		composer:       composer,
		dispatcher:     dispatcher,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// CreateEvent stores the event and then invites the recipients selected by scope.
// Notification problems are logged and reflected in the report; they never fail the call.
func (s *eventService) CreateEvent(ctx context.Context, input domain.EventInput, scope domain.RecipientScope) (*domain.Event, *domain.DispatchReport, error) {
	if input.Status == "" {
		input.Status = domain.EventStatusUpcoming
	}
	event, err := s.create(ctx, input)
	if err != nil {
		return nil, nil, err
	}
	report := s.notify(ctx, event, scope)
	return event, report, nil
}

// AddPreviousEvent records an event that already happened. No one is notified.
func (s *eventService) AddPreviousEvent(ctx context.Context, input domain.EventInput) (*domain.Event, error) {
	input.Status = domain.EventStatusPrevious
	return s.create(ctx, input)
}

func (s *eventService) create(ctx context.Context, input domain.EventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := s.now()
	event := &domain.Event{
		Name:              input.Name,
		Description:       input.Description,
		Location:          input.Location,
		Category:          input.Category,
		StartUTC:          input.StartUTC,
		EndUTC:            input.EndUTC,
		ExpectedAttendees: input.ExpectedAttendees,
		CreatedBy:         input.CreatedBy,
		Status:            input.Status,
		MinutesLink:       input.MinutesLink,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	normalizeEvent(event)
	if err := validateEvent(event); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *eventService) notify(ctx context.Context, event *domain.Event, scope domain.RecipientScope) *domain.DispatchReport {
	empty := &domain.DispatchReport{Errors: []domain.BatchError{}}
	if scope.Empty() {
		return empty
	}

	resolveCtx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	recipients, err := s.resolver.Resolve(resolveCtx, scope)
	cancel()
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to resolve recipients", "event_id", event.ID, "err", err)
		return empty
	}
	if len(recipients) == 0 {
		return empty
	}

	msg, err := s.composer.Compose(event)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to compose invitation", "event_id", event.ID, "err", err)
		return &domain.DispatchReport{TotalRecipients: len(recipients), Errors: []domain.BatchError{}}
	}
	report := s.dispatcher.Dispatch(ctx, recipients, msg)
	s.logger.InfoContext(ctx, "event invitations dispatched",
		"event_id", event.ID,
		"recipients", report.TotalRecipients,
		"batches_succeeded", report.BatchesSucceeded,
		"batches_failed", report.BatchesFailed,
	)
	return report
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	event.Status = event.StatusAt(s.now())
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, from, to time.Time) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if to.Before(from) {
		return nil, fmt.Errorf("%w: range end is before range start", domain.ErrInvalidTimeInput)
	}
	events, err := s.eventRepo.ListOverlapping(ctx, from.UTC(), to.UTC())
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	now := s.now()
	for _, e := range events {
		e.Status = e.StatusAt(now)
	}
	return events, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	applyPatch(event, patch)
	normalizeEvent(event)
	if err := validateEvent(event); err != nil {
		return nil, err
	}
	event.UpdatedAt = s.now()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	event.Status = event.StatusAt(event.UpdatedAt)
	return event, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func applyPatch(e *domain.Event, p domain.EventPatch) {
	if p.Name != nil {
		e.Name = *p.Name
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.StartUTC != nil {
		e.StartUTC = *p.StartUTC
	}
	if p.EndUTC != nil {
		e.EndUTC = *p.EndUTC
	}
	if p.ExpectedAttendees != nil {
		e.ExpectedAttendees = *p.ExpectedAttendees
	}
	if p.Status != nil {
		e.Status = *p.Status
	}
	if p.MinutesLink != nil {
		e.MinutesLink = *p.MinutesLink
	}
}

func normalizeEvent(e *domain.Event) {
	e.Name = strings.TrimSpace(e.Name)
	e.Description = strings.TrimSpace(e.Description)
	e.Location = strings.TrimSpace(e.Location)
	e.Category = strings.TrimSpace(e.Category)
	if e.Category == "" {
		e.Category = domain.DefaultEventCategory
	}
	e.MinutesLink = strings.TrimSpace(e.MinutesLink)
	e.StartUTC = e.StartUTC.UTC()
	e.EndUTC = e.EndUTC.UTC()
}

// validateEvent enforces the storage invariants. Errors wrap domain.ErrValidation.
func validateEvent(e *domain.Event) error {
	var errs []string
	if e.Name == "" {
		errs = append(errs, "event name is required")
	}
	if e.StartUTC.IsZero() || e.EndUTC.IsZero() {
		errs = append(errs, "start and end time are required")
	} else if !e.EndUTC.After(e.StartUTC) {
		errs = append(errs, "end time must be after start time")
	}
	if e.ExpectedAttendees < 0 {
		errs = append(errs, "expected attendees cannot be negative")
	}
	if !e.Status.Valid() {
		errs = append(errs, fmt.Sprintf("unknown status %q", e.Status))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(errs, "; "))
	}
	return nil
}
