package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	h "skkevents/internal/delivery/http/helpers"
	"skkevents/internal/delivery/http/middleware"
	"skkevents/internal/domain"
	"skkevents/internal/localtime"
)

// CreateEventFormResponse documents the 201 body of POST /createEvent.
type CreateEventFormResponse struct {
	Status       bool                   `json:"status"`
	Message      string                 `json:"message"`
	Event        *EventResponse         `json:"event"`
	Notification *domain.DispatchReport `json:"notification"`
}

type EventController struct {
	Logger   *slog.Logger
	Service  domain.EventService
	Encoder  domain.CalendarEncoder
	Reporter domain.ErrorReporter
	now      func() time.Time
}

func NewEventController(logger *slog.Logger, svc domain.EventService, encoder domain.CalendarEncoder, reporter domain.ErrorReporter) *EventController {
	return &EventController{
		Logger:   logger,
		Service:  svc,
		Encoder:  encoder,
		Reporter: reporter,
		now:      time.Now,
	}
}

// CreateEventForm godoc
// @Summary Create an event and send invitations
// @Description Creates an event from the admin form. Times are Manila wall clock. Invitations go to every member with sendAll, or to the members and SIM groups listed in customMembers/simGroups. Email failures never fail the request; they are reported in notification.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateEventForm true "Event form"
// @Success 201 {object} controllers.CreateEventFormResponse
// @Failure 400 {object} helpers.StatusResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.StatusResponse
// @Router /createEvent [post]
func (c *EventController) CreateEventForm(w http.ResponseWriter, r *http.Request) {
	var form CreateEventForm
	if !h.DecodeForm(w, r, &form) {
		return
	}
	start, end, err := parseSpan(form.StartDateTime, form.EndDateTime)
	if err != nil {
		h.WriteStatusError(w, http.StatusBadRequest, "Invalid start or end date")
		return
	}
	input := domain.EventInput{
		Name:              form.EventName,
		Description:       form.EventDescription,
		Location:          form.EventLocation,
		Category:          form.EventType,
		StartUTC:          start,
		EndUTC:            end,
		ExpectedAttendees: int(form.ExpectedAttendees),
	}
	if userID, ok := middleware.UserIDFromContext(r.Context()); ok {
		input.CreatedBy = &userID
	}
	event, report, err := c.Service.CreateEvent(r.Context(), input, form.scope())
	if err != nil {
		writeFormError(w, r, c.Logger, c.Reporter, err, "Event not found", "Event was not created")
		return
	}
	h.WriteStatus(w, http.StatusCreated, h.StatusResponse{
		Message:      "Event successfully created",
		Event:        newEventResponse(event),
		Notification: report,
	})
}

// EditEventForm godoc
// @Summary Edit an event
// @Description Updates the given fields. date, timeFrom and timeTo are Manila wall clock and must be sent together.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Param body body UpdateEventRequest true "Fields to change"
// @Success 200 {object} helpers.StatusResponse
// @Failure 400 {object} helpers.StatusResponse
// @Failure 404 {object} helpers.StatusResponse
// @Failure 500 {object} helpers.StatusResponse
// @Router /editEvent/{id} [put]
func (c *EventController) EditEventForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		h.WriteStatusError(w, http.StatusNotFound, "Event not found")
		return
	}
	var req UpdateEventRequest
	if !h.DecodeForm(w, r, &req) {
		return
	}
	patch, err := req.patch()
	if err != nil {
		h.WriteStatusError(w, http.StatusBadRequest, err.Error())
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), id, patch)
	if err != nil {
		writeFormError(w, r, c.Logger, c.Reporter, err, "Event not found", "Internal Server Error")
		return
	}
	h.WriteStatus(w, http.StatusOK, h.StatusResponse{Message: "Event updated", Event: newEventResponse(event)})
}

// DeleteEventForm godoc
// @Summary Delete an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} helpers.StatusResponse
// @Failure 404 {object} helpers.StatusResponse
// @Failure 500 {object} helpers.StatusResponse
// @Router /editEvent/{id} [delete]
func (c *EventController) DeleteEventForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		h.WriteStatusError(w, http.StatusNotFound, "Event not found")
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), id); err != nil {
		writeFormError(w, r, c.Logger, c.Reporter, err, "Event not found", "Internal Server Error")
		return
	}
	h.WriteStatus(w, http.StatusOK, h.StatusResponse{Message: "Event deleted"})
}

// ListEvents godoc
// @Summary List events in a date range
// @Description Returns events overlapping the Manila-local day range [start 00:00, end 23:59:59], ordered by start. Defaults to the current month.
// @Tags events
// @Produce json
// @Param start query string false "First day (YYYY-MM-DD)"
// @Param end query string false "Last day (YYYY-MM-DD)"
// @Success 200 {object} helpers.APIResponse "data contains []EventResponse"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, ok := c.eventsInRange(w, r)
	if !ok {
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, newEventResponses(events))
}

// Calendar godoc
// @Summary Events as an iCalendar feed
// @Description Same range rules as GET /api/events.
// @Tags events
// @Produce text/calendar
// @Param start query string false "First day (YYYY-MM-DD)"
// @Param end query string false "Last day (YYYY-MM-DD)"
// @Success 200 {string} string "text/calendar body"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /api/events.ics [get]
func (c *EventController) Calendar(w http.ResponseWriter, r *http.Request) {
	events, ok := c.eventsInRange(w, r)
	if !ok {
		return
	}
	body, err := c.Encoder.Encode(events)
	if err != nil {
		writeServiceError(w, r, c.Logger, c.Reporter, err, "")
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `inline; filename="skk-events.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func (c *EventController) eventsInRange(w http.ResponseWriter, r *http.Request) ([]*domain.Event, bool) {
	from, to, err := c.queryRange(r)
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
		return nil, false
	}
	events, err := c.Service.ListEvents(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, r, c.Logger, c.Reporter, err, "")
		return nil, false
	}
	return events, true
}

// queryRange reads start/end days. A missing bound takes the value of the other one;
// with neither, the current Manila month is used.
func (c *EventController) queryRange(r *http.Request) (time.Time, time.Time, error) {
	loc := localtime.Manila()
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	if start == "" && end == "" {
		from, to := localtime.MonthBounds(c.now(), loc)
		return from, to, nil
	}
	if start == "" {
		start = end
	}
	if end == "" {
		end = start
	}
	return localtime.DayBounds(start, end, loc)
}

// GetEvent godoc
// @Summary Get an event
// @Tags events
// @Produce json
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains EventResponse"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/events/{id} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid event id")
		return
	}
	event, err := c.Service.GetEvent(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, c.Logger, c.Reporter, err, "event not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, newEventResponse(event))
}

// CreateEvent godoc
// @Summary Create an event without invitations
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateEventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains EventResponse"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	input, err := req.input()
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
		return
	}
	if userID, ok := middleware.UserIDFromContext(r.Context()); ok {
		input.CreatedBy = &userID
	}
	event, _, err := c.Service.CreateEvent(r.Context(), input, domain.RecipientScope{})
	if err != nil {
		writeServiceError(w, r, c.Logger, c.Reporter, err, "")
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, newEventResponse(event))
}

// UpdateEvent godoc
// @Summary Update an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Param body body UpdateEventRequest true "Fields to change"
// @Success 200 {object} helpers.APIResponse "data contains EventResponse"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/events/{id} [put]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid event id")
		return
	}
	var req UpdateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	patch, err := req.patch()
	if err != nil {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), id, patch)
	if err != nil {
		writeServiceError(w, r, c.Logger, c.Reporter, err, "event not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, newEventResponse(event))
}

// DeleteEvent godoc
// @Summary Delete an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the deleted id"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /api/events/{id} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "invalid event id")
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), id); err != nil {
		writeServiceError(w, r, c.Logger, c.Reporter, err, "event not found")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]string{"id": id})
}

// AddPreviousEvent godoc
// @Summary Record a past event
// @Description Stores an event with status previous. Nobody is notified.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body PreviousEventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains EventResponse"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Router /api/events/previous [post]
func (c *EventController) AddPreviousEvent(w http.ResponseWriter, r *http.Request) {
	var req PreviousEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	input, err := req.input()
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTimeInput) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "Invalid start or end date")
			return
		}
		writeServiceError(w, r, c.Logger, c.Reporter, err, "")
		return
	}
	if userID, ok := middleware.UserIDFromContext(r.Context()); ok {
		input.CreatedBy = &userID
	}
	event, err := c.Service.AddPreviousEvent(r.Context(), input)
	if err != nil {
		writeServiceError(w, r, c.Logger, c.Reporter, err, "")
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, newEventResponse(event))
}
