package controllers

import (
	"fmt"
	"strings"
	"time"

	h "skkevents/internal/delivery/http/helpers"
	"skkevents/internal/domain"
	"skkevents/internal/localtime"
)

// EventResponse is an event with its start and end also rendered in Manila time.
// swagger:model EventResponse
type EventResponse struct {
	*domain.Event
	Start string `json:"start"`
	End   string `json:"end"`
}

func newEventResponse(e *domain.Event) *EventResponse {
	loc := localtime.Manila()
	return &EventResponse{
		Event: e,
		Start: localtime.Format(e.StartUTC, loc),
		End:   localtime.Format(e.EndUTC, loc),
	}
}

func newEventResponses(events []*domain.Event) []*EventResponse {
	out := make([]*EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, newEventResponse(e))
	}
	return out
}

// CreateEventForm is the body of POST /createEvent. Field names follow the admin form.
type CreateEventForm struct {
	EventName         string       `json:"eventName"`
	EventDescription  string       `json:"eventDescription"`
	EventLocation     string       `json:"eventLocation"`
	EventType         string       `json:"eventType"`
	StartDateTime     string       `json:"startDateTime"`
	EndDateTime       string       `json:"endDateTime"`
	ExpectedAttendees h.FlexInt    `json:"expectedAttendees" swaggertype:"integer"`
	SendAll           h.FlexBool   `json:"sendAll" swaggertype:"boolean"`
	CustomMembers     h.StringList `json:"customMembers" swaggertype:"array,string"`
	SimGroups         h.StringList `json:"simGroups" swaggertype:"array,string"`
}

// Validate implements Validator.
func (f CreateEventForm) Validate() []string {
	if strings.TrimSpace(f.EventName) == "" {
		return []string{"Event name is required"}
	}
	return nil
}

// scope builds the invitation scope. customMembers entries naming a SIM group select
// that group; every other entry is treated as a member id.
func (f CreateEventForm) scope() domain.RecipientScope {
	if f.SendAll {
		return domain.RecipientScope{All: true}
	}
	var s domain.RecipientScope
	for _, v := range f.CustomMembers {
		if g, ok := domain.ParseSimGroup(v); ok {
			s.SimGroups = append(s.SimGroups, g)
			continue
		}
		s.MemberIDs = append(s.MemberIDs, v)
	}
	for _, v := range f.SimGroups {
		s.SimGroups = append(s.SimGroups, domain.SimGroup(v))
	}
	return s
}

// CreateEventRequest is the body of POST /api/events. Times are Manila wall clock.
// endDate defaults to date for single-day events.
type CreateEventRequest struct {
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Location          string    `json:"location"`
	Type              string    `json:"type"`
	Date              string    `json:"date" example:"2025-03-10"`
	EndDate           string    `json:"endDate" example:"2025-03-10"`
	TimeFrom          string    `json:"timeFrom" example:"09:00"`
	TimeTo            string    `json:"timeTo" example:"11:00"`
	ExpectedAttendees h.FlexInt `json:"expectedAttendees" swaggertype:"integer"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if c.Date == "" || c.TimeFrom == "" || c.TimeTo == "" {
		errs = append(errs, "date, timeFrom and timeTo are required")
	}
	return errs
}

func (c CreateEventRequest) input() (domain.EventInput, error) {
	start, end, err := localSpan(c.Date, c.EndDate, c.TimeFrom, c.TimeTo)
	if err != nil {
		return domain.EventInput{}, err
	}
	return domain.EventInput{
		Name:              c.Title,
		Description:       c.Description,
		Location:          c.Location,
		Category:          c.Type,
		StartUTC:          start,
		EndUTC:            end,
		ExpectedAttendees: int(c.ExpectedAttendees),
	}, nil
}

// UpdateEventRequest is the body of PUT /editEvent/{id} and PUT /api/events/{id}.
// Omitted fields are unchanged. date, timeFrom and timeTo must be sent together.
type UpdateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	Type        *string    `json:"type"`
	Attendees   *h.FlexInt `json:"attendees" swaggertype:"integer"`
	Date        string     `json:"date" example:"2025-03-10"`
	EndDate     string     `json:"endDate"`
	TimeFrom    string     `json:"timeFrom" example:"09:00"`
	TimeTo      string     `json:"timeTo" example:"11:00"`
	Status      *string    `json:"status" enums:"upcoming,previous,cancelled"`
	MinutesLink *string    `json:"minutesLink"`
}

const missingDateTime = "Date, start time, and end time are required."

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	anyTime := u.Date != "" || u.TimeFrom != "" || u.TimeTo != "" || u.EndDate != ""
	allTime := u.Date != "" && u.TimeFrom != "" && u.TimeTo != ""
	if anyTime && !allTime {
		return []string{missingDateTime}
	}
	return nil
}

func (u UpdateEventRequest) patch() (domain.EventPatch, error) {
	p := domain.EventPatch{
		Name:        u.Title,
		Description: u.Description,
		Location:    u.Location,
		Category:    u.Type,
		MinutesLink: u.MinutesLink,
	}
	if u.Attendees != nil {
		n := int(*u.Attendees)
		p.ExpectedAttendees = &n
	}
	if u.Status != nil {
		st := domain.EventStatus(strings.ToLower(strings.TrimSpace(*u.Status)))
		p.Status = &st
	}
	if u.Date != "" {
		start, end, err := localSpan(u.Date, u.EndDate, u.TimeFrom, u.TimeTo)
		if err != nil {
			return domain.EventPatch{}, err
		}
		p.StartUTC, p.EndUTC = &start, &end
	}
	return p, nil
}

// PreviousEventRequest is the body of POST /api/events/previous.
type PreviousEventRequest struct {
	Title             string    `json:"title"`
	EventName         string    `json:"eventName"`
	EventDescription  string    `json:"eventDescription"`
	Location          string    `json:"location"`
	Type              string    `json:"type"`
	StartDateTime     string    `json:"startDateTime" example:"2024-12-24T18:00"`
	EndDateTime       string    `json:"endDateTime" example:"2024-12-24T21:00"`
	ExpectedAttendees h.FlexInt `json:"expectedAttendees" swaggertype:"integer"`
	MinutesLink       string    `json:"minutesLink"`
}

func (p PreviousEventRequest) input() (domain.EventInput, error) {
	name := strings.TrimSpace(p.EventName)
	if name == "" {
		name = strings.TrimSpace(p.Title)
	}
	if name == "" {
		name = "Untitled Event"
	}
	start, end, err := parseSpan(p.StartDateTime, p.EndDateTime)
	if err != nil {
		return domain.EventInput{}, err
	}
	return domain.EventInput{
		Name:              name,
		Description:       p.EventDescription,
		Location:          p.Location,
		Category:          p.Type,
		StartUTC:          start,
		EndUTC:            end,
		ExpectedAttendees: int(p.ExpectedAttendees),
		MinutesLink:       p.MinutesLink,
	}, nil
}

// localSpan converts a Manila date with start and end clocks into a UTC range.
func localSpan(date, endDate, from, to string) (time.Time, time.Time, error) {
	loc := localtime.Manila()
	if endDate == "" {
		endDate = date
	}
	start, err := localtime.ToUTC(date, from, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := localtime.ToUTC(endDate, to, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if err := localtime.Range(start, end); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// parseSpan parses combined date-time values such as "2025-03-10T09:00" in Manila time.
func parseSpan(startValue, endValue string) (time.Time, time.Time, error) {
	loc := localtime.Manila()
	start, err := localtime.ParseDateTime(startValue, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := localtime.ParseDateTime(endValue, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid end date: %w", err)
	}
	return start, end, nil
}
