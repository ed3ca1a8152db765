// Package ical renders events as an RFC 5545 calendar feed.
package ical

import (
	"time"

	ics "github.com/arran4/golang-ical"

	"skkevents/internal/domain"
)

const productID = "-//SKK//Events//EN"

type calendarEncoder struct {
	domain string
	now    func() time.Time
}

// NewCalendarEncoder returns a CalendarEncoder. uidDomain is appended to event ids to form
// globally unique UIDs.
func NewCalendarEncoder(uidDomain string) domain.CalendarEncoder {
	if uidDomain == "" {
		uidDomain = "skk.local"
	}
	return &calendarEncoder{domain: uidDomain, now: time.Now}
}

// Encode writes one VEVENT per event with times in UTC.
func (c *calendarEncoder) Encode(events []*domain.Event) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	stamp := c.now().UTC()
	for _, e := range events {
		ev := cal.AddEvent(e.ID + "@" + c.domain)
		ev.SetDtStampTime(stamp)
		if !e.CreatedAt.IsZero() {
			ev.SetCreatedTime(e.CreatedAt.UTC())
		}
		if !e.UpdatedAt.IsZero() {
			ev.SetModifiedAt(e.UpdatedAt.UTC())
		}
		ev.SetStartAt(e.StartUTC.UTC())
		ev.SetEndAt(e.EndUTC.UTC())
		ev.SetSummary(e.Name)
		if e.Description != "" {
			ev.SetDescription(e.Description)
		}
		if e.Location != "" {
			ev.SetLocation(e.Location)
		}
		if e.Category != "" {
			ev.SetProperty(ics.ComponentPropertyCategories, e.Category)
		}
		if e.Status == domain.EventStatusCancelled {
			ev.SetStatus(ics.ObjectStatusCancelled)
		} else {
			ev.SetStatus(ics.ObjectStatusConfirmed)
		}
	}
	return cal.Serialize(), nil
}
