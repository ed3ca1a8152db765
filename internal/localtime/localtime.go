// Package localtime converts between the congregation's wall clock (Asia/Manila)
// and the UTC instants stored in the database.
package localtime

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"skkevents/internal/domain"
)

// ZoneName is the IANA zone all form input is interpreted in.
const ZoneName = "Asia/Manila"

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var manila = loadManila()

func loadManila() *time.Location {
	loc, err := time.LoadLocation(ZoneName)
	if err != nil {
		// Manila has no DST, so a fixed offset is exact.
		return time.FixedZone("PHT", 8*60*60)
	}
	return loc
}

// Manila returns the Asia/Manila location.
func Manila() *time.Location {
	return manila
}

// LocalDateTime is a wall-clock date and time in some zone.
type LocalDateTime struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// ToUTC interprets date (YYYY-MM-DD) and clock (HH:MM or HH:MM:SS) as wall time in loc.
func ToUTC(date, clock string, loc *time.Location) (time.Time, error) {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if date == "" || clock == "" {
		return time.Time{}, fmt.Errorf("%w: date and time are required", domain.ErrInvalidTimeInput)
	}
	layout := DateLayout + " " + TimeLayout
	if strings.Count(clock, ":") == 2 {
		layout += ":05"
	}
	t, err := time.ParseInLocation(layout, date+" "+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q %q", domain.ErrInvalidTimeInput, date, clock)
	}
	return t.UTC(), nil
}

// ParseDateTime parses a combined local value such as "2025-03-10T09:00" in loc.
// Values carrying an explicit offset (RFC 3339) keep their own offset.
func ParseDateTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty date/time", domain.ErrInvalidTimeInput)
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	date, clock, ok := strings.Cut(value, "T")
	if !ok {
		date, clock, ok = strings.Cut(value, " ")
	}
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %q", domain.ErrInvalidTimeInput, value)
	}
	return ToUTC(date, clock, loc)
}

// ToLocal renders t as wall-clock date and time in loc.
func ToLocal(t time.Time, loc *time.Location) LocalDateTime {
	lt := t.In(loc)
	return LocalDateTime{Date: lt.Format(DateLayout), Time: lt.Format(TimeLayout)}
}

// Range returns an error wrapping ErrInvalidTimeInput unless end is strictly after start.
func Range(start, end time.Time) error {
	if !end.After(start) {
		return fmt.Errorf("%w: end time must be after start time", domain.ErrInvalidTimeInput)
	}
	return nil
}

// DayBounds returns the UTC instants of from 00:00:00 and to 23:59:59 local time.
func DayBounds(from, to string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := ToUTC(from, "00:00:00", loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ToUTC(to, "23:59:59", loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if err := Range(start, end); err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// MonthBounds returns the first and last instant of the local month containing now, in UTC.
func MonthBounds(now time.Time, loc *time.Location) (time.Time, time.Time) {
	lt := now.In(loc)
	first := time.Date(lt.Year(), lt.Month(), 1, 0, 0, 0, 0, loc)
	last := first.AddDate(0, 1, 0).Add(-time.Second)
	return first.UTC(), last.UTC()
}

// Format renders t in loc as an RFC 3339 timestamp with the local offset.
func Format(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(time.RFC3339)
}
