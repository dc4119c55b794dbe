package scheduler

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/dhima/catalog-service/internal/models"
)

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses an HH:MM time of day.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return Clock{}, fmt.Errorf("invalid time %q: want HH:MM", s)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// Before reports whether c is earlier in the day than o.
func (c Clock) Before(o Clock) bool {
	return c.Hour*60+c.Minute < o.Hour*60+o.Minute
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// LoadZone resolves an IANA time zone name. The empty name and "Local" are
// rejected so that a stored event never depends on the host configuration.
func LoadZone(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" || name == "Local" {
		return nil, fmt.Errorf("invalid time zone %q", name)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q", name)
	}
	return loc, nil
}

// TimeRange formats the daily session of e as "HH:MM - HH:MM".
func TimeRange(e models.Event) string {
	return e.StartTime + " - " + e.EndTime
}

// Session returns the start and end instants of e on day, interpreted in the
// event's own time zone.
func Session(e models.Event, day Date) (start, end time.Time, err error) {
	loc, err := LoadZone(e.TimeZone)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	from, err := ParseClock(e.StartTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := ParseClock(e.EndTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start = time.Date(day.Year, day.Month, day.Day, from.Hour, from.Minute, 0, 0, loc)
	end = time.Date(day.Year, day.Month, day.Day, to.Hour, to.Minute, 0, 0, loc)
	return start, end, nil
}

// Agenda expands e into one entry per covered day with its session bounds.
func Agenda(e models.Event) (models.EventDaysResponse, error) {
	days, err := ExpandDays(e)
	if err != nil {
		return models.EventDaysResponse{}, err
	}

	resp := models.EventDaysResponse{
		EventID:   e.ID,
		TimeRange: TimeRange(e),
		TimeZone:  e.TimeZone,
		Days:      make([]models.EventDay, 0),
	}
	for day := range days {
		start, end, err := Session(e, day)
		if err != nil {
			return models.EventDaysResponse{}, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
		}
		resp.Days = append(resp.Days, models.EventDay{Date: day.String(), Start: start, End: end})
	}
	return resp, nil
}
