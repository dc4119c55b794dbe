// Package scheduler answers calendar questions about events. Every function is
// pure: it works on the events it is given and never touches storage.
//
// Interval membership is decided on calendar dates only. An event's time of
// day and time zone are used for display and never shift which days it covers.
package scheduler

import (
	"errors"
	"fmt"
	"iter"

	"github.com/dhima/catalog-service/internal/models"
)

// ErrInvalidEvent is returned for an event whose dates cannot form a span.
var ErrInvalidEvent = errors.New("invalid event")

// SpanOf returns the inclusive date span of e.
func SpanOf(e models.Event) (Span, error) {
	start, err := ParseDate(e.StartDate)
	if err != nil {
		return Span{}, fmt.Errorf("%w: start: %w", ErrInvalidEvent, err)
	}
	end, err := ParseDate(e.EndDate)
	if err != nil {
		return Span{}, fmt.Errorf("%w: end: %w", ErrInvalidEvent, err)
	}
	span, err := NewSpan(start, end)
	if err != nil {
		return Span{}, fmt.Errorf("%w: %w", ErrInvalidEvent, err)
	}
	return span, nil
}

// EventsOnDate returns the events whose span contains date, in input order.
// Events with unparseable or inverted dates never match.
func EventsOnDate(events []models.Event, date Date) []models.Event {
	out := make([]models.Event, 0)
	for _, e := range events {
		span, err := SpanOf(e)
		if err != nil {
			continue
		}
		if span.Contains(date) {
			out = append(out, e)
		}
	}
	return out
}

// HasAnyEventOn reports whether at least one event covers date.
func HasAnyEventOn(events []models.Event, date Date) bool {
	for _, e := range events {
		if span, err := SpanOf(e); err == nil && span.Contains(date) {
			return true
		}
	}
	return false
}

// ExpandDays returns a lazy sequence of every date e covers, ascending.
func ExpandDays(e models.Event) (iter.Seq[Date], error) {
	span, err := SpanOf(e)
	if err != nil {
		return nil, err
	}
	return span.Days(), nil
}

// MarkedDays returns the dates in window on which any event takes place.
func MarkedDays(events []models.Event, window Span) []Date {
	spans := make([]Span, 0, len(events))
	for _, e := range events {
		if span, err := SpanOf(e); err == nil {
			spans = append(spans, span)
		}
	}

	out := make([]Date, 0)
	for d := range window.Days() {
		for _, span := range spans {
			if span.Contains(d) {
				out = append(out, d)
				break
			}
		}
	}
	return out
}
