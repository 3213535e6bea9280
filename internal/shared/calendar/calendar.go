// Package calendar holds the date and clock-time helpers shared by the scheduling rules.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DateLayout is the wire format of calendar dates.
	DateLayout = "2006-01-02"
	// ClockLayout is the wire format of wall-clock times.
	ClockLayout = "15:04"
)

// Clock returns the current instant. Services take one so tests can pin "today".
type Clock func() time.Time

// Today truncates now to midnight in its own location.
func Today(now time.Time) time.Time {
	return DateOf(now)
}

// DateOf drops the time-of-day component of t.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Day reinterprets the calendar day of t as midnight in loc.
func Day(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// BeforeDay reports whether a falls on an earlier calendar day than b.
func BeforeDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.In(a.Location()).Date()
	if ay != by {
		return ay < by
	}
	if am != bm {
		return am < bm
	}
	return ad < bd
}

// AfterDay reports whether a falls on a later calendar day than b.
func AfterDay(a, b time.Time) bool {
	return BeforeDay(b.In(a.Location()), a)
}

// ParseDate reads a YYYY-MM-DD value in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(value), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be formatted as YYYY-MM-DD")
	}
	return t, nil
}

// TimeOfDay is a wall-clock time expressed in minutes after midnight.
type TimeOfDay int

// ParseClock reads an HH:MM value.
func ParseClock(value string) (TimeOfDay, error) {
	t, err := time.Parse(ClockLayout, strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("time must be formatted as HH:MM")
	}
	return TimeOfDay(t.Hour()*60 + t.Minute()), nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}
