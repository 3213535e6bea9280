package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/Apurer/rescue-adoption-api/internal/shared/calendar"
)

var (
	ErrEmptyTitle               = errors.New("activity title is required")
	ErrEmptyPlace               = errors.New("activity place is required")
	ErrTimeRange                = errors.New("end time must be after start time")
	ErrRequiredVolunteers       = errors.New("at least one volunteer is required")
	ErrCapacityBelowEnrollments = errors.New("required volunteers cannot drop below active enrollments")
	ErrActivityInPast           = errors.New("activity date is in the past")
)

// Activity is a volunteer shift with a fixed number of seats.
type Activity struct {
	ID                 string
	Title              string
	Description        string
	Date               time.Time
	Start              calendar.TimeOfDay
	End                calendar.TimeOfDay
	Place              string
	RequiredVolunteers int
	Requirements       string
	Benefits           string
	Urgent             bool
	CoordinatorID      string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Validate enforces the invariants that hold for every stored activity.
func (a *Activity) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(a.Place) == "" {
		return ErrEmptyPlace
	}
	if a.End <= a.Start {
		return ErrTimeRange
	}
	if a.RequiredVolunteers < 1 {
		return ErrRequiredVolunteers
	}
	return nil
}

// IsPast reports whether the activity took place on a day before now. Both sides are
// compared by their wall-clock date, so now must already be in the shelter timezone.
func (a *Activity) IsPast(now time.Time) bool {
	return calendar.Day(a.Date, time.UTC).Before(calendar.Day(now, time.UTC))
}

// AvailableSeats derives the free seats from the number of active enrollments.
func (a *Activity) AvailableSeats(active int) int {
	return a.RequiredVolunteers - active
}

// Resize changes the seat count. It never drops below the active enrollments.
func (a *Activity) Resize(required, active int) error {
	if required < 1 {
		return ErrRequiredVolunteers
	}
	if required < active {
		return ErrCapacityBelowEnrollments
	}
	a.RequiredVolunteers = required
	return nil
}

// Clone returns a copy of a.
func (a *Activity) Clone() *Activity {
	if a == nil {
		return nil
	}
	out := *a
	return &out
}
