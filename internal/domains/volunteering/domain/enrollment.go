package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// EnrollmentStatus is the state of a volunteer's seat.
type EnrollmentStatus string

const (
	EnrollmentConfirmed EnrollmentStatus = "confirmed"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
	EnrollmentAttended  EnrollmentStatus = "attended"
)

var (
	ErrUnknownEnrollmentStatus = errors.New("status is not a known enrollment status")
	ErrNotOwner                = errors.New("enrollment belongs to another volunteer")
	ErrAlreadyCancelled        = errors.New("enrollment is already cancelled")
	ErrNegativeHours           = errors.New("hours cannot be negative")
)

var enrollmentStatusNames = map[EnrollmentStatus]string{
	EnrollmentConfirmed: "Confirmed",
	EnrollmentCancelled: "Cancelled",
	EnrollmentAttended:  "Attended",
}

// ParseEnrollmentStatus accepts only stable enrollment status keys.
func ParseEnrollmentStatus(value string) (EnrollmentStatus, error) {
	s := EnrollmentStatus(strings.TrimSpace(value))
	if _, ok := enrollmentStatusNames[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownEnrollmentStatus, value)
	}
	return s, nil
}

// DisplayName is the human label of the status.
func (s EnrollmentStatus) DisplayName() string {
	if name, ok := enrollmentStatusNames[s]; ok {
		return name
	}
	return string(s)
}

// Active reports whether the enrollment occupies a seat.
func (s EnrollmentStatus) Active() bool {
	return s == EnrollmentConfirmed || s == EnrollmentAttended
}

// Enrollment is one volunteer's seat in an activity.
type Enrollment struct {
	ID          string
	ActivityID  string
	VolunteerID string
	EnrolledAt  time.Time
	Status      EnrollmentStatus
	Hours       *float64
	Comments    string
	CancelledAt *time.Time
}

// NewEnrollment confirms a seat.
func NewEnrollment(id, activityID, volunteerID, comments string, at time.Time) *Enrollment {
	return &Enrollment{
		ID:          id,
		ActivityID:  activityID,
		VolunteerID: strings.TrimSpace(volunteerID),
		EnrolledAt:  at,
		Status:      EnrollmentConfirmed,
		Comments:    strings.TrimSpace(comments),
	}
}

// OwnedBy reports whether volunteerID holds the enrollment.
func (e *Enrollment) OwnedBy(volunteerID string) bool {
	return e.VolunteerID == strings.TrimSpace(volunteerID)
}

// Cancel releases the seat. Cancelled is terminal.
func (e *Enrollment) Cancel(at time.Time) error {
	if e.Status == EnrollmentCancelled {
		return ErrAlreadyCancelled
	}
	cancelled := at
	e.Status = EnrollmentCancelled
	e.CancelledAt = &cancelled
	return nil
}

// MarkAttended records that the volunteer showed up, optionally with the hours served.
func (e *Enrollment) MarkAttended(hours *float64, comments string) error {
	if e.Status == EnrollmentCancelled {
		return ErrAlreadyCancelled
	}
	if hours != nil && *hours < 0 {
		return ErrNegativeHours
	}
	e.Status = EnrollmentAttended
	if hours != nil {
		h := *hours
		e.Hours = &h
	}
	if c := strings.TrimSpace(comments); c != "" {
		e.Comments = c
	}
	return nil
}

// Clone returns a copy that shares no pointers with e.
func (e *Enrollment) Clone() *Enrollment {
	if e == nil {
		return nil
	}
	out := *e
	if e.Hours != nil {
		h := *e.Hours
		out.Hours = &h
	}
	if e.CancelledAt != nil {
		c := *e.CancelledAt
		out.CancelledAt = &c
	}
	return &out
}
