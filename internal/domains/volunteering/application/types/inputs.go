package types

import (
	"time"

	"github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/domain"
	"github.com/Apurer/rescue-adoption-api/internal/shared/projection"
)

// CreateActivityInput schedules a new volunteer activity.
type CreateActivityInput struct {
	Title              string `json:"title" validate:"notblank,max=120"`
	Description        string `json:"description"`
	Date               string `json:"date" validate:"notblank"`
	StartTime          string `json:"start_time" validate:"notblank,hhmm"`
	EndTime            string `json:"end_time" validate:"notblank,hhmm"`
	Place              string `json:"place" validate:"notblank"`
	RequiredVolunteers int    `json:"required_volunteers" validate:"gte=1"`
	Requirements       string `json:"requirements"`
	Benefits           string `json:"benefits"`
	Urgent             bool   `json:"urgent"`
	CoordinatorID      string `json:"-"`
}

// UpdateActivityInput changes the fields that are present.
type UpdateActivityInput struct {
	ActivityID         string  `json:"-"`
	Title              *string `json:"title" validate:"omitnil,notblank,max=120"`
	Description        *string `json:"description"`
	Date               *string `json:"date" validate:"omitnil,notblank"`
	StartTime          *string `json:"start_time" validate:"omitnil,notblank,hhmm"`
	EndTime            *string `json:"end_time" validate:"omitnil,notblank,hhmm"`
	Place              *string `json:"place" validate:"omitnil,notblank"`
	RequiredVolunteers *int    `json:"required_volunteers" validate:"omitnil,gte=1"`
	Requirements       *string `json:"requirements"`
	Benefits           *string `json:"benefits"`
	Urgent             *bool   `json:"urgent"`
}

// ListAvailableInput filters the open activities. Dates are calendar days.
type ListAvailableInput struct {
	From   *time.Time
	To     *time.Time
	Urgent *bool
	projection.Window
}

// EnrollInput takes a seat for the volunteer.
type EnrollInput struct {
	ActivityID  string `json:"-"`
	VolunteerID string `json:"-"`
	Comments    string `json:"comments"`
}

// CancelInput releases the volunteer's own seat.
type CancelInput struct {
	EnrollmentID string `json:"-"`
	VolunteerID  string `json:"-"`
}

// AttendanceInput records that a volunteer attended.
type AttendanceInput struct {
	EnrollmentID string   `json:"-"`
	Hours        *float64 `json:"hours" validate:"omitnil,gte=0"`
	Comments     string   `json:"comments"`
}

type ListEnrollmentsInput struct {
	ActivityID  string
	VolunteerID string
	Status      string
	projection.Window
}

// ActivityView pairs an activity with its live seat accounting.
type ActivityView struct {
	Activity          *domain.Activity
	ActiveEnrollments int
	AvailableSeats    int
}

// NewActivityView derives the seats of a from its active enrollment count.
func NewActivityView(a *domain.Activity, active int) *ActivityView {
	return &ActivityView{Activity: a, ActiveEnrollments: active, AvailableSeats: a.AvailableSeats(active)}
}
