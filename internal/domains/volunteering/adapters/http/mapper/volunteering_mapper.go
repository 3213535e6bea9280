package mapper

import (
	"time"

	"github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/application/types"
	"github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/domain"
	"github.com/Apurer/rescue-adoption-api/internal/shared/calendar"
	"github.com/Apurer/rescue-adoption-api/internal/shared/projection"
)

// Activity is the HTTP representation of a volunteer activity with its live seats.
type Activity struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Description        string    `json:"description,omitempty"`
	Date               string    `json:"date"`
	StartTime          string    `json:"start_time"`
	EndTime            string    `json:"end_time"`
	Place              string    `json:"place"`
	RequiredVolunteers int       `json:"required_volunteers"`
	ActiveEnrollments  int       `json:"active_enrollments"`
	AvailableSeats     int       `json:"available_seats"`
	Requirements       string    `json:"requirements,omitempty"`
	Benefits           string    `json:"benefits,omitempty"`
	Urgent             bool      `json:"urgent"`
	CoordinatorID      string    `json:"coordinator_id"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type Enrollment struct {
	ID          string     `json:"id"`
	ActivityID  string     `json:"activity_id"`
	VolunteerID string     `json:"volunteer_id"`
	EnrolledAt  time.Time  `json:"enrolled_at"`
	Status      string     `json:"status"`
	StatusName  string     `json:"status_name"`
	Hours       *float64   `json:"hours,omitempty"`
	Comments    string     `json:"comments,omitempty"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

type ActivityPage struct {
	Items  []Activity `json:"items"`
	Total  int        `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}

type EnrollmentPage struct {
	Items  []Enrollment `json:"items"`
	Total  int          `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// Seats answers the available-seats query.
type Seats struct {
	ActivityID     string `json:"activity_id"`
	AvailableSeats int    `json:"available_seats"`
}

func FromActivity(v *types.ActivityView) Activity {
	if v == nil || v.Activity == nil {
		return Activity{}
	}
	a := v.Activity
	return Activity{
		ID:                 a.ID,
		Title:              a.Title,
		Description:        a.Description,
		Date:               a.Date.Format(calendar.DateLayout),
		StartTime:          a.Start.String(),
		EndTime:            a.End.String(),
		Place:              a.Place,
		RequiredVolunteers: a.RequiredVolunteers,
		ActiveEnrollments:  v.ActiveEnrollments,
		AvailableSeats:     v.AvailableSeats,
		Requirements:       a.Requirements,
		Benefits:           a.Benefits,
		Urgent:             a.Urgent,
		CoordinatorID:      a.CoordinatorID,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

func FromActivityPage(page projection.Page[*types.ActivityView]) ActivityPage {
	items := make([]Activity, 0, len(page.Items))
	for _, v := range page.Items {
		items = append(items, FromActivity(v))
	}
	return ActivityPage{Items: items, Total: page.Total, Limit: page.Limit, Offset: page.Offset}
}

func FromEnrollment(e *domain.Enrollment) Enrollment {
	if e == nil {
		return Enrollment{}
	}
	return Enrollment{
		ID:          e.ID,
		ActivityID:  e.ActivityID,
		VolunteerID: e.VolunteerID,
		EnrolledAt:  e.EnrolledAt,
		Status:      string(e.Status),
		StatusName:  e.Status.DisplayName(),
		Hours:       e.Hours,
		Comments:    e.Comments,
		CancelledAt: e.CancelledAt,
	}
}

func FromEnrollmentPage(page projection.Page[*domain.Enrollment]) EnrollmentPage {
	items := make([]Enrollment, 0, len(page.Items))
	for _, e := range page.Items {
		items = append(items, FromEnrollment(e))
	}
	return EnrollmentPage{Items: items, Total: page.Total, Limit: page.Limit, Offset: page.Offset}
}
