package mapper

import (
	"time"

	"github.com/Apurer/rescue-adoption-api/internal/domains/animals/application/types"
	"github.com/Apurer/rescue-adoption-api/internal/domains/animals/domain"
	"github.com/Apurer/rescue-adoption-api/internal/shared/calendar"
	"github.com/Apurer/rescue-adoption-api/internal/shared/projection"
)

// Enum is a stable key paired with its display label.
type Enum struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Animal is the HTTP representation of an animal.
type Animal struct {
	ID                   string    `json:"id"`
	Species              Enum      `json:"species"`
	Name                 string    `json:"name"`
	Breed                string    `json:"breed,omitempty"`
	Sex                  string    `json:"sex,omitempty"`
	Size                 string    `json:"size,omitempty"`
	Color                string    `json:"color,omitempty"`
	AgeEstimate          string    `json:"age_estimate,omitempty"`
	RescueDate           string    `json:"rescue_date,omitempty"`
	RescuePlace          string    `json:"rescue_place,omitempty"`
	RescueCondition      string    `json:"rescue_condition,omitempty"`
	History              string    `json:"history,omitempty"`
	Personality          string    `json:"personality,omitempty"`
	Compatibility        string    `json:"compatibility,omitempty"`
	AdoptionRequirements string    `json:"adoption_requirements,omitempty"`
	PhotoURLs            []string  `json:"photo_urls"`
	Status               Enum      `json:"status"`
	Location             Enum      `json:"location"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// TrackingEntry is the HTTP representation of one audit record.
type TrackingEntry struct {
	ID               string    `json:"id"`
	PreviousStatus   string    `json:"previous_status"`
	NewStatus        string    `json:"new_status"`
	PreviousLocation string    `json:"previous_location"`
	NewLocation      string    `json:"new_location"`
	ActorID          string    `json:"actor_id"`
	Comment          string    `json:"comment"`
	RecordedAt       time.Time `json:"recorded_at"`
}

// TransitionRequest is the inbound payload of a transition.
type TransitionRequest struct {
	Status   string `json:"status"`
	Location string `json:"location"`
	Comment  string `json:"comment"`
}

// AnimalPage is a listing window.
type AnimalPage struct {
	Items  []Animal `json:"items"`
	Total  int      `json:"total"`
	Limit  int      `json:"limit"`
	Offset int      `json:"offset"`
}

// ToTransitionInput builds the application input for a transition.
func ToTransitionInput(animalID, actorID string, req TransitionRequest) types.TransitionInput {
	return types.TransitionInput{
		AnimalID: animalID,
		Status:   req.Status,
		Location: req.Location,
		ActorID:  actorID,
		Comment:  req.Comment,
	}
}

// FromAnimal maps the aggregate into its transport shape.
func FromAnimal(a *domain.Animal) Animal {
	if a == nil {
		return Animal{}
	}
	out := Animal{
		ID:                   a.ID,
		Species:              Enum{Key: string(a.Species), Name: a.Species.DisplayName()},
		Name:                 a.Name,
		Breed:                a.Breed,
		Sex:                  a.Sex,
		Size:                 a.Size,
		Color:                a.Color,
		AgeEstimate:          a.AgeEstimate,
		RescuePlace:          a.RescuePlace,
		RescueCondition:      a.RescueCondition,
		History:              a.History,
		Personality:          a.Personality,
		Compatibility:        a.Compatibility,
		AdoptionRequirements: a.AdoptionRequirements,
		PhotoURLs:            append([]string{}, a.PhotoURLs...),
		Status:               Enum{Key: string(a.Status), Name: a.Status.DisplayName()},
		Location:             Enum{Key: string(a.Location), Name: a.Location.DisplayName()},
		CreatedAt:            a.CreatedAt,
		UpdatedAt:            a.UpdatedAt,
	}
	if a.RescueDate != nil {
		out.RescueDate = a.RescueDate.Format(calendar.DateLayout)
	}
	return out
}

// FromPage maps a listing window.
func FromPage(page projection.Page[*domain.Animal]) AnimalPage {
	items := make([]Animal, 0, len(page.Items))
	for _, a := range page.Items {
		items = append(items, FromAnimal(a))
	}
	return AnimalPage{Items: items, Total: page.Total, Limit: page.Limit, Offset: page.Offset}
}

// FromTracking maps the audit log.
func FromTracking(entries []domain.TrackingEntry) []TrackingEntry {
	out := make([]TrackingEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, FromTrackingEntry(e))
	}
	return out
}

// FromTrackingEntry maps one audit record.
func FromTrackingEntry(e domain.TrackingEntry) TrackingEntry {
	return TrackingEntry{
		ID:               e.ID,
		PreviousStatus:   string(e.PreviousStatus),
		NewStatus:        string(e.NewStatus),
		PreviousLocation: string(e.PreviousLocation),
		NewLocation:      string(e.NewLocation),
		ActorID:          e.ActorID,
		Comment:          e.Comment,
		RecordedAt:       e.RecordedAt,
	}
}
