package mapper

import (
	"time"

	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/application/types"
	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/domain"
	"github.com/Apurer/rescue-adoption-api/internal/shared/calendar"
	"github.com/Apurer/rescue-adoption-api/internal/shared/projection"
)

// Household is the HTTP shape of the adopter's household profile.
type Household struct {
	HousingType       string `json:"housing_type,omitempty"`
	HasYard           bool   `json:"has_yard"`
	HouseholdMembers  int    `json:"household_members"`
	OtherPets         int    `json:"other_pets"`
	Experience        string `json:"experience,omitempty"`
	AvailabilityNotes string `json:"availability_notes,omitempty"`
}

// AdoptionRequest is the HTTP representation of a request.
type AdoptionRequest struct {
	ID              string     `json:"id"`
	AnimalID        string     `json:"animal_id"`
	AdopterID       string     `json:"adopter_id"`
	SubmittedAt     time.Time  `json:"submitted_at"`
	Status          string     `json:"status"`
	StatusName      string     `json:"status_name"`
	Motivation      string     `json:"motivation"`
	Household       Household  `json:"household"`
	ReviewerID      string     `json:"reviewer_id,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	ApprovalComment string     `json:"approval_comment,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	InternalNotes   string     `json:"internal_notes,omitempty"`
}

// Adoption is the HTTP representation of a finalized adoption.
type Adoption struct {
	ID               string    `json:"id"`
	RequestID        string    `json:"request_id"`
	AnimalID         string    `json:"animal_id"`
	AdopterID        string    `json:"adopter_id"`
	CoordinatorID    string    `json:"coordinator_id"`
	FinalizedOn      string    `json:"finalized_on"`
	Observations     string    `json:"observations,omitempty"`
	HandoverLocation string    `json:"handover_location,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// RequestPage is a listing window.
type RequestPage struct {
	Items  []AdoptionRequest `json:"items"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

// FinalizeRequest is the inbound payload of a finalization.
type FinalizeRequest struct {
	FinalizedOn      string `json:"finalized_on"`
	Observations     string `json:"observations"`
	HandoverLocation string `json:"handover_location"`
}

// ToFinalizeInput builds the application input for a finalization.
func ToFinalizeInput(requestID, coordinatorID string, req FinalizeRequest) types.FinalizeAdoptionInput {
	return types.FinalizeAdoptionInput{
		RequestID:        requestID,
		CoordinatorID:    coordinatorID,
		FinalizedOn:      req.FinalizedOn,
		Observations:     req.Observations,
		HandoverLocation: req.HandoverLocation,
	}
}

// FromRequest maps the aggregate into its transport shape.
func FromRequest(r *domain.AdoptionRequest) AdoptionRequest {
	if r == nil {
		return AdoptionRequest{}
	}
	return AdoptionRequest{
		ID:          r.ID,
		AnimalID:    r.AnimalID,
		AdopterID:   r.AdopterID,
		SubmittedAt: r.SubmittedAt,
		Status:      string(r.Status),
		StatusName:  r.Status.DisplayName(),
		Motivation:  r.Motivation,
		Household: Household{
			HousingType:       r.Household.HousingType,
			HasYard:           r.Household.HasYard,
			HouseholdMembers:  r.Household.HouseholdMembers,
			OtherPets:         r.Household.OtherPets,
			Experience:        r.Household.Experience,
			AvailabilityNotes: r.Household.AvailabilityNotes,
		},
		ReviewerID:      r.ReviewerID,
		ReviewedAt:      r.ReviewedAt,
		ApprovalComment: r.ApprovalComment,
		RejectionReason: r.RejectionReason,
		InternalNotes:   r.InternalNotes,
	}
}

// FromRequestPage maps a listing window.
func FromRequestPage(page projection.Page[*domain.AdoptionRequest]) RequestPage {
	items := make([]AdoptionRequest, 0, len(page.Items))
	for _, r := range page.Items {
		items = append(items, FromRequest(r))
	}
	return RequestPage{Items: items, Total: page.Total, Limit: page.Limit, Offset: page.Offset}
}

// FromAdoption maps a finalized adoption.
func FromAdoption(a *domain.Adoption) Adoption {
	if a == nil {
		return Adoption{}
	}
	return Adoption{
		ID:               a.ID,
		RequestID:        a.RequestID,
		AnimalID:         a.AnimalID,
		AdopterID:        a.AdopterID,
		CoordinatorID:    a.CoordinatorID,
		FinalizedOn:      a.FinalizedOn.Format(calendar.DateLayout),
		Observations:     a.Observations,
		HandoverLocation: a.HandoverLocation,
		CreatedAt:        a.CreatedAt,
	}
}
