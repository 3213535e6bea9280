package types

import "github.com/Apurer/rescue-adoption-api/internal/shared/projection"

// SubmitRequestInput is an adopter's application for an animal.
type SubmitRequestInput struct {
	AnimalID          string `json:"animal_id"`
	AdopterID         string `json:"-"`
	Motivation        string `json:"motivation" validate:"notblank"`
	HousingType       string `json:"housing_type" validate:"max=60"`
	HasYard           bool   `json:"has_yard"`
	HouseholdMembers  int    `json:"household_members" validate:"gte=0"`
	OtherPets         int    `json:"other_pets" validate:"gte=0"`
	Experience        string `json:"experience"`
	AvailabilityNotes string `json:"availability_notes"`
	IdempotencyKey    string `json:"-"`
}

// EvaluateRequestInput carries a reviewer's decision on a pending request.
type EvaluateRequestInput struct {
	RequestID       string `json:"-"`
	ReviewerID      string `json:"-"`
	Decision        string `json:"decision"`
	ApprovalComment string `json:"approval_comment"`
	RejectionReason string `json:"rejection_reason"`
	InternalNotes   string `json:"internal_notes"`
}

// FinalizeAdoptionInput converts an approved request into an adoption.
type FinalizeAdoptionInput struct {
	RequestID        string `json:"request_id"`
	CoordinatorID    string `json:"coordinator_id"`
	FinalizedOn      string `json:"finalized_on"`
	Observations     string `json:"observations"`
	HandoverLocation string `json:"handover_location"`
}

// ListRequestsInput filters request listings.
type ListRequestsInput struct {
	AnimalID  string
	AdopterID string
	Status    string
	projection.Window
}
