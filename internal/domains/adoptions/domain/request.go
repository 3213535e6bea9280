package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// RequestStatus is the review state of an adoption request.
type RequestStatus string

const (
	RequestPendingReview RequestStatus = "pending_review"
	RequestApproved      RequestStatus = "approved"
	RequestRejected      RequestStatus = "rejected"
)

// Decision is the outcome a reviewer picks for a pending request.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

var (
	ErrUnknownRequestStatus = errors.New("status is not a known request status")
	ErrUnknownDecision      = errors.New("decision must be approved or rejected")
	ErrNotPending           = errors.New("adoption request is no longer pending review")
	ErrNotApproved          = errors.New("adoption request is not approved")
	ErrRejectionReason      = errors.New("a rejection reason is required")
)

var requestStatusNames = map[RequestStatus]string{
	RequestPendingReview: "Pending Review",
	RequestApproved:      "Approved",
	RequestRejected:      "Rejected",
}

// ParseRequestStatus accepts only stable request status keys.
func ParseRequestStatus(value string) (RequestStatus, error) {
	s := RequestStatus(strings.TrimSpace(value))
	if _, ok := requestStatusNames[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRequestStatus, value)
	}
	return s, nil
}

// DisplayName is the human label of the status.
func (s RequestStatus) DisplayName() string {
	if name, ok := requestStatusNames[s]; ok {
		return name
	}
	return string(s)
}

// Active reports whether the status still blocks another request for the same animal and adopter.
func (s RequestStatus) Active() bool {
	return s == RequestPendingReview || s == RequestApproved
}

// ParseDecision accepts only approved or rejected.
func ParseDecision(value string) (Decision, error) {
	switch d := Decision(strings.TrimSpace(value)); d {
	case DecisionApproved, DecisionRejected:
		return d, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownDecision, value)
	}
}

// HouseholdProfile describes where and with whom the animal would live.
type HouseholdProfile struct {
	HousingType       string
	HasYard           bool
	HouseholdMembers  int
	OtherPets         int
	Experience        string
	AvailabilityNotes string
}

// AdoptionRequest is an adopter's application for one animal.
type AdoptionRequest struct {
	ID              string
	AnimalID        string
	AdopterID       string
	SubmittedAt     time.Time
	Status          RequestStatus
	Motivation      string
	Household       HouseholdProfile
	ReviewerID      string
	ReviewedAt      *time.Time
	ApprovalComment string
	RejectionReason string
	InternalNotes   string
	UpdatedAt       time.Time
}

// NewRequest opens a request in pending review.
func NewRequest(id, animalID, adopterID, motivation string, household HouseholdProfile, at time.Time) *AdoptionRequest {
	return &AdoptionRequest{
		ID:          id,
		AnimalID:    animalID,
		AdopterID:   strings.TrimSpace(adopterID),
		SubmittedAt: at,
		Status:      RequestPendingReview,
		Motivation:  strings.TrimSpace(motivation),
		Household:   household,
		UpdatedAt:   at,
	}
}

// Approve closes a pending request as approved.
func (r *AdoptionRequest) Approve(reviewerID, comment string, at time.Time) error {
	if r.Status != RequestPendingReview {
		return ErrNotPending
	}
	r.Status = RequestApproved
	r.ReviewerID = strings.TrimSpace(reviewerID)
	r.ApprovalComment = strings.TrimSpace(comment)
	r.markReviewed(at)
	return nil
}

// Reject closes a pending request as rejected. A reason is mandatory.
func (r *AdoptionRequest) Reject(reviewerID, reason, notes string, at time.Time) error {
	if r.Status != RequestPendingReview {
		return ErrNotPending
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrRejectionReason
	}
	r.Status = RequestRejected
	r.ReviewerID = strings.TrimSpace(reviewerID)
	r.RejectionReason = reason
	r.InternalNotes = strings.TrimSpace(notes)
	r.markReviewed(at)
	return nil
}

func (r *AdoptionRequest) markReviewed(at time.Time) {
	reviewed := at
	r.ReviewedAt = &reviewed
	r.UpdatedAt = at
}

// Clone returns a copy that shares no pointers with r.
func (r *AdoptionRequest) Clone() *AdoptionRequest {
	if r == nil {
		return nil
	}
	out := *r
	if r.ReviewedAt != nil {
		reviewed := *r.ReviewedAt
		out.ReviewedAt = &reviewed
	}
	return &out
}
