package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Apurer/rescue-adoption-api/internal/shared/calendar"
)

var (
	ErrFinalizedInFuture = errors.New("finalization date cannot be in the future")
	ErrMissingFinalized  = errors.New("finalization date is required")
)

// Adoption is the immutable record of a completed hand-over.
type Adoption struct {
	ID               string
	RequestID        string
	AnimalID         string
	AdopterID        string
	CoordinatorID    string
	FinalizedOn      time.Time
	Observations     string
	HandoverLocation string
	CreatedAt        time.Time
}

// NewAdoption finalizes an approved request. finalizedOn must not fall on a day after now.
func NewAdoption(id string, request *AdoptionRequest, coordinatorID string, finalizedOn, now time.Time, observations, handover string) (*Adoption, error) {
	if request == nil || request.Status != RequestApproved {
		return nil, ErrNotApproved
	}
	if finalizedOn.IsZero() {
		return nil, ErrMissingFinalized
	}
	if calendar.AfterDay(finalizedOn, now) {
		return nil, ErrFinalizedInFuture
	}
	return &Adoption{
		ID:               id,
		RequestID:        request.ID,
		AnimalID:         request.AnimalID,
		AdopterID:        request.AdopterID,
		CoordinatorID:    strings.TrimSpace(coordinatorID),
		FinalizedOn:      finalizedOn,
		Observations:     strings.TrimSpace(observations),
		HandoverLocation: strings.TrimSpace(handover),
		CreatedAt:        now,
	}, nil
}

// TrackingComment is the audit text recorded when the animal leaves with its adopter.
func (a *Adoption) TrackingComment() string {
	return fmt.Sprintf("Adoption %s finalized", a.ID)
}
