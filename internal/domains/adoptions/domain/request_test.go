package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var reviewedAt = time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)

func pendingRequest() *AdoptionRequest {
	return NewRequest("req-1", "animal-1", " adopter-1 ", " home ", HouseholdProfile{HouseholdMembers: 2}, reviewedAt.Add(-time.Hour))
}

func TestNewRequestStartsPending(t *testing.T) {
	r := pendingRequest()

	assert.Equal(t, RequestPendingReview, r.Status)
	assert.Equal(t, "adopter-1", r.AdopterID)
	assert.Equal(t, "home", r.Motivation)
	assert.Nil(t, r.ReviewedAt)
	assert.True(t, r.Status.Active())
}

func TestApproveIsTerminal(t *testing.T) {
	r := pendingRequest()
	require.NoError(t, r.Approve("staff-1", "great fit", reviewedAt))

	assert.Equal(t, RequestApproved, r.Status)
	assert.Equal(t, "staff-1", r.ReviewerID)
	require.NotNil(t, r.ReviewedAt)
	assert.Equal(t, reviewedAt, *r.ReviewedAt)
	assert.True(t, r.Status.Active())

	require.ErrorIs(t, r.Approve("staff-2", "", reviewedAt), ErrNotPending)
	require.ErrorIs(t, r.Reject("staff-2", "changed mind", "", reviewedAt), ErrNotPending)
}

func TestRejectRequiresReason(t *testing.T) {
	r := pendingRequest()
	require.ErrorIs(t, r.Reject("staff-1", "   ", "", reviewedAt), ErrRejectionReason)
	assert.Equal(t, RequestPendingReview, r.Status)

	require.NoError(t, r.Reject("staff-1", "no yard", "follow up in spring", reviewedAt))
	assert.Equal(t, RequestRejected, r.Status)
	assert.Equal(t, "no yard", r.RejectionReason)
	assert.Equal(t, "follow up in spring", r.InternalNotes)
	assert.False(t, r.Status.Active())
}

func TestParseDecision(t *testing.T) {
	d, err := ParseDecision("approved")
	require.NoError(t, err)
	assert.Equal(t, DecisionApproved, d)

	_, err = ParseDecision("Approved")
	require.ErrorIs(t, err, ErrUnknownDecision)
	_, err = ParseDecision("")
	require.ErrorIs(t, err, ErrUnknownDecision)
}

func TestParseRequestStatusUsesStableKeys(t *testing.T) {
	s, err := ParseRequestStatus("pending_review")
	require.NoError(t, err)
	assert.Equal(t, "Pending Review", s.DisplayName())

	_, err = ParseRequestStatus("Pending Review")
	require.ErrorIs(t, err, ErrUnknownRequestStatus)
}

func TestNewAdoption(t *testing.T) {
	r := pendingRequest()
	_, err := NewAdoption("adoption-1", r, "coord-1", reviewedAt, reviewedAt, "", "")
	require.ErrorIs(t, err, ErrNotApproved)

	require.NoError(t, r.Approve("staff-1", "", reviewedAt))

	_, err = NewAdoption("adoption-1", r, "coord-1", time.Time{}, reviewedAt, "", "")
	require.ErrorIs(t, err, ErrMissingFinalized)

	tomorrow := time.Date(2025, 1, 16, 0, 0, 0, 0, time.UTC)
	_, err = NewAdoption("adoption-1", r, "coord-1", tomorrow, reviewedAt, "", "")
	require.ErrorIs(t, err, ErrFinalizedInFuture)

	today := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	a, err := NewAdoption("adoption-1", r, "coord-1", today, reviewedAt, "healthy", "front desk")
	require.NoError(t, err)
	assert.Equal(t, "req-1", a.RequestID)
	assert.Equal(t, "animal-1", a.AnimalID)
	assert.Equal(t, "adopter-1", a.AdopterID)
	assert.Equal(t, "Adoption adoption-1 finalized", a.TrackingComment())
}

func TestCloneCopiesReviewTime(t *testing.T) {
	r := pendingRequest()
	require.NoError(t, r.Approve("staff-1", "", reviewedAt))

	c := r.Clone()
	*c.ReviewedAt = reviewedAt.Add(time.Hour)
	assert.Equal(t, reviewedAt, *r.ReviewedAt)
}
