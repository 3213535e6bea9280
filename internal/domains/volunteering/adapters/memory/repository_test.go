package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/domain"
	"github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/ports"
	"github.com/Apurer/rescue-adoption-api/internal/shared/projection"
)

func day(d int) time.Time {
	return time.Date(2025, 1, d, 0, 0, 0, 0, time.UTC)
}

func TestEnrollmentRepositoryEnforcesOneActiveSeat(t *testing.T) {
	ctx := context.Background()
	repo := NewEnrollmentRepository()

	first := domain.NewEnrollment("enr-1", "act-1", "vol-1", "", day(10))
	require.NoError(t, repo.Create(ctx, first))
	require.ErrorIs(t, repo.Create(ctx, domain.NewEnrollment("enr-2", "act-1", "vol-1", "", day(10))), ports.ErrDuplicateActiveEnrollment)

	require.NoError(t, first.Cancel(day(11)))
	require.NoError(t, repo.Update(ctx, first))
	require.NoError(t, repo.Create(ctx, domain.NewEnrollment("enr-2", "act-1", "vol-1", "", day(11))))

	counts, err := repo.CountActive(ctx, "act-1", "act-2")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"act-1": 1, "act-2": 0}, counts)

	total, err := repo.Count(ctx, ports.EnrollmentFilter{ActivityID: ptr("act-1")})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	status := domain.EnrollmentCancelled
	items, err := repo.List(ctx, ports.EnrollmentFilter{Status: &status}, projection.Window{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "enr-1", items[0].ID)
}

func TestActivityRepositoryListFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	repo := NewActivityRepository()
	for _, a := range []*domain.Activity{
		{ID: "late", Date: day(20), Start: 600},
		{ID: "early", Date: day(12), Start: 540, Urgent: true},
		{ID: "same-day-first", Date: day(12), Start: 480},
		{ID: "past", Date: day(5)},
	} {
		require.NoError(t, repo.Create(ctx, a))
	}

	from, to := day(10), day(15)
	items, err := repo.List(ctx, ports.ActivityFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "same-day-first", items[0].ID)
	assert.Equal(t, "early", items[1].ID)

	urgent := true
	items, err = repo.List(ctx, ports.ActivityFilter{Urgent: &urgent})
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, repo.Delete(ctx, "past"))
	_, err = repo.GetByID(ctx, "past")
	require.ErrorIs(t, err, ports.ErrActivityNotFound)
}

func ptr[T any](v T) *T { return &v }
