package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/adapters/memory"
	"github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/application"
	"github.com/Apurer/rescue-adoption-api/internal/domains/volunteering/application/types"
	"github.com/Apurer/rescue-adoption-api/internal/platform/txn"
	"github.com/Apurer/rescue-adoption-api/internal/shared/failure"
)

func TestService_CountsEnrollmentsAndRefusals(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	now := func() time.Time { return time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC) }
	core := application.NewService(memory.NewActivityRepository(), memory.NewEnrollmentRepository(), txn.NewLocalRunner(), application.WithClock(now))
	svc := New(core, WithLogger(logger), WithMeter(provider.Meter("test")))
	ctx := context.Background()

	activity, err := svc.CreateActivity(ctx, types.CreateActivityInput{
		Title: "Dog walking", Date: "2025-01-20", StartTime: "09:00", EndTime: "10:00",
		Place: "Park", RequiredVolunteers: 1, CoordinatorID: "coord-1",
	})
	require.NoError(t, err)
	_, err = svc.Enroll(ctx, types.EnrollInput{ActivityID: activity.Activity.ID, VolunteerID: "vol-1"})
	require.NoError(t, err)
	_, err = svc.Enroll(ctx, types.EnrollInput{ActivityID: activity.Activity.ID, VolunteerID: "vol-2"})
	require.ErrorIs(t, err, failure.ErrNoSeats)

	assert.Contains(t, logs.String(), `"msg":"volunteer enrolled"`)
	assert.Contains(t, logs.String(), `"error.code":"no_seats"`)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	totals := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				totals[m.Name] += dp.Value
			}
		}
	}
	assert.Equal(t, int64(1), totals["volunteering.enrollments.created"])
	assert.Equal(t, int64(1), totals["volunteering.enrollments.rejected"])
}
