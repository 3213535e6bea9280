package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Apurer/rescue-adoption-api/internal/domains/animals/adapters/memory"
	"github.com/Apurer/rescue-adoption-api/internal/domains/animals/application"
	"github.com/Apurer/rescue-adoption-api/internal/domains/animals/application/types"
	"github.com/Apurer/rescue-adoption-api/internal/platform/txn"
	"github.com/Apurer/rescue-adoption-api/internal/shared/failure"
)

func TestService_RecordsTransitionsAndLogsFailures(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	core := application.NewService(memory.NewRepository(), txn.NewLocalRunner(),
		application.WithClock(func() time.Time { return time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC) }))
	svc := New(core, WithLogger(logger), WithMeter(provider.Meter("test")))
	ctx := context.Background()

	animal, err := svc.RegisterAnimal(ctx, types.RegisterAnimalInput{Species: "cat", Name: "Miso"})
	require.NoError(t, err)
	_, err = svc.Transition(ctx, types.TransitionInput{AnimalID: animal.ID, Status: "available", Location: "shelter"})
	require.NoError(t, err)

	_, err = svc.Transition(ctx, types.TransitionInput{AnimalID: animal.ID, Status: "sold", Location: "shelter"})
	require.ErrorIs(t, err, failure.ErrInvalidStatus)
	require.Contains(t, logs.String(), `"error.code":"invalid_status"`)
	require.Contains(t, logs.String(), `"level":"WARN"`)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Equal(t, int64(1), counterTotal(rm, "animals.transitions"))
	require.Equal(t, int64(1), counterTotal(rm, "animals.registered"))
}

func counterTotal(rm metricdata.ResourceMetrics, name string) int64 {
	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
			}
		}
	}
	return total
}
