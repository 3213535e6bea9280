package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/adapters/memory"
	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/application"
	"github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/application/types"
	animalmemory "github.com/Apurer/rescue-adoption-api/internal/domains/animals/adapters/memory"
	animalapp "github.com/Apurer/rescue-adoption-api/internal/domains/animals/application"
	"github.com/Apurer/rescue-adoption-api/internal/platform/txn"
	"github.com/Apurer/rescue-adoption-api/internal/shared/failure"
)

func TestService_RecordsOutcomesByCode(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	runner := txn.NewLocalRunner()
	animals := animalapp.NewService(animalmemory.NewRepository(), runner)
	core := application.NewService(memory.NewRequestRepository(), memory.NewAdoptionRepository(), animals, runner)
	svc := New(core, WithLogger(logger), WithMeter(provider.Meter("test")))
	ctx := context.Background()

	_, err := svc.SubmitRequest(ctx, types.SubmitRequestInput{AnimalID: "missing", AdopterID: "adopter-1", Motivation: "home"})
	require.ErrorIs(t, err, failure.ErrNotFound)
	_, err = svc.FinalizeAdoption(ctx, types.FinalizeAdoptionInput{RequestID: "missing"})
	require.ErrorIs(t, err, failure.ErrNotFound)

	assert.Contains(t, logs.String(), `"level":"WARN"`)
	assert.Contains(t, logs.String(), `"error.code":"not_found"`)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	points := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "adoptions.operations" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				op, _ := dp.Attributes.Value("operation")
				outcome, _ := dp.Attributes.Value("outcome")
				points[op.AsString()+"/"+outcome.AsString()] += dp.Value
			}
		}
	}
	assert.Equal(t, int64(1), points["submit/not_found"])
	assert.Equal(t, int64(1), points["finalize/not_found"])
}
