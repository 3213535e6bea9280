// Package worker runs the Temporal worker that executes adoption finalization workflows.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/rescue-adoption-api/internal/app/api"
	platformobservability "github.com/Apurer/rescue-adoption-api/internal/platform/observability"
	adoptionactivities "github.com/Apurer/rescue-adoption-api/internal/platform/temporal/activities/adoptions"
	adoptionworkflows "github.com/Apurer/rescue-adoption-api/internal/platform/temporal/workflows/adoptions"
)

const serviceName = "rescue-adoption-worker"

// Run polls the finalization task queue until ctx is cancelled. The worker shares the
// API's storage configuration so both processes see the same units of work.
func Run(ctx context.Context) error {
	cfg, err := api.LoadConfig()
	if err != nil {
		return err
	}
	settings, err := platformobservability.SettingsFromEnv(serviceName)
	if err != nil {
		return err
	}
	instruments, shutdown, err := platformobservability.Init(ctx, settings)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	services, cleanup, err := api.BuildServices(ctx, cfg, instruments)
	if err != nil {
		return fmt.Errorf("failed to build services: %w", err)
	}
	defer cleanup()
	if cfg.PostgresDSN == "" {
		logger.Warn("worker running on in-memory storage; finalizations will not be visible to the API")
	}

	temporalClient, err := api.DialTemporal(cfg, instruments, "temporal-worker")
	if err != nil {
		return fmt.Errorf("failed to create Temporal client: %w", err)
	}
	defer temporalClient.Close()

	activities := adoptionactivities.NewActivities(services.Adoptions)
	w := worker.New(temporalClient, adoptionworkflows.FinalizationTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(adoptionworkflows.FinalizationWorkflow, workflow.RegisterOptions{Name: adoptionworkflows.FinalizationWorkflowName})
	w.RegisterActivityWithOptions(activities.FinalizeAdoption, activity.RegisterOptions{Name: adoptionactivities.FinalizeAdoptionActivityName})

	stop := make(chan interface{})
	go func() {
		<-ctx.Done()
		close(stop)
	}()
	logger.Info("worker listening", slog.String("taskQueue", adoptionworkflows.FinalizationTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(stop); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Temporal worker stopped")
	return nil
}
