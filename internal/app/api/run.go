package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	rescueserver "github.com/Apurer/rescue-adoption-api/go"
	adoptionworkflows "github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/adapters/workflows"
	adoptionports "github.com/Apurer/rescue-adoption-api/internal/domains/adoptions/ports"
	"github.com/Apurer/rescue-adoption-api/internal/platform/metrics"
	platformobservability "github.com/Apurer/rescue-adoption-api/internal/platform/observability"
)

const serviceName = "rescue-adoption-api"

// Run boots the HTTP API with observability, repositories, and workflows wired, and
// serves until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := LoadConfig()
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

	services, cleanup, err := BuildServices(ctx, cfg, instruments)
	if err != nil {
		return fmt.Errorf("failed to build services: %w", err)
	}
	defer cleanup()

	var finalization adoptionports.FinalizationOrchestrator = adoptionworkflows.NewInlineFinalization(services.Adoptions)
	if temporalClient, err := DialTemporal(cfg, instruments, "temporal-client"); err != nil {
		logger.Warn("Temporal workflows unavailable, finalizing adoptions inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		finalization = adoptionworkflows.NewTemporalFinalization(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	registry := metrics.NewRegistry()
	outcomes := metrics.NewWorkflows(registry)
	router := rescueserver.NewRouter(rescueserver.ApiHandleFunctions{
		AnimalAPI:       rescueserver.NewAnimalAPI(services.Animals),
		AdoptionAPI:     rescueserver.NewAdoptionAPI(services.Adoptions, finalization, outcomes),
		VolunteeringAPI: rescueserver.NewVolunteeringAPI(services.Volunteering, outcomes),
	}, rescueserver.RouterOptions{
		Actors:  rescueserver.NewActorResolver(cfg.ActorJWTSecret),
		Metrics: metrics.Handler(registry),
		Middleware: []gin.HandlerFunc{
			otelgin.Middleware(serviceName),
			metrics.NewHTTP(registry).Middleware(),
		},
	})
	if cfg.ActorJWTSecret == "" {
		logger.Warn("ACTOR_JWT_SECRET not set, trusting the " + rescueserver.ActorHeader + " header")
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("rescue adoption API listening", slog.String("addr", server.Addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("rescue adoption API server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down rescue adoption API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
