package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mashirou1234/yesod-auth/config"
	httpHandler "github.com/mashirou1234/yesod-auth/internal/adapter/http/handler"
	pgStorage "github.com/mashirou1234/yesod-auth/internal/adapter/storage/postgres"
	redisStorage "github.com/mashirou1234/yesod-auth/internal/adapter/storage/redis"
	"github.com/mashirou1234/yesod-auth/internal/adapter/watcher"
	"github.com/mashirou1234/yesod-auth/internal/core/ports"
	"github.com/mashirou1234/yesod-auth/internal/observability"
	"github.com/mashirou1234/yesod-auth/internal/service"
	"github.com/mashirou1234/yesod-auth/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 10 * time.Second
	openAPIPath     = "docs/api/openapi.yaml"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the admin API, the delivery worker, the config watcher and the retention job",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(parent context.Context, cfg *config.Config) error {
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)
	gin.SetMode(cfg.Server.Mode)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting webhook service")

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to PostgreSQL")
		return err
	}
	defer pool.Close()

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, cfg.Webhooks.PopTimeout, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to connect to Redis")
		return err
	}
	defer rdb.Close()

	deliveryRepo := pgStorage.NewDeliveryRepo(pool)
	queue := redisStorage.NewEventQueue(rdb, cfg.Webhooks.QueueKey)

	webhookConfig := service.NewWebhookConfigLoader(cfg.Webhooks.ConfigPath, cfg.Webhooks.SecretsDir, log)
	if _, err := webhookConfig.Load(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to load webhook configuration")
		return err
	}

	tracer := observability.NoopTracer()
	var tracerProvider *sdktrace.TracerProvider
	if cfg.Tracing.Enabled {
		tracerProvider, err = observability.NewProvider(ctx, observability.ProviderConfig{
			ServiceName: cfg.Tracing.ServiceName,
			Endpoint:    cfg.Tracing.Endpoint,
			Insecure:    cfg.Tracing.Insecure,
		})
		if err != nil {
			log.Error().Err(err).Msg("Failed to initialize tracing")
			return err
		}
		otel.SetTracerProvider(tracerProvider)
		tracer = observability.NewTracerWithProvider(tracerProvider)
		log.Info().
			Str("service_name", cfg.Tracing.ServiceName).
			Str("endpoint", cfg.Tracing.Endpoint).
			Msg("Delivery attempt tracing enabled")
	}

	worker := service.NewWebhookWorker(
		queue,
		webhookConfig,
		service.NewHMACWebhookSigner(),
		deliveryRepo,
		service.NewDeliveryHTTPClient(nil),
		tracer,
		service.WorkerOptions{
			PopTimeout:          cfg.Webhooks.PopTimeout,
			ErrorBackoff:        cfg.Webhooks.ErrorBackoff,
			EndpointConcurrency: cfg.Webhooks.EndpointConcurrency,
		},
		log,
	)
	if err := worker.Start(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to start webhook worker")
		return err
	}

	retention, err := service.NewRetentionService(webhookConfig, deliveryRepo, cfg.Webhooks.RetentionSchedule, log)
	if err != nil {
		return err
	}
	if err := retention.Start(); err != nil {
		return err
	}

	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	adminSvc := service.NewWebhookAdminService(webhookConfig, deliveryRepo, queue, log)

	specBytes, err := os.ReadFile(openAPIPath)
	if err != nil {
		log.Warn().Err(err).Msg("OpenAPI spec not found, Swagger UI will be unavailable")
		specBytes = nil
	}

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AdminSvc:       adminSvc,
		TokenSvc:       tokenSvc,
		RateLimitStore: redisStorage.NewRateLimitStore(rdb),
		HealthCheckers: []ports.HealthChecker{pgStorage.NewHealthCheck(pool), redisStorage.NewHealthCheck(rdb)},
		OpenAPISpec:    specBytes,
		Logger:         log,
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.Webhooks.Watch {
		cw, err := watcher.NewConfigWatcher(cfg.Webhooks.ConfigPath, cfg.Webhooks.SecretsDir, cfg.Webhooks.WatchDebounce, webhookConfig, log)
		if err != nil {
			log.Warn().Err(err).Msg("Config watcher unavailable, use the reload endpoint instead")
		} else {
			g.Go(func() error { return cw.Run(gctx) })
		}
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server forced to shutdown")
		}
		if err := worker.Stop(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Webhook worker did not stop in time")
		}
		if err := retention.Stop(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Retention job did not stop in time")
		}
		if tracerProvider != nil {
			if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Failed to flush traces")
			}
		}
		return nil
	})

	err = g.Wait()
	log.Info().Msg("Server exited")
	return err
}
