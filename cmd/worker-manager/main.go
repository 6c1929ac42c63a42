// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"estate-workers/internal/api"
	"estate-workers/internal/common/camunda"
	"estate-workers/internal/common/config"
	"estate-workers/internal/common/database"
	"estate-workers/internal/common/logger"
	"estate-workers/internal/common/observability"
	"estate-workers/internal/dispatch"
	"estate-workers/internal/scheduler"
	"estate-workers/internal/search"
	"estate-workers/internal/service"
	"estate-workers/internal/store"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(operationName+" failed, retrying", map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// loadConfig reads path when given, otherwise the environment's configs/ files.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func main() {
	configPath := flag.String("config", "", "Path to a config file (default: configs/config.yaml for the environment)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	os.Exit(exitCode(zapLog, run(cfg, logger.NewZapAdapter(zapLog))))
}

// exitCode logs a run error and flushes the logger before the process exits.
func exitCode(zapLog *zap.Logger, runErr error) int {
	code := 0
	if runErr != nil {
		zapLog.Error("worker manager stopped with error", zap.Error(runErr))
		code = 1
	}
	_ = zapLog.Sync()
	return code
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx := context.Background()
	log.Info("starting worker manager", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	obs := observability.New(observability.Config{
		ServiceName:    cfg.Observability.ServiceName,
		JaegerEndpoint: cfg.Observability.JaegerEndpoint,
		SampleRatio:    cfg.Observability.SampleRatio,
	}, log)

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err := retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, log, "PostgreSQL connection")
	if err != nil {
		return err
	}
	if err := pg.Migrate(ctx); err != nil {
		return err
	}
	log.Info("PostgreSQL connected", nil)

	// --- Elasticsearch ---
	var es *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		es, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return es.Ping(ctx)
	}, 15, 2*time.Second, log, "Elasticsearch connection")
	if err != nil {
		return err
	}
	index := search.NewProjectIndex(es.Client, cfg.Database.Elasticsearch.ProjectIndex)
	if err := es.EnsureIndex(ctx, index.Name(), search.ProjectMapping); err != nil {
		return err
	}
	log.Info("Elasticsearch connected", map[string]interface{}{"index": index.Name()})

	// --- Redis ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, log, "Redis connection")
	if err != nil {
		return err
	}
	log.Info("Redis connected", nil)

	// --- Zeebe ---
	zeebe, err := camunda.NewClientWithConfig(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
	})
	if err != nil {
		return err
	}
	log.Info("Zeebe client connected", map[string]interface{}{"gateway": cfg.Camunda.BrokerAddress})

	// --- Domain services ---
	notifications := store.NewNotificationStore(pg.DB)
	projects := store.NewProjectStore(pg.DB)

	channels := newChannels(ctx, cfg, log)
	dispatcher := dispatch.New(dispatch.Options{
		Directory:     store.NewRecipientStore(pg.DB),
		Records:       notifications,
		Push:          channels.push,
		Email:         channels.email,
		SMS:           channels.sms,
		Logger:        log,
		Observability: obs,
	})
	notificationService := service.NewNotificationService(notifications, dispatcher, log)
	projectService := service.NewProjectService(projects, index, log)
	propertyService := service.NewPropertyService(store.NewPropertyStore(pg.DB), store.NewInAppNotificationStore(pg.DB), log)
	userService := service.NewUserService(store.NewUserStore(pg.DB), log)
	artItemService := service.NewArtItemService(store.NewArtItemStore(pg.DB), log)

	registry := camunda.NewJobWorkerRegistry(zeebe.GetClient(), log).WithRecorder(obs)
	registerWorkers(registry, cfg, workerDeps{
		notifications:       notifications,
		notificationService: notificationService,
		projectService:      projectService,
		propertyService:     propertyService,
		userService:         userService,
		artItemService:      artItemService,
		redis:               rdb.Client,
		logger:              log,
	})
	log.Info("workers registered", map[string]interface{}{"taskTypes": registry.TaskTypes()})

	// --- Scheduled sweep ---
	var sweeper *scheduler.Sweeper
	if cfg.Scheduler.Enabled {
		sweeper = scheduler.NewSweeper(notifications, dispatcher, rdb.Client, log,
			scheduler.WithSchedule(cfg.Scheduler.Spec),
			scheduler.WithClaimTTL(time.Duration(cfg.Scheduler.ClaimTTL)*time.Second),
			scheduler.WithBatch(cfg.Scheduler.Batch),
		)
		if err := sweeper.Start(); err != nil {
			return err
		}
	}

	// --- HTTP API ---
	var server *http.Server
	if cfg.HTTP.Enabled {
		router := api.NewRouter(cfg.HTTP.Mode, api.Dependencies{
			Notifications: notificationService,
			Projects:      projectService,
			Logger:        log,
			Health: map[string]api.HealthCheck{
				"postgres":      pg.Ping,
				"redis":         rdb.Ping,
				"elasticsearch": es.Ping,
				"zeebe":         zeebe.HealthCheck,
			},
		})
		server = &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			log.Info("HTTP server listening", map[string]interface{}{"address": cfg.HTTP.Address})
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("HTTP server failed", map[string]interface{}{"error": err.Error()})
			}
		}()
	}

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	log.Info("shutdown signal received", map[string]interface{}{"signal": sig.String()})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.HTTP.ShutdownTimeout))
	defer cancel()

	var shutdownErr error
	if server != nil {
		shutdownErr = multierr.Append(shutdownErr, server.Shutdown(shutdownCtx))
	}
	if sweeper != nil {
		select {
		case <-sweeper.Stop().Done():
		case <-shutdownCtx.Done():
			shutdownErr = multierr.Append(shutdownErr, errors.New("scheduler did not stop in time"))
		}
	}
	registry.Close()
	shutdownErr = multierr.Append(shutdownErr, zeebe.Close())
	shutdownErr = multierr.Append(shutdownErr, obs.Shutdown(shutdownCtx))
	shutdownErr = multierr.Append(shutdownErr, rdb.Close())
	shutdownErr = multierr.Append(shutdownErr, pg.Close())

	if shutdownErr != nil {
		return fmt.Errorf("shutdown: %w", shutdownErr)
	}
	log.Info("worker manager stopped gracefully", nil)
	return nil
}
