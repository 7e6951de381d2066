// Command provd runs the provenance recording service: the HTTP submission
// endpoint, the object lookup, and the failure-queue plumbing behind them.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/tracefold/provenance/pkg/api"
	"github.com/tracefold/provenance/pkg/audit"
	"github.com/tracefold/provenance/pkg/config"
	"github.com/tracefold/provenance/pkg/history"
	"github.com/tracefold/provenance/pkg/observability"
	"github.com/tracefold/provenance/pkg/provenance"
	"github.com/tracefold/provenance/pkg/store"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg := config.Load()
	if configPath != "" {
		var err error
		cfg, err = config.LoadFile(configPath, cfg)
		if err != nil {
			return err
		}
	}

	logger := observability.SetupLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider, err := observability.NewProvider(ctx, observability.TelemetryConfig{
		ServiceName:  "provd",
		OTLPEndpoint: cfg.OTLPEndpoint,
		Enabled:      cfg.TracingEnabled,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown failed", "error", err)
		}
	}()

	db, err := openDatabase(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := store.Init(ctx, db); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	queue, err := buildQueue(cfg)
	if err != nil {
		return err
	}

	records := store.NewSQLRecordStore(db)
	registry := store.NewSQLRegistry(db)

	recorder := provenance.NewRecorder(provenance.Deps{
		Resolver: store.NewSQLResolver(db),
		Registry: registry,
		Store:    records,
		History:  history.NewManager(store.NewSQLHistoryStore(db), queue, logger),
		Sink:     audit.NewSQLSink(records, queue, logger),
		Logger:   logger,
	})

	opts := []api.ServerOption{
		api.WithRateLimiter(api.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)),
		api.WithTracer(provider.Tracer()),
	}
	if meter := provider.Meter(); meter != nil {
		metrics, err := api.NewMetrics(meter)
		if err != nil {
			return fmt.Errorf("failed to register request metrics: %w", err)
		}
		opts = append(opts, api.WithRequestMetrics(metrics))
	}

	server := api.NewServer(recorder, registry, logger, opts...)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("provenance service listening", "port", cfg.Port, "queue", cfg.FailureQueue)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// openDatabase selects the driver from the URL scheme: postgres:// for
// lib/pq, sqlite: for the embedded driver.
func openDatabase(url string) (*sql.DB, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return sql.Open("postgres", url)
	case strings.HasPrefix(url, "sqlite:"):
		return sql.Open("sqlite", strings.TrimPrefix(url, "sqlite:"))
	default:
		return nil, fmt.Errorf("unsupported database URL %q", url)
	}
}

func buildQueue(cfg *config.Config) (audit.Queue, error) {
	switch cfg.FailureQueue {
	case "file", "":
		return audit.NewFileQueue(cfg.FailureQueuePath), nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return audit.NewRedisQueue(client, cfg.RedisQueueKey), nil
	case "kafka":
		return audit.NewKafkaQueue(cfg.KafkaBroker, cfg.KafkaTopic), nil
	default:
		return nil, fmt.Errorf("unknown failure queue %q", cfg.FailureQueue)
	}
}
