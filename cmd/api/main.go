package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"

	"example.com/fitanalytics/internal/analytics"
	"example.com/fitanalytics/internal/api"
	"example.com/fitanalytics/internal/auth"
	"example.com/fitanalytics/internal/config"
	"example.com/fitanalytics/internal/consumer"
	"example.com/fitanalytics/internal/events"
	"example.com/fitanalytics/internal/logger"
	"example.com/fitanalytics/internal/persistence"
	"example.com/fitanalytics/internal/persistence/badgerkv"
	"example.com/fitanalytics/internal/persistence/postgres"
	"example.com/fitanalytics/internal/persistence/rediskv"
	httptransport "example.com/fitanalytics/internal/transport/http"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("fitanalytics stopped", "error", err)
	}
}

func run(cfg config.Config, log *logger.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("close state store", "error", err)
		}
	}()

	svcOpts := []analytics.Option{analytics.WithLogger(log.With("component", "analytics"))}
	if cfg.KafkaEnabled {
		producer := events.NewKafkaProducer(cfg.KafkaBrokers)
		defer producer.Close()
		svcOpts = append(svcOpts, analytics.WithPublisher(events.NewPublisher(producer, cfg.KafkaEventsTopic)))
	}

	service := analytics.NewService(store, analytics.Config{
		StateKey:            cfg.StateKey,
		PatternRefreshEvery: cfg.PatternRefreshEvery,
		TrainingDuration:    cfg.TrainingDuration,
		TrainingTimeout:     cfg.TrainingTimeout,
		FlushTimeout:        cfg.FlushTimeout,
		PublishTimeout:      cfg.PublishTimeout,
		Location:            loc,
	}, svcOpts...)
	if err := service.Load(ctx); err != nil {
		return fmt.Errorf("load analytics state: %w", err)
	}

	authConfig := auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}
	if !authConfig.Enabled() {
		log.Warn("JWT_SECRET is empty, bearer authentication disabled")
	}
	authMiddleware := auth.NewMiddleware(authConfig, auth.SkipPaths("/healthz", "/metrics"))

	mux := http.NewServeMux()
	api.NewHandler(service, authMiddleware).RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())

	handler := httptransport.CORS(cfg.CORSOrigins)(
		httptransport.RequestLogger(log.With("component", "http"))(
			authMiddleware.Wrap(mux),
		),
	)
	server := httptransport.NewServer(httptransport.ServerConfig{
		Address:      cfg.HTTPAddress,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.TrainingTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}, handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return service.Run(gctx)
	})
	g.Go(func() error {
		log.Info("fitanalytics listening", "address", cfg.HTTPAddress, "backend", cfg.StateBackend)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if cfg.KafkaEnabled {
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:        cfg.KafkaBrokers,
			GroupID:        cfg.KafkaGroupID,
			Topic:          cfg.KafkaIngestTopic,
			MinBytes:       1,
			MaxBytes:       10e6,
			CommitInterval: time.Second,
		})
		proc := consumer.NewProcessor(reader,
			consumer.NewWorkoutHandler(service, log.With("component", "ingest")),
			consumer.WithLogger(log.With("component", "consumer")),
		)
		g.Go(func() error {
			defer proc.Close()
			log.Info("consumer started", "topic", cfg.KafkaIngestTopic, "group", cfg.KafkaGroupID)
			if err := proc.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("consumer: %w", err)
			}
			return nil
		})
	}

	runErr := g.Wait()
	log.Info("shutdown requested, saving state")

	saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := service.Close(saveCtx); err != nil {
		log.Error("final state save failed", "error", err)
	}
	return runErr
}

func openStore(ctx context.Context, cfg config.Config, log *logger.Logger) (persistence.Store, error) {
	switch cfg.StateBackend {
	case config.BackendBadger:
		return badgerkv.Open(badgerkv.Config{Path: cfg.BadgerPath, SyncWrites: true, Logger: log})
	case config.BackendRedis:
		return rediskv.Open(ctx, cfg.RedisAddr)
	case config.BackendPostgres:
		return postgres.Open(ctx, cfg.PostgresURL)
	default:
		return persistence.NewMemoryStore(), nil
	}
}
