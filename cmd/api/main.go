package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"staybook/internal/api"
	"staybook/internal/availability"
	"staybook/internal/catalog"
	"staybook/internal/config"
	"staybook/internal/database"
	"staybook/internal/domain"
	"staybook/internal/events"
	"staybook/internal/logging"
	"staybook/internal/metrics"
	"staybook/internal/repository"
	"staybook/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	db, err := database.NewDB(cfg.Database.Path, logging.Component(logger, "database"))
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	calc := availability.NewCalculator(time.Now)
	if err := importCatalog(cfg, db, calc.Today(), logger); err != nil {
		return err
	}

	redisClient := initRedis(cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}
	selectionRepo := initSelectionRepository(cfg, redisClient, logger)

	bus := events.NewEventBus(logging.Component(logger, "events"))
	subscribeConfirmations(bus, logging.Component(logger, "confirmations"))

	gateway := service.NewSimulatedGateway(cfg.Booking.SubmitDelay(), logging.Component(logger, "gateway"))
	bookings := service.NewBookingService(db, gateway, bus, cfg.Booking.ServiceFeeRate, logging.Component(logger, "booking"))
	selections := service.NewSelectionService(selectionRepo, db, calc, bookings, bus, logging.Component(logger, "selection"))

	handlers := api.NewHandlers(db, calc, bookings, selections, logging.Component(logger, "http"),
		api.WithCalendarDays(cfg.Booking.CalendarDays),
		api.WithReadiness(db.PingContext),
	)
	httpServer := api.NewHTTPServer(cfg.API, handlers, logging.Component(logger, "http"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startMetrics(ctx, cfg, logger)

	return startServer(ctx, httpServer, cfg, logger)
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}

	return cfg, logging.Component(baseLogger, "api-main"), closer, nil
}

func importCatalog(cfg *config.Config, store domain.PropertyStore, today time.Time, logger *zerolog.Logger) error {
	entries, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		logger.Error().Err(err).Str("catalog_path", cfg.Catalog.Path).Msg("load catalog")
		return err
	}

	defaults := catalog.Defaults{NightlyRate: cfg.Booking.DefaultNightlyRate, MaxGuests: cfg.Booking.DefaultMaxGuests}
	rng := catalog.NewRand(cfg.Catalog.Seed)
	return catalog.Import(context.Background(), store, entries, defaults, today, rng, logging.Component(logger, "catalog"))
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	client := repository.NewRedisClient(cfg.Redis)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := repository.Ping(ctx, client); err != nil {
		// the failover store keeps probing, so a late Redis is picked up
		logger.Warn().Err(err).Msg("redis connection failed, selections start in memory")
	} else {
		logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	}
	return client
}

func initSelectionRepository(cfg *config.Config, client *redis.Client, logger *zerolog.Logger) domain.SelectionRepository {
	ttl := cfg.Booking.SelectionTTLDuration()
	memory := repository.NewMemorySelectionRepository(ttl)
	if client == nil {
		return memory
	}
	return repository.NewFailoverSelectionRepository(
		repository.NewRedisSelectionRepository(client, ttl),
		memory,
		repository.DefaultRetryPolicy(),
		logging.Component(logger, "selection-store"),
	)
}

// subscribeConfirmations stands in for the confirmation consumer.
func subscribeConfirmations(bus *events.EventBus, logger *zerolog.Logger) {
	bus.Subscribe(events.EventBookingConfirmed, func(e *events.Event) error {
		var p events.BookingEventPayload
		if err := e.Decode(&p); err != nil {
			return err
		}
		logger.Info().
			Str("confirmation_id", p.ConfirmationID).
			Int64("property_id", p.PropertyID).
			Int("nights", p.Nights).
			Int64("total", p.Total).
			Msg(p.Message)
		return nil
	})
	bus.Subscribe(events.EventBookingRejected, func(e *events.Event) error {
		var p events.BookingEventPayload
		if err := e.Decode(&p); err != nil {
			return err
		}
		logger.Debug().Int64("property_id", p.PropertyID).Str("reason", p.Reason).Msg("booking rejected")
		return nil
	})
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, logger)
}

func startServer(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	if !cfg.API.HTTP.Enabled {
		logger.Warn().Msg("HTTP API is disabled in config, nothing to serve")
		return nil
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Start()
	}()

	logger.Info().Int("http_port", cfg.API.HTTP.Port).Msg("API server started")

	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			logger.Error().Err(err).Msg("http server stopped")
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}

	logger.Info().Msg("API server stopped")
	return nil
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
