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

	"recepce/internal/api"
	"recepce/internal/calendar"
	"recepce/internal/config"
	"recepce/internal/database"
	"recepce/internal/domain"
	"recepce/internal/events"
	"recepce/internal/export"
	"recepce/internal/logging"
	"recepce/internal/metrics"
	"recepce/internal/notify"
	"recepce/internal/repository"
	"recepce/internal/service"
	"recepce/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}
	logger := logging.Component(baseLogger, "main")

	metrics.Register()

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info().Str("path", cfg.Database.Path).Msg("database initialized")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	calLogger := logging.Component(baseLogger, "calendar")
	cal, err := calendar.New(cfg.Calendar, &calLogger)
	if err != nil {
		return err
	}

	locker := initSlotLocker(ctx, cfg, baseLogger)

	notifyWorker := initNotifications(ctx, cfg, baseLogger)
	defer notifyWorker.Stop()

	eventBus := events.NewEventBus()
	eventBus.Subscribe(events.EventBookingCreated, func(event *events.Event) error {
		metrics.IncBooking("created")
		return nil
	})
	eventBus.Subscribe(events.EventBookingCancelled, func(event *events.Event) error {
		metrics.IncBooking("cancelled")
		return nil
	})

	svcLogger := logging.Component(baseLogger, "engine")
	engine := service.NewService(cfg, cal, db, db, locker, notifyWorker, eventBus, &svcLogger)

	exporter := export.NewExporter(db, cfg.Exports.Path, cfg.Location(), logging.Component(baseLogger, "export"))

	if cfg.Monitoring.PrometheusEnabled {
		startMetricsServer(cfg.Monitoring.PrometheusPort, logger)
	}

	apiServer := api.NewHTTPServer(cfg.API, engine, exporter, logging.Component(baseLogger, "api"))
	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error().Err(err).Msg("API server error")
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = apiServer.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("app", cfg.App.Name).Msg("receptionist engine started")
	<-ctx.Done()
	logger.Info().Msg("shutting down")
	return nil
}

func initSlotLocker(ctx context.Context, cfg *config.Config, baseLogger *zerolog.Logger) domain.SlotLocker {
	logger := logging.Component(baseLogger, "locker")

	memory := repository.NewMemorySlotLocker()
	if cfg.Redis.Address == "" {
		logger.Info().Msg("redis not configured, using in-memory slot locks")
		return memory
	}

	client := repository.NewRedisClient(cfg.Redis)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := repository.Ping(pingCtx, client); err != nil {
		logger.Warn().Err(err).Msg("redis unreachable at startup, failover will retry")
	}

	return repository.NewFailoverSlotLocker(repository.NewRedisSlotLocker(client), memory, &logger)
}

func initNotifications(ctx context.Context, cfg *config.Config, baseLogger *zerolog.Logger) *worker.NotifyWorker {
	logger := logging.Component(baseLogger, "notify")

	var operator notify.OperatorChannel
	if cfg.Notifications.TelegramEnabled {
		telegram, err := notify.NewTelegramNotifier(cfg.Notifications.Telegram)
		if err != nil {
			logger.Error().Err(err).Msg("telegram notifier unavailable")
		} else {
			operator = telegram
		}
	}

	sender := notify.NewSender(cfg.Notifications.Twilio, cfg.Notifications.SMTP)
	dispatcher := notify.NewDispatcher(
		cfg.Notifications,
		cfg.Company.Name,
		cfg.Company.OwnerEmail,
		cfg.Location(),
		sender,
		operator,
		logger,
	)

	notifyWorker := worker.NewNotifyWorker(dispatcher, worker.RetryPolicy{}, logging.Component(baseLogger, "notify-worker"))
	notifyWorker.Start(ctx)
	return notifyWorker
}

func startMetricsServer(port int, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("metrics server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("metrics server error")
		}
	}()
}
