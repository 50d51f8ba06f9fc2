package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"pizzeria/internal/auth"
	"pizzeria/internal/config"
	"pizzeria/internal/database"
	"pizzeria/internal/logger"
	"pizzeria/internal/messaging"
	"pizzeria/internal/models"
	"pizzeria/internal/pricing"
	"pizzeria/internal/repository/postgres"
	"pizzeria/internal/repository/redisstore"
	"pizzeria/internal/services/admin"
	"pizzeria/internal/services/notification"
	"pizzeria/internal/services/order"
	"pizzeria/internal/services/tracking"
	"pizzeria/internal/wheel"
)

func main() {
	var (
		mode     = flag.String("mode", "", "Service mode (order-service, admin-service, tracking-service, notification-subscriber)")
		port     = flag.Int("port", 3000, "HTTP port")
		cfgPath  = flag.String("config", "config.yaml", "Path to configuration file")
		prefetch = flag.Int("prefetch", 1, "RabbitMQ prefetch count")
	)
	flag.Parse()

	if *mode == "" {
		fmt.Fprintf(os.Stderr, "Error: --mode flag is required\n")
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(*mode)
	requestID := logger.GenerateRequestID()

	log.Info("service_started", requestID, fmt.Sprintf("Starting %s", *mode),
		map[string]interface{}{"mode": *mode, "port": *port})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("graceful_shutdown", requestID, "Received shutdown signal", nil)
		cancel()
	}()

	switch *mode {
	case "order-service":
		err = runOrderService(ctx, cfg, log, *port)
	case "admin-service":
		err = runAdminService(ctx, cfg, log, *port)
	case "tracking-service":
		err = runTrackingService(ctx, cfg, log, *port)
	case "notification-subscriber":
		err = runNotificationSubscriber(ctx, cfg, log, *prefetch)
	default:
		log.Error("validation_failed", requestID, fmt.Sprintf("Unknown mode: %s", *mode), nil, nil)
		os.Exit(1)
	}

	if err != nil {
		log.Error("service_failed", requestID, fmt.Sprintf("%s failed", *mode), err, nil)
		os.Exit(1)
	}
	log.Info("service_stopped", requestID, "Service stopped gracefully", nil)
}

func runOrderService(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	requestID := logger.GenerateRequestID()

	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	settingsRepo := postgres.NewSettingsRepo(db)
	if err := settingsRepo.Seed(ctx, models.Settings{
		RestaurantName:        "Pizzeria",
		OpeningHours:          "11:00-22:00",
		DeliveryFee:           decimal.NewFromFloat(cfg.Pricing.DeliveryFee),
		FreeDeliveryThreshold: decimal.NewFromFloat(cfg.Pricing.FreeDeliveryThreshold),
	}); err != nil {
		return fmt.Errorf("failed to seed settings: %w", err)
	}

	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	publisher := messaging.NewPublisher(conn, log)
	awards := redisstore.New(cfg.RedisAddr())
	defer awards.Close()

	if err := awards.Ping(ctx); err != nil {
		return fmt.Errorf("failed to reach redis: %w", err)
	}

	log.Info("dependencies_connected", requestID, "Connected to PostgreSQL, RabbitMQ and Redis", nil)

	service := order.NewService(
		postgres.NewOrderRepo(db),
		postgres.NewMenuRepo(db),
		settingsRepo,
		awards,
		pricing.NewDefaultRegistry(),
		publisher,
		log,
	)
	handler := order.NewHandler(service, log)

	return serveHTTP(ctx, log, port, handler.Routes())
}

func runAdminService(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	authService, err := auth.New(cfg.Auth.AdminUser, cfg.Auth.AdminPasswordHash)
	if err != nil {
		return fmt.Errorf("failed to initialize auth: %w", err)
	}

	service := admin.NewService(
		postgres.NewOrderRepo(db),
		postgres.NewMenuRepo(db),
		postgres.NewSettingsRepo(db),
		messaging.NewPublisher(conn, log),
		log,
	)
	handler := admin.NewHandler(service, authService, log)

	return serveHTTP(ctx, log, port, handler.Routes())
}

func runTrackingService(ctx context.Context, cfg *config.Config, log *logger.Logger, port int) error {
	db, err := database.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	awards := redisstore.New(cfg.RedisAddr())
	defer awards.Close()

	registry := pricing.NewDefaultRegistry()
	w, err := wheel.New(wheel.DefaultSegments(), registry, awards)
	if err != nil {
		return fmt.Errorf("failed to initialize wheel: %w", err)
	}

	service := tracking.NewService(postgres.NewOrderRepo(db), postgres.NewMenuRepo(db), w, log)
	handler := tracking.NewHandler(service, log)

	return serveHTTP(ctx, log, port, handler.Routes())
}

func runNotificationSubscriber(ctx context.Context, cfg *config.Config, log *logger.Logger, prefetch int) error {
	conn, err := messaging.New(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize messaging: %w", err)
	}
	defer conn.Close()

	consumer := messaging.NewConsumer(conn, log, messaging.NotificationsQueue, "notification-subscriber", prefetch)
	subscriber := notification.NewSubscriber(consumer, log)
	defer subscriber.Close()

	return subscriber.Start(ctx)
}

func serveHTTP(ctx context.Context, log *logger.Logger, port int, handler http.Handler) error {
	requestID := logger.GenerateRequestID()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: handler,
	}

	go func() {
		log.Info("http_listening", requestID, fmt.Sprintf("HTTP server listening on port %d", port),
			map[string]interface{}{"port": port})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server_failed", requestID, "HTTP server failed", err, nil)
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return server.Shutdown(shutdownCtx)
}
