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

	"golang.org/x/sync/errgroup"

	"tableside/internal/config"
	"tableside/internal/database"
	"tableside/internal/logger"
	"tableside/internal/messaging"
	"tableside/internal/server"
	"tableside/internal/services/menu"
	"tableside/internal/services/order"
	"tableside/internal/services/table"
)

func main() {
	var (
		mode           = flag.String("mode", "", "Service mode: api-server or notification-subscriber")
		port           = flag.Int("port", 0, "Port for the API server (overrides config)")
		configPath     = flag.String("config", "config.yaml", "Path to config file")
		migrationsPath = flag.String("migrations", "migrations", "Path to migrations directory")
	)
	flag.Parse()

	if *mode == "" {
		fmt.Fprintln(os.Stderr, "Usage: tableside --mode=<api-server|notification-subscriber> [--port=N] [--config=path]")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	switch *mode {
	case "api-server":
		runAPIServer(cfg, *migrationsPath)
	case "notification-subscriber":
		runNotificationSubscriber(cfg)
	default:
		fmt.Fprintf(os.Stderr, "Unknown mode: %s\n", *mode)
		os.Exit(1)
	}
}

func runAPIServer(cfg *config.Config, migrationsPath string) {
	log := logger.New("api-server")
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg, log)
	if err != nil {
		log.Error("startup_failed", "Failed to connect to database", "startup", err, nil)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(ctx, migrationsPath); err != nil {
		log.Error("startup_failed", "Failed to run migrations", "startup", err, nil)
		os.Exit(1)
	}

	mq, err := messaging.New(cfg, log)
	if err != nil {
		log.Error("startup_failed", "Failed to connect to RabbitMQ", "startup", err, nil)
		os.Exit(1)
	}
	defer mq.Close()

	publisher := messaging.NewPublisher(mq, log)

	menuSvc := menu.NewService(menu.NewRepository(db), log)
	tableSvc := table.NewService(table.NewRepository(db), publisher, log)
	orderSvc := order.NewService(order.NewRepository(db), menuSvc, tableSvc, publisher, log)

	health := func(ctx context.Context) bool {
		return db.Ping(ctx) == nil && !mq.IsClosed()
	}
	srv := server.New(menuSvc, tableSvc, orderSvc, health, log)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server_started", fmt.Sprintf("API server listening on port %d", cfg.Server.Port), "startup", map[string]any{
			"port": cfg.Server.Port,
		})
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("server_stopping", "Shutting down API server", "shutdown", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server_failed", "API server exited with error", "shutdown", err, nil)
		os.Exit(1)
	}
	log.Info("server_stopped", "API server stopped", "shutdown", nil)
}

func runNotificationSubscriber(cfg *config.Config) {
	log := logger.New("notification-subscriber")
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mq, err := messaging.New(cfg, log)
	if err != nil {
		log.Error("startup_failed", "Failed to connect to RabbitMQ", "startup", err, nil)
		os.Exit(1)
	}
	defer mq.Close()

	sub := messaging.NewSubscriber(mq, log)
	log.Info("subscriber_started", "Notification subscriber started", "startup", nil)

	if err := sub.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("subscriber_failed", "Notification subscriber exited with error", "shutdown", err, nil)
		os.Exit(1)
	}
	log.Info("subscriber_stopped", "Notification subscriber stopped", "shutdown", nil)
}
