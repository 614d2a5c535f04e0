package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"dutytrip/internal/app"
	"dutytrip/internal/config"
	"dutytrip/internal/handler"
	internalRedis "dutytrip/internal/redis"
	"dutytrip/internal/repository/postgres"
	"dutytrip/internal/service"
)

func main() {
	// Load configuration.
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s (with DB instrumentation)", cfg.NewRelic.AppName)
		}
	}

	// Initialize database with New Relic instrumentation.
	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	// Initialize Redis with New Relic instrumentation.
	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	// Initialize RabbitMQ if enabled; trip events are logged otherwise.
	var rabbitChannel *amqp.Channel
	if cfg.Rabbit.Enabled {
		rabbitConn, channel, err := app.NewRabbitChannel(cfg.Rabbit)
		if err != nil {
			log.Fatalf("failed to connect to rabbitmq: %v", err)
		}
		defer rabbitConn.Close()
		rabbitChannel = channel
		log.Println("Connected to RabbitMQ")
	}

	// Wire dependencies.
	server := wireServer(db, redisClient, rabbitChannel, nrApp, cfg)

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, rabbitChannel *amqp.Channel, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Initialize Redis stores.
	cacheStore := internalRedis.NewCacheStore(redisClient)
	throttleStore := internalRedis.NewThrottleStore(redisClient)

	// Initialize repositories.
	tripRepo := postgres.NewTripRepository(db)
	accountRepo := postgres.NewAccountRepository(db)

	// Initialize services.
	notificationService := service.NewNotificationService(rabbitChannel, cfg.Rabbit.Exchange)
	tripService := service.NewTripService(tripRepo, cacheStore, throttleStore, notificationService)
	accountService := service.NewAccountService(accountRepo)

	// Initialize handlers.
	tripHandler := handler.NewTripHandler(tripService)
	accountHandler := handler.NewAccountHandler(accountService, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	// Create router.
	router := app.NewRouter(app.RouterDeps{
		TripHandler:    tripHandler,
		AccountHandler: accountHandler,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
		JWTSecret:      cfg.Auth.JWTSecret,
	})

	// Create HTTP server.
	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
