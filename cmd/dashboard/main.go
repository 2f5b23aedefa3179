package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/gema-dashboard/internal/cache"
	"github.com/noah-isme/gema-dashboard/internal/config"
	"github.com/noah-isme/gema-dashboard/internal/database"
	"github.com/noah-isme/gema-dashboard/internal/handler"
	"github.com/noah-isme/gema-dashboard/internal/middleware"
	"github.com/noah-isme/gema-dashboard/internal/repository"
	"github.com/noah-isme/gema-dashboard/internal/router"
	"github.com/noah-isme/gema-dashboard/internal/service"
	"github.com/noah-isme/gema-dashboard/internal/session"
	"github.com/noah-isme/gema-dashboard/internal/upstream"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.AppName).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store cache.Store = cache.NewMemoryStore()
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		store = cache.NewRedisStore(redisClient, cfg.CacheChannel)
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName, logger)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
	}

	registry := cache.NewRegistry(store, cache.Options{
		TTL:     cfg.CacheTTL,
		Redis:   redisClient,
		NATS:    natsConn,
		Channel: cfg.CacheChannel,
	}, logger)
	registry.Start(ctx)

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := service.RegisterValidations(validate); err != nil {
		log.Fatalf("failed to register validations: %v", err)
	}

	client := upstream.NewClient(cfg.BaseAPI, &http.Client{}, registry, logger)
	decoder := session.NewDecoder(cfg.JWTSecret)

	assignmentRepo := repository.NewAssignmentRepository(client)
	submissionRepo := repository.NewSubmissionRepository(client)
	authRepo := repository.NewAuthRepository(client)

	assignmentService := service.NewAssignmentService(assignmentRepo, validate, cfg.DeadlineLocation, logger)
	submissionService := service.NewSubmissionService(submissionRepo, validate, logger)
	statsService := service.NewStatsService(submissionRepo, logger)
	authService := service.NewAuthService(authRepo, decoder, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AssignmentHandler: handler.NewAssignmentHandler(assignmentService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		StatsHandler:      handler.NewStatsHandler(statsService, logger),
		AuthHandler:       handler.NewAuthHandler(authService, handler.CookieOptions{Name: cfg.CookieName, Secure: cfg.IsProduction()}, logger),
		NavigationHandler: handler.NewNavigationHandler(),
		LiveHandler:       handler.NewLiveHandler(registry, logger),
		SessionMiddleware: middleware.Session(decoder, cfg.CookieName, logger),
		AuthRateLimiter:   middleware.RateLimit("auth", cfg.AuthRateLimit, cfg.AuthRateWindow),
	})

	go func() {
		logger.Info().Str("address", cfg.HTTPAddress()).Str("upstream", cfg.BaseAPI).Msg("dashboard listening")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(ctx, app)
}

func waitForShutdown(ctx context.Context, app *fiber.App) {
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
