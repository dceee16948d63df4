package main

import (
	"context"
	"errors"
	"fmt"
	"matchos/internal/config"
	"matchos/internal/database/mongo"
	"matchos/internal/database/redis"
	"matchos/internal/event"
	"matchos/internal/handlers"
	"matchos/internal/logging"
	"matchos/internal/metrics"
	"matchos/internal/middleware"
	"matchos/internal/repository"
	"matchos/internal/service"
	"matchos/pkg/discovery"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/cors"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the user service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			logger, err := logging.New(cfg.Log.Dir, cfg.Log.Level)
			if err != nil {
				return fmt.Errorf("set up logging: %w", err)
			}
			defer logger.Sync()

			return serve(cfg, logger)
		},
	}
}

func serve(cfg *config.Config, logger *zap.Logger) error {
	mongoConn, err := mongo.Connect(cfg.MongoDB, logger.Named("mongo"))
	if err != nil {
		return err
	}
	defer mongoConn.Disconnect()

	redisClient, err := redis.Connect(cfg.Redis, logger.Named("redis"))
	if err != nil {
		return err
	}
	defer redisClient.Close()

	userRepo := repository.NewUserRepository(mongoConn.Database)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := userRepo.CreateIndexes(ctx); err != nil {
		logger.Warn("failed to create database indexes", zap.Error(err))
	}
	cancel()
	userCache := repository.NewUserCache(redisClient, cfg.Redis.UserTTL)

	publisher, err := event.NewEventPublisher(cfg.RabbitMQ.URI, cfg.RabbitMQ.Exchange, logger.Named("publisher"))
	if err != nil {
		logger.Warn("event publishing disabled", zap.Error(err))
		publisher, _ = event.NewEventPublisher("", cfg.RabbitMQ.Exchange, logger.Named("publisher"))
	}
	defer publisher.Close()

	var registry *discovery.ServiceRegistry
	if cfg.Consul.Enabled {
		registry, err = discovery.NewServiceRegistry(cfg, logger.Named("discovery"))
		if err != nil {
			logger.Warn("service discovery unavailable", zap.Error(err))
			registry = nil
		}
	}

	tokens := middleware.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	userService := service.NewUserService(userRepo, userCache, tokens, publisher, logger.Named("users"))
	walletService := service.NewWalletService(userRepo, userCache, publisher, logger.Named("wallet"))

	var resolver service.AddressResolver
	if registry != nil {
		resolver = registry
	}
	reputationService := service.NewReputationService(userService, resolver, cfg.Blockchain, cfg.Auth.InternalAPIKey, logger.Named("reputation"))

	consumer, err := event.NewEventConsumer(cfg.RabbitMQ.URI, cfg.RabbitMQ.QueueName, userService, logger.Named("consumer"))
	if err != nil {
		logger.Warn("failed to initialize event consumer", zap.Error(err))
	} else if err := consumer.Start(); err != nil {
		logger.Warn("failed to start event consumer", zap.Error(err))
		consumer.Close()
		consumer = nil
	}

	m := metrics.New()

	app := fiber.New(fiber.Config{
		AppName:      cfg.Server.ServiceName,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	app.Use(recoverer.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
	}))
	app.Use(middleware.RequestMetrics(m))

	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": cfg.Server.ServiceName,
			"mongodb": mongoConn.IsConnected(c.Context()),
		})
	})
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	app.Use(middleware.Authenticate(tokens, logger.Named("auth")))
	app.Use(middleware.PrivacyFilter(m, logger.Named("privacy")))

	handlers.NewUserHandler(userService, reputationService, cfg.Auth.InternalAPIKey, logger.Named("http")).RegisterRoutes(app)
	handlers.NewWalletHandler(walletService, logger.Named("http")).RegisterRoutes(app)

	if registry != nil {
		if err := registry.Register(); err != nil {
			logger.Warn("failed to register with Consul", zap.Error(err))
		}
	}

	shutdownChan := make(chan os.Signal, 1)
	errChan := make(chan error, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
		logger.Info("starting server", zap.String("addr", addr))
		errChan <- app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	var serveErr error
	select {
	case <-shutdownChan:
		logger.Info("shutting down server")
	case serveErr = <-errChan:
		logger.Error("server stopped", zap.Error(serveErr))
	}

	ctx, cancel = context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("error shutting down HTTP server", zap.Error(err))
	}

	if consumer != nil {
		if err := consumer.Close(); err != nil {
			logger.Error("error closing event consumer", zap.Error(err))
		}
	}

	if registry != nil {
		if err := registry.Deregister(); err != nil {
			logger.Error("error deregistering from service discovery", zap.Error(err))
		}
	}

	logger.Info("server shutdown complete")
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		return serveErr
	}
	return nil
}
