package container

import (
	"pos-be/internal/config"
	"pos-be/internal/service"
	"pos-be/internal/service/telegram"
	"pos-be/pkg/logger"
	"pos-be/pkg/redis"
)

// Container holds the application dependencies that do not need a database
// connection. DB-bound services are assembled in main and handed to the
// handlers directly.
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	RedisClient *redis.Client
	Services    *service.Services
	ReplayGuard *service.ReplayGuard
}

// New creates a new dependency injection container
func New(cfg *config.Config, logger *logger.Logger) (*Container, error) {
	// Initialize Redis client if Redis URL is configured
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, logger.Logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize Redis client, proceeding without replay protection")
		} else {
			redisClient = client
			logger.Info("Redis client initialized successfully")
		}
	} else {
		logger.Info("Redis URL not configured, proceeding without replay protection")
	}

	verifier := telegram.NewVerifier(cfg.TelegramBotToken, logger)

	services := &service.Services{
		Verifier: verifier,
	}

	return &Container{
		Config:      cfg,
		Logger:      logger,
		RedisClient: redisClient,
		Services:    services,
		ReplayGuard: service.NewReplayGuard(redisClient, logger),
	}, nil
}

// GetVerifier returns the Telegram login verifier
func (c *Container) GetVerifier() service.TelegramVerifier {
	return c.Services.Verifier
}

// GetReplayGuard returns the replay guard
func (c *Container) GetReplayGuard() *service.ReplayGuard {
	return c.ReplayGuard
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// GetRedisClient returns the Redis client (may be nil if not configured)
func (c *Container) GetRedisClient() *redis.Client {
	return c.RedisClient
}

// HasRedis returns true if Redis client is available
func (c *Container) HasRedis() bool {
	return c.RedisClient != nil
}
