package main

import (
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"schedule-service/internal/config"
	"schedule-service/internal/database"
	"schedule-service/internal/handler"
	"schedule-service/internal/realtime"
	"schedule-service/internal/repository"
	"schedule-service/internal/router"
	"schedule-service/internal/scheduler"
	"schedule-service/internal/service"
	"schedule-service/internal/store"
)

func main() {
	cfg, err := config.Load(getEnv("CONFIG_PATH", "config.yaml"))
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting Schedule Service",
		zap.Int("port", cfg.Server.Port),
		zap.String("env", cfg.Server.Env),
		zap.String("storePath", cfg.Store.Path))

	st, err := store.Open(cfg.Store.Path, logger)
	if err != nil {
		logger.Fatal("Failed to open store", zap.Error(err))
	}

	redisClient := database.InitRedis(cfg.Redis, logger)

	// Repositories
	taskRepo := repository.NewTaskRepository(st)
	userRepo := repository.NewUserRepository(st)
	notificationRepo := repository.NewNotificationRepository(st)
	commentRepo := repository.NewCommentRepository(st)
	chatRepo := repository.NewChatRepository(st)
	activityRepo := repository.NewActivityRepository(st)
	versionRepo := repository.NewVersionRepository(st)
	catalogRepo := repository.NewCatalogRepository(st)

	// Realtime hub
	hub := realtime.NewHub(logger)

	// Services
	authService := service.NewAuthService(userRepo, cfg.Auth.SecretKey, cfg.Auth.TokenTTL(), logger)
	notificationService := service.NewNotificationService(notificationRepo, redisClient, hub, logger)
	taskService := service.NewTaskService(taskRepo, activityRepo, versionRepo, logger)
	commentService := service.NewCommentService(commentRepo, taskRepo, userRepo, activityRepo, notificationService, logger)
	chatService := service.NewChatService(chatRepo, userRepo, notificationService, logger)

	// Reminder scheduler
	sched := scheduler.New(taskRepo, userRepo, notificationRepo, hub, cfg.Scheduler, logger)
	if err := sched.Start(); err != nil {
		logger.Fatal("Failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	// Handlers
	handlers := router.Handlers{
		Auth:          handler.NewAuthHandler(authService, userRepo, logger),
		Tasks:         handler.NewTaskHandler(taskService, logger),
		Notifications: handler.NewNotificationHandler(notificationService, logger),
		Comments:      handler.NewCommentHandler(commentService, userRepo, logger),
		Chat:          handler.NewChatHandler(chatService, userRepo, logger),
		Catalogs:      handler.NewCatalogHandler(catalogRepo, logger),
		Activity:      handler.NewActivityHandler(activityRepo, hub),
		Health:        handler.NewHealthHandler(hub),
		WS:            handler.NewWebSocketHandler(hub, authService, logger),
	}

	r := router.Setup(cfg, authService, handlers, logger)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("Schedule Service started", zap.String("address", addr))

	if err := r.Run(addr); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

func newLogger(env, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	if level != "" {
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}
	return cfg.Build()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
