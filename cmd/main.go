package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	configs "github.com/sunrinpass/server/config"
	"github.com/sunrinpass/server/internal/constants"
	"github.com/sunrinpass/server/internal/handler"
	"github.com/sunrinpass/server/internal/middleware"
	"github.com/sunrinpass/server/internal/repository"
	"github.com/sunrinpass/server/internal/router"
	"github.com/sunrinpass/server/internal/service"
	"github.com/sunrinpass/server/internal/session"
	"github.com/sunrinpass/server/pkg/database"
	"github.com/sunrinpass/server/pkg/logger"
	"github.com/sunrinpass/server/pkg/redis"
)

func main() {
	config, err := configs.LoadConfig()
	if err != nil {
		panic("Failed to load config: " + err.Error())
	}

	if err := logger.InitLogger(config.App.Environment); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	logger.GetLogger().Info("Application starting",
		zap.String("app_name", config.App.Name),
		zap.String("environment", config.App.Environment),
		zap.String("version", constants.AppVersion),
	)

	dbConfig := database.DefaultConfig()
	dbConfig.Host = config.Database.Host
	dbConfig.Port = config.Database.Port
	dbConfig.User = config.Database.User
	dbConfig.Password = config.Database.Password
	dbConfig.Database = config.Database.Name
	dbConfig.SSLMode = config.Database.SSLMode

	db, err := database.NewPostgresDB(dbConfig)
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db)

	if err := database.AutoMigrate(db); err != nil {
		logger.GetLogger().Fatal("Failed to run database migrations", zap.Error(err))
	}
	logger.GetLogger().Info("Database migrated successfully")

	redisClient, err := redis.NewClient(redis.Config{
		Addr:         config.RedisAddress(),
		Password:     config.Redis.Password,
		DB:           config.Redis.Database,
		PoolSize:     config.Redis.PoolSize,
		MinIdleConns: config.Redis.MinIdleConns,
		DialTimeout:  config.Redis.DialTimeout,
		ReadTimeout:  config.Redis.ReadTimeout,
		WriteTimeout: config.Redis.WriteTimeout,
	})
	if err != nil {
		logger.GetLogger().Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	passRepo := repository.NewPassRepository(db)

	// Services
	tokenService := service.NewTokenService(userRepo, config)
	authService := service.NewAuthService(userRepo, tokenService)
	qrService := service.NewQRCodeService(config.QR.Secret)
	passService := service.NewPassService(passRepo, userRepo, qrService)
	userService := service.NewUserService(userRepo)

	loginStates := session.NewStore(redisClient, constants.LoginStateKeyPrefix, config.Google.StateTTL)

	// Handlers and middleware
	sessionMw := middleware.NewSessionMiddleware(tokenService)
	authHandler := handler.NewAuthHandler(authService, tokenService, loginStates, config.Google)
	passHandler := handler.NewPassHandler(passService)
	userHandler := handler.NewUserHandler(userService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	engine := router.NewRouter(
		authHandler,
		passHandler,
		userHandler,
		healthHandler,
		sessionMw,
		config,
	).SetupRoutes()

	server := &http.Server{
		Addr:    ":" + config.App.Port,
		Handler: engine,
	}

	go func() {
		logger.GetLogger().Info("Server starting",
			zap.String("port", config.App.Port),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.GetLogger().Fatal("Failed to start server",
				zap.Error(err),
				zap.String("port", config.App.Port),
			)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.GetLogger().Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.GetLogger().Error("Forced shutdown", zap.Error(err))
	}
}
