package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"rheuma-portal/internal/jobs"
	"rheuma-portal/internal/repositories"
	"rheuma-portal/internal/routes"
	"rheuma-portal/migrations"
	"rheuma-portal/pkg/config"
	"rheuma-portal/pkg/database/postgresql"
	apperrors "rheuma-portal/pkg/errors"
	"rheuma-portal/pkg/filestorage"
	applogger "rheuma-portal/pkg/logger"
	"rheuma-portal/pkg/middleware"
	"rheuma-portal/pkg/service"
	"rheuma-portal/pkg/utils"
	"rheuma-portal/pkg/validation"
)

func main() {
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log.Level, cfg.Log.File)
	defer logger.Sync()

	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.RecoverWithConfig(echomw.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("!!! ОБНАРУЖЕНА ПАНИКА (PANIC) !!!",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))

	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:  cfg.Server.AllowedOrigins,
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, "Lang"},
		ExposeHeaders: []string{echo.HeaderContentDisposition, "Content-Language"},
	}))
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.Locale())
	e.Validator = validation.New()

	// Статика загрузок
	uploadDir, err := filepath.Abs(cfg.Media.UploadDir)
	if err != nil {
		logger.Fatal("не удалось получить абсолютный путь к каталогу загрузок", zap.Error(err))
	}
	fileStorage, err := filestorage.NewLocalFileStorage(uploadDir)
	if err != nil {
		logger.Fatal("не удалось подготовить каталог загрузок", zap.Error(err))
	}
	e.Static("/uploads", uploadDir)

	dbConn, err := postgresql.ConnectDB(cfg.Postgres.DSN)
	if err != nil {
		logger.Fatal("не удалось подключиться к БД", zap.Error(err))
	}
	defer dbConn.Close()

	if err := migrations.Up(dbConn); err != nil {
		logger.Fatal("ошибка миграций", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		// Без Redis сайт работает: кеш пропускается, блокировка входа не считается.
		logger.Warn("не удалось подключиться к Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}
	defer redisClient.Close()

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, logger)

	loggers := &routes.Loggers{
		Main:    logger,
		Auth:    logger.Named("auth"),
		User:    logger.Named("user"),
		Content: logger.Named("content"),
	}
	svc := routes.NewServices(dbConn, redisClient, jwtSvc, fileStorage, loggers, cfg)
	routes.InitRouter(e, svc, middleware.NewAuthMiddleware(jwtSvc, logger), loggers)

	scheduler := cron.New()
	cleanup := jobs.NewUploadCleanup(
		fileStorage,
		repositories.NewEntityRepository(dbConn, repositories.NewTxManager(dbConn), loggers.Content),
		cfg.Jobs.UploadCleanupGrace,
		logger,
	)
	if _, err := cleanup.Schedule(scheduler, cfg.Jobs.UploadCleanupSpec); err != nil {
		logger.Fatal("неверное расписание очистки загрузок", zap.Error(err), zap.String("spec", cfg.Jobs.UploadCleanupSpec))
	}
	scheduler.Start()

	go func() {
		logger.Info("🚀 Сервер запущен", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Ошибка запуска сервера", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	<-scheduler.Stop().Done()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Ошибка остановки сервера", zap.Error(err))
	}
}
