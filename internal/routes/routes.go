package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"rheuma-portal/internal/repositories"
	"rheuma-portal/internal/services"
	"rheuma-portal/pkg/config"
	"rheuma-portal/pkg/filestorage"
	"rheuma-portal/pkg/middleware"
	"rheuma-portal/pkg/service"
)

type Loggers struct {
	Main    *zap.Logger
	Auth    *zap.Logger
	User    *zap.Logger
	Content *zap.Logger
}

// Services - всё, что нужно маршрутам. В тестах заполняется фейками.
type Services struct {
	Entity       services.EntityServiceInterface
	Auth         services.AuthServiceInterface
	User         services.UserServiceInterface
	Registration services.RegistrationServiceInterface
	Upload       services.UploadServiceInterface
}

// NewServices собирает репозитории и сервисы поверх пула БД, Redis и файлового хранилища.
func NewServices(
	dbConn *pgxpool.Pool,
	redisClient *redis.Client,
	jwtSvc service.JWTService,
	fileStorage filestorage.FileStorageInterface,
	loggers *Loggers,
	cfg *config.Config,
) *Services {
	txManager := repositories.NewTxManager(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// --- 1. РЕПОЗИТОРИИ ---
	entityRepo := repositories.NewEntityRepository(dbConn, txManager, loggers.Content)
	userRepo := repositories.NewUserRepository(dbConn, loggers.User)
	registrationRepo := repositories.NewRegistrationRepository(dbConn, loggers.Content)

	// --- 2. СЕРВИСЫ ---
	return &Services{
		Entity:       services.NewEntityService(entityRepo, cacheRepo, cfg.Cache.PublicListTTL, loggers.Content),
		Auth:         services.NewAuthService(userRepo, cacheRepo, jwtSvc, loggers.Auth, &cfg.Auth),
		User:         services.NewUserService(userRepo, loggers.User),
		Registration: services.NewRegistrationService(registrationRepo, entityRepo, loggers.Content),
		Upload:       services.NewUploadService(fileStorage, loggers.Content),
	}
}

func InitRouter(e *echo.Echo, svc *Services, authMW *middleware.AuthMiddleware, loggers *Loggers) {
	loggers.Main.Info("InitRouter: Начало создания маршрутов")

	api := e.Group("/api")

	runAuthRouter(api, svc.Auth, authMW, loggers.Auth)
	runUserRouter(api, svc.User, authMW, loggers.User)
	runRegistrationRouter(api, svc.Registration, authMW, loggers.Content)
	runUploadRouter(api, svc.Upload, authMW, loggers.Content)
	// Последним: /api/:entity не должен перекрывать именованные маршруты.
	runEntityRouter(api, svc.Entity, authMW, loggers.Content)

	loggers.Main.Info("INIT_ROUTER: Создание маршрутов завершено")
}
