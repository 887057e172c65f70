package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"rheuma-portal/internal/controllers"
	"rheuma-portal/internal/services"
	"rheuma-portal/pkg/middleware"
)

// runEntityRouter: чтение публичное (токен необязателен), запись только для сотрудников.
func runEntityRouter(api *echo.Group, entityService services.EntityServiceInterface, authMW *middleware.AuthMiddleware, logger *zap.Logger) {
	ctrl := controllers.NewEntityController(entityService, logger)

	api.GET("/:entity", ctrl.List, authMW.OptionalAuth)
	api.GET("/:entity/:id", ctrl.Get, authMW.OptionalAuth)

	staff := []echo.MiddlewareFunc{authMW.Auth, authMW.RequireStaff()}
	api.POST("/:entity", ctrl.Create, staff...)
	api.PUT("/:entity/:id", ctrl.Update, staff...)
	api.PATCH("/:entity/:id", ctrl.Update, staff...)
	api.DELETE("/:entity/:id", ctrl.Delete, staff...)
}
