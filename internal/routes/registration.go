package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"rheuma-portal/internal/controllers"
	"rheuma-portal/internal/services"
	"rheuma-portal/pkg/middleware"
)

func runRegistrationRouter(api *echo.Group, registrationService services.RegistrationServiceInterface, authMW *middleware.AuthMiddleware, logger *zap.Logger) {
	ctrl := controllers.NewRegistrationController(registrationService, logger)

	api.POST("/registrations", ctrl.Create)

	staff := api.Group("/registrations", authMW.Auth, authMW.RequireStaff())
	staff.GET("", ctrl.List)
	staff.GET("/export", ctrl.Export)
}
