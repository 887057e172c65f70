package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"rheuma-portal/internal/controllers"
	"rheuma-portal/internal/services"
	"rheuma-portal/pkg/middleware"
)

func runUploadRouter(api *echo.Group, uploadService services.UploadServiceInterface, authMW *middleware.AuthMiddleware, logger *zap.Logger) {
	uploadController := controllers.NewUploadController(uploadService, logger)

	api.POST("/upload", uploadController.Upload, authMW.Auth, authMW.RequireStaff())
}
