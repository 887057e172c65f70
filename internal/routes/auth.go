package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"rheuma-portal/internal/controllers"
	"rheuma-portal/internal/services"
	"rheuma-portal/pkg/middleware"
)

func runAuthRouter(api *echo.Group, authService services.AuthServiceInterface, authMW *middleware.AuthMiddleware, logger *zap.Logger) {
	authCtrl := controllers.NewAuthController(authService, logger)

	authGroup := api.Group("/auth")
	authGroup.POST("/login", authCtrl.Login)
	authGroup.POST("/register", authCtrl.Register)
	authGroup.GET("/me", authCtrl.Me, authMW.Auth)
}
