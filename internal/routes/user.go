package routes

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"rheuma-portal/internal/controllers"
	"rheuma-portal/internal/services"
	"rheuma-portal/pkg/constants"
	"rheuma-portal/pkg/middleware"
)

func runUserRouter(api *echo.Group, userService services.UserServiceInterface, authMW *middleware.AuthMiddleware, logger *zap.Logger) {
	userCtrl := controllers.NewUserController(userService, logger)

	users := api.Group("/users", authMW.Auth, authMW.RequireRole(constants.RoleAdmin))
	users.GET("", userCtrl.GetUsers)
	users.PATCH("/:id/role", userCtrl.ChangeRole)
	users.DELETE("/:id", userCtrl.DeleteUser)
}
