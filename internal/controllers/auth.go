package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"rheuma-portal/internal/dto"
	"rheuma-portal/internal/services"
	"rheuma-portal/pkg/constants"
	apperrors "rheuma-portal/pkg/errors"
	"rheuma-portal/pkg/utils"
)

type AuthController struct {
	authService services.AuthServiceInterface
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, logger *zap.Logger) *AuthController {
	return &AuthController{authService: authService, logger: logger}
}

func (ctrl *AuthController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

// Login принимает форму username/password.
func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO

	if err := c.Bind(&payload); err != nil {
		ctrl.logger.Error("Login: ошибка привязки данных", zap.Error(err))
		return ctrl.errorResponse(c, apperrors.NewBadRequestError("Неверный формат данных для входа"))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	ctx, cancel := utils.Ctx(c, constants.RequestTimeout)
	defer cancel()

	res, err := ctrl.authService.Login(ctx, payload)
	if err != nil {
		ctrl.logger.Warn("Login: ошибка авторизации", zap.String("login", payload.Username), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, res, "Авторизация прошла успешно", http.StatusOK)
}

func (ctrl *AuthController) Register(c echo.Context) error {
	var payload dto.RegisterDTO

	if err := c.Bind(&payload); err != nil {
		return ctrl.errorResponse(c, apperrors.NewBadRequestError("Неверный формат данных"))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	ctx, cancel := utils.Ctx(c, constants.RequestTimeout)
	defer cancel()

	user, err := ctrl.authService.Register(ctx, payload)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, dto.NewUserPublicDTO(user), "Регистрация прошла успешно", http.StatusCreated)
}

func (ctrl *AuthController) Me(c echo.Context) error {
	userID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return ctrl.errorResponse(c, apperrors.ErrUnauthorized)
	}

	ctx, cancel := utils.Ctx(c, constants.RequestTimeout)
	defer cancel()

	user, err := ctrl.authService.GetUserByID(ctx, userID)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}
	return utils.SuccessResponse(c, dto.NewUserPublicDTO(user), "Данные пользователя получены", http.StatusOK)
}
