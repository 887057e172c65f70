package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"rheuma-portal/internal/dto"
	"rheuma-portal/internal/services"
	"rheuma-portal/pkg/constants"
	apperrors "rheuma-portal/pkg/errors"
	"rheuma-portal/pkg/types"
	"rheuma-portal/pkg/utils"
)

type UserController struct {
	userService services.UserServiceInterface
	logger      *zap.Logger
}

func NewUserController(userService services.UserServiceInterface, logger *zap.Logger) *UserController {
	return &UserController{userService: userService, logger: logger}
}

func (ctrl *UserController) GetUsers(c echo.Context) error {
	ctx, cancel := utils.Ctx(c, constants.RequestTimeout)
	defer cancel()

	filter := utils.ParseFilterFromQuery(c.QueryParams())
	users, total, err := ctrl.userService.GetUsers(ctx, filter)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessListResponse(c, dto.NewUserPublicDTOs(users), types.NewPagination(total, filter), "Пользователи успешно получены")
}

func (ctrl *UserController) ChangeRole(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	var payload dto.UpdateRoleDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("Неверный формат данных"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	ctx, cancel := utils.Ctx(c, constants.RequestTimeout)
	defer cancel()

	user, err := ctrl.userService.ChangeRole(ctx, id, payload.Role)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, dto.NewUserPublicDTO(user), "Роль пользователя изменена", http.StatusOK)
}

func (ctrl *UserController) DeleteUser(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	ctx, cancel := utils.Ctx(c, constants.RequestTimeout)
	defer cancel()

	if err := ctrl.userService.DeleteUser(ctx, id); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, nil, "Пользователь удалён", http.StatusOK)
}
