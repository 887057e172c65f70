package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"rheuma-portal/internal/dto"
	"rheuma-portal/internal/services"
	"rheuma-portal/pkg/constants"
	apperrors "rheuma-portal/pkg/errors"
	"rheuma-portal/pkg/types"
	"rheuma-portal/pkg/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type RegistrationController struct {
	registrationService services.RegistrationServiceInterface
	logger              *zap.Logger
}

func NewRegistrationController(registrationService services.RegistrationServiceInterface, logger *zap.Logger) *RegistrationController {
	return &RegistrationController{registrationService: registrationService, logger: logger}
}

// registrationFilter понимает ?school_type= и ?event_id= помимо общих параметров.
func registrationFilter(c echo.Context) types.Filter {
	filter := utils.ParseFilterFromQuery(c.QueryParams())
	if v := c.QueryParam("school_type"); v != "" {
		filter.Type = v
	}
	if v := c.QueryParam("event_id"); v != "" {
		filter.Filter["event_id"] = utils.ParseScalar(v)
	}
	return filter
}

func (ctrl *RegistrationController) Create(c echo.Context) error {
	var payload dto.CreateRegistrationDTO
	if err := c.Bind(&payload); err != nil {
		return utils.ErrorResponse(c, apperrors.NewBadRequestError("Неверный формат данных заявки"), ctrl.logger)
	}
	if err := c.Validate(&payload); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	ctx, cancel := utils.Ctx(c, constants.RequestTimeout)
	defer cancel()

	created, err := ctrl.registrationService.Create(ctx, payload)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, created, "Заявка принята", http.StatusCreated)
}

func (ctrl *RegistrationController) List(c echo.Context) error {
	ctx, cancel := utils.Ctx(c, constants.RequestTimeout)
	defer cancel()

	filter := registrationFilter(c)
	list, total, err := ctrl.registrationService.List(ctx, filter)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessListResponse(c, list, types.NewPagination(total, filter), "Заявки получены")
}

func (ctrl *RegistrationController) Export(c echo.Context) error {
	ctx, cancel := utils.Ctx(c, constants.RequestTimeout)
	defer cancel()

	// Книга собирается целиком до заголовков: ошибка должна уйти JSON-ом, а не обрезанным xlsx.
	var buf bytes.Buffer
	if err := ctrl.registrationService.Export(ctx, registrationFilter(c), &buf); err != nil {
		ctrl.logger.Error("Ошибка выгрузки заявок", zap.Error(err))
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	fileName := fmt.Sprintf("registrations_%s.xlsx", time.Now().Format("2006-01-02"))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", fileName))
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}
