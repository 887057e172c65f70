package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"rheuma-portal/internal/dto"
	"rheuma-portal/internal/entities"
	"rheuma-portal/internal/schema"
	"rheuma-portal/internal/services"
	"rheuma-portal/pkg/constants"
	apperrors "rheuma-portal/pkg/errors"
	"rheuma-portal/pkg/i18n"
	"rheuma-portal/pkg/types"
	"rheuma-portal/pkg/utils"
)

// EntityController обслуживает /api/:entity для всех типов контента.
type EntityController struct {
	entityService services.EntityServiceInterface
	logger        *zap.Logger
}

func NewEntityController(entityService services.EntityServiceInterface, logger *zap.Logger) *EntityController {
	return &EntityController{entityService: entityService, logger: logger}
}

func parseID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewHttpError(
			http.StatusBadRequest,
			"Неверный ID",
			apperrors.ErrBadRequest,
			map[string]interface{}{"param": c.Param("id")},
		)
	}
	return id, nil
}

// listFilter добавляет к общим параметрам ?news_type= и фильтруемые колонки сущности (?region=).
func listFilter(c echo.Context, e *schema.Entity) types.Filter {
	query := c.QueryParams()
	filter := utils.ParseFilterFromQuery(query)
	if filter.Type == "" && e.TypeColumn != "" {
		filter.Type = query.Get(e.TypeColumn)
	}
	for _, col := range e.FilterColumns {
		if v := query.Get(col); v != "" {
			filter.Filter[col] = utils.ParseScalar(v)
		}
	}
	return filter
}

// localeQuery читает ?lang=; неизвестный язык - 400.
func localeQuery(c echo.Context) (dto.LocaleQueryDTO, error) {
	var q dto.LocaleQueryDTO
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &q); err != nil {
		return q, apperrors.NewBadRequestError("Неверные параметры запроса")
	}
	if err := c.Validate(&q); err != nil {
		return q, err
	}
	return q, nil
}

// localize разворачивает X_ru/X_uz/X_en в X, только если клиент явно попросил язык.
func localize(q dto.LocaleQueryDTO, e *schema.Entity, records ...entities.Record) []entities.Record {
	if q.Lang == "" {
		return records
	}
	locale := i18n.Normalize(q.Lang)
	attrs := e.LocalizedAttributes()
	out := make([]entities.Record, len(records))
	for i, r := range records {
		out[i] = i18n.Localize(r, attrs, locale)
	}
	return out
}

func (ctrl *EntityController) List(c echo.Context) error {
	e, err := schema.Lookup(c.Param("entity"))
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	q, err := localeQuery(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	ctx, cancel := utils.Ctx(c, constants.RequestTimeout)
	defer cancel()

	filter := listFilter(c, e)
	list, total, err := ctrl.entityService.List(ctx, e.Name, filter)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessListResponse(c, localize(q, e, list...), types.NewPagination(total, filter), "Список получен")
}

func (ctrl *EntityController) Get(c echo.Context) error {
	e, err := schema.Lookup(c.Param("entity"))
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	id, err := parseID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	q, err := localeQuery(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	ctx, cancel := utils.Ctx(c, constants.RequestTimeout)
	defer cancel()

	record, err := ctrl.entityService.Get(ctx, e.Name, id)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, localize(q, e, record)[0], "Запись найдена", http.StatusOK)
}

func (ctrl *EntityController) bindInput(c echo.Context) (map[string]interface{}, error) {
	var input map[string]interface{}
	dec := json.NewDecoder(c.Request().Body)
	dec.UseNumber()
	if err := dec.Decode(&input); err != nil {
		ctrl.logger.Warn("Неверное тело запроса", zap.String("entity", c.Param("entity")), zap.Error(err))
		return nil, apperrors.NewBadRequestError("Неверный формат JSON")
	}
	return input, nil
}

func (ctrl *EntityController) Create(c echo.Context) error {
	input, err := ctrl.bindInput(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	ctx, cancel := utils.Ctx(c, constants.RequestTimeout)
	defer cancel()

	created, err := ctrl.entityService.Create(ctx, c.Param("entity"), input)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, created, "Запись создана", http.StatusCreated)
}

// Update обслуживает и PUT, и PATCH: меняются только присланные колонки.
func (ctrl *EntityController) Update(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	input, err := ctrl.bindInput(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	ctx, cancel := utils.Ctx(c, constants.RequestTimeout)
	defer cancel()

	updated, err := ctrl.entityService.Update(ctx, c.Param("entity"), id, input)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, updated, "Запись обновлена", http.StatusOK)
}

func (ctrl *EntityController) Delete(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	ctx, cancel := utils.Ctx(c, constants.RequestTimeout)
	defer cancel()

	if err := ctrl.entityService.Delete(ctx, c.Param("entity"), id); err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, nil, "Запись удалена", http.StatusOK)
}
