package utils

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "rheuma-portal/pkg/errors"
	"rheuma-portal/pkg/types"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

// ListBody - тело ответа со списком.
type ListBody struct {
	List       interface{}      `json:"list"`
	Pagination types.Pagination `json:"pagination"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int) error {
	return ctx.JSON(code, &HTTPResponse{Status: true, Body: body, Message: message})
}

func SuccessListResponse(ctx echo.Context, list interface{}, pagination types.Pagination, message string) error {
	return SuccessResponse(ctx, ListBody{List: list, Pagination: pagination}, message, http.StatusOK)
}

// statusBySentinel - коды для ошибок без HttpError.
var statusBySentinel = []struct {
	err  error
	code int
}{
	{apperrors.ErrNotFound, http.StatusNotFound},
	{apperrors.ErrUserNotFound, http.StatusNotFound},
	{apperrors.ErrUnknownEntity, http.StatusNotFound},
	{apperrors.ErrUnauthorized, http.StatusUnauthorized},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
	{apperrors.ErrInvalidToken, http.StatusUnauthorized},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized},
	{apperrors.ErrEmptyAuthHeader, http.StatusUnauthorized},
	{apperrors.ErrInvalidAuthHeader, http.StatusUnauthorized},
	{apperrors.ErrUserIDNotFoundInContext, http.StatusUnauthorized},
	{apperrors.ErrForbidden, http.StatusForbidden},
	{apperrors.ErrConflict, http.StatusConflict},
	{apperrors.ErrTooManyRequests, http.StatusTooManyRequests},
	{apperrors.ErrBadRequest, http.StatusBadRequest},
}

func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Code >= http.StatusInternalServerError {
			logger.Error("HTTP Error", zap.Int("code", httpErr.Code), zap.String("message", httpErr.Message), zap.Error(httpErr.Err))
		}
		response := HTTPResponse{Status: false, Message: httpErr.Message}
		if httpErr.Details != nil {
			response.Body = httpErr.Details
		}
		return c.JSON(httpErr.Code, response)
	}

	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		return c.JSON(http.StatusBadRequest, HTTPResponse{Status: false, Message: "Ошибка валидации", Body: validationErr.Fields})
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		fields := make(map[string]string, len(validationErrors))
		for _, e := range validationErrors {
			fields[e.Field()] = "не прошло проверку '" + e.Tag() + "'"
		}
		return c.JSON(http.StatusBadRequest, HTTPResponse{Status: false, Message: "Ошибка валидации", Body: fields})
	}

	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) && echoErr.Code < http.StatusInternalServerError {
		msg, _ := echoErr.Message.(string)
		if msg == "" {
			msg = http.StatusText(echoErr.Code)
		}
		return c.JSON(echoErr.Code, HTTPResponse{Status: false, Message: msg})
	}

	for _, s := range statusBySentinel {
		if errors.Is(err, s.err) {
			return c.JSON(s.code, HTTPResponse{Status: false, Message: s.err.Error()})
		}
	}

	logger.Error("Unexpected Error", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, HTTPResponse{Status: false, Message: "Внутренняя ошибка сервера"})
}
