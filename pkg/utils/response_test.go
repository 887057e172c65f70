package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "rheuma-portal/pkg/errors"
)

func errorResponse(t *testing.T, err error) (int, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, ErrorResponse(c, err, zap.NewNop()))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["status"])
	return rec.Code, body
}

func TestErrorResponse_Mapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{apperrors.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("find: %w", apperrors.ErrNotFound), http.StatusNotFound},
		{apperrors.ErrUnauthorized, http.StatusUnauthorized},
		{apperrors.ErrForbidden, http.StatusForbidden},
		{apperrors.ErrTooManyRequests, http.StatusTooManyRequests},
		{apperrors.NewHttpError(http.StatusConflict, "занято", apperrors.ErrConflict, nil), http.StatusConflict},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		code, _ := errorResponse(t, tc.err)
		assert.Equal(t, tc.code, code, tc.err.Error())
	}
}

func TestErrorResponse_ValidationDetails(t *testing.T) {
	code, body := errorResponse(t, apperrors.NewValidationError("title_ru", "обязательное поле"))

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, map[string]interface{}{"title_ru": "обязательное поле"}, body["body"])
}

func TestErrorResponse_HidesInternalMessage(t *testing.T) {
	_, body := errorResponse(t, errors.New("pq: password authentication failed"))
	assert.Equal(t, "Внутренняя ошибка сервера", body["message"])
}

func TestSuccessResponse_Envelope(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, SuccessResponse(c, map[string]string{"url": "/uploads/a.png"}, "ok", http.StatusCreated))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"status":true,"message":"ok","body":{"url":"/uploads/a.png"}}`, rec.Body.String())
}
