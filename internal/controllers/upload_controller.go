package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"rheuma-portal/internal/services"
	"rheuma-portal/pkg/constants"
	apperrors "rheuma-portal/pkg/errors"
	"rheuma-portal/pkg/utils"
)

type UploadController struct {
	uploadService services.UploadServiceInterface
	logger        *zap.Logger
}

func NewUploadController(uploadService services.UploadServiceInterface, logger *zap.Logger) *UploadController {
	return &UploadController{uploadService: uploadService, logger: logger}
}

// Upload принимает multipart-поле file и необязательный context (image, photo, logo, document).
func (ctrl *UploadController) Upload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c,
			apperrors.NewHttpError(http.StatusBadRequest, "Файл не был передан", apperrors.ErrBadRequest, nil),
			ctrl.logger,
		)
	}

	ctx, cancel := utils.Ctx(c, constants.RequestTimeout)
	defer cancel()

	url, err := ctrl.uploadService.Upload(ctx, c.FormValue("context"), fileHeader)
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}
	return utils.SuccessResponse(c, map[string]string{"url": url}, "Файл успешно загружен", http.StatusCreated)
}
