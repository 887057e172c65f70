package services

import (
	"context"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"

	"rheuma-portal/pkg/config"
	apperrors "rheuma-portal/pkg/errors"
	"rheuma-portal/pkg/filestorage"
	"rheuma-portal/pkg/utils"
	"rheuma-portal/pkg/validation"
)

type UploadServiceInterface interface {
	Upload(ctx context.Context, uploadContext string, fileHeader *multipart.FileHeader) (string, error)
}

type UploadService struct {
	fileStorage filestorage.FileStorageInterface
	logger      *zap.Logger
}

func NewUploadService(fileStorage filestorage.FileStorageInterface, logger *zap.Logger) UploadServiceInterface {
	return &UploadService{fileStorage: fileStorage, logger: logger}
}

// Upload проверяет файл по правилам контекста и сохраняет его. Возвращает публичный путь.
func (s *UploadService) Upload(ctx context.Context, uploadContext string, fileHeader *multipart.FileHeader) (string, error) {
	if uploadContext == "" {
		uploadContext = config.DefaultUploadContext
	}
	rules, ok := config.UploadContexts[uploadContext]
	if !ok {
		return "", apperrors.NewHttpError(
			http.StatusBadRequest,
			"Неизвестный контекст загрузки",
			apperrors.ErrBadRequest,
			map[string]interface{}{"context": uploadContext},
		)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", apperrors.NewHttpError(http.StatusBadRequest, "Ошибка обработки файла", err, nil)
	}
	defer src.Close()

	if err := validation.ValidateFile(fileHeader, src, uploadContext); err != nil {
		return "", apperrors.NewHttpError(http.StatusBadRequest, err.Error(), apperrors.ErrBadRequest, nil)
	}

	url, err := s.fileStorage.Save(src, fileHeader.Filename, rules.PathPrefix)
	if err != nil {
		return "", apperrors.NewHttpError(http.StatusInternalServerError, "Не удалось сохранить файл", err, nil)
	}

	userID, _ := utils.GetUserIDFromCtx(ctx)
	s.logger.Info("Файл загружен", zap.String("url", url), zap.String("context", uploadContext), zap.Uint64("userID", userID))
	return url, nil
}
