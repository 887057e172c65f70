package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"rheuma-portal/internal/dto"
	"rheuma-portal/internal/entities"
	"rheuma-portal/internal/repositories"
	"rheuma-portal/internal/schema"
	"rheuma-portal/pkg/constants"
	apperrors "rheuma-portal/pkg/errors"
	"rheuma-portal/pkg/types"
	"rheuma-portal/pkg/validation"
)

type RegistrationServiceInterface interface {
	Create(ctx context.Context, payload dto.CreateRegistrationDTO) (*entities.Registration, error)
	List(ctx context.Context, filter types.Filter) ([]entities.Registration, uint64, error)
	Export(ctx context.Context, filter types.Filter, w io.Writer) error
}

type RegistrationService struct {
	repo       repositories.RegistrationRepositoryInterface
	entityRepo repositories.EntityRepositoryInterface
	logger     *zap.Logger
}

func NewRegistrationService(
	repo repositories.RegistrationRepositoryInterface,
	entityRepo repositories.EntityRepositoryInterface,
	logger *zap.Logger,
) RegistrationServiceInterface {
	return &RegistrationService{repo: repo, entityRepo: entityRepo, logger: logger}
}

func (s *RegistrationService) Create(ctx context.Context, payload dto.CreateRegistrationDTO) (*entities.Registration, error) {
	reg := &entities.Registration{
		SchoolType:     strings.TrimSpace(payload.SchoolType),
		LastName:       strings.TrimSpace(payload.LastName),
		FirstName:      strings.TrimSpace(payload.FirstName),
		MiddleName:     strings.TrimSpace(payload.MiddleName),
		Phone:          validation.NormalizePhone(payload.Phone),
		City:           strings.TrimSpace(payload.City),
		Category:       strings.TrimSpace(payload.Category),
		INN:            strings.TrimSpace(payload.INN),
		Email:          strings.ToLower(strings.TrimSpace(payload.Email)),
		Specialization: strings.TrimSpace(payload.Specialization),
		Workplace:      strings.TrimSpace(payload.Workplace),
	}
	if reg.SchoolType == "" {
		reg.SchoolType = constants.SchoolTypeRheumatologist
	}

	if payload.EventID.Valid {
		eventID := uint64(payload.EventID.Int64)
		exists, err := s.entityRepo.Exists(ctx, schema.News, eventID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperrors.NewValidationError("event_id", "мероприятие не найдено")
		}
		reg.EventID = &eventID
	}

	created, err := s.repo.Create(ctx, reg)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Новая заявка", zap.Uint64("id", created.ID), zap.String("school_type", created.SchoolType))
	return created, nil
}

func (s *RegistrationService) List(ctx context.Context, filter types.Filter) ([]entities.Registration, uint64, error) {
	return s.repo.List(ctx, filter)
}

var registrationHeaders = []interface{}{
	"№", "Дата", "Тип", "Мероприятие", "Фамилия", "Имя", "Отчество", "Телефон",
	"Город", "Категория", "ИНН", "Email", "Специализация", "Место работы",
}

func registrationRow(r entities.Registration) []interface{} {
	event := ""
	if r.EventID != nil {
		event = fmt.Sprint(*r.EventID)
	}
	return []interface{}{
		r.ID, r.CreatedAt.Format("02.01.2006 15:04"), r.SchoolType, event, r.LastName, r.FirstName,
		r.MiddleName, r.Phone, r.City, r.Category, r.INN, r.Email, r.Specialization, r.Workplace,
	}
}

// Export пишет xlsx со всеми заявками, попавшими под фильтр (без пагинации).
func (s *RegistrationService) Export(ctx context.Context, filter types.Filter, w io.Writer) error {
	filter.WithPagination = false
	list, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Заявки"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A1", &registrationHeaders); err != nil {
		return err
	}
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	lastHeader, _ := excelize.CoordinatesToCellName(len(registrationHeaders), 1)
	_ = f.SetCellStyle(sheet, "A1", lastHeader, style)

	for i, item := range list {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := registrationRow(item)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(sheet, "B", "B", 18)
	_ = f.SetColWidth(sheet, "E", "H", 20)
	_ = f.SetColWidth(sheet, "L", "N", 30)

	s.logger.Info("Выгрузка заявок", zap.Int("count", len(list)))
	return f.Write(w)
}
