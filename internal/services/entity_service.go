package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"rheuma-portal/internal/entities"
	"rheuma-portal/internal/repositories"
	"rheuma-portal/internal/schema"
	"rheuma-portal/pkg/constants"
	apperrors "rheuma-portal/pkg/errors"
	"rheuma-portal/pkg/types"
	"rheuma-portal/pkg/utils"
)

// EntityServiceInterface - CRUD всех типов контента по имени сущности из URL.
// Права определяются по роли из контекста: не-сотрудники видят только активные записи.
type EntityServiceInterface interface {
	List(ctx context.Context, entityName string, filter types.Filter) ([]entities.Record, uint64, error)
	Get(ctx context.Context, entityName string, id uint64) (entities.Record, error)
	Create(ctx context.Context, entityName string, input map[string]interface{}) (entities.Record, error)
	Update(ctx context.Context, entityName string, id uint64, input map[string]interface{}) (entities.Record, error)
	Delete(ctx context.Context, entityName string, id uint64) error
}

type EntityService struct {
	*BaseService
	repo     repositories.EntityRepositoryInterface
	cacheTTL time.Duration
	logger   *zap.Logger
}

func NewEntityService(
	repo repositories.EntityRepositoryInterface,
	cache repositories.CacheRepositoryInterface,
	cacheTTL time.Duration,
	logger *zap.Logger,
) EntityServiceInterface {
	return &EntityService{
		BaseService: NewBaseService(cache, logger),
		repo:        repo,
		cacheTTL:    cacheTTL,
		logger:      logger,
	}
}

type cachedList struct {
	List  []entities.Record `json:"list"`
	Total uint64            `json:"total"`
}

func versionKey(entityName string) string {
	return constants.PublicVersionKeyPrefix + entityName
}

func listCacheKey(entityName string, version int64, filter types.Filter) string {
	params, _ := json.Marshal(filter)
	return fmt.Sprintf("%s%s:v%d:%s", constants.PublicListCachePrefix, entityName, version, params)
}

func (s *EntityService) List(ctx context.Context, entityName string, filter types.Filter) ([]entities.Record, uint64, error) {
	e, err := schema.Lookup(entityName)
	if err != nil {
		return nil, 0, err
	}

	staff := utils.IsStaffCtx(ctx)
	if !staff {
		filter.ActiveOnly = true
		version, ok := s.CacheVersion(ctx, versionKey(e.Name))
		if ok {
			key := listCacheKey(e.Name, version, filter)
			var cached cachedList
			if s.CacheGet(ctx, key, &cached) {
				return cached.List, cached.Total, nil
			}
			list, total, err := s.repo.List(ctx, e, filter)
			if err != nil {
				return nil, 0, err
			}
			s.CacheSet(ctx, key, cachedList{List: list, Total: total}, s.cacheTTL)
			return list, total, nil
		}
	}
	return s.repo.List(ctx, e, filter)
}

func (s *EntityService) Get(ctx context.Context, entityName string, id uint64) (entities.Record, error) {
	e, err := schema.Lookup(entityName)
	if err != nil {
		return nil, err
	}
	record, err := s.repo.Find(ctx, e, id)
	if err != nil {
		return nil, err
	}
	if !utils.IsStaffCtx(ctx) && e.ActiveColumn != "" && !record.Bool(e.ActiveColumn) {
		return nil, apperrors.ErrNotFound
	}
	return record, nil
}

func (s *EntityService) Create(ctx context.Context, entityName string, input map[string]interface{}) (entities.Record, error) {
	e, err := s.staffEntity(ctx, entityName)
	if err != nil {
		return nil, err
	}
	clean, err := e.Sanitize(input, false)
	if err != nil {
		return nil, err
	}
	if err := e.Validate(clean, false); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, e, clean); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, e, clean)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, e)
	return created, nil
}

// Update меняет только присланные колонки.
func (s *EntityService) Update(ctx context.Context, entityName string, id uint64, input map[string]interface{}) (entities.Record, error) {
	e, err := s.staffEntity(ctx, entityName)
	if err != nil {
		return nil, err
	}
	clean, err := e.Sanitize(input, true)
	if err != nil {
		return nil, err
	}
	if e.Check == nil {
		err = e.Validate(clean, true)
	} else {
		// Межполевым проверкам нужны и несохранённые колонки.
		stored, findErr := s.repo.Find(ctx, e, id)
		if findErr != nil {
			return nil, findErr
		}
		err = e.ValidateUpdate(stored, clean)
	}
	if err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, e, clean); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, e, id, clean)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, e)
	return updated, nil
}

func (s *EntityService) Delete(ctx context.Context, entityName string, id uint64) error {
	e, err := s.staffEntity(ctx, entityName)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, e, id); err != nil {
		return err
	}
	userID, _ := utils.GetUserIDFromCtx(ctx)
	s.logger.Info("Запись удалена", zap.String("entity", e.Name), zap.Uint64("id", id), zap.Uint64("userID", userID))
	s.invalidate(ctx, e)
	return nil
}

func (s *EntityService) staffEntity(ctx context.Context, entityName string) (*schema.Entity, error) {
	if _, err := utils.GetUserIDFromCtx(ctx); err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	if !utils.IsStaffCtx(ctx) {
		return nil, apperrors.ErrForbidden
	}
	return schema.Lookup(entityName)
}

// checkReferences проверяет, что ссылки (center_id) указывают на существующие записи.
func (s *EntityService) checkReferences(ctx context.Context, e *schema.Entity, record entities.Record) error {
	var verr *apperrors.ValidationError
	for _, f := range e.Fields {
		if f.Kind != schema.Reference {
			continue
		}
		id, ok := record[f.Name].(int64)
		if !ok || id <= 0 {
			continue
		}
		target, err := schema.Lookup(f.References)
		if err != nil {
			return err
		}
		exists, err := s.repo.Exists(ctx, target, uint64(id))
		if err != nil {
			return err
		}
		if !exists {
			verr = verr.Add(f.Name, "связанная запись не найдена")
		}
	}
	if verr != nil {
		return verr
	}
	return nil
}

// invalidate сбрасывает публичные списки сущности и её зависимых.
func (s *EntityService) invalidate(ctx context.Context, e *schema.Entity) {
	s.CacheBump(ctx, versionKey(e.Name))
	for _, child := range e.Children {
		s.CacheBump(ctx, versionKey(child.Entity))
	}
}
