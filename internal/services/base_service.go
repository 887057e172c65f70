package services

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"rheuma-portal/internal/repositories"
)

// BaseService - общий кеш для сервисов. Ошибки кеша только логируются:
// запрос обслуживается из БД.
type BaseService struct {
	cache  repositories.CacheRepositoryInterface
	logger *zap.Logger
}

func NewBaseService(cache repositories.CacheRepositoryInterface, logger *zap.Logger) *BaseService {
	return &BaseService{cache: cache, logger: logger}
}

// CacheGet получает данные из кэша
func (s *BaseService) CacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, repositories.ErrCacheMiss) {
			s.logger.Warn("Ошибка чтения кэша", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal([]byte(cached), dest); err != nil {
		s.logger.Warn("Повреждённая запись кэша", zap.String("key", key), zap.Error(err))
		return false
	}
	s.logger.Debug("Данные получены из кэша", zap.String("key", key))
	return true
}

// CacheSet сохраняет данные в кэш
func (s *BaseService) CacheSet(ctx context.Context, key string, data interface{}, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	serialized, err := json.Marshal(data)
	if err != nil {
		s.logger.Warn("Не удалось сериализовать данные для кэша", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, serialized, ttl); err != nil {
		s.logger.Warn("Ошибка записи кэша", zap.String("key", key), zap.Error(err))
	}
}

// CacheVersion читает счётчик версии; ok=false - кешем пользоваться нельзя.
func (s *BaseService) CacheVersion(ctx context.Context, key string) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}
	raw, err := s.cache.Get(ctx, key)
	if errors.Is(err, repositories.ErrCacheMiss) {
		return 0, true
	}
	if err != nil {
		s.logger.Warn("Ошибка чтения версии кэша", zap.String("key", key), zap.Error(err))
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// CacheBump увеличивает версию: старые записи становятся недостижимы и истекают по TTL.
func (s *BaseService) CacheBump(ctx context.Context, key string) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Incr(ctx, key); err != nil {
		s.logger.Warn("Не удалось сбросить кэш", zap.String("key", key), zap.Error(err))
	}
}
