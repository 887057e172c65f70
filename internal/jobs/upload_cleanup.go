package jobs

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"rheuma-portal/internal/repositories"
	"rheuma-portal/internal/schema"
	"rheuma-portal/pkg/filestorage"
)

// UploadCleanup удаляет загруженные файлы, на которые не ссылается ни одна запись.
// Файлы моложе grace не трогаются: их могли загрузить для ещё не сохранённой формы.
type UploadCleanup struct {
	storage  filestorage.FileStorageInterface
	repo     repositories.EntityRepositoryInterface
	entities []*schema.Entity
	grace    time.Duration
	logger   *zap.Logger
	now      func() time.Time
}

func NewUploadCleanup(
	storage filestorage.FileStorageInterface,
	repo repositories.EntityRepositoryInterface,
	grace time.Duration,
	logger *zap.Logger,
) *UploadCleanup {
	return &UploadCleanup{
		storage:  storage,
		repo:     repo,
		entities: schema.All(),
		grace:    grace,
		logger:   logger.Named("upload_cleanup"),
		now:      time.Now,
	}
}

// Run выполняет один проход и возвращает число удалённых файлов.
func (j *UploadCleanup) Run(ctx context.Context) (int, error) {
	referenced := make(map[string]struct{})
	for _, e := range j.entities {
		refs, err := j.repo.FileReferences(ctx, e)
		if err != nil {
			return 0, fmt.Errorf("ссылки на файлы %s: %w", e.Name, err)
		}
		for _, r := range refs {
			if p, ok := storedPath(r); ok {
				referenced[p] = struct{}{}
			}
		}
	}

	files, err := j.storage.List()
	if err != nil {
		return 0, fmt.Errorf("список файлов: %w", err)
	}

	cutoff := j.now().Add(-j.grace)
	removed := 0
	for _, f := range files {
		if _, ok := referenced[f.URL]; ok || f.ModTime.After(cutoff) {
			continue
		}
		if err := j.storage.Delete(f.URL); err != nil {
			j.logger.Warn("Не удалось удалить файл", zap.String("url", f.URL), zap.Error(err))
			continue
		}
		removed++
	}
	j.logger.Info("Очистка загрузок завершена", zap.Int("files", len(files)), zap.Int("removed", removed))
	return removed, nil
}

// storedPath приводит ссылку из записи к виду /uploads/...: абсолютный адрес
// (http://cdn.example/media/uploads/images/a.png) теряет схему, хост и базовый путь.
func storedPath(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}
	if u, err := url.Parse(ref); err == nil {
		ref = u.Path
	}
	i := strings.Index(ref, filestorage.URLPrefix)
	if i < 0 {
		return "", false
	}
	return path.Clean(ref[i:]), true
}

// Schedule регистрирует задачу в cron по выражению spec ("0 3 * * *" - каждый день в 03:00).
func (j *UploadCleanup) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := j.Run(ctx); err != nil {
			j.logger.Error("Ошибка очистки загрузок", zap.Error(err))
		}
	})
}
