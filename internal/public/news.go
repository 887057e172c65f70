package public

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"rheuma-portal/internal/schema"
	"rheuma-portal/pkg/client"
	"rheuma-portal/pkg/i18n"
)

type Lister interface {
	List(ctx context.Context, q client.ListQuery) ([]client.Record, uint64, error)
}

// NewsView загружает опубликованные новости один раз. Локализация - при выводе,
// поэтому смена языка не требует повторного запроса.
type NewsView struct {
	repo   Lister
	logger *zap.Logger

	mu     sync.Mutex
	loaded bool
	items  []client.Record
	err    error
}

func NewNewsView(repo Lister, logger *zap.Logger) *NewsView {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NewsView{repo: repo, logger: logger}
}

// Load выполняет запрос только при первом вызове. Ошибка - пустой список и Err().
func (v *NewsView) Load(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.loaded {
		return v.err
	}
	items, _, err := v.repo.List(ctx, client.ListQuery{ActiveOnly: true})
	v.loaded = true
	if err != nil {
		v.logger.Warn("Не удалось загрузить новости", zap.Error(err))
		v.items = nil
		v.err = err
		return err
	}
	v.items = SortByOrder(ActiveOnly(items, schema.News.ActiveColumn))
	v.err = nil
	return nil
}

func (v *NewsView) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

// Items - записи с полями title, summary, ... на языке locale.
func (v *NewsView) Items(locale i18n.Locale) []client.Record {
	v.mu.Lock()
	defer v.mu.Unlock()
	return localizeAll(v.items, schema.News, locale)
}

// ByType - только новости или только мероприятия.
func (v *NewsView) ByType(newsType string, locale i18n.Locale) []client.Record {
	v.mu.Lock()
	defer v.mu.Unlock()
	return localizeAll(FilterByType(v.items, schema.News.TypeColumn, newsType), schema.News, locale)
}

// Featured - новости для слайдера на главной.
func (v *NewsView) Featured(locale i18n.Locale) []client.Record {
	v.mu.Lock()
	defer v.mu.Unlock()
	return localizeAll(ActiveOnly(v.items, "is_featured"), schema.News, locale)
}

// Raw - загруженные записи без локализации.
func (v *NewsView) Raw() []client.Record {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]client.Record(nil), v.items...)
}

func localizeAll(items []client.Record, e *schema.Entity, locale i18n.Locale) []client.Record {
	attrs := e.LocalizedAttributes()
	out := make([]client.Record, len(items))
	for i, it := range items {
		out[i] = i18n.Localize(it, attrs, locale)
	}
	return out
}
