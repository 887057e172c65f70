package public

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"rheuma-portal/internal/schema"
	"rheuma-portal/pkg/client"
	"rheuma-portal/pkg/i18n"
)

var congressMarkers = []string{"конгресс", "congress", "kongress"}

// IsCongress - мероприятие (news_type=event), в заголовке которого на любом языке есть "конгресс".
func IsCongress(item client.Record) bool {
	if t, _ := item[schema.News.TypeColumn].(string); t != schema.NewsTypeEvent {
		return false
	}
	for _, col := range i18n.Columns("title") {
		title, _ := item[col].(string)
		title = strings.ToLower(title)
		for _, m := range congressMarkers {
			if strings.Contains(title, m) {
				return true
			}
		}
	}
	return false
}

func startDate(item client.Record) (time.Time, bool) {
	return timeValue(item["event_date_start"])
}

// ClassifyCongresses делит конгрессы на предстоящие (начало позже now) и прошедшие.
// Запись без даты начала считается прошедшей. Обе группы отсортированы по дате начала по убыванию.
func ClassifyCongresses(items []client.Record, now time.Time) (upcoming, past []client.Record) {
	for _, it := range items {
		if !IsCongress(it) {
			continue
		}
		if start, ok := startDate(it); ok && start.After(now) {
			upcoming = append(upcoming, it)
		} else {
			past = append(past, it)
		}
	}
	byStartDesc := func(list []client.Record) {
		sort.SliceStable(list, func(i, j int) bool {
			a, _ := startDate(list[i])
			b, _ := startDate(list[j])
			return a.After(b)
		})
	}
	byStartDesc(upcoming)
	byStartDesc(past)
	return upcoming, past
}

// SelectCongress выбирает конгресс по id; без id - единственный предстоящий, если он один.
func SelectCongress(upcoming, past []client.Record, id uint64) (client.Record, bool) {
	if id == 0 {
		if len(upcoming) == 1 {
			return upcoming[0], true
		}
		return nil, false
	}
	for _, list := range [][]client.Record{upcoming, past} {
		for _, it := range list {
			if itemID, ok := client.RecordID(it); ok && itemID == id {
				return it, true
			}
		}
	}
	return nil, false
}

// CongressView - страница конгресса: опубликованные мероприятия, разбитые на
// предстоящие и прошедшие, и выбранный конгресс.
type CongressView struct {
	repo   Lister
	logger *zap.Logger

	mu       sync.Mutex
	upcoming []client.Record
	past     []client.Record
	selected client.Record
	err      error
}

func NewCongressView(repo Lister, logger *zap.Logger) *CongressView {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CongressView{repo: repo, logger: logger}
}

// Load запрашивает опубликованные мероприятия и выбирает конгресс: по id, а без
// него - единственный предстоящий. Ошибка - пустые списки и Err().
func (v *CongressView) Load(ctx context.Context, now time.Time, id uint64) error {
	items, _, err := v.repo.List(ctx, client.ListQuery{Type: schema.NewsTypeEvent, ActiveOnly: true})

	v.mu.Lock()
	defer v.mu.Unlock()
	if err != nil {
		v.logger.Warn("Не удалось загрузить конгрессы", zap.Error(err))
		v.upcoming, v.past, v.selected, v.err = nil, nil, nil, err
		return err
	}
	v.upcoming, v.past = ClassifyCongresses(ActiveOnly(items, schema.News.ActiveColumn), now)
	v.selected, _ = SelectCongress(v.upcoming, v.past, id)
	v.err = nil
	return nil
}

func (v *CongressView) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

func (v *CongressView) Upcoming(locale i18n.Locale) []client.Record {
	v.mu.Lock()
	defer v.mu.Unlock()
	return localizeAll(v.upcoming, schema.News, locale)
}

func (v *CongressView) Past(locale i18n.Locale) []client.Record {
	v.mu.Lock()
	defer v.mu.Unlock()
	return localizeAll(v.past, schema.News, locale)
}

// Selected - выбранный конгресс или false, если выбора нет.
func (v *CongressView) Selected(locale i18n.Locale) (client.Record, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.selected == nil {
		return nil, false
	}
	return i18n.Localize(v.selected, schema.News.LocalizedAttributes(), locale), true
}
