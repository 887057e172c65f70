package public

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rheuma-portal/pkg/client"
	"rheuma-portal/pkg/i18n"
)

type fakeLister struct {
	items []client.Record
	err   error
	calls int
	last  client.ListQuery
}

func (f *fakeLister) List(_ context.Context, q client.ListQuery) ([]client.Record, uint64, error) {
	f.calls++
	f.last = q
	if f.err != nil {
		return nil, 0, f.err
	}
	return f.items, uint64(len(f.items)), nil
}

func TestSortByOrderIsStable(t *testing.T) {
	items := []client.Record{
		{"id": 1, "order": json.Number("2")},
		{"id": 2, "order": json.Number("1")},
		{"id": 3, "order": json.Number("2")},
		{"id": 4},
	}
	sorted := SortByOrder(items)
	ids := []int{}
	for _, it := range sorted {
		ids = append(ids, it["id"].(int))
	}
	assert.Equal(t, []int{4, 2, 1, 3}, ids)
	assert.Equal(t, 1, items[0]["id"], "исходный срез не меняется")
}

func TestActiveOnlyAndFilterByType(t *testing.T) {
	items := []client.Record{
		{"id": 1, "is_published": true, "news_type": "news"},
		{"id": 2, "is_published": false, "news_type": "event"},
		{"id": 3, "is_published": true, "news_type": "event"},
	}
	assert.Len(t, ActiveOnly(items, "is_published"), 2)
	events := FilterByType(items, "news_type", "event")
	require.Len(t, events, 2)
	assert.Equal(t, 2, events[0]["id"])
}

func TestNewsView_LoadsOnceAndLocalizesAtRender(t *testing.T) {
	repo := &fakeLister{items: []client.Record{
		{"id": json.Number("1"), "title_ru": "Новость", "title_uz": "Yangilik", "is_published": true, "news_type": "news"},
		{"id": json.Number("2"), "title_ru": "Черновик", "is_published": false, "news_type": "news"},
	}}
	v := NewNewsView(repo, nil)

	require.NoError(t, v.Load(context.Background()))
	require.NoError(t, v.Load(context.Background()))
	assert.Equal(t, 1, repo.calls)
	assert.True(t, repo.last.ActiveOnly)

	uz := v.Items(i18n.UZ)
	require.Len(t, uz, 1)
	assert.Equal(t, "Yangilik", uz[0]["title"])
	assert.Equal(t, "Новость", v.Items(i18n.EN)[0]["title"])
	assert.Equal(t, 1, repo.calls)
}

func TestNewsView_FailureIsExplicit(t *testing.T) {
	v := NewNewsView(&fakeLister{err: errors.New("timeout")}, nil)
	assert.Error(t, v.Load(context.Background()))
	assert.Error(t, v.Err())
	assert.Empty(t, v.Items(i18n.RU))
}

func TestClassifyCongresses(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	items := []client.Record{
		{"id": json.Number("1"), "news_type": "event", "title_ru": "V Конгресс ревматологов", "event_date_start": "2027-03-01T09:00:00Z"},
		{"id": json.Number("2"), "news_type": "event", "title_en": "International Congress", "event_date_start": "2026-12-05T09:00:00Z"},
		{"id": json.Number("3"), "news_type": "event", "title_uz": "Kongress 2025", "event_date_start": "2025-04-10T09:00:00Z"},
		{"id": json.Number("4"), "news_type": "event", "title_ru": "Семинар", "event_date_start": "2027-01-01T09:00:00Z"},
		{"id": json.Number("5"), "news_type": "event", "title_ru": "Конгресс без даты"},
		{"id": json.Number("6"), "news_type": "news", "title_ru": "Итоги конгресса 2025"},
	}

	upcoming, past := ClassifyCongresses(items, now)
	require.Len(t, upcoming, 2)
	assert.Equal(t, json.Number("1"), upcoming[0]["id"])
	assert.Equal(t, json.Number("2"), upcoming[1]["id"])
	require.Len(t, past, 2)
	assert.Equal(t, json.Number("3"), past[0]["id"])

	_, ok := SelectCongress(upcoming, past, 0)
	assert.False(t, ok, "два предстоящих - автоматического выбора нет")

	selected, ok := SelectCongress(upcoming[1:], past, 0)
	require.True(t, ok)
	assert.Equal(t, json.Number("2"), selected["id"])

	selected, ok = SelectCongress(upcoming, past, 3)
	require.True(t, ok)
	assert.Equal(t, json.Number("3"), selected["id"])
}

func TestCongressView_LoadsEventsOnly(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	repo := &fakeLister{items: []client.Record{
		{"id": json.Number("1"), "news_type": "event", "is_published": true, "title_ru": "Конгресс 2027", "title_uz": "Kongress 2027", "event_date_start": "2027-05-01T09:00:00Z"},
		{"id": json.Number("2"), "news_type": "news", "is_published": true, "title_ru": "Итоги конгресса 2025"},
		{"id": json.Number("3"), "news_type": "event", "is_published": true, "title_ru": "Конгресс 2024", "event_date_start": "2024-05-01T09:00:00Z"},
		{"id": json.Number("4"), "news_type": "event", "is_published": false, "title_ru": "Конгресс-черновик", "event_date_start": "2028-01-01T09:00:00Z"},
	}}
	v := NewCongressView(repo, zap.NewNop())

	require.NoError(t, v.Load(context.Background(), now, 0))
	assert.Equal(t, client.ListQuery{Type: "event", ActiveOnly: true}, repo.last)

	upcoming := v.Upcoming(i18n.UZ)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "Kongress 2027", upcoming[0]["title"])

	past := v.Past(i18n.RU)
	require.Len(t, past, 1)
	assert.Equal(t, json.Number("3"), past[0]["id"])

	selected, ok := v.Selected(i18n.RU)
	require.True(t, ok, "единственный предстоящий выбирается сам")
	assert.Equal(t, json.Number("1"), selected["id"])

	require.NoError(t, v.Load(context.Background(), now, 3))
	selected, ok = v.Selected(i18n.RU)
	require.True(t, ok)
	assert.Equal(t, json.Number("3"), selected["id"])
}

func TestCongressView_FailureIsExplicit(t *testing.T) {
	v := NewCongressView(&fakeLister{err: errors.New("offline")}, nil)

	require.Error(t, v.Load(context.Background(), time.Now(), 0))
	assert.Error(t, v.Err())
	assert.Empty(t, v.Upcoming(i18n.RU))
	_, ok := v.Selected(i18n.RU)
	assert.False(t, ok)
}

func TestCarousel_ManualNavigation(t *testing.T) {
	c := NewCarousel(3, time.Hour)
	c.Next()
	assert.Equal(t, 1, c.Current())
	c.Prev()
	c.Prev()
	assert.Equal(t, 2, c.Current())
	c.GoTo(0)
	assert.Equal(t, 0, c.Current())
	c.GoTo(7)
	assert.Equal(t, 0, c.Current())

	empty := NewCarousel(0, time.Hour)
	empty.Next()
	assert.Equal(t, 0, empty.Current())
}

func TestCarousel_AutoAdvanceStopsWithContext(t *testing.T) {
	c := NewCarousel(3, 10*time.Millisecond)
	var changes atomic.Int32
	c.OnChange(func(int) { changes.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx)
	assert.Eventually(t, func() bool { return changes.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	time.Sleep(30 * time.Millisecond)
	stopped := changes.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, stopped, changes.Load())
}

type fakeSubmitter struct {
	got client.RegistrationInput
	err error
}

func (f *fakeSubmitter) SubmitRegistration(_ context.Context, in client.RegistrationInput) (*client.Registration, error) {
	f.got = in
	if f.err != nil {
		return nil, f.err
	}
	return &client.Registration{RegistrationInput: in, ID: 1}, nil
}

func filledForm() *SchoolForm {
	return &SchoolForm{
		LastName: "Каримов", FirstName: "Алишер", Phone: "+998901234567", City: "Ташкент",
		Category: "Высшая", INN: "123456789", Email: "k@mail.uz",
		Specialization: "Ревматология", Workplace: "РСНПМЦ",
	}
}

func TestSchoolForm_RequiredFields(t *testing.T) {
	f := filledForm()
	f.INN = " "
	f.Workplace = ""
	api := &fakeSubmitter{}

	assert.ErrorIs(t, f.Submit(context.Background(), api), ErrInvalidForm)
	assert.Contains(t, f.Errors, "inn")
	assert.Contains(t, f.Errors, "workplace")
	assert.False(t, f.Success)
	assert.Empty(t, api.got.LastName)
}

func TestSchoolForm_SubmitResets(t *testing.T) {
	f := filledForm()
	eventID := uint64(12)
	f.EventID = &eventID
	api := &fakeSubmitter{}

	require.NoError(t, f.Submit(context.Background(), api))
	assert.Equal(t, "rheumatologist", api.got.SchoolType)
	require.NotNil(t, api.got.EventID)
	assert.Equal(t, uint64(12), *api.got.EventID)
	assert.True(t, f.Success)
	assert.Equal(t, "", f.LastName)
	assert.Equal(t, "", f.Workplace)
	assert.Nil(t, f.EventID)
}

func TestSchoolForm_SubmitFailureKeepsFields(t *testing.T) {
	f := filledForm()
	api := &fakeSubmitter{err: &client.ValidationError{Status: 400}}

	assert.Error(t, f.Submit(context.Background(), api))
	assert.Nil(t, api.got.EventID)
	assert.False(t, f.Success)
	assert.Equal(t, "Каримов", f.LastName)
}

func TestCentersView_GroupsStaff(t *testing.T) {
	centers := &fakeLister{items: []client.Record{
		{"id": json.Number("1"), "name_ru": "Центр Б", "order": json.Number("2"), "is_active": true},
		{"id": json.Number("2"), "name_ru": "Центр А", "order": json.Number("1"), "is_active": true},
		{"id": json.Number("3"), "name_ru": "Закрыт", "is_active": false},
	}}
	staff := &fakeLister{items: []client.Record{
		{"id": json.Number("10"), "center_id": json.Number("1"), "name_ru": "Врач 1", "is_active": true},
		{"id": json.Number("11"), "center_id": json.Number("1"), "name_ru": "Врач 2", "is_active": false},
		{"id": json.Number("12"), "center_id": json.Number("2"), "name_ru": "Врач 3", "name_en": "Doctor 3", "is_active": true},
	}}

	out, err := NewCentersView(centers, staff).Load(context.Background(), "Ташкент", i18n.EN)
	require.NoError(t, err)
	assert.Equal(t, "Ташкент", centers.last.Filter["region"])
	require.Len(t, out, 2)
	assert.Equal(t, "Центр А", out[0].Center["name"])
	require.Len(t, out[0].Staff, 1)
	assert.Equal(t, "Doctor 3", out[0].Staff[0]["name"])
	assert.Len(t, out[1].Staff, 1)
}
