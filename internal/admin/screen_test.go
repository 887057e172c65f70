package admin

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rheuma-portal/internal/schema"
	"rheuma-portal/pkg/client"
)

type fakeRepo struct {
	mu       sync.Mutex
	items    []client.Record
	nextID   int64
	listErr  error
	saveErr  error
	calls    []string
	blockOn  chan struct{}
	released chan struct{}
}

func newFakeRepo(items ...client.Record) *fakeRepo {
	return &fakeRepo{items: items, nextID: int64(len(items))}
}

func (r *fakeRepo) record(call string) {
	r.mu.Lock()
	r.calls = append(r.calls, call)
	r.mu.Unlock()
}

func (r *fakeRepo) List(context.Context, client.ListQuery) ([]client.Record, uint64, error) {
	r.record("list")
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, 0, r.listErr
	}
	out := make([]client.Record, len(r.items))
	for i, it := range r.items {
		out[i] = copyRecord(it)
	}
	return out, uint64(len(out)), nil
}

func (r *fakeRepo) Create(_ context.Context, rec client.Record) (client.Record, error) {
	r.record("create")
	if r.blockOn != nil {
		close(r.released)
		<-r.blockOn
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	r.nextID++
	created := copyRecord(rec)
	created["id"] = r.nextID
	r.items = append(r.items, created)
	return created, nil
}

func (r *fakeRepo) Update(_ context.Context, id uint64, rec client.Record) (client.Record, error) {
	r.record("update")
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	for i, it := range r.items {
		if itemID, _ := client.RecordID(it); itemID == id {
			r.items[i] = copyRecord(rec)
			return r.items[i], nil
		}
	}
	return nil, client.ErrNotFound
}

func (r *fakeRepo) Patch(_ context.Context, id uint64, fields client.Record) (client.Record, error) {
	r.record("patch")
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.items {
		if itemID, _ := client.RecordID(it); itemID == id {
			for k, v := range fields {
				it[k] = v
			}
			return copyRecord(it), nil
		}
	}
	return nil, client.ErrNotFound
}

func (r *fakeRepo) Delete(_ context.Context, id uint64) error {
	r.record("delete")
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	for i, it := range r.items {
		if itemID, _ := client.RecordID(it); itemID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return client.ErrNotFound
}

func (r *fakeRepo) count(call string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c == call {
			n++
		}
	}
	return n
}

type fakeUploader struct {
	err     error
	context string
}

func (u *fakeUploader) UploadFile(_ context.Context, uploadContext, filename string, _ io.Reader) (string, error) {
	u.context = uploadContext
	if u.err != nil {
		return "", u.err
	}
	return "/uploads/" + filename, nil
}

func newsItem(id int64, title string, published bool) client.Record {
	return client.Record{"id": id, "title_ru": title, "is_published": published, "tags": []interface{}{"a"}}
}

func TestScreen_LoadFailureIsExplicit(t *testing.T) {
	repo := newFakeRepo()
	repo.listErr = errors.New("сеть недоступна")
	s := NewScreen(schema.News, repo)

	assert.Equal(t, ListIdle, s.ListState())
	err := s.Load(context.Background())
	assert.Error(t, err)
	assert.Equal(t, ListFailed, s.ListState())
	assert.Empty(t, s.Items())
	assert.Equal(t, repo.listErr, s.Err())
}

func TestScreen_AddUsesFreshTemplate(t *testing.T) {
	s := NewScreen(schema.News, newFakeRepo())
	require.NoError(t, s.Add())
	assert.Equal(t, ModalEditing, s.Modal())

	draft := s.Draft()
	assert.Equal(t, "", draft["title_uz"])
	assert.Equal(t, false, draft["is_published"])
	_, hasID := draft["id"]
	assert.False(t, hasID)

	require.NoError(t, s.SetField("title_ru", "Новость"))
	s.Cancel()
	require.NoError(t, s.Add())
	assert.Equal(t, "", s.Draft()["title_ru"], "шаблон не должен меняться от черновика")
}

func TestScreen_EditCopiesItem(t *testing.T) {
	repo := newFakeRepo(newsItem(1, "Старое", false))
	s := NewScreen(schema.News, repo)
	require.NoError(t, s.Load(context.Background()))

	require.NoError(t, s.Edit(1))
	require.NoError(t, s.SetField("title_ru", "Новое"))
	assert.Equal(t, "Старое", s.Items()[0]["title_ru"])

	assert.ErrorIs(t, s.Edit(1), ErrBusy)
	s.Cancel()
	assert.ErrorIs(t, s.Edit(42), ErrUnknownItem)
}

func TestScreen_SaveCreatesAndReloads(t *testing.T) {
	repo := newFakeRepo()
	s := NewScreen(schema.News, repo)
	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.Add())
	require.NoError(t, s.SetField("title_ru", "Конгресс"))

	require.NoError(t, s.Save(context.Background()))
	assert.Equal(t, ModalClosed, s.Modal())
	assert.Equal(t, 1, repo.count("create"))
	assert.Equal(t, 2, repo.count("list"))
	require.Len(t, s.Items(), 1)
	assert.Equal(t, "Конгресс", s.Items()[0]["title_ru"])
}

func TestScreen_SaveUpdatesWhenDraftHasID(t *testing.T) {
	repo := newFakeRepo(newsItem(1, "Старое", false))
	s := NewScreen(schema.News, repo)
	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.Edit(1))
	require.NoError(t, s.SetField("title_ru", "Новое"))

	require.NoError(t, s.Save(context.Background()))
	assert.Equal(t, 1, repo.count("update"))
	assert.Equal(t, 0, repo.count("create"))
	assert.Equal(t, "Новое", s.Items()[0]["title_ru"])
}

func TestScreen_SaveFailureKeepsForm(t *testing.T) {
	repo := newFakeRepo()
	repo.saveErr = &client.ValidationError{Status: 400, Fields: map[string]string{"title_ru": "обязательное поле"}}
	s := NewScreen(schema.News, repo)
	require.NoError(t, s.Add())

	err := s.Save(context.Background())
	assert.Error(t, err)
	assert.Equal(t, ModalEditing, s.Modal())
	assert.Equal(t, AlertSaveFailed, s.Alert())
	assert.Equal(t, "", s.Alert())
	assert.Equal(t, 0, repo.count("list"))
}

func TestScreen_DoubleSaveIsRejected(t *testing.T) {
	repo := newFakeRepo()
	repo.blockOn = make(chan struct{})
	repo.released = make(chan struct{})
	s := NewScreen(schema.News, repo)
	require.NoError(t, s.Add())
	require.NoError(t, s.SetField("title_ru", "Новость"))

	done := make(chan error)
	go func() { done <- s.Save(context.Background()) }()
	<-repo.released

	assert.Equal(t, ModalSaving, s.Modal())
	assert.ErrorIs(t, s.Save(context.Background()), ErrBusy)

	close(repo.blockOn)
	require.NoError(t, <-done)
	assert.Equal(t, 1, repo.count("create"))
}

func TestScreen_AttachFile(t *testing.T) {
	uploader := &fakeUploader{}
	s := NewScreen(schema.News, newFakeRepo(), WithUploader(uploader))
	require.NoError(t, s.Add())

	url, err := s.AttachFile(context.Background(), "image_url", "cover.png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.Equal(t, "/uploads/cover.png", url)
	assert.Equal(t, "image", uploader.context)
	assert.Equal(t, url, s.Draft()["image_url"])

	uploader.err = errors.New("413")
	_, err = s.AttachFile(context.Background(), "image_url", "big.png", strings.NewReader("png"))
	assert.Error(t, err)
	assert.Equal(t, AlertUploadFailed, s.Alert())
	assert.Equal(t, "/uploads/cover.png", s.Draft()["image_url"])

	_, err = s.AttachFile(context.Background(), "title_ru", "x.png", strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNotFileField)
}

func TestScreen_DeleteRemovesLocally(t *testing.T) {
	repo := newFakeRepo(newsItem(1, "Первая", true), newsItem(2, "Вторая", true))
	s := NewScreen(schema.News, repo)
	require.NoError(t, s.Load(context.Background()))

	prompt, err := s.RequestDelete(2)
	require.NoError(t, err)
	assert.Contains(t, prompt, "Вторая")
	assert.Contains(t, prompt, schema.News.Title)
	assert.Equal(t, ModalConfirmingDelete, s.Modal())

	require.NoError(t, s.ConfirmDelete(context.Background()))
	assert.Equal(t, ModalClosed, s.Modal())
	require.Len(t, s.Items(), 1)
	assert.Equal(t, uint64(1), s.Total())
	assert.Equal(t, 1, repo.count("list"), "удаление не перезагружает список")
}

func TestScreen_DeleteFailure(t *testing.T) {
	repo := newFakeRepo(newsItem(1, "Первая", true))
	s := NewScreen(schema.News, repo)
	require.NoError(t, s.Load(context.Background()))
	repo.saveErr = errors.New("500")

	_, err := s.RequestDelete(1)
	require.NoError(t, err)
	assert.Error(t, s.ConfirmDelete(context.Background()))
	assert.Equal(t, AlertDeleteFailed, s.Alert())
	assert.Len(t, s.Items(), 1)
}

func TestScreen_TogglePublished(t *testing.T) {
	repo := newFakeRepo(newsItem(1, "Первая", false))
	s := NewScreen(schema.News, repo)
	require.NoError(t, s.Load(context.Background()))

	require.NoError(t, s.TogglePublished(context.Background(), 1))
	assert.Equal(t, true, s.Items()[0]["is_published"])
	assert.Equal(t, 1, repo.count("patch"))
	assert.Equal(t, 1, repo.count("list"))
}

func TestScreen_ReadOnly(t *testing.T) {
	repo := newFakeRepo(client.Record{"id": int64(1), "last_name": "Каримов"})
	s := NewScreen(Registrations, repo, ReadOnly())
	require.NoError(t, s.Load(context.Background()))

	assert.ErrorIs(t, s.Add(), ErrReadOnly)
	assert.ErrorIs(t, s.Edit(1), ErrReadOnly)
	_, err := s.RequestDelete(1)
	assert.ErrorIs(t, err, ErrReadOnly)
	assert.ErrorIs(t, s.TogglePublished(context.Background(), 1), ErrReadOnly)
	assert.Len(t, s.Items(), 1)
}
