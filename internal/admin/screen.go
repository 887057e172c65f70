// Package admin - состояние экранов админки: список, форма редактирования,
// подтверждение удаления. Один Screen обслуживает любую сущность из schema.
package admin

import (
	"context"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"rheuma-portal/internal/schema"
	"rheuma-portal/pkg/client"
)

// Repository - то, что экрану нужно от API; *client.Repository ему удовлетворяет.
type Repository interface {
	List(ctx context.Context, q client.ListQuery) ([]client.Record, uint64, error)
	Create(ctx context.Context, record client.Record) (client.Record, error)
	Update(ctx context.Context, id uint64, record client.Record) (client.Record, error)
	Patch(ctx context.Context, id uint64, fields client.Record) (client.Record, error)
	Delete(ctx context.Context, id uint64) error
}

type Uploader interface {
	UploadFile(ctx context.Context, uploadContext, filename string, content io.Reader) (string, error)
}

type Option func(*Screen)

// ReadOnly запрещает добавление, редактирование и удаление.
func ReadOnly() Option { return func(s *Screen) { s.readOnly = true } }

func WithUploader(u Uploader) Option { return func(s *Screen) { s.uploader = u } }

func WithQuery(q client.ListQuery) Option { return func(s *Screen) { s.query = q } }

func WithLogger(l *zap.Logger) Option { return func(s *Screen) { s.logger = l } }

type Screen struct {
	mu sync.Mutex

	entity   *schema.Entity
	repo     Repository
	uploader Uploader
	query    client.ListQuery
	readOnly bool
	logger   *zap.Logger

	listState ListState
	items     []client.Record
	total     uint64
	loadErr   error

	modal         ModalState
	draft         client.Record
	pendingDelete uint64
	alert         string
}

func NewScreen(entity *schema.Entity, repo Repository, opts ...Option) *Screen {
	s := &Screen{entity: entity, repo: repo, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("entity", entity.Name))
	return s
}

func (s *Screen) Entity() *schema.Entity { return s.entity }

func (s *Screen) ReadOnly() bool { return s.readOnly }

func (s *Screen) ListState() ListState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listState
}

// Items - копия текущего списка.
func (s *Screen) Items() []client.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]client.Record, len(s.items))
	for i, it := range s.items {
		out[i] = copyRecord(it)
	}
	return out
}

func (s *Screen) Total() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *Screen) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

func (s *Screen) Modal() ModalState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modal
}

func (s *Screen) Draft() client.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyRecord(s.draft)
}

// Alert возвращает и сбрасывает последнее уведомление.
func (s *Screen) Alert() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.alert
	s.alert = ""
	return a
}

// Load перечитывает список целиком. При ошибке список пуст и экран в ListFailed.
func (s *Screen) Load(ctx context.Context) error {
	s.mu.Lock()
	s.listState = ListLoading
	s.mu.Unlock()

	items, total, err := s.repo.List(ctx, s.query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.Warn("Не удалось загрузить список", zap.Error(err))
		s.listState = ListFailed
		s.items = nil
		s.total = 0
		s.loadErr = err
		return err
	}
	s.listState = ListLoaded
	s.items = items
	s.total = total
	s.loadErr = nil
	return nil
}

func (s *Screen) indexOf(id uint64) int {
	for i, it := range s.items {
		if itemID, ok := client.RecordID(it); ok && itemID == id {
			return i
		}
	}
	return -1
}

// Add открывает форму с пустым шаблоном сущности.
func (s *Screen) Add() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readOnly {
		return ErrReadOnly
	}
	if s.modal != ModalClosed {
		return ErrBusy
	}
	s.draft = copyRecord(s.entity.EmptyTemplate())
	s.modal = ModalEditing
	return nil
}

// Edit открывает форму с копией записи из списка.
func (s *Screen) Edit(id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readOnly {
		return ErrReadOnly
	}
	if s.modal != ModalClosed {
		return ErrBusy
	}
	i := s.indexOf(id)
	if i < 0 {
		return ErrUnknownItem
	}
	s.draft = copyRecord(s.items[i])
	s.modal = ModalEditing
	return nil
}

func (s *Screen) SetField(column string, value interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.modal != ModalEditing {
		return ErrNotEditing
	}
	s.draft[column] = value
	return nil
}

// Cancel закрывает форму или подтверждение удаления без изменений.
func (s *Screen) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.modal == ModalSaving || s.modal == ModalDeleting {
		return
	}
	s.modal = ModalClosed
	s.draft = nil
	s.pendingDelete = 0
}

// AttachFile сразу загружает файл и кладёт ссылку в черновик.
// При ошибке поле не меняется, выставляется AlertUploadFailed.
func (s *Screen) AttachFile(ctx context.Context, column, filename string, content io.Reader) (string, error) {
	s.mu.Lock()
	if s.modal != ModalEditing {
		s.mu.Unlock()
		return "", ErrNotEditing
	}
	field, ok := s.entity.Field(column)
	if !ok || field.Kind != schema.File || s.uploader == nil {
		s.mu.Unlock()
		return "", ErrNotFileField
	}
	s.mu.Unlock()

	url, err := s.uploader.UploadFile(ctx, field.UploadContext, filename, content)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger.Warn("Ошибка загрузки файла", zap.String("field", column), zap.Error(err))
		s.alert = AlertUploadFailed
		return "", err
	}
	if s.modal == ModalEditing {
		s.draft[column] = url
	}
	return url, nil
}

// Save создаёт или обновляет запись (по наличию id в черновике). Успех - полная
// перезагрузка списка и закрытие формы; ошибка - AlertSaveFailed, форма остаётся открытой.
func (s *Screen) Save(ctx context.Context) error {
	s.mu.Lock()
	switch s.modal {
	case ModalSaving:
		s.mu.Unlock()
		return ErrBusy
	case ModalEditing:
	default:
		s.mu.Unlock()
		return ErrNotEditing
	}
	s.modal = ModalSaving
	draft := copyRecord(s.draft)
	s.mu.Unlock()

	var err error
	if id, ok := client.RecordID(draft); ok {
		_, err = s.repo.Update(ctx, id, draft)
	} else {
		_, err = s.repo.Create(ctx, draft)
	}
	if err != nil {
		s.mu.Lock()
		s.logger.Warn("Ошибка сохранения", zap.Error(err))
		s.modal = ModalEditing
		s.alert = AlertSaveFailed
		s.mu.Unlock()
		return err
	}

	loadErr := s.Load(ctx)

	s.mu.Lock()
	s.modal = ModalClosed
	s.draft = nil
	s.mu.Unlock()
	return loadErr
}

// RequestDelete открывает подтверждение и возвращает его текст.
func (s *Screen) RequestDelete(id uint64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readOnly {
		return "", ErrReadOnly
	}
	if s.modal != ModalClosed {
		return "", ErrBusy
	}
	i := s.indexOf(id)
	if i < 0 {
		return "", ErrUnknownItem
	}
	s.modal = ModalConfirmingDelete
	s.pendingDelete = id
	if label := s.entity.Label(s.items[i]); label != "" {
		return fmt.Sprintf("Удалить «%s» из раздела «%s»?", label, s.entity.Title), nil
	}
	return fmt.Sprintf("Удалить запись из раздела «%s»?", s.entity.Title), nil
}

// ConfirmDelete удаляет запись и убирает её из списка без перезагрузки.
func (s *Screen) ConfirmDelete(ctx context.Context) error {
	s.mu.Lock()
	switch s.modal {
	case ModalDeleting:
		s.mu.Unlock()
		return ErrBusy
	case ModalConfirmingDelete:
	default:
		s.mu.Unlock()
		return ErrNotEditing
	}
	s.modal = ModalDeleting
	id := s.pendingDelete
	s.mu.Unlock()

	err := s.repo.Delete(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.modal = ModalClosed
	s.pendingDelete = 0
	if err != nil {
		s.logger.Warn("Ошибка удаления", zap.Uint64("id", id), zap.Error(err))
		s.alert = AlertDeleteFailed
		return err
	}
	if i := s.indexOf(id); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
		if s.total > 0 {
			s.total--
		}
	}
	return nil
}

// TogglePublished переключает флаг публикации одним PATCH и обновляет запись на месте.
func (s *Screen) TogglePublished(ctx context.Context, id uint64) error {
	s.mu.Lock()
	if s.readOnly {
		s.mu.Unlock()
		return ErrReadOnly
	}
	col := s.entity.ActiveColumn
	if col == "" {
		s.mu.Unlock()
		return ErrNoActiveFlag
	}
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return ErrUnknownItem
	}
	current, _ := s.items[i][col].(bool)
	s.mu.Unlock()

	updated, err := s.repo.Patch(ctx, id, client.Record{col: !current})
	if err != nil {
		s.mu.Lock()
		s.alert = AlertSaveFailed
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		if v, ok := updated[col].(bool); ok {
			s.items[i][col] = v
		} else {
			s.items[i][col] = !current
		}
	}
	return nil
}
