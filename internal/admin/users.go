package admin

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"rheuma-portal/pkg/client"
	"rheuma-portal/pkg/constants"
)

type UsersRepository interface {
	List(ctx context.Context) ([]client.User, error)
	ChangeRole(ctx context.Context, id uint64, role string) (*client.User, error)
	Delete(ctx context.Context, id uint64) error
}

// UsersScreen - управление пользователями: вместо редактирования смена роли.
type UsersScreen struct {
	mu     sync.Mutex
	repo   UsersRepository
	logger *zap.Logger

	listState ListState
	users     []client.User
	loadErr   error

	modal         ModalState
	pendingDelete uint64
	alert         string
}

func NewUsersScreen(repo UsersRepository, logger *zap.Logger) *UsersScreen {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UsersScreen{repo: repo, logger: logger}
}

func (s *UsersScreen) ListState() ListState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listState
}

func (s *UsersScreen) Users() []client.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]client.User(nil), s.users...)
}

func (s *UsersScreen) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadErr
}

func (s *UsersScreen) Modal() ModalState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modal
}

func (s *UsersScreen) Alert() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := s.alert
	s.alert = ""
	return a
}

func (s *UsersScreen) Load(ctx context.Context) error {
	s.mu.Lock()
	s.listState = ListLoading
	s.mu.Unlock()

	users, err := s.repo.List(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.listState = ListFailed
		s.users = nil
		s.loadErr = err
		return err
	}
	s.listState = ListLoaded
	s.users = users
	s.loadErr = nil
	return nil
}

func (s *UsersScreen) indexOf(id uint64) int {
	for i, u := range s.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

// ChangeRole меняет роль и обновляет пользователя в списке.
func (s *UsersScreen) ChangeRole(ctx context.Context, id uint64, role string) error {
	if !constants.IsRole(role) {
		return ErrUnknownRole
	}
	s.mu.Lock()
	if s.modal != ModalClosed {
		s.mu.Unlock()
		return ErrBusy
	}
	if s.indexOf(id) < 0 {
		s.mu.Unlock()
		return ErrUnknownItem
	}
	s.modal = ModalSaving
	s.mu.Unlock()

	updated, err := s.repo.ChangeRole(ctx, id, role)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.modal = ModalClosed
	if err != nil {
		s.logger.Warn("Не удалось изменить роль", zap.Uint64("userID", id), zap.Error(err))
		s.alert = AlertSaveFailed
		return err
	}
	if i := s.indexOf(id); i >= 0 {
		s.users[i].Role = updated.Role
	}
	return nil
}

func (s *UsersScreen) RequestDelete(id uint64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.modal != ModalClosed {
		return "", ErrBusy
	}
	i := s.indexOf(id)
	if i < 0 {
		return "", ErrUnknownItem
	}
	s.modal = ModalConfirmingDelete
	s.pendingDelete = id
	return "Удалить пользователя «" + s.users[i].Username + "»?", nil
}

func (s *UsersScreen) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.modal == ModalConfirmingDelete {
		s.modal = ModalClosed
		s.pendingDelete = 0
	}
}

func (s *UsersScreen) ConfirmDelete(ctx context.Context) error {
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
		s.alert = AlertDeleteFailed
		return err
	}
	if i := s.indexOf(id); i >= 0 {
		s.users = append(s.users[:i], s.users[i+1:]...)
	}
	return nil
}
