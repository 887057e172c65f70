package services

import (
	"context"

	"go.uber.org/zap"

	"rheuma-portal/internal/entities"
	"rheuma-portal/internal/repositories"
	apperrors "rheuma-portal/pkg/errors"
	"rheuma-portal/pkg/types"
	"rheuma-portal/pkg/utils"
)

type UserServiceInterface interface {
	GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error)
	ChangeRole(ctx context.Context, id uint64, role string) (*entities.User, error)
	DeleteUser(ctx context.Context, id uint64) error
}

type UserService struct {
	userRepository repositories.UserRepositoryInterface
	logger         *zap.Logger
}

func NewUserService(userRepository repositories.UserRepositoryInterface, logger *zap.Logger) UserServiceInterface {
	return &UserService{
		userRepository: userRepository,
		logger:         logger,
	}
}

func (s *UserService) GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	return s.userRepository.GetUsers(ctx, filter)
}

// ChangeRole: администратор не может менять роль самому себе.
func (s *UserService) ChangeRole(ctx context.Context, id uint64, role string) (*entities.User, error) {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return nil, apperrors.ErrUnauthorized
	}
	if actorID == id {
		return nil, apperrors.NewBadRequestError("Нельзя изменить собственную роль")
	}
	user, err := s.userRepository.UpdateRole(ctx, id, role)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Роль пользователя изменена", zap.Uint64("userID", id), zap.String("role", role), zap.Uint64("actorID", actorID))
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id uint64) error {
	actorID, err := utils.GetUserIDFromCtx(ctx)
	if err != nil {
		return apperrors.ErrUnauthorized
	}
	if actorID == id {
		return apperrors.NewBadRequestError("Нельзя удалить самого себя")
	}
	if err := s.userRepository.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Пользователь удалён", zap.Uint64("userID", id), zap.Uint64("actorID", actorID))
	return nil
}
