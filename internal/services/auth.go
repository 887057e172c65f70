package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"rheuma-portal/internal/dto"
	"rheuma-portal/internal/entities"
	"rheuma-portal/internal/repositories"
	"rheuma-portal/pkg/config"
	"rheuma-portal/pkg/constants"
	apperrors "rheuma-portal/pkg/errors"
	"rheuma-portal/pkg/service"
	"rheuma-portal/pkg/utils"
)

const TokenTypeBearer = "bearer"

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error)
	Register(ctx context.Context, payload dto.RegisterDTO) (*entities.User, error)
	GetUserByID(ctx context.Context, userID uint64) (*entities.User, error)
}

type AuthService struct {
	userRepo   repositories.UserRepositoryInterface
	cacheRepo  repositories.CacheRepositoryInterface
	jwtService service.JWTService
	logger     *zap.Logger
	cfg        *config.AuthConfig
}

func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	jwtService service.JWTService,
	logger *zap.Logger,
	cfg *config.AuthConfig,
) AuthServiceInterface {
	return &AuthService{
		userRepo:   userRepo,
		cacheRepo:  cacheRepo,
		jwtService: jwtService,
		logger:     logger,
		cfg:        cfg,
	}
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.AuthResponseDTO, error) {
	login := strings.ToLower(strings.TrimSpace(payload.Username))
	logger := s.logger.With(zap.String("login", login))

	if err := s.checkLockout(ctx, login); err != nil {
		logger.Warn("Вход заблокирован после неудачных попыток")
		return nil, err
	}

	user, err := s.userRepo.FindUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidCredentials) {
			s.handleFailedLoginAttempt(ctx, login)
		}
		return nil, apperrors.ErrInvalidCredentials
	}
	if err := utils.ComparePasswords(user.Password, payload.Password); err != nil {
		s.handleFailedLoginAttempt(ctx, login)
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		logger.Warn("Попытка входа заблокированного пользователя")
		return nil, apperrors.ErrForbidden
	}
	s.resetLoginAttempts(ctx, login)

	token, err := s.jwtService.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("не удалось выпустить токен: %w", err)
	}
	logger.Info("Пользователь вошёл", zap.Uint64("userID", user.ID), zap.String("role", user.Role))

	return &dto.AuthResponseDTO{
		AccessToken: token,
		TokenType:   TokenTypeBearer,
		ExpiresAt:   time.Now().Add(s.jwtService.GetAccessTokenTTL()),
		User:        dto.NewUserPublicDTO(user),
	}, nil
}

// Register создаёт пользователя с ролью user; роли выше выдаёт администратор.
func (s *AuthService) Register(ctx context.Context, payload dto.RegisterDTO) (*entities.User, error) {
	hash, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}
	user := &entities.User{
		Username: strings.TrimSpace(payload.Username),
		Email:    strings.ToLower(strings.TrimSpace(payload.Email)),
		FullName: strings.TrimSpace(payload.FullName),
		Password: hash,
		Role:     constants.RoleUser,
		IsActive: true,
	}
	created, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Зарегистрирован пользователь", zap.Uint64("userID", created.ID), zap.String("username", created.Username))
	return created, nil
}

func (s *AuthService) GetUserByID(ctx context.Context, userID uint64) (*entities.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		s.logger.Warn("GetUserByID: не удалось найти пользователя", zap.Uint64("userID", userID), zap.Error(err))
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func attemptsKey(login string) string {
	return constants.LoginAttemptsKeyPrefix + login
}

func (s *AuthService) checkLockout(ctx context.Context, login string) error {
	raw, err := s.cacheRepo.Get(ctx, attemptsKey(login))
	if err != nil {
		return nil
	}
	if attempts, _ := strconv.Atoi(raw); attempts >= s.cfg.MaxLoginAttempts {
		return apperrors.NewHttpError(
			http.StatusTooManyRequests,
			fmt.Sprintf("Слишком много попыток. Попробуйте через %d минут.", int(s.cfg.LockoutDuration.Minutes())),
			apperrors.ErrTooManyRequests,
			nil,
		)
	}
	return nil
}

// handleFailedLoginAttempt считает неудачи в окне LockoutDuration, начиная с первой.
func (s *AuthService) handleFailedLoginAttempt(ctx context.Context, login string) {
	key := attemptsKey(login)
	attempts, err := s.cacheRepo.Incr(ctx, key)
	if err != nil {
		s.logger.Warn("Не удалось учесть неудачную попытку входа", zap.Error(err))
		return
	}
	if attempts == 1 {
		if _, err := s.cacheRepo.Expire(ctx, key, s.cfg.LockoutDuration); err != nil {
			s.logger.Warn("Не удалось выставить срок блокировки", zap.Error(err))
		}
	}
}

func (s *AuthService) resetLoginAttempts(ctx context.Context, login string) {
	if err := s.cacheRepo.Del(ctx, attemptsKey(login)); err != nil {
		s.logger.Warn("Не удалось сбросить счётчик попыток", zap.Error(err))
	}
}
