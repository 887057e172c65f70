package seeders

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"rheuma-portal/internal/entities"
	"rheuma-portal/internal/repositories"
	"rheuma-portal/pkg/config"
	"rheuma-portal/pkg/constants"
	"rheuma-portal/pkg/utils"
)

// SeedAdmin создаёт первого администратора, если в базе ещё нет ни одного.
// Возвращает true, если пользователь был создан.
func SeedAdmin(ctx context.Context, users repositories.UserRepositoryInterface, cfg config.SeederConfig, logger *zap.Logger) (bool, error) {
	count, err := users.CountByRole(ctx, constants.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("ошибка при подсчёте администраторов: %w", err)
	}
	if count > 0 {
		logger.Info("Администратор уже существует. Пропускаем.", zap.Uint64("count", count))
		return false, nil
	}

	if len(cfg.AdminPassword) < 8 {
		return false, fmt.Errorf("SEED_ADMIN_PASSWORD должен содержать не меньше 8 символов")
	}
	hashed, err := utils.HashPassword(cfg.AdminPassword)
	if err != nil {
		return false, err
	}

	admin := &entities.User{
		Username: strings.ToLower(strings.TrimSpace(cfg.AdminUsername)),
		Email:    strings.ToLower(strings.TrimSpace(cfg.AdminEmail)),
		FullName: "Администратор",
		Password: hashed,
		Role:     constants.RoleAdmin,
		IsActive: true,
	}
	created, err := users.CreateUser(ctx, admin)
	if err != nil {
		return false, fmt.Errorf("ошибка при создании администратора: %w", err)
	}
	logger.Info("Администратор успешно создан", zap.Uint64("id", created.ID), zap.String("username", created.Username))
	return true, nil
}
