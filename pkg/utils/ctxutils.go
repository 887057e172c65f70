// pkg/utils/ctxutils.go

package utils

import (
	"context"

	"rheuma-portal/pkg/constants"
	"rheuma-portal/pkg/contextkeys"
	apperrors "rheuma-portal/pkg/errors"
)

func GetUserIDFromCtx(ctx context.Context) (uint64, error) {
	userID, ok := ctx.Value(contextkeys.UserIDKey).(uint64)
	if !ok || userID == 0 {
		return 0, apperrors.ErrUserIDNotFoundInContext
	}
	return userID, nil
}

func GetUserRoleFromCtx(ctx context.Context) (string, error) {
	role, ok := ctx.Value(contextkeys.UserRoleKey).(string)
	if !ok || role == "" {
		return "", apperrors.ErrUnauthorized
	}
	return role, nil
}

// IsStaffCtx - запрос от администратора или редактора.
func IsStaffCtx(ctx context.Context) bool {
	role, err := GetUserRoleFromCtx(ctx)
	return err == nil && constants.IsStaff(role)
}

func WithUser(ctx context.Context, userID uint64, role string) context.Context {
	ctx = context.WithValue(ctx, contextkeys.UserIDKey, userID)
	return context.WithValue(ctx, contextkeys.UserRoleKey, role)
}
