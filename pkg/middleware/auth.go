package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"rheuma-portal/pkg/constants"
	apperrors "rheuma-portal/pkg/errors"
	"rheuma-portal/pkg/service"
	"rheuma-portal/pkg/utils"
)

type AuthMiddleware struct {
	jwtService service.JWTService
	logger     *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtSvc,
		logger:     logger,
	}
}

func bearerToken(c echo.Context) (string, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return "", apperrors.ErrEmptyAuthHeader
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", apperrors.ErrInvalidAuthHeader
	}
	return parts[1], nil
}

func (m *AuthMiddleware) authenticate(c echo.Context) error {
	tokenString, err := bearerToken(c)
	if err != nil {
		return err
	}
	claims, err := m.jwtService.ValidateToken(tokenString)
	if err != nil {
		return err
	}
	ctx := utils.WithUser(c.Request().Context(), claims.UserID, claims.Role)
	c.SetRequest(c.Request().WithContext(ctx))
	return nil
}

// Auth требует валидный токен; без него 401.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := m.authenticate(c); err != nil {
			m.logger.Warn("AuthMiddleware: запрос без валидного токена", zap.String("path", c.Path()), zap.Error(err))
			return utils.ErrorResponse(c, apperrors.ErrUnauthorized, m.logger)
		}
		return next(c)
	}
}

// OptionalAuth для публичного чтения: невалидный токен игнорируется,
// запрос продолжается как анонимный.
func (m *AuthMiddleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := m.authenticate(c); err != nil && err != apperrors.ErrEmptyAuthHeader {
			m.logger.Debug("AuthMiddleware: токен проигнорирован", zap.Error(err))
		}
		return next(c)
	}
}

// RequireRole пропускает только перечисленные роли. Ставится после Auth.
func (m *AuthMiddleware) RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, err := utils.GetUserRoleFromCtx(c.Request().Context())
			if err != nil {
				return utils.ErrorResponse(c, apperrors.ErrUnauthorized, m.logger)
			}
			for _, r := range roles {
				if r == role {
					return next(c)
				}
			}
			userID, _ := utils.GetUserIDFromCtx(c.Request().Context())
			m.logger.Warn("AuthMiddleware: недостаточно прав", zap.Uint64("userID", userID), zap.String("role", role), zap.String("path", c.Path()))
			return utils.ErrorResponse(c, apperrors.ErrForbidden, m.logger)
		}
	}
}

// RequireStaff - администраторы и редакторы.
func (m *AuthMiddleware) RequireStaff() echo.MiddlewareFunc {
	return m.RequireRole(constants.RoleAdmin, constants.RoleEditor)
}
