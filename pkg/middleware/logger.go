// pkg/middleware/logger.go

package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"rheuma-portal/pkg/i18n"
)

// RequestLogger пишет в zap метод, путь, статус и длительность каждого запроса.
func RequestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			req := c.Request()
			logger.Info("HTTP",
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", c.RealIP()),
			)
			return nil
		}
	}
}

// Locale определяет язык запроса (lang, заголовок Lang, Accept-Language) и кладёт его в контекст.
func Locale() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			locale := i18n.Negotiate(req)
			c.SetRequest(req.WithContext(i18n.WithLocale(req.Context(), locale)))
			c.Response().Header().Set("Content-Language", string(locale))
			return next(c)
		}
	}
}
