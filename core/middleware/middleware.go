package middleware

import (
	"context"
	"strings"

	"bookly-api/core/cache"
	"bookly-api/core/constants"
	"bookly-api/core/controller"
	"bookly-api/core/errors"
	"bookly-api/core/logger"
	"bookly-api/core/utils"

	"github.com/labstack/echo/v4"
)

type Middleware struct {
	cache cache.Cache
}

func NewMiddleware(c cache.Cache) *Middleware {
	return &Middleware{cache: c}
}

// AuthMiddleware validates the Bearer token and stores its claims in the
// request context under constants.ContextTokenData.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return controller.NewErrorResponse(401, errors.ErrMissingAuthorizationHeader, "missing authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return controller.NewErrorResponse(401, errors.ErrInvalidTokenFormat, "invalid authorization header format")
			}
			token := strings.TrimSpace(parts[1])

			if blacklisted, err := m.isBlacklisted(c.Request().Context(), token); err != nil {
				logger.Error("Middleware:AuthMiddleware:IsTokenBlacklisted", "error", err)
			} else if blacklisted {
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "token is no longer valid")
			}

			claims, err := utils.ValidateAndParseToken(token)
			if err != nil {
				return controller.NewErrorResponse(401, errors.ErrUnauthorized, "invalid or expired token")
			}

			c.Set(constants.ContextTokenData, claims)
			return next(c)
		}
	}
}

func (m *Middleware) isBlacklisted(ctx context.Context, token string) (bool, error) {
	if m.cache == nil {
		return false, nil
	}
	return m.cache.IsTokenBlacklisted(ctx, token)
}
