package http

import (
	"errors"
	"strings"

	"fooddelivery/internal/core/domain/model/actor"
	"fooddelivery/internal/core/ports"

	"github.com/labstack/echo/v4"
)

const actorContextKey = "actor"

// ErrUnauthorized is returned for a missing, malformed or rejected bearer token.
var ErrUnauthorized = errors.New("missing or invalid bearer token")

// BearerAuth resolves the Authorization header to an actor and stores it on
// the echo context.
func BearerAuth(auth ports.Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, token, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
				return ErrUnauthorized
			}

			a, err := auth.Authenticate(strings.TrimSpace(token))
			if err != nil {
				return errors.Join(ErrUnauthorized, err)
			}

			c.Set(actorContextKey, a)
			return next(c)
		}
	}
}

func actorFrom(c echo.Context) (actor.Actor, error) {
	a, ok := c.Get(actorContextKey).(actor.Actor)
	if !ok {
		return actor.Actor{}, ErrUnauthorized
	}
	return a, nil
}
