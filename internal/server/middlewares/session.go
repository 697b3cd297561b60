package middlewares

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/mdouchement/itemlist/internal/apierror"
	"github.com/mdouchement/itemlist/internal/server/session"
	"github.com/pkg/errors"
)

const (
	// CurrentUserContextKey is the key to retrieve the current_user from echo.Context.
	CurrentUserContextKey = "current_user"
	// TokenContextKey is the key to retrieve the parsed JWT from echo.Context.
	TokenContextKey = "token"
)

// Session returns a JWT auth middleware.
// It stores current_user into echo.Context
func Session(m session.Manager) echo.MiddlewareFunc {
	jwtmw := echojwt.WithConfig(echojwt.Config{
		SigningKey: m.JWTSigningKey(),
		ContextKey: TokenContextKey,
	})

	fake := func(echo.Context) error {
		return nil
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token(c.Request().Header.Get(echo.HeaderAuthorization)) == "" {
				return invalidAuth(c)
			}

			// Check JWT validity according its claims.
			if err := jwtmw(fake)(c); err != nil {
				return invalidAuth(c)
			}

			tk, ok := c.Get(TokenContextKey).(*jwt.Token)
			if !ok {
				panic("token implementation has changed")
			}

			user, err := m.UserFromToken(tk)
			if err != nil {
				if apierror.StatusCode(err) == http.StatusUnauthorized {
					return c.JSON(http.StatusUnauthorized, errors.Cause(err))
				}
				return err
			}

			// Store current_user for handlers.
			c.Set(CurrentUserContextKey, user)
			return next(c)
		}
	}
}

func invalidAuth(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, apierror.Unauthorized("Invalid login credentials."))
}

func token(authorization string) string {
	parts := strings.Split(authorization, " ")
	if strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
