package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const userKey = "auth.user"

// TokenSource reads the caller's ID token from the request, "" when absent.
type TokenSource func(c echo.Context) string

// Middleware resolves the current user once per request. An invalid or
// expired token is treated as signed out.
func Middleware(p Provider, source TokenSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if tok := source(c); tok != "" {
				if u, err := p.Verify(tok); err == nil {
					SetUser(c, &u)
				}
			}
			return next(c)
		}
	}
}

// SetUser attaches u to the request.
func SetUser(c echo.Context, u *User) {
	c.Set(userKey, u)
	c.SetRequest(c.Request().WithContext(WithUser(c.Request().Context(), u)))
}

// CurrentUser returns the signed-in user or nil.
func CurrentUser(c echo.Context) *User {
	u, _ := c.Get(userKey).(*User)
	return u
}

// RequireUser redirects signed-out visitors to loginPath.
func RequireUser(loginPath string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) == nil {
				return c.Redirect(http.StatusSeeOther, loginPath)
			}
			return next(c)
		}
	}
}

// RequireAdmin redirects signed-out visitors to loginPath and hands
// signed-in non-admins to denied.
func RequireAdmin(p Policy, loginPath string, denied echo.HandlerFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := CurrentUser(c)
			if u == nil {
				return c.Redirect(http.StatusSeeOther, loginPath)
			}
			if !p.IsAdmin(u) {
				return denied(c)
			}
			return next(c)
		}
	}
}
