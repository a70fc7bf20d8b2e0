package ydb

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ydbwellness/ydb/auth"
	"github.com/ydbwellness/ydb/views"
)

const loginFailed = "Failed to log in"

func (a *App) handleLoginPage(c echo.Context) error {
	if auth.CurrentUser(c) != nil {
		return c.Redirect(http.StatusSeeOther, "/admin")
	}
	return a.renderLogin(c, http.StatusOK, views.Login{})
}

func (a *App) renderLogin(c echo.Context, code int, data views.Login) error {
	data.AllowSignup = a.Config.AllowSignup
	return a.renderPage(c, code, views.LoginPage, views.PageMeta{Title: "Sign in"}, data)
}

// handleLogin signs the visitor in. Only failed attempts count against the
// per-IP limit.
func (a *App) handleLogin(c echo.Context) error {
	ip := c.RealIP()
	email := strings.TrimSpace(c.FormValue("email"))
	if !a.loginLimiter.Check(ip) {
		return a.renderLogin(c, http.StatusTooManyRequests, views.Login{
			Email: email,
			Error: "Too many login attempts. Try again later.",
		})
	}
	token, u, err := a.Auth.SignIn(c.Request().Context(), email, c.FormValue("password"))
	if err != nil {
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			a.Log.Error("sign in", zap.Error(err))
		}
		a.loginLimiter.Record(ip)
		return a.renderLogin(c, http.StatusUnauthorized, views.Login{Email: email, Error: loginFailed})
	}
	if err := setSessionValue(c, sessionTokenKey, token); err != nil {
		return err
	}
	a.Log.Info("signed in", zap.String("uid", u.UID))
	return c.Redirect(http.StatusSeeOther, "/admin")
}

func (a *App) handleLogout(c echo.Context) error {
	if err := setSessionValue(c, sessionTokenKey, nil); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handleSignupPage(c echo.Context) error {
	return a.renderSignup(c, http.StatusOK, views.Signup{})
}

func (a *App) renderSignup(c echo.Context, code int, data views.Signup) error {
	data.Enabled = a.Config.AllowSignup
	return a.renderPage(c, code, views.SignupPage, views.PageMeta{Title: "Sign up"}, data)
}

func (a *App) handleSignup(c echo.Context) error {
	if !a.Config.AllowSignup {
		return a.renderSignup(c, http.StatusForbidden, views.Signup{})
	}
	email := strings.TrimSpace(c.FormValue("email"))
	u, err := a.Auth.SignUp(c.Request().Context(), email, c.FormValue("password"))
	if err != nil {
		msg := "Failed to create account"
		switch {
		case errors.Is(err, auth.ErrEmailTaken):
			msg = "An account with this email already exists"
		case errors.Is(err, auth.ErrWeakPassword):
			msg = "Password must be at least 6 characters"
		case errors.Is(err, auth.ErrInvalidEmail):
			msg = "Please enter a valid email address"
		default:
			a.Log.Error("sign up", zap.Error(err))
		}
		return a.renderSignup(c, http.StatusUnprocessableEntity, views.Signup{Email: email, Error: msg})
	}
	token, err := a.Auth.Issue(u)
	if err != nil {
		return err
	}
	if err := setSessionValue(c, sessionTokenKey, token); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/")
}
