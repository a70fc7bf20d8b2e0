package ydb

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/ydbwellness/ydb/auth"
	"github.com/ydbwellness/ydb/toast"
)

const (
	sessionName = "ydb_session"

	sessionTokenKey = "token"
	sessionToastKey = "toast"
	sessionQuizKey  = "quiz"

	toastBusKey = "toast.bus"
)

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)

	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.NonWWWRedirect())
	e.Pre(middleware.RemoveTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
	}))

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				a.Log.Warn("request", append(fields, zap.Error(v.Error))...)
				return nil
			}
			a.Log.Info("request", fields...)
			return nil
		},
	}))

	e.Use(middleware.Recover())

	e.Use(middleware.BodyLimit("12M"))

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, uploadsPrefix+"/")
		},
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' https: data:; font-src 'self'; form-action 'self'",
		HSTSMaxAge:            31536000,
		HSTSExcludeSubdomains: false,
	}))

	e.Use(session.Middleware(a.newSessionStore()))

	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		ContextKey:  middleware.DefaultCSRFConfig.ContextKey,
		TokenLookup: "header:X-CSRF-Token,form:_csrf",
		CookieName:  "_csrf",
		CookiePath:  "/",
		CookieSameSite: func() http.SameSite {
			return http.SameSiteLaxMode
		}(),
		CookieSecure: a.Config.CookieSecure,
		ErrorHandler: func(err error, c echo.Context) error {
			return c.String(http.StatusForbidden, "Forbidden")
		},
	}))

	e.Use(a.toastSession)
	e.Use(auth.Middleware(a.Auth, sessionToken))
	e.Use(cacheControlMiddleware)
}

func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		switch {
		case strings.HasPrefix(path, "/public/"), strings.HasPrefix(path, uploadsPrefix+"/"):
			c.Response().Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		case path == "/sitemap.xml" || path == "/feed.xml" || path == "/robots.txt":
			c.Response().Header().Set("Cache-Control", "public, max-age=86400")
		default:
			c.Response().Header().Set("Cache-Control", "no-store")
		}
		return next(c)
	}
}

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 12,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

// toastSession gives every browser session its own notification bus. The
// bus id lives in the session cookie.
func (a *App) toastSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if strings.HasPrefix(c.Request().URL.Path, uploadsPrefix+"/") {
			return next(c)
		}
		sess, err := session.Get(sessionName, c)
		if sess == nil {
			return err
		}
		if err != nil {
			a.Log.Info("resetting undecodable session", zap.Error(err))
			clear(sess.Values)
		}
		id, _ := sess.Values[sessionToastKey].(string)
		if id == "" {
			id = uuid.NewString()
			sess.Values[sessionToastKey] = id
			if err := sess.Save(c.Request(), c.Response()); err != nil {
				return err
			}
		}
		c.Set(toastBusKey, a.Toasts.For(id))
		return next(c)
	}
}

func toastBus(c echo.Context) *toast.Bus {
	b, _ := c.Get(toastBusKey).(*toast.Bus)
	return b
}

// notifier returns the caller's notification bus.
func notifier(c echo.Context) toast.Notifier {
	if b := toastBus(c); b != nil {
		return b
	}
	return toast.Discard
}

func activeToasts(c echo.Context) []toast.Notification {
	if b := toastBus(c); b != nil {
		return b.Active()
	}
	return nil
}

// currentSession returns the request's cookie session. When the cookie no
// longer decodes (rotated secret, tampering) the store still hands back a
// fresh session alongside the error; that session is used and the bad
// cookie is overwritten on the next save.
func currentSession(c echo.Context) (*sessions.Session, error) {
	sess, err := session.Get(sessionName, c)
	if sess == nil {
		return nil, err
	}
	return sess, nil
}

func sessionToken(c echo.Context) string {
	sess, err := currentSession(c)
	if err != nil {
		return ""
	}
	tok, _ := sess.Values[sessionTokenKey].(string)
	return tok
}

func setSessionValue(c echo.Context, key string, v any) error {
	sess, err := currentSession(c)
	if err != nil {
		return err
	}
	if v == nil {
		delete(sess.Values, key)
	} else {
		sess.Values[key] = v
	}
	return sess.Save(c.Request(), c.Response())
}

func sessionValue(c echo.Context, key string) string {
	sess, err := currentSession(c)
	if err != nil {
		return ""
	}
	v, _ := sess.Values[key].(string)
	return v
}

// CsrfToken extracts the CSRF token from the Echo context.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
