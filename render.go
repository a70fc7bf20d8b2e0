package ydb

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/ydbwellness/ydb/auth"
	"github.com/ydbwellness/ydb/views"
)

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	return RenderStatus(c, http.StatusOK, cmp)
}

// RenderStatus writes a templ component with a specific HTTP status code.
func RenderStatus(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

func (a *App) site() views.SiteConfig {
	return views.SiteConfig{Name: a.Config.Name, URL: a.Config.URL, Description: a.Config.Description}
}

// page assembles the layout data shared by every view.
func (a *App) page(c echo.Context, meta views.PageMeta, data any) views.Page {
	u := auth.CurrentUser(c)
	return views.Page{
		Site:    a.site(),
		Meta:    meta,
		User:    u,
		IsAdmin: u != nil && a.Policy.IsAdmin(u),
		CSRF:    CsrfToken(c),
		Toasts:  activeToasts(c),
		Path:    c.Request().URL.RequestURI(),
		Data:    data,
	}
}

// renderPage renders the named view with status code.
func (a *App) renderPage(c echo.Context, code int, name string, meta views.PageMeta, data any) error {
	return RenderStatus(c, code, a.Views.Page(name, a.page(c, meta, data)))
}

func (a *App) renderNotFound(c echo.Context, nf views.NotFound) error {
	return a.renderPage(c, http.StatusNotFound, views.NotFoundPage, views.PageMeta{Title: "Not found"}, nf)
}
