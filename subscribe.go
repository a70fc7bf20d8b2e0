package ydb

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ydbwellness/ydb/newsletter"
	"github.com/ydbwellness/ydb/toast"
)

// handleNewsletter subscribes the footer form's address and sends the
// visitor back to the page they came from.
func (a *App) handleNewsletter(c echo.Context) error {
	back := localPath(c.FormValue("next"), "/")
	n := notifier(c)
	if !a.newsletterLimiter.Allow(c.RealIP()) {
		toast.Errorf(n, "Slow down", "Too many attempts. Please try again later.")
		return c.Redirect(http.StatusSeeOther, back)
	}
	_, err := a.Newsletter.Subscribe(c.Request().Context(), c.FormValue("email"))
	switch {
	case err == nil:
		toast.Successf(n, "Subscribed!", "Thank you for subscribing to our newsletter.")
	case errors.Is(err, newsletter.ErrAlreadySubscribed):
		n.Show(toast.Notification{
			Title:       "Already subscribed",
			Description: "This email is already on our list.",
			Variant:     toast.Info,
		})
	case errors.Is(err, newsletter.ErrInvalidEmail):
		toast.Errorf(n, "Invalid email", "Please enter a valid email address.")
	default:
		a.Log.Error("newsletter subscribe", zap.Error(err))
		toast.Errorf(n, "Error", "Could not subscribe right now. Please try again.")
	}
	return c.Redirect(http.StatusSeeOther, back)
}
