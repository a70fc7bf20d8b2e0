package ydb

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ydbwellness/ydb/auth"
	"github.com/ydbwellness/ydb/content"
	"github.com/ydbwellness/ydb/toast"
	"github.com/ydbwellness/ydb/views"
)

// errUploadRejected marks a form whose file was refused; the user has
// already been notified and the form is shown again.
var errUploadRejected = errors.New("upload rejected")

// bindBlog reads the post form fields onto p. Author and authorId are left
// to the caller.
func bindBlog(c echo.Context, p content.BlogPost) (content.BlogPost, bool) {
	p.Title = strings.TrimSpace(c.FormValue("title"))
	p.Excerpt = strings.TrimSpace(c.FormValue("excerpt"))
	p.Content = c.FormValue("content")
	p.Category = c.FormValue("category")
	p.Tags = content.ParseTags(c.FormValue("tags"))
	p.ImageURL = strings.TrimSpace(c.FormValue("imageUrl"))
	draft := c.FormValue("draft") == "on"
	p.Published = !draft
	return p, draft
}

// uploadCover replaces p.ImageURL with an uploaded cover image, if one was
// sent in the image field.
func (a *App) uploadCover(c echo.Context, p *content.BlogPost) error {
	f, closeFn, ok, err := formFile(c, "image")
	if errors.Is(err, errFileTooLarge) {
		toast.Errorf(notifier(c), "Invalid Image", "Images must be 10MB or smaller")
		return errUploadRejected
	}
	if err != nil || !ok {
		return err
	}
	defer closeFn()
	url, err := a.Uploads.UploadCover(c.Request().Context(), notifier(c), p.Title, f)
	if err != nil {
		if errors.Is(err, content.ErrInvalidFileType) {
			return errUploadRejected
		}
		return err
	}
	p.ImageURL = url
	return nil
}

func (a *App) createBlogForm(p content.BlogPost, draft, preview bool) views.BlogForm {
	return views.BlogForm{
		Post:       p,
		Tags:       views.JoinTags(p.Tags),
		Draft:      draft,
		Action:     "/create-blog",
		Cancel:     "/blog",
		Categories: content.BlogCategories,
		Preview:    preview,
	}
}

func (a *App) renderCreateBlog(c echo.Context, code int, form views.BlogForm) error {
	return a.renderPage(c, code, views.CreateBlogPage, views.PageMeta{Title: "Create Blog Post"}, form)
}

func (a *App) handleCreateBlogPage(c echo.Context) error {
	return a.renderCreateBlog(c, http.StatusOK, a.createBlogForm(content.BlogPost{}, false, false))
}

// handleCreateBlog publishes a post by the signed-in user. action=preview
// renders the post above the form without saving anything.
func (a *App) handleCreateBlog(c echo.Context) error {
	u := auth.CurrentUser(c)
	post, draft := bindBlog(c, content.BlogPost{})
	post.Author = u.Email
	post.AuthorID = u.UID

	if c.FormValue("action") == "preview" {
		return a.renderCreateBlog(c, http.StatusOK, a.createBlogForm(post, draft, true))
	}

	if err := a.uploadCover(c, &post); err != nil {
		if errors.Is(err, errUploadRejected) {
			return a.renderCreateBlog(c, http.StatusUnprocessableEntity, a.createBlogForm(post, draft, false))
		}
		return err
	}
	if post.ImageURL == "" {
		post.ImageURL = content.DefaultBlogImage
	}
	if _, err := a.Blogs.Create(c.Request().Context(), notifier(c), post); err != nil {
		return a.renderCreateBlog(c, writeStatus(err), a.createBlogForm(post, draft, false))
	}
	return c.Redirect(http.StatusSeeOther, "/blog")
}

// writeStatus is the status used when a form is shown again after err.
func writeStatus(err error) int {
	if errors.Is(err, content.ErrValidation) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
