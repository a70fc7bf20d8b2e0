package ydb

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ydbwellness/ydb/auth"
	"github.com/ydbwellness/ydb/content"
	"github.com/ydbwellness/ydb/toast"
	"github.com/ydbwellness/ydb/views"
)

var (
	adminTabs = []option{
		{Value: "blogs", Label: "Blog Posts"},
		{Value: "research", Label: "Research Papers"},
		{Value: "science", Label: "Science"},
		{Value: "instructions", Label: "Instructions"},
	}
	scienceSections = []option{
		{Value: content.ResearchArea, Label: "Research Areas"},
		{Value: content.TeamMembers, Label: "Team Members"},
	}
)

func adminURL(tab, section string) string {
	q := url.Values{}
	q.Set("tab", tab)
	if section != "" {
		q.Set("section", section)
	}
	return "/admin?" + q.Encode()
}

func pick(v string, opts []option) string {
	for _, o := range opts {
		if o.Value == v {
			return v
		}
	}
	return opts[0].Value
}

func (a *App) handleAdmin(c echo.Context) error {
	ctx := c.Request().Context()
	data := views.Admin{
		Tab:     pick(c.QueryParam("tab"), adminTabs),
		Section: pick(c.QueryParam("section"), scienceSections),
	}
	for _, t := range adminTabs {
		data.Tabs = append(data.Tabs, views.Link{Label: t.Label, URL: adminURL(t.Value, ""), Active: t.Value == data.Tab})
	}
	for _, s := range scienceSections {
		data.Sections = append(data.Sections, views.Link{Label: s.Label, URL: adminURL("science", s.Value), Active: s.Value == data.Section})
	}

	if subs, err := a.Newsletter.Subscribers(ctx); err != nil {
		a.Log.Warn("admin subscribers", zap.Error(err))
	} else {
		data.Subscribers = len(subs)
	}

	switch data.Tab {
	case "blogs":
		data.Blogs = a.Blogs.Cache().List(ctx)
	case "research":
		data.Papers = a.Papers.Cache().List(ctx)
	case "science":
		if data.Section == content.TeamMembers {
			data.Members = a.Members.Cache().List(ctx)
		} else {
			data.Areas = a.Areas.Cache().List(ctx)
		}
	default:
		b, err := EmbeddedAssets.ReadFile(instructionsFile)
		if err != nil {
			a.Log.Warn("admin instructions", zap.Error(err))
		}
		data.Instructions = string(b)
	}
	return a.renderPage(c, http.StatusOK, views.AdminPage, views.PageMeta{Title: "Admin"}, data)
}

// resource is the admin CRUD surface for one content collection.
type resource[T content.Entity] struct {
	app     *App
	path    string
	kind    string
	back    string
	page    string
	manager *content.Manager[T]
	title   func(T) string
	// bind reads the submitted form onto v. errUploadRejected sends the
	// form back to the user.
	bind func(c echo.Context, v T, isNew bool) (T, error)
	form func(v T, action, cancel string) any
}

func (r *resource[T]) register(g *echo.Group) {
	base := "/" + r.path
	g.GET(base+"/new", r.newForm)
	g.POST(base, r.create)
	g.GET(base+"/:id/edit", r.editForm)
	g.POST(base+"/:id", r.update)
	g.GET(base+"/:id/delete", r.confirmDelete)
	g.POST(base+"/:id/delete", r.delete)
}

func (r *resource[T]) createAction() string { return "/admin/" + r.path }

func (r *resource[T]) itemAction(id string) string { return "/admin/" + r.path + "/" + id }

func (r *resource[T]) render(c echo.Context, code int, v T, action string) error {
	return r.app.renderPage(c, code, r.page, views.PageMeta{Title: r.kind}, r.form(v, action, r.back))
}

func (r *resource[T]) notFound(c echo.Context) error {
	return r.app.renderNotFound(c, views.NotFound{
		Title:     r.kind + " not found",
		Message:   "It may already have been deleted.",
		BackURL:   r.back,
		BackLabel: "Back to admin",
	})
}

func (r *resource[T]) load(c echo.Context) (T, bool) {
	v, err := r.manager.Cache().Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		if !errors.Is(err, content.ErrNotFound) {
			r.app.Log.Warn("admin load", zap.String("collection", r.path), zap.Error(err))
		}
		return v, false
	}
	return v, true
}

func (r *resource[T]) newForm(c echo.Context) error {
	var zero T
	return r.render(c, http.StatusOK, zero, r.createAction())
}

func (r *resource[T]) create(c echo.Context) error {
	var zero T
	v, err := r.bind(c, zero, true)
	if err != nil {
		if errors.Is(err, errUploadRejected) {
			return r.render(c, http.StatusUnprocessableEntity, v, r.createAction())
		}
		return err
	}
	if _, err := r.manager.Create(c.Request().Context(), notifier(c), v); err != nil {
		return r.render(c, writeStatus(err), v, r.createAction())
	}
	return c.Redirect(http.StatusSeeOther, r.back)
}

func (r *resource[T]) editForm(c echo.Context) error {
	v, ok := r.load(c)
	if !ok {
		return r.notFound(c)
	}
	return r.render(c, http.StatusOK, v, r.itemAction(c.Param("id")))
}

func (r *resource[T]) update(c echo.Context) error {
	current, ok := r.load(c)
	if !ok {
		return r.notFound(c)
	}
	id := c.Param("id")
	v, err := r.bind(c, current, false)
	if err != nil {
		if errors.Is(err, errUploadRejected) {
			return r.render(c, http.StatusUnprocessableEntity, v, r.itemAction(id))
		}
		return err
	}
	if err := r.manager.Update(c.Request().Context(), notifier(c), id, v); err != nil {
		return r.render(c, writeStatus(err), v, r.itemAction(id))
	}
	return c.Redirect(http.StatusSeeOther, r.back)
}

func (r *resource[T]) confirmDelete(c echo.Context) error {
	v, ok := r.load(c)
	if !ok {
		return r.notFound(c)
	}
	data := views.ConfirmDelete{
		Kind:   r.kind,
		Title:  r.title(v),
		Action: r.itemAction(c.Param("id")) + "/delete",
		Cancel: r.back,
	}
	return r.app.renderPage(c, http.StatusOK, views.ConfirmDeletePage, views.PageMeta{Title: "Delete " + r.kind}, data)
}

// delete removes the item only when the confirm button was pressed.
func (r *resource[T]) delete(c echo.Context) error {
	err := r.manager.Delete(c.Request().Context(), notifier(c), c.Param("id"), c.FormValue("confirm") == "yes")
	if err != nil && !errors.Is(err, content.ErrDeleteNotConfirmed) {
		r.app.Log.Warn("admin delete", zap.String("collection", r.path), zap.Error(err))
	}
	return c.Redirect(http.StatusSeeOther, r.back)
}

func (a *App) blogResource() *resource[content.BlogPost] {
	return &resource[content.BlogPost]{
		app:     a,
		path:    content.Blogs,
		kind:    "Blog post",
		back:    adminURL("blogs", ""),
		page:    views.AdminBlogForm,
		manager: a.Blogs,
		title:   func(p content.BlogPost) string { return p.Title },
		bind: func(c echo.Context, p content.BlogPost, isNew bool) (content.BlogPost, error) {
			p, _ = bindBlog(c, p)
			if author := strings.TrimSpace(c.FormValue("author")); author != "" {
				p.Author = author
			}
			if isNew {
				u := auth.CurrentUser(c)
				p.AuthorID = u.UID
				if p.Author == "" {
					p.Author = u.Email
				}
			}
			if err := a.uploadCover(c, &p); err != nil {
				return p, err
			}
			if isNew && p.ImageURL == "" {
				p.ImageURL = content.DefaultBlogImage
			}
			return p, nil
		},
		form: func(p content.BlogPost, action, cancel string) any {
			return views.BlogForm{
				Post:       p,
				Tags:       views.JoinTags(p.Tags),
				Draft:      p.ID != "" && !p.Published,
				Action:     action,
				Cancel:     cancel,
				Categories: content.BlogCategories,
				Admin:      true,
			}
		},
	}
}

func (a *App) paperResource() *resource[content.Paper] {
	return &resource[content.Paper]{
		app:     a,
		path:    content.ResearchPaper,
		kind:    "Research paper",
		back:    adminURL("research", ""),
		page:    views.AdminPaperForm,
		manager: a.Papers,
		title:   func(p content.Paper) string { return p.Title },
		bind: func(c echo.Context, p content.Paper, _ bool) (content.Paper, error) {
			p.Title = strings.TrimSpace(c.FormValue("title"))
			p.Authors = strings.TrimSpace(c.FormValue("authors"))
			p.Journal = strings.TrimSpace(c.FormValue("journal"))
			p.Year = strings.TrimSpace(c.FormValue("year"))
			p.Participants = formInt(c.FormValue("participants"))
			p.Duration = strings.TrimSpace(c.FormValue("duration"))
			p.KeyFinding = strings.TrimSpace(c.FormValue("keyFinding"))
			p.Status = c.FormValue("status")
			p.Category = c.FormValue("category")
			p.Abstract = c.FormValue("abstract")
			p.DownloadURL = strings.TrimSpace(c.FormValue("downloadUrl"))

			f, closeFn, ok, err := formFile(c, "pdf")
			if errors.Is(err, errFileTooLarge) {
				toast.Errorf(notifier(c), "Invalid File", "PDFs must be 10MB or smaller")
				return p, errUploadRejected
			}
			if err != nil {
				return p, err
			}
			if ok {
				defer closeFn()
				link, err := a.Uploads.UploadPDF(c.Request().Context(), notifier(c), content.PaperUploads, f)
				if err != nil {
					if errors.Is(err, content.ErrInvalidFileType) {
						return p, errUploadRejected
					}
					return p, err
				}
				p.DownloadURL = link
			}
			return p, nil
		},
		form: func(p content.Paper, action, cancel string) any {
			if p.Status == "" {
				p.Status = content.PaperStatuses[0]
			}
			return views.PaperForm{
				Paper:      p,
				Action:     action,
				Cancel:     cancel,
				Categories: content.PaperCategories,
				Statuses:   content.PaperStatuses,
			}
		},
	}
}

func (a *App) areaResource() *resource[content.Area] {
	return &resource[content.Area]{
		app:     a,
		path:    content.ResearchArea,
		kind:    "Research area",
		back:    adminURL("science", content.ResearchArea),
		page:    views.AdminAreaForm,
		manager: a.Areas,
		title:   func(ar content.Area) string { return ar.Title },
		bind: func(c echo.Context, ar content.Area, _ bool) (content.Area, error) {
			ar.Title = strings.TrimSpace(c.FormValue("title"))
			ar.Description = strings.TrimSpace(c.FormValue("description"))
			ar.Studies = formInt(c.FormValue("studies"))
			ar.Participants = formInt(c.FormValue("participants"))
			ar.Icon = c.FormValue("icon")
			ar.Color = c.FormValue("color")
			return ar, nil
		},
		form: func(ar content.Area, action, cancel string) any {
			return views.AreaForm{
				Area:   ar,
				Action: action,
				Cancel: cancel,
				Icons:  content.AreaIcons,
				Colors: content.AreaColors,
			}
		},
	}
}

func (a *App) memberResource() *resource[content.Member] {
	return &resource[content.Member]{
		app:     a,
		path:    content.TeamMembers,
		kind:    "Team member",
		back:    adminURL("science", content.TeamMembers),
		page:    views.AdminMemberForm,
		manager: a.Members,
		title:   func(m content.Member) string { return m.Name },
		bind: func(c echo.Context, m content.Member, _ bool) (content.Member, error) {
			m.Name = strings.TrimSpace(c.FormValue("name"))
			m.Role = strings.TrimSpace(c.FormValue("role"))
			m.Credentials = strings.TrimSpace(c.FormValue("credentials"))
			m.Image = strings.TrimSpace(c.FormValue("image"))
			m.Bio = c.FormValue("bio")
			return m, nil
		},
		form: func(m content.Member, action, cancel string) any {
			return views.MemberForm{Member: m, Action: action, Cancel: cancel}
		},
	}
}
