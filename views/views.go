// Package views renders the site's HTML. Each page is a layout plus a page
// template from the embedded templates directory, exposed as a templ
// component so handlers render every page the same way.
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/a-h/templ"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Page names.
const (
	HomePage          = "home"
	BlogPage          = "blog"
	BlogPostPage      = "blog_post"
	CreateBlogPage    = "create_blog"
	ResearchPage      = "research"
	SciencePage       = "science"
	ShopPage          = "shop"
	ProductPage       = "product"
	AssessmentPage    = "assessment"
	LoginPage         = "login"
	SignupPage        = "signup"
	AccessDeniedPage  = "access_denied"
	AdminPage         = "admin"
	AdminBlogForm     = "admin_blog_form"
	AdminPaperForm    = "admin_paper_form"
	AdminAreaForm     = "admin_area_form"
	AdminMemberForm   = "admin_member_form"
	ConfirmDeletePage = "confirm_delete"
	NotFoundPage      = "not_found"
	ServerErrorPage   = "server_error"
)

// Views holds one parsed template set per page.
type Views struct {
	pages map[string]*template.Template
}

// New parses every embedded page against the layout.
func New() (*Views, error) {
	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	v := &Views{pages: make(map[string]*template.Template, len(names))}
	for _, name := range names {
		if name == layoutFile {
			continue
		}
		t, err := template.New("layout.html").Funcs(funcMap).ParseFS(templateFS, layoutFile, name)
		if err != nil {
			return nil, fmt.Errorf("views: parse %s: %w", name, err)
		}
		v.pages[strings.TrimSuffix(path.Base(name), ".html")] = t
	}
	return v, nil
}

// Has reports whether name is a known page.
func (v *Views) Has(name string) bool {
	_, ok := v.pages[name]
	return ok
}

// Page returns the component rendering page name with p.
func (v *Views) Page(name string, p Page) templ.Component {
	t, ok := v.pages[name]
	if !ok {
		return templ.ComponentFunc(func(context.Context, io.Writer) error {
			return fmt.Errorf("views: unknown page %q", name)
		})
	}
	return templ.FromGoHTML(t, p)
}
