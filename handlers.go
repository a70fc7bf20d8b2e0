package ydb

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ydbwellness/ydb/auth"
	"github.com/ydbwellness/ydb/catalog"
	"github.com/ydbwellness/ydb/content"
	"github.com/ydbwellness/ydb/listing"
	"github.com/ydbwellness/ydb/views"
)

var (
	blogSorts = []option{
		{Value: "newest", Label: "Newest"},
		{Value: "oldest", Label: "Oldest"},
		{Value: "title", Label: "Title"},
	}
	shopSorts = []option{
		{Value: "popular", Label: "Most popular"},
		{Value: "price-low", Label: "Price: low to high"},
		{Value: "price-high", Label: "Price: high to low"},
		{Value: "rating", Label: "Top rated"},
	}
)

func shopCategories() []option {
	out := make([]option, len(catalog.Categories))
	for i, c := range catalog.Categories {
		out[i] = option{Value: c.ID, Label: c.Name}
	}
	return out
}

func (a *App) handleHome(c echo.Context) error {
	ctx := c.Request().Context()
	posts := content.PublishedOnly(a.Blogs.Cache().List(ctx))
	if len(posts) > 3 {
		posts = posts[:3]
	}
	products := listing.Apply(catalog.Listing, catalog.Listing.Initial(), a.Catalog.Products).Items
	if len(products) > 3 {
		products = products[:3]
	}
	meta := views.PageMeta{
		Description: a.Config.Description,
		URL:         views.BuildURL(a.Config.URL),
		JSONLD:      views.WebsiteJSONLD(a.site()),
	}
	return a.renderPage(c, http.StatusOK, views.HomePage, meta, views.Home{Posts: posts, Products: products})
}

func (a *App) handleBlogList(c echo.Context) error {
	posts := content.PublishedOnly(a.Blogs.Cache().List(c.Request().Context()))
	s := content.BlogListing
	st := listing.ParseState(s, c.QueryParams())
	view := listing.Apply(s, st, posts)
	facets := []facetSpec{{Name: "category", Label: "Category", Options: options(content.BlogCategories...)}}
	data := views.BlogList{
		View:     view,
		Controls: listControls(s, view.State, view, "/blog", facets, blogSorts, posts),
	}
	meta := views.PageMeta{Title: "Blog", URL: views.BuildURL(a.Config.URL, "blog")}
	return a.renderPage(c, http.StatusOK, views.BlogPage, meta, data)
}

func (a *App) handleBlogPost(c echo.Context) error {
	ctx := c.Request().Context()
	post, err := a.Blogs.Cache().Get(ctx, c.Param("id"))
	if err != nil && !errors.Is(err, content.ErrNotFound) {
		a.Log.Warn("blog lookup failed", zap.String("id", c.Param("id")), zap.Error(err))
	}
	if err != nil || !a.canSeeDraft(c, post) {
		return a.renderNotFound(c, views.NotFound{
			Title:     "Post not found",
			Message:   "The article you're looking for doesn't exist or has been removed.",
			BackURL:   "/blog",
			BackLabel: "Back to blog",
		})
	}
	related := views.FilterRelatedPosts(post, a.Blogs.Cache().List(ctx), 3)
	meta := views.PageMeta{
		Title:       post.Title,
		Description: post.Excerpt,
		URL:         views.BuildURL(a.Config.URL, "blog", post.ID),
		OGType:      "article",
		JSONLD:      views.BlogPostingJSONLD(a.site(), post),
	}
	return a.renderPage(c, http.StatusOK, views.BlogPostPage, meta, views.BlogDetail{Post: post, Related: related})
}

// canSeeDraft reports whether the caller may read post. Drafts are visible
// to their author and to admins.
func (a *App) canSeeDraft(c echo.Context, post content.BlogPost) bool {
	if post.Published {
		return true
	}
	u := auth.CurrentUser(c)
	return u != nil && (u.UID == post.AuthorID || a.Policy.IsAdmin(u))
}

func (a *App) handleResearch(c echo.Context) error {
	papers := a.Papers.Cache().List(c.Request().Context())
	s := content.PaperListing
	st := listing.ParseState(s, c.QueryParams())
	view := listing.Apply(s, st, papers)
	facets := []facetSpec{
		{Name: "category", Label: "Category", Options: options(content.PaperCategories...)},
		{Name: "status", Label: "Status", Options: options(content.PaperStatuses...)},
	}
	data := views.PaperList{
		View:     view,
		Controls: listControls(s, view.State, view, "/research", facets, nil, papers),
	}
	meta := views.PageMeta{Title: "Research Papers", URL: views.BuildURL(a.Config.URL, "research")}
	return a.renderPage(c, http.StatusOK, views.ResearchPage, meta, data)
}

// handleScience loads its three collections concurrently. Each list falls
// back to empty on its own, so one failing collection never blanks the page.
func (a *App) handleScience(c echo.Context) error {
	var data views.Science
	g, ctx := errgroup.WithContext(c.Request().Context())
	g.Go(func() error {
		data.Areas = a.Areas.Cache().List(ctx)
		return nil
	})
	g.Go(func() error {
		data.Members = a.Members.Cache().List(ctx)
		return nil
	})
	g.Go(func() error {
		papers := a.Papers.Cache().List(ctx)
		if len(papers) > 3 {
			papers = papers[:3]
		}
		data.Papers = papers
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	meta := views.PageMeta{Title: "Science", URL: views.BuildURL(a.Config.URL, "science")}
	return a.renderPage(c, http.StatusOK, views.SciencePage, meta, data)
}

func (a *App) handleShop(c echo.Context) error {
	products := a.Catalog.Products
	s := catalog.Listing
	st := listing.ParseState(s, c.QueryParams())
	view := listing.Apply(s, st, products)
	facets := []facetSpec{{Name: "category", Label: "Category", Options: shopCategories()}}
	data := views.Shop{
		View:     view,
		Controls: listControls(s, view.State, view, "/shop", facets, shopSorts, products),
		Timeline: a.Catalog.Timeline,
	}
	meta := views.PageMeta{Title: "Shop", URL: views.BuildURL(a.Config.URL, "shop")}
	return a.renderPage(c, http.StatusOK, views.ShopPage, meta, data)
}

func (a *App) handleProduct(c echo.Context) error {
	p, err := a.Catalog.Get(c.Param("id"))
	if err != nil {
		return a.renderNotFound(c, views.NotFound{
			Title:     "Product not found",
			Message:   "We couldn't find that product.",
			BackURL:   "/shop",
			BackLabel: "Back to shop",
		})
	}
	var related []catalog.Product
	for _, other := range a.Catalog.Products {
		if other.ID != p.ID && other.Category == p.Category {
			related = append(related, other)
		}
	}
	meta := views.PageMeta{
		Title:       p.Name,
		Description: p.Description,
		URL:         views.BuildURL(a.Config.URL, "product", p.ID),
	}
	data := views.ProductDetail{Product: p, Category: catalog.CategoryName(p.Category), Related: related}
	return a.renderPage(c, http.StatusOK, views.ProductPage, meta, data)
}

func (a *App) handleAccessDenied(c echo.Context) error {
	return a.renderPage(c, http.StatusForbidden, views.AccessDeniedPage, views.PageMeta{Title: "Access denied"}, nil)
}

func (a *App) handleToastDismiss(c echo.Context) error {
	if b := toastBus(c); b != nil {
		b.Dismiss(c.Param("id"))
	}
	return c.Redirect(http.StatusSeeOther, localPath(c.FormValue("next"), "/"))
}

func (a *App) handleRobots(c echo.Context) error {
	body := "User-agent: *\nDisallow: /admin\nDisallow: /create-blog\n\nSitemap: " +
		views.BuildURL(a.Config.URL, "sitemap.xml") + "\n"
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	if ok && he.Code == http.StatusNotFound {
		_ = a.renderNotFound(c, views.NotFound{})
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Log.Error("server error", zap.String("uri", c.Request().RequestURI), zap.Error(err))
		_ = a.renderPage(c, code, views.ServerErrorPage, views.PageMeta{Title: "Error"}, nil)
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
