package ydb

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ydbwellness/ydb/content"
	"github.com/ydbwellness/ydb/views"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

var staticPages = []string{"blog", "research", "science", "shop", "assessment"}

func (a *App) handleSitemap(c echo.Context) error {
	posts := content.PublishedOnly(a.Blogs.Cache().List(c.Request().Context()))
	return a.renderSitemap(c, posts)
}

func (a *App) renderSitemap(c echo.Context, posts []content.BlogPost) error {
	base := a.Config.URL
	urls := []sitemapURL{
		{Loc: views.BuildURL(base)},
	}
	for _, p := range staticPages {
		urls = append(urls, sitemapURL{Loc: views.BuildURL(base, p)})
	}
	for _, p := range posts {
		u := sitemapURL{Loc: views.BuildURL(base, "blog", p.ID)}
		if mod := p.UpdatedAt; !mod.IsZero() {
			u.LastMod = mod.Format("2006-01-02")
		} else if !p.CreatedAt.IsZero() {
			u.LastMod = p.CreatedAt.Format("2006-01-02")
		}
		urls = append(urls, u)
	}
	for _, p := range a.Catalog.Products {
		urls = append(urls, sitemapURL{Loc: views.BuildURL(base, "product", p.ID)})
	}
	sitemap := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
