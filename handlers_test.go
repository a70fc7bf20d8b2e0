package ydb

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ydbwellness/ydb/assessment"
	"github.com/ydbwellness/ydb/content"
	"github.com/ydbwellness/ydb/docstore"
	"github.com/ydbwellness/ydb/seed"
	"github.com/ydbwellness/ydb/toast"
)

func seedSite(t *testing.T, s *testSite) {
	t.Helper()
	f, err := seed.Default()
	require.NoError(t, err)
	_, err = seed.Run(context.Background(), s.app.Store, f)
	require.NoError(t, err)
	s.app.Blogs.Cache().Invalidate()
	s.app.Papers.Cache().Invalidate()
	s.app.Areas.Cache().Invalidate()
	s.app.Members.Cache().Invalidate()
}

func ids(doc *goquery.Document, sel string) []string {
	var out []string
	doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
		out = append(out, s.AttrOr("data-id", ""))
	})
	return out
}

func TestPublicPagesRender(t *testing.T) {
	s := newTestSite(t)
	seedSite(t, s)
	for _, path := range []string{"/", "/blog", "/research", "/science", "/shop", "/product/1", "/assessment", "/login", "/signup"} {
		t.Run(path, func(t *testing.T) {
			resp, doc := s.get(path)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
			assert.NotEmpty(t, doc.Find("main").Text())
		})
	}
}

func TestNotFoundPages(t *testing.T) {
	s := newTestSite(t)

	resp, doc := s.get("/blog/missing")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Post not found", strings.TrimSpace(doc.Find(".not-found h1").Text()))
	assert.Equal(t, "/blog", doc.Find(".not-found a.button").AttrOr("href", ""))

	resp, doc = s.get("/product/nope")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Product not found", strings.TrimSpace(doc.Find(".not-found h1").Text()))

	resp, doc = s.get("/no/such/page")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Page not found", strings.TrimSpace(doc.Find(".not-found h1").Text()))
}

func TestBlogListingFiltersAndSearches(t *testing.T) {
	s := newTestSite(t)
	seedSite(t, s)

	_, doc := s.get("/blog?category=PCOS")
	require.NotEmpty(t, ids(doc, ".card.post"))
	doc.Find(".card.post .pill").Each(func(_ int, sel *goquery.Selection) {
		assert.Equal(t, "PCOS", strings.TrimSpace(sel.Text()))
	})

	_, doc = s.get("/blog?q=nothing-matches-this")
	assert.Empty(t, ids(doc, ".card.post"))
	assert.Equal(t, 1, doc.Find(".empty-state").Length())
}

func TestShopSortsByPrice(t *testing.T) {
	s := newTestSite(t)
	_, doc := s.get("/shop?sort=price-low")
	got := ids(doc, ".card.product")
	require.NotEmpty(t, got)

	want := s.app.Catalog.Products[0]
	for _, p := range s.app.Catalog.Products {
		if p.Price < want.Price {
			want = p
		}
	}
	assert.Equal(t, want.ID, got[0])
}

func TestResearchFacetCounts(t *testing.T) {
	s := newTestSite(t)
	seedSite(t, s)
	_, doc := s.get("/research?status=Published")
	for _, id := range ids(doc, ".card.paper") {
		p, err := s.app.Papers.Cache().Get(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, "Published", p.Status)
	}
}

func TestDraftsOnlyVisibleToAuthorAndAdmins(t *testing.T) {
	s := newTestSite(t, func(c *SiteConfig) { c.StrictAdmin = true })
	id, err := s.app.Blogs.Create(context.Background(), toast.Discard, content.BlogPost{
		Title:    "Hidden",
		Content:  "draft body",
		Category: "PCOS",
		AuthorID: "someone-else",
	})
	require.NoError(t, err)

	resp, _ := s.get("/blog/" + id)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	s.signIn(adminEmail)
	resp, doc := s.get("/blog/" + id)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, doc.Find("h1").Text(), "Hidden")
}

func TestRobotsFeedAndSitemap(t *testing.T) {
	s := newTestSite(t)
	seedSite(t, s)

	resp, err := s.client.Get(s.srv.URL + "/robots.txt")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "public, max-age=86400", resp.Header.Get("Cache-Control"))

	resp, doc := s.get("/feed.xml")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "application/rss+xml")
	published := content.PublishedOnly(s.app.Blogs.Cache().List(context.Background()))
	assert.Equal(t, len(published), doc.Find("item").Length())

	resp, doc = s.get("/sitemap.xml")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var locs []string
	doc.Find("loc").Each(func(_ int, sel *goquery.Selection) { locs = append(locs, sel.Text()) })
	assert.Contains(t, locs, "https://ydb.test/")
	assert.Contains(t, locs, "https://ydb.test/shop")
	assert.Contains(t, locs, "https://ydb.test/product/1")
	for _, p := range published {
		assert.Contains(t, locs, "https://ydb.test/blog/"+p.ID)
	}
}

func TestAssessmentWalkthrough(t *testing.T) {
	s := newTestSite(t)

	_, doc := s.get("/assessment")
	assert.Contains(t, doc.Find(".quiz h2").Text(), assessment.Questions[0].Text)

	resp, doc := s.post("/assessment", url.Values{"action": {"next"}})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "Please select an answer", strings.TrimSpace(doc.Find(".quiz .error").Text()))

	answers := map[string][]string{
		"primary_concern": {"PCOS symptoms"},
		"symptoms":        {"Acne", "Irregular periods"},
		"goals":           {"Better sleep"},
	}
	for i, q := range assessment.Questions {
		vals, ok := answers[q.ID]
		if !ok {
			vals = q.Options[:1]
		}
		resp, doc = s.post("/assessment", url.Values{"action": {"next"}, "answer": vals})
		require.Equal(t, http.StatusOK, resp.StatusCode, "question %d", i)
	}
	assert.Contains(t, doc.Find(".result h2").Text(), assessment.PCOSPathway.Pathway)

	// A reload keeps the result; restart clears it.
	_, doc = s.get("/assessment")
	assert.Equal(t, 1, doc.Find(".result").Length())
	_, doc = s.post("/assessment", url.Values{"action": {"restart"}})
	assert.Equal(t, 0, doc.Find(".result").Length())
	assert.Contains(t, doc.Find(".quiz h2").Text(), assessment.Questions[0].Text)
}

func TestAssessmentPreviousKeepsAnswers(t *testing.T) {
	s := newTestSite(t)
	s.post("/assessment", url.Values{"action": {"next"}, "answer": {"26-35"}})
	_, doc := s.post("/assessment", url.Values{"action": {"previous"}})
	assert.Contains(t, doc.Find(".quiz h2").Text(), assessment.Questions[0].Text)
	assert.Equal(t, "26-35", doc.Find(`input[name="answer"][checked]`).AttrOr("value", ""))
	assert.Equal(t, 1, doc.Find(`button[value="previous"][disabled]`).Length())
}

func TestNewsletterSubscribe(t *testing.T) {
	s := newTestSite(t)

	resp, _ := s.post("/newsletter", url.Values{"email": {"Reader@Example.com"}, "next": {"/blog"}})
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/blog", resp.Header.Get("Location"))
	assert.Equal(t, 1, s.mailer.count())

	_, doc := s.get("/blog")
	assert.Contains(t, toastTitles(doc), "Subscribed!")

	s.post("/newsletter", url.Values{"email": {"reader@example.com"}})
	_, doc = s.get("/")
	assert.Contains(t, toastTitles(doc), "Already subscribed")

	resp, _ = s.post("/newsletter", url.Values{"email": {"nope"}, "next": {"https://evil.test/"}})
	assert.Equal(t, "/", resp.Header.Get("Location"))
	_, doc = s.get("/")
	assert.Contains(t, toastTitles(doc), "Invalid email")

	subs, err := s.app.Newsletter.Subscribers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"reader@example.com"}, subs)

	s.signIn(adminEmail)
	_, doc = s.get("/admin")
	assert.Equal(t, "Newsletter subscribers: 1", strings.TrimSpace(doc.Find(".subscribers").Text()))
}

func TestToastDismiss(t *testing.T) {
	s := newTestSite(t)
	s.post("/newsletter", url.Values{"email": {"nope"}})
	_, doc := s.get("/")
	id := doc.Find(".toast").AttrOr("data-toast-id", "")
	require.NotEmpty(t, id)

	resp, _ := s.post("/toasts/"+id+"/dismiss", url.Values{"next": {"/shop"}})
	assert.Equal(t, "/shop", resp.Header.Get("Location"))
	_, doc = s.get("/")
	assert.Empty(t, toastTitles(doc))
}

func TestStaticAssets(t *testing.T) {
	s := newTestSite(t)
	resp, err := s.client.Get(s.srv.URL + "/public/site.css")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Cache-Control"), "immutable")
}

func TestUnconfiguredSecretsFailInit(t *testing.T) {
	store, err := docstore.Open(docstore.SQLite.Name, t.TempDir()+"/x.db")
	require.NoError(t, err)
	defer store.Close()
	app := New(SiteConfig{}, nil, WithStore(store))
	assert.Error(t, app.Init())
	assert.NoError(t, app.Close())
}
