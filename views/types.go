package views

import (
	"github.com/ydbwellness/ydb/assessment"
	"github.com/ydbwellness/ydb/auth"
	"github.com/ydbwellness/ydb/catalog"
	"github.com/ydbwellness/ydb/content"
	"github.com/ydbwellness/ydb/listing"
	"github.com/ydbwellness/ydb/toast"
)

// SiteConfig holds the site-wide settings every page needs.
type SiteConfig struct {
	Name        string
	URL         string
	Description string
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	JSONLD      string
}

// Page is the data handed to every template: the layout reads the common
// fields and the page body reads Data.
type Page struct {
	Site    SiteConfig
	Meta    PageMeta
	User    *auth.User
	IsAdmin bool
	CSRF    string
	Toasts  []toast.Notification
	Path    string
	Data    any
}

// Link is a navigation or filter control.
type Link struct {
	Label  string
	URL    string
	Active bool
	Count  int
}

// Facet is one row of filter links.
type Facet struct {
	Name  string
	Label string
	Links []Link
}

// ListControls renders the filter, search, sort and load-more controls of a
// listing page. Hidden carries the state the search form must preserve.
type ListControls struct {
	Path           string
	Search         string
	Facets         []Facet
	Sorts          []Link
	Hidden         map[string]string
	LoadMoreURL    string
	ClearSearchURL string
	ResetURL       string
}

type Home struct {
	Posts    []content.BlogPost
	Products []catalog.Product
}

type BlogList struct {
	View     listing.View[content.BlogPost]
	Controls ListControls
}

type BlogDetail struct {
	Post    content.BlogPost
	Related []content.BlogPost
}

type PaperList struct {
	View     listing.View[content.Paper]
	Controls ListControls
}

type Science struct {
	Areas   []content.Area
	Members []content.Member
	Papers  []content.Paper
}

type Shop struct {
	View     listing.View[catalog.Product]
	Controls ListControls
	Timeline []catalog.Milestone
}

type ProductDetail struct {
	Product  catalog.Product
	Category string
	Related  []catalog.Product
}

type Assessment struct {
	Question  assessment.Question
	Step      int
	Total     int
	Progress  int
	Selected  map[string]bool
	Multiple  bool
	CanGoBack bool
	IsLast    bool
	Complete  bool
	Result    assessment.Recommendation
	Error     string
}

type Login struct {
	Email       string
	Error       string
	AllowSignup bool
}

type Signup struct {
	Enabled bool
	Email   string
	Error   string
}

type BlogForm struct {
	Post       content.BlogPost
	Tags       string
	Draft      bool
	Action     string
	Cancel     string
	Categories []string
	Admin      bool
	Preview    bool
}

type PaperForm struct {
	Paper      content.Paper
	Action     string
	Cancel     string
	Categories []string
	Statuses   []string
}

type AreaForm struct {
	Area   content.Area
	Action string
	Cancel string
	Icons  []string
	Colors []string
}

type MemberForm struct {
	Member content.Member
	Action string
	Cancel string
}

type Admin struct {
	Tab          string
	Section      string
	Tabs         []Link
	Sections     []Link
	Blogs        []content.BlogPost
	Papers       []content.Paper
	Areas        []content.Area
	Members      []content.Member
	Instructions string
	Subscribers  int
}

type ConfirmDelete struct {
	Kind   string
	Title  string
	Action string
	Cancel string
}

type NotFound struct {
	Title     string
	Message   string
	BackURL   string
	BackLabel string
}
