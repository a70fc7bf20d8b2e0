package content

import (
	"cmp"
	"strings"

	"github.com/ydbwellness/ydb/listing"
)

// BlogListing drives /blog: category facet, three sorts, eight per page.
var BlogListing = listing.Schema[BlogPost]{
	PageSize: 8,
	Facets: map[string]func(BlogPost) string{
		"category": func(p BlogPost) string { return p.Category },
	},
	Text: func(p BlogPost) []string {
		return append([]string{p.Title, p.Excerpt}, p.Tags...)
	},
	Sorts: map[string]func(a, b BlogPost) int{
		"newest": func(a, b BlogPost) int { return newerFirst(a.Timestamps, b.Timestamps) },
		"oldest": func(a, b BlogPost) int { return newerFirst(b.Timestamps, a.Timestamps) },
		"title": func(a, b BlogPost) int {
			return cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		},
	},
	DefaultSort: "newest",
}

// PaperListing drives the research papers page. Papers are always shown
// year first.
var PaperListing = listing.Schema[Paper]{
	PageSize: 8,
	Facets: map[string]func(Paper) string{
		"category": func(p Paper) string { return p.Category },
		"status":   func(p Paper) string { return p.Status },
	},
	Text: func(p Paper) []string {
		return []string{p.Title, p.Abstract}
	},
	Sorts: map[string]func(a, b Paper) int{
		"year": ComparePapers,
	},
	DefaultSort: "year",
}
