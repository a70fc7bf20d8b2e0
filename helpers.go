package ydb

import (
	"strconv"
	"strings"

	"github.com/ydbwellness/ydb/listing"
	"github.com/ydbwellness/ydb/views"
)

// option is a selectable facet or sort value with its display label.
type option struct {
	Value string
	Label string
}

func options(values ...string) []option {
	out := make([]option, len(values))
	for i, v := range values {
		out[i] = option{Value: v, Label: v}
	}
	return out
}

// facetSpec describes one filter row on a listing page.
type facetSpec struct {
	Name    string
	Label   string
	Options []option
}

// listControls turns a listing state into the links and form fields the
// listing templates render. Every link carries the full state so pages
// can be bookmarked and shared.
func listControls[T any](s listing.Schema[T], st listing.State, view listing.View[T], pagePath string, facets []facetSpec, sorts []option, items []T) views.ListControls {
	ctl := views.ListControls{
		Path:           pagePath,
		Search:         st.Search,
		Hidden:         map[string]string{},
		ClearSearchURL: s.WithSearch(st, "").URL(pagePath),
		ResetURL:       s.Reset(st).URL(pagePath),
	}
	for k, v := range st.Filters {
		ctl.Hidden[k] = v
	}
	if st.Sort != "" {
		ctl.Hidden["sort"] = st.Sort
	}

	for _, f := range facets {
		counts := listing.Counts(s, f.Name, items)
		row := views.Facet{Name: f.Name, Label: f.Label}
		all := append([]option{{Value: listing.All, Label: "All"}}, f.Options...)
		for _, o := range all {
			row.Links = append(row.Links, views.Link{
				Label:  o.Label,
				URL:    s.WithFilter(st, f.Name, o.Value).URL(pagePath),
				Active: st.Filter(f.Name) == o.Value,
				Count:  counts[o.Value],
			})
		}
		ctl.Facets = append(ctl.Facets, row)
	}

	if len(sorts) > 1 {
		for _, o := range sorts {
			ctl.Sorts = append(ctl.Sorts, views.Link{
				Label:  o.Label,
				URL:    s.WithSort(st, o.Value).URL(pagePath),
				Active: st.Sort == o.Value,
			})
		}
	}

	if view.HasMore {
		ctl.LoadMoreURL = s.LoadMore(st, view.Total).URL(pagePath)
	}
	return ctl
}

// formInt parses a non-negative integer form value; blank and malformed
// values read as 0 and -1 respectively so validation reports them.
func formInt(v string) int {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return -1
	}
	return n
}

// localPath returns p when it is a same-site path, otherwise fallback.
func localPath(p, fallback string) string {
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return fallback
	}
	return p
}
