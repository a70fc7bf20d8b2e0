// Package listing derives a filtered, searched, sorted and paginated view
// from a fully fetched slice. Everything here is pure; fetching happens
// elsewhere.
package listing

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// All is the facet value that matches everything.
const All = "all"

// Schema describes how a collection of T is listed.
type Schema[T any] struct {
	PageSize int
	// Facets maps a facet name (also its query key) to the item's value.
	Facets map[string]func(T) string
	// Text returns the strings searched by the free-text term.
	Text func(T) []string
	// Sorts maps a sort key to a comparison function.
	Sorts       map[string]func(a, b T) int
	DefaultSort string
}

// State is the user's current selection.
type State struct {
	Filters map[string]string
	Search  string
	Sort    string
	Visible int
}

// View is the result of Apply.
type View[T any] struct {
	Items   []T
	Total   int
	Visible int
	HasMore bool
	// Empty is true when the filtered set is empty.
	Empty bool
	// Filtered is true when any facet or the search term narrows the set.
	Filtered bool
	State    State
}

// Initial returns the starting state: no filters, default sort, one page.
func (s Schema[T]) Initial() State {
	return State{Sort: s.DefaultSort, Visible: s.PageSize}
}

// Normalize clamps st to something Apply can use.
func (s Schema[T]) Normalize(st State) State {
	out := State{Search: strings.TrimSpace(st.Search), Sort: st.Sort, Visible: st.Visible}
	for k, v := range st.Filters {
		if _, ok := s.Facets[k]; ok && v != "" && v != All {
			if out.Filters == nil {
				out.Filters = make(map[string]string)
			}
			out.Filters[k] = v
		}
	}
	if _, ok := s.Sorts[out.Sort]; !ok {
		out.Sort = s.DefaultSort
	}
	if out.Visible < s.PageSize {
		out.Visible = s.PageSize
	}
	if s.PageSize > 0 && out.Visible%s.PageSize != 0 {
		out.Visible -= out.Visible % s.PageSize
	}
	return out
}

// WithFilter selects value for facet and resets pagination.
func (s Schema[T]) WithFilter(st State, facet, value string) State {
	f := make(map[string]string, len(st.Filters)+1)
	for k, v := range st.Filters {
		f[k] = v
	}
	f[facet] = value
	st.Filters = f
	st.Visible = s.PageSize
	return s.Normalize(st)
}

// WithSearch sets the search term and resets pagination.
func (s Schema[T]) WithSearch(st State, term string) State {
	st.Search = term
	st.Visible = s.PageSize
	return s.Normalize(st)
}

// WithSort changes the sort key. Pagination is kept.
func (s Schema[T]) WithSort(st State, key string) State {
	st.Sort = key
	return s.Normalize(st)
}

// Reset clears filters and search.
func (s Schema[T]) Reset(st State) State {
	return s.Normalize(State{Sort: st.Sort, Visible: s.PageSize})
}

// LoadMore grows the visible count by one page when more items remain.
func (s Schema[T]) LoadMore(st State, total int) State {
	st = s.Normalize(st)
	if st.Visible < total {
		st.Visible += s.PageSize
	}
	return st
}

// Match reports whether item satisfies the state's facets and search term.
func (s Schema[T]) Match(st State, item T) bool {
	for k, want := range st.Filters {
		if want == "" || want == All {
			continue
		}
		get, ok := s.Facets[k]
		if !ok {
			continue
		}
		if get(item) != want {
			return false
		}
	}
	term := strings.ToLower(strings.TrimSpace(st.Search))
	if term == "" || s.Text == nil {
		return true
	}
	for _, text := range s.Text(item) {
		if strings.Contains(strings.ToLower(text), term) {
			return true
		}
	}
	return false
}

// Apply filters, sorts, then slices items. The input is not modified.
func Apply[T any](s Schema[T], st State, items []T) View[T] {
	st = s.Normalize(st)
	matched := make([]T, 0, len(items))
	for _, it := range items {
		if s.Match(st, it) {
			matched = append(matched, it)
		}
	}
	if less, ok := s.Sorts[st.Sort]; ok {
		slices.SortStableFunc(matched, less)
	}
	n := min(st.Visible, len(matched))
	if s.PageSize <= 0 {
		n = len(matched)
	}
	return View[T]{
		Items:    matched[:n],
		Total:    len(matched),
		Visible:  st.Visible,
		HasMore:  n < len(matched),
		Empty:    len(matched) == 0,
		Filtered: len(st.Filters) > 0 || st.Search != "",
		State:    st,
	}
}

// Counts returns how many items carry each value of facet.
func Counts[T any](s Schema[T], facet string, items []T) map[string]int {
	get, ok := s.Facets[facet]
	if !ok {
		return nil
	}
	out := map[string]int{All: len(items)}
	for _, it := range items {
		out[get(it)]++
	}
	return out
}

// ParseState reads a state from query parameters: one key per facet, plus
// q, sort and visible.
func ParseState[T any](s Schema[T], v url.Values) State {
	st := State{Search: v.Get("q"), Sort: v.Get("sort")}
	for k := range s.Facets {
		if val := v.Get(k); val != "" {
			if st.Filters == nil {
				st.Filters = make(map[string]string)
			}
			st.Filters[k] = val
		}
	}
	st.Visible, _ = strconv.Atoi(v.Get("visible"))
	return s.Normalize(st)
}

// Query encodes st. Defaults are omitted when schema-independent (empty
// filters, empty search); sort and visible are always written when set.
func (st State) Query() url.Values {
	v := url.Values{}
	for k, val := range st.Filters {
		if val != "" && val != All {
			v.Set(k, val)
		}
	}
	if st.Search != "" {
		v.Set("q", st.Search)
	}
	if st.Sort != "" {
		v.Set("sort", st.Sort)
	}
	if st.Visible > 0 {
		v.Set("visible", strconv.Itoa(st.Visible))
	}
	return v
}

// URL returns path with st encoded as its query string.
func (st State) URL(path string) string {
	q := st.Query().Encode()
	if q == "" {
		return path
	}
	return path + "?" + q
}

// Filter returns the selected value for facet, or All.
func (st State) Filter(facet string) string {
	if v := st.Filters[facet]; v != "" {
		return v
	}
	return All
}
