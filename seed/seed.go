// Package seed loads starter content into an empty store.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/ydbwellness/ydb/content"
	"github.com/ydbwellness/ydb/docstore"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

// Fixtures is the parsed fixture file.
type Fixtures struct {
	Blogs   []content.BlogPost
	Papers  []content.Paper
	Areas   []content.Area
	Members []content.Member
}

// Result counts inserted documents per collection.
type Result map[string]int

// Parse reads a fixture document keyed by collection name.
func Parse(data []byte) (*Fixtures, error) {
	var raw map[string][]map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("seed: parse: %w", err)
	}
	var f Fixtures
	if err := convert(raw[content.Blogs], &f.Blogs); err != nil {
		return nil, err
	}
	if err := convert(raw[content.ResearchPaper], &f.Papers); err != nil {
		return nil, err
	}
	if err := convert(raw[content.ResearchArea], &f.Areas); err != nil {
		return nil, err
	}
	if err := convert(raw[content.TeamMembers], &f.Members); err != nil {
		return nil, err
	}
	return &f, nil
}

// Default returns the embedded fixtures.
func Default() (*Fixtures, error) {
	return Parse(fixturesYAML)
}

// convert maps YAML records onto the entities' json field names.
func convert[T any](in []map[string]any, out *[]T) error {
	b, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("seed: encode: %w", err)
	}
	if err := json.Unmarshal(b, out); err != nil {
		return fmt.Errorf("seed: decode: %w", err)
	}
	return nil
}

// Run inserts every fixture. Collections are seeded concurrently; the first
// failure cancels the rest. Blog posts without an image get the default one.
func Run(ctx context.Context, store docstore.Store, f *Fixtures) (Result, error) {
	blogs := content.NewRepository(store, content.BlogKind, nil)
	papers := content.NewRepository(store, content.PaperKind, nil)
	areas := content.NewRepository(store, content.AreaKind, nil)
	members := content.NewRepository(store, content.MemberKind, nil)

	for i := range f.Blogs {
		if f.Blogs[i].ImageURL == "" {
			f.Blogs[i].ImageURL = content.DefaultBlogImage
		}
	}

	res := Result{}
	counts := make([]int, 4)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return insert(ctx, blogs, f.Blogs, &counts[0]) })
	g.Go(func() error { return insert(ctx, papers, f.Papers, &counts[1]) })
	g.Go(func() error { return insert(ctx, areas, f.Areas, &counts[2]) })
	g.Go(func() error { return insert(ctx, members, f.Members, &counts[3]) })
	err := g.Wait()

	res[content.Blogs] = counts[0]
	res[content.ResearchPaper] = counts[1]
	res[content.ResearchArea] = counts[2]
	res[content.TeamMembers] = counts[3]
	return res, err
}

func insert[T content.Entity](ctx context.Context, repo *content.Repository[T], items []T, n *int) error {
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return fmt.Errorf("seed %s: %w", repo.Kind().Collection, err)
		}
		if _, err := repo.Create(ctx, it); err != nil {
			return err
		}
		*n++
	}
	return nil
}
