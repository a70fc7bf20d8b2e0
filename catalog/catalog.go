// Package catalog is the static shop catalog shipped with the binary.
package catalog

import (
	"cmp"
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/ydbwellness/ydb/listing"
)

//go:embed products.yaml
var productsYAML []byte

// ErrNotFound is returned for unknown product ids.
var ErrNotFound = errors.New("catalog: product not found")

// Categories in display order. The key is the value stored on products.
var Categories = []Category{
	{ID: "pcos", Name: "PCOS Support"},
	{ID: "perimenopause", Name: "Perimenopause"},
	{ID: "wellness", Name: "General Wellness"},
}

type Category struct {
	ID   string
	Name string
}

type Product struct {
	ID            string   `yaml:"id"`
	Name          string   `yaml:"name"`
	Category      string   `yaml:"category"`
	Description   string   `yaml:"description"`
	Price         int      `yaml:"price"`
	OriginalPrice int      `yaml:"originalPrice"`
	Rating        float64  `yaml:"rating"`
	Reviews       int      `yaml:"reviews"`
	Image         string   `yaml:"image"`
	Badges        []string `yaml:"badges"`
	Ingredients   []string `yaml:"ingredients"`
	Benefits      []string `yaml:"benefits"`
}

// Discount is the percentage saved against OriginalPrice.
func (p Product) Discount() int {
	if p.OriginalPrice <= p.Price || p.OriginalPrice == 0 {
		return 0
	}
	return (p.OriginalPrice - p.Price) * 100 / p.OriginalPrice
}

// Milestone is one step of the expected results timeline.
type Milestone struct {
	Week        string `yaml:"week"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Catalog is the parsed product list.
type Catalog struct {
	Products []Product   `yaml:"products"`
	Timeline []Milestone `yaml:"timeline"`
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(productsYAML)
}

// Parse reads a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}
	seen := make(map[string]bool, len(c.Products))
	for _, p := range c.Products {
		if p.ID == "" || seen[p.ID] {
			return nil, fmt.Errorf("catalog: missing or duplicate id %q", p.ID)
		}
		seen[p.ID] = true
	}
	return &c, nil
}

// Get returns the product with id.
func (c *Catalog) Get(id string) (Product, error) {
	for _, p := range c.Products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

// CategoryName returns the display name for a category id.
func CategoryName(id string) string {
	for _, c := range Categories {
		if c.ID == id {
			return c.Name
		}
	}
	return id
}

// Listing drives /shop.
var Listing = listing.Schema[Product]{
	PageSize: 12,
	Facets: map[string]func(Product) string{
		"category": func(p Product) string { return p.Category },
	},
	Text: func(p Product) []string {
		return append([]string{p.Name, p.Description}, p.Benefits...)
	},
	Sorts: map[string]func(a, b Product) int{
		"popular":    func(a, b Product) int { return cmp.Compare(b.Reviews, a.Reviews) },
		"price-low":  func(a, b Product) int { return cmp.Compare(a.Price, b.Price) },
		"price-high": func(a, b Product) int { return cmp.Compare(b.Price, a.Price) },
		"rating":     func(a, b Product) int { return cmp.Compare(b.Rating, a.Rating) },
	},
	DefaultSort: "popular",
}
