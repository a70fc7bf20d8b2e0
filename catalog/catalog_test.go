package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ydbwellness/ydb/listing"
)

func names(ps []Product) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Name
	}
	return out
}

func TestLoad(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)
	assert.Len(t, c.Products, 6)
	assert.Len(t, c.Timeline, 4)

	p, err := c.Get("2")
	require.NoError(t, err)
	assert.Equal(t, "Perimenopause Support", p.Name)
	assert.Equal(t, 15, p.Discount())

	_, err = c.Get("99")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParseRejectsDuplicateIDs(t *testing.T) {
	_, err := Parse([]byte("products:\n  - id: a\n  - id: a\n"))
	assert.Error(t, err)
}

func TestShopSorts(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	st := Listing.Initial()
	v := listing.Apply(Listing, st, c.Products)
	assert.Equal(t, "Wellness Starter Kit", v.Items[0].Name, "popular sorts by reviews")

	v = listing.Apply(Listing, Listing.WithSort(st, "price-low"), c.Products)
	assert.Equal(t, "Sleep & Stress Relief", v.Items[0].Name)

	v = listing.Apply(Listing, Listing.WithSort(st, "price-high"), c.Products)
	assert.Equal(t, "Wellness Starter Kit", v.Items[0].Name)

	v = listing.Apply(Listing, Listing.WithFilter(st, "category", "perimenopause"), c.Products)
	assert.Equal(t, []string{"Sleep & Stress Relief", "Perimenopause Support"}, names(v.Items))
	assert.False(t, v.HasMore)
}

func TestCategoryName(t *testing.T) {
	assert.Equal(t, "PCOS Support", CategoryName("pcos"))
	assert.Equal(t, "other", CategoryName("other"))
}
