package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ydbwellness/ydb/content"
	"github.com/ydbwellness/ydb/docstore"
)

func TestDefaultFixturesAreValid(t *testing.T) {
	f, err := Default()
	require.NoError(t, err)
	assert.Len(t, f.Blogs, 3)
	assert.Len(t, f.Papers, 2)
	assert.Len(t, f.Areas, 3)
	assert.Len(t, f.Members, 3)
	assert.Equal(t, 120, f.Papers[0].Participants)
	assert.Equal(t, []string{"pcos", "hormones", "nutrition"}, f.Blogs[0].Tags)
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	store, err := docstore.Open("sqlite", filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	defer store.Close()

	f, err := Default()
	require.NoError(t, err)
	res, err := Run(ctx, store, f)
	require.NoError(t, err)
	assert.Equal(t, Result{content.Blogs: 3, content.ResearchPaper: 2, content.ResearchArea: 3, content.TeamMembers: 3}, res)

	blogs := content.NewRepository(store, content.BlogKind, nil).List(ctx)
	require.Len(t, blogs, 3)
	for _, b := range blogs {
		assert.NotEmpty(t, b.ImageURL)
		assert.False(t, b.CreatedAt.IsZero())
	}
}

func TestRunStopsOnInvalidFixture(t *testing.T) {
	store, err := docstore.Open("sqlite", filepath.Join(t.TempDir(), "seed.db"))
	require.NoError(t, err)
	defer store.Close()

	f := &Fixtures{Areas: []content.Area{{Title: "no icon"}}}
	_, err = Run(context.Background(), store, f)
	assert.ErrorIs(t, err, content.ErrValidation)
}
