package content

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ydbwellness/ydb/blobstore"
	"github.com/ydbwellness/ydb/docstore"
	"github.com/ydbwellness/ydb/toast"
)

type recorder struct {
	mu    sync.Mutex
	shown []toast.Notification
}

func (r *recorder) Show(n toast.Notification) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shown = append(r.shown, n)
	return ""
}

func (r *recorder) last() toast.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.shown) == 0 {
		return toast.Notification{}
	}
	return r.shown[len(r.shown)-1]
}

// countingStore wraps a Store and counts calls, optionally failing them.
type countingStore struct {
	docstore.Store
	mu    sync.Mutex
	calls int
	fail  error
}

func (s *countingStore) hit() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.fail
}

func (s *countingStore) Add(ctx context.Context, c string, d docstore.Fields) (string, error) {
	if err := s.hit(); err != nil {
		return "", err
	}
	return s.Store.Add(ctx, c, d)
}

func (s *countingStore) Update(ctx context.Context, c, id string, d docstore.Fields) error {
	if err := s.hit(); err != nil {
		return err
	}
	return s.Store.Update(ctx, c, id, d)
}

func (s *countingStore) Delete(ctx context.Context, c, id string) error {
	if err := s.hit(); err != nil {
		return err
	}
	return s.Store.Delete(ctx, c, id)
}

func (s *countingStore) Query(ctx context.Context, q docstore.Query) ([]docstore.Document, error) {
	if err := s.hit(); err != nil {
		return nil, err
	}
	return s.Store.Query(ctx, q)
}

func (s *countingStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func setupStore(t *testing.T) *countingStore {
	t.Helper()
	clock := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	s, err := docstore.Open("sqlite", filepath.Join(t.TempDir(), "content.db"), docstore.WithClock(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Second)
		return clock
	}))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return &countingStore{Store: s}
}

func samplePost(title string) BlogPost {
	return BlogPost{
		Title:     title,
		Content:   "Hello\nWorld",
		Excerpt:   "short",
		Author:    "writer@example.com",
		Category:  "PCOS",
		Tags:      []string{"x"},
		Published: true,
	}
}

func TestRepositoryCreateAssignsCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupStore(t), BlogKind, nil)

	id, err := repo.Create(ctx, samplePost("Test"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Test", got.Title)
	assert.Equal(t, []string{"x"}, got.Tags)
	assert.True(t, got.Published)
	assert.False(t, got.CreatedAt.IsZero())
	assert.True(t, got.UpdatedAt.IsZero())
}

func TestRepositoryUpdateKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupStore(t), BlogKind, nil)

	id, err := repo.Create(ctx, samplePost("Before"))
	require.NoError(t, err)
	before, err := repo.Get(ctx, id)
	require.NoError(t, err)

	p := samplePost("After")
	require.NoError(t, repo.Update(ctx, id, p))

	after, err := repo.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "After", after.Title)
	assert.Equal(t, before.CreatedAt, after.CreatedAt)
	assert.True(t, after.UpdatedAt.After(after.CreatedAt))
}

func TestRepositoryListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupStore(t), BlogKind, nil)

	for _, title := range []string{"first", "second", "third"} {
		_, err := repo.Create(ctx, samplePost(title))
		require.NoError(t, err)
	}

	var titles []string
	for _, p := range repo.List(ctx) {
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{"third", "second", "first"}, titles)
}

func TestRepositoryListFallsBackToEmpty(t *testing.T) {
	s := setupStore(t)
	s.fail = errors.New("permission denied")
	repo := NewRepository(s, BlogKind, nil)

	items := repo.List(context.Background())
	assert.NotNil(t, items)
	assert.Empty(t, items)

	_, err := repo.Fetch(context.Background())
	assert.Error(t, err)
}

func TestPapersSortByYearThenNewest(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(setupStore(t), PaperKind, nil)

	create := func(title, year string) {
		_, err := repo.Create(ctx, Paper{Title: title, Journal: "J", Year: year, Status: "Published"})
		require.NoError(t, err)
	}
	create("old", "2019")
	create("a-2023", "2023")
	create("b-2023", "2023")
	create("new", "2024")

	var titles []string
	for _, p := range repo.List(ctx) {
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{"new", "b-2023", "a-2023", "old"}, titles)
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name   string
		entity Entity
		fields []string
	}{
		{"blog ok", samplePost("ok"), nil},
		{"blog missing", BlogPost{Category: "Cooking"}, []string{"title", "content", "category"}},
		{"paper bad year", Paper{Title: "t", Journal: "j", Year: "24", Status: "Draft"}, []string{"year"}},
		{"paper bad status", Paper{Title: "t", Journal: "j", Year: "2024", Status: "Done"}, []string{"status"}},
		{"paper negative", Paper{Title: "t", Journal: "j", Year: "2024", Status: "Draft", Participants: -1}, []string{"participants"}},
		{"area ok", Area{Title: "t", Description: "d", Icon: "Award", Color: "blue"}, nil},
		{"area bad enums", Area{Title: "t", Description: "d", Icon: "Star", Color: "pink"}, []string{"icon", "color"}},
		{"member missing", Member{Name: "n"}, []string{"role"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entity.Validate()
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrValidation)
			for _, f := range tt.fields {
				assert.Contains(t, err.Error(), f)
			}
		})
	}
}

func TestManagerCreateNotifiesAndRefreshes(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	cache := NewCache(NewRepository(s, BlogKind, nil), time.Hour)
	m := NewManager(cache)
	n := &recorder{}

	assert.Empty(t, cache.List(ctx))

	id, err := m.Create(ctx, n, samplePost("Fresh"))
	require.NoError(t, err)
	assert.Equal(t, toast.Success, n.last().Variant)
	assert.Equal(t, "Blog created successfully!", n.last().Description)

	list := cache.List(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].ID)
}

func TestManagerValidationSkipsStore(t *testing.T) {
	s := setupStore(t)
	m := NewManager(NewCache(NewRepository(s, PaperKind, nil), time.Hour))
	n := &recorder{}

	_, err := m.Create(context.Background(), n, Paper{})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 0, s.count())
	assert.Equal(t, toast.Error, n.last().Variant)
}

func TestManagerWriteFailureNotifies(t *testing.T) {
	s := setupStore(t)
	s.fail = errors.New("offline")
	m := NewManager(NewCache(NewRepository(s, PaperKind, nil), time.Hour))
	n := &recorder{}

	_, err := m.Create(context.Background(), n, Paper{Title: "t", Journal: "j", Year: "2024", Status: "Draft"})
	require.Error(t, err)
	assert.Equal(t, "Error saving research paper. Please try again.", n.last().Description)
}

func TestManagerDeleteRequiresConfirmation(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	m := NewManager(NewCache(NewRepository(s, MemberKind, nil), time.Hour))
	n := &recorder{}

	id, err := m.Create(ctx, n, Member{Name: "Dr. Priya", Role: "Lead"})
	require.NoError(t, err)
	before := s.count()

	err = m.Delete(ctx, n, id, false)
	assert.ErrorIs(t, err, ErrDeleteNotConfirmed)
	assert.Equal(t, before, s.count())
	assert.Len(t, m.Cache().List(ctx), 1)

	require.NoError(t, m.Delete(ctx, n, id, true))
	assert.Equal(t, "Team member deleted successfully!", n.last().Description)
	assert.Empty(t, m.Cache().Repository().List(ctx))
	assert.Empty(t, m.Cache().List(ctx))
}

func TestCacheTTL(t *testing.T) {
	ctx := context.Background()
	s := setupStore(t)
	repo := NewRepository(s, AreaKind, nil)
	cache := NewCache(repo, time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	cache.List(ctx)
	_, err := repo.Create(ctx, Area{Title: "t", Description: "d", Icon: "Users", Color: "red"})
	require.NoError(t, err)

	assert.Empty(t, cache.List(ctx))
	now = now.Add(2 * time.Minute)
	assert.Len(t, cache.List(ctx), 1)
}

func TestUploadPDF(t *testing.T) {
	blobs, err := blobstore.NewFS(t.TempDir(), "/uploads")
	require.NoError(t, err)
	u := NewUploader(blobs, nil)
	u.now = func() time.Time { return time.UnixMilli(1700000000000) }
	n := &recorder{}

	url, err := u.UploadPDF(context.Background(), n, PaperUploads, File{
		Name:        "study.pdf",
		ContentType: "application/pdf",
		Body:        strings.NewReader("%PDF-1.7"),
	})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/research-papers/1700000000000_study.pdf", url)
	assert.Equal(t, "PDF uploaded successfully!", n.last().Description)
}

type failingBlobs struct{ blobstore.Store }

func (failingBlobs) Put(context.Context, string, io.Reader, string) (string, error) {
	panic("blob store must not be called")
}

func TestUploadRejectsNonPDF(t *testing.T) {
	u := NewUploader(failingBlobs{}, nil)
	n := &recorder{}

	url, err := u.UploadPDF(context.Background(), n, PaperUploads, File{
		Name:        "notes.txt",
		ContentType: "text/plain",
		Body:        strings.NewReader("hello"),
	})
	assert.ErrorIs(t, err, ErrInvalidFileType)
	assert.Empty(t, url)
	assert.Equal(t, "Invalid File", n.last().Title)
}

func TestUploadCoverResizes(t *testing.T) {
	dir := t.TempDir()
	blobs, err := blobstore.NewFS(dir, "/uploads")
	require.NoError(t, err)
	u := NewUploader(blobs, nil)
	u.now = func() time.Time { return time.UnixMilli(42) }

	src := image.NewRGBA(image.Rect(0, 0, 1600, 400))
	for x := 0; x < 1600; x++ {
		src.Set(x, 10, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	url, err := u.UploadCover(context.Background(), &recorder{}, "My Cycle Story", File{Name: "x.png", Body: &buf})
	require.NoError(t, err)
	assert.Equal(t, "/uploads/blog-images/42_my-cycle-story.jpg", url)

	rc, err := blobs.Open(context.Background(), "blog-images/42_my-cycle-story.jpg")
	require.NoError(t, err)
	defer rc.Close()
	cfg, format, err := image.DecodeConfig(rc)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 200, cfg.Height)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "report.pdf", sanitizeFilename("C:\\docs\\report.pdf"))
	assert.Equal(t, "report.pdf", sanitizeFilename("../../report.pdf"))
	assert.Equal(t, "upload", sanitizeFilename(".."))
	assert.Equal(t, "a b.pdf", sanitizeFilename("a b.pdf"))
}

func TestParseTagsAndParagraphs(t *testing.T) {
	assert.Equal(t, []string{"x", "hormones"}, ParseTags(" x, ,hormones,"))
	assert.Equal(t, []string{}, ParseTags(""))
	assert.Equal(t, []string{"Hello", "World"}, samplePost("p").Paragraphs())
}
