package newsletter

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ydbwellness/ydb/docstore"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (f *fakeMailer) Send(_ context.Context, m Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, m)
	return f.err
}

func setupStore(t *testing.T) docstore.Store {
	t.Helper()
	s, err := docstore.Open("sqlite", filepath.Join(t.TempDir(), "newsletter.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	mailer := &fakeMailer{}
	svc := NewService(store, mailer, "YDB Wellness", nil)

	id, err := svc.Subscribe(ctx, "  Reader@Example.COM ")
	require.NoError(t, err)

	doc, err := store.Get(ctx, Collection, id)
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", doc.Data["email"])
	assert.Equal(t, StatusActive, doc.Data["status"])
	assert.NotEmpty(t, doc.Data["subscribedAt"])

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "reader@example.com", mailer.sent[0].To)

	_, err = svc.Subscribe(ctx, "reader@example.com")
	assert.ErrorIs(t, err, ErrAlreadySubscribed)

	subs, err := svc.Subscribers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"reader@example.com"}, subs)
}

func TestSubscribeRejectsInvalid(t *testing.T) {
	svc := NewService(setupStore(t), nil, "YDB", nil)
	for _, email := range []string{"", "plain", "a@b", "Name <a@b.com>", "a@@b.com"} {
		_, err := svc.Subscribe(context.Background(), email)
		assert.ErrorIs(t, err, ErrInvalidEmail, "email %q", email)
	}
}

func TestMailFailureDoesNotFailSubscribe(t *testing.T) {
	svc := NewService(setupStore(t), &fakeMailer{err: errors.New("smtp down")}, "YDB", nil)
	_, err := svc.Subscribe(context.Background(), "a@example.com")
	assert.NoError(t, err)
}

// gatedStore holds every Query until n callers have arrived, so concurrent
// sign-ups all pass the existence check before any of them inserts.
type gatedStore struct {
	docstore.Store
	wg sync.WaitGroup
}

func (g *gatedStore) Query(ctx context.Context, q docstore.Query) ([]docstore.Document, error) {
	docs, err := g.Store.Query(ctx, q)
	g.wg.Done()
	g.wg.Wait()
	return docs, err
}

func TestConcurrentDuplicateSignupsBothSucceed(t *testing.T) {
	ctx := context.Background()
	g := &gatedStore{Store: setupStore(t)}
	g.wg.Add(2)
	svc := NewService(g, nil, "YDB", nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.Subscribe(ctx, "same@example.com")
		}()
	}
	wg.Wait()

	assert.NoError(t, errs[0])
	assert.NoError(t, errs[1])

	docs, err := g.Store.Query(ctx, docstore.Collection(Collection).Where("email", "same@example.com"))
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}
