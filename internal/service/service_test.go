package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/listenupapp/pressroom/internal/domain"
	"github.com/listenupapp/pressroom/internal/feed"
	"github.com/listenupapp/pressroom/internal/store/sqlite"
)

// recordingInvalidator remembers every invalidation.
type recordingInvalidator struct {
	mu    sync.Mutex
	calls [][]string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, paths ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, paths)
}

func (r *recordingInvalidator) last() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.calls) == 0 {
		return nil
	}
	return r.calls[len(r.calls)-1]
}

func (r *recordingInvalidator) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

type testEnv struct {
	store       *sqlite.Store
	invalidator *recordingInvalidator
	posts       *PostService
	categories  *CategoryService
	tags        *TagService
	identity    *IdentityService
	feeds       *FeedService
	admin       *domain.User
	member      *domain.User
	now         time.Time
}

var testSite = feed.Site{Name: "Blog Platform", Description: "Test blog", URL: "https://blog.example.com"}

// setupServiceTest wires the services against a temporary SQLite store.
func setupServiceTest(t *testing.T) *testEnv {
	t.Helper()

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	inv := &recordingInvalidator{}
	env := &testEnv{
		store:       st,
		invalidator: inv,
		posts:       NewPostService(st, nil, inv, nil),
		categories:  NewCategoryService(st, nil, inv, nil),
		tags:        NewTagService(st, nil, inv, nil),
		identity:    NewIdentityService(st, []string{"idp|admin"}, nil),
		feeds:       NewFeedService(st, testSite, 0, nil),
	}
	env.setNow(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))

	ctx := context.Background()
	env.admin, err = env.identity.Resolve(ctx, &domain.Principal{ExternalID: "idp|admin", Email: "admin@example.com", FirstName: "Admin", LastName: "User"})
	require.NoError(t, err)
	env.member, err = env.identity.Resolve(ctx, &domain.Principal{ExternalID: "idp|member", Email: "member@example.com"})
	require.NoError(t, err)

	return env
}

// setNow pins every service clock.
func (e *testEnv) setNow(now time.Time) {
	e.now = now
	clock := func() time.Time { return e.now }
	e.posts.now = clock
	e.categories.now = clock
	e.tags.now = clock
	e.identity.now = clock
	e.feeds.now = clock
}

func (e *testEnv) advance(d time.Duration) time.Time {
	e.setNow(e.now.Add(d))
	return e.now
}

func ptr[T any](v T) *T { return &v }
