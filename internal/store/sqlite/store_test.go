package sqlite

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinetag/cinetag-server/internal/domain"
	"github.com/cinetag/cinetag-server/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	var journalMode string
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	for _, table := range []string{"users", "posts"} {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		assert.NoError(t, err, "table %s", table)
	}

	assert.NoError(t, s.Ping(context.Background()))
}

func TestUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := &domain.User{Document: domain.Document{ID: "usr-1", CreatedAt: time.Now()}, Name: "Ash", Email: "Ash@Nostromo.io"}
	require.NoError(t, s.CreateUser(ctx, u))

	got, err := s.GetUserByEmail(ctx, "ash@nostromo.io")
	require.NoError(t, err)
	assert.Equal(t, "Ash", got.Name)

	err = s.CreateUser(ctx, &domain.User{Document: domain.Document{ID: "usr-2"}, Email: "ASH@nostromo.io"})
	assert.ErrorIs(t, err, store.ErrEmailInUse)

	_, err = s.GetUser(ctx, "usr-404")
	assert.ErrorIs(t, err, store.ErrUserNotFound)

	updated, err := s.UpdateUser(ctx, "usr-1", func(u *domain.User) error {
		return u.AddRef(domain.ListBag, "post-1")
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RefList{"post-1"}, updated.MyBag)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestPosts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Now()

	for i, id := range []string{"post-a", "post-b", "post-c"} {
		owner := "usr-1"
		if id == "post-b" {
			owner = "usr-2"
		}
		created := base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, s.CreatePost(ctx, &domain.Post{
			Document:  domain.Document{ID: id, CreatedAt: created, UpdatedAt: created},
			OwnerID:   owner,
			MovieName: id,
			Summary:   "s",
			Genre:     []string{"g"},
		}))
	}

	all, err := s.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "post-c", all[0].ID)
	assert.Equal(t, "post-a", all[2].ID)

	mine, err := s.ListPostsByOwner(ctx, "usr-1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	_, err = s.UpdatePost(ctx, "post-a", func(p *domain.Post) error {
		return p.React(domain.ReactionLike, "usr-2", time.Now())
	})
	require.NoError(t, err)

	_, err = s.UpdatePost(ctx, "post-a", func(p *domain.Post) error {
		return p.React(domain.ReactionLike, "usr-2", time.Now())
	})
	assert.ErrorIs(t, err, domain.ErrAlreadyMarked)

	got, err := s.GetPost(ctx, "post-a")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Likes.Count())

	byIDs, err := s.GetPostsByIDs(ctx, []string{"post-x", "post-b"})
	require.NoError(t, err)
	require.Len(t, byIDs, 1)
	assert.Equal(t, "post-b", byIDs[0].ID)

	require.NoError(t, s.DeletePost(ctx, "post-a"))
	assert.ErrorIs(t, s.DeletePost(ctx, "post-a"), store.ErrPostNotFound)
	_, err = s.UpdatePost(ctx, "post-a", func(*domain.Post) error { return nil })
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPosts_SubSecondOrder(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	second := time.Date(2026, 3, 1, 12, 0, 5, 0, time.UTC)

	for _, p := range []struct {
		id      string
		created time.Time
	}{
		{"post-old", second.Add(100 * time.Millisecond)},
		{"post-new", second.Add(120 * time.Millisecond)},
	} {
		require.NoError(t, s.CreatePost(ctx, &domain.Post{
			Document:  domain.Document{ID: p.id, CreatedAt: p.created, UpdatedAt: p.created},
			OwnerID:   "usr-1",
			MovieName: p.id,
			Summary:   "s",
			Genre:     []string{"g"},
		}))
	}

	all, err := s.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "post-new", all[0].ID)
	assert.Equal(t, "post-old", all[1].ID)

	mine, err := s.ListPostsByOwner(ctx, "usr-1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "post-new", mine[0].ID)
}

func TestFormatTime_FixedWidth(t *testing.T) {
	a := formatTime(time.Date(2026, 3, 1, 12, 0, 5, 100_000_000, time.UTC))
	b := formatTime(time.Date(2026, 3, 1, 12, 0, 5, 120_000_000, time.FixedZone("x", 3600)).Add(time.Hour))
	assert.Equal(t, "2026-03-01T12:00:05.100000000Z", a)
	assert.Len(t, b, len(a))
	assert.Less(t, a, b)
}
