package service

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cinetag/cinetag-server/internal/auth"
	"github.com/cinetag/cinetag-server/internal/domain"
	"github.com/cinetag/cinetag-server/internal/events"
	"github.com/cinetag/cinetag-server/internal/logger"
	"github.com/cinetag/cinetag-server/internal/media/images"
	"github.com/cinetag/cinetag-server/internal/ratelimit"
	"github.com/cinetag/cinetag-server/internal/store"
	"github.com/cinetag/cinetag-server/internal/validation"
)

type testEnv struct {
	store   *store.BadgerStore
	objects *images.MemoryStore
	events  *events.Recorder
	posts   *PostService
	tags    *TagService
	users   *UserService
	auth    *AuthService
	audit   *AuditService
}

func setupServices(t *testing.T) *testEnv {
	t.Helper()

	log := logger.Discard()
	s, err := store.New(filepath.Join(t.TempDir(), "badger"), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	key, err := auth.LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key, time.Hour)
	require.NoError(t, err)

	limiter := ratelimit.New(0.001, 3, 0)
	t.Cleanup(limiter.Stop)

	objects := images.NewMemoryStore()
	recorder := events.NewRecorder()
	v := validation.New()

	return &testEnv{
		store:   s,
		objects: objects,
		events:  recorder,
		posts:   NewPostService(s, images.NewProcessor(objects, 0, log), recorder, v, log),
		tags:    NewTagService(s, v, log),
		users:   NewUserService(s, log),
		auth:    NewAuthService(s, tokens, limiter, v, log),
		audit:   NewAuditService(s, log),
	}
}

// createUser stores a user directly, bypassing password hashing.
func (e *testEnv) createUser(t *testing.T, id string) *domain.User {
	t.Helper()

	u := &domain.User{
		Document: domain.Document{ID: id},
		Name:     id,
		Email:    id + "@example.com",
		MyBag:    domain.RefList{},
		Likes:    domain.RefList{},
	}
	u.InitTimestamps()
	require.NoError(t, e.store.CreateUser(context.Background(), u))
	return u
}

func (e *testEnv) createPost(t *testing.T, ownerID string) *domain.Post {
	t.Helper()

	post, err := e.posts.Create(context.Background(), ownerID, CreatePostRequest{
		MovieName: "Arrival",
		Summary:   "Linguist meets heptapods.",
		Genre:     []string{"Sci-Fi", "Drama"},
	})
	require.NoError(t, err)
	return post
}

func pngBytes(t *testing.T) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	for x := range 8 {
		for y := range 6 {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 40), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func ptr[T any](v T) *T { return &v }
