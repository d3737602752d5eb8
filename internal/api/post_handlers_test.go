package api

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinetag/cinetag-server/internal/events"
)

func TestCreatePost(t *testing.T) {
	ts := setupTestServer(t)
	token, userID := ts.register(t, "ada")

	resp := ts.api.Post("/api/v1/posts", bearer(token), map[string]any{
		"movie_name": " Heat ",
		"summary":    "Cops and robbers.",
		"genre":      []string{"Crime, Thriller"},
		"image_name": "heat.png",
		"image":      pngBytes(t),
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	post := decode[PostResponse](t, resp).Data
	assert.Equal(t, "Heat", post.MovieName)
	assert.Equal(t, []string{"Crime", "Thriller"}, post.Genre)
	assert.Equal(t, userID, post.OwnerID)
	assert.NotEmpty(t, post.Img)
	assert.NotEmpty(t, post.ImgBlurHash)
	assert.Empty(t, post.Likes)
	assert.Empty(t, post.Tags)
	assert.True(t, ts.objects.Has(post.Img))
}

func TestCreatePost_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/posts", map[string]any{
		"movie_name": "Heat",
		"summary":    "Cops and robbers.",
		"genre":      []string{"Crime"},
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestCreatePost_SummaryTooLong(t *testing.T) {
	ts := setupTestServer(t)
	token, _ := ts.register(t, "ada")

	resp := ts.api.Post("/api/v1/posts", bearer(token), map[string]any{
		"movie_name": "Heat",
		"summary":    strings.Repeat("a", 201),
		"genre":      []string{"Crime"},
	})
	require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())

	env := decode[any](t, resp)
	assert.Equal(t, "VALIDATION", env.Code)
	assert.Contains(t, env.Details, "summary")

	list := ts.api.Get("/api/v1/posts")
	require.Equal(t, http.StatusOK, list.Code)
	assert.Empty(t, decode[PostsResponse](t, list).Data.Posts)
}

func TestListPosts_MineFiltersByOwner(t *testing.T) {
	ts := setupTestServer(t)
	ada, _ := ts.register(t, "ada")
	bob, _ := ts.register(t, "bob")

	ts.createPost(t, ada, "Heat")
	ts.createPost(t, bob, "Ronin")

	all := decode[PostsResponse](t, ts.api.Get("/api/v1/posts")).Data.Posts
	assert.Len(t, all, 2)

	mine := decode[PostsResponse](t, ts.api.Get("/api/v1/posts/mine", bearer(ada))).Data.Posts
	require.Len(t, mine, 1)
	assert.Equal(t, "Heat", mine[0].MovieName)
}

func TestGetPost_NotFound(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/posts/pst-missing")
	require.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, "NOT_FOUND", decode[any](t, resp).Code)
}

func TestUpdatePost(t *testing.T) {
	ts := setupTestServer(t)
	ada, _ := ts.register(t, "ada")
	bob, _ := ts.register(t, "bob")
	post := ts.createPost(t, ada, "Heat")

	t.Run("owner updates summary only", func(t *testing.T) {
		resp := ts.api.Patch("/api/v1/posts/"+post.ID, bearer(ada), map[string]any{
			"summary": "Pacino and De Niro.",
		})
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

		updated := decode[PostResponse](t, resp).Data
		assert.Equal(t, "Pacino and De Niro.", updated.Summary)
		assert.Equal(t, "Heat", updated.MovieName)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		resp := ts.api.Patch("/api/v1/posts/"+post.ID, bearer(bob), map[string]any{
			"movie_name": "Hijacked",
		})
		require.Equal(t, http.StatusForbidden, resp.Code)
		assert.Equal(t, "FORBIDDEN", decode[any](t, resp).Code)
	})

	t.Run("empty genre is rejected", func(t *testing.T) {
		resp := ts.api.Patch("/api/v1/posts/"+post.ID, bearer(ada), map[string]any{
			"genre": []string{},
		})
		require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
	})
}

func TestSetPostImage_ReplacesAndSchedulesOld(t *testing.T) {
	ts := setupTestServer(t)
	ada, _ := ts.register(t, "ada")
	post := ts.createPost(t, ada, "Heat")

	first := ts.api.Put("/api/v1/posts/"+post.ID+"/image", bearer(ada), "X-Filename: heat.png", bytes.NewReader(pngBytes(t)))
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())
	oldKey := decode[PostResponse](t, first).Data.Img
	require.NotEmpty(t, oldKey)

	second := ts.api.Put("/api/v1/posts/"+post.ID+"/image", bearer(ada), bytes.NewReader(pngBytes(t)))
	require.Equal(t, http.StatusOK, second.Code, second.Body.String())
	newKey := decode[PostResponse](t, second).Data.Img
	assert.NotEqual(t, oldKey, newKey)

	stale := ts.events.Topic(events.TopicImageStale)
	require.Len(t, stale, 1)
	assert.Equal(t, oldKey, stale[0].(events.ImageStale).Key)
}

func TestSetPostImage_RejectsNonImage(t *testing.T) {
	ts := setupTestServer(t)
	ada, _ := ts.register(t, "ada")
	post := ts.createPost(t, ada, "Heat")

	resp := ts.api.Put("/api/v1/posts/"+post.ID+"/image", bearer(ada), "X-Filename: notes.txt", strings.NewReader("plain text"))
	require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
	assert.Equal(t, 0, ts.objects.Len())
}

func TestGetImage(t *testing.T) {
	ts := setupTestServer(t)
	ada, _ := ts.register(t, "ada")
	post := ts.createPost(t, ada, "Heat")

	up := ts.api.Put("/api/v1/posts/"+post.ID+"/image", bearer(ada), bytes.NewReader(pngBytes(t)))
	require.Equal(t, http.StatusOK, up.Code, up.Body.String())
	key := decode[PostResponse](t, up).Data.Img

	resp := ts.api.Get("/api/v1/images/" + key)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "image/png", resp.Header().Get("Content-Type"))
	assert.Equal(t, pngBytes(t), resp.Body.Bytes())

	missing := ts.api.Get("/api/v1/images/missing.png")
	assert.Equal(t, http.StatusNotFound, missing.Code)

	unsafe := ts.api.Get("/api/v1/images/a..b")
	assert.Equal(t, http.StatusNotFound, unsafe.Code, unsafe.Body.String())
}

func TestDeletePost(t *testing.T) {
	ts := setupTestServer(t)
	ada, _ := ts.register(t, "ada")
	bob, _ := ts.register(t, "bob")
	post := ts.createPost(t, ada, "Heat")

	// Bob keeps the post in his bag.
	require.Equal(t, http.StatusOK, ts.api.Put("/api/v1/me/bag/"+post.ID, bearer(bob)).Code)

	forbidden := ts.api.Delete("/api/v1/posts/"+post.ID, bearer(bob))
	require.Equal(t, http.StatusForbidden, forbidden.Code)

	resp := ts.api.Delete("/api/v1/posts/"+post.ID, bearer(ada))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.True(t, decode[DeletePostResponse](t, resp).Data.Deleted)

	assert.Equal(t, http.StatusNotFound, ts.api.Get("/api/v1/posts/"+post.ID).Code)

	// The dangling reference stays, but listing skips it.
	me := decode[UserResponse](t, ts.api.Get("/api/v1/auth/me", bearer(bob))).Data
	assert.Equal(t, []string{post.ID}, me.MyBag)
	bag := decode[PostsResponse](t, ts.api.Get("/api/v1/me/bag", bearer(bob))).Data
	assert.Empty(t, bag.Posts)
}
