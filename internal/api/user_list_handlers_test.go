package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBag_AddListRemove(t *testing.T) {
	ts := setupTestServer(t)
	ada, _ := ts.register(t, "ada")
	first := ts.createPost(t, ada, "Heat")
	second := ts.createPost(t, ada, "Ronin")

	for _, id := range []string{first.ID, second.ID} {
		resp := ts.api.Put("/api/v1/me/bag/"+id, bearer(ada))
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	}

	again := ts.api.Put("/api/v1/me/bag/"+first.ID, bearer(ada))
	require.Equal(t, http.StatusConflict, again.Code)
	assert.Equal(t, "already added to bag", decode[any](t, again).Error)

	bag := decode[PostsResponse](t, ts.api.Get("/api/v1/me/bag", bearer(ada))).Data.Posts
	require.Len(t, bag, 2)
	assert.Equal(t, "Ronin", bag[0].MovieName)

	removed := ts.api.Delete("/api/v1/me/bag/"+second.ID, bearer(ada))
	require.Equal(t, http.StatusOK, removed.Code)
	list := decode[UserListResponse](t, removed).Data
	assert.Equal(t, "bag", list.List)
	assert.Equal(t, []string{first.ID}, list.PostIDs)

	missing := ts.api.Delete("/api/v1/me/bag/"+second.ID, bearer(ada))
	require.Equal(t, http.StatusConflict, missing.Code)
	assert.Equal(t, "NOT_MARKED", decode[any](t, missing).Code)
}

func TestLikes_AddAndList(t *testing.T) {
	ts := setupTestServer(t)
	ada, _ := ts.register(t, "ada")
	post := ts.createPost(t, ada, "Heat")

	resp := ts.api.Put("/api/v1/me/likes/"+post.ID, bearer(ada))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, []string{post.ID}, decode[UserListResponse](t, resp).Data.PostIDs)

	liked := decode[PostsResponse](t, ts.api.Get("/api/v1/me/likes", bearer(ada))).Data.Posts
	require.Len(t, liked, 1)
	assert.Equal(t, post.ID, liked[0].ID)

	removed := ts.api.Delete("/api/v1/me/likes/"+post.ID, bearer(ada))
	require.Equal(t, http.StatusOK, removed.Code)
	assert.Empty(t, decode[UserListResponse](t, removed).Data.PostIDs)
}

func TestUserLists_RequireAuth(t *testing.T) {
	ts := setupTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, ts.api.Get("/api/v1/me/bag").Code)
	assert.Equal(t, http.StatusUnauthorized, ts.api.Put("/api/v1/me/likes/pst-1").Code)
}
