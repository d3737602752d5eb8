package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostReactions_LikeTwiceThenUnlike(t *testing.T) {
	ts := setupTestServer(t)
	ada, _ := ts.register(t, "ada")
	bob, bobID := ts.register(t, "bob")
	post := ts.createPost(t, ada, "Heat")
	path := "/api/v1/posts/" + post.ID + "/reactions/like"

	resp := ts.api.Put(path, bearer(bob))
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	set := decode[ReactionSetResponse](t, resp).Data
	assert.Equal(t, 1, set.Count)
	assert.Equal(t, bobID, set.Reactions[0].UserID)

	again := ts.api.Put(path, bearer(bob))
	require.Equal(t, http.StatusConflict, again.Code)
	env := decode[any](t, again)
	assert.Equal(t, "ALREADY_MARKED", env.Code)
	assert.Equal(t, "post already liked", env.Error)

	undo := ts.api.Delete(path, bearer(bob))
	require.Equal(t, http.StatusOK, undo.Code)
	assert.Equal(t, 0, decode[ReactionSetResponse](t, undo).Data.Count)

	undoAgain := ts.api.Delete(path, bearer(bob))
	require.Equal(t, http.StatusConflict, undoAgain.Code)
	assert.Equal(t, "NOT_MARKED", decode[any](t, undoAgain).Code)
}

func TestPostReactions_LikeAndUnlikeAreIndependent(t *testing.T) {
	ts := setupTestServer(t)
	ada, _ := ts.register(t, "ada")
	post := ts.createPost(t, ada, "Heat")

	require.Equal(t, http.StatusOK, ts.api.Put("/api/v1/posts/"+post.ID+"/reactions/like", bearer(ada)).Code)
	require.Equal(t, http.StatusOK, ts.api.Put("/api/v1/posts/"+post.ID+"/reactions/unlike", bearer(ada)).Code)

	got := decode[PostResponse](t, ts.api.Get("/api/v1/posts/"+post.ID)).Data
	assert.Equal(t, 1, got.LikeCount)
	assert.Equal(t, 1, got.UnlikeCount)
}

func TestPostReactions_UnknownKind(t *testing.T) {
	ts := setupTestServer(t)
	ada, _ := ts.register(t, "ada")
	post := ts.createPost(t, ada, "Heat")

	resp := ts.api.Put("/api/v1/posts/"+post.ID+"/reactions/love", bearer(ada))
	require.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())
	assert.Equal(t, "VALIDATION", decode[any](t, resp).Code)
}

func TestPostReactions_MissingPost(t *testing.T) {
	ts := setupTestServer(t)
	ada, _ := ts.register(t, "ada")

	resp := ts.api.Put("/api/v1/posts/pst-missing/reactions/like", bearer(ada))
	require.Equal(t, http.StatusNotFound, resp.Code)
}
