package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPost() *Post {
	return &Post{
		Document:  Document{ID: "post-1"},
		OwnerID:   "usr-1",
		MovieName: "Alien",
		Summary:   "In space no one can hear you scream.",
		Genre:     []string{"horror", "sci-fi"},
		Img:       "old.png",
	}
}

func TestPost_LikeScenario(t *testing.T) {
	post := newTestPost()

	require.NoError(t, post.React(ReactionLike, "usr-2", time.Now()))
	assert.Equal(t, 1, post.Likes.Count())

	err := post.React(ReactionLike, "usr-2", time.Now())
	assert.ErrorIs(t, err, ErrAlreadyMarked)
	assert.Equal(t, 1, post.Likes.Count())

	require.NoError(t, post.UndoReact(ReactionLike, "usr-2"))
	assert.Equal(t, 0, post.Likes.Count())
}

func TestPost_LikeAndUnlikeMayCoexist(t *testing.T) {
	post := newTestPost()

	require.NoError(t, post.React(ReactionLike, "usr-2", time.Now()))
	require.NoError(t, post.React(ReactionUnlike, "usr-2", time.Now()))

	assert.True(t, post.Likes.Has("usr-2"))
	assert.True(t, post.Unlikes.Has("usr-2"))
	assert.Equal(t, post.Unlikes, post.Reactions(ReactionUnlike))
}

func TestPost_ReactUnknownKind(t *testing.T) {
	post := newTestPost()

	err := post.React(ReactionKind("love"), "usr-2", time.Now())

	assert.ErrorIs(t, err, ErrUnknownReaction)
}

func TestPost_ApplyPatchReturnsStaleImage(t *testing.T) {
	post := newTestPost()
	name := "  Aliens "
	img := "new.png"

	stale := post.Apply(PostPatch{MovieName: &name, Img: &img})

	assert.Equal(t, "old.png", stale)
	assert.Equal(t, "Aliens", post.MovieName)
	assert.Equal(t, "new.png", post.Img)
	assert.Equal(t, "In space no one can hear you scream.", post.Summary)
}

func TestPost_ApplyPatchSameImageIsNotStale(t *testing.T) {
	post := newTestPost()
	img := "old.png"

	stale := post.Apply(PostPatch{Img: &img})

	assert.Empty(t, stale)
}

func TestPost_ApplyPatchGenre(t *testing.T) {
	post := newTestPost()

	post.Apply(PostPatch{Genre: []string{"drama, thriller", " "}})

	assert.Equal(t, []string{"drama", "thriller"}, post.Genre)
}

func TestPostPatch_IsEmpty(t *testing.T) {
	assert.True(t, PostPatch{}.IsEmpty())
	summary := "x"
	assert.False(t, PostPatch{Summary: &summary}.IsEmpty())
}

func TestCleanGenre(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, CleanGenre([]string{"a,b", " c "}))
	assert.Empty(t, CleanGenre([]string{"", " , "}))
}
