package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinetag/cinetag-server/internal/domain"
	domainerrors "github.com/cinetag/cinetag-server/internal/errors"
	"github.com/cinetag/cinetag-server/internal/events"
)

func TestPostService_Create(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	env.createUser(t, "usr-1")

	post, err := env.posts.Create(ctx, "usr-1", CreatePostRequest{
		MovieName: "  Heat ",
		Summary:   "Cops and robbers.",
		Genre:     []string{"Crime, Thriller", " "},
		ImageName: "heat.png",
		Image:     pngBytes(t),
	})
	require.NoError(t, err)

	assert.Equal(t, "Heat", post.MovieName)
	assert.Equal(t, []string{"Crime", "Thriller"}, post.Genre)
	assert.Equal(t, "usr-1", post.OwnerID)
	assert.NotEmpty(t, post.Img)
	assert.NotEmpty(t, post.ImgBlurHash)
	assert.True(t, env.objects.Has(post.Img))
	assert.Empty(t, post.Likes)
	assert.Empty(t, post.Tags)

	stored, err := env.posts.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, stored.ID)

	assert.Len(t, env.events.Topic(events.TopicPostCreated), 1)
}

func TestPostService_Create_SummaryTooLongPersistsNothing(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()

	_, err := env.posts.Create(ctx, "usr-1", CreatePostRequest{
		MovieName: "Long",
		Summary:   strings.Repeat("é", domain.MaxSummaryLength+1),
		Genre:     []string{"Drama"},
		Image:     pngBytes(t),
	})
	require.Error(t, err)
	assert.Equal(t, domainerrors.CodeValidation, domainerrors.CodeOf(err))

	posts, err := env.posts.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Zero(t, env.objects.Len())
}

func TestPostService_Create_SummaryAtLimit(t *testing.T) {
	env := setupServices(t)

	_, err := env.posts.Create(context.Background(), "usr-1", CreatePostRequest{
		MovieName: "Exact",
		Summary:   strings.Repeat("é", domain.MaxSummaryLength),
		Genre:     []string{"Drama"},
	})
	require.NoError(t, err)
}

func TestPostService_Create_Validation(t *testing.T) {
	tests := []struct {
		name  string
		req   CreatePostRequest
		field string
	}{
		{"missing movie name", CreatePostRequest{Summary: "s", Genre: []string{"g"}}, "movie_name"},
		{"missing summary", CreatePostRequest{MovieName: "m", Genre: []string{"g"}}, "summary"},
		{"empty genre", CreatePostRequest{MovieName: "m", Summary: "s", Genre: []string{" ", ""}}, "genre"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupServices(t)

			_, err := env.posts.Create(context.Background(), "usr-1", tt.req)
			require.Error(t, err)

			var de *domainerrors.Error
			require.ErrorAs(t, err, &de)
			assert.Equal(t, domainerrors.CodeValidation, de.Code)
			assert.Contains(t, de.Details, tt.field)
		})
	}
}

func TestPostService_Create_RejectsBadImage(t *testing.T) {
	env := setupServices(t)

	_, err := env.posts.Create(context.Background(), "usr-1", CreatePostRequest{
		MovieName: "m",
		Summary:   "s",
		Genre:     []string{"g"},
		ImageName: "poster.gif",
		Image:     []byte("GIF89a"),
	})
	assert.Equal(t, domainerrors.CodeValidation, domainerrors.CodeOf(err))
}

func TestPostService_Update(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	post := env.createPost(t, "usr-1")

	updated, err := env.posts.Update(ctx, post.ID, "usr-1", domain.PostPatch{
		Summary: ptr("  New summary  "),
		Genre:   []string{"Mystery"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Arrival", updated.MovieName)
	assert.Equal(t, "New summary", updated.Summary)
	assert.Equal(t, []string{"Mystery"}, updated.Genre)
	assert.Len(t, env.events.Topic(events.TopicPostUpdated), 1)
	assert.Empty(t, env.events.Topic(events.TopicImageStale))
}

func TestPostService_Update_NonOwnerForbidden(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	post := env.createPost(t, "usr-1")

	_, err := env.posts.Update(ctx, post.ID, "usr-2", domain.PostPatch{MovieName: ptr("Hijacked")})
	require.ErrorIs(t, err, domainerrors.ErrForbidden)

	stored, err := env.posts.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Arrival", stored.MovieName)
}

func TestPostService_Update_InvalidMergeNotWritten(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	post := env.createPost(t, "usr-1")

	_, err := env.posts.Update(ctx, post.ID, "usr-1", domain.PostPatch{Genre: []string{}})
	require.ErrorIs(t, err, domainerrors.ErrValidation)

	stored, err := env.posts.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sci-Fi", "Drama"}, stored.Genre)
}

func TestPostService_Update_NotFound(t *testing.T) {
	env := setupServices(t)

	_, err := env.posts.Update(context.Background(), "post-missing", "usr-1", domain.PostPatch{})
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestPostService_SetImage_EmitsOneStaleEvent(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	post := env.createPost(t, "usr-1")

	first, err := env.posts.SetImage(ctx, post.ID, "usr-1", "a.png", pngBytes(t))
	require.NoError(t, err)
	assert.Empty(t, env.events.Topic(events.TopicImageStale))

	second, err := env.posts.SetImage(ctx, post.ID, "usr-1", "b.png", pngBytes(t))
	require.NoError(t, err)
	assert.NotEqual(t, first.Img, second.Img)
	assert.NotEmpty(t, second.ImgBlurHash)

	stale := env.events.Topic(events.TopicImageStale)
	require.Len(t, stale, 1)
	assert.Equal(t, first.Img, stale[0].(events.ImageStale).Key)
}

func TestPostService_SetImage_NonOwnerStoresNothing(t *testing.T) {
	env := setupServices(t)
	post := env.createPost(t, "usr-1")

	_, err := env.posts.SetImage(context.Background(), post.ID, "usr-2", "a.png", pngBytes(t))
	require.ErrorIs(t, err, domainerrors.ErrForbidden)
	assert.Zero(t, env.objects.Len())
}

func TestPostService_Delete(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	env.createUser(t, "usr-1")
	env.createUser(t, "usr-2")

	post, err := env.posts.Create(ctx, "usr-1", CreatePostRequest{
		MovieName: "C", Summary: "s", Genre: []string{"g"}, Image: pngBytes(t),
	})
	require.NoError(t, err)

	_, err = env.users.AddToBag(ctx, "usr-1", post.ID)
	require.NoError(t, err)
	_, err = env.users.AddToLikes(ctx, "usr-1", post.ID)
	require.NoError(t, err)
	_, err = env.users.AddToBag(ctx, "usr-2", post.ID)
	require.NoError(t, err)

	require.NoError(t, env.posts.Delete(ctx, post.ID, "usr-1"))

	_, err = env.posts.Get(ctx, post.ID)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	owner, err := env.users.GetUser(ctx, "usr-1")
	require.NoError(t, err)
	assert.NotContains(t, owner.MyBag, post.ID)
	assert.NotContains(t, owner.Likes, post.ID)

	// Other users keep their reference.
	other, err := env.users.GetUser(ctx, "usr-2")
	require.NoError(t, err)
	assert.Contains(t, other.MyBag, post.ID)

	bag, err := env.users.Bag(ctx, "usr-2")
	require.NoError(t, err)
	assert.Empty(t, bag)

	stale := env.events.Topic(events.TopicImageStale)
	require.Len(t, stale, 1)
	assert.Equal(t, post.Img, stale[0].(events.ImageStale).Key)
	assert.Len(t, env.events.Topic(events.TopicPostDeleted), 1)
}

func TestPostService_Delete_Errors(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	post := env.createPost(t, "usr-1")

	require.ErrorIs(t, env.posts.Delete(ctx, post.ID, "usr-2"), domainerrors.ErrForbidden)
	require.ErrorIs(t, env.posts.Delete(ctx, "post-missing", "usr-1"), domainerrors.ErrNotFound)

	_, err := env.posts.Get(ctx, post.ID)
	require.NoError(t, err)
}

func TestPostService_Delete_OwnerWithoutUserRecord(t *testing.T) {
	env := setupServices(t)
	post := env.createPost(t, "usr-ghost")

	require.NoError(t, env.posts.Delete(context.Background(), post.ID, "usr-ghost"))
}

func TestPostService_LikeLikeUnlike(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	post := env.createPost(t, "usr-1")

	likes, err := env.posts.React(ctx, post.ID, "usr-2", domain.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, 1, likes.Count())

	_, err = env.posts.React(ctx, post.ID, "usr-2", domain.ReactionLike)
	require.ErrorIs(t, err, domainerrors.ErrAlreadyMarked)
	assert.Equal(t, "post already liked", err.Error())

	likes, err = env.posts.UndoReact(ctx, post.ID, "usr-2", domain.ReactionLike)
	require.NoError(t, err)
	assert.Equal(t, 0, likes.Count())

	_, err = env.posts.UndoReact(ctx, post.ID, "usr-2", domain.ReactionLike)
	require.ErrorIs(t, err, domainerrors.ErrNotMarked)
}

func TestPostService_LikeAndUnlikeCoexist(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	post := env.createPost(t, "usr-1")

	_, err := env.posts.React(ctx, post.ID, "usr-2", domain.ReactionLike)
	require.NoError(t, err)
	unlikes, err := env.posts.React(ctx, post.ID, "usr-2", domain.ReactionUnlike)
	require.NoError(t, err)
	assert.Equal(t, 1, unlikes.Count())

	stored, err := env.posts.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.True(t, stored.Likes.Has("usr-2"))
	assert.True(t, stored.Unlikes.Has("usr-2"))
}

func TestPostService_React_NotFound(t *testing.T) {
	env := setupServices(t)

	_, err := env.posts.React(context.Background(), "post-missing", "usr-1", domain.ReactionLike)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestPostService_ConcurrentLikesAllLand(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	post := env.createPost(t, "usr-1")

	const n = 8
	var wg sync.WaitGroup
	for i := range n {
		wg.Go(func() {
			_, err := env.posts.React(ctx, post.ID, "usr-"+string(rune('a'+i)), domain.ReactionLike)
			assert.NoError(t, err)
		})
	}
	wg.Wait()

	stored, err := env.posts.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, n, stored.Likes.Count())
}

func TestPostService_ListByOwner(t *testing.T) {
	env := setupServices(t)
	ctx := context.Background()
	a := env.createPost(t, "usr-1")
	env.createPost(t, "usr-2")

	mine, err := env.posts.ListByOwner(ctx, "usr-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, a.ID, mine[0].ID)

	all, err := env.posts.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPostService_CancelledContext(t *testing.T) {
	env := setupServices(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := env.posts.React(ctx, "post-1", "usr-1", domain.ReactionLike)
	require.ErrorIs(t, err, context.Canceled)
}
