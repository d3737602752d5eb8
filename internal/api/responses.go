package api

import (
	"time"

	"github.com/cinetag/cinetag-server/internal/domain"
)

// ReactionResponse is one member of a like or unlike set.
type ReactionResponse struct {
	UserID    string    `json:"user_id" doc:"Reacting user ID"`
	CreatedAt time.Time `json:"created_at" doc:"When the reaction was added"`
}

// TagResponse contains tag data in API responses.
type TagResponse struct {
	ID          string             `json:"id" doc:"Tag ID"`
	TagName     string             `json:"tag_name" doc:"Tag text"`
	AuthorID    string             `json:"author_id" doc:"User who created the tag"`
	Likes       []ReactionResponse `json:"likes" doc:"Users who liked the tag, newest first"`
	Unlikes     []ReactionResponse `json:"unlikes" doc:"Users who disliked the tag, newest first"`
	LikeCount   int                `json:"like_count" doc:"Number of likes"`
	UnlikeCount int                `json:"unlike_count" doc:"Number of unlikes"`
	CreatedAt   time.Time          `json:"created_at" doc:"Creation time"`
}

// PostResponse contains post data in API responses.
type PostResponse struct {
	ID          string             `json:"id" doc:"Post ID"`
	OwnerID     string             `json:"owner_id" doc:"User who created the post"`
	MovieName   string             `json:"movie_name" doc:"Movie or show title"`
	Summary     string             `json:"summary" doc:"Short summary"`
	Genre       []string           `json:"genre" doc:"Genre labels"`
	Img         string             `json:"img,omitempty" doc:"Poster object key"`
	ImgBlurHash string             `json:"img_blurhash,omitempty" doc:"Poster placeholder"`
	Likes       []ReactionResponse `json:"likes" doc:"Users who liked the post, newest first"`
	Unlikes     []ReactionResponse `json:"unlikes" doc:"Users who disliked the post, newest first"`
	LikeCount   int                `json:"like_count" doc:"Number of likes"`
	UnlikeCount int                `json:"unlike_count" doc:"Number of unlikes"`
	Tags        []TagResponse      `json:"tags" doc:"Tags, newest first"`
	CreatedAt   time.Time          `json:"created_at" doc:"Creation time"`
	UpdatedAt   time.Time          `json:"updated_at" doc:"Last update time"`
}

// PostOutput wraps a single post for Huma.
type PostOutput struct {
	Body PostResponse
}

// PostsResponse contains a list of posts.
type PostsResponse struct {
	Posts []PostResponse `json:"posts" doc:"Posts"`
}

// PostsOutput wraps a list of posts for Huma.
type PostsOutput struct {
	Body PostsResponse
}

// TagsResponse contains the full tag sequence of a post after a change.
type TagsResponse struct {
	PostID string        `json:"post_id" doc:"Post ID"`
	Tags   []TagResponse `json:"tags" doc:"Tags, newest first"`
}

// TagsOutput wraps the tag sequence for Huma.
type TagsOutput struct {
	Body TagsResponse
}

func toReactions(set domain.ReactionSet) []ReactionResponse {
	out := make([]ReactionResponse, len(set))
	for i, r := range set {
		out[i] = ReactionResponse{UserID: r.UserID, CreatedAt: r.CreatedAt}
	}
	return out
}

func toTagResponse(t domain.Tag) TagResponse {
	return TagResponse{
		ID:          t.ID,
		TagName:     t.TagName,
		AuthorID:    t.AuthorID,
		Likes:       toReactions(t.Likes),
		Unlikes:     toReactions(t.Unlikes),
		LikeCount:   t.Likes.Count(),
		UnlikeCount: t.Unlikes.Count(),
		CreatedAt:   t.CreatedAt,
	}
}

func toTagResponses(tags []domain.Tag) []TagResponse {
	out := make([]TagResponse, len(tags))
	for i, t := range tags {
		out[i] = toTagResponse(t)
	}
	return out
}

func toPostResponse(p *domain.Post) PostResponse {
	genre := p.Genre
	if genre == nil {
		genre = []string{}
	}
	return PostResponse{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		MovieName:   p.MovieName,
		Summary:     p.Summary,
		Genre:       genre,
		Img:         p.Img,
		ImgBlurHash: p.ImgBlurHash,
		Likes:       toReactions(p.Likes),
		Unlikes:     toReactions(p.Unlikes),
		LikeCount:   p.Likes.Count(),
		UnlikeCount: p.Unlikes.Count(),
		Tags:        toTagResponses(p.Tags),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toPostResponses(posts []*domain.Post) []PostResponse {
	out := make([]PostResponse, len(posts))
	for i, p := range posts {
		out[i] = toPostResponse(p)
	}
	return out
}

func tagsOutput(postID string, tags []domain.Tag) *TagsOutput {
	return &TagsOutput{Body: TagsResponse{PostID: postID, Tags: toTagResponses(tags)}}
}
