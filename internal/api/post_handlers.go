package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cinetag/cinetag-server/internal/domain"
	"github.com/cinetag/cinetag-server/internal/media/images"
	"github.com/cinetag/cinetag-server/internal/service"
)

// bodyOverhead leaves room for JSON framing and base64 expansion around
// an inline image.
const bodyOverhead = 64 << 10

func (s *Server) registerPostRoutes() {
	maxImage := int64(s.opts.MaxImageBytes)
	if maxImage <= 0 {
		maxImage = images.DefaultMaxBytes
	}

	huma.Register(s.api, huma.Operation{
		OperationID:   "createPost",
		Method:        http.MethodPost,
		Path:          "/api/v1/posts",
		Summary:       "Create post",
		Description:   "Creates a post with an optional base64 poster image",
		Tags:          []string{"Posts"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
		MaxBodyBytes:  maxImage*4/3 + bodyOverhead,
	}, s.handleCreatePost)

	huma.Register(s.api, huma.Operation{
		OperationID: "listPosts",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts",
		Summary:     "List posts",
		Description: "Returns every post, newest first",
		Tags:        []string{"Posts"},
	}, s.handleListPosts)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMyPosts",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts/mine",
		Summary:     "List my posts",
		Description: "Returns the posts created by the current user, newest first",
		Tags:        []string{"Posts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListMyPosts)

	huma.Register(s.api, huma.Operation{
		OperationID: "getPost",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts/{id}",
		Summary:     "Get post",
		Description: "Returns a post with its tags and reactions",
		Tags:        []string{"Posts"},
	}, s.handleGetPost)

	huma.Register(s.api, huma.Operation{
		OperationID: "updatePost",
		Method:      http.MethodPatch,
		Path:        "/api/v1/posts/{id}",
		Summary:     "Update post",
		Description: "Updates the title, summary or genre of a post owned by the current user",
		Tags:        []string{"Posts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdatePost)

	huma.Register(s.api, huma.Operation{
		OperationID:  "setPostImage",
		Method:       http.MethodPut,
		Path:         "/api/v1/posts/{id}/image",
		Summary:      "Upload poster",
		Description:  "Replaces the poster of a post owned by the current user. The body is the raw JPEG or PNG file.",
		Tags:         []string{"Posts"},
		Security:     []map[string][]string{{"bearer": {}}},
		MaxBodyBytes: maxImage + 1,
	}, s.handleSetPostImage)

	huma.Register(s.api, huma.Operation{
		OperationID: "deletePost",
		Method:      http.MethodDelete,
		Path:        "/api/v1/posts/{id}",
		Summary:     "Delete post",
		Description: "Deletes a post owned by the current user",
		Tags:        []string{"Posts"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeletePost)
}

// === DTOs ===

// CreatePostRequest is the request body for creating a post.
type CreatePostRequest struct {
	MovieName string   `json:"movie_name" doc:"Movie or show title"`
	Summary   string   `json:"summary" doc:"Short summary, at most 200 characters"`
	Genre     []string `json:"genre" doc:"Genre labels; a single comma separated label is split"`
	ImageName string   `json:"image_name,omitempty" doc:"Original file name of the poster"`
	Image     []byte   `json:"image,omitempty" doc:"Base64 encoded JPEG or PNG poster"`
}

// CreatePostInput wraps the create post request for Huma.
type CreatePostInput struct {
	Body CreatePostRequest
}

// ListPostsInput has no parameters.
type ListPostsInput struct{}

// GetPostInput contains parameters for getting a post.
type GetPostInput struct {
	ID string `path:"id" doc:"Post ID"`
}

// UpdatePostRequest is the request body for updating a post.
// Omitted fields are left unchanged.
type UpdatePostRequest struct {
	MovieName *string  `json:"movie_name,omitempty" doc:"Movie or show title"`
	Summary   *string  `json:"summary,omitempty" doc:"Short summary"`
	Genre     []string `json:"genre,omitempty" doc:"Replacement genre labels"`
}

// UpdatePostInput wraps the update post request for Huma.
type UpdatePostInput struct {
	ID   string `path:"id" doc:"Post ID"`
	Body UpdatePostRequest
}

// SetPostImageInput contains the raw poster upload.
type SetPostImageInput struct {
	ID       string `path:"id" doc:"Post ID"`
	Filename string `header:"X-Filename" doc:"Original file name, used to check the extension"`
	RawBody  []byte
}

// DeletePostInput contains parameters for deleting a post.
type DeletePostInput struct {
	ID string `path:"id" doc:"Post ID"`
}

// DeletePostResponse confirms a deletion.
type DeletePostResponse struct {
	ID      string `json:"id" doc:"Deleted post ID"`
	Deleted bool   `json:"deleted" doc:"Always true"`
}

// DeletePostOutput wraps the delete confirmation for Huma.
type DeletePostOutput struct {
	Body DeletePostResponse
}

// === Handlers ===

func (s *Server) handleCreatePost(ctx context.Context, input *CreatePostInput) (*PostOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	post, err := s.services.Post.Create(ctx, userID, service.CreatePostRequest{
		MovieName: input.Body.MovieName,
		Summary:   input.Body.Summary,
		Genre:     input.Body.Genre,
		ImageName: input.Body.ImageName,
		Image:     input.Body.Image,
	})
	if err != nil {
		return nil, err
	}

	return &PostOutput{Body: toPostResponse(post)}, nil
}

func (s *Server) handleListPosts(ctx context.Context, _ *ListPostsInput) (*PostsOutput, error) {
	posts, err := s.services.Post.List(ctx)
	if err != nil {
		return nil, err
	}
	return &PostsOutput{Body: PostsResponse{Posts: toPostResponses(posts)}}, nil
}

func (s *Server) handleListMyPosts(ctx context.Context, _ *ListPostsInput) (*PostsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	posts, err := s.services.Post.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &PostsOutput{Body: PostsResponse{Posts: toPostResponses(posts)}}, nil
}

func (s *Server) handleGetPost(ctx context.Context, input *GetPostInput) (*PostOutput, error) {
	post, err := s.services.Post.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &PostOutput{Body: toPostResponse(post)}, nil
}

func (s *Server) handleUpdatePost(ctx context.Context, input *UpdatePostInput) (*PostOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	post, err := s.services.Post.Update(ctx, input.ID, userID, domain.PostPatch{
		MovieName: input.Body.MovieName,
		Summary:   input.Body.Summary,
		Genre:     input.Body.Genre,
	})
	if err != nil {
		return nil, err
	}

	return &PostOutput{Body: toPostResponse(post)}, nil
}

func (s *Server) handleSetPostImage(ctx context.Context, input *SetPostImageInput) (*PostOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("poster upload request",
		"post_id", input.ID,
		"user_id", userID,
		"body_size", len(input.RawBody),
	)

	post, err := s.services.Post.SetImage(ctx, input.ID, userID, input.Filename, input.RawBody)
	if err != nil {
		return nil, err
	}

	return &PostOutput{Body: toPostResponse(post)}, nil
}

func (s *Server) handleDeletePost(ctx context.Context, input *DeletePostInput) (*DeletePostOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Post.Delete(ctx, input.ID, userID); err != nil {
		return nil, err
	}

	return &DeletePostOutput{Body: DeletePostResponse{ID: input.ID, Deleted: true}}, nil
}
