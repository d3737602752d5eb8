package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cinetag/cinetag-server/internal/domain"
)

func (s *Server) registerUserListRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBag",
		Method:      http.MethodGet,
		Path:        "/api/v1/me/bag",
		Summary:     "List bag",
		Description: "Returns the posts in the current user's bag. Deleted posts are skipped.",
		Tags:        []string{"Me"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBag)

	huma.Register(s.api, huma.Operation{
		OperationID: "addToBag",
		Method:      http.MethodPut,
		Path:        "/api/v1/me/bag/{postId}",
		Summary:     "Add to bag",
		Tags:        []string{"Me"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddToBag)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeFromBag",
		Method:      http.MethodDelete,
		Path:        "/api/v1/me/bag/{postId}",
		Summary:     "Remove from bag",
		Tags:        []string{"Me"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveFromBag)

	huma.Register(s.api, huma.Operation{
		OperationID: "listLikedPosts",
		Method:      http.MethodGet,
		Path:        "/api/v1/me/likes",
		Summary:     "List liked posts",
		Description: "Returns the posts in the current user's likes list. Deleted posts are skipped.",
		Tags:        []string{"Me"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListLikedPosts)

	huma.Register(s.api, huma.Operation{
		OperationID: "addToLikes",
		Method:      http.MethodPut,
		Path:        "/api/v1/me/likes/{postId}",
		Summary:     "Add to likes",
		Tags:        []string{"Me"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddToLikes)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeFromLikes",
		Method:      http.MethodDelete,
		Path:        "/api/v1/me/likes/{postId}",
		Summary:     "Remove from likes",
		Tags:        []string{"Me"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveFromLikes)
}

// === DTOs ===

// UserListInput selects a post for a bag or likes change.
type UserListInput struct {
	PostID string `path:"postId" doc:"Post ID"`
}

// ListUserPostsInput has no parameters.
type ListUserPostsInput struct{}

// UserListResponse is a bag or likes list after a change.
type UserListResponse struct {
	List    string   `json:"list" doc:"bag or likes"`
	PostIDs []string `json:"post_ids" doc:"Post IDs, newest first"`
}

// UserListOutput wraps a user list for Huma.
type UserListOutput struct {
	Body UserListResponse
}

// === Handlers ===

func (s *Server) handleListBag(ctx context.Context, _ *ListUserPostsInput) (*PostsOutput, error) {
	return s.listUserPosts(ctx, s.services.User.Bag)
}

func (s *Server) handleListLikedPosts(ctx context.Context, _ *ListUserPostsInput) (*PostsOutput, error) {
	return s.listUserPosts(ctx, s.services.User.LikedPosts)
}

func (s *Server) handleAddToBag(ctx context.Context, input *UserListInput) (*UserListOutput, error) {
	return s.changeUserList(ctx, domain.ListBag, input.PostID, s.services.User.AddToBag)
}

func (s *Server) handleRemoveFromBag(ctx context.Context, input *UserListInput) (*UserListOutput, error) {
	return s.changeUserList(ctx, domain.ListBag, input.PostID, s.services.User.RemoveFromBag)
}

func (s *Server) handleAddToLikes(ctx context.Context, input *UserListInput) (*UserListOutput, error) {
	return s.changeUserList(ctx, domain.ListLikes, input.PostID, s.services.User.AddToLikes)
}

func (s *Server) handleRemoveFromLikes(ctx context.Context, input *UserListInput) (*UserListOutput, error) {
	return s.changeUserList(ctx, domain.ListLikes, input.PostID, s.services.User.RemoveFromLikes)
}

func (s *Server) listUserPosts(
	ctx context.Context,
	load func(context.Context, string) ([]*domain.Post, error),
) (*PostsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	posts, err := load(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &PostsOutput{Body: PostsResponse{Posts: toPostResponses(posts)}}, nil
}

func (s *Server) changeUserList(
	ctx context.Context,
	kind domain.ListKind,
	postID string,
	change func(context.Context, string, string) (domain.RefList, error),
) (*UserListOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	list, err := change(ctx, userID, postID)
	if err != nil {
		return nil, err
	}

	return &UserListOutput{Body: UserListResponse{List: string(kind), PostIDs: refs(list)}}, nil
}
