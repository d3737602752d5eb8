package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerTagRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createTag",
		Method:        http.MethodPost,
		Path:          "/api/v1/posts/{id}/tags",
		Summary:       "Create tag",
		Description:   "Adds a tag to a post. Any user may tag any post.",
		Tags:          []string{"Tags"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteTag",
		Method:      http.MethodDelete,
		Path:        "/api/v1/posts/{id}/tags/{tagId}",
		Summary:     "Delete tag",
		Description: "Deletes a tag created by the current user",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "reactToTag",
		Method:      http.MethodPut,
		Path:        "/api/v1/posts/{id}/tags/{tagId}/reactions/{kind}",
		Summary:     "Like or unlike tag",
		Description: "Adds the current user to the tag's like or unlike set",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReactToTag)

	huma.Register(s.api, huma.Operation{
		OperationID: "undoTagReaction",
		Method:      http.MethodDelete,
		Path:        "/api/v1/posts/{id}/tags/{tagId}/reactions/{kind}",
		Summary:     "Undo tag reaction",
		Description: "Removes the current user from the tag's like or unlike set",
		Tags:        []string{"Tags"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUndoTagReaction)
}

// === DTOs ===

// CreateTagRequest is the request body for creating a tag.
type CreateTagRequest struct {
	TagName string `json:"tag_name" doc:"Tag text, at most 50 characters"`
}

// CreateTagInput wraps the create tag request for Huma.
type CreateTagInput struct {
	ID   string `path:"id" doc:"Post ID"`
	Body CreateTagRequest
}

// DeleteTagInput contains parameters for deleting a tag.
type DeleteTagInput struct {
	ID    string `path:"id" doc:"Post ID"`
	TagID string `path:"tagId" doc:"Tag ID"`
}

// TagReactionInput selects a tag and a reaction set.
type TagReactionInput struct {
	ID    string `path:"id" doc:"Post ID"`
	TagID string `path:"tagId" doc:"Tag ID"`
	Kind  string `path:"kind" enum:"like,unlike" doc:"Reaction set"`
}

// === Handlers ===

func (s *Server) handleCreateTag(ctx context.Context, input *CreateTagInput) (*TagsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	tags, err := s.services.Tag.CreateTag(ctx, input.ID, userID, input.Body.TagName)
	if err != nil {
		return nil, err
	}

	return tagsOutput(input.ID, tags), nil
}

func (s *Server) handleDeleteTag(ctx context.Context, input *DeleteTagInput) (*TagsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	tags, err := s.services.Tag.DeleteTag(ctx, input.ID, input.TagID, userID)
	if err != nil {
		return nil, err
	}

	return tagsOutput(input.ID, tags), nil
}

func (s *Server) handleReactToTag(ctx context.Context, input *TagReactionInput) (*TagsOutput, error) {
	userID, kind, err := reactionRequest(ctx, input.Kind)
	if err != nil {
		return nil, err
	}

	tags, err := s.services.Tag.ReactToTag(ctx, input.ID, input.TagID, userID, kind)
	if err != nil {
		return nil, err
	}

	return tagsOutput(input.ID, tags), nil
}

func (s *Server) handleUndoTagReaction(ctx context.Context, input *TagReactionInput) (*TagsOutput, error) {
	userID, kind, err := reactionRequest(ctx, input.Kind)
	if err != nil {
		return nil, err
	}

	tags, err := s.services.Tag.UndoReactToTag(ctx, input.ID, input.TagID, userID, kind)
	if err != nil {
		return nil, err
	}

	return tagsOutput(input.ID, tags), nil
}
