package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cinetag/cinetag-server/internal/domain"
	domainerrors "github.com/cinetag/cinetag-server/internal/errors"
)

func (s *Server) registerReactionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "reactToPost",
		Method:      http.MethodPut,
		Path:        "/api/v1/posts/{id}/reactions/{kind}",
		Summary:     "Like or unlike post",
		Description: "Adds the current user to the post's like or unlike set",
		Tags:        []string{"Reactions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleReactToPost)

	huma.Register(s.api, huma.Operation{
		OperationID: "undoPostReaction",
		Method:      http.MethodDelete,
		Path:        "/api/v1/posts/{id}/reactions/{kind}",
		Summary:     "Undo post reaction",
		Description: "Removes the current user from the post's like or unlike set",
		Tags:        []string{"Reactions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUndoPostReaction)
}

// === DTOs ===

// PostReactionInput selects a post and a reaction set.
type PostReactionInput struct {
	ID   string `path:"id" doc:"Post ID"`
	Kind string `path:"kind" enum:"like,unlike" doc:"Reaction set"`
}

// ReactionSetResponse is a reaction set after a change.
type ReactionSetResponse struct {
	PostID    string             `json:"post_id" doc:"Post ID"`
	Kind      string             `json:"kind" doc:"like or unlike"`
	Count     int                `json:"count" doc:"Set size"`
	Reactions []ReactionResponse `json:"reactions" doc:"Members, newest first"`
}

// ReactionSetOutput wraps a reaction set for Huma.
type ReactionSetOutput struct {
	Body ReactionSetResponse
}

// === Handlers ===

func (s *Server) handleReactToPost(ctx context.Context, input *PostReactionInput) (*ReactionSetOutput, error) {
	userID, kind, err := reactionRequest(ctx, input.Kind)
	if err != nil {
		return nil, err
	}

	set, err := s.services.Post.React(ctx, input.ID, userID, kind)
	if err != nil {
		return nil, err
	}

	return reactionSetOutput(input.ID, kind, set), nil
}

func (s *Server) handleUndoPostReaction(ctx context.Context, input *PostReactionInput) (*ReactionSetOutput, error) {
	userID, kind, err := reactionRequest(ctx, input.Kind)
	if err != nil {
		return nil, err
	}

	set, err := s.services.Post.UndoReact(ctx, input.ID, userID, kind)
	if err != nil {
		return nil, err
	}

	return reactionSetOutput(input.ID, kind, set), nil
}

// reactionRequest resolves the caller and the reaction kind path parameter.
func reactionRequest(ctx context.Context, rawKind string) (string, domain.ReactionKind, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return "", "", err
	}

	kind, err := domain.ParseReactionKind(rawKind)
	if err != nil {
		return "", "", domainerrors.Validation("reaction kind must be like or unlike")
	}

	return userID, kind, nil
}

func reactionSetOutput(postID string, kind domain.ReactionKind, set domain.ReactionSet) *ReactionSetOutput {
	return &ReactionSetOutput{
		Body: ReactionSetResponse{
			PostID:    postID,
			Kind:      string(kind),
			Count:     set.Count(),
			Reactions: toReactions(set),
		},
	}
}
