package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cinetag/cinetag-server/internal/domain"
	"github.com/cinetag/cinetag-server/internal/id"
	"github.com/cinetag/cinetag-server/internal/metrics"
	"github.com/cinetag/cinetag-server/internal/normalize"
	"github.com/cinetag/cinetag-server/internal/store"
	"github.com/cinetag/cinetag-server/internal/validation"
)

// TagService manages the tags embedded in posts.
// Any user may tag any post; only the author may delete a tag.
type TagService struct {
	store     store.Store
	validator *validation.Validator
	logger    *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.Store, validator *validation.Validator, logger *slog.Logger) *TagService {
	return &TagService{
		store:     store,
		validator: validator,
		logger:    logger,
	}
}

// CreateTag prepends a tag to the post and returns the post's tags.
// Duplicate names are allowed.
func (s *TagService) CreateTag(ctx context.Context, postID, authorID, tagName string) ([]domain.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tagID, err := id.Generate(id.PrefixTag)
	if err != nil {
		return nil, fmt.Errorf("generate tag ID: %w", err)
	}

	tag := domain.Tag{
		CreatedAt: time.Now(),
		ID:        tagID,
		TagName:   normalize.Text(tagName),
		AuthorID:  authorID,
		Likes:     domain.ReactionSet{},
		Unlikes:   domain.ReactionSet{},
	}
	if err := s.validator.Validate(tag); err != nil {
		return nil, err
	}

	post, err := s.store.UpdatePost(ctx, postID, func(p *domain.Post) error {
		p.AddTag(tag)
		return nil
	})
	if err != nil {
		return nil, translate(err, "create tag", ledgerMessages{})
	}

	s.logger.Info("tag created",
		"post_id", postID,
		"tag_id", tag.ID,
		"user_id", authorID,
	)

	return post.Tags, nil
}

// DeleteTag removes a tag authored by userID and returns the post's tags.
func (s *TagService) DeleteTag(ctx context.Context, postID, tagID, userID string) ([]domain.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	post, err := s.store.UpdatePost(ctx, postID, func(p *domain.Post) error {
		return p.RemoveTag(tagID, userID)
	})
	if err != nil {
		return nil, translate(err, "delete tag", ledgerMessages{})
	}

	s.logger.Info("tag deleted",
		"post_id", postID,
		"tag_id", tagID,
		"user_id", userID,
	)

	return post.Tags, nil
}

// ReactToTag adds userID to the tag's like or unlike set and returns the
// post's tags.
func (s *TagService) ReactToTag(ctx context.Context, postID, tagID, userID string, kind domain.ReactionKind) ([]domain.Tag, error) {
	return s.toggle(ctx, postID, tagID, userID, kind, "mark", func(t *domain.Tag) error {
		return t.React(kind, userID, time.Now())
	})
}

// UndoReactToTag removes userID from the tag's like or unlike set and
// returns the post's tags.
func (s *TagService) UndoReactToTag(ctx context.Context, postID, tagID, userID string, kind domain.ReactionKind) ([]domain.Tag, error) {
	return s.toggle(ctx, postID, tagID, userID, kind, "unmark", func(t *domain.Tag) error {
		return t.UndoReact(kind, userID)
	})
}

func (s *TagService) toggle(
	ctx context.Context,
	postID, tagID, userID string,
	kind domain.ReactionKind,
	op string,
	fn func(*domain.Tag) error,
) ([]domain.Tag, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	post, err := s.store.UpdatePost(ctx, postID, func(p *domain.Post) error {
		tag := p.FindTag(tagID)
		if tag == nil {
			return domain.ErrTagNotFound
		}
		if err := fn(tag); err != nil {
			return err
		}
		p.Touch()
		return nil
	})
	metrics.RecordReaction("tag", string(kind), op, err)
	if err != nil {
		return nil, translate(err, op+" tag reaction", reactionMessages("tag", kind))
	}

	s.logger.Debug("tag reaction changed",
		"post_id", postID,
		"tag_id", tagID,
		"user_id", userID,
		"kind", kind,
		"op", op,
	)

	return post.Tags, nil
}
