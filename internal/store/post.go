package store

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/cinetag/cinetag-server/internal/domain"
)

// CreatePost stores a new post.
func (s *BadgerStore) CreatePost(ctx context.Context, post *domain.Post) error {
	if err := s.Posts.Create(ctx, post.ID, post); err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// GetPost retrieves a post by id.
func (s *BadgerStore) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	return s.Posts.Get(ctx, id)
}

// GetPostsByIDs returns the posts that exist, in the order of ids.
// Missing ids are skipped.
func (s *BadgerStore) GetPostsByIDs(ctx context.Context, ids []string) ([]*domain.Post, error) {
	out := make([]*domain.Post, 0, len(ids))
	for _, id := range ids {
		post, err := s.Posts.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, post)
	}
	return out, nil
}

// ListPosts returns every post, newest first.
func (s *BadgerStore) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	posts, err := s.Posts.Collect(ctx)
	if err != nil {
		return nil, err
	}
	SortNewestFirst(posts)
	return posts, nil
}

// ListPostsByOwner returns the posts created by ownerID, newest first.
func (s *BadgerStore) ListPostsByOwner(ctx context.Context, ownerID string) ([]*domain.Post, error) {
	posts, err := s.Posts.ListByIndex(ctx, "owner", ownerID)
	if err != nil {
		return nil, err
	}
	SortNewestFirst(posts)
	return posts, nil
}

// UpdatePost applies fn to the stored post atomically.
func (s *BadgerStore) UpdatePost(ctx context.Context, id string, fn func(*domain.Post) error) (*domain.Post, error) {
	return s.Posts.Mutate(ctx, id, fn)
}

// DeletePost removes a post. Returns ErrPostNotFound if it does not exist.
func (s *BadgerStore) DeletePost(ctx context.Context, id string) error {
	return s.Posts.Delete(ctx, id)
}

// SortNewestFirst orders posts by creation time, newest first, with id as
// the tie breaker.
func SortNewestFirst(posts []*domain.Post) {
	slices.SortFunc(posts, func(a, b *domain.Post) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
}
