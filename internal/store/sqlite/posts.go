package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/cinetag/cinetag-server/internal/domain"
	"github.com/cinetag/cinetag-server/internal/store"
)

// CreatePost inserts a new post.
func (s *Store) CreatePost(ctx context.Context, post *domain.Post) error {
	data, err := json.Marshal(post)
	if err != nil {
		return fmt.Errorf("marshal post: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO posts (id, owner_id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		post.ID,
		post.OwnerID,
		data,
		formatTime(post.CreatedAt),
		formatTime(post.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

// GetPost retrieves a post by id.
func (s *Store) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `SELECT data FROM posts WHERE id = ?`, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, store.ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}

	var p domain.Post
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal post: %w", err)
	}
	return &p, nil
}

// GetPostsByIDs returns the posts that exist, in the order of ids.
func (s *Store) GetPostsByIDs(ctx context.Context, ids []string) ([]*domain.Post, error) {
	out := make([]*domain.Post, 0, len(ids))
	for _, id := range ids {
		p, err := s.GetPost(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// ListPosts returns every post, newest first.
func (s *Store) ListPosts(ctx context.Context) ([]*domain.Post, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM posts ORDER BY created_at DESC, id ASC`)
	if err != nil {
		return nil, err
	}
	return scanDocs[domain.Post](rows)
}

// ListPostsByOwner returns the posts created by ownerID, newest first.
func (s *Store) ListPostsByOwner(ctx context.Context, ownerID string) ([]*domain.Post, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM posts WHERE owner_id = ? ORDER BY created_at DESC, id ASC`, ownerID)
	if err != nil {
		return nil, err
	}
	return scanDocs[domain.Post](rows)
}

// UpdatePost applies fn to the stored post inside one transaction.
func (s *Store) UpdatePost(ctx context.Context, id string, fn func(*domain.Post) error) (*domain.Post, error) {
	return mutate(ctx, s.db, "posts", id, store.ErrPostNotFound, fn, func(tx *sql.Tx, p *domain.Post, data []byte) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE posts SET owner_id = ?, data = ?, updated_at = ? WHERE id = ?`,
			p.OwnerID, data, formatTime(p.UpdatedAt), p.ID)
		return err
	})
}

// DeletePost removes a post. Returns store.ErrPostNotFound if it does not exist.
func (s *Store) DeletePost(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrPostNotFound
	}
	return nil
}
