// Package store defines the persistence interface for the CineTag server
// and its default Badger implementation.
package store

import (
	"context"

	"github.com/cinetag/cinetag-server/internal/domain"
)

// Store defines every persistence operation the services need.
//
// UpdateUser and UpdatePost run fn against the current document inside a
// single storage transaction and persist the result only if fn returns nil.
// This is the only atomicity the store provides: no transaction spans a
// user and a post.
type Store interface {
	// Lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, fn func(*domain.User) error) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)

	// Posts
	CreatePost(ctx context.Context, post *domain.Post) error
	GetPost(ctx context.Context, id string) (*domain.Post, error)
	GetPostsByIDs(ctx context.Context, ids []string) ([]*domain.Post, error)
	ListPosts(ctx context.Context) ([]*domain.Post, error)
	ListPostsByOwner(ctx context.Context, ownerID string) ([]*domain.Post, error)
	UpdatePost(ctx context.Context, id string, fn func(*domain.Post) error) (*domain.Post, error)
	DeletePost(ctx context.Context, id string) error
}
