package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cinetag/cinetag-server/internal/domain"
	"github.com/cinetag/cinetag-server/internal/metrics"
	"github.com/cinetag/cinetag-server/internal/store"
)

// UserService manages a user's profile and the bag and likes lists.
// The lists reference posts by id and are not kept in step with the
// posts themselves.
type UserService struct {
	store  store.Store
	logger *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(store store.Store, logger *slog.Logger) *UserService {
	return &UserService{
		store:  store,
		logger: logger,
	}
}

// GetUser returns a user without the password hash.
func (s *UserService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, translate(err, "get user", ledgerMessages{})
	}
	return publicUser(user), nil
}

// AddToBag prepends postID to the user's bag.
func (s *UserService) AddToBag(ctx context.Context, userID, postID string) (domain.RefList, error) {
	return s.toggle(ctx, userID, postID, domain.ListBag, "mark")
}

// RemoveFromBag removes postID from the user's bag.
func (s *UserService) RemoveFromBag(ctx context.Context, userID, postID string) (domain.RefList, error) {
	return s.toggle(ctx, userID, postID, domain.ListBag, "unmark")
}

// AddToLikes prepends postID to the user's likes.
func (s *UserService) AddToLikes(ctx context.Context, userID, postID string) (domain.RefList, error) {
	return s.toggle(ctx, userID, postID, domain.ListLikes, "mark")
}

// RemoveFromLikes removes postID from the user's likes.
func (s *UserService) RemoveFromLikes(ctx context.Context, userID, postID string) (domain.RefList, error) {
	return s.toggle(ctx, userID, postID, domain.ListLikes, "unmark")
}

// Bag returns the posts in the user's bag in bag order. Ids of deleted
// posts are skipped.
func (s *UserService) Bag(ctx context.Context, userID string) ([]*domain.Post, error) {
	return s.expand(ctx, userID, domain.ListBag)
}

// LikedPosts returns the posts in the user's likes list in list order.
func (s *UserService) LikedPosts(ctx context.Context, userID string) ([]*domain.Post, error) {
	return s.expand(ctx, userID, domain.ListLikes)
}

func (s *UserService) expand(ctx context.Context, userID string, kind domain.ListKind) ([]*domain.Post, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, translate(err, "get user", ledgerMessages{})
	}

	ids, err := user.List(kind)
	if err != nil {
		return nil, translate(err, "", ledgerMessages{})
	}

	posts, err := s.store.GetPostsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load %s posts: %w", kind, err)
	}
	return posts, nil
}

func (s *UserService) toggle(ctx context.Context, userID, postID string, kind domain.ListKind, op string) (domain.RefList, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	user, err := s.store.UpdateUser(ctx, userID, func(u *domain.User) error {
		if op == "mark" {
			return u.AddRef(kind, postID)
		}
		return u.RemoveRef(kind, postID)
	})
	metrics.RecordReaction(string(kind), "", op, err)
	if err != nil {
		return nil, translate(err, op+" "+string(kind), listMessages(kind))
	}

	s.logger.Debug("user list changed",
		"user_id", userID,
		"post_id", postID,
		"list", kind,
		"op", op,
	)

	list, _ := user.List(kind)
	return list, nil
}

// publicUser returns a copy of u that is safe to send to clients.
func publicUser(u *domain.User) *domain.User {
	out := *u
	out.PasswordHash = ""
	return &out
}
