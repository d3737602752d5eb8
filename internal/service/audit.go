package service

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/cinetag/cinetag-server/internal/domain"
	"github.com/cinetag/cinetag-server/internal/store"
)

// FindingKind classifies a cross-reference inconsistency.
type FindingKind string

const (
	// A user's bag holds the id of a post that no longer exists.
	FindingDanglingBag FindingKind = "dangling_bag"
	// A user's likes list holds the id of a post that no longer exists.
	FindingDanglingLike FindingKind = "dangling_like"
	// The user lists the post as liked but is not in the post's like set.
	FindingLikeNotOnPost FindingKind = "like_not_on_post"
	// The post's like set holds the user but the user's likes list does not.
	FindingLikeNotOnUser FindingKind = "like_not_on_user"
	// A post or tag reaction names a user that does not exist.
	FindingUnknownReactor FindingKind = "unknown_reactor"
)

// Finding is one inconsistency between users and posts.
type Finding struct {
	Kind   FindingKind `json:"kind"`
	UserID string      `json:"user_id"`
	PostID string      `json:"post_id"`
	TagID  string      `json:"tag_id,omitempty"`
}

// AuditReport summarizes an audit run.
type AuditReport struct {
	Users    int       `json:"users"`
	Posts    int       `json:"posts"`
	Findings []Finding `json:"findings"`
}

// Count returns the number of findings of kind.
func (r *AuditReport) Count(kind FindingKind) int {
	n := 0
	for _, f := range r.Findings {
		if f.Kind == kind {
			n++
		}
	}
	return n
}

// AuditService reports drift between the users' denormalized lists and the
// posts they reference. It never modifies data.
type AuditService struct {
	store  store.Store
	logger *slog.Logger
}

// NewAuditService creates a new audit service.
func NewAuditService(store store.Store, logger *slog.Logger) *AuditService {
	return &AuditService{
		store:  store,
		logger: logger,
	}
}

// Run loads every user and post and returns the findings sorted by kind,
// user and post.
func (s *AuditService) Run(ctx context.Context) (*AuditReport, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	posts, err := s.store.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	postsByID := make(map[string]*domain.Post, len(posts))
	for _, p := range posts {
		postsByID[p.ID] = p
	}
	usersByID := make(map[string]*domain.User, len(users))
	for _, u := range users {
		usersByID[u.ID] = u
	}

	report := &AuditReport{Users: len(users), Posts: len(posts), Findings: []Finding{}}
	add := func(kind FindingKind, userID, postID, tagID string) {
		report.Findings = append(report.Findings, Finding{Kind: kind, UserID: userID, PostID: postID, TagID: tagID})
	}

	for _, u := range users {
		for _, postID := range u.MyBag {
			if _, ok := postsByID[postID]; !ok {
				add(FindingDanglingBag, u.ID, postID, "")
			}
		}
		for _, postID := range u.Likes {
			post, ok := postsByID[postID]
			switch {
			case !ok:
				add(FindingDanglingLike, u.ID, postID, "")
			case !post.Likes.Has(u.ID):
				add(FindingLikeNotOnPost, u.ID, postID, "")
			}
		}
	}

	for _, p := range posts {
		for _, r := range p.Likes {
			user, ok := usersByID[r.UserID]
			switch {
			case !ok:
				add(FindingUnknownReactor, r.UserID, p.ID, "")
			case !user.Likes.Has(p.ID):
				add(FindingLikeNotOnUser, r.UserID, p.ID, "")
			}
		}
		for _, r := range p.Unlikes {
			if _, ok := usersByID[r.UserID]; !ok {
				add(FindingUnknownReactor, r.UserID, p.ID, "")
			}
		}
		for _, t := range p.Tags {
			for _, r := range slices.Concat(t.Likes, t.Unlikes) {
				if _, ok := usersByID[r.UserID]; !ok {
					add(FindingUnknownReactor, r.UserID, p.ID, t.ID)
				}
			}
		}
	}

	slices.SortFunc(report.Findings, func(a, b Finding) int {
		return cmp.Or(
			cmp.Compare(a.Kind, b.Kind),
			cmp.Compare(a.UserID, b.UserID),
			cmp.Compare(a.PostID, b.PostID),
			cmp.Compare(a.TagID, b.TagID),
		)
	})

	s.logger.Info("audit complete",
		"users", report.Users,
		"posts", report.Posts,
		"findings", len(report.Findings),
	)

	return report, nil
}
