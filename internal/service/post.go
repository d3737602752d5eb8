package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cinetag/cinetag-server/internal/domain"
	domainerrors "github.com/cinetag/cinetag-server/internal/errors"
	"github.com/cinetag/cinetag-server/internal/events"
	"github.com/cinetag/cinetag-server/internal/id"
	"github.com/cinetag/cinetag-server/internal/media/images"
	"github.com/cinetag/cinetag-server/internal/metrics"
	"github.com/cinetag/cinetag-server/internal/normalize"
	"github.com/cinetag/cinetag-server/internal/store"
	"github.com/cinetag/cinetag-server/internal/validation"
)

// PostService manages posts and the reactions on them.
type PostService struct {
	store     store.Store
	images    *images.Processor
	events    events.Publisher
	validator *validation.Validator
	logger    *slog.Logger
}

// NewPostService creates a new post service.
func NewPostService(
	store store.Store,
	images *images.Processor,
	publisher events.Publisher,
	validator *validation.Validator,
	logger *slog.Logger,
) *PostService {
	return &PostService{
		store:     store,
		images:    images,
		events:    publisher,
		validator: validator,
		logger:    logger,
	}
}

// CreatePostRequest is the input for Create. Image is optional.
type CreatePostRequest struct {
	MovieName string
	Summary   string
	Genre     []string
	ImageName string
	Image     []byte
}

// Create validates and stores a new post owned by ownerID.
// Nothing is persisted when validation fails.
func (s *PostService) Create(ctx context.Context, ownerID string, req CreatePostRequest) (*domain.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	postID, err := id.Generate(id.PrefixPost)
	if err != nil {
		return nil, fmt.Errorf("generate post ID: %w", err)
	}

	post := &domain.Post{
		Document:  domain.Document{ID: postID},
		OwnerID:   ownerID,
		MovieName: normalize.Text(req.MovieName),
		Summary:   normalize.Multiline(req.Summary),
		Genre:     domain.CleanGenre(normalize.Labels(req.Genre)),
		Likes:     domain.ReactionSet{},
		Unlikes:   domain.ReactionSet{},
		Tags:      []domain.Tag{},
	}
	post.InitTimestamps()

	if err := s.validator.Validate(post); err != nil {
		return nil, err
	}

	if len(req.Image) > 0 {
		upload, err := s.images.Save(ctx, req.ImageName, req.Image)
		if err != nil {
			return nil, err
		}
		post.Img = upload.Key
		post.ImgBlurHash = upload.BlurHash
	}

	if err := s.store.CreatePost(ctx, post); err != nil {
		if post.Img != "" {
			s.images.Discard(ctx, post.Img)
		}
		return nil, translate(err, "create post", ledgerMessages{})
	}

	metrics.RecordPostOp("create")
	s.publish(ctx, events.TopicPostCreated, events.PostEvent{At: post.CreatedAt, PostID: post.ID, UserID: ownerID})

	s.logger.Info("post created",
		"post_id", post.ID,
		"owner_id", ownerID,
		"has_image", post.Img != "",
	)

	return post, nil
}

// Get returns a post by id.
func (s *PostService) Get(ctx context.Context, postID string) (*domain.Post, error) {
	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, translate(err, "get post", ledgerMessages{})
	}
	return post, nil
}

// List returns every post, newest first.
func (s *PostService) List(ctx context.Context) ([]*domain.Post, error) {
	posts, err := s.store.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// ListByOwner returns the posts created by ownerID, newest first.
func (s *PostService) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Post, error) {
	posts, err := s.store.ListPostsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list posts by owner: %w", err)
	}
	return posts, nil
}

// Update applies patch to a post owned by editorID. The merged post is
// validated before it is written. A replaced image is scheduled for deletion.
func (s *PostService) Update(ctx context.Context, postID, editorID string, patch domain.PostPatch) (*domain.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	patch = normalizePatch(patch)

	var stale string
	post, err := s.store.UpdatePost(ctx, postID, func(p *domain.Post) error {
		if !p.IsOwnedBy(editorID) {
			return domain.ErrNotOwner
		}
		stale = p.Apply(patch)
		return s.validator.Validate(p)
	})
	if err != nil {
		return nil, translate(err, "update post", ledgerMessages{})
	}

	s.afterUpdate(ctx, post, editorID, stale)
	return post, nil
}

// SetImage stores a new poster for a post owned by editorID and schedules
// the previous one for deletion.
func (s *PostService) SetImage(ctx context.Context, postID, editorID, filename string, data []byte) (*domain.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Fail before storing anything the post could never reference.
	current, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return nil, translate(err, "get post", ledgerMessages{})
	}
	if !current.IsOwnedBy(editorID) {
		return nil, translate(domain.ErrNotOwner, "", ledgerMessages{})
	}

	upload, err := s.images.Save(ctx, filename, data)
	if err != nil {
		return nil, err
	}

	var stale string
	post, err := s.store.UpdatePost(ctx, postID, func(p *domain.Post) error {
		if !p.IsOwnedBy(editorID) {
			return domain.ErrNotOwner
		}
		stale = p.Apply(domain.PostPatch{Img: &upload.Key})
		p.ImgBlurHash = upload.BlurHash
		return nil
	})
	if err != nil {
		s.images.Discard(ctx, upload.Key)
		return nil, translate(err, "set post image", ledgerMessages{})
	}

	s.afterUpdate(ctx, post, editorID, stale)
	return post, nil
}

func (s *PostService) afterUpdate(ctx context.Context, post *domain.Post, editorID, stale string) {
	metrics.RecordPostOp("update")
	s.publish(ctx, events.TopicPostUpdated, events.PostEvent{At: post.UpdatedAt, PostID: post.ID, UserID: editorID})
	if stale != "" {
		s.publish(ctx, events.TopicImageStale, events.ImageStale{At: post.UpdatedAt, Key: stale, PostID: post.ID})
	}

	s.logger.Info("post updated",
		"post_id", post.ID,
		"user_id", editorID,
		"image_replaced", stale != "",
	)
}

// Delete removes a post owned by userID, schedules its image for deletion
// and drops it from the acting user's bag and likes. Other users' lists
// keep their references.
func (s *PostService) Delete(ctx context.Context, postID, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	post, err := s.store.GetPost(ctx, postID)
	if err != nil {
		return translate(err, "get post", ledgerMessages{})
	}
	if !post.IsOwnedBy(userID) {
		return domainerrors.Forbidden("only the owner can delete this post")
	}

	if err := s.store.DeletePost(ctx, postID); err != nil {
		return translate(err, "delete post", ledgerMessages{})
	}

	now := time.Now()
	metrics.RecordPostOp("delete")
	s.publish(ctx, events.TopicPostDeleted, events.PostEvent{At: now, PostID: postID, UserID: userID})
	if post.Img != "" {
		s.publish(ctx, events.TopicImageStale, events.ImageStale{At: now, Key: post.Img, PostID: postID})
	}

	s.dropOwnReferences(ctx, postID, userID)

	s.logger.Info("post deleted", "post_id", postID, "user_id", userID)
	return nil
}

// dropOwnReferences is a separate write after the post is gone. A failure
// here leaves a dangling id in the user's lists and is only logged.
func (s *PostService) dropOwnReferences(ctx context.Context, postID, userID string) {
	_, err := s.store.UpdateUser(ctx, userID, func(u *domain.User) error {
		changed := false
		for _, kind := range []domain.ListKind{domain.ListBag, domain.ListLikes} {
			if err := u.RemoveRef(kind, postID); err == nil {
				changed = true
			}
		}
		if !changed {
			return errUnchanged
		}
		return nil
	})
	if err != nil && !errors.Is(err, errUnchanged) {
		s.logger.Warn("failed to remove deleted post from user lists",
			"post_id", postID,
			"user_id", userID,
			"error", err,
		)
	}
}

// React adds userID to the post's like or unlike set and returns the
// updated set.
func (s *PostService) React(ctx context.Context, postID, userID string, kind domain.ReactionKind) (domain.ReactionSet, error) {
	return s.toggle(ctx, postID, userID, kind, "mark", func(p *domain.Post) error {
		return p.React(kind, userID, time.Now())
	})
}

// UndoReact removes userID from the post's like or unlike set and returns
// the updated set.
func (s *PostService) UndoReact(ctx context.Context, postID, userID string, kind domain.ReactionKind) (domain.ReactionSet, error) {
	return s.toggle(ctx, postID, userID, kind, "unmark", func(p *domain.Post) error {
		return p.UndoReact(kind, userID)
	})
}

func (s *PostService) toggle(
	ctx context.Context,
	postID, userID string,
	kind domain.ReactionKind,
	op string,
	fn func(*domain.Post) error,
) (domain.ReactionSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	post, err := s.store.UpdatePost(ctx, postID, func(p *domain.Post) error {
		if err := fn(p); err != nil {
			return err
		}
		p.Touch()
		return nil
	})
	metrics.RecordReaction("post", string(kind), op, err)
	if err != nil {
		return nil, translate(err, op+" post reaction", reactionMessages("post", kind))
	}

	s.logger.Debug("post reaction changed",
		"post_id", postID,
		"user_id", userID,
		"kind", kind,
		"op", op,
	)

	return post.Reactions(kind), nil
}

func (s *PostService) publish(ctx context.Context, topic string, payload any) {
	if err := s.events.Publish(ctx, topic, payload); err != nil {
		s.logger.Warn("failed to publish event", "topic", topic, "error", err)
	}
}

func normalizePatch(patch domain.PostPatch) domain.PostPatch {
	if patch.MovieName != nil {
		v := normalize.Text(*patch.MovieName)
		patch.MovieName = &v
	}
	if patch.Summary != nil {
		v := normalize.Multiline(*patch.Summary)
		patch.Summary = &v
	}
	if patch.Genre != nil {
		patch.Genre = normalize.Labels(patch.Genre)
	}
	return patch
}
