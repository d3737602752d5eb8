package domain

import (
	"errors"
	"slices"
	"strings"
	"time"
)

// MaxSummaryLength is the maximum summary length in characters.
const MaxSummaryLength = 200

// ErrNotOwner is returned when a user mutates a post they do not own.
var ErrNotOwner = errors.New("not the post owner")

// Post is a content item (a movie or show) with its embedded tags and
// reaction sets.
type Post struct {
	Document
	OwnerID     string      `json:"owner_id"`
	MovieName   string      `json:"movie_name" validate:"required"`
	Summary     string      `json:"summary" validate:"required,max=200"`
	Genre       []string    `json:"genre" validate:"required,min=1,dive,required"`
	Img         string      `json:"img,omitempty"`           // Object key, empty when no image
	ImgBlurHash string      `json:"img_blurhash,omitempty"`  // Placeholder computed on upload
	Likes       ReactionSet `json:"likes"`
	Unlikes     ReactionSet `json:"unlikes"`
	Tags        []Tag       `json:"tags"` // Newest first
}

// PostPatch is a partial update. Nil fields are left unchanged.
// A non-nil empty Genre replaces the genre list and fails validation.
type PostPatch struct {
	MovieName *string
	Summary   *string
	Genre     []string
	Img       *string
}

// IsEmpty reports whether the patch changes nothing.
func (p PostPatch) IsEmpty() bool {
	return p.MovieName == nil && p.Summary == nil && p.Genre == nil && p.Img == nil
}

// IsOwnedBy reports whether userID owns the post.
func (p *Post) IsOwnedBy(userID string) bool {
	return p.OwnerID == userID
}

// Apply merges the patch field by field in the order movie name, summary,
// genre, image. It returns the previous image key when the image was replaced
// so the caller can schedule it for deletion.
func (p *Post) Apply(patch PostPatch) (staleImg string) {
	if patch.MovieName != nil {
		p.MovieName = strings.TrimSpace(*patch.MovieName)
	}
	if patch.Summary != nil {
		p.Summary = strings.TrimSpace(*patch.Summary)
	}
	if patch.Genre != nil {
		p.Genre = CleanGenre(patch.Genre)
	}
	if patch.Img != nil && *patch.Img != p.Img {
		staleImg = p.Img
		p.Img = *patch.Img
		p.ImgBlurHash = ""
	}
	p.Touch()
	return staleImg
}

// Reactions returns the set selected by kind.
func (p *Post) Reactions(kind ReactionKind) ReactionSet {
	if kind == ReactionUnlike {
		return p.Unlikes
	}
	return p.Likes
}

// React adds userID to the like or unlike set.
func (p *Post) React(kind ReactionKind, userID string, at time.Time) error {
	return react(&p.Likes, &p.Unlikes, kind, userID, at)
}

// UndoReact removes userID from the like or unlike set.
func (p *Post) UndoReact(kind ReactionKind, userID string) error {
	return undoReact(&p.Likes, &p.Unlikes, kind, userID)
}

// CleanGenre trims each label and drops empty ones.
// A single comma separated label is split.
func CleanGenre(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, g := range raw {
		for part := range strings.SplitSeq(g, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return slices.Clip(out)
}

func react(likes, unlikes *ReactionSet, kind ReactionKind, userID string, at time.Time) error {
	set, err := selectSet(likes, unlikes, kind)
	if err != nil {
		return err
	}
	next, err := set.Mark(userID, at)
	if err != nil {
		return err
	}
	*set = next
	return nil
}

func undoReact(likes, unlikes *ReactionSet, kind ReactionKind, userID string) error {
	set, err := selectSet(likes, unlikes, kind)
	if err != nil {
		return err
	}
	next, err := set.Unmark(userID)
	if err != nil {
		return err
	}
	*set = next
	return nil
}

func selectSet(likes, unlikes *ReactionSet, kind ReactionKind) (*ReactionSet, error) {
	switch kind {
	case ReactionLike:
		return likes, nil
	case ReactionUnlike:
		return unlikes, nil
	default:
		return nil, ErrUnknownReaction
	}
}
