package domain

import (
	"errors"
	"slices"
	"time"
)

// MaxTagNameLength is the maximum tag name length in characters.
const MaxTagNameLength = 50

// Tag registry errors.
var (
	ErrTagNotFound = errors.New("tag not found")
	ErrNotAuthor   = errors.New("not the tag author")
)

// Tag is a free-form label attached to a post by any user.
// Tags live inside their post and have their own reaction sets.
// Duplicate names on one post are allowed.
type Tag struct {
	CreatedAt time.Time   `json:"created_at"`
	ID        string      `json:"id"`
	TagName   string      `json:"tag_name" validate:"required,max=50"`
	AuthorID  string      `json:"author_id"`
	Likes     ReactionSet `json:"likes"`
	Unlikes   ReactionSet `json:"unlikes"`
}

// React adds userID to the tag's like or unlike set.
func (t *Tag) React(kind ReactionKind, userID string, at time.Time) error {
	return react(&t.Likes, &t.Unlikes, kind, userID, at)
}

// UndoReact removes userID from the tag's like or unlike set.
func (t *Tag) UndoReact(kind ReactionKind, userID string) error {
	return undoReact(&t.Likes, &t.Unlikes, kind, userID)
}

// AddTag prepends a tag so the newest appears first.
func (p *Post) AddTag(tag Tag) {
	p.Tags = append([]Tag{tag}, p.Tags...)
	p.Touch()
}

// FindTag returns a pointer into p.Tags, or nil.
func (p *Post) FindTag(tagID string) *Tag {
	i := p.tagIndex(tagID)
	if i < 0 {
		return nil
	}
	return &p.Tags[i]
}

// RemoveTag deletes a tag. Only its author may delete it.
func (p *Post) RemoveTag(tagID, userID string) error {
	i := p.tagIndex(tagID)
	if i < 0 {
		return ErrTagNotFound
	}
	if p.Tags[i].AuthorID != userID {
		return ErrNotAuthor
	}
	p.Tags = slices.Delete(slices.Clone(p.Tags), i, i+1)
	p.Touch()
	return nil
}

func (p *Post) tagIndex(tagID string) int {
	return slices.IndexFunc(p.Tags, func(t Tag) bool { return t.ID == tagID })
}
