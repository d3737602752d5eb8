package domain

import (
	"errors"
	"strings"
)

// ErrUnknownList is returned for a list kind other than bag or likes.
var ErrUnknownList = errors.New("unknown user list")

// ListKind names one of the user's cross-reference lists.
type ListKind string

const (
	ListBag   ListKind = "bag"
	ListLikes ListKind = "likes"
)

// User is an account. MyBag and Likes hold post ids, newest first.
// They are denormalized and not kept in step with the posts' like sets.
type User struct {
	Document
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"password_hash,omitempty"` // Filtered from API responses
	MyBag        RefList `json:"my_bag"`
	Likes        RefList `json:"likes"`
}

// NormalizeEmail lowercases and trims an address for lookup and storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// List returns the list selected by kind.
func (u *User) List(kind ListKind) (RefList, error) {
	switch kind {
	case ListBag:
		return u.MyBag, nil
	case ListLikes:
		return u.Likes, nil
	default:
		return nil, ErrUnknownList
	}
}

// AddRef prepends postID to the selected list.
func (u *User) AddRef(kind ListKind, postID string) error {
	return u.updateList(kind, func(l RefList) (RefList, error) { return l.Mark(postID) })
}

// RemoveRef removes postID from the selected list.
func (u *User) RemoveRef(kind ListKind, postID string) error {
	return u.updateList(kind, func(l RefList) (RefList, error) { return l.Unmark(postID) })
}

func (u *User) updateList(kind ListKind, fn func(RefList) (RefList, error)) error {
	var target *RefList
	switch kind {
	case ListBag:
		target = &u.MyBag
	case ListLikes:
		target = &u.Likes
	default:
		return ErrUnknownList
	}
	next, err := fn(*target)
	if err != nil {
		return err
	}
	*target = next
	u.Touch()
	return nil
}
