package domain

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// Ledger errors. Services translate these into coded API errors.
var (
	ErrAlreadyMarked   = errors.New("already marked")
	ErrNotMarked       = errors.New("not marked")
	ErrUnknownReaction = errors.New("unknown reaction kind")
)

// ReactionKind selects which of the two reaction sets an operation targets.
type ReactionKind string

const (
	ReactionLike   ReactionKind = "like"
	ReactionUnlike ReactionKind = "unlike"
)

// ParseReactionKind parses "like" or "unlike".
func ParseReactionKind(s string) (ReactionKind, error) {
	switch k := ReactionKind(s); k {
	case ReactionLike, ReactionUnlike:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownReaction, s)
	}
}

// MarkState is the membership of one user in one set.
type MarkState int

const (
	StateUnmarked MarkState = iota
	StateMarked
)

func (s MarkState) String() string {
	if s == StateMarked {
		return "marked"
	}
	return "unmarked"
}

// Reaction records that a user is a member of a like or unlike set.
type Reaction struct {
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `json:"user_id"`
}

// ReactionSet is an ordered set of reactions, newest first.
// A user appears at most once.
type ReactionSet []Reaction

// State reports whether userID is in the set.
func (s ReactionSet) State(userID string) MarkState {
	if s.index(userID) >= 0 {
		return StateMarked
	}
	return StateUnmarked
}

// Has reports whether userID is in the set.
func (s ReactionSet) Has(userID string) bool {
	return s.index(userID) >= 0
}

// Count returns the set cardinality.
func (s ReactionSet) Count() int {
	return len(s)
}

// UserIDs returns the member ids in set order.
func (s ReactionSet) UserIDs() []string {
	ids := make([]string, len(s))
	for i, r := range s {
		ids[i] = r.UserID
	}
	return ids
}

// Mark prepends userID. It returns ErrAlreadyMarked if the user is present.
// The receiver is never modified.
func (s ReactionSet) Mark(userID string, at time.Time) (ReactionSet, error) {
	if s.Has(userID) {
		return s, ErrAlreadyMarked
	}
	out := make(ReactionSet, 0, len(s)+1)
	out = append(out, Reaction{UserID: userID, CreatedAt: at})
	return append(out, s...), nil
}

// Unmark removes userID. It returns ErrNotMarked if the user is absent.
// The receiver is never modified.
func (s ReactionSet) Unmark(userID string) (ReactionSet, error) {
	i := s.index(userID)
	if i < 0 {
		return s, ErrNotMarked
	}
	return slices.Delete(slices.Clone(s), i, i+1), nil
}

func (s ReactionSet) index(userID string) int {
	return slices.IndexFunc(s, func(r Reaction) bool { return r.UserID == userID })
}

// RefList is an ordered set of document ids, newest first. It backs the
// user's bag and likes lists and follows the same mark/unmark contract as
// ReactionSet.
type RefList []string

// Has reports whether id is in the list.
func (l RefList) Has(id string) bool {
	return slices.Contains(l, id)
}

// Mark prepends id. It returns ErrAlreadyMarked if id is present.
func (l RefList) Mark(id string) (RefList, error) {
	if l.Has(id) {
		return l, ErrAlreadyMarked
	}
	out := make(RefList, 0, len(l)+1)
	out = append(out, id)
	return append(out, l...), nil
}

// Unmark removes id. It returns ErrNotMarked if id is absent.
func (l RefList) Unmark(id string) (RefList, error) {
	i := slices.Index(l, id)
	if i < 0 {
		return l, ErrNotMarked
	}
	return slices.Delete(slices.Clone(l), i, i+1), nil
}
