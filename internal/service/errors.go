package service

import (
	"errors"
	"fmt"

	"github.com/cinetag/cinetag-server/internal/domain"
	domainerrors "github.com/cinetag/cinetag-server/internal/errors"
	"github.com/cinetag/cinetag-server/internal/store"
)

// errUnchanged aborts an update function without writing.
var errUnchanged = errors.New("document unchanged")

// ledgerMessages names the conflict in the words the API returns.
type ledgerMessages struct {
	already string
	not     string
}

// translate maps domain and store errors to coded errors. Errors that are
// already coded pass through; anything else is wrapped with op.
func translate(err error, op string, msgs ledgerMessages) error {
	var coded *domainerrors.Error
	var storeErr *store.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &coded):
		return coded
	case errors.Is(err, domain.ErrAlreadyMarked):
		return domainerrors.AlreadyMarked(msgs.already)
	case errors.Is(err, domain.ErrNotMarked):
		return domainerrors.NotMarked(msgs.not)
	case errors.Is(err, domain.ErrUnknownReaction):
		return domainerrors.Validation(err.Error())
	case errors.Is(err, domain.ErrUnknownList):
		return domainerrors.Validation(err.Error())
	case errors.Is(err, domain.ErrTagNotFound):
		return domainerrors.NotFound("tag not found")
	case errors.Is(err, domain.ErrNotAuthor):
		return domainerrors.Forbidden("only the tag author can delete this tag")
	case errors.Is(err, domain.ErrNotOwner):
		return domainerrors.Forbidden("only the owner can modify this post")
	case errors.As(err, &storeErr) && errors.Is(storeErr, store.ErrNotFound):
		return domainerrors.NotFound(storeErr.Message)
	case errors.As(err, &storeErr) && errors.Is(storeErr, store.ErrAlreadyExists):
		return domainerrors.AlreadyExists(storeErr.Message)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func reactionMessages(target string, kind domain.ReactionKind) ledgerMessages {
	return ledgerMessages{
		already: fmt.Sprintf("%s already %sd", target, kind),
		not:     fmt.Sprintf("%s has not been %sd", target, kind),
	}
}

func listMessages(kind domain.ListKind) ledgerMessages {
	if kind == domain.ListBag {
		return ledgerMessages{already: "already added to bag", not: "never added to bag"}
	}
	return ledgerMessages{already: "already added to likes", not: "never added to likes"}
}
