// Package images stores poster images for posts and removes the ones no
// post references any more.
package images

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrObjectNotFound is returned by Get for a missing key.
	ErrObjectNotFound = errors.New("object not found")
	// ErrInvalidKey is returned for empty keys and keys with path separators.
	ErrInvalidKey = errors.New("invalid object key")
)

// ObjectStore is a flat key/value blob store.
// Delete of a missing key is not an error.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// validateKey rejects keys that could escape a directory or bucket prefix.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty: %w", ErrInvalidKey)
	}
	if strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return fmt.Errorf("%q: %w", key, ErrInvalidKey)
	}
	return nil
}
