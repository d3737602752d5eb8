package images

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	domainerrors "github.com/cinetag/cinetag-server/internal/errors"
	"github.com/cinetag/cinetag-server/internal/id"
)

// DefaultMaxBytes is the upload limit when none is configured (3 MiB).
const DefaultMaxBytes = 3 << 20

// allowedTypes maps sniffed content types to the stored file extension.
var allowedTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
}

var allowedExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// Upload describes a stored poster.
type Upload struct {
	Key         string
	ContentType string
	BlurHash    string
	Size        int
}

// Processor validates uploaded posters and writes them to an ObjectStore.
type Processor struct {
	store    ObjectStore
	maxBytes int
	logger   *slog.Logger
}

// NewProcessor creates a Processor. maxBytes <= 0 means DefaultMaxBytes.
func NewProcessor(store ObjectStore, maxBytes int, logger *slog.Logger) *Processor {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Processor{store: store, maxBytes: maxBytes, logger: logger}
}

// MaxBytes returns the upload limit.
func (p *Processor) MaxBytes() int {
	return p.maxBytes
}

// Save validates data, stores it under a fresh key and returns the upload.
// Only JPEG and PNG files up to MaxBytes are accepted; filename, when
// given, must carry a matching extension.
func (p *Processor) Save(ctx context.Context, filename string, data []byte) (*Upload, error) {
	if len(data) == 0 {
		return nil, domainerrors.Validation("image is empty")
	}
	if len(data) > p.maxBytes {
		return nil, domainerrors.Validationf("image exceeds %d bytes", p.maxBytes)
	}
	if filename != "" && !allowedExts[strings.ToLower(filepath.Ext(filename))] {
		return nil, domainerrors.Validation("only .jpg, .jpeg and .png images are allowed")
	}

	contentType := http.DetectContentType(data)
	ext, ok := allowedTypes[contentType]
	if !ok {
		return nil, domainerrors.Validationf("unsupported image type %s", contentType)
	}

	hash, err := ComputeBlurHash(data)
	if err != nil {
		return nil, domainerrors.Validation("image could not be decoded").WithCause(err)
	}

	key := id.ObjectKey(ext)
	if err := p.store.Put(ctx, key, data, contentType); err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}

	p.logger.Debug("image stored", "key", key, "size", len(data), "content_type", contentType)

	return &Upload{Key: key, ContentType: contentType, BlurHash: hash, Size: len(data)}, nil
}

// Discard removes an image stored by Save whose post write failed.
func (p *Processor) Discard(ctx context.Context, key string) {
	if err := p.store.Delete(ctx, key); err != nil {
		p.logger.Warn("failed to discard orphaned image", "key", key, "error", err)
	}
}
