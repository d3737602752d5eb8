package images

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/cinetag/cinetag-server/internal/errors"
)

func TestProcessor_SavePNG(t *testing.T) {
	store := NewMemoryStore()
	p := NewProcessor(store, 0, testLogger())

	up, err := p.Save(context.Background(), "poster.png", pngBytes(t, 200, 100))

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(up.Key, ".png"))
	assert.Equal(t, "image/png", up.ContentType)
	assert.NotEmpty(t, up.BlurHash)
	assert.True(t, store.Has(up.Key))
}

func TestProcessor_SaveJPEGWithoutFilename(t *testing.T) {
	p := NewProcessor(NewMemoryStore(), 0, testLogger())

	up, err := p.Save(context.Background(), "", jpegBytes(t, 32, 32))

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(up.Key, ".jpg"))
}

func TestProcessor_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		data     func(t *testing.T) []byte
		maxBytes int
	}{
		{"empty", "a.png", func(*testing.T) []byte { return nil }, 0},
		{"too large", "a.png", func(t *testing.T) []byte { return pngBytes(t, 64, 64) }, 10},
		{"bad extension", "a.gif", func(t *testing.T) []byte { return pngBytes(t, 8, 8) }, 0},
		{"not an image", "a.png", func(*testing.T) []byte { return []byte("plain text, not an image") }, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			p := NewProcessor(store, tt.maxBytes, testLogger())

			_, err := p.Save(context.Background(), tt.filename, tt.data(t))

			assert.ErrorIs(t, err, domainerrors.ErrValidation)
			assert.Zero(t, store.Len())
		})
	}
}

func TestProcessor_DefaultLimit(t *testing.T) {
	assert.Equal(t, 3*1024*1024, NewProcessor(NewMemoryStore(), 0, testLogger()).MaxBytes())
}

func TestComputeBlurHash_SmallAndLarge(t *testing.T) {
	small, err := ComputeBlurHash(pngBytes(t, 10, 10))
	require.NoError(t, err)
	large, err := ComputeBlurHash(pngBytes(t, 300, 150))
	require.NoError(t, err)

	assert.NotEmpty(t, small)
	assert.NotEmpty(t, large)
}

func TestResizeForBlurHash_KeepsAspect(t *testing.T) {
	out := resizeForBlurHash(testImage(640, 320))

	assert.Equal(t, 64, out.Bounds().Dx())
	assert.Equal(t, 32, out.Bounds().Dy())
}
