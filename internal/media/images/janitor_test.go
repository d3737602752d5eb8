package images

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinetag/cinetag-server/internal/events"
)

func TestJanitor_DeletesStaleImages(t *testing.T) {
	bus := events.NewBus(testLogger())
	t.Cleanup(func() { _ = bus.Close() })

	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "old.png", []byte("x"), "image/png"))
	require.NoError(t, store.Put(ctx, "keep.png", []byte("y"), "image/png"))

	janitor := NewJanitor(bus, store, testLogger())
	require.NoError(t, janitor.Start(ctx))

	require.NoError(t, bus.Publish(ctx, events.TopicImageStale, events.ImageStale{Key: "old.png", PostID: "post-1"}))

	require.Eventually(t, func() bool { return !store.Has("old.png") }, 2*time.Second, 10*time.Millisecond)
	assert.True(t, store.Has("keep.png"))

	assert.NoError(t, janitor.Shutdown())
}
