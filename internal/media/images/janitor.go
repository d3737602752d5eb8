package images

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/cinetag/cinetag-server/internal/events"
	"github.com/cinetag/cinetag-server/internal/metrics"
)

// Subscriber is the subscribing half of the event bus.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error)
}

// Janitor deletes images announced on the image.stale topic.
type Janitor struct {
	sub    Subscriber
	store  ObjectStore
	logger *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewJanitor creates a janitor. Call Start to begin consuming.
func NewJanitor(sub Subscriber, store ObjectStore, logger *slog.Logger) *Janitor {
	return &Janitor{sub: sub, store: store, logger: logger}
}

// Start subscribes and processes events until Shutdown or ctx is done.
func (j *Janitor) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	msgs, err := j.sub.Subscribe(ctx, events.TopicImageStale)
	if err != nil {
		cancel()
		return fmt.Errorf("subscribe %s: %w", events.TopicImageStale, err)
	}
	j.cancel = cancel

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		for msg := range msgs {
			j.handle(ctx, msg)
		}
	}()

	j.logger.Info("image janitor started")
	return nil
}

// Shutdown stops consuming and waits for the in-flight delete.
func (j *Janitor) Shutdown() error {
	if j.cancel != nil {
		j.cancel()
	}
	j.wg.Wait()
	return nil
}

// handle always acks: a failed delete leaves an orphaned object, which is
// logged and counted rather than redelivered.
func (j *Janitor) handle(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	ev, err := events.Decode[events.ImageStale](msg)
	if err != nil {
		j.logger.Error("dropping malformed image.stale event", "error", err)
		return
	}

	err = j.store.Delete(ctx, ev.Key)
	metrics.RecordImageDeleted(err)
	if err != nil {
		j.logger.Error("failed to delete stale image", "key", ev.Key, "post_id", ev.PostID, "error", err)
		return
	}
	j.logger.Info("stale image deleted", "key", ev.Key, "post_id", ev.PostID)
}
