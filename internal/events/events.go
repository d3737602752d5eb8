// Package events carries domain events over an in-process watermill bus.
// Publishing is fire-and-forget: a topic with no subscriber drops the event.
package events

import (
	"context"
	"time"
)

// Topics.
const (
	TopicPostCreated = "post.created"
	TopicPostUpdated = "post.updated"
	TopicPostDeleted = "post.deleted"
	TopicImageStale  = "image.stale"
)

// PostEvent is the payload of the post.* topics.
type PostEvent struct {
	At     time.Time `json:"at"`
	PostID string    `json:"post_id"`
	UserID string    `json:"user_id"`
}

// ImageStale asks the image janitor to delete an object that no post
// references any more.
type ImageStale struct {
	At     time.Time `json:"at"`
	Key    string    `json:"key"`
	PostID string    `json:"post_id"`
}

// Publisher publishes a JSON encoded payload to a topic.
type Publisher interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// NoopPublisher discards every event.
type NoopPublisher struct{}

// Publish implements Publisher.
func (NoopPublisher) Publish(context.Context, string, any) error { return nil }
