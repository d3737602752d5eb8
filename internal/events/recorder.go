package events

import (
	"context"
	"sync"
)

// Recorded is one event captured by a Recorder.
type Recorded struct {
	Topic   string
	Payload any
}

// Recorder keeps every published event in memory. Tests use it in place
// of the bus.
type Recorder struct {
	mu     sync.Mutex
	events []Recorded
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Publish implements Publisher.
func (r *Recorder) Publish(_ context.Context, topic string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Recorded{Topic: topic, Payload: payload})
	return nil
}

// Topic returns the payloads published to topic, oldest first.
func (r *Recorder) Topic(topic string) []any {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []any
	for _, e := range r.events {
		if e.Topic == topic {
			out = append(out, e.Payload)
		}
	}
	return out
}
