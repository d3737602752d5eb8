// Package metrics exposes Prometheus counters and histograms for the API,
// the interaction ledger and background image cleanup.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cinetag_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// Ledger
	ReactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinetag_reactions_total",
			Help: "Mark and unmark operations by target, kind and outcome",
		},
		[]string{"target", "kind", "op", "result"}, // target: post, tag, bag, likes
	)

	PostsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinetag_posts_total",
			Help: "Post lifecycle operations",
		},
		[]string{"op"}, // create, update, delete
	)

	// Events and images
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinetag_events_published_total",
			Help: "Domain events published to the in-process bus",
		},
		[]string{"topic", "result"},
	)

	ImagesDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinetag_images_deleted_total",
			Help: "Stale images removed from the object store",
		},
		[]string{"result"},
	)
)

// RecordAPIRequest records one HTTP request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// RecordReaction records one mark or unmark attempt.
func RecordReaction(target, kind, op string, err error) {
	ReactionsTotal.WithLabelValues(target, kind, op, result(err)).Inc()
}

// RecordPostOp records a post lifecycle operation that succeeded.
func RecordPostOp(op string) {
	PostsTotal.WithLabelValues(op).Inc()
}

// RecordEventPublished records one publish attempt.
func RecordEventPublished(topic string, err error) {
	EventsPublished.WithLabelValues(topic, result(err)).Inc()
}

// RecordImageDeleted records one stale image removal.
func RecordImageDeleted(err error) {
	ImagesDeleted.WithLabelValues(result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
