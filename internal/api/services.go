package api

import (
	"github.com/cinetag/cinetag-server/internal/media/images"
	"github.com/cinetag/cinetag-server/internal/service"
)

// Services groups the business services the HTTP layer calls.
type Services struct {
	Auth *service.AuthService
	Post *service.PostService
	Tag  *service.TagService
	User *service.UserService
}

// Options configures the HTTP layer.
type Options struct {
	CORSOrigins           []string
	AuthRequestsPerMinute int // Per client IP, 0 disables the limit
	MetricsEnabled        bool
	MaxImageBytes         int
	Images                images.ObjectStore // Serves stored posters, nil disables the route
}
