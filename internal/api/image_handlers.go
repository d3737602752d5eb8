package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/cinetag/cinetag-server/internal/errors"
	"github.com/cinetag/cinetag-server/internal/media/images"
)

func (s *Server) registerImageRoutes() {
	if s.opts.Images == nil {
		return
	}

	huma.Register(s.api, huma.Operation{
		OperationID: "getImage",
		Method:      http.MethodGet,
		Path:        "/api/v1/images/{key}",
		Summary:     "Get poster",
		Description: "Returns a stored poster by its object key",
		Tags:        []string{"Images"},
	}, s.handleGetImage)
}

// GetImageInput contains parameters for fetching a poster.
type GetImageInput struct {
	Key string `path:"key" doc:"Object key from a post's img field"`
}

// ImageOutput is a raw image body. It bypasses the JSON envelope.
type ImageOutput struct {
	ContentType  string `header:"Content-Type"`
	CacheControl string `header:"Cache-Control"`
	Body         []byte
}

func (s *Server) handleGetImage(ctx context.Context, input *GetImageInput) (*ImageOutput, error) {
	data, err := s.opts.Images.Get(ctx, input.Key)
	if err != nil {
		if errors.Is(err, images.ErrObjectNotFound) || errors.Is(err, images.ErrInvalidKey) {
			return nil, domainerrors.NotFound("image not found")
		}
		return nil, err
	}

	// Every upload gets a fresh key, so a key never changes content.
	return &ImageOutput{
		ContentType:  http.DetectContentType(data),
		CacheControl: "public, max-age=31536000, immutable",
		Body:         data,
	}, nil
}
