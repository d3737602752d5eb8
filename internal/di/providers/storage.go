package providers

import (
	"context"
	"fmt"

	"github.com/samber/do/v2"

	"github.com/cinetag/cinetag-server/internal/config"
	"github.com/cinetag/cinetag-server/internal/logger"
	"github.com/cinetag/cinetag-server/internal/media/images"
)

// ObjectStoreHandle holds the poster object store selected by IMAGES_BACKEND.
type ObjectStoreHandle struct {
	images.ObjectStore
}

// ProvideObjectStore provides the filesystem or S3 object store.
func ProvideObjectStore(i do.Injector) (*ObjectStoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	switch cfg.Images.Backend {
	case config.ImagesS3:
		s3Store, err := images.NewS3Store(context.Background(), images.S3Config{
			Bucket:       cfg.Images.S3Bucket,
			Region:       cfg.Images.S3Region,
			Prefix:       cfg.Images.S3Prefix,
			Endpoint:     cfg.Images.S3Endpoint,
			UsePathStyle: cfg.Images.S3Endpoint != "",
		})
		if err != nil {
			return nil, fmt.Errorf("s3 image storage: %w", err)
		}
		log.Info("Image storage initialized", "backend", "s3", "bucket", cfg.Images.S3Bucket)
		return &ObjectStoreHandle{ObjectStore: s3Store}, nil

	case config.ImagesFS:
		fsStore, err := images.NewStorage(cfg.Data.BasePath, "images")
		if err != nil {
			return nil, fmt.Errorf("image storage: %w", err)
		}
		log.Info("Image storage initialized", "backend", "fs", "path", fsStore.Path(""))
		return &ObjectStoreHandle{ObjectStore: fsStore}, nil

	default:
		return nil, fmt.Errorf("unknown images backend %q", cfg.Images.Backend)
	}
}

// ProvideImageProcessor provides the poster upload processor.
func ProvideImageProcessor(i do.Injector) (*images.Processor, error) {
	cfg := do.MustInvoke[*config.Config](i)
	objects := do.MustInvoke[*ObjectStoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return images.NewProcessor(objects.ObjectStore, int(cfg.Images.MaxBytes), log.Component("images")), nil
}
