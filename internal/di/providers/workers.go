package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/cinetag/cinetag-server/internal/logger"
	"github.com/cinetag/cinetag-server/internal/media/images"
	"github.com/cinetag/cinetag-server/internal/service"
)

// ImageJanitorHandle wraps the stale image janitor with shutdown capability.
type ImageJanitorHandle struct {
	*images.Janitor
}

// Shutdown implements do.Shutdownable.
func (h *ImageJanitorHandle) Shutdown() error {
	return h.Janitor.Shutdown()
}

// ProvideImageJanitor provides the worker that deletes replaced posters.
func ProvideImageJanitor(i do.Injector) (*ImageJanitorHandle, error) {
	bus := do.MustInvoke[*EventBusHandle](i)
	objects := do.MustInvoke[*ObjectStoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	janitor := images.NewJanitor(bus.Bus, objects.ObjectStore, log.Component("janitor"))
	if err := janitor.Start(context.Background()); err != nil {
		return nil, err
	}

	return &ImageJanitorHandle{Janitor: janitor}, nil
}

// StartupAudit runs one read-only cross-reference audit in the background
// after boot and logs what it found.
type StartupAudit struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Shutdown implements do.Shutdownable.
func (a *StartupAudit) Shutdown() error {
	a.cancel()
	<-a.done
	return nil
}

// ProvideStartupAudit provides the startup audit job.
func ProvideStartupAudit(i do.Injector) (*StartupAudit, error) {
	auditService := do.MustInvoke[*service.AuditService](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())
	job := &StartupAudit{cancel: cancel, done: make(chan struct{})}

	go func() {
		defer close(job.done)

		report, err := auditService.Run(ctx)
		if err != nil {
			if ctx.Err() == nil {
				log.Warn("Startup audit failed", "error", err)
			}
			return
		}
		if len(report.Findings) == 0 {
			log.Info("Startup audit clean", "users", report.Users, "posts", report.Posts)
			return
		}
		log.Warn("Startup audit found cross-reference drift",
			"users", report.Users,
			"posts", report.Posts,
			"findings", len(report.Findings),
			"dangling_bag", report.Count(service.FindingDanglingBag),
			"dangling_like", report.Count(service.FindingDanglingLike),
		)
	}()

	return job, nil
}
