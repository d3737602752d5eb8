package providers

import (
	"github.com/samber/do/v2"

	"github.com/cinetag/cinetag-server/internal/events"
	"github.com/cinetag/cinetag-server/internal/logger"
)

// EventBusHandle wraps the in-process event bus with shutdown capability.
type EventBusHandle struct {
	*events.Bus
}

// Shutdown implements do.Shutdownable.
func (h *EventBusHandle) Shutdown() error {
	return h.Close()
}

// ProvideEventBus provides the post and image event bus.
func ProvideEventBus(i do.Injector) (*EventBusHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return &EventBusHandle{Bus: events.NewBus(log.Component("events"))}, nil
}
