// Package di provides dependency injection configuration for the CineTag server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/cinetag/cinetag-server/internal/auth"
	"github.com/cinetag/cinetag-server/internal/config"
	"github.com/cinetag/cinetag-server/internal/di/providers"
	"github.com/cinetag/cinetag-server/internal/logger"
	"github.com/cinetag/cinetag-server/internal/media/images"
	"github.com/cinetag/cinetag-server/internal/service"
	"github.com/cinetag/cinetag-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)
	do.Provide(injector, providers.ProvideValidator)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Storage layer
	do.Provide(injector, providers.ProvideObjectStore)
	do.Provide(injector, providers.ProvideImageProcessor)
	do.Provide(injector, providers.ProvideEventBus)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)
	do.Provide(injector, providers.ProvideLoginLimiter)

	// Business services
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvidePostService)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideUserService)
	do.Provide(injector, providers.ProvideAuditService)

	// Workers
	do.Provide(injector, providers.ProvideImageJanitor)
	do.Provide(injector, providers.ProvideStartupAudit)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and starts the workers and server.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.ObjectStoreHandle](injector)
	_ = do.MustInvoke[*images.Processor](injector)
	_ = do.MustInvoke[*providers.EventBusHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)
	_ = do.MustInvoke[*providers.LoginLimiterHandle](injector)

	// Business services
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.PostService](injector)
	_ = do.MustInvoke[*service.TagService](injector)
	_ = do.MustInvoke[*service.UserService](injector)
	_ = do.MustInvoke[*service.AuditService](injector)

	// Workers
	_ = do.MustInvoke[*providers.ImageJanitorHandle](injector)
	_ = do.MustInvoke[*providers.StartupAudit](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
