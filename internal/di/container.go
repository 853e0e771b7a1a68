// Package di provides dependency injection configuration for the Shiori server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/shioriapp/shiori-server/internal/auth"
	"github.com/shioriapp/shiori-server/internal/config"
	"github.com/shioriapp/shiori-server/internal/di/providers"
	"github.com/shioriapp/shiori-server/internal/logger"
	"github.com/shioriapp/shiori-server/internal/media/images"
	"github.com/shioriapp/shiori-server/internal/metadata/itunes"
	"github.com/shioriapp/shiori-server/internal/service"
	"github.com/shioriapp/shiori-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)
	do.Provide(injector, providers.ProvideValidator)

	// Storage layer
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideCache)
	do.Provide(injector, providers.ProvideCoverStorage)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Catalogue layer
	do.Provide(injector, providers.ProvideITunesClient)
	do.Provide(injector, providers.ProvideCatalog)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Workers
	do.Provide(injector, providers.ProvideCoverWorker)

	// Business services
	do.Provide(injector, providers.ProvideProfileService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideLikesService)
	do.Provide(injector, providers.ProvideExploreService)

	do.Provide(injector, providers.ProvideSessionCleanupJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	for _, invoke := range []func(do.Injector) error{
		invokeAs[*config.Config],
		invokeAs[*logger.Logger],
		invokeAs[providers.AuthKey],
		invokeAs[*validation.Validator],
		invokeAs[*providers.SSEManagerHandle],
		invokeAs[*providers.StoreHandle],
		invokeAs[*providers.CacheHandle],
		invokeAs[*images.Storage],
		invokeAs[*providers.SearchIndexHandle],
		invokeAs[*itunes.Client],
		invokeAs[*providers.CatalogHandle],
		invokeAs[*auth.TokenService],
		invokeAs[*providers.CoverWorkerHandle],
		invokeAs[*service.ProfileService],
		invokeAs[*service.AuthService],
		invokeAs[*service.LikesService],
		invokeAs[*service.ExploreService],
		invokeAs[*providers.SessionCleanupJob],
		invokeAs[*providers.HTTPServerHandle],
	} {
		if err := invoke(injector); err != nil {
			return err
		}
	}
	return nil
}

func invokeAs[T any](i do.Injector) error {
	_, err := do.Invoke[T](i)
	return err
}
