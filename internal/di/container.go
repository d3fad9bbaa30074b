// Package di provides dependency injection configuration for the MovieKeep server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/moviekeep/moviekeep-server/internal/config"
	"github.com/moviekeep/moviekeep-server/internal/di/providers"
	"github.com/moviekeep/moviekeep-server/internal/logger"
	"github.com/moviekeep/moviekeep-server/internal/metadata"
	"github.com/moviekeep/moviekeep-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)

	// Metadata layer
	do.Provide(injector, providers.ProvideOMDbClient)
	do.Provide(injector, providers.ProvideFetchCache)

	// Business services
	do.Provide(injector, providers.ProvideUserService)
	do.Provide(injector, providers.ProvideMovieService)

	// Server
	do.Provide(injector, providers.ProvideRateLimiter)
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.OMDbClientHandle](injector)
	_ = do.MustInvoke[*metadata.Cache](injector)
	_ = do.MustInvoke[*service.UserService](injector)
	_ = do.MustInvoke[*service.MovieService](injector)
	_ = do.MustInvoke[*providers.RateLimiterHandle](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
