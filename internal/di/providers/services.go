package providers

import (
	"github.com/samber/do/v2"

	"github.com/moviekeep/moviekeep-server/internal/logger"
	"github.com/moviekeep/moviekeep-server/internal/metadata"
	"github.com/moviekeep/moviekeep-server/internal/service"
)

// ProvideUserService provides the user service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUserService(storeHandle.Store, log.Logger), nil
}

// ProvideMovieService provides the movie service.
func ProvideMovieService(i do.Injector) (*service.MovieService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cache := do.MustInvoke[*metadata.Cache](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMovieService(storeHandle.Store, cache, log.Logger), nil
}
