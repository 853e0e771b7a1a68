package providers

import (
	crand "crypto/rand"
	"math/rand/v2"

	"github.com/samber/do/v2"

	"github.com/shioriapp/shiori-server/internal/auth"
	"github.com/shioriapp/shiori-server/internal/config"
	"github.com/shioriapp/shiori-server/internal/logger"
	"github.com/shioriapp/shiori-server/internal/metadata/itunes"
	"github.com/shioriapp/shiori-server/internal/service"
	"github.com/shioriapp/shiori-server/internal/validation"
)

// ProvideValidator provides the shared request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideProfileService provides the profile service.
func ProvideProfileService(i do.Injector) (*service.ProfileService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewProfileService(storeHandle.Store, validator, sseHandle.Manager, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	profileService := do.MustInvoke[*service.ProfileService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, profileService, validator, log.Logger), nil
}

// ProvideLikesService provides the likes service and starts the cover
// worker with the service as its completion callback.
func ProvideLikesService(i do.Injector) (*service.LikesService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	profileService := do.MustInvoke[*service.ProfileService](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	workerHandle := do.MustInvoke[*CoverWorkerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	var queue service.CoverQueue
	if workerHandle.Worker != nil {
		queue = workerHandle.Worker
	}

	svc := service.NewLikesService(
		storeHandle.Store,
		indexHandle.BoardIndex,
		profileService,
		queue,
		sseHandle.Manager,
		validator,
		log.Logger,
	)

	if workerHandle.Worker != nil {
		workerHandle.SetOnComplete(svc.CoverDownloaded)
		workerHandle.Start()
	}

	return svc, nil
}

// ProvideExploreService provides the explore feed service.
func ProvideExploreService(i do.Injector) (*service.ExploreService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	client := do.MustInvoke[*itunes.Client](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	catalogHandle := do.MustInvoke[*CatalogHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		return nil, err
	}

	return service.NewExploreService(
		client,
		cacheHandle.Cache,
		catalogHandle.Catalog,
		validator,
		log.Logger,
		cfg.Catalog.CacheTTL,
		rand.NewChaCha8(seed),
	), nil
}
