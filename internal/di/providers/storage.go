package providers

import (
	"github.com/samber/do/v2"

	"github.com/shioriapp/shiori-server/internal/cache"
	"github.com/shioriapp/shiori-server/internal/config"
	"github.com/shioriapp/shiori-server/internal/logger"
	"github.com/shioriapp/shiori-server/internal/media/images"
)

// CacheHandle wraps the results cache with shutdown capability.
type CacheHandle struct {
	*cache.Cache
}

// Shutdown implements do.Shutdownable.
func (h *CacheHandle) Shutdown() error {
	return h.Close()
}

// ProvideCache provides the Badger results cache.
func ProvideCache(i do.Injector) (*CacheHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	c, err := cache.Open(cache.Options{
		Path:       cfg.Data.CachePath(),
		DefaultTTL: cfg.Catalog.CacheTTL,
		Logger:     log.Logger,
	})
	if err != nil {
		return nil, err
	}

	log.Info("Results cache initialized", "path", cfg.Data.CachePath(), "ttl", cfg.Catalog.CacheTTL)

	return &CacheHandle{Cache: c}, nil
}

// ProvideCoverStorage provides on-disk storage for downloaded covers.
func ProvideCoverStorage(i do.Injector) (*images.Storage, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return images.NewStorage(cfg.Data.BasePath)
}
