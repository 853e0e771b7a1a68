package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/shioriapp/shiori-server/internal/catalog"
	"github.com/shioriapp/shiori-server/internal/config"
	"github.com/shioriapp/shiori-server/internal/logger"
	"github.com/shioriapp/shiori-server/internal/metadata/itunes"
	"github.com/shioriapp/shiori-server/internal/sse"
)

// ProvideITunesClient provides the iTunes Search API client.
func ProvideITunesClient(i do.Injector) (*itunes.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return itunes.NewClient(cfg.Catalog.ITunesBaseURL, log.Logger), nil
}

// CatalogHandle wraps the featured catalogue and its file watcher.
type CatalogHandle struct {
	*catalog.Catalog
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *CatalogHandle) Shutdown() error {
	h.cancel()
	return h.Close()
}

// ProvideCatalog loads the curated seed catalogue and reloads it when the
// file changes, telling connected clients about each reload.
func ProvideCatalog(i do.Injector) (*CatalogHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)

	c := catalog.New(cfg.Catalog.SeedFile, log.Logger)
	if err := c.Load(); err != nil {
		return nil, err
	}

	c.OnReload(func(books int) {
		sseHandle.Emit(sse.NewCatalogReloadedEvent(books))
	})

	ctx, cancel := context.WithCancel(context.Background())
	if err := c.Watch(ctx); err != nil {
		log.Warn("Seed catalogue watch unavailable, reloads disabled", "error", err)
	}

	return &CatalogHandle{Catalog: c, cancel: cancel}, nil
}
