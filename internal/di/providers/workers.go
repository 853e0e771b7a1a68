package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/shioriapp/shiori-server/internal/config"
	"github.com/shioriapp/shiori-server/internal/logger"
	"github.com/shioriapp/shiori-server/internal/media/covers"
	"github.com/shioriapp/shiori-server/internal/media/images"
	"github.com/shioriapp/shiori-server/internal/service"
)

// CoverWorkerHandle wraps the cover download worker. Worker is nil when
// cover downloads are disabled.
type CoverWorkerHandle struct {
	*covers.Worker
}

// Shutdown implements do.Shutdownable.
func (h *CoverWorkerHandle) Shutdown() error {
	if h.Worker != nil {
		h.Stop()
	}
	return nil
}

// ProvideCoverWorker provides the cover download worker. It is started by
// ProvideLikesService once the completion callback is wired.
func ProvideCoverWorker(i do.Injector) (*CoverWorkerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if !cfg.Catalog.CoverWorker {
		log.Info("Cover downloads disabled by configuration")
		return &CoverWorkerHandle{}, nil
	}

	storage := do.MustInvoke[*images.Storage](i)
	downloader := covers.NewDownloader(storage, log.Logger)

	return &CoverWorkerHandle{
		Worker: covers.NewWorker(downloader, nil, log.Logger, covers.WorkerOptions{}),
	}, nil
}

// SessionCleanupJob runs periodic session cleanup.
type SessionCleanupJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *SessionCleanupJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideSessionCleanupJob provides the periodic session cleanup job.
func ProvideSessionCleanupJob(i do.Injector) (*SessionCleanupJob, error) {
	authService := do.MustInvoke[*service.AuthService](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	cleanup := func(initial bool) {
		count, err := authService.DeleteExpiredSessions(ctx)
		switch {
		case err != nil:
			log.Warn("Session cleanup failed", "initial", initial, "error", err)
		case count > 0:
			log.Info("Session cleanup completed", "initial", initial, "deleted", count)
		}
	}

	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		cleanup(true)

		for {
			select {
			case <-ticker.C:
				cleanup(false)
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Session cleanup job started")

	return &SessionCleanupJob{cancel: cancel}, nil
}
