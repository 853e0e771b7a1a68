package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/shioriapp/shiori-server/internal/api"
	"github.com/shioriapp/shiori-server/internal/config"
	"github.com/shioriapp/shiori-server/internal/logger"
	"github.com/shioriapp/shiori-server/internal/media/images"
	"github.com/shioriapp/shiori-server/internal/service"
	"github.com/shioriapp/shiori-server/internal/sse"
)

// HTTPServerHandle wraps http.Server with Shutdownable.
type HTTPServerHandle struct {
	*http.Server
	api *api.Server
}

// sseTokenVerifier adapts AuthService to the sse.TokenVerifier interface.
type sseTokenVerifier struct {
	authService *service.AuthService
}

// VerifyAccessToken implements sse.TokenVerifier.
func (v *sseTokenVerifier) VerifyAccessToken(ctx context.Context, token string) (string, error) {
	user, _, err := v.authService.VerifyAccessToken(ctx, token)
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := shutdownContext()
	defer cancel()
	err := h.Server.Shutdown(ctx)
	h.api.Close()
	return err
}

// ProvideHTTPServer provides the HTTP server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	cacheHandle := do.MustInvoke[*CacheHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	coverStorage := do.MustInvoke[*images.Storage](i)
	log := do.MustInvoke[*logger.Logger](i)

	authService := do.MustInvoke[*service.AuthService](i)

	services := &api.Services{
		Auth:    authService,
		Profile: do.MustInvoke[*service.ProfileService](i),
		Likes:   do.MustInvoke[*service.LikesService](i),
		Explore: do.MustInvoke[*service.ExploreService](i),
	}

	infra := &api.Infra{
		Cache:  cacheHandle.Cache,
		Index:  indexHandle.BoardIndex,
		Covers: coverStorage,
	}

	sseHandler := sse.NewHandler(sseHandle.Manager, &sseTokenVerifier{authService: authService}, log.Logger)

	handler := api.NewServer(storeHandle.Store, services, infra, sseHandler, sseHandle.Manager, api.Options{
		Name:               cfg.Server.Name,
		CORSOrigins:        cfg.Server.CORSOrigins,
		AuthRateLimitRPS:   cfg.Auth.RateLimitRPS,
		AuthRateLimitBurst: cfg.Auth.RateLimitBurst,
	}, log.Logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "addr", srv.Addr)

	return &HTTPServerHandle{Server: srv, api: handler}, nil
}
