// Package providers contains dependency injection providers for the Shiori server.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/shioriapp/shiori-server/internal/config"
	"github.com/shioriapp/shiori-server/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("Starting Shiori Server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"data_path", cfg.Data.BasePath,
		"itunes_base_url", cfg.Catalog.ITunesBaseURL,
		"results_cache_ttl", cfg.Catalog.CacheTTL,
		"seed_file", seedSource(cfg.Catalog.SeedFile),
		"cover_worker", cfg.Catalog.CoverWorker,
	)

	return log, nil
}

func seedSource(path string) string {
	if path == "" {
		return "built-in"
	}
	return path
}
