package providers

import (
	"github.com/samber/do/v2"

	"github.com/shioriapp/shiori-server/internal/config"
	"github.com/shioriapp/shiori-server/internal/logger"
	"github.com/shioriapp/shiori-server/internal/search"
)

// SearchIndexHandle wraps the board index with shutdown capability.
type SearchIndexHandle struct {
	*search.BoardIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve board index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewBoardIndex(search.Options{
		DataPath: cfg.Data.SearchPath(),
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Info("Board index initialized", "documents", docCount)

	return &SearchIndexHandle{BoardIndex: index}, nil
}
