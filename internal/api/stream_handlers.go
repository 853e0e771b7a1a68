package api

import (
	"net/http"

	domainerrors "github.com/shioriapp/shiori-server/internal/errors"
	"github.com/shioriapp/shiori-server/internal/http/response"
)

const streamPath = "/api/v1/stream"

// registerStreamRoutes mounts the SSE stream directly on chi; huma does not
// model long-lived responses.
func (s *Server) registerStreamRoutes() {
	s.router.Get(streamPath, s.handleStream)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if s.sseHandler == nil {
		response.Error(w, http.StatusServiceUnavailable, domainerrors.CodeUpstream, "event stream not configured", nil, s.logger)
		return
	}
	s.sseHandler.ServeHTTP(w, r)
}
