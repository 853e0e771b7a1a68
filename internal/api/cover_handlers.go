package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/shioriapp/shiori-server/internal/http/response"
	"github.com/shioriapp/shiori-server/internal/media/images"
)

// CacheOneDay is the Cache-Control value for cover images.
const CacheOneDay = "public, max-age=86400"

func (s *Server) registerCoverRoutes() {
	// Direct chi route for cover streaming
	s.router.Get("/covers/{id}", s.handleServeCover)
}

func (s *Server) handleServeCover(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSuffix(chi.URLParam(r, "id"), ".jpg")
	if !images.ValidID(id) {
		response.BadRequest(w, "invalid cover id", s.logger)
		return
	}
	if s.infra.Covers == nil || !s.infra.Covers.Exists(id) {
		response.NotFound(w, "cover not found", s.logger)
		return
	}

	etag, err := s.infra.Covers.Hash(id)
	if err != nil {
		response.NotFound(w, "cover not found", s.logger)
		return
	}
	etag = `"` + etag + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", CacheOneDay)

	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	data, err := s.infra.Covers.Get(id)
	if err != nil {
		response.NotFound(w, "cover not found", s.logger)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		s.logger.Debug("cover write failed", "id", id, "error", err)
	}
}
