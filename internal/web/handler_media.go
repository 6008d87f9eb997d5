package web

import (
	"errors"
	"io"
	"net/http"

	"github.com/edulife/edulife-admin/internal/imagecache"
)

// handleMedia serves a remote backend image from the local media cache.
func (s *Server) handleMedia(w http.ResponseWriter, r *http.Request) {
	src := r.URL.Query().Get("src")
	if s.media == nil || src == "" {
		http.NotFound(w, r)
		return
	}

	reader, mimeType, err := s.media.Open(r.Context(), src)
	switch {
	case errors.Is(err, imagecache.ErrHostNotAllowed):
		http.Error(w, "image host not allowed", http.StatusForbidden)
		return
	case errors.Is(err, imagecache.ErrNotImage):
		http.Error(w, "unsupported image format", http.StatusUnsupportedMediaType)
		return
	case err != nil:
		s.logger.Warn("fetch media failed", "src", src, "error", err)
		http.Error(w, "failed to fetch image", http.StatusBadGateway)
		return
	}
	defer closeWithLog(reader, "media reader", s.logger)

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "private, max-age=86400")
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write media failed", "src", src, "error", err)
	}
}
