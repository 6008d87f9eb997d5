package web

import (
	"errors"
	"net/http"

	"github.com/edulife/edulife-admin/internal/auth"
	"github.com/edulife/edulife-admin/internal/domain"
	"github.com/edulife/edulife-admin/internal/service"
)

const galleryPath = "/gallery"

func (s *Server) handleGallery(w http.ResponseWriter, r *http.Request) {
	photos, err := s.svc.Gallery.List(r.Context(), auth.SessionFrom(r.Context()))
	if s.unauthorized(w, r, err) {
		return
	}
	if err != nil {
		s.logger.Error("list gallery failed", "error", err)
	}

	if err := s.renderPage(w, http.StatusOK,
		s.pageData(w, r, "Gallery", "gallery", map[string]any{"Photos": photos, "Error": err != nil}),
		"base.html", "pages/gallery.html", "partials/gallery_grid.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleUploadGallery(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	files, err := s.formImages(r, "files")
	if err != nil {
		s.finish(w, r, galleryPath, failure(uploadError(err)))
		return
	}
	if len(files) == 0 {
		s.finish(w, r, galleryPath, failure("Please select at least one image"))
		return
	}

	msg, err := s.svc.Gallery.Upload(r.Context(), auth.SessionFrom(r.Context()), files)
	if s.unauthorized(w, r, err) {
		return
	}
	if err != nil {
		s.logger.Error("upload gallery failed", "files", len(files), "error", err)
		s.finish(w, r, galleryPath, errorNotice(err))
		return
	}
	s.finish(w, r, galleryPath, success(msg))
}

// handleMovePhoto swaps a photo with its neighbour. htmx requests get the
// re-rendered grid in the resulting order with a toast; others are
// redirected back to the gallery.
func (s *Server) handleMovePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid photo id", http.StatusBadRequest)
		return
	}
	dir := service.Direction(r.URL.Query().Get("dir"))
	if dir != service.MoveLeft && dir != service.MoveRight {
		http.Error(w, "dir must be left or right", http.StatusBadRequest)
		return
	}

	res, err := s.svc.Gallery.Move(r.Context(), auth.SessionFrom(r.Context()), id, dir)
	if s.unauthorized(w, r, err) {
		return
	}
	if errors.Is(err, service.ErrNotFound) {
		http.NotFound(w, r)
		return
	}

	var n *Notice
	switch {
	case errors.Is(err, service.ErrMoveOutOfBounds):
		n = failure("Photo cannot move further")
	case err != nil:
		s.logger.Error("reorder gallery failed", "photo_id", id, "dir", dir, "error", err)
		n = errorNotice(err)
	default:
		n = success(res.Message)
	}

	if !isHTMX(r) {
		s.finish(w, r, galleryPath, n)
		return
	}
	toast(w, n)
	s.renderGrid(w, res.Photos, res.Photos == nil && err != nil)
}

// handleDeletePhoto removes a photo. htmx requests get the refreshed grid
// with a toast; others are redirected back to the gallery.
func (s *Server) handleDeletePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid photo id", http.StatusBadRequest)
		return
	}
	sess := auth.SessionFrom(r.Context())
	msg, err := s.svc.Gallery.Delete(r.Context(), sess, id)
	if s.unauthorized(w, r, err) {
		return
	}

	n := success(msg)
	if err != nil {
		s.logger.Error("delete photo failed", "photo_id", id, "error", err)
		n = deleteFailure(err, "Photo")
	}
	if !isHTMX(r) {
		s.finish(w, r, galleryPath, n)
		return
	}

	toast(w, n)
	photos, err := s.svc.Gallery.List(r.Context(), sess)
	if s.unauthorized(w, r, err) {
		return
	}
	if err != nil {
		s.logger.Error("list gallery failed", "error", err)
	}
	s.renderGrid(w, photos, err != nil)
}

func (s *Server) renderGrid(w http.ResponseWriter, photos []domain.Photo, failed bool) {
	data := map[string]any{"Photos": photos, "Error": failed}
	if err := s.renderPartial(w, http.StatusOK, "partials/gallery_grid.html", data); err != nil {
		s.logger.Error("render partial failed", "error", err)
	}
}
