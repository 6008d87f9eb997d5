package service

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/edulife/edulife-admin/internal/backend"
	"github.com/edulife/edulife-admin/internal/cache"
	"github.com/edulife/edulife-admin/internal/domain"
)

// Direction is where a photo moves in the gallery order.
type Direction string

const (
	MoveLeft  Direction = "left"
	MoveRight Direction = "right"
)

// ErrMoveOutOfBounds is returned when a photo would move past either end.
var ErrMoveOutOfBounds = errors.New("photo cannot move further")

// galleryBackend is the subset of backend.Client that GalleryService requires.
type galleryBackend interface {
	ListGallery(ctx context.Context, token string) ([]domain.Photo, error)
	UploadGallery(ctx context.Context, token string, files []*backend.File) (string, error)
	DeleteGalleryPhoto(ctx context.Context, token string, id int64) (string, error)
	ReorderGallery(ctx context.Context, token string, id int64, newPosition int) (string, error)
}

type GalleryService struct {
	backend galleryBackend
	Deps
}

func NewGalleryService(b galleryBackend, deps Deps) *GalleryService {
	return &GalleryService{backend: b, Deps: deps}
}

// List returns the photos in display order.
func (s *GalleryService) List(ctx context.Context, sess *domain.Session) ([]domain.Photo, error) {
	photos, err := cache.Fetch(ctx, s.Cache, scope(sess), queryGallery, func(ctx context.Context) ([]domain.Photo, error) {
		return s.backend.ListGallery(ctx, token(sess))
	})
	if err != nil {
		return nil, err
	}
	sorted := slices.Clone(photos)
	slices.SortStableFunc(sorted, func(a, b domain.Photo) int { return a.Position - b.Position })
	return sorted, nil
}

func (s *GalleryService) Upload(ctx context.Context, sess *domain.Session, files []*backend.File) (string, error) {
	msg, err := s.backend.UploadGallery(ctx, token(sess), files)
	if err != nil {
		return "", err
	}
	s.Cache.Invalidate(ctx, queryGallery)
	s.recordActivity(ctx, sess, "upload", "photo", "", fmt.Sprintf("%d photo(s)", len(files)))
	return msg, nil
}

func (s *GalleryService) Delete(ctx context.Context, sess *domain.Session, id int64) (string, error) {
	var src *string
	if photos, err := s.List(ctx, sess); err == nil {
		if i := indexOfPhoto(photos, id); i >= 0 {
			src = &photos[i].URL
		}
	}

	msg, err := s.backend.DeleteGalleryPhoto(ctx, token(sess), id)
	if err != nil {
		if backend.IsNotFound(err) {
			// Already gone; the cached listing still shows it.
			s.Cache.Invalidate(ctx, queryGallery)
		}
		return "", err
	}
	s.Cache.Invalidate(ctx, queryGallery)
	s.evictImage(ctx, src)
	s.recordActivity(ctx, sess, "delete", "photo", idString(id), "")
	return msg, nil
}

// MoveResult is the outcome of a move: the order to render and the backend's
// message.
type MoveResult struct {
	Photos  []domain.Photo
	Message string
}

// Move swaps photo id with its neighbour in dir. The swapped order is
// computed first and sent to the backend as {id, newPosition}. On success the
// swapped order is returned; if the backend refuses, the original order is
// returned together with the error.
func (s *GalleryService) Move(ctx context.Context, sess *domain.Session, id int64, dir Direction) (MoveResult, error) {
	photos, err := s.List(ctx, sess)
	if err != nil {
		return MoveResult{}, err
	}
	index := indexOfPhoto(photos, id)
	if index < 0 {
		return MoveResult{Photos: photos}, fmt.Errorf("photo %d: %w", id, ErrNotFound)
	}

	swapped, newIndex, err := SwapNeighbour(photos, index, dir)
	if err != nil {
		return MoveResult{Photos: photos}, err
	}

	msg, err := s.backend.ReorderGallery(ctx, token(sess), swapped[newIndex].ID, newIndex)
	if err != nil {
		s.Logger.Warn("gallery reorder rejected, restoring order", "photo_id", id, "error", err)
		return MoveResult{Photos: photos}, err
	}
	s.Cache.Invalidate(ctx, queryGallery)
	s.recordActivity(ctx, sess, "move", "photo", idString(id), fmt.Sprintf("to position %d", newIndex+1))
	return MoveResult{Photos: swapped, Message: msg}, nil
}

// SwapNeighbour returns a copy of photos with the photo at index swapped with
// its neighbour in dir, along with the moved photo's new index.
func SwapNeighbour(photos []domain.Photo, index int, dir Direction) ([]domain.Photo, int, error) {
	var newIndex int
	switch dir {
	case MoveLeft:
		newIndex = index - 1
	case MoveRight:
		newIndex = index + 1
	default:
		return nil, 0, fmt.Errorf("unknown direction %q", dir)
	}
	if index < 0 || index >= len(photos) || newIndex < 0 || newIndex >= len(photos) {
		return nil, 0, ErrMoveOutOfBounds
	}
	out := slices.Clone(photos)
	out[index], out[newIndex] = out[newIndex], out[index]
	return out, newIndex, nil
}

func indexOfPhoto(photos []domain.Photo, id int64) int {
	return slices.IndexFunc(photos, func(p domain.Photo) bool { return p.ID == id })
}
