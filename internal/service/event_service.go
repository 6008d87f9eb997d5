package service

import (
	"context"
	"fmt"

	"github.com/edulife/edulife-admin/internal/backend"
	"github.com/edulife/edulife-admin/internal/cache"
	"github.com/edulife/edulife-admin/internal/domain"
)

// eventBackend is the subset of backend.Client that EventService requires.
type eventBackend interface {
	ListEvents(ctx context.Context, token string) ([]domain.Event, error)
	CreateEvent(ctx context.Context, token string, in backend.EventInput) (string, error)
	UpdateEvent(ctx context.Context, token string, id int64, in backend.EventInput) (string, error)
	DeleteEvent(ctx context.Context, token string, id int64) (string, error)
}

type EventService struct {
	backend eventBackend
	Deps
}

func NewEventService(b eventBackend, deps Deps) *EventService {
	return &EventService{backend: b, Deps: deps}
}

func (s *EventService) List(ctx context.Context, sess *domain.Session) ([]domain.Event, error) {
	return cache.Fetch(ctx, s.Cache, scope(sess), queryEvents, func(ctx context.Context) ([]domain.Event, error) {
		return s.backend.ListEvents(ctx, token(sess))
	})
}

// Get finds one event in the list; the backend has no single-event read.
func (s *EventService) Get(ctx context.Context, sess *domain.Session, id int64) (*domain.Event, error) {
	events, err := s.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	for i := range events {
		if events[i].ID == id {
			return &events[i], nil
		}
	}
	return nil, fmt.Errorf("event %d: %w", id, ErrNotFound)
}

func (s *EventService) Create(ctx context.Context, sess *domain.Session, in backend.EventInput) (string, error) {
	msg, err := s.backend.CreateEvent(ctx, token(sess), in)
	if err != nil {
		return "", err
	}
	s.Cache.Invalidate(ctx, queryEvents)
	s.recordActivity(ctx, sess, "create", "event", "", in.Title)
	return msg, nil
}

// Update replaces an event. A nil icon keeps the current one.
func (s *EventService) Update(ctx context.Context, sess *domain.Session, id int64, in backend.EventInput) (string, error) {
	var oldIcon *string
	if in.Icon != nil {
		if current, err := s.Get(ctx, sess, id); err == nil {
			oldIcon = current.Icon
		}
	}

	msg, err := s.backend.UpdateEvent(ctx, token(sess), id, in)
	if err != nil {
		return "", err
	}
	s.Cache.Invalidate(ctx, queryEvents)
	s.evictImage(ctx, oldIcon)
	s.recordActivity(ctx, sess, "update", "event", idString(id), in.Title)
	return msg, nil
}

func (s *EventService) Delete(ctx context.Context, sess *domain.Session, id int64) (string, error) {
	var icon *string
	summary := idString(id)
	if current, err := s.Get(ctx, sess, id); err == nil {
		icon = current.Icon
		summary = current.Title
	}

	msg, err := s.backend.DeleteEvent(ctx, token(sess), id)
	if err != nil {
		if backend.IsNotFound(err) {
			// Already gone; the cached listing still shows it.
			s.Cache.Invalidate(ctx, queryEvents)
		}
		return "", err
	}
	s.Cache.Invalidate(ctx, queryEvents)
	s.evictImage(ctx, icon)
	s.recordActivity(ctx, sess, "delete", "event", idString(id), summary)
	return msg, nil
}
