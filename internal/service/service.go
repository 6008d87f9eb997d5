package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/edulife/edulife-admin/internal/cache"
	"github.com/edulife/edulife-admin/internal/domain"
)

// ErrNotFound is returned when a record is not in the backend's list.
var ErrNotFound = errors.New("not found")

// Query names shared by readers and the mutations that invalidate them.
const (
	queryEvents       = "events"
	queryTeachers     = "teachers"
	queryGallery      = "gallery"
	querySiteSettings = "site-settings"
	queryContactForms = "contact-forms"
	queryMe           = "me"
)

// activityRepository is the subset of store.ActivityStore the services require.
type activityRepository interface {
	Create(ctx context.Context, a *domain.Activity) (*domain.Activity, error)
	ListRecent(ctx context.Context, limit int) ([]*domain.Activity, error)
}

// imageEvictor drops the locally cached copy of a remote image.
type imageEvictor interface {
	Evict(ctx context.Context, src string) error
}

// Deps are the collaborators every screen service shares. Cache, Activities
// and Images may be nil.
type Deps struct {
	Cache      *cache.QueryCache
	Activities activityRepository
	Images     imageEvictor
	Logger     *slog.Logger
}

// recordActivity logs a mutation to the activity log. Failures are logged
// and never fail the mutation, which the backend has already applied.
func (d Deps) recordActivity(ctx context.Context, sess *domain.Session, action, entity, entityID, summary string) {
	if d.Activities == nil {
		return
	}
	_, err := d.Activities.Create(ctx, &domain.Activity{
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Summary:  summary,
		Actor:    sess.Actor(),
	})
	if err != nil {
		d.Logger.Error("failed to record activity", "action", action, "entity", entity, "error", err)
	}
}

func (d Deps) evictImage(ctx context.Context, src *string) {
	if d.Images == nil || src == nil || *src == "" {
		return
	}
	if err := d.Images.Evict(ctx, *src); err != nil {
		d.Logger.Warn("failed to evict cached image", "src", *src, "error", err)
	}
}

func scope(sess *domain.Session) string {
	if sess == nil {
		return cache.Scope("")
	}
	return cache.Scope(sess.Token)
}

func token(sess *domain.Session) string {
	if sess == nil {
		return ""
	}
	return sess.Token
}

func idString(id int64) string {
	return strconv.FormatInt(id, 10)
}
