package service

import (
	"context"
	"fmt"

	"github.com/edulife/edulife-admin/internal/backend"
	"github.com/edulife/edulife-admin/internal/cache"
	"github.com/edulife/edulife-admin/internal/domain"
	"github.com/edulife/edulife-admin/internal/forms"
)

// settingsBackend is the subset of backend.Client that SettingsService requires.
type settingsBackend interface {
	GetSiteSettings(ctx context.Context, token string) (*domain.SiteSettings, error)
	UpdateSiteSetting(ctx context.Context, token, key string, value []byte, heroImage *backend.File) (string, error)
}

type SettingsService struct {
	backend settingsBackend
	Deps
}

func NewSettingsService(b settingsBackend, deps Deps) *SettingsService {
	return &SettingsService{backend: b, Deps: deps}
}

func (s *SettingsService) Get(ctx context.Context, sess *domain.Session) (*domain.SiteSettings, error) {
	return cache.Fetch(ctx, s.Cache, scope(sess), querySiteSettings, func(ctx context.Context) (*domain.SiteSettings, error) {
		return s.backend.GetSiteSettings(ctx, token(sess))
	})
}

// Save stores one section. heroImage is only sent with the hero section.
func (s *SettingsService) Save(ctx context.Context, sess *domain.Session, section forms.Section, heroImage *backend.File) (string, error) {
	value, err := section.Value()
	if err != nil {
		return "", fmt.Errorf("failed to encode %s settings: %w", section.Key(), err)
	}
	if section.Key() != forms.SectionHero {
		heroImage = nil
	}

	var oldHero *string
	if heroImage != nil {
		if current, err := s.Get(ctx, sess); err == nil && current.Hero != nil {
			oldHero = &current.Hero.HeroImage
		}
	}

	msg, err := s.backend.UpdateSiteSetting(ctx, token(sess), section.Key(), value, heroImage)
	if err != nil {
		return "", err
	}
	s.Cache.Invalidate(ctx, querySiteSettings)
	s.evictImage(ctx, oldHero)
	s.recordActivity(ctx, sess, "update", "site-settings", section.Key(), "")
	return msg, nil
}
