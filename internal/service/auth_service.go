package service

import (
	"context"
	"fmt"

	"github.com/edulife/edulife-admin/internal/backend"
	"github.com/edulife/edulife-admin/internal/cache"
	"github.com/edulife/edulife-admin/internal/domain"
)

// authBackend is the subset of backend.Client that AuthService requires.
type authBackend interface {
	Login(ctx context.Context, email, password string) (*backend.LoginResult, error)
	Me(ctx context.Context, token string) (*domain.User, error)
}

type AuthService struct {
	backend authBackend
	Deps
}

func NewAuthService(b authBackend, deps Deps) *AuthService {
	return &AuthService{backend: b, Deps: deps}
}

// Login exchanges credentials for an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*backend.LoginResult, error) {
	res, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("administrator logged in", "email", email)
	sess := &domain.Session{Token: res.AccessToken, User: &domain.User{Email: email}}
	s.recordActivity(ctx, sess, "login", "session", "", email)
	return res, nil
}

// CurrentUser resolves the administrator behind token, cached per token.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*domain.User, error) {
	user, err := cache.Fetch(ctx, s.Cache, cache.Scope(token), queryMe, func(ctx context.Context) (*domain.User, error) {
		return s.backend.Me(ctx, token)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve current user: %w", err)
	}
	return user, nil
}

func (s *AuthService) Logout(ctx context.Context, sess *domain.Session) {
	s.recordActivity(ctx, sess, "logout", "session", "", sess.Actor())
}
