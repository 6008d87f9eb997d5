package service

import (
	"context"
	"fmt"

	"github.com/edulife/edulife-admin/internal/backend"
	"github.com/edulife/edulife-admin/internal/cache"
	"github.com/edulife/edulife-admin/internal/domain"
)

// teacherBackend is the subset of backend.Client that TeacherService requires.
type teacherBackend interface {
	ListTeachers(ctx context.Context, token string) ([]domain.Teacher, error)
	CreateTeacher(ctx context.Context, token string, in backend.TeacherInput) (string, error)
	UpdateTeacher(ctx context.Context, token string, id int64, in backend.TeacherInput) (string, error)
	DeleteTeacher(ctx context.Context, token string, id int64) (string, error)
}

type TeacherService struct {
	backend teacherBackend
	Deps
}

func NewTeacherService(b teacherBackend, deps Deps) *TeacherService {
	return &TeacherService{backend: b, Deps: deps}
}

func (s *TeacherService) List(ctx context.Context, sess *domain.Session) ([]domain.Teacher, error) {
	return cache.Fetch(ctx, s.Cache, scope(sess), queryTeachers, func(ctx context.Context) ([]domain.Teacher, error) {
		return s.backend.ListTeachers(ctx, token(sess))
	})
}

func (s *TeacherService) Get(ctx context.Context, sess *domain.Session, id int64) (*domain.Teacher, error) {
	teachers, err := s.List(ctx, sess)
	if err != nil {
		return nil, err
	}
	for i := range teachers {
		if teachers[i].ID == id {
			return &teachers[i], nil
		}
	}
	return nil, fmt.Errorf("teacher %d: %w", id, ErrNotFound)
}

func (s *TeacherService) Create(ctx context.Context, sess *domain.Session, in backend.TeacherInput) (string, error) {
	msg, err := s.backend.CreateTeacher(ctx, token(sess), in)
	if err != nil {
		return "", err
	}
	s.Cache.Invalidate(ctx, queryTeachers)
	s.recordActivity(ctx, sess, "create", "teacher", "", in.Name)
	return msg, nil
}

// Update replaces a teacher. A nil profile picture keeps the current one.
func (s *TeacherService) Update(ctx context.Context, sess *domain.Session, id int64, in backend.TeacherInput) (string, error) {
	var oldPicture *string
	if in.ProfilePicture != nil {
		if current, err := s.Get(ctx, sess, id); err == nil {
			oldPicture = current.ProfilePicture
		}
	}

	msg, err := s.backend.UpdateTeacher(ctx, token(sess), id, in)
	if err != nil {
		return "", err
	}
	s.Cache.Invalidate(ctx, queryTeachers)
	s.evictImage(ctx, oldPicture)
	s.recordActivity(ctx, sess, "update", "teacher", idString(id), in.Name)
	return msg, nil
}

func (s *TeacherService) Delete(ctx context.Context, sess *domain.Session, id int64) (string, error) {
	var picture *string
	summary := idString(id)
	if current, err := s.Get(ctx, sess, id); err == nil {
		picture = current.ProfilePicture
		summary = current.Name
	}

	msg, err := s.backend.DeleteTeacher(ctx, token(sess), id)
	if err != nil {
		if backend.IsNotFound(err) {
			// Already gone; the cached listing still shows it.
			s.Cache.Invalidate(ctx, queryTeachers)
		}
		return "", err
	}
	s.Cache.Invalidate(ctx, queryTeachers)
	s.evictImage(ctx, picture)
	s.recordActivity(ctx, sess, "delete", "teacher", idString(id), summary)
	return msg, nil
}
