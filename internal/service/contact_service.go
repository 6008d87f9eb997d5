package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/edulife/edulife-admin/internal/cache"
	"github.com/edulife/edulife-admin/internal/domain"
	"github.com/edulife/edulife-admin/internal/pagination"
)

// contactBackend is the subset of backend.Client that ContactService requires.
type contactBackend interface {
	ListContacts(ctx context.Context, token string, page, limit int) (*domain.ContactPage, error)
	UpdateContactNote(ctx context.Context, token string, id int64, note string) (string, error)
}

type ContactService struct {
	backend contactBackend
	Deps
}

func NewContactService(b contactBackend, deps Deps) *ContactService {
	return &ContactService{backend: b, Deps: deps}
}

// contactsKey names one page of the list; unset parameters are left out so
// the key matches what the backend is asked for.
func contactsKey(p pagination.Params) string {
	q := url.Values{}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	if len(q) == 0 {
		return queryContactForms
	}
	return queryContactForms + "?" + q.Encode()
}

// List returns one page of submissions.
func (s *ContactService) List(ctx context.Context, sess *domain.Session, p pagination.Params) (*domain.ContactPage, error) {
	return cache.Fetch(ctx, s.Cache, scope(sess), contactsKey(p), func(ctx context.Context) (*domain.ContactPage, error) {
		return s.backend.ListContacts(ctx, token(sess), p.Page, p.Limit)
	})
}

// Get finds a submission on the given page; the backend has no single read.
func (s *ContactService) Get(ctx context.Context, sess *domain.Session, id int64, p pagination.Params) (*domain.Contact, error) {
	page, err := s.List(ctx, sess, p)
	if err != nil {
		return nil, err
	}
	for i := range page.Contacts {
		if page.Contacts[i].ID == id {
			return &page.Contacts[i], nil
		}
	}
	return nil, fmt.Errorf("contact form %d: %w", id, ErrNotFound)
}

func (s *ContactService) UpdateNote(ctx context.Context, sess *domain.Session, id int64, note string) (string, error) {
	msg, err := s.backend.UpdateContactNote(ctx, token(sess), id, note)
	if err != nil {
		return "", err
	}
	s.Cache.Invalidate(ctx, queryContactForms)
	s.recordActivity(ctx, sess, "note", "contact-form", idString(id), note)
	return msg, nil
}
