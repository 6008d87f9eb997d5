package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/edulife/edulife-admin/internal/domain"
	"github.com/edulife/edulife-admin/internal/pagination"
)

// recentActivityLimit is how many activities the dashboard home lists.
const recentActivityLimit = 10

// Count is one dashboard tile. OK is false when the backend read failed.
type Count struct {
	Value int
	OK    bool
}

type Summary struct {
	Events       Count
	Teachers     Count
	Photos       Count
	ContactForms Count
	Recent       []*domain.Activity
}

// DashboardService assembles the home screen from the other services.
type DashboardService struct {
	events   *EventService
	teachers *TeacherService
	gallery  *GalleryService
	contacts *ContactService
	Deps
}

func NewDashboardService(events *EventService, teachers *TeacherService, gallery *GalleryService, contacts *ContactService, deps Deps) *DashboardService {
	return &DashboardService{events: events, teachers: teachers, gallery: gallery, contacts: contacts, Deps: deps}
}

// Summary loads the counts concurrently. A failed count is logged and shown
// as unavailable rather than failing the page.
func (s *DashboardService) Summary(ctx context.Context, sess *domain.Session) (*Summary, error) {
	sum := &Summary{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		events, err := s.events.List(gctx, sess)
		sum.Events = s.count(len(events), err, "events")
		return nil
	})
	g.Go(func() error {
		teachers, err := s.teachers.List(gctx, sess)
		sum.Teachers = s.count(len(teachers), err, "teachers")
		return nil
	})
	g.Go(func() error {
		photos, err := s.gallery.List(gctx, sess)
		sum.Photos = s.count(len(photos), err, "gallery")
		return nil
	})
	g.Go(func() error {
		page, err := s.contacts.List(gctx, sess, pagination.Params{})
		total := 0
		if err == nil {
			total = len(page.Contacts)
			if page.Meta != nil {
				total = page.Meta.Total
			}
		}
		sum.ContactForms = s.count(total, err, "contact-forms")
		return nil
	})
	if s.Activities != nil {
		g.Go(func() error {
			recent, err := s.Activities.ListRecent(gctx, recentActivityLimit)
			if err != nil {
				return err
			}
			sum.Recent = recent
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sum, nil
}

func (s *DashboardService) count(n int, err error, what string) Count {
	if err != nil {
		s.Logger.Warn("dashboard count unavailable", "query", what, "error", err)
		return Count{}
	}
	return Count{Value: n, OK: true}
}
