package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/edulife/edulife-admin/internal/auth"
	"github.com/edulife/edulife-admin/internal/backend"
	"github.com/edulife/edulife-admin/internal/domain"
	"github.com/edulife/edulife-admin/internal/forms"
	"github.com/edulife/edulife-admin/internal/service"
)

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := s.svc.Events.List(r.Context(), auth.SessionFrom(r.Context()))
	if s.unauthorized(w, r, err) {
		return
	}
	if err != nil {
		s.logger.Error("list events failed", "error", err)
	}

	if err := s.renderPage(w, http.StatusOK,
		s.pageData(w, r, "Events", "events", map[string]any{"Events": events, "Error": err != nil}),
		"base.html", "pages/events.html", "partials/event_table.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleNewEvent(w http.ResponseWriter, r *http.Request) {
	s.renderEventForm(w, r, http.StatusOK, nil, forms.Event{}, nil, nil)
}

func (s *Server) handleEditEvent(w http.ResponseWriter, r *http.Request) {
	event, ok := s.loadEvent(w, r)
	if !ok {
		return
	}
	s.renderEventForm(w, r, http.StatusOK, event, forms.EventFrom(event), nil, nil)
}

func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	s.saveEvent(w, r, nil)
}

func (s *Server) handleUpdateEvent(w http.ResponseWriter, r *http.Request) {
	event, ok := s.loadEvent(w, r)
	if !ok {
		return
	}
	s.saveEvent(w, r, event)
}

// saveEvent creates an event, or updates existing when it is not nil.
func (s *Server) saveEvent(w http.ResponseWriter, r *http.Request, existing *domain.Event) {
	if err := parseForm(r); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	form := forms.ParseEvent(r.PostForm)
	errs := s.validator.Validate(form)
	icon, err := s.formImage(r, "icon")
	if err != nil {
		if errs == nil {
			errs = forms.Errors{}
		}
		errs["icon"] = uploadError(err)
	}
	if errs.Any() {
		s.renderEventForm(w, r, http.StatusUnprocessableEntity, existing, form, errs, nil)
		return
	}

	in := backend.EventInput{
		Title:    form.Title,
		Time:     form.Time,
		Location: form.Location,
		Date:     form.Date,
		Icon:     icon,
	}
	sess := auth.SessionFrom(r.Context())
	var msg string
	if existing == nil {
		msg, err = s.svc.Events.Create(r.Context(), sess, in)
	} else {
		msg, err = s.svc.Events.Update(r.Context(), sess, existing.ID, in)
	}
	if s.unauthorized(w, r, err) {
		return
	}
	if err != nil {
		s.logger.Error("save event failed", "error", err)
		s.renderEventForm(w, r, http.StatusBadGateway, existing, form, nil, errorNotice(err))
		return
	}
	s.finish(w, r, "/events", success(msg))
}

func (s *Server) renderEventForm(w http.ResponseWriter, r *http.Request, status int, event *domain.Event, form forms.Event, errs forms.Errors, n *Notice) {
	title, action := "Add Event", "/events"
	if event != nil {
		title, action = "Edit Event", fmt.Sprintf("/events/%d", event.ID)
	}
	data := map[string]any{
		"Heading": title,
		"Action":  action,
		"Event":   event,
		"Form":    form,
		"Errors":  errs,
	}
	if n != nil {
		toast(w, n)
		data["Flash"] = n
	}
	s.renderModal(w, r, status, title, "events", data, "partials/event_form.html")
}

func (s *Server) handleConfirmDeleteEvent(w http.ResponseWriter, r *http.Request) {
	event, ok := s.loadEvent(w, r)
	if !ok {
		return
	}
	s.renderModal(w, r, http.StatusOK, "Delete Event", "events", map[string]any{
		"Heading": "Delete Event",
		"Entity":  "event",
		"Name":    event.Title,
		"Action":  fmt.Sprintf("/events/%d/delete", event.ID),
		"Cancel":  "/events",
	}, "partials/confirm_delete.html")
}

func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid event id", http.StatusBadRequest)
		return
	}
	msg, err := s.svc.Events.Delete(r.Context(), auth.SessionFrom(r.Context()), id)
	if s.unauthorized(w, r, err) {
		return
	}
	if err != nil {
		s.logger.Error("delete event failed", "event_id", id, "error", err)
		s.finish(w, r, "/events", deleteFailure(err, "Event"))
		return
	}
	s.finish(w, r, "/events", success(msg))
}

// loadEvent resolves the {id} path value, writing the error response itself
// when it cannot.
func (s *Server) loadEvent(w http.ResponseWriter, r *http.Request) (*domain.Event, bool) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid event id", http.StatusBadRequest)
		return nil, false
	}
	event, err := s.svc.Events.Get(r.Context(), auth.SessionFrom(r.Context()), id)
	if s.unauthorized(w, r, err) {
		return nil, false
	}
	if errors.Is(err, service.ErrNotFound) {
		http.NotFound(w, r)
		return nil, false
	}
	if err != nil {
		s.logger.Error("get event failed", "event_id", id, "error", err)
		http.Error(w, "failed to load event", http.StatusBadGateway)
		return nil, false
	}
	return event, true
}

// uploadError is the form message for a rejected upload.
func uploadError(err error) string {
	if errors.Is(err, errNotImage) {
		return notImageMessage
	}
	return "Failed to read the uploaded file"
}
