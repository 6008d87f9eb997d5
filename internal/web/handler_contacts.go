package web

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"

	"github.com/edulife/edulife-admin/internal/auth"
	"github.com/edulife/edulife-admin/internal/domain"
	"github.com/edulife/edulife-admin/internal/forms"
	"github.com/edulife/edulife-admin/internal/pagination"
	"github.com/edulife/edulife-admin/internal/service"
)

const contactsPath = "/contact-forms"

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := s.svc.Contacts.List(r.Context(), auth.SessionFrom(r.Context()), pagination.FromQuery(q))
	if s.unauthorized(w, r, err) {
		return
	}
	if err != nil {
		s.logger.Error("list contact forms failed", "error", err)
		page = &domain.ContactPage{}
	}

	// Already encoded; carried into the detail links as is.
	detailQuery := template.URL(q.Encode())
	if err := s.renderPage(w, http.StatusOK,
		s.pageData(w, r, "Contact Forms", "contact-forms", map[string]any{
			"Contacts":   page.Contacts,
			"Pagination": pagination.New(contactsPath, q, page.Meta),
			"Query":      detailQuery,
			"Error":      err != nil,
		}),
		"base.html", "pages/contacts.html", "partials/contact_table.html", "partials/pagination.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleContactDetail(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	contact, ok := s.loadContact(w, r, q)
	if !ok {
		return
	}
	s.renderContact(w, r, http.StatusOK, contact, forms.Note{Note: contact.Note}, nil, q)
}

func (s *Server) handleContactNote(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	returnQuery, _ := url.ParseQuery(r.PostForm.Get("query"))
	back := listURL(returnQuery)

	form := forms.ParseNote(r.PostForm)
	if errs := s.validator.Validate(form); errs.Any() {
		contact, ok := s.loadContact(w, r, returnQuery)
		if !ok {
			return
		}
		s.renderContact(w, r, http.StatusUnprocessableEntity, contact, form, errs, returnQuery)
		return
	}

	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid contact form id", http.StatusBadRequest)
		return
	}
	msg, err := s.svc.Contacts.UpdateNote(r.Context(), auth.SessionFrom(r.Context()), id, form.Note)
	if s.unauthorized(w, r, err) {
		return
	}
	if err != nil {
		s.logger.Error("update contact note failed", "contact_id", id, "error", err)
		s.finish(w, r, back, errorNotice(err))
		return
	}
	s.finish(w, r, back, success(msg))
}

// renderContact shows one submission with its note form. q is the list page
// the administrator came from and returns to after saving.
func (s *Server) renderContact(w http.ResponseWriter, r *http.Request, status int, contact *domain.Contact, form forms.Note, errs forms.Errors, q url.Values) {
	data := map[string]any{
		"Heading": "Contact Form",
		"Contact": contact,
		"Form":    form,
		"Errors":  errs,
		"Return":  listURL(q),
		"Query":   q.Encode(),
	}
	s.renderModal(w, r, status, "Contact Form", "contact-forms", data, "partials/contact_detail.html")
}

// loadContact finds the {id} submission on the page described by q.
func (s *Server) loadContact(w http.ResponseWriter, r *http.Request, q url.Values) (*domain.Contact, bool) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid contact form id", http.StatusBadRequest)
		return nil, false
	}
	contact, err := s.svc.Contacts.Get(r.Context(), auth.SessionFrom(r.Context()), id, pagination.FromQuery(q))
	if s.unauthorized(w, r, err) {
		return nil, false
	}
	if errors.Is(err, service.ErrNotFound) {
		http.NotFound(w, r)
		return nil, false
	}
	if err != nil {
		s.logger.Error("get contact form failed", "contact_id", id, "error", err)
		http.Error(w, "failed to load contact form", http.StatusBadGateway)
		return nil, false
	}
	return contact, true
}

// listURL is the contact list page the query q came from.
func listURL(q url.Values) string {
	if len(q) == 0 {
		return contactsPath
	}
	return contactsPath + "?" + q.Encode()
}
