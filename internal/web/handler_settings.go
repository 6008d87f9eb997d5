package web

import (
	"net/http"
	"net/url"

	"github.com/edulife/edulife-admin/internal/auth"
	"github.com/edulife/edulife-admin/internal/backend"
	"github.com/edulife/edulife-admin/internal/forms"
)

const settingsPath = "/site-settings"

// settingsParsers read each section's submitted form.
var settingsParsers = map[string]func(url.Values) forms.Section{
	forms.SectionHero:         func(v url.Values) forms.Section { return forms.ParseHero(v) },
	forms.SectionSocial:       func(v url.Values) forms.Section { return forms.ParseSocial(v) },
	forms.SectionContact:      func(v url.Values) forms.Section { return forms.ParseContact(v) },
	forms.SectionCampuses:     func(v url.Values) forms.Section { return forms.ParseCampuses(v) },
	forms.SectionOpeningHours: func(v url.Values) forms.Section { return forms.ParseOpeningHours(v) },
	forms.SectionTestimonials: func(v url.Values) forms.Section { return forms.ParseTestimonials(v) },
}

// settingsTemplates are the fragment files, one per section.
var settingsTemplates = map[string]string{
	forms.SectionHero:         "partials/settings_hero.html",
	forms.SectionSocial:       "partials/settings_social.html",
	forms.SectionContact:      "partials/settings_contact.html",
	forms.SectionCampuses:     "partials/settings_campuses.html",
	forms.SectionOpeningHours: "partials/settings_opening_hours.html",
	forms.SectionTestimonials: "partials/settings_testimonials.html",
}

func (s *Server) handleSiteSettings(w http.ResponseWriter, r *http.Request) {
	s.renderSettingsPage(w, r, http.StatusOK, nil, nil, nil)
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("section")
	parse, ok := settingsParsers[key]
	if !ok {
		http.NotFound(w, r)
		return
	}
	if err := parseForm(r); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}

	section := parse(r.PostForm)
	switch f := section.(type) {
	case forms.Campuses:
		if f.Edit(r.PostForm.Get("op")) {
			s.renderSection(w, r, http.StatusOK, f, nil, nil)
			return
		}
	case forms.Hero:
		f.Image = r.PostForm.Get("currentImage")
		section = f
	}

	errs := s.validator.Validate(section)
	var heroImage *backend.File
	if key == forms.SectionHero {
		img, err := s.formImage(r, "heroImage")
		if err != nil {
			if errs == nil {
				errs = forms.Errors{}
			}
			errs["heroImage"] = uploadError(err)
		}
		heroImage = img
	}
	if errs.Any() {
		s.renderSection(w, r, http.StatusUnprocessableEntity, section, errs, nil)
		return
	}

	sess := auth.SessionFrom(r.Context())
	msg, err := s.svc.Settings.Save(r.Context(), sess, section, heroImage)
	if s.unauthorized(w, r, err) {
		return
	}
	if err != nil {
		s.logger.Error("save site settings failed", "section", key, "error", err)
		s.renderSection(w, r, http.StatusBadGateway, section, nil, errorNotice(err))
		return
	}

	if !isHTMX(r) {
		s.finish(w, r, settingsPath, success(msg))
		return
	}
	// Show what the backend stored, including a replaced hero image.
	if settings, err := s.svc.Settings.Get(r.Context(), sess); err == nil {
		section = sectionOf(forms.SettingsFrom(settings), key)
	}
	s.renderSection(w, r, http.StatusOK, section, nil, success(msg))
}

// renderSection re-renders one section: as a fragment for htmx, otherwise as
// the whole settings page with the other sections loaded from the backend.
func (s *Server) renderSection(w http.ResponseWriter, r *http.Request, status int, section forms.Section, errs forms.Errors, n *Notice) {
	if !isHTMX(r) {
		s.renderSettingsPage(w, r, status, section, errs, n)
		return
	}
	if n != nil {
		toast(w, n)
	}
	data := map[string]any{"Form": section, "Errors": errs}
	if err := s.renderPartial(w, htmxStatus(status), settingsTemplates[section.Key()], data); err != nil {
		s.logger.Error("render partial failed", "section", section.Key(), "error", err)
	}
}

// renderSettingsPage renders every section. A non-nil override replaces the
// section of the same key, carrying errs.
func (s *Server) renderSettingsPage(w http.ResponseWriter, r *http.Request, status int, override forms.Section, errs forms.Errors, n *Notice) {
	settings, err := s.svc.Settings.Get(r.Context(), auth.SessionFrom(r.Context()))
	if s.unauthorized(w, r, err) {
		return
	}
	if err != nil {
		s.logger.Error("load site settings failed", "error", err)
	}

	all := forms.SettingsFrom(settings)
	sectionErrors := map[string]forms.Errors{}
	if override != nil {
		withSection(&all, override)
		sectionErrors[override.Key()] = errs
	}

	data := map[string]any{
		"Forms":         all,
		"SectionErrors": sectionErrors,
		"Error":         err != nil,
	}
	if n != nil {
		data["Flash"] = n
	}
	files := []string{"base.html", "pages/site_settings.html"}
	for _, key := range []string{
		forms.SectionHero, forms.SectionSocial, forms.SectionContact,
		forms.SectionCampuses, forms.SectionOpeningHours, forms.SectionTestimonials,
	} {
		files = append(files, settingsTemplates[key])
	}
	if err := s.renderPage(w, status, s.pageData(w, r, "Site Settings", "site-settings", data), files...); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func sectionOf(all forms.SettingsForms, key string) forms.Section {
	switch key {
	case forms.SectionHero:
		return all.Hero
	case forms.SectionSocial:
		return all.Social
	case forms.SectionContact:
		return all.Contact
	case forms.SectionCampuses:
		return all.Campuses
	case forms.SectionOpeningHours:
		return all.OpeningHours
	default:
		return all.Testimonials
	}
}

func withSection(all *forms.SettingsForms, section forms.Section) {
	switch f := section.(type) {
	case forms.Hero:
		all.Hero = f
	case forms.Social:
		all.Social = f
	case forms.ContactSection:
		all.Contact = f
	case forms.Campuses:
		all.Campuses = f
	case forms.OpeningHours:
		all.OpeningHours = f
	case forms.Testimonials:
		all.Testimonials = f
	}
}
