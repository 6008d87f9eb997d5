package web

import (
	"net/http"

	"github.com/edulife/edulife-admin/internal/auth"
	"github.com/edulife/edulife-admin/internal/domain"
	"github.com/edulife/edulife-admin/internal/forms"
)

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	s.renderLogin(w, r, http.StatusOK, forms.Login{}, nil, r.URL.Query().Get("redirectTo"), nil)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	form := forms.ParseLogin(r.PostForm)
	redirectTo := r.PostForm.Get("redirectTo")

	if errs := s.validator.Validate(form); errs.Any() {
		form.Password = ""
		s.renderLogin(w, r, http.StatusUnprocessableEntity, form, errs, redirectTo, nil)
		return
	}

	res, err := s.svc.Auth.Login(r.Context(), form.Email, form.Password)
	if err != nil {
		s.logger.Info("login rejected", "email", form.Email, "error", err)
		form.Password = ""
		s.renderLogin(w, r, http.StatusUnauthorized, form, nil, redirectTo, failure(loginFailure(err)))
		return
	}

	auth.SetToken(w, res.AccessToken, s.secure)
	msg := res.Message
	if msg == "" {
		msg = "Login successful"
	}
	s.finish(w, r, auth.SafeRedirect(redirectTo), success(msg))
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, status int, form forms.Login, errs forms.Errors, redirectTo string, n *Notice) {
	data := map[string]any{
		"Form":       form,
		"Errors":     errs,
		"RedirectTo": redirectTo,
	}
	if n != nil {
		data["Flash"] = n
	}
	if err := s.renderPage(w, status, s.pageData(w, r, "Login", "", data),
		"base.html", "pages/login.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := auth.TokenFrom(r); token != "" {
		sess := &domain.Session{Token: token}
		if user, err := s.svc.Auth.CurrentUser(r.Context(), token); err == nil {
			sess.User = user
		}
		s.svc.Auth.Logout(r.Context(), sess)
	}
	auth.ClearToken(w, s.secure)
	s.finish(w, r, auth.LoginPath, success("Logged out"))
}
