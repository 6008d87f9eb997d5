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

func (s *Server) handleListTeachers(w http.ResponseWriter, r *http.Request) {
	teachers, err := s.svc.Teachers.List(r.Context(), auth.SessionFrom(r.Context()))
	if s.unauthorized(w, r, err) {
		return
	}
	if err != nil {
		s.logger.Error("list teachers failed", "error", err)
	}

	if err := s.renderPage(w, http.StatusOK,
		s.pageData(w, r, "Teachers", "teachers", map[string]any{"Teachers": teachers, "Error": err != nil}),
		"base.html", "pages/teachers.html", "partials/teacher_table.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleNewTeacher(w http.ResponseWriter, r *http.Request) {
	s.renderTeacherForm(w, r, http.StatusOK, nil, forms.Teacher{}, nil, nil)
}

func (s *Server) handleEditTeacher(w http.ResponseWriter, r *http.Request) {
	teacher, ok := s.loadTeacher(w, r)
	if !ok {
		return
	}
	s.renderTeacherForm(w, r, http.StatusOK, teacher, forms.TeacherFrom(teacher), nil, nil)
}

func (s *Server) handleCreateTeacher(w http.ResponseWriter, r *http.Request) {
	s.saveTeacher(w, r, nil)
}

func (s *Server) handleUpdateTeacher(w http.ResponseWriter, r *http.Request) {
	teacher, ok := s.loadTeacher(w, r)
	if !ok {
		return
	}
	s.saveTeacher(w, r, teacher)
}

func (s *Server) saveTeacher(w http.ResponseWriter, r *http.Request, existing *domain.Teacher) {
	if err := parseForm(r); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	form := forms.ParseTeacher(r.PostForm)
	errs := s.validator.Validate(form)
	picture, err := s.formImage(r, "profilePicture")
	if err != nil {
		if errs == nil {
			errs = forms.Errors{}
		}
		errs["profilePicture"] = uploadError(err)
	}
	if errs.Any() {
		s.renderTeacherForm(w, r, http.StatusUnprocessableEntity, existing, form, errs, nil)
		return
	}

	in := backend.TeacherInput{
		Name:           form.Name,
		Subject:        form.Subject,
		Qualification:  form.Qualification,
		ProfilePicture: picture,
	}
	sess := auth.SessionFrom(r.Context())
	var msg string
	if existing == nil {
		msg, err = s.svc.Teachers.Create(r.Context(), sess, in)
	} else {
		msg, err = s.svc.Teachers.Update(r.Context(), sess, existing.ID, in)
	}
	if s.unauthorized(w, r, err) {
		return
	}
	if err != nil {
		s.logger.Error("save teacher failed", "error", err)
		s.renderTeacherForm(w, r, http.StatusBadGateway, existing, form, nil, errorNotice(err))
		return
	}
	s.finish(w, r, "/teachers", success(msg))
}

func (s *Server) renderTeacherForm(w http.ResponseWriter, r *http.Request, status int, teacher *domain.Teacher, form forms.Teacher, errs forms.Errors, n *Notice) {
	title, action := "Add Teacher", "/teachers"
	if teacher != nil {
		title, action = "Edit Teacher", fmt.Sprintf("/teachers/%d", teacher.ID)
	}
	data := map[string]any{
		"Heading": title,
		"Action":  action,
		"Teacher": teacher,
		"Form":    form,
		"Errors":  errs,
	}
	if n != nil {
		toast(w, n)
		data["Flash"] = n
	}
	s.renderModal(w, r, status, title, "teachers", data, "partials/teacher_form.html")
}

func (s *Server) handleConfirmDeleteTeacher(w http.ResponseWriter, r *http.Request) {
	teacher, ok := s.loadTeacher(w, r)
	if !ok {
		return
	}
	s.renderModal(w, r, http.StatusOK, "Delete Teacher", "teachers", map[string]any{
		"Heading": "Delete Teacher",
		"Entity":  "teacher",
		"Name":    teacher.Name,
		"Action":  fmt.Sprintf("/teachers/%d/delete", teacher.ID),
		"Cancel":  "/teachers",
	}, "partials/confirm_delete.html")
}

func (s *Server) handleDeleteTeacher(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid teacher id", http.StatusBadRequest)
		return
	}
	msg, err := s.svc.Teachers.Delete(r.Context(), auth.SessionFrom(r.Context()), id)
	if s.unauthorized(w, r, err) {
		return
	}
	if err != nil {
		s.logger.Error("delete teacher failed", "teacher_id", id, "error", err)
		s.finish(w, r, "/teachers", deleteFailure(err, "Teacher"))
		return
	}
	s.finish(w, r, "/teachers", success(msg))
}

func (s *Server) loadTeacher(w http.ResponseWriter, r *http.Request) (*domain.Teacher, bool) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "invalid teacher id", http.StatusBadRequest)
		return nil, false
	}
	teacher, err := s.svc.Teachers.Get(r.Context(), auth.SessionFrom(r.Context()), id)
	if s.unauthorized(w, r, err) {
		return nil, false
	}
	if errors.Is(err, service.ErrNotFound) {
		http.NotFound(w, r)
		return nil, false
	}
	if err != nil {
		s.logger.Error("get teacher failed", "teacher_id", id, "error", err)
		http.Error(w, "failed to load teacher", http.StatusBadGateway)
		return nil, false
	}
	return teacher, true
}
