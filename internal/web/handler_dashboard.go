package web

import (
	"net/http"

	"github.com/edulife/edulife-admin/internal/auth"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess := auth.SessionFrom(r.Context())
	summary, err := s.svc.Dashboard.Summary(r.Context(), sess)
	if err != nil {
		s.logger.Error("load dashboard failed", "error", err)
	}

	if err := s.renderPage(w, http.StatusOK,
		s.pageData(w, r, "Dashboard", "dashboard", map[string]any{"Summary": summary, "Error": err != nil}),
		"base.html", "pages/dashboard.html",
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}
