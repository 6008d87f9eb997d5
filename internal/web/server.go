package web

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/edulife/edulife-admin/internal/auth"
	"github.com/edulife/edulife-admin/internal/forms"
	"github.com/edulife/edulife-admin/internal/httpmiddleware"
	"github.com/edulife/edulife-admin/internal/imagecache"
	"github.com/edulife/edulife-admin/internal/metrics"
	"github.com/edulife/edulife-admin/internal/service"
)

// Services are the screen services the handlers call.
type Services struct {
	Auth      *service.AuthService
	Dashboard *service.DashboardService
	Events    *service.EventService
	Teachers  *service.TeacherService
	Contacts  *service.ContactService
	Gallery   *service.GalleryService
	Settings  *service.SettingsService
}

// Options carry the server's collaborators besides the services. Media,
// Metrics and LoginLimiter may be nil.
type Options struct {
	CookieSecure bool
	Media        *imagecache.Proxy
	Metrics      *metrics.Metrics
	LoginLimiter *httpmiddleware.SimpleTokenBucket
}

type Server struct {
	svc       Services
	templates embed.FS
	media     *imagecache.Proxy
	metrics   *metrics.Metrics
	limiter   *httpmiddleware.SimpleTokenBucket
	validator *forms.Validator
	gate      *auth.Gate
	secure    bool
	mux       *http.ServeMux
	tmplFuncs template.FuncMap
	logger    *slog.Logger
}

func NewServer(svc Services, tmpl embed.FS, opts Options, logger *slog.Logger) *Server {
	s := &Server{
		svc:       svc,
		templates: tmpl,
		media:     opts.Media,
		metrics:   opts.Metrics,
		limiter:   opts.LoginLimiter,
		validator: forms.NewValidator(),
		secure:    opts.CookieSecure,
		mux:       http.NewServeMux(),
		logger:    logger,
	}
	s.gate = auth.NewGate(svc.Auth.CurrentUser, opts.CookieSecure, logger)
	s.tmplFuncs = template.FuncMap{
		"inc":        func(i int) int { return i + 1 },
		"sub":        func(a, b int) int { return a - b },
		"deref":      deref,
		"media":      s.mediaURL,
		"localDate":  localDate,
		"fieldError": fieldError,
		"dict":       dict,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.handle("GET /{$}", s.handleDashboard)

	s.handle("GET /auth/login", s.handleLoginPage)
	login := http.Handler(http.HandlerFunc(s.handleLogin))
	if s.limiter != nil {
		login = s.limiter.Limit(login)
	}
	s.mux.Handle("POST /auth/login", s.gate.Wrap(login))
	s.handle("POST /auth/logout", s.handleLogout)

	s.handle("GET /events", s.handleListEvents)
	s.handle("GET /events/new", s.handleNewEvent)
	s.handle("POST /events", s.handleCreateEvent)
	s.handle("GET /events/{id}/edit", s.handleEditEvent)
	s.handle("POST /events/{id}", s.handleUpdateEvent)
	s.handle("GET /events/{id}/delete", s.handleConfirmDeleteEvent)
	s.handle("POST /events/{id}/delete", s.handleDeleteEvent)
	s.handle("DELETE /events/{id}/delete", s.handleDeleteEvent)

	s.handle("GET /teachers", s.handleListTeachers)
	s.handle("GET /teachers/new", s.handleNewTeacher)
	s.handle("POST /teachers", s.handleCreateTeacher)
	s.handle("GET /teachers/{id}/edit", s.handleEditTeacher)
	s.handle("POST /teachers/{id}", s.handleUpdateTeacher)
	s.handle("GET /teachers/{id}/delete", s.handleConfirmDeleteTeacher)
	s.handle("POST /teachers/{id}/delete", s.handleDeleteTeacher)
	s.handle("DELETE /teachers/{id}/delete", s.handleDeleteTeacher)

	s.handle("GET /contact-forms", s.handleListContacts)
	s.handle("GET /contact-forms/{id}", s.handleContactDetail)
	s.handle("POST /contact-forms/{id}/note", s.handleContactNote)

	s.handle("GET /gallery", s.handleGallery)
	s.handle("POST /gallery", s.handleUploadGallery)
	s.handle("POST /gallery/{id}/move", s.handleMovePhoto)
	s.handle("POST /gallery/{id}/delete", s.handleDeletePhoto)

	s.handle("GET /site-settings", s.handleSiteSettings)
	s.handle("POST /site-settings/{section}", s.handleSaveSettings)

	s.handle("GET /media", s.handleMedia)
	s.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}
	if static, err := fs.Sub(s.templates, "static"); err == nil {
		s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))
	}
}

// handle registers a gated route.
func (s *Server) handle(pattern string, h http.HandlerFunc) {
	s.mux.Handle(pattern, s.gate.Wrap(h))
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src 'self' 'unsafe-inline' https://unpkg.com; "+
				"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com; "+
				"font-src https://fonts.gstatic.com; "+
				"img-src 'self' data:; "+
				"connect-src 'self'")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func requestLogger(logger *slog.Logger, m *metrics.Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		// The mux records the matched pattern on the request it is given.
		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		elapsed := time.Since(start)
		if m != nil {
			m.ObserveRequest(route, rec.status, elapsed)
		}
		logger.Info("request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", rec.status,
			"duration_ms", elapsed.Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	securityHeaders(requestLogger(s.logger, s.metrics, s.mux)).ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// renderPage parses and executes a full-page template set.
func (s *Server) renderPage(w http.ResponseWriter, status int, data any, files ...string) error {
	tmpl, err := template.New("").Funcs(s.tmplFuncs).ParseFS(s.templates, files...)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return tmpl.ExecuteTemplate(w, "base", data)
}

// renderPartial parses and executes a single named partial template.
// The file must contain exactly one {{define "name"}}...{{end}} block.
func (s *Server) renderPartial(w http.ResponseWriter, status int, file string, data any) error {
	tmpl, err := template.New("").Funcs(s.tmplFuncs).ParseFS(s.templates, file)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	// ParseFS registers both the file-basename template and any {{define}} blocks.
	// Find the {{define}} template: it is the one whose name is neither "" nor
	// the file basename.
	basename := file
	if idx := strings.LastIndexByte(file, '/'); idx >= 0 {
		basename = file[idx+1:]
	}
	for _, t := range tmpl.Templates() {
		if n := t.Name(); n != "" && n != basename {
			return t.Execute(w, data)
		}
	}
	// Fallback: execute the file-basename template (no {{define}} blocks found).
	return tmpl.ExecuteTemplate(w, basename, data)
}

// renderModal renders a modal partial. htmx requests get the fragment for the
// page's modal container; plain requests get it wrapped in a full page.
func (s *Server) renderModal(w http.ResponseWriter, r *http.Request, status int, title, nav string, data map[string]any, file string) {
	if isHTMX(r) {
		if err := s.renderPartial(w, htmxStatus(status), file, data); err != nil {
			s.logger.Error("render partial failed", "file", file, "error", err)
		}
		return
	}
	if err := s.renderPage(w, status, s.pageData(w, r, title, nav, data),
		"base.html", "pages/modal.html", file,
	); err != nil {
		s.logger.Error("render page failed", "file", file, "error", err)
	}
}

// pageData adds what base.html needs to data.
func (s *Server) pageData(w http.ResponseWriter, r *http.Request, title, nav string, data map[string]any) map[string]any {
	if data == nil {
		data = map[string]any{}
	}
	data["Title"] = title
	data["ActiveNav"] = nav
	if sess := auth.SessionFrom(r.Context()); sess != nil {
		data["User"] = sess.User
	}
	if _, ok := data["Flash"]; !ok {
		data["Flash"] = takeFlash(w, r)
	}
	return data
}

func (s *Server) mediaURL(src string) string {
	if s.media == nil {
		return src
	}
	return s.media.URL(src)
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// htmxStatus maps a form re-render status to one htmx will swap.
func htmxStatus(status int) int {
	if status >= 400 {
		return http.StatusOK
	}
	return status
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func localDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("02 Jan 2006")
}

func fieldError(errs forms.Errors, name string) string {
	return errs.Get(name)
}

func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			m[k] = kv[i+1]
		}
	}
	return m
}
