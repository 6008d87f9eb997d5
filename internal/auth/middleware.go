package auth

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/edulife/edulife-admin/internal/backend"
	"github.com/edulife/edulife-admin/internal/domain"
)

// LoginPath is the login screen.
const LoginPath = "/auth/login"

// publicPrefixes are reachable without a token.
var publicPrefixes = []string{LoginPath, "/auth/logout", "/static/", "/healthz", "/metrics"}

// UserResolver looks up the administrator behind token.
type UserResolver func(ctx context.Context, token string) (*domain.User, error)

// Gate redirects anonymous requests to the login screen and attaches the
// session to the rest.
type Gate struct {
	resolve UserResolver
	secure  bool
	logger  *slog.Logger
	now     func() time.Time
}

func NewGate(resolve UserResolver, secureCookie bool, logger *slog.Logger) *Gate {
	return &Gate{resolve: resolve, secure: secureCookie, logger: logger, now: time.Now}
}

func (g *Gate) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		token := TokenFrom(r)
		if token != "" && TokenExpired(token, g.now()) {
			g.logger.Info("discarding expired access token", "path", path)
			ClearToken(w, g.secure)
			token = ""
		}

		if strings.HasPrefix(path, LoginPath) {
			if token != "" {
				Redirect(w, r, "/")
				return
			}
			next.ServeHTTP(w, r)
			return
		}
		if isPublic(path) {
			next.ServeHTTP(w, r)
			return
		}
		if token == "" {
			Redirect(w, r, LoginURL(path))
			return
		}

		user, err := g.resolve(r.Context(), token)
		if err != nil {
			if backend.IsUnauthorized(err) {
				g.logger.Info("backend rejected access token", "path", path)
				ClearToken(w, g.secure)
				Redirect(w, r, LoginURL(path))
				return
			}
			// The screens can still work; only the header and activity actor
			// lose the administrator's name.
			g.logger.Warn("failed to resolve current user", "error", err)
		}

		sess := &domain.Session{Token: token, User: user}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}

func isPublic(path string) bool {
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// LoginURL is the login screen remembering where to return afterwards.
func LoginURL(redirectTo string) string {
	return LoginPath + "?redirectTo=" + url.QueryEscape(redirectTo)
}

// SafeRedirect returns target when it is a local path, otherwise "/".
func SafeRedirect(target string) string {
	if !strings.HasPrefix(target, "/") ||
		strings.HasPrefix(target, "//") ||
		strings.HasPrefix(target, "/\\") ||
		strings.HasPrefix(target, LoginPath) {
		return "/"
	}
	return target
}

// Redirect sends the browser to target. htmx requests get an HX-Redirect
// header so the whole page navigates instead of a fragment being swapped.
func Redirect(w http.ResponseWriter, r *http.Request, target string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

type sessionKey struct{}

func WithSession(ctx context.Context, s *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFrom returns the request's session, or nil on public routes.
func SessionFrom(ctx context.Context) *domain.Session {
	s, _ := ctx.Value(sessionKey{}).(*domain.Session)
	return s
}
