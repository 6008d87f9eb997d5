package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulife/edulife-admin/internal/backend"
	"github.com/edulife/edulife-admin/internal/domain"
)

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return tok
}

func TestTokenExpired(t *testing.T) {
	now := time.Now()

	assert.True(t, TokenExpired(signedToken(t, now.Add(-time.Minute)), now))
	assert.False(t, TokenExpired(signedToken(t, now.Add(time.Hour)), now))
	assert.False(t, TokenExpired("opaque-session-token", now))

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "admin"}).
		SignedString([]byte("k"))
	require.NoError(t, err)
	assert.False(t, TokenExpired(noExp, now))
}

func TestSetAndClearToken(t *testing.T) {
	rec := httptest.NewRecorder()
	SetToken(rec, "abc", true)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, CookieName, c.Name)
	assert.Equal(t, "abc", c.Value)
	assert.Equal(t, 30*24*3600, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)

	rec = httptest.NewRecorder()
	ClearToken(rec, false)
	cookies = rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestSafeRedirect(t *testing.T) {
	assert.Equal(t, "/events", SafeRedirect("/events"))
	assert.Equal(t, "/", SafeRedirect(""))
	assert.Equal(t, "/", SafeRedirect("https://evil.example"))
	assert.Equal(t, "/", SafeRedirect("//evil.example"))
	assert.Equal(t, "/", SafeRedirect("/\\evil.example"))
	assert.Equal(t, "/", SafeRedirect("/auth/login?redirectTo=/x"))
}

func newTestGate(resolve UserResolver) (http.Handler, *domain.Session) {
	var seen domain.Session
	g := NewGate(resolve, false, slog.Default())
	h := g.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s := SessionFrom(r.Context()); s != nil {
			seen = *s
		}
		w.WriteHeader(http.StatusTeapot)
	}))
	return h, &seen
}

func okResolver(_ context.Context, _ string) (*domain.User, error) {
	return &domain.User{Name: "Admin", Email: "admin@school.edu"}, nil
}

func TestGateRedirectsAnonymousToLogin(t *testing.T) {
	h, _ := newTestGate(okResolver)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login?redirectTo=%2Fevents", rec.Header().Get("Location"))
}

func TestGateUsesHXRedirectForHtmx(t *testing.T) {
	h, _ := newTestGate(okResolver)

	req := httptest.NewRequest(http.MethodGet, "/gallery", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/auth/login?redirectTo=%2Fgallery", rec.Header().Get("HX-Redirect"))
}

func TestGateSendsLoggedInUsersHome(t *testing.T) {
	h, _ := newTestGate(okResolver)

	req := httptest.NewRequest(http.MethodGet, "/auth/login", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "tok"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestGateAllowsPublicPaths(t *testing.T) {
	h, _ := newTestGate(okResolver)

	for _, p := range []string{"/auth/login", "/healthz", "/metrics", "/static/app.css"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
		assert.Equal(t, http.StatusTeapot, rec.Code, p)
	}
}

func TestGateAttachesSession(t *testing.T) {
	h, seen := newTestGate(okResolver)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "tok"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "tok", seen.Token)
	assert.Equal(t, "admin@school.edu", seen.Actor())
}

func TestGateDiscardsExpiredToken(t *testing.T) {
	called := false
	h, _ := newTestGate(func(context.Context, string) (*domain.User, error) {
		called = true
		return nil, nil
	})

	req := httptest.NewRequest(http.MethodGet, "/teachers", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: signedToken(t, time.Now().Add(-time.Hour))})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.False(t, called)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login?redirectTo=%2Fteachers", rec.Header().Get("Location"))
	require.NotEmpty(t, rec.Result().Cookies())
	assert.Equal(t, -1, rec.Result().Cookies()[0].MaxAge)
}

func TestGateClearsTokenRejectedByBackend(t *testing.T) {
	h, _ := newTestGate(func(context.Context, string) (*domain.User, error) {
		return nil, &backend.APIError{Status: http.StatusUnauthorized, Message: "Unauthorized"}
	})

	req := httptest.NewRequest(http.MethodGet, "/site-settings", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "revoked"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login?redirectTo=%2Fsite-settings", rec.Header().Get("Location"))
	require.NotEmpty(t, rec.Result().Cookies())
	assert.Equal(t, -1, rec.Result().Cookies()[0].MaxAge)
}

func TestGateToleratesOtherResolveErrors(t *testing.T) {
	h, seen := newTestGate(func(context.Context, string) (*domain.User, error) {
		return nil, errors.New("backend down")
	})

	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "tok"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "unknown", seen.Actor())
}
