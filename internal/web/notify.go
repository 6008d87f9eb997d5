package web

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/edulife/edulife-admin/internal/auth"
	"github.com/edulife/edulife-admin/internal/backend"
)

const flashCookie = "flash"

// Notice is a success or error notification shown as a toast.
type Notice struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func success(msg string) *Notice { return &Notice{Type: "success", Message: msg} }

func failure(msg string) *Notice { return &Notice{Type: "error", Message: msg} }

// errorNotice shows the backend's message, falling back to the error itself.
func errorNotice(err error) *Notice {
	return failure(backend.Message(err))
}

// deleteFailure reports a failed delete. A record the backend no longer has
// is reported as gone instead of as an error.
func deleteFailure(err error, entity string) *Notice {
	if backend.IsNotFound(err) {
		return failure(entity + " no longer exists")
	}
	return errorNotice(err)
}

// setFlash stores n for the next page render, surviving one redirect.
func (s *Server) setFlash(w http.ResponseWriter, n *Notice) {
	raw, err := json.Marshal(n)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeFlash returns the pending notice, if any, and clears it.
func takeFlash(w http.ResponseWriter, r *http.Request) *Notice {
	c, err := r.Cookie(flashCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	n := &Notice{}
	if err := json.Unmarshal(raw, n); err != nil || n.Message == "" {
		return nil
	}
	return n
}

// toast asks htmx to raise a showToast event carrying n.
func toast(w http.ResponseWriter, n *Notice) {
	raw, err := json.Marshal(map[string]*Notice{"showToast": n})
	if err != nil {
		return
	}
	w.Header().Set("HX-Trigger", string(raw))
}

// finish ends a successful or failed mutation by navigating to target with n
// flashed.
func (s *Server) finish(w http.ResponseWriter, r *http.Request, target string, n *Notice) {
	s.setFlash(w, n)
	auth.Redirect(w, r, target)
}

// unauthorized handles a backend 401 met after the gate let the request in:
// the token is dropped and the browser sent to log in again.
func (s *Server) unauthorized(w http.ResponseWriter, r *http.Request, err error) bool {
	if !backend.IsUnauthorized(err) {
		return false
	}
	s.logger.Info("backend rejected access token", "path", r.URL.Path)
	auth.ClearToken(w, s.secure)
	auth.Redirect(w, r, auth.LoginURL(r.URL.Path))
	return true
}

// loginFailure is the message shown when a login attempt fails.
func loginFailure(err error) string {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Login failed"
}
