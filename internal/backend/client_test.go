package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/", 5*time.Second)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLogin(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "admin@school.test", body["email"])
		assert.Equal(t, "secret", body["password"])

		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Login successful",
			"data":    map[string]string{"accessToken": "tok-123"},
		})
	})

	res, err := c.Login(context.Background(), "admin@school.test", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Login successful", res.Message)
	assert.Equal(t, "tok-123", res.AccessToken)
}

func TestLoginRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Invalid credentials"})
	})

	_, err := c.Login(context.Background(), "admin@school.test", "wrong")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Invalid credentials", Message(err))
}

func TestMeSendsBearerToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]string{"name": "Ada", "email": "ada@school.test"},
		})
	})

	user, err := c.Me(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.Name)
	assert.Equal(t, "ada@school.test", user.Email)
}

func TestErrorWithoutBodyUsesStatusText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.ListEvents(context.Background(), "tok")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Bad Gateway", Message(err))
}

func TestListEvents(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/events", r.URL.Path)
		_, _ = io.WriteString(w, `{"data":[
			{"id":1,"title":"Sports Day","time":"10:00 AM","location":"Field","date":"2025-03-14T00:00:00.000Z","icon":null,
			 "createdAt":"2025-01-01T08:00:00.000Z","updatedAt":"2025-01-01T08:00:00.000Z"},
			{"id":2,"title":"Science Fair","time":"1:00 PM","location":"Hall","date":"2025-04-01","icon":"http://localhost/uploads/fair.png",
			 "createdAt":"2025-01-02T08:00:00.000Z","updatedAt":"2025-01-02T08:00:00.000Z"}]}`)
	})

	events, err := c.ListEvents(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Nil(t, events[0].Icon)
	assert.Equal(t, "2025-03-14", events[0].DateValue())
	require.NotNil(t, events[1].Icon)
	assert.Equal(t, "http://localhost/uploads/fair.png", *events[1].Icon)
	assert.Equal(t, "2025-04-01", events[1].DateValue())
}

func TestCreateEventMultipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Sports Day", r.FormValue("title"))
		assert.Equal(t, "10:00 AM - 1:00 PM", r.FormValue("time"))
		assert.Equal(t, "Field", r.FormValue("location"))
		assert.Equal(t, "2025-03-14", r.FormValue("date"))

		file, hdr, err := r.FormFile("icon")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "icon.png", hdr.Filename)
		assert.Equal(t, "image/png", hdr.Header.Get("Content-Type"))
		data, _ := io.ReadAll(file)
		assert.Equal(t, []byte("png-bytes"), data)

		writeJSON(w, http.StatusCreated, map[string]any{"message": "Event created", "data": map[string]int{"id": 7}})
	})

	msg, err := c.CreateEvent(context.Background(), "tok", EventInput{
		Title:    "Sports Day",
		Time:     "10:00 AM - 1:00 PM",
		Location: "Field",
		Date:     "2025-03-14",
		Icon:     &File{Name: "icon.png", ContentType: "image/png", Data: []byte("png-bytes")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Event created", msg)
}

func TestUpdateEventWithoutIcon(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/admin/events/9", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, _, err := r.FormFile("icon")
		assert.ErrorIs(t, err, http.ErrMissingFile)
		writeJSON(w, http.StatusOK, map[string]any{"message": "Event updated"})
	})

	msg, err := c.UpdateEvent(context.Background(), "tok", 9, EventInput{Title: "t", Time: "x", Location: "l", Date: "2025-01-01"})
	require.NoError(t, err)
	assert.Equal(t, "Event updated", msg)
}

func TestListContactsPassesPagingAndDecodesStringMeta(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		_, _ = io.WriteString(w, `{"success":true,"message":"ok","data":[
			{"id":3,"name":"Rahim","phone":"017","subject":"Admission","message":"Hello","createdAt":"2025-01-01T08:00:00Z","updatedAt":"2025-01-01T08:00:00Z"}],
			"meta":{"page":"2","limit":"20","total":21,"totalPages":2}}`)
	})

	page, err := c.ListContacts(context.Background(), "tok", 2, 20)
	require.NoError(t, err)
	require.Len(t, page.Contacts, 1)
	assert.True(t, page.Contacts[0].Unread())
	require.NotNil(t, page.Meta)
	assert.Equal(t, 2, page.Meta.Page)
	assert.Equal(t, 20, page.Meta.Limit)
	assert.Equal(t, 21, page.Meta.Total)
	assert.Equal(t, 2, page.Meta.TotalPages)
}

func TestListContactsOmitsUnsetPaging(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		_, _ = io.WriteString(w, `{"data":[]}`)
	})

	page, err := c.ListContacts(context.Background(), "tok", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Contacts)
	assert.Nil(t, page.Meta)
}

func TestUpdateContactNote(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/admin/contact-forms/3/note", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "called back", body["note"])
		writeJSON(w, http.StatusOK, map[string]any{"message": "Note saved"})
	})

	msg, err := c.UpdateContactNote(context.Background(), "tok", 3, "called back")
	require.NoError(t, err)
	assert.Equal(t, "Note saved", msg)
}

func TestUploadGallerySendsRepeatedFiles(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		files := r.MultipartForm.File["files"]
		require.Len(t, files, 2)
		assert.Equal(t, "a.jpg", files[0].Filename)
		assert.Equal(t, "b.png", files[1].Filename)
		writeJSON(w, http.StatusCreated, map[string]any{"message": "Uploaded"})
	})

	msg, err := c.UploadGallery(context.Background(), "tok", []*File{
		{Name: "a.jpg", ContentType: "image/jpeg", Data: []byte{0xFF, 0xD8}},
		{Name: "b.png", ContentType: "image/png", Data: []byte{0x89, 0x50}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Uploaded", msg)
}

func TestUploadGalleryRequiresFiles(t *testing.T) {
	c := NewClient("http://127.0.0.1:0", time.Second)
	_, err := c.UploadGallery(context.Background(), "tok", nil)
	assert.Error(t, err)
}

func TestReorderGallery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/gallery/reorder", r.URL.Path)
		var body map[string]int64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(5), body["id"])
		assert.Equal(t, int64(2), body["newPosition"])
		writeJSON(w, http.StatusOK, map[string]any{"message": "Reordered"})
	})

	_, err := c.ReorderGallery(context.Background(), "tok", 5, 2)
	require.NoError(t, err)
}

func TestGetSiteSettingsToleratesMissingSections(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"data":{"hero":{"title":"Welcome","subtitle":"Learn","heroImage":"/uploads/h.jpg"},"social":null}}`)
	})

	s, err := c.GetSiteSettings(context.Background(), "tok")
	require.NoError(t, err)
	require.NotNil(t, s.Hero)
	assert.Equal(t, "Welcome", s.Hero.Title)
	assert.Nil(t, s.Social)
	assert.Nil(t, s.OpeningHours)
	assert.Empty(t, s.Campuses)
}

func TestUpdateSiteSetting(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "hero", r.FormValue("key"))
		assert.JSONEq(t, `{"title":"Hi","subtitle":"There"}`, r.FormValue("value"))
		_, hdr, err := r.FormFile("heroImage")
		require.NoError(t, err)
		assert.Equal(t, "hero.jpg", hdr.Filename)
		writeJSON(w, http.StatusOK, map[string]any{"message": "Settings updated"})
	})

	msg, err := c.UpdateSiteSetting(context.Background(), "tok", "hero",
		[]byte(`{"title":"Hi","subtitle":"There"}`),
		&File{Name: "hero.jpg", ContentType: "image/jpeg", Data: []byte{0xFF, 0xD8}})
	require.NoError(t, err)
	assert.Equal(t, "Settings updated", msg)
}

func TestObserverSeesEndpointAndStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"message": "Event not found"})
	})

	var mu sync.Mutex
	var endpoint string
	var status int
	c.WithObserver(func(e string, s int, _ time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		endpoint, status = e, s
	})

	_, err := c.DeleteEvent(context.Background(), "tok", 4)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "DELETE /admin/events/{id}", endpoint)
	assert.Equal(t, http.StatusNotFound, status)
}
