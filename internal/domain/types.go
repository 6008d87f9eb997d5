package domain

import (
	"strings"
	"time"
)

type Event struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Time      string    `json:"time"`
	Location  string    `json:"location"`
	Date      string    `json:"date"`
	Icon      *string   `json:"icon"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DateValue returns the event date as YYYY-MM-DD, the format date inputs expect.
func (e *Event) DateValue() string {
	return dateOnly(e.Date)
}

// EventDate parses the event date; the zero time is returned when the backend
// sent something unparseable.
func (e *Event) EventDate() time.Time {
	if t, err := time.Parse(time.RFC3339, e.Date); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", dateOnly(e.Date)); err == nil {
		return t
	}
	return time.Time{}
}

type Teacher struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Subject        string  `json:"subject"`
	Qualification  string  `json:"qualification"`
	ProfilePicture *string `json:"profilePicture"`
}

type Contact struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Unread reports whether nobody has left a note on the submission yet.
func (c *Contact) Unread() bool {
	return strings.TrimSpace(c.Note) == ""
}

type Photo struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// PageMeta is the pagination block the backend returns next to paged lists.
type PageMeta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type ContactPage struct {
	Contacts []Contact `json:"data"`
	Meta     *PageMeta `json:"meta"`
}

// Activity is a locally recorded admin mutation.
type Activity struct {
	ID        int64
	Action    string
	Entity    string
	EntityID  string
	Summary   string
	Actor     string
	CreatedAt time.Time
}

// Session is the authenticated administrator behind a request.
type Session struct {
	Token string
	User  *User
}

// Actor names the administrator for the activity log.
func (s *Session) Actor() string {
	if s == nil || s.User == nil || s.User.Email == "" {
		return "unknown"
	}
	return s.User.Email
}

func dateOnly(s string) string {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC().Format("2006-01-02")
	}
	if len(s) >= 10 {
		return s[:10]
	}
	return s
}
