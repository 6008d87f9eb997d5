package forms

import (
	"net/url"
	"strings"

	"github.com/edulife/edulife-admin/internal/domain"
)

type Login struct {
	Email    string `form:"email" label:"Email" validate:"required,email,min=3,max=50"`
	Password string `form:"password" label:"Password" validate:"required,min=5"`
}

func ParseLogin(v url.Values) Login {
	return Login{
		Email:    strings.TrimSpace(v.Get("email")),
		Password: v.Get("password"),
	}
}

// Event is the add/edit event form. The icon upload is handled separately.
type Event struct {
	Title    string `form:"title" label:"Title" validate:"required"`
	Time     string `form:"time" label:"Time" validate:"required"`
	Location string `form:"location" label:"Location" validate:"required"`
	Date     string `form:"date" label:"Date" validate:"required"`
}

func ParseEvent(v url.Values) Event {
	return Event{
		Title:    strings.TrimSpace(v.Get("title")),
		Time:     strings.TrimSpace(v.Get("time")),
		Location: strings.TrimSpace(v.Get("location")),
		Date:     strings.TrimSpace(v.Get("date")),
	}
}

// EventFrom pre-fills the edit form. The date is cut to YYYY-MM-DD so the
// date input accepts it.
func EventFrom(e *domain.Event) Event {
	if e == nil {
		return Event{}
	}
	return Event{
		Title:    e.Title,
		Time:     e.Time,
		Location: e.Location,
		Date:     e.DateValue(),
	}
}

// Teacher is the add/edit teacher form. The profile picture upload is handled
// separately.
type Teacher struct {
	Name          string `form:"name" label:"Name" validate:"required"`
	Subject       string `form:"subject" label:"Subject" validate:"required"`
	Qualification string `form:"qualification" label:"Qualification" validate:"required"`
}

func ParseTeacher(v url.Values) Teacher {
	return Teacher{
		Name:          strings.TrimSpace(v.Get("name")),
		Subject:       strings.TrimSpace(v.Get("subject")),
		Qualification: strings.TrimSpace(v.Get("qualification")),
	}
}

func TeacherFrom(t *domain.Teacher) Teacher {
	if t == nil {
		return Teacher{}
	}
	return Teacher{Name: t.Name, Subject: t.Subject, Qualification: t.Qualification}
}

// Note is the administrator's note on a contact submission; it may be empty.
type Note struct {
	Note string `form:"note" label:"Note"`
}

func ParseNote(v url.Values) Note {
	return Note{Note: strings.TrimSpace(v.Get("note"))}
}
