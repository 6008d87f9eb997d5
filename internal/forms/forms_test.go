package forms

import (
	"encoding/json"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulife/edulife-admin/internal/domain"
)

func TestLoginValidation(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name  string
		form  Login
		field string
		want  string
	}{
		{"missing email", Login{Password: "secret"}, "email", "Email is required"},
		{"bad email", Login{Email: "nope", Password: "secret"}, "email", "Invalid email address"},
		{"long email", Login{Email: strings.Repeat("a", 45) + "@x.com", Password: "secret"}, "email", "Email must be at most 50 characters"},
		{"short password", Login{Email: "a@b.co", Password: "1234"}, "password", "Password must be at least 5 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.Validate(tt.form)
			require.True(t, errs.Any())
			assert.Equal(t, tt.want, errs.Get(tt.field))
		})
	}

	assert.Nil(t, v.Validate(Login{Email: "admin@school.edu", Password: "secret"}))
}

func TestParseLoginTrimsEmail(t *testing.T) {
	f := ParseLogin(url.Values{"email": {"  admin@school.edu "}, "password": {" pw "}})
	assert.Equal(t, "admin@school.edu", f.Email)
	assert.Equal(t, " pw ", f.Password)
}

func TestEventValidation(t *testing.T) {
	errs := NewValidator().Validate(ParseEvent(url.Values{"title": {"Sports Day"}}))
	assert.Equal(t, Errors{
		"time":     "Time is required",
		"location": "Location is required",
		"date":     "Date is required",
	}, errs)
}

func TestEventFromCutsDate(t *testing.T) {
	f := EventFrom(&domain.Event{Title: "Fair", Date: "2025-03-04T00:00:00.000Z"})
	assert.Equal(t, "2025-03-04", f.Date)
	assert.Equal(t, Event{}, EventFrom(nil))
}

func TestTeacherValidation(t *testing.T) {
	errs := NewValidator().Validate(Teacher{Name: "Ada"})
	assert.Equal(t, "Subject is required", errs.Get("subject"))
	assert.Equal(t, "Qualification is required", errs.Get("qualification"))
	assert.Empty(t, errs.Get("name"))
}

func TestHeroValidation(t *testing.T) {
	v := NewValidator()

	errs := v.Validate(Hero{Title: "Hi", Subtitle: strings.Repeat("s", 501)})
	assert.Equal(t, "Title must be at least 3 characters", errs.Get("title"))
	assert.Equal(t, "Subtitle must be at most 500 characters", errs.Get("subtitle"))

	assert.Nil(t, v.Validate(Hero{Title: "Welcome", Subtitle: "Learning for life"}))
}

func TestHeroValueOmitsImage(t *testing.T) {
	raw, err := Hero{Title: "Welcome", Subtitle: "Sub", Image: "http://x/hero.png"}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Welcome","subtitle":"Sub"}`, string(raw))
}

func TestSocialValidation(t *testing.T) {
	errs := NewValidator().Validate(Social{Facebook: "not a url", Youtube: "https://youtube.com/@school"})
	assert.Equal(t, Errors{"facebook": "Invalid Facebook URL"}, errs)
}

func TestContactSection(t *testing.T) {
	items := []domain.ContactItem{
		{Name: "Phone", Value: "+8801", Description: "Office"},
		{Name: "Email", Value: "info@school.edu"},
		{Name: "Fax", Value: "ignored"},
		{Name: "Working Hours", Value: "9-5"},
	}
	c := ContactFrom(items)
	assert.Equal(t, "+8801", c.Phone)
	assert.Equal(t, "Office", c.PhoneDescription)
	assert.Equal(t, "info@school.edu", c.Email)
	assert.Equal(t, "9-5", c.WorkingHours)

	errs := NewValidator().Validate(c)
	assert.Equal(t, Errors{
		"address":    "Address is required",
		"mainCampus": "Main Campus is required",
	}, errs)

	raw, err := c.Value()
	require.NoError(t, err)
	var out []domain.ContactItem
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Len(t, out, 5)
	assert.Equal(t, []string{"Phone", "Email", "Address", "Main Campus", "Working Hours"},
		[]string{out[0].Name, out[1].Name, out[2].Name, out[3].Name, out[4].Name})
}

func TestContactEmailRequiredAsValid(t *testing.T) {
	c := ContactSection{Phone: "1", Address: "a", MainCampus: "m", WorkingHours: "w"}
	assert.Equal(t, Errors{"email": "Invalid email"}, NewValidator().Validate(c))
}

func TestContactSectionMessageOverrides(t *testing.T) {
	c := ContactSection{Phone: "1", Email: "nope", Address: "a", MainCampus: "m"}
	assert.Equal(t, Errors{
		"email":        "Invalid email",
		"workingHours": "Working Hours required",
	}, NewValidator().Validate(c))
}

func TestNoteHasNoLengthLimit(t *testing.T) {
	assert.Nil(t, NewValidator().Validate(Note{}))
	assert.Nil(t, NewValidator().Validate(Note{Note: strings.Repeat("called back, ", 500)}))
}

func TestCampusesDefaultWhenEmpty(t *testing.T) {
	c := CampusesFrom(nil)
	require.Len(t, c.Items, 2)
	assert.Equal(t, "Khagrachari", c.Items[0].Name)
	assert.Equal(t, "Lakshmichhari", c.Items[1].Name)
	assert.Empty(t, c.Items[0].Address)
}

func TestParseCampusesAndValidate(t *testing.T) {
	v := url.Values{
		"campuses[0].id":           {"7"},
		"campuses[0].name":         {"Main"},
		"campuses[0].address":      {"Road 1"},
		"campuses[0].googleMapUrl": {"https://maps.example.com/main"},
		"campuses[1].name":         {""},
		"campuses[1].address":      {"Road 2"},
		"campuses[1].googleMapUrl": {"maps"},
	}
	c := ParseCampuses(v)
	require.Len(t, c.Items, 2)
	assert.Equal(t, int64(7), c.Items[0].ID)

	errs := NewValidator().Validate(c)
	assert.Equal(t, Errors{
		"campuses[1].name":         "Campus name is required",
		"campuses[1].googleMapUrl": "Invalid Google Map URL",
	}, errs)
}

func TestCampusesEdit(t *testing.T) {
	c := Campuses{Items: []Campus{{Name: "A"}, {Name: "B"}, {Name: "C"}}}

	assert.True(t, c.Edit("remove-1"))
	assert.Equal(t, []Campus{{Name: "A"}, {Name: "C"}}, c.Items)

	assert.True(t, c.Edit("add"))
	assert.Len(t, c.Items, 3)

	assert.True(t, c.Edit("remove-9"))
	assert.Len(t, c.Items, 3)

	assert.False(t, c.Edit(""))
	assert.False(t, c.Edit("save"))
}

func TestCampusesValueKeepsIDs(t *testing.T) {
	raw, err := Campuses{Items: []Campus{{ID: 3, Name: "Main", Address: "Road"}, {Name: "New", Address: "Lane"}}}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id":3,"name":"Main","address":"Road","phone":"","googleMapUrl":""},
		{"name":"New","address":"Lane","phone":"","googleMapUrl":""}
	]`, string(raw))
}

func TestOpeningHoursStartOnSunday(t *testing.T) {
	o := OpeningHoursFrom(&domain.OpeningHours{Sunday: "Closed", Monday: "8-4"})
	days := o.Days()
	require.Len(t, days, 7)
	assert.Equal(t, Day{"sunday", "Sunday", "Closed"}, days[0])
	assert.Equal(t, "saturday", days[6].Key)

	assert.Equal(t, OpeningHours{}, OpeningHoursFrom(nil))
	assert.Nil(t, NewValidator().Validate(OpeningHours{}))
}

func TestTestimonials(t *testing.T) {
	list := []domain.Testimonial{
		{Name: "x", Title: "Parents", Subtitle: "Happy", Value: "98%"},
		{Title: "Students", Subtitle: "Enrolled", Value: "1200"},
	}
	tf := TestimonialsFrom(list)
	assert.Equal(t, "Parents", tf.Items[0].Title)
	assert.Equal(t, Testimonial{}, tf.Items[3])

	errs := NewValidator().Validate(tf)
	assert.Equal(t, "Title is required", errs.Get("testimonials[2].title"))
	assert.Equal(t, "Value is required", errs.Get("testimonials[3].value"))
	assert.Empty(t, errs.Get("testimonials[0].title"))

	parsed := ParseTestimonials(url.Values{
		"testimonials[0].title":    {"A"},
		"testimonials[0].subtitle": {"B"},
		"testimonials[0].value":    {"C"},
	})
	raw, err := parsed.Value()
	require.NoError(t, err)
	var out []domain.Testimonial
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Len(t, out, TestimonialSlots)
	assert.Equal(t, "Testimonial 1", out[0].Name)
	assert.Equal(t, "Testimonial 4", out[3].Name)
	assert.Equal(t, "C", out[0].Value)
}

func TestSettingsFromToleratesMissingSections(t *testing.T) {
	f := SettingsFrom(&domain.SiteSettings{Hero: &domain.Hero{Title: "Welcome", HeroImage: "http://x/h.png"}})
	assert.Equal(t, "Welcome", f.Hero.Title)
	assert.Equal(t, "http://x/h.png", f.Hero.Image)
	assert.Equal(t, Social{}, f.Social)
	assert.Len(t, f.Campuses.Items, 2)

	assert.NotPanics(t, func() { SettingsFrom(nil) })
}

func TestSectionKeys(t *testing.T) {
	sections := []Section{Hero{}, Social{}, ContactSection{}, Campuses{}, OpeningHours{}, Testimonials{}}
	var keys []string
	for _, s := range sections {
		keys = append(keys, s.Key())
	}
	assert.Equal(t, []string{"hero", "social", "contact", "campuses", "openingHours", "testimonials"}, keys)
}
