package forms

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/edulife/edulife-admin/internal/domain"
)

// Section is one independently saved part of the site settings.
type Section interface {
	// Key is the settings key the backend stores the section under.
	Key() string
	// Value is the JSON the backend expects for the key.
	Value() ([]byte, error)
}

// Settings section keys.
const (
	SectionHero         = "hero"
	SectionSocial       = "social"
	SectionContact      = "contact"
	SectionCampuses     = "campuses"
	SectionOpeningHours = "openingHours"
	SectionTestimonials = "testimonials"
)

// SettingsForms holds one populated form per settings section.
type SettingsForms struct {
	Hero         Hero
	Social       Social
	Contact      ContactSection
	Campuses     Campuses
	OpeningHours OpeningHours
	Testimonials Testimonials
}

// SettingsFrom populates every section form, tolerating absent sections.
func SettingsFrom(s *domain.SiteSettings) SettingsForms {
	if s == nil {
		s = &domain.SiteSettings{}
	}
	return SettingsForms{
		Hero:         HeroFrom(s.Hero),
		Social:       SocialFrom(s.Social),
		Contact:      ContactFrom(s.Contact),
		Campuses:     CampusesFrom(s.Campuses),
		OpeningHours: OpeningHoursFrom(s.OpeningHours),
		Testimonials: TestimonialsFrom(s.Testimonials),
	}
}

type Hero struct {
	Title    string `form:"title" label:"Title" validate:"min=3,max=100"`
	Subtitle string `form:"subtitle" label:"Subtitle" validate:"min=3,max=500"`
	// Image is the current hero image URL, shown next to the upload input.
	Image string `form:"-"`
}

func ParseHero(v url.Values) Hero {
	return Hero{
		Title:    strings.TrimSpace(v.Get("title")),
		Subtitle: strings.TrimSpace(v.Get("subtitle")),
	}
}

func HeroFrom(h *domain.Hero) Hero {
	if h == nil {
		return Hero{}
	}
	return Hero{Title: h.Title, Subtitle: h.Subtitle, Image: h.HeroImage}
}

func (h Hero) Key() string { return SectionHero }

// Value omits the image; a new one travels as the heroImage file part.
func (h Hero) Value() ([]byte, error) {
	return json.Marshal(struct {
		Title    string `json:"title"`
		Subtitle string `json:"subtitle"`
	}{h.Title, h.Subtitle})
}

type Social struct {
	Facebook  string `form:"facebook" label:"Facebook URL" validate:"omitempty,url"`
	Twitter   string `form:"twitter" label:"Twitter URL" validate:"omitempty,url"`
	Instagram string `form:"instagram" label:"Instagram URL" validate:"omitempty,url"`
	Youtube   string `form:"youtube" label:"YouTube URL" validate:"omitempty,url"`
}

func ParseSocial(v url.Values) Social {
	return Social{
		Facebook:  strings.TrimSpace(v.Get("facebook")),
		Twitter:   strings.TrimSpace(v.Get("twitter")),
		Instagram: strings.TrimSpace(v.Get("instagram")),
		Youtube:   strings.TrimSpace(v.Get("youtube")),
	}
}

func SocialFrom(s *domain.Social) Social {
	if s == nil {
		return Social{}
	}
	return Social{Facebook: s.Facebook, Twitter: s.Twitter, Instagram: s.Instagram, Youtube: s.Youtube}
}

func (s Social) Key() string { return SectionSocial }

func (s Social) Value() ([]byte, error) {
	return json.Marshal(domain.Social{
		Facebook:  s.Facebook,
		Twitter:   s.Twitter,
		Instagram: s.Instagram,
		Youtube:   s.Youtube,
	})
}

// ContactSection edits the five contact entries the public site knows.
type ContactSection struct {
	Phone                   string `form:"phone" label:"Phone" validate:"required"`
	PhoneDescription        string `form:"phoneDescription"`
	Email                   string `form:"email" label:"Email" validate:"email" message:"Invalid email"`
	EmailDescription        string `form:"emailDescription"`
	Address                 string `form:"address" label:"Address" validate:"required"`
	AddressDescription      string `form:"addressDescription"`
	MainCampus              string `form:"mainCampus" label:"Main Campus" validate:"required"`
	MainCampusDescription   string `form:"mainCampusDescription"`
	WorkingHours            string `form:"workingHours" label:"Working Hours" validate:"required" message:"Working Hours required"`
	WorkingHoursDescription string `form:"workingHoursDescription"`
}

func ParseContact(v url.Values) ContactSection {
	get := func(k string) string { return strings.TrimSpace(v.Get(k)) }
	return ContactSection{
		Phone:                   get("phone"),
		PhoneDescription:        get("phoneDescription"),
		Email:                   get("email"),
		EmailDescription:        get("emailDescription"),
		Address:                 get("address"),
		AddressDescription:      get("addressDescription"),
		MainCampus:              get("mainCampus"),
		MainCampusDescription:   get("mainCampusDescription"),
		WorkingHours:            get("workingHours"),
		WorkingHoursDescription: get("workingHoursDescription"),
	}
}

// ContactFrom maps entries by name; unknown names are ignored.
func ContactFrom(items []domain.ContactItem) ContactSection {
	var c ContactSection
	for _, item := range items {
		switch item.Name {
		case domain.ContactPhone:
			c.Phone, c.PhoneDescription = item.Value, item.Description
		case domain.ContactEmail:
			c.Email, c.EmailDescription = item.Value, item.Description
		case domain.ContactAddress:
			c.Address, c.AddressDescription = item.Value, item.Description
		case domain.ContactMainCampus:
			c.MainCampus, c.MainCampusDescription = item.Value, item.Description
		case domain.ContactWorkingHours:
			c.WorkingHours, c.WorkingHoursDescription = item.Value, item.Description
		}
	}
	return c
}

func (c ContactSection) Key() string { return SectionContact }

func (c ContactSection) Value() ([]byte, error) {
	return json.Marshal([]domain.ContactItem{
		{Name: domain.ContactPhone, Value: c.Phone, Description: c.PhoneDescription},
		{Name: domain.ContactEmail, Value: c.Email, Description: c.EmailDescription},
		{Name: domain.ContactAddress, Value: c.Address, Description: c.AddressDescription},
		{Name: domain.ContactMainCampus, Value: c.MainCampus, Description: c.MainCampusDescription},
		{Name: domain.ContactWorkingHours, Value: c.WorkingHours, Description: c.WorkingHoursDescription},
	})
}

type Campus struct {
	ID           int64  `form:"id"`
	Name         string `form:"name" label:"Campus name" validate:"required"`
	Address      string `form:"address" label:"Address" validate:"required"`
	Phone        string `form:"phone"`
	GoogleMapURL string `form:"googleMapUrl" label:"Google Map URL" validate:"omitempty,url"`
}

type Campuses struct {
	Items []Campus `form:"campuses" validate:"dive"`
}

// defaultCampuses seeds the form when the backend has no campuses yet.
var defaultCampuses = []string{"Khagrachari", "Lakshmichhari"}

// ParseCampuses reads rows campuses[0], campuses[1], ... until a row has no
// name input.
func ParseCampuses(v url.Values) Campuses {
	var c Campuses
	for i := 0; ; i++ {
		nameKey := indexedName("campuses", i, "name")
		if _, ok := v[nameKey]; !ok {
			break
		}
		id, _ := strconv.ParseInt(v.Get(indexedName("campuses", i, "id")), 10, 64)
		c.Items = append(c.Items, Campus{
			ID:           id,
			Name:         strings.TrimSpace(v.Get(nameKey)),
			Address:      strings.TrimSpace(v.Get(indexedName("campuses", i, "address"))),
			Phone:        strings.TrimSpace(v.Get(indexedName("campuses", i, "phone"))),
			GoogleMapURL: strings.TrimSpace(v.Get(indexedName("campuses", i, "googleMapUrl"))),
		})
	}
	return c
}

func CampusesFrom(list []domain.Campus) Campuses {
	if len(list) == 0 {
		c := Campuses{}
		for _, name := range defaultCampuses {
			c.Items = append(c.Items, Campus{Name: name})
		}
		return c
	}
	c := Campuses{Items: make([]Campus, 0, len(list))}
	for _, campus := range list {
		c.Items = append(c.Items, Campus{
			ID:           campus.ID,
			Name:         campus.Name,
			Address:      campus.Address,
			Phone:        campus.Phone,
			GoogleMapURL: campus.GoogleMapURL,
		})
	}
	return c
}

// Edit applies a row operation submitted instead of a save: "add" appends a
// blank campus, "remove-N" drops row N. It reports whether op was one.
func (c *Campuses) Edit(op string) bool {
	switch {
	case op == "add":
		c.Items = append(c.Items, Campus{})
		return true
	case strings.HasPrefix(op, "remove-"):
		i, err := strconv.Atoi(strings.TrimPrefix(op, "remove-"))
		if err != nil || i < 0 || i >= len(c.Items) {
			return true
		}
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return true
	}
	return false
}

// Field returns the input name of field in row i, for templates.
func (c Campuses) Field(i int, field string) string {
	return indexedName("campuses", i, field)
}

func (c Campuses) Key() string { return SectionCampuses }

func (c Campuses) Value() ([]byte, error) {
	out := make([]domain.Campus, 0, len(c.Items))
	for _, item := range c.Items {
		out = append(out, domain.Campus{
			ID:           item.ID,
			Name:         item.Name,
			Address:      item.Address,
			Phone:        item.Phone,
			GoogleMapURL: item.GoogleMapURL,
		})
	}
	return json.Marshal(out)
}

type OpeningHours struct {
	Sunday    string `form:"sunday"`
	Monday    string `form:"monday"`
	Tuesday   string `form:"tuesday"`
	Wednesday string `form:"wednesday"`
	Thursday  string `form:"thursday"`
	Friday    string `form:"friday"`
	Saturday  string `form:"saturday"`
}

// Day is one row of the opening hours form.
type Day struct {
	Key   string
	Label string
	Value string
}

// Days lists the week starting on Sunday.
func (o OpeningHours) Days() []Day {
	return []Day{
		{"sunday", "Sunday", o.Sunday},
		{"monday", "Monday", o.Monday},
		{"tuesday", "Tuesday", o.Tuesday},
		{"wednesday", "Wednesday", o.Wednesday},
		{"thursday", "Thursday", o.Thursday},
		{"friday", "Friday", o.Friday},
		{"saturday", "Saturday", o.Saturday},
	}
}

func ParseOpeningHours(v url.Values) OpeningHours {
	get := func(k string) string { return strings.TrimSpace(v.Get(k)) }
	return OpeningHours{
		Sunday:    get("sunday"),
		Monday:    get("monday"),
		Tuesday:   get("tuesday"),
		Wednesday: get("wednesday"),
		Thursday:  get("thursday"),
		Friday:    get("friday"),
		Saturday:  get("saturday"),
	}
}

func OpeningHoursFrom(o *domain.OpeningHours) OpeningHours {
	if o == nil {
		return OpeningHours{}
	}
	return OpeningHours{
		Sunday:    o.Sunday,
		Monday:    o.Monday,
		Tuesday:   o.Tuesday,
		Wednesday: o.Wednesday,
		Thursday:  o.Thursday,
		Friday:    o.Friday,
		Saturday:  o.Saturday,
	}
}

func (o OpeningHours) Key() string { return SectionOpeningHours }

func (o OpeningHours) Value() ([]byte, error) {
	return json.Marshal(domain.OpeningHours{
		Monday:    o.Monday,
		Tuesday:   o.Tuesday,
		Wednesday: o.Wednesday,
		Thursday:  o.Thursday,
		Friday:    o.Friday,
		Saturday:  o.Saturday,
		Sunday:    o.Sunday,
	})
}

// TestimonialSlots is the fixed number of testimonials the site shows.
const TestimonialSlots = 4

type Testimonial struct {
	Title    string `form:"title" label:"Title" validate:"required"`
	Subtitle string `form:"subtitle" label:"Subtitle" validate:"required"`
	Value    string `form:"value" label:"Value" validate:"required"`
}

type Testimonials struct {
	Items [TestimonialSlots]Testimonial `form:"testimonials" validate:"dive"`
}

func ParseTestimonials(v url.Values) Testimonials {
	var t Testimonials
	for i := range t.Items {
		t.Items[i] = Testimonial{
			Title:    strings.TrimSpace(v.Get(indexedName("testimonials", i, "title"))),
			Subtitle: strings.TrimSpace(v.Get(indexedName("testimonials", i, "subtitle"))),
			Value:    strings.TrimSpace(v.Get(indexedName("testimonials", i, "value"))),
		}
	}
	return t
}

// TestimonialsFrom fills the slots in order; extra testimonials are dropped
// and missing ones stay blank.
func TestimonialsFrom(list []domain.Testimonial) Testimonials {
	var t Testimonials
	for i, item := range list {
		if i >= TestimonialSlots {
			break
		}
		t.Items[i] = Testimonial{Title: item.Title, Subtitle: item.Subtitle, Value: item.Value}
	}
	return t
}

func (t Testimonials) Field(i int, field string) string {
	return indexedName("testimonials", i, field)
}

func (t Testimonials) Key() string { return SectionTestimonials }

func (t Testimonials) Value() ([]byte, error) {
	out := make([]domain.Testimonial, 0, TestimonialSlots)
	for i, item := range t.Items {
		out = append(out, domain.Testimonial{
			Name:     fmt.Sprintf("Testimonial %d", i+1),
			Title:    item.Title,
			Subtitle: item.Subtitle,
			Value:    item.Value,
		})
	}
	return json.Marshal(out)
}
