package domain

type SiteSettings struct {
	Hero         *Hero         `json:"hero"`
	Social       *Social       `json:"social"`
	Contact      []ContactItem `json:"contact"`
	Campuses     []Campus      `json:"campuses"`
	OpeningHours *OpeningHours `json:"openingHours"`
	Testimonials []Testimonial `json:"testimonials"`
}

type Hero struct {
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	HeroImage string `json:"heroImage"`
}

type Social struct {
	Facebook  string `json:"facebook"`
	Twitter   string `json:"twitter"`
	Instagram string `json:"instagram"`
	Youtube   string `json:"youtube"`
}

// Contact item names the public site recognises.
const (
	ContactPhone        = "Phone"
	ContactEmail        = "Email"
	ContactAddress      = "Address"
	ContactMainCampus   = "Main Campus"
	ContactWorkingHours = "Working Hours"
)

type ContactItem struct {
	Name        string `json:"name"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

type Campus struct {
	ID           int64  `json:"id,omitempty"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	GoogleMapURL string `json:"googleMapUrl"`
}

type OpeningHours struct {
	Monday    string `json:"monday"`
	Tuesday   string `json:"tuesday"`
	Wednesday string `json:"wednesday"`
	Thursday  string `json:"thursday"`
	Friday    string `json:"friday"`
	Saturday  string `json:"saturday"`
	Sunday    string `json:"sunday"`
}

type Testimonial struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	Value    string `json:"value"`
}
