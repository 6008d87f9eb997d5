// Package pagination keeps a paged list's page and limit in the URL query
// string and derives the controls shown under the list.
package pagination

import (
	"net/url"
	"slices"
	"strconv"

	"github.com/edulife/edulife-admin/internal/domain"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Limits are the page sizes offered to the administrator.
var Limits = []int{5, 10, 20, 30, 50}

// Params is a requested page. Zero fields were not given in the query.
type Params struct {
	Page  int
	Limit int
}

// FromQuery reads page and limit from q. Values that are not positive
// integers, and limits not offered in Limits, are treated as absent.
func FromQuery(q url.Values) Params {
	p := Params{Page: positive(q.Get("page"))}
	if l := positive(q.Get("limit")); slices.Contains(Limits, l) {
		p.Limit = l
	}
	return p
}

func positive(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0
	}
	return n
}

// LimitOption is one entry of the page-size selector.
type LimitOption struct {
	Value    int
	Selected bool
	URL      string
}

// View is everything the pagination controls render.
type View struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
	// Start and End are the 1-based bounds of the rows on this page.
	Start int
	End   int

	PrevDisabled bool
	NextDisabled bool
	PrevURL      string
	NextURL      string
	Limits       []LimitOption
	// Preserved are the query parameters other than page and limit, carried
	// by the page-size form.
	Preserved url.Values
}

// New resolves the current page from the query, falling back to the
// backend's meta and then to the defaults, and builds links on path that keep
// every other query parameter.
func New(path string, q url.Values, meta *domain.PageMeta) View {
	if meta == nil {
		meta = &domain.PageMeta{}
	}
	requested := FromQuery(q)

	page := firstPositive(requested.Page, meta.Page, DefaultPage)
	limit := firstPositive(requested.Limit, meta.Limit, DefaultLimit)
	total := max(meta.Total, 0)
	totalPages := meta.TotalPages
	if totalPages == 0 && total > 0 {
		totalPages = (total + limit - 1) / limit
	}

	v := View{
		Page:         page,
		Limit:        limit,
		Total:        total,
		TotalPages:   totalPages,
		End:          min(page*limit, total),
		PrevDisabled: page <= 1,
		NextDisabled: page >= totalPages || total == 0,
		PrevURL:      link(path, q, map[string]int{"page": page - 1}),
		NextURL:      link(path, q, map[string]int{"page": page + 1}),
		Preserved:    url.Values{},
	}
	if total > 0 {
		v.Start = (page-1)*limit + 1
	}

	for _, l := range Limits {
		v.Limits = append(v.Limits, LimitOption{
			Value:    l,
			Selected: l == limit,
			URL:      link(path, q, map[string]int{"limit": l, "page": 1}),
		})
	}
	for k, vals := range q {
		if k != "page" && k != "limit" {
			v.Preserved[k] = vals
		}
	}
	return v
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

// link copies q, overrides the given parameters and returns path?query.
func link(path string, q url.Values, set map[string]int) string {
	params := url.Values{}
	for k, vals := range q {
		params[k] = slices.Clone(vals)
	}
	for k, n := range set {
		params.Set(k, strconv.Itoa(n))
	}
	return path + "?" + params.Encode()
}
