// Package views renders page keys into JSON view models backed by embedded
// mock fixtures, and acknowledges the form actions each page offers.
package views

import (
	"io/fs"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"

	"github.com/aussiebroadwan/expenseflow/internal/expense/domain"
)

// View is the rendered model of one page.
type View struct {
	Page       domain.PageKey `json:"page"`
	Requested  string         `json:"requested,omitempty"`
	Title      string         `json:"title"`
	Variant    string         `json:"variant,omitempty"`
	Highlights []Highlight    `json:"highlights,omitempty"`
	Stats      []Stat         `json:"stats,omitempty"`
	Records    []Record       `json:"records"`
	Total      int            `json:"total"`
	Matched    int            `json:"matched"`
	Actions    []string       `json:"actions,omitempty"`
}

// Router maps page keys to views. It is immutable once built and safe for
// concurrent use.
type Router struct {
	catalog  map[domain.PageKey]*fixture
	actions  map[domain.PageKey]map[string]action
	validate *validator.Validate
	policy   *bluemonday.Policy
}

// NewRouter loads the embedded fixtures.
func NewRouter() (*Router, error) {
	return newRouter(fixtureFS)
}

// MustNewRouter is NewRouter for init paths; it panics on a broken fixture.
func MustNewRouter() *Router {
	r, err := NewRouter()
	if err != nil {
		panic(err)
	}
	return r
}

func newRouter(fsys fs.FS) (*Router, error) {
	catalog, err := loadCatalog(fsys)
	if err != nil {
		return nil, err
	}
	return &Router{
		catalog:  catalog,
		actions:  registry(),
		validate: newValidator(),
		policy:   bluemonday.StrictPolicy(),
	}, nil
}

// Render dispatches key to its view. Unknown keys render the dashboard and
// report the original key in View.Requested. The session role picks the
// variant for pages that have one.
func (r *Router) Render(s domain.Session, key domain.PageKey, q Query) (View, error) {
	page := domain.ParsePage(key.String())

	f := r.catalog[page]
	variant, title, highlights, all := f.resolve(s.Role())

	matched := make([]Record, 0, len(all))
	for _, rec := range all {
		if f.match(rec, q) {
			matched = append(matched, rec)
		}
	}

	v := View{
		Page:       page,
		Title:      title,
		Variant:    variant,
		Highlights: highlights,
		Stats:      computeStats(f.Stats, all),
		Records:    matched,
		Total:      len(all),
		Matched:    len(matched),
		Actions:    r.Actions(page),
	}
	if page != key {
		v.Requested = key.String()
	}
	return v, nil
}

// Actions lists the action names page accepts, sorted.
func (r *Router) Actions(page domain.PageKey) []string {
	acts := r.actions[page]
	if len(acts) == 0 {
		return nil
	}
	out := make([]string, 0, len(acts))
	for name := range acts {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
