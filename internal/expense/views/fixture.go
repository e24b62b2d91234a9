package views

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aussiebroadwan/expenseflow/internal/expense/domain"
)

//go:embed fixtures/*.yaml
var fixtureFS embed.FS

// Record is one mock row. Values come straight from YAML, so they are
// strings, numbers, bools, lists or nested maps.
type Record map[string]any

// Highlight is a static KPI card.
type Highlight struct {
	Label  string `yaml:"label" json:"label"`
	Value  string `yaml:"value" json:"value"`
	Detail string `yaml:"detail,omitempty" json:"detail,omitempty"`
}

type filterMode string

const (
	matchExact    filterMode = "exact"
	matchContains filterMode = "contains"
)

type filterSpec struct {
	Param  string     `yaml:"param"`
	Fields []string   `yaml:"fields"`
	Mode   filterMode `yaml:"mode"`
}

type statSpec struct {
	Label  string `yaml:"label"`
	Field  string `yaml:"field"`
	Equals string `yaml:"equals"`
	Sum    string `yaml:"sum"`
}

type variantSpec struct {
	Title      string         `yaml:"title"`
	Highlights []Highlight    `yaml:"highlights"`
	Records    []Record       `yaml:"records"`
	Set        map[string]any `yaml:"set"`
}

type fixture struct {
	Title      string                 `yaml:"title"`
	Search     []string               `yaml:"search"`
	Filters    []filterSpec           `yaml:"filters"`
	Stats      []statSpec             `yaml:"stats"`
	Highlights []Highlight            `yaml:"highlights"`
	Records    []Record               `yaml:"records"`
	Variants   map[string]variantSpec `yaml:"variants"`
}

// fixtureAliases lists pages that render another page's fixture.
var fixtureAliases = map[domain.PageKey]domain.PageKey{
	domain.PageDepartmentDashboard: domain.PageDashboard,
}

func loadCatalog(fsys fs.FS) (map[domain.PageKey]*fixture, error) {
	catalog := make(map[domain.PageKey]*fixture)

	for _, page := range domain.Pages() {
		if _, ok := fixtureAliases[page]; ok {
			continue
		}
		f, err := loadFixture(fsys, page)
		if err != nil {
			return nil, err
		}
		catalog[page] = f
	}

	for page, target := range fixtureAliases {
		catalog[page] = catalog[target]
	}
	return catalog, nil
}

func loadFixture(fsys fs.FS, page domain.PageKey) (*fixture, error) {
	name := path.Join("fixtures", page.String()+".yaml")
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", page, err)
	}

	var f fixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", page, err)
	}
	if strings.TrimSpace(f.Title) == "" {
		return nil, fmt.Errorf("fixture %s: missing title", page)
	}
	for i, flt := range f.Filters {
		if flt.Param == "" || len(flt.Fields) == 0 {
			return nil, fmt.Errorf("fixture %s: filter %d needs param and fields", page, i)
		}
		switch flt.Mode {
		case "":
			f.Filters[i].Mode = matchExact
		case matchExact, matchContains:
		default:
			return nil, fmt.Errorf("fixture %s: filter %s: unknown mode %q", page, flt.Param, flt.Mode)
		}
	}
	for role := range f.Variants {
		if _, ok := domain.ParseRole(role); !ok {
			return nil, fmt.Errorf("fixture %s: variant for unknown role %q", page, role)
		}
	}
	return &f, nil
}

// resolve applies the role variant, if any, and returns the effective
// title, highlights and records. Records are copied so callers may not
// mutate the catalog.
func (f *fixture) resolve(role domain.Role) (variant string, title string, highlights []Highlight, records []Record) {
	title = f.Title
	highlights = f.Highlights
	src := f.Records

	v, ok := f.Variants[role.String()]
	if ok {
		variant = role.String()
		if v.Title != "" {
			title = v.Title
		}
		if v.Highlights != nil {
			highlights = v.Highlights
		}
		if v.Records != nil {
			src = v.Records
		}
	}

	records = make([]Record, len(src))
	for i, rec := range src {
		cp := make(Record, len(rec)+len(v.Set))
		for k, val := range rec {
			cp[k] = val
		}
		for k, val := range v.Set {
			cp[k] = val
		}
		records[i] = cp
	}

	out := make([]Highlight, len(highlights))
	copy(out, highlights)
	return variant, title, out, records
}
