package views

import (
	"fmt"
	"net/url"
	"strings"
)

// Query is the local search and filter state of a view.
type Query struct {
	Search  string
	Filters map[string]string
}

// SearchParam is the query parameter carrying the search term. Every other
// parameter is treated as a filter.
const SearchParam = "q"

// QueryFromValues builds a Query from URL query parameters.
func QueryFromValues(v url.Values) Query {
	q := Query{Search: v.Get(SearchParam), Filters: make(map[string]string)}
	for k := range v {
		if k == SearchParam {
			continue
		}
		q.Filters[k] = v.Get(k)
	}
	return q
}

func (f *fixture) match(rec Record, q Query) bool {
	if term := strings.TrimSpace(q.Search); term != "" && len(f.Search) > 0 {
		term = strings.ToLower(term)
		found := false
		for _, field := range f.Search {
			if anyValue(rec[field], func(s string) bool {
				return strings.Contains(strings.ToLower(s), term)
			}) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	for _, flt := range f.Filters {
		want := strings.TrimSpace(q.Filters[flt.Param])
		if want == "" || strings.EqualFold(want, "all") {
			continue
		}
		ok := false
		for _, field := range flt.Fields {
			if anyValue(rec[field], func(s string) bool {
				if flt.Mode == matchContains {
					return strings.Contains(strings.ToLower(s), strings.ToLower(want))
				}
				return strings.EqualFold(s, want)
			}) {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// anyValue reports whether pred holds for v, or for any element when v is
// a list.
func anyValue(v any, pred func(string) bool) bool {
	switch t := v.(type) {
	case nil:
		return false
	case []any:
		for _, e := range t {
			if anyValue(e, pred) {
				return true
			}
		}
		return false
	case map[string]any:
		return false
	case string:
		return pred(t)
	default:
		return pred(fmt.Sprint(t))
	}
}

// Stat is a computed summary figure.
type Stat struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

func computeStats(specs []statSpec, records []Record) []Stat {
	out := make([]Stat, 0, len(specs))
	for _, s := range specs {
		var v float64
		switch {
		case s.Sum != "":
			for _, rec := range records {
				v += number(rec[s.Sum])
			}
		case s.Field != "":
			for _, rec := range records {
				if anyValue(rec[s.Field], func(x string) bool { return strings.EqualFold(x, s.Equals) }) {
					v++
				}
			}
		default:
			v = float64(len(records))
		}
		out = append(out, Stat{Label: s.Label, Value: v})
	}
	return out
}

func number(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint64:
		return float64(n)
	case float64:
		return n
	}
	return 0
}
