// Package filter compiles user-selected list filters into the query string
// dialect understood by the backend's list endpoints.
package filter

import (
	"fmt"
	"strings"
)

// Kind discriminates the three selectable filter dimensions.
type Kind int

const (
	KindCheckbox Kind = iota
	KindRadio
	KindRange
)

// Filter describes one selectable dimension of a list screen.
type Filter struct {
	Key     string
	Title   string
	Kind    Kind
	Options []string // value domain; informational only, selections are not validated against it
}

type (
	// Value is the current selection for one filter key.
	Value interface {
		empty() bool
		pairs(key string) []string
	}

	// Checkbox holds zero or more selected values.
	Checkbox []string

	// Radio holds a single selected value; "" means none.
	Radio string

	// Range holds a [lo, hi] pair; anything shorter means unset.
	Range []string
)

func (v Checkbox) empty() bool { return len(v) == 0 }
func (v Radio) empty() bool    { return v == "" }
func (v Range) empty() bool    { return len(v) < 2 }

func (v Checkbox) pairs(key string) []string {
	out := make([]string, 0, len(v))
	for _, it := range v {
		out = append(out, fmt.Sprintf("%s=%s", key, it))
	}
	return out
}

func (v Radio) pairs(key string) []string {
	return []string{fmt.Sprintf("%s=%s", key, v)}
}

func (v Range) pairs(key string) []string {
	return []string{fmt.Sprintf("%s_gte=%s&%s_lte=%s", key, v[0], key, v[1])}
}

// EmptyValue maps a Kind to its type-appropriate empty selection.
func EmptyValue(kind Kind) Value {
	switch kind {
	case KindRadio:
		return Radio("")
	case KindRange:
		return Range{}
	default:
		return Checkbox{}
	}
}

// Set holds the registered filters and the current selection per key.
// Query emission follows filter registration order.
type Set struct {
	filters  []Filter
	selected map[string]Value
}

func NewSet() *Set {
	return &Set{selected: make(map[string]Value)}
}

// SetFilters registers the filter descriptors and resets every selection to
// the empty value matching its kind.
func (s *Set) SetFilters(filters []Filter) {
	s.filters = filters
	s.selected = make(map[string]Value, len(filters))
	for _, f := range filters {
		s.selected[f.Key] = EmptyValue(f.Kind)
	}
}

// Filters returns the registered descriptors.
func (s *Set) Filters() []Filter { return s.filters }

// SetSelected overwrites the selection for a key. The value is not checked
// against the filter's option domain.
func (s *Set) SetSelected(key string, value Value) {
	s.selected[key] = value
}

// Selected returns the current selection for a key.
func (s *Set) Selected(key string) Value { return s.selected[key] }

// Query derives the canonical query string from the current selections.
// Keys with an empty selection are skipped; the trailing separator is
// trimmed. It is a pure derivation and may be called at any time.
func (s *Set) Query() string {
	var q strings.Builder
	for _, f := range s.filters {
		val, ok := s.selected[f.Key]
		if !ok || val.empty() {
			continue
		}
		for _, pair := range val.pairs(f.Key) {
			q.WriteString(pair)
			q.WriteByte('&')
		}
	}
	return strings.TrimSuffix(q.String(), "&")
}
