package diff

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"
)

// FieldSet is a set of changed attribute names.
// It is unordered; Names returns a sorted copy for deterministic output.
type FieldSet map[string]struct{}

// NewFieldSet returns a set holding names.
func NewFieldSet(names ...string) FieldSet {
	s := make(FieldSet, len(names))
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts name.
func (s FieldSet) Add(name string) {
	s[name] = struct{}{}
}

// Has reports whether name is present.
func (s FieldSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Remove deletes name.
func (s FieldSet) Remove(name string) {
	delete(s, name)
}

// Len returns the number of names.
func (s FieldSet) Len() int { return len(s) }

// Empty reports whether no attribute changed.
func (s FieldSet) Empty() bool { return len(s) == 0 }

// Names returns the sorted attribute names.
func (s FieldSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Without returns a copy of s minus names.
func (s FieldSet) Without(names ...string) FieldSet {
	out := maps.Clone(s)
	if out == nil {
		out = FieldSet{}
	}
	for _, n := range names {
		delete(out, n)
	}
	return out
}

func (s FieldSet) String() string {
	return "[" + strings.Join(s.Names(), " ") + "]"
}

// MarshalJSON encodes the set as a sorted array.
func (s FieldSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Names())
}

// UnmarshalJSON decodes an array of names.
func (s *FieldSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	*s = NewFieldSet(names...)
	return nil
}
