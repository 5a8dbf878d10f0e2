package matching

import (
	"slices"
	"strings"
)

// TagSet is a set of tag ids held by one profile.
type TagSet map[int64]struct{}

// NewTagSet builds a set from ids, ignoring duplicates.
func NewTagSet(ids ...int64) TagSet {
	set := make(TagSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Add inserts an id.
func (s TagSet) Add(id int64) {
	s[id] = struct{}{}
}

// Has reports membership. A nil set holds nothing.
func (s TagSet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

// Intersect returns how many ids both sets hold.
func (s TagSet) Intersect(other TagSet) int {
	small, large := s, other
	if len(small) > len(large) {
		small, large = large, small
	}
	n := 0
	for id := range small {
		if large.Has(id) {
			n++
		}
	}
	return n
}

// HasAny reports whether the set holds at least one of the given ids.
func (s TagSet) HasAny(ids TagSet) bool {
	return s.Intersect(ids) > 0
}

// IDs returns the ids in ascending order.
func (s TagSet) IDs() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// NormalizeTagName lowercases a tag and keeps only letters, digits, '-' and '_'.
func NormalizeTagName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseTagList splits a comma-separated list into normalized, distinct names.
func ParseTagList(raw string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		name := NormalizeTagName(part)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}
