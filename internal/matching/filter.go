// internal/matching/filter.go

package matching

import (
	"iter"
	"time"
)

// FilterInput carries everything the compatibility filter needs besides the
// candidate population itself.
type FilterInput struct {
	Viewer   *Profile
	Criteria *Criteria

	// Blocked holds ids blocked by the viewer or blocking the viewer.
	Blocked map[int64]struct{}

	// RequiredTags is the resolved tag filter. A nil set means no tag
	// constraint; a non-nil empty set means the names matched no known tag
	// and nothing passes.
	RequiredTags TagSet

	Now time.Time
}

// Filter lazily yields the candidates that pass every exclusion rule, in the
// order they were supplied.
func Filter(candidates []*Profile, in FilterInput) iter.Seq[*Profile] {
	return func(yield func(*Profile) bool) {
		for _, c := range candidates {
			if !Compatible(c, in) {
				continue
			}
			if !yield(c) {
				return
			}
		}
	}
}

// Compatible applies the exclusion rules to a single candidate.
func Compatible(c *Profile, in FilterInput) bool {
	viewer := in.Viewer
	if c == nil || viewer == nil {
		return false
	}

	// 1. never the viewer
	if c.ID == viewer.ID {
		return false
	}

	// 2. verified accounts only
	if !c.Verified {
		return false
	}

	// 3. blocked in either direction
	if _, blocked := in.Blocked[c.ID]; blocked {
		return false
	}

	// 4. orientation, both sides
	if !orientationCompatible(viewer, c) {
		return false
	}

	crit := in.Criteria

	// 5. age bounds; an unknown birth date is never excluded
	if crit != nil && c.BirthDate != nil && (crit.AgeMin != nil || crit.AgeMax != nil) {
		age := AgeAt(*c.BirthDate, in.Now)
		if crit.AgeMin != nil && age < *crit.AgeMin {
			return false
		}
		if crit.AgeMax != nil && age > *crit.AgeMax {
			return false
		}
	}

	// 6. fame bounds, inclusive
	if crit != nil {
		if crit.FameMin != nil && c.FameRating < *crit.FameMin {
			return false
		}
		if crit.FameMax != nil && c.FameRating > *crit.FameMax {
			return false
		}
	}

	// 7. at least one of the requested tags
	if in.RequiredTags != nil && !c.Tags.HasAny(in.RequiredTags) {
		return false
	}

	return true
}

// orientationCompatible is only enforced once the viewer has declared both a
// gender and a preference.
func orientationCompatible(viewer, c *Profile) bool {
	if !viewer.HasOrientation() {
		return true
	}
	return viewerAccepts(viewer, c) && candidateAccepts(viewer, c)
}

func viewerAccepts(viewer, c *Profile) bool {
	switch *viewer.SexualPreference {
	case PreferenceHeterosexual:
		switch *viewer.Gender {
		case GenderMale:
			return c.Gender != nil && *c.Gender == GenderFemale
		case GenderFemale:
			return c.Gender != nil && *c.Gender == GenderMale
		}
		return true
	case PreferenceHomosexual:
		return c.Gender != nil && *c.Gender == *viewer.Gender
	}
	return true
}

func candidateAccepts(viewer, c *Profile) bool {
	if c.SexualPreference == nil {
		return true
	}
	switch *c.SexualPreference {
	case PreferenceHeterosexual:
		return c.Gender != nil && *c.Gender != *viewer.Gender
	case PreferenceHomosexual:
		return c.Gender != nil && *c.Gender == *viewer.Gender
	}
	return true
}
