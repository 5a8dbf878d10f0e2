// internal/matching/ranking.go

package matching

import (
	"cmp"
	"slices"
	"time"
)

// SortStrategy selects the ranking order.
type SortStrategy string

const (
	SortScore    SortStrategy = "score"
	SortAge      SortStrategy = "age"
	SortLocation SortStrategy = "location"
	SortFame     SortStrategy = "fame"
	SortTags     SortStrategy = "tags"
)

// ParseSort maps a caller-supplied key to a strategy. Unknown or empty keys
// fall back to score.
func ParseSort(raw string) SortStrategy {
	switch s := SortStrategy(raw); s {
	case SortAge, SortLocation, SortFame, SortTags, SortScore:
		return s
	}
	return SortScore
}

// RankOptions configures one pipeline run.
type RankOptions struct {
	Sort         SortStrategy
	Criteria     *Criteria
	Limit        int
	ViewerTags   TagSet
	RequiredTags TagSet
	Blocked      map[int64]struct{}
	Now          time.Time
}

// Rank filters the population, scores and sorts what survives, applies the
// distance ceiling and truncates to the limit. An empty result is not an
// error.
func Rank(viewer *Profile, population []*Profile, opts RankOptions) []ScoredCandidate {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	in := FilterInput{
		Viewer:       viewer,
		Criteria:     opts.Criteria,
		Blocked:      opts.Blocked,
		RequiredTags: opts.RequiredTags,
		Now:          now,
	}

	viewerLoc := viewer.Coordinates()
	var results []ScoredCandidate
	for c := range Filter(population, in) {
		results = append(results, enrich(c, viewer, viewerLoc, opts.ViewerTags, now))
	}

	slices.SortStableFunc(results, comparator(ParseSort(string(opts.Sort))))

	// The distance ceiling runs after sorting so that the limit is taken
	// from the already ordered survivors.
	if opts.Criteria != nil && opts.Criteria.MaxDistanceKm != nil {
		ceiling := *opts.Criteria.MaxDistanceKm
		results = slices.DeleteFunc(results, func(sc ScoredCandidate) bool {
			return sc.DistanceKm == nil || *sc.DistanceKm > ceiling
		})
	}

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	if results == nil {
		results = []ScoredCandidate{}
	}
	return results
}

func enrich(c, viewer *Profile, viewerLoc *Coordinates, viewerTags TagSet, now time.Time) ScoredCandidate {
	sc := ScoredCandidate{
		Profile:    c,
		Score:      Score(c, viewer, viewerTags),
		SharedTags: viewerTags.Intersect(c.Tags),
	}
	if d, ok := Distance(viewerLoc, c.Coordinates()); ok {
		sc.DistanceKm = &d
	}
	if c.BirthDate != nil {
		sc.Age = ptr(AgeAt(*c.BirthDate, now))
	}
	return sc
}

// comparator returns the ordering for a strategy. Every strategy breaks ties
// on candidate id ascending.
func comparator(s SortStrategy) func(a, b ScoredCandidate) int {
	var primary func(a, b ScoredCandidate) int
	switch s {
	case SortAge:
		primary = func(a, b ScoredCandidate) int { return compareUnknownLast(a.Age, b.Age) }
	case SortLocation:
		primary = func(a, b ScoredCandidate) int { return compareUnknownLast(a.DistanceKm, b.DistanceKm) }
	case SortFame:
		primary = func(a, b ScoredCandidate) int { return cmp.Compare(b.Profile.FameRating, a.Profile.FameRating) }
	case SortTags:
		primary = func(a, b ScoredCandidate) int { return cmp.Compare(b.SharedTags, a.SharedTags) }
	default:
		primary = func(a, b ScoredCandidate) int { return cmp.Compare(b.Score, a.Score) }
	}
	return func(a, b ScoredCandidate) int {
		if c := primary(a, b); c != 0 {
			return c
		}
		return cmp.Compare(a.Profile.ID, b.Profile.ID)
	}
}

// compareUnknownLast orders ascending with nil values after every known one.
func compareUnknownLast[T cmp.Ordered](a, b *T) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return cmp.Compare(*a, *b)
}
