package matching

import (
	"time"
)

var testNow = time.Date(2026, time.June, 15, 12, 0, 0, 0, time.UTC)

// kmEast returns a longitude that lies roughly km kilometers east of 0 on
// the equator.
func kmEast(km float64) float64 {
	return km / 111.195
}

type profileOpt func(*Profile)

func newProfile(id int64, opts ...profileOpt) *Profile {
	p := &Profile{ID: id, Username: "user", Verified: true, Tags: NewTagSet()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func withGender(g Gender) profileOpt {
	return func(p *Profile) { p.Gender = &g }
}

func withPreference(pref Preference) profileOpt {
	return func(p *Profile) { p.SexualPreference = &pref }
}

func withLocation(lat, lon float64) profileOpt {
	return func(p *Profile) { p.Latitude, p.Longitude = &lat, &lon }
}

// withAge sets a birth date giving exactly years on testNow.
func withAge(years int) profileOpt {
	return func(p *Profile) {
		b := testNow.AddDate(-years, 0, -1)
		p.BirthDate = &b
	}
}

func withFame(f int) profileOpt {
	return func(p *Profile) { p.FameRating = f }
}

func withTags(ids ...int64) profileOpt {
	return func(p *Profile) { p.Tags = NewTagSet(ids...) }
}

func unverified() profileOpt {
	return func(p *Profile) { p.Verified = false }
}

func ids(results []ScoredCandidate) []int64 {
	out := make([]int64, len(results))
	for i, r := range results {
		out[i] = r.Profile.ID
	}
	return out
}
