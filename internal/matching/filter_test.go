package matching

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func filterIDs(viewer *Profile, population []*Profile, in FilterInput) []int64 {
	in.Viewer = viewer
	if in.Now.IsZero() {
		in.Now = testNow
	}
	var out []int64
	for p := range Filter(population, in) {
		out = append(out, p.ID)
	}
	return out
}

func TestFilterHardExclusions(t *testing.T) {
	viewer := newProfile(1)
	population := []*Profile{
		newProfile(1),
		newProfile(2, unverified()),
		newProfile(3),
		newProfile(4),
		newProfile(5),
	}

	got := filterIDs(viewer, population, FilterInput{
		Blocked: map[int64]struct{}{3: {}, 4: {}},
	})

	assert.Equal(t, []int64{5}, got)
}

func TestFilterOrientation(t *testing.T) {
	type candidate struct {
		gender *Gender
		pref   *Preference
	}
	g := func(v Gender) *Gender { return &v }
	p := func(v Preference) *Preference { return &v }

	tests := []struct {
		name      string
		viewer    []profileOpt
		candidate candidate
		want      bool
	}{
		{"hetero male sees hetero female", []profileOpt{withGender(GenderMale), withPreference(PreferenceHeterosexual)}, candidate{g(GenderFemale), p(PreferenceHeterosexual)}, true},
		{"hetero male sees female without preference", []profileOpt{withGender(GenderMale), withPreference(PreferenceHeterosexual)}, candidate{g(GenderFemale), nil}, true},
		{"hetero male sees bisexual female", []profileOpt{withGender(GenderMale), withPreference(PreferenceHeterosexual)}, candidate{g(GenderFemale), p(PreferenceBisexual)}, true},
		{"hetero male skips homosexual female", []profileOpt{withGender(GenderMale), withPreference(PreferenceHeterosexual)}, candidate{g(GenderFemale), p(PreferenceHomosexual)}, false},
		{"hetero male skips hetero male", []profileOpt{withGender(GenderMale), withPreference(PreferenceHeterosexual)}, candidate{g(GenderMale), p(PreferenceHeterosexual)}, false},
		{"hetero male skips bisexual male", []profileOpt{withGender(GenderMale), withPreference(PreferenceHeterosexual)}, candidate{g(GenderMale), p(PreferenceBisexual)}, false},
		{"hetero male skips unknown gender", []profileOpt{withGender(GenderMale), withPreference(PreferenceHeterosexual)}, candidate{nil, nil}, false},
		{"homosexual female sees homosexual female", []profileOpt{withGender(GenderFemale), withPreference(PreferenceHomosexual)}, candidate{g(GenderFemale), p(PreferenceHomosexual)}, true},
		{"homosexual female skips hetero female", []profileOpt{withGender(GenderFemale), withPreference(PreferenceHomosexual)}, candidate{g(GenderFemale), p(PreferenceHeterosexual)}, false},
		{"homosexual female skips male", []profileOpt{withGender(GenderFemale), withPreference(PreferenceHomosexual)}, candidate{g(GenderMale), nil}, false},
		{"bisexual male sees homosexual male", []profileOpt{withGender(GenderMale), withPreference(PreferenceBisexual)}, candidate{g(GenderMale), p(PreferenceHomosexual)}, true},
		{"bisexual male sees hetero female", []profileOpt{withGender(GenderMale), withPreference(PreferenceBisexual)}, candidate{g(GenderFemale), p(PreferenceHeterosexual)}, true},
		{"bisexual male skips hetero male", []profileOpt{withGender(GenderMale), withPreference(PreferenceBisexual)}, candidate{g(GenderMale), p(PreferenceHeterosexual)}, false},
		{"hetero other sees any declared gender", []profileOpt{withGender(GenderOther), withPreference(PreferenceHeterosexual)}, candidate{g(GenderMale), nil}, true},
		{"viewer without preference applies nothing", []profileOpt{withGender(GenderMale)}, candidate{g(GenderMale), p(PreferenceHeterosexual)}, true},
		{"viewer without gender applies nothing", []profileOpt{withPreference(PreferenceHeterosexual)}, candidate{g(GenderFemale), p(PreferenceHomosexual)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viewer := newProfile(1, tt.viewer...)
			c := newProfile(2)
			c.Gender = tt.candidate.gender
			c.SexualPreference = tt.candidate.pref

			got := Compatible(c, FilterInput{Viewer: viewer, Now: testNow})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterHeteroMaleNeverSeesNonAcceptingMales(t *testing.T) {
	viewer := newProfile(1, withGender(GenderMale), withPreference(PreferenceHeterosexual))
	var population []*Profile
	id := int64(2)
	for _, gender := range []Gender{GenderMale, GenderFemale, GenderOther} {
		for _, pref := range []Preference{PreferenceHeterosexual, PreferenceHomosexual, PreferenceBisexual} {
			population = append(population, newProfile(id, withGender(gender), withPreference(pref)))
			id++
		}
	}

	for p := range Filter(population, FilterInput{Viewer: viewer, Now: testNow}) {
		assert.NotEqual(t, GenderMale, *p.Gender)
	}
}

func TestFilterAgeBounds(t *testing.T) {
	viewer := newProfile(1)
	population := []*Profile{
		newProfile(2, withAge(20)),
		newProfile(3, withAge(25)),
		newProfile(4, withAge(30)),
		newProfile(5),
	}

	got := filterIDs(viewer, population, FilterInput{
		Criteria: &Criteria{AgeMin: ptr(25), AgeMax: ptr(30)},
	})
	assert.Equal(t, []int64{3, 4, 5}, got)

	// Inverted bounds admit only unknown ages
	got = filterIDs(viewer, population, FilterInput{
		Criteria: &Criteria{AgeMin: ptr(30), AgeMax: ptr(25)},
	})
	assert.Equal(t, []int64{5}, got)
}

func TestFilterAgeBirthdayBoundary(t *testing.T) {
	viewer := newProfile(1)
	birthdayTomorrow := testNow.AddDate(-25, 0, 1)
	c := newProfile(2)
	c.BirthDate = &birthdayTomorrow

	// Still 24 until tomorrow
	assert.False(t, Compatible(c, FilterInput{Viewer: viewer, Now: testNow, Criteria: &Criteria{AgeMin: ptr(25)}}))
	assert.True(t, Compatible(c, FilterInput{Viewer: viewer, Now: testNow, Criteria: &Criteria{AgeMax: ptr(24)}}))
}

func TestFilterFameBoundsInclusive(t *testing.T) {
	viewer := newProfile(1)
	population := []*Profile{
		newProfile(2, withFame(9)),
		newProfile(3, withFame(10)),
		newProfile(4, withFame(20)),
		newProfile(5, withFame(21)),
	}

	got := filterIDs(viewer, population, FilterInput{
		Criteria: &Criteria{FameMin: ptr(10), FameMax: ptr(20)},
	})
	assert.Equal(t, []int64{3, 4}, got)
}

func TestFilterZeroBoundIsAConstraint(t *testing.T) {
	viewer := newProfile(1)
	population := []*Profile{newProfile(2, withFame(0)), newProfile(3, withFame(5))}

	got := filterIDs(viewer, population, FilterInput{Criteria: &Criteria{FameMax: ptr(0)}})
	assert.Equal(t, []int64{2}, got)
}

func TestFilterTags(t *testing.T) {
	const hiking, yoga, travel = 1, 2, 3
	viewer := newProfile(1)
	population := []*Profile{
		newProfile(2, withTags(yoga, travel)),
		newProfile(3, withTags(travel)),
		newProfile(4, withTags(hiking)),
		newProfile(5),
	}

	got := filterIDs(viewer, population, FilterInput{RequiredTags: NewTagSet(hiking, yoga)})
	assert.Equal(t, []int64{2, 4}, got)

	// Nothing resolved: nobody passes
	got = filterIDs(viewer, population, FilterInput{RequiredTags: NewTagSet()})
	assert.Empty(t, got)

	// No tag constraint
	got = filterIDs(viewer, population, FilterInput{})
	assert.Equal(t, []int64{2, 3, 4, 5}, got)
}

func TestFilterIsLazy(t *testing.T) {
	viewer := newProfile(1)
	population := []*Profile{newProfile(2), newProfile(3), newProfile(4)}

	var first []int64
	for p := range Filter(population, FilterInput{Viewer: viewer, Now: testNow}) {
		first = append(first, p.ID)
		break
	}
	assert.Equal(t, []int64{2}, first)

	all := slices.Collect(Filter(population, FilterInput{Viewer: viewer, Now: testNow}))
	assert.Len(t, all, 3)
}
