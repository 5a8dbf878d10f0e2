package matching

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCriteria(t *testing.T) {
	q := url.Values{
		"age_min":      {"21"},
		"age_max":      {" 35 "},
		"fame_min":     {"0"},
		"location_max": {"12.5"},
		"tags":         {"Hiking, yoga"},
	}

	c, err := ParseCriteria(q)
	require.NoError(t, err)
	assert.Equal(t, 21, *c.AgeMin)
	assert.Equal(t, 35, *c.AgeMax)
	assert.Equal(t, 0, *c.FameMin)
	assert.Nil(t, c.FameMax)
	assert.Equal(t, 12.5, *c.MaxDistanceKm)
	assert.Equal(t, []string{"hiking", "yoga"}, c.Tags)
}

func TestParseCriteriaEmpty(t *testing.T) {
	c, err := ParseCriteria(url.Values{"age_min": {""}, "tags": {""}})
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestParseCriteriaRejectsMalformed(t *testing.T) {
	tests := []url.Values{
		{"age_min": {"abc"}},
		{"age_max": {"-1"}},
		{"fame_min": {"1.5"}},
		{"fame_max": {"lots"}},
		{"location_max": {"far"}},
		{"location_max": {"-3"}},
		{"location_max": {"NaN"}},
	}

	for _, q := range tests {
		_, err := ParseCriteria(q)
		assert.ErrorIs(t, err, ErrInvalidCriteria, q.Encode())
	}
}

func TestParseLimit(t *testing.T) {
	n, err := ParseLimit("", 50, 200)
	require.NoError(t, err)
	assert.Equal(t, 50, n)

	n, err = ParseLimit("10", 50, 200)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	n, err = ParseLimit("1000", 50, 200)
	require.NoError(t, err)
	assert.Equal(t, 200, n)

	for _, raw := range []string{"0", "-4", "ten"} {
		_, err := ParseLimit(raw, 50, 200)
		assert.ErrorIs(t, err, ErrInvalidCriteria, raw)
	}
}

func TestParseSuggestionQuery(t *testing.T) {
	q, err := ParseSuggestionQuery(url.Values{"sort": {"fame"}, "limit": {"5"}, "fame_min": {"3"}}, 50, 200)
	require.NoError(t, err)
	assert.Equal(t, SortFame, q.Sort)
	assert.Equal(t, 5, q.Limit)
	assert.Equal(t, 3, *q.Criteria.FameMin)

	_, err = ParseSuggestionQuery(url.Values{"limit": {"x"}}, 50, 200)
	assert.ErrorIs(t, err, ErrInvalidCriteria)
}
