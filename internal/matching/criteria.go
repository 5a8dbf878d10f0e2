package matching

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// Query keys understood by ParseCriteria.
const (
	KeyAgeMin      = "age_min"
	KeyAgeMax      = "age_max"
	KeyFameMin     = "fame_min"
	KeyFameMax     = "fame_max"
	KeyLocationMax = "location_max"
	KeyTags        = "tags"
)

// ParseCriteria reads the optional filter keys from a query. Missing or
// blank keys mean no constraint. A value that is not a non-negative number
// fails the whole call with ErrInvalidCriteria.
func ParseCriteria(q url.Values) (*Criteria, error) {
	c := &Criteria{}
	var err error

	if c.AgeMin, err = parseIntBound(q, KeyAgeMin); err != nil {
		return nil, err
	}
	if c.AgeMax, err = parseIntBound(q, KeyAgeMax); err != nil {
		return nil, err
	}
	if c.FameMin, err = parseIntBound(q, KeyFameMin); err != nil {
		return nil, err
	}
	if c.FameMax, err = parseIntBound(q, KeyFameMax); err != nil {
		return nil, err
	}

	if raw := strings.TrimSpace(q.Get(KeyLocationMax)); raw != "" {
		v, perr := strconv.ParseFloat(raw, 64)
		if perr != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s must be a non-negative number", ErrInvalidCriteria, KeyLocationMax)
		}
		c.MaxDistanceKm = &v
	}

	if raw := q.Get(KeyTags); raw != "" {
		c.Tags = ParseTagList(raw)
	}

	return c, nil
}

func parseIntBound(q url.Values, key string) (*int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return nil, fmt.Errorf("%w: %s must be a non-negative integer", ErrInvalidCriteria, key)
	}
	return &v, nil
}

// ParseLimit reads a result limit. Blank means def; values above ceiling are
// clamped; zero, negative and non-numeric values are rejected.
func ParseLimit(raw string, def, ceiling int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: limit must be a positive integer", ErrInvalidCriteria)
	}
	if ceiling > 0 && v > ceiling {
		v = ceiling
	}
	return v, nil
}
