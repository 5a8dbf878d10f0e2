// internal/matching/models.go

package matching

import (
	"time"
)

// Gender is the declared gender of a profile.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Preference is the declared sexual preference of a profile.
type Preference string

const (
	PreferenceHeterosexual Preference = "heterosexual"
	PreferenceHomosexual   Preference = "homosexual"
	PreferenceBisexual     Preference = "bisexual"
)

// Coordinates is a latitude/longitude pair in degrees.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Profile is the subset of a user that matching reads.
type Profile struct {
	ID               int64       `json:"id" db:"id"`
	Username         string      `json:"username" db:"username"`
	FirstName        string      `json:"first_name" db:"first_name"`
	LastName         string      `json:"last_name" db:"last_name"`
	BirthDate        *time.Time  `json:"birth_date,omitempty" db:"birth_date"`
	Gender           *Gender     `json:"gender,omitempty" db:"gender"`
	SexualPreference *Preference `json:"sexual_preference,omitempty" db:"sexual_preference"`
	Latitude         *float64    `json:"latitude,omitempty" db:"latitude"`
	Longitude        *float64    `json:"longitude,omitempty" db:"longitude"`
	Verified         bool        `json:"verified" db:"email_verified"`
	FameRating       int         `json:"fame_rating" db:"fame_rating"`
	LastSeen         *time.Time  `json:"last_seen,omitempty" db:"last_seen"`

	// Loaded separately from user_tags
	Tags TagSet `json:"-" db:"-"`
}

// Coordinates returns the profile location, or nil when either half is missing.
func (p *Profile) Coordinates() *Coordinates {
	if p == nil || p.Latitude == nil || p.Longitude == nil {
		return nil
	}
	return &Coordinates{Latitude: *p.Latitude, Longitude: *p.Longitude}
}

// HasOrientation reports whether both gender and preference are declared.
func (p *Profile) HasOrientation() bool {
	return p.Gender != nil && p.SexualPreference != nil
}

// Criteria is the optional filter bag supplied by a browse or search caller.
// A nil field means no constraint.
type Criteria struct {
	AgeMin        *int     `json:"age_min,omitempty" validate:"omitempty,min=0,max=150"`
	AgeMax        *int     `json:"age_max,omitempty" validate:"omitempty,min=0,max=150"`
	FameMin       *int     `json:"fame_min,omitempty" validate:"omitempty,min=0"`
	FameMax       *int     `json:"fame_max,omitempty" validate:"omitempty,min=0"`
	MaxDistanceKm *float64 `json:"location_max,omitempty" validate:"omitempty,gte=0"`
	Tags          []string `json:"tags,omitempty" validate:"omitempty,dive,min=1,max=50"`
}

// IsEmpty reports whether no constraint is set.
func (c *Criteria) IsEmpty() bool {
	return c == nil || (c.AgeMin == nil && c.AgeMax == nil &&
		c.FameMin == nil && c.FameMax == nil &&
		c.MaxDistanceKm == nil && len(c.Tags) == 0)
}

// ScoredCandidate is one ranked result. It is never persisted.
type ScoredCandidate struct {
	Profile    *Profile `json:"profile"`
	Score      int      `json:"score"`
	DistanceKm *float64 `json:"distance_km"`
	Age        *int     `json:"age"`
	SharedTags int      `json:"shared_tag_count"`
}

// MatchSummary is one mutual-like partner.
type MatchSummary struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

// MapUser is one located profile shown on the map.
type MapUser struct {
	ID         int64    `json:"id"`
	Username   string   `json:"username"`
	FirstName  string   `json:"first_name"`
	Age        *int     `json:"age"`
	Latitude   float64  `json:"lat"`
	Longitude  float64  `json:"lng"`
	DistanceKm *float64 `json:"distance_km"`
}

// FameBreakdown holds the components a fame rating is computed from.
type FameBreakdown struct {
	UserID        int64 `json:"user_id" db:"user_id"`
	LikesReceived int   `json:"likes_received" db:"likes_received"`
	ViewsReceived int   `json:"views_received" db:"views_received"`
	MutualLikes   int   `json:"mutual_likes" db:"mutual_likes"`
	Rating        int   `json:"rating" db:"-"`
}

// AgeAt returns the age in whole years on the given day.
func AgeAt(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

func ptr[T any](v T) *T {
	return &v
}
