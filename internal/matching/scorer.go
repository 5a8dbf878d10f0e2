package matching

import "math"

const (
	nearbyBonus    = 1000 // < 10 km
	cityBonus      = 500  // < 50 km
	regionBonus    = 200  // < 100 km
	farBonusBase   = 100
	sharedTagBonus = 50
)

// Score computes the affinity of a candidate for the viewer. Missing
// coordinates on either side contribute nothing.
func Score(candidate, viewer *Profile, viewerTags TagSet) int {
	score := 0
	if d, ok := Distance(viewer.Coordinates(), candidate.Coordinates()); ok {
		score += DistanceBonus(d)
	}
	score += sharedTagBonus * viewerTags.Intersect(candidate.Tags)
	score += candidate.FameRating
	return score
}

// DistanceBonus maps a distance in kilometers to its tier bonus.
func DistanceBonus(km float64) int {
	switch {
	case km < 10:
		return nearbyBonus
	case km < 50:
		return cityBonus
	case km < 100:
		return regionBonus
	}
	return max(0, farBonusBase-int(math.Floor(km/10)))
}
