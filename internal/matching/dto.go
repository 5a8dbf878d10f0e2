package matching

import (
	"net/url"
)

// SuggestionQuery is the parsed form of a browse or search request.
type SuggestionQuery struct {
	Sort     SortStrategy `json:"sort" validate:"omitempty,oneof=score age location fame tags"`
	Criteria *Criteria    `json:"criteria" validate:"omitempty"`
	Limit    int          `json:"limit" validate:"required,min=1"`
}

// ParseSuggestionQuery reads sort, limit and the filter keys from a query
// string.
func ParseSuggestionQuery(q url.Values, defaultLimit, maxLimit int) (*SuggestionQuery, error) {
	criteria, err := ParseCriteria(q)
	if err != nil {
		return nil, err
	}
	limit, err := ParseLimit(q.Get("limit"), defaultLimit, maxLimit)
	if err != nil {
		return nil, err
	}
	return &SuggestionQuery{
		Sort:     ParseSort(q.Get("sort")),
		Criteria: criteria,
		Limit:    limit,
	}, nil
}

// SuggestionsResponse wraps ranked results for the API.
type SuggestionsResponse struct {
	Results []ScoredCandidate `json:"results"`
	Count   int               `json:"count"`
	Sort    SortStrategy      `json:"sort"`
	Limit   int               `json:"limit"`
}

// MatchesResponse lists mutual-like partners.
type MatchesResponse struct {
	Matches []MatchSummary `json:"matches"`
	Count   int            `json:"count"`
}

// MapUsersResponse lists located profiles for the map.
type MapUsersResponse struct {
	Users []MapUser `json:"users"`
	Count int       `json:"count"`
}

// FameResponse is returned by the fame endpoints.
type FameResponse struct {
	UserID     int64 `json:"user_id"`
	FameRating int   `json:"fame_rating"`
}
