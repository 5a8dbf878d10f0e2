// internal/matching/service.go

package matching

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/imadgeboyega/matcha-backend/internal/common/logging"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidCriteria = errors.New("invalid filter criteria")
)

// Service defines the matching service interface
type Service interface {
	// Browse & search
	Suggestions(ctx context.Context, viewerID int64, q *SuggestionQuery) ([]ScoredCandidate, error)
	Search(ctx context.Context, viewerID int64, q *SuggestionQuery) ([]ScoredCandidate, error)

	// Matches & map
	Matches(ctx context.Context, userID int64) ([]MatchSummary, error)
	MapUsers(ctx context.Context, viewerID int64) ([]MapUser, error)

	// Fame
	RecomputeFame(ctx context.Context, userID int64) (int, error)
	FameBreakdown(ctx context.Context, userID int64) (*FameBreakdown, error)
	RecomputeActive(ctx context.Context) (int, error)

	// Cache
	InvalidateSuggestions(ctx context.Context, userIDs ...int64) error
}

// MapUserLimit caps the located profiles returned to the map
const MapUserLimit = 200

// Config holds the matching knobs
type Config struct {
	DefaultLimit int
	MaxLimit     int
	ActiveWindow time.Duration
}

// service implements the matching service
type service struct {
	store  Store
	fame   *FameAggregate
	cache  SuggestionCache
	config Config
	now    func() time.Time
}

// NewService creates a new matching service. A nil cache disables caching.
func NewService(store Store, cache SuggestionCache, config Config) Service {
	if cache == nil {
		cache = NopCache{}
	}
	if config.DefaultLimit <= 0 {
		config.DefaultLimit = 50
	}
	if config.MaxLimit <= 0 {
		config.MaxLimit = 200
	}
	return &service{
		store:  store,
		fame:   NewFameAggregate(store),
		cache:  cache,
		config: config,
		now:    time.Now,
	}
}

// Suggestions ranks candidates for the viewer, served from cache when fresh
func (s *service) Suggestions(ctx context.Context, viewerID int64, q *SuggestionQuery) ([]ScoredCandidate, error) {
	q = s.normalize(q)
	key := CacheKey(q.Sort, q.Criteria, q.Limit)

	if results, ok := s.cache.Get(ctx, viewerID, key); ok {
		RecordCacheResult(true)
		return results, nil
	}
	RecordCacheResult(false)

	results, err := s.rank(ctx, viewerID, q)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, viewerID, key, results)
	return results, nil
}

// Search runs the same pipeline as Suggestions but always reads the store
func (s *service) Search(ctx context.Context, viewerID int64, q *SuggestionQuery) ([]ScoredCandidate, error) {
	return s.rank(ctx, viewerID, s.normalize(q))
}

func (s *service) normalize(q *SuggestionQuery) *SuggestionQuery {
	if q == nil {
		q = &SuggestionQuery{}
	}
	out := *q
	out.Sort = ParseSort(string(out.Sort))
	if out.Limit <= 0 {
		out.Limit = s.config.DefaultLimit
	}
	if out.Limit > s.config.MaxLimit {
		out.Limit = s.config.MaxLimit
	}
	return &out
}

func (s *service) rank(ctx context.Context, viewerID int64, q *SuggestionQuery) ([]ScoredCandidate, error) {
	start := time.Now()

	viewer, err := s.store.GetProfile(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	population, err := s.store.ListCandidates(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	blocked, err := s.store.BlockedIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	var required TagSet
	if q.Criteria != nil && len(q.Criteria.Tags) > 0 {
		required, err = s.store.ResolveTags(ctx, q.Criteria.Tags)
		if err != nil {
			return nil, err
		}
		if required == nil {
			required = NewTagSet()
		}
	}

	results := Rank(viewer, population, RankOptions{
		Sort:         q.Sort,
		Criteria:     q.Criteria,
		Limit:        q.Limit,
		ViewerTags:   viewer.Tags,
		RequiredTags: required,
		Blocked:      blocked,
		Now:          s.now(),
	})

	RecordRank(q.Sort, len(results), time.Since(start))
	logging.Ctx(ctx).Debug().
		Int64("viewer", viewerID).
		Str("sort", string(q.Sort)).
		Int("population", len(population)).
		Int("results", len(results)).
		Msg("ranked candidates")

	return results, nil
}

// Matches lists mutual-like partners, skipping blocked users
func (s *service) Matches(ctx context.Context, userID int64) ([]MatchSummary, error) {
	if _, err := s.store.GetProfile(ctx, userID); err != nil {
		return nil, err
	}

	profiles, err := s.store.ListMatches(ctx, userID)
	if err != nil {
		return nil, err
	}
	blocked, err := s.store.BlockedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	matches := make([]MatchSummary, 0, len(profiles))
	for _, p := range profiles {
		if _, ok := blocked[p.ID]; ok {
			continue
		}
		matches = append(matches, MatchSummary{ID: p.ID, Username: p.Username, FirstName: p.FirstName})
	}
	return matches, nil
}

// MapUsers lists verified, located profiles the viewer is not blocked from
func (s *service) MapUsers(ctx context.Context, viewerID int64) ([]MapUser, error) {
	viewer, err := s.store.GetProfile(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	blocked, err := s.store.BlockedIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	exclude := make([]int64, 0, len(blocked))
	for id := range blocked {
		exclude = append(exclude, id)
	}

	profiles, err := s.store.ListLocated(ctx, viewerID, exclude, MapUserLimit)
	if err != nil {
		return nil, err
	}

	now := s.now()
	from := viewer.Coordinates()
	users := make([]MapUser, 0, len(profiles))
	for _, p := range profiles {
		at := p.Coordinates()
		if at == nil {
			continue
		}
		u := MapUser{
			ID:        p.ID,
			Username:  p.Username,
			FirstName: p.FirstName,
			Latitude:  at.Latitude,
			Longitude: at.Longitude,
		}
		if p.BirthDate != nil {
			u.Age = ptr(AgeAt(*p.BirthDate, now))
		}
		if km, ok := Distance(from, at); ok {
			u.DistanceKm = &km
		}
		users = append(users, u)
	}
	return users, nil
}

// RecomputeFame recomputes and persists the fame rating of a profile
func (s *service) RecomputeFame(ctx context.Context, userID int64) (int, error) {
	return s.fame.Recompute(ctx, userID)
}

// FameBreakdown returns the fame components without persisting
func (s *service) FameBreakdown(ctx context.Context, userID int64) (*FameBreakdown, error) {
	return s.fame.Breakdown(ctx, userID)
}

// RecomputeActive sweeps every profile seen within the active window and
// returns how many were recomputed
func (s *service) RecomputeActive(ctx context.Context) (int, error) {
	window := s.config.ActiveWindow
	if window <= 0 {
		window = 30 * 24 * time.Hour
	}

	ids, err := s.store.ActiveSince(ctx, s.now().Add(-window))
	if err != nil {
		return 0, fmt.Errorf("failed to list active profiles: %w", err)
	}

	done := 0
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		if _, err := s.fame.Recompute(ctx, id); err != nil {
			if errors.Is(err, ErrProfileNotFound) {
				continue
			}
			return done, err
		}
		done++
	}
	return done, nil
}

// InvalidateSuggestions drops cached suggestions of the given users
func (s *service) InvalidateSuggestions(ctx context.Context, userIDs ...int64) error {
	if len(userIDs) == 0 {
		return nil
	}
	return s.cache.Invalidate(ctx, userIDs...)
}
