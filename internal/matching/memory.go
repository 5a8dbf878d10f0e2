package matching

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"
)

type edge struct {
	from, to int64
}

// MemoryStore is an in-memory Store used by tests and local runs without a
// database.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[int64]*Profile
	tagIDs   map[string]int64
	likes    map[edge]time.Time
	blocks   map[edge]struct{}
	views    map[int64]int       // viewed id -> view count
	viewedAt map[int64]time.Time // viewed id -> latest view
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[int64]*Profile),
		tagIDs:   make(map[string]int64),
		likes:    make(map[edge]time.Time),
		blocks:   make(map[edge]struct{}),
		views:    make(map[int64]int),
		viewedAt: make(map[int64]time.Time),
	}
}

// AddProfile inserts or replaces a profile.
func (s *MemoryStore) AddProfile(p *Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *p
	if cp.Tags == nil {
		cp.Tags = NewTagSet()
	}
	s.profiles[p.ID] = &cp
}

// SetTags replaces the tags of a profile, creating unknown tag names.
func (s *MemoryStore) SetTags(userID int64, names ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return
	}
	p.Tags = NewTagSet()
	for _, name := range names {
		name = NormalizeTagName(name)
		id, ok := s.tagIDs[name]
		if !ok {
			id = int64(len(s.tagIDs) + 1)
			s.tagIDs[name] = id
		}
		p.Tags.Add(id)
	}
}

// AddLike records that from likes to.
func (s *MemoryStore) AddLike(from, to int64) {
	s.AddLikeAt(from, to, time.Now())
}

// AddLikeAt records a like created at the given time.
func (s *MemoryStore) AddLikeAt(from, to int64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.likes[edge{from, to}] = at
}

// RemoveLike deletes the like edge from -> to.
func (s *MemoryStore) RemoveLike(from, to int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.likes, edge{from, to})
}

// AddView records one view of viewed.
func (s *MemoryStore) AddView(viewer, viewed int64) {
	s.AddViewAt(viewer, viewed, time.Now())
}

// AddViewAt records one view of viewed at the given time.
func (s *MemoryStore) AddViewAt(viewer, viewed int64, at time.Time) {
	if viewer == viewed {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views[viewed]++
	if at.After(s.viewedAt[viewed]) {
		s.viewedAt[viewed] = at
	}
}

// AddBlock records that blocker blocked blocked.
func (s *MemoryStore) AddBlock(blocker, blocked int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blocks[edge{blocker, blocked}] = struct{}{}
}

// RemoveBlock deletes the block edge blocker -> blocked.
func (s *MemoryStore) RemoveBlock(blocker, blocked int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blocks, edge{blocker, blocked})
}

func (s *MemoryStore) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return clone(p), nil
}

func (s *MemoryStore) ListCandidates(ctx context.Context, viewerID int64) ([]*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		if p.ID == viewerID || !p.Verified {
			continue
		}
		out = append(out, clone(p))
	}
	slices.SortFunc(out, func(a, b *Profile) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *MemoryStore) GetTagSet(ctx context.Context, userID int64) (TagSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[userID]
	if !ok {
		return NewTagSet(), nil
	}
	return NewTagSet(p.Tags.IDs()...), nil
}

func (s *MemoryStore) ResolveTags(ctx context.Context, names []string) (TagSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := NewTagSet()
	for _, name := range names {
		if id, ok := s.tagIDs[NormalizeTagName(name)]; ok {
			set.Add(id)
		}
	}
	return set, nil
}

func (s *MemoryStore) BlockedIDs(ctx context.Context, userID int64) (map[int64]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make(map[int64]struct{})
	for e := range s.blocks {
		switch userID {
		case e.from:
			ids[e.to] = struct{}{}
		case e.to:
			ids[e.from] = struct{}{}
		}
	}
	return ids, nil
}

func (s *MemoryStore) ListMatches(ctx context.Context, userID int64) ([]*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Profile
	for e := range s.likes {
		if e.from != userID {
			continue
		}
		if _, back := s.likes[edge{e.to, userID}]; !back {
			continue
		}
		if p, ok := s.profiles[e.to]; ok {
			out = append(out, clone(p))
		}
	}
	slices.SortFunc(out, func(a, b *Profile) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *MemoryStore) ListLocated(ctx context.Context, viewerID int64, exclude []int64, limit int) ([]*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Profile
	for _, p := range s.profiles {
		if p.ID == viewerID || !p.Verified || p.Coordinates() == nil || slices.Contains(exclude, p.ID) {
			continue
		}
		out = append(out, clone(p))
	}
	slices.SortFunc(out, func(a, b *Profile) int { return cmp.Compare(a.ID, b.ID) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) ActiveSince(ctx context.Context, since time.Time) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := make(map[int64]struct{})
	for _, p := range s.profiles {
		if p.LastSeen != nil && !p.LastSeen.Before(since) {
			set[p.ID] = struct{}{}
		}
	}
	for e, at := range s.likes {
		if !at.Before(since) {
			set[e.from] = struct{}{}
			set[e.to] = struct{}{}
		}
	}
	for id, at := range s.viewedAt {
		if !at.Before(since) {
			set[id] = struct{}{}
		}
	}

	ids := make([]int64, 0, len(set))
	for id := range set {
		if _, ok := s.profiles[id]; ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (s *MemoryStore) FameCounts(ctx context.Context, userID int64) (*FameBreakdown, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.profiles[userID]; !ok {
		return nil, ErrProfileNotFound
	}
	b := &FameBreakdown{UserID: userID, ViewsReceived: s.views[userID]}
	for e := range s.likes {
		if e.to != userID {
			continue
		}
		b.LikesReceived++
		if _, mutual := s.likes[edge{userID, e.from}]; mutual {
			b.MutualLikes++
		}
	}
	return b, nil
}

func (s *MemoryStore) SetFameRating(ctx context.Context, userID int64, rating int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[userID]
	if !ok {
		return ErrProfileNotFound
	}
	p.FameRating = rating
	return nil
}

func clone(p *Profile) *Profile {
	cp := *p
	cp.Tags = NewTagSet(p.Tags.IDs()...)
	return &cp
}
