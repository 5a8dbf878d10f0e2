package matching

import (
	"context"
	"errors"
	"fmt"
)

// Fame weights.
const (
	LikeWeight   = 10
	ViewWeight   = 1
	MutualWeight = 20
)

// FameFromCounts combines the edge counts into a rating.
func FameFromCounts(likes, views, mutual int) int {
	return LikeWeight*likes + ViewWeight*views + MutualWeight*mutual
}

// FameAggregate recomputes fame ratings from the full current edge set.
// Calls are idempotent and concurrent calls for the same profile converge on
// the last writer.
type FameAggregate struct {
	store FameStore
}

// NewFameAggregate creates a fame aggregate backed by store.
func NewFameAggregate(store FameStore) *FameAggregate {
	return &FameAggregate{store: store}
}

// Recompute derives and persists the rating of one profile. An unknown id
// yields 0 and ErrProfileNotFound.
func (f *FameAggregate) Recompute(ctx context.Context, userID int64) (int, error) {
	b, err := f.Breakdown(ctx, userID)
	if err != nil {
		return 0, err
	}

	if err := f.store.SetFameRating(ctx, userID, b.Rating); err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return 0, err
		}
		return 0, fmt.Errorf("failed to persist fame rating: %w", err)
	}

	RecordFameRecompute(b.Rating)
	return b.Rating, nil
}

// Breakdown returns the components and the rating they produce without
// persisting anything.
func (f *FameAggregate) Breakdown(ctx context.Context, userID int64) (*FameBreakdown, error) {
	b, err := f.store.FameCounts(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to count fame edges: %w", err)
	}
	b.UserID = userID
	b.Rating = FameFromCounts(b.LikesReceived, b.ViewsReceived, b.MutualLikes)
	return b, nil
}
