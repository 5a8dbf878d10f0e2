// internal/matching/store.go

package matching

import (
	"context"
	"time"
)

// ProfileStore reads the profiles, edges and tags the pipeline works over.
type ProfileStore interface {
	// GetProfile returns ErrProfileNotFound for an unknown id.
	GetProfile(ctx context.Context, userID int64) (*Profile, error)

	// ListCandidates returns every verified profile except the viewer, with
	// tags loaded.
	ListCandidates(ctx context.Context, viewerID int64) ([]*Profile, error)

	GetTagSet(ctx context.Context, userID int64) (TagSet, error)

	// ResolveTags maps normalized tag names to ids. Unknown names are skipped.
	ResolveTags(ctx context.Context, names []string) (TagSet, error)

	// BlockedIDs returns ids the user blocked or was blocked by.
	BlockedIDs(ctx context.Context, userID int64) (map[int64]struct{}, error)

	// ListMatches returns the profiles that like the user and are liked back,
	// ordered by id.
	ListMatches(ctx context.Context, userID int64) ([]*Profile, error)

	// ListLocated returns up to limit verified profiles with both
	// coordinates, skipping the viewer and the excluded ids, ordered by id.
	ListLocated(ctx context.Context, viewerID int64, exclude []int64, limit int) ([]*Profile, error)

	// ActiveSince lists ids of profiles seen at or after the given time,
	// plus both ends of likes and the targets of views recorded since then.
	ActiveSince(ctx context.Context, since time.Time) ([]int64, error)
}

// FameStore reads the edge counts a fame rating is derived from and persists
// the result.
type FameStore interface {
	// FameCounts returns ErrProfileNotFound for an unknown id.
	FameCounts(ctx context.Context, userID int64) (*FameBreakdown, error)

	// SetFameRating returns ErrProfileNotFound when no row was updated.
	SetFameRating(ctx context.Context, userID int64, rating int) error
}

// Store is the full persistence contract of the matching package.
type Store interface {
	ProfileStore
	FameStore
}
