// internal/matching/repository.go

package matching

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const profileColumns = `
	u.id, u.username, u.first_name, u.last_name, u.birth_date,
	u.gender, u.sexual_preference, u.latitude, u.longitude,
	u.email_verified, u.fame_rating, u.last_seen`

// postgresStore implements Store using PostgreSQL
type postgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore creates a new PostgreSQL store
func NewPostgresStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

// GetProfile retrieves a profile with its tags
func (r *postgresStore) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	var p Profile
	query := `SELECT ` + profileColumns + ` FROM users u WHERE u.id = $1`

	if err := r.db.GetContext(ctx, &p, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	tags, err := r.GetTagSet(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.Tags = tags
	return &p, nil
}

// ListCandidates loads the verified population minus the viewer. The
// remaining exclusion rules run in Go.
func (r *postgresStore) ListCandidates(ctx context.Context, viewerID int64) ([]*Profile, error) {
	var profiles []*Profile
	query := `
		SELECT ` + profileColumns + `
		FROM users u
		WHERE u.email_verified = TRUE AND u.id <> $1
		ORDER BY u.id`

	if err := r.db.SelectContext(ctx, &profiles, query, viewerID); err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	if len(profiles) == 0 {
		return profiles, nil
	}

	ids := make([]int64, len(profiles))
	byID := make(map[int64]*Profile, len(profiles))
	for i, p := range profiles {
		ids[i] = p.ID
		p.Tags = NewTagSet()
		byID[p.ID] = p
	}

	var rows []struct {
		UserID int64 `db:"user_id"`
		TagID  int64 `db:"tag_id"`
	}
	tagQuery := `SELECT user_id, tag_id FROM user_tags WHERE user_id = ANY($1)`
	if err := r.db.SelectContext(ctx, &rows, tagQuery, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("failed to load candidate tags: %w", err)
	}
	for _, row := range rows {
		if p, ok := byID[row.UserID]; ok {
			p.Tags.Add(row.TagID)
		}
	}

	return profiles, nil
}

// GetTagSet returns the tag ids held by a user
func (r *postgresStore) GetTagSet(ctx context.Context, userID int64) (TagSet, error) {
	var ids []int64
	query := `SELECT tag_id FROM user_tags WHERE user_id = $1`

	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get user tags: %w", err)
	}
	return NewTagSet(ids...), nil
}

// ResolveTags maps names to ids, skipping unknown names
func (r *postgresStore) ResolveTags(ctx context.Context, names []string) (TagSet, error) {
	if len(names) == 0 {
		return NewTagSet(), nil
	}

	var ids []int64
	query := `SELECT id FROM tags WHERE name = ANY($1)`

	if err := r.db.SelectContext(ctx, &ids, query, pq.Array(names)); err != nil {
		return nil, fmt.Errorf("failed to resolve tags: %w", err)
	}
	return NewTagSet(ids...), nil
}

// BlockedIDs returns ids blocked by or blocking the user
func (r *postgresStore) BlockedIDs(ctx context.Context, userID int64) (map[int64]struct{}, error) {
	var ids []int64
	query := `
		SELECT blocked_id FROM blocks WHERE blocker_id = $1
		UNION
		SELECT blocker_id FROM blocks WHERE blocked_id = $1`

	if err := r.db.SelectContext(ctx, &ids, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get blocked users: %w", err)
	}

	blocked := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		blocked[id] = struct{}{}
	}
	return blocked, nil
}

// ListMatches returns mutual-like partners of the user
func (r *postgresStore) ListMatches(ctx context.Context, userID int64) ([]*Profile, error) {
	var profiles []*Profile
	query := `
		SELECT ` + profileColumns + `
		FROM likes mine
		JOIN likes theirs ON theirs.liker_id = mine.liked_id AND theirs.liked_id = mine.liker_id
		JOIN users u ON u.id = mine.liked_id
		WHERE mine.liker_id = $1
		ORDER BY u.id`

	if err := r.db.SelectContext(ctx, &profiles, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return profiles, nil
}

// ListLocated returns verified users with coordinates for the map
func (r *postgresStore) ListLocated(ctx context.Context, viewerID int64, exclude []int64, limit int) ([]*Profile, error) {
	if exclude == nil {
		exclude = []int64{}
	}

	var profiles []*Profile
	query := `
		SELECT ` + profileColumns + `
		FROM users u
		WHERE u.email_verified = TRUE
			AND u.latitude IS NOT NULL AND u.longitude IS NOT NULL
			AND u.id <> $1
			AND NOT (u.id = ANY($2))
		ORDER BY u.id
		LIMIT $3`

	if err := r.db.SelectContext(ctx, &profiles, query, viewerID, pq.Array(exclude), limit); err != nil {
		return nil, fmt.Errorf("failed to list located users: %w", err)
	}
	return profiles, nil
}

// ActiveSince lists users seen since the given time, or whose like and view
// edges changed since then
func (r *postgresStore) ActiveSince(ctx context.Context, since time.Time) ([]int64, error) {
	var ids []int64
	query := `
		SELECT id FROM users WHERE last_seen >= $1
		UNION
		SELECT liked_id FROM likes WHERE created_at >= $1
		UNION
		SELECT liker_id FROM likes WHERE created_at >= $1
		UNION
		SELECT viewed_id FROM profile_views WHERE viewed_at >= $1
		ORDER BY 1`

	if err := r.db.SelectContext(ctx, &ids, query, since); err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}
	return ids, nil
}

// FameCounts counts likes received, views received and mutual-like partners
func (r *postgresStore) FameCounts(ctx context.Context, userID int64) (*FameBreakdown, error) {
	var b FameBreakdown
	query := `
		SELECT
			u.id AS user_id,
			(SELECT COUNT(*) FROM likes l WHERE l.liked_id = u.id) AS likes_received,
			(SELECT COUNT(*) FROM profile_views v WHERE v.viewed_id = u.id) AS views_received,
			(SELECT COUNT(*) FROM likes l
				WHERE l.liked_id = u.id
				AND EXISTS (
					SELECT 1 FROM likes r
					WHERE r.liker_id = u.id AND r.liked_id = l.liker_id
				)) AS mutual_likes
		FROM users u
		WHERE u.id = $1`

	if err := r.db.GetContext(ctx, &b, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to count fame edges: %w", err)
	}
	return &b, nil
}

// SetFameRating overwrites the stored rating
func (r *postgresStore) SetFameRating(ctx context.Context, userID int64, rating int) error {
	query := `UPDATE users SET fame_rating = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, userID, rating)
	if err != nil {
		return fmt.Errorf("failed to set fame rating: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check fame update: %w", err)
	}
	if n == 0 {
		return ErrProfileNotFound
	}
	return nil
}
