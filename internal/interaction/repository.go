// internal/interaction/repository.go

package interaction

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	UserExists(ctx context.Context, userID int64) (bool, error)

	// Likes
	CreateLike(ctx context.Context, likerID, likedID int64) (bool, error)
	DeleteLike(ctx context.Context, likerID, likedID int64) (bool, error)
	LikeExists(ctx context.Context, likerID, likedID int64) (bool, error)

	// Views
	RecordView(ctx context.Context, viewerID, viewedID int64) error

	// Blocks. CreateBlock also removes like edges in both directions.
	CreateBlock(ctx context.Context, blockerID, blockedID int64) (bool, error)
	DeleteBlock(ctx context.Context, blockerID, blockedID int64) (bool, error)
	IsBlocked(ctx context.Context, a, b int64) (bool, error)

	// Reports
	CreateReport(ctx context.Context, report *Report) error
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) UserExists(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) CreateLike(ctx context.Context, likerID, likedID int64) (bool, error) {
	query := `
		INSERT INTO likes (liker_id, liked_id)
		VALUES ($1, $2)
		ON CONFLICT (liker_id, liked_id) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, likerID, likedID)
	if err != nil {
		return false, fmt.Errorf("failed to create like: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *postgresRepository) DeleteLike(ctx context.Context, likerID, likedID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM likes WHERE liker_id = $1 AND liked_id = $2`, likerID, likedID)
	if err != nil {
		return false, fmt.Errorf("failed to delete like: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *postgresRepository) LikeExists(ctx context.Context, likerID, likedID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM likes WHERE liker_id = $1 AND liked_id = $2)`, likerID, likedID)
	if err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) RecordView(ctx context.Context, viewerID, viewedID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO profile_views (viewer_id, viewed_id) VALUES ($1, $2)`, viewerID, viewedID)
	if err != nil {
		return fmt.Errorf("failed to record view: %w", err)
	}
	return nil
}

func (r *postgresRepository) CreateBlock(ctx context.Context, blockerID, blockedID int64) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		INSERT INTO blocks (blocker_id, blocked_id)
		VALUES ($1, $2)
		ON CONFLICT (blocker_id, blocked_id) DO NOTHING`, blockerID, blockedID)
	if err != nil {
		return false, fmt.Errorf("failed to create block: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if rows == 0 {
		return false, nil
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM likes
		WHERE (liker_id = $1 AND liked_id = $2) OR (liker_id = $2 AND liked_id = $1)`,
		blockerID, blockedID)
	if err != nil {
		return false, fmt.Errorf("failed to remove likes: %w", err)
	}

	return true, tx.Commit()
}

func (r *postgresRepository) DeleteBlock(ctx context.Context, blockerID, blockedID int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM blocks WHERE blocker_id = $1 AND blocked_id = $2`, blockerID, blockedID)
	if err != nil {
		return false, fmt.Errorf("failed to delete block: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *postgresRepository) IsBlocked(ctx context.Context, a, b int64) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM blocks
			WHERE (blocker_id = $1 AND blocked_id = $2) OR (blocker_id = $2 AND blocked_id = $1)
		)`

	var blocked bool
	if err := r.db.GetContext(ctx, &blocked, query, a, b); err != nil {
		return false, fmt.Errorf("failed to check block: %w", err)
	}
	return blocked, nil
}

func (r *postgresRepository) CreateReport(ctx context.Context, report *Report) error {
	query := `
		INSERT INTO reports (reporter_id, reported_id, reason)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		report.ReporterID, report.ReportedID, report.Reason,
	).Scan(&report.ID, &report.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}
