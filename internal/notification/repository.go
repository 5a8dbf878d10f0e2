// internal/notification/repository.go

package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	List(ctx context.Context, userID int64, limit, offset int, unreadOnly bool) ([]*Notification, error)
	Count(ctx context.Context, userID int64, unreadOnly bool) (int, error)
	MarkAsRead(ctx context.Context, notificationID, userID int64) error
	MarkAllAsRead(ctx context.Context, userID int64) (int64, error)
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)

	// Contact lookup for the actor name and out-of-app delivery
	GetContact(ctx context.Context, userID int64) (*Contact, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, n *Notification) error {
	query := `
		INSERT INTO notifications (user_id, type, related_user_id, message, is_read)
		VALUES ($1, $2, $3, $4, FALSE)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		n.UserID, n.Type, n.RelatedUserID, n.Message,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *postgresRepository) List(ctx context.Context, userID int64, limit, offset int, unreadOnly bool) ([]*Notification, error) {
	query := `
		SELECT id, user_id, type, related_user_id, message, is_read, read_at, created_at
		FROM notifications
		WHERE user_id = $1 AND ($2 = FALSE OR is_read = FALSE)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`

	notifications := []*Notification{}
	if err := r.db.SelectContext(ctx, &notifications, query, userID, unreadOnly, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (r *postgresRepository) Count(ctx context.Context, userID int64, unreadOnly bool) (int, error) {
	query := `
		SELECT COUNT(*) FROM notifications
		WHERE user_id = $1 AND ($2 = FALSE OR is_read = FALSE)`

	var count int
	if err := r.db.GetContext(ctx, &count, query, userID, unreadOnly); err != nil {
		return 0, fmt.Errorf("failed to count notifications: %w", err)
	}
	return count, nil
}

func (r *postgresRepository) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	query := `
		UPDATE notifications
		SET is_read = TRUE, read_at = COALESCE(read_at, NOW())
		WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, notificationID, userID)
	if err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *postgresRepository) MarkAllAsRead(ctx context.Context, userID int64) (int64, error) {
	query := `
		UPDATE notifications
		SET is_read = TRUE, read_at = NOW()
		WHERE user_id = $1 AND is_read = FALSE`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications as read: %w", err)
	}
	return result.RowsAffected()
}

func (r *postgresRepository) DeleteOlderThan(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old notifications: %w", err)
	}
	return result.RowsAffected()
}

func (r *postgresRepository) GetContact(ctx context.Context, userID int64) (*Contact, error) {
	query := `
		SELECT id, username, COALESCE(first_name, '') AS first_name, email, phone
		FROM users WHERE id = $1`

	var contact Contact
	if err := r.db.GetContext(ctx, &contact, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return &contact, nil
}
