// internal/common/database/migrations.go
// Idempotent schema setup for development and tests

package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/imadgeboyega/matcha-backend/internal/common/logging"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username VARCHAR(50) UNIQUE NOT NULL,
		email VARCHAR(255) UNIQUE,
		phone VARCHAR(32),
		first_name VARCHAR(100) NOT NULL DEFAULT '',
		last_name VARCHAR(100) NOT NULL DEFAULT '',
		birth_date DATE,
		gender VARCHAR(10),
		sexual_preference VARCHAR(20),
		latitude DOUBLE PRECISION,
		longitude DOUBLE PRECISION,
		email_verified BOOLEAN NOT NULL DEFAULT FALSE,
		fame_rating INTEGER NOT NULL DEFAULT 0,
		last_seen TIMESTAMP,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS tags (
		id SERIAL PRIMARY KEY,
		name VARCHAR(50) UNIQUE NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS user_tags (
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		tag_id INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (user_id, tag_id)
	)`,

	`CREATE TABLE IF NOT EXISTS likes (
		id SERIAL PRIMARY KEY,
		liker_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		liked_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		UNIQUE (liker_id, liked_id)
	)`,

	`CREATE TABLE IF NOT EXISTS blocks (
		id SERIAL PRIMARY KEY,
		blocker_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		blocked_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		UNIQUE (blocker_id, blocked_id)
	)`,

	`CREATE TABLE IF NOT EXISTS profile_views (
		id SERIAL PRIMARY KEY,
		viewer_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		viewed_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		viewed_at TIMESTAMP NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS reports (
		id SERIAL PRIMARY KEY,
		reporter_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		reported_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		reason TEXT,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS notifications (
		id SERIAL PRIMARY KEY,
		user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		type VARCHAR(20) NOT NULL CHECK (type IN ('like', 'view', 'message', 'match', 'unlike', 'event')),
		related_user_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
		message TEXT NOT NULL DEFAULT '',
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		read_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	)`,

	// Indexes
	`CREATE INDEX IF NOT EXISTS idx_users_last_seen ON users(last_seen)`,
	`CREATE INDEX IF NOT EXISTS idx_user_tags_tag_id ON user_tags(tag_id)`,
	`CREATE INDEX IF NOT EXISTS idx_likes_liked_id ON likes(liked_id)`,
	`CREATE INDEX IF NOT EXISTS idx_likes_created_at ON likes(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_profile_views_recent ON profile_views(viewed_at)`,
	`CREATE INDEX IF NOT EXISTS idx_blocks_blocked_id ON blocks(blocked_id)`,
	`CREATE INDEX IF NOT EXISTS idx_profile_views_viewed_at ON profile_views(viewed_id, viewed_at)`,
	`CREATE INDEX IF NOT EXISTS idx_notifications_user_read_created ON notifications(user_id, is_read, created_at)`,
}

// RunMigrations creates every table and index that does not exist yet
func RunMigrations(ctx context.Context, db *sqlx.DB) error {
	log := logging.WithComponent("migrations")

	for i, migration := range migrations {
		if _, err := db.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	log.Info().Int("statements", len(migrations)).Msg("database migrations completed")
	return nil
}
