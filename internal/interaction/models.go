// internal/interaction/models.go

package interaction

import "time"

// Report represents a user report filed against another user
type Report struct {
	ID         int64     `json:"id" db:"id"`
	ReporterID int64     `json:"reporter_id" db:"reporter_id"`
	ReportedID int64     `json:"reported_id" db:"reported_id"`
	Reason     *string   `json:"reason,omitempty" db:"reason"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// ReportRequest represents request to report a user
type ReportRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

// LikeResult describes the like edge after a like or unlike
type LikeResult struct {
	UserID int64 `json:"user_id"`
	Liked  bool  `json:"liked"`
	Match  bool  `json:"match"`
}
