// internal/notification/models.go

package notification

import (
	"time"
)

// Type represents the kind of event a notification reports
type Type string

const (
	TypeLike    Type = "like"
	TypeView    Type = "view"
	TypeMessage Type = "message"
	TypeMatch   Type = "match"
	TypeUnlike  Type = "unlike"
	TypeEvent   Type = "event"
)

// Valid reports whether t is a known notification type
func (t Type) Valid() bool {
	switch t {
	case TypeLike, TypeView, TypeMessage, TypeMatch, TypeUnlike, TypeEvent:
		return true
	}
	return false
}

// Notification represents a stored in-app notification
type Notification struct {
	ID            int64      `json:"id" db:"id"`
	UserID        int64      `json:"user_id" db:"user_id"`
	Type          Type       `json:"type" db:"type"`
	RelatedUserID *int64     `json:"related_user_id,omitempty" db:"related_user_id"`
	Message       string     `json:"message" db:"message"`
	IsRead        bool       `json:"is_read" db:"is_read"`
	ReadAt        *time.Time `json:"read_at,omitempty" db:"read_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// Payload is the real-time message relayed to the recipient's channel
type Payload struct {
	ID           int64     `json:"id"`
	Type         Type      `json:"type"`
	FromUserID   int64     `json:"from_user_id"`
	FromUserName string    `json:"from_user_name"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"created_at"`
}

// Contact holds what is needed to address a user outside the app
type Contact struct {
	UserID    int64   `db:"id"`
	Username  string  `db:"username"`
	FirstName string  `db:"first_name"`
	Email     *string `db:"email"`
	Phone     *string `db:"phone"`
}

// DisplayName prefers the first name over the username
func (c *Contact) DisplayName() string {
	if c == nil {
		return "Someone"
	}
	if c.FirstName != "" {
		return c.FirstName
	}
	if c.Username != "" {
		return c.Username
	}
	return "Someone"
}

// EmailMessage represents an outgoing email
type EmailMessage struct {
	To      string
	Subject string
	Body    string
}

// SMSMessage represents an outgoing text message
type SMSMessage struct {
	To   string
	Body string
}

// ListQuery represents pagination for the notification list
type ListQuery struct {
	Limit      int `validate:"min=1,max=100"`
	Offset     int `validate:"min=0"`
	UnreadOnly bool
}

// NotificationsResponse represents paginated notifications response
type NotificationsResponse struct {
	Notifications []*Notification `json:"notifications"`
	TotalCount    int             `json:"total_count"`
	UnreadCount   int             `json:"unread_count"`
	HasMore       bool            `json:"has_more"`
}

// UnreadCountResponse is returned by the unread-count endpoint
type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}
