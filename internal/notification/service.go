// internal/notification/service.go

package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/imadgeboyega/matcha-backend/internal/common/logging"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrContactNotFound      = errors.New("contact not found")
	ErrInvalidType          = errors.New("invalid notification type")
)

// Service defines the notification service interface
type Service interface {
	// Notify stores a notification for recipientID about actorID and relays
	// it in real time. Notifying oneself is a no-op.
	Notify(ctx context.Context, recipientID, actorID int64, t Type) error

	List(ctx context.Context, userID int64, q ListQuery) (*NotificationsResponse, error)
	UnreadCount(ctx context.Context, userID int64) (int, error)
	MarkAsRead(ctx context.Context, notificationID, userID int64) error
	MarkAllAsRead(ctx context.Context, userID int64) error

	// Cleanup deletes notifications older than the retention age
	Cleanup(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Config toggles out-of-band delivery of match notifications
type Config struct {
	EmailOnMatch bool
	SMSOnMatch   bool
}

type service struct {
	repo      Repository
	publisher Publisher
	email     EmailSender
	sms       SMSSender
	config    Config
	now       func() time.Time
}

// NewService creates a new notification service. Nil senders and publisher
// fall back to no-op implementations.
func NewService(repo Repository, publisher Publisher, email EmailSender, sms SMSSender, config Config) Service {
	if publisher == nil {
		publisher = NopPublisher{}
	}
	if email == nil {
		email = NewMockEmailSender()
	}
	if sms == nil {
		sms = NewMockSMSSender()
	}
	return &service{
		repo:      repo,
		publisher: publisher,
		email:     email,
		sms:       sms,
		config:    config,
		now:       time.Now,
	}
}

func (s *service) Notify(ctx context.Context, recipientID, actorID int64, t Type) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidType, t)
	}
	if recipientID == actorID {
		return nil
	}

	actor, err := s.repo.GetContact(ctx, actorID)
	if err != nil && !errors.Is(err, ErrContactNotFound) {
		return err
	}
	actorName := actor.DisplayName()

	_, body, err := Render(t, actorName)
	if err != nil {
		return err
	}

	n := &Notification{
		UserID:        recipientID,
		Type:          t,
		RelatedUserID: &actorID,
		Message:       body,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	notificationsCreated.WithLabelValues(string(t)).Inc()

	log := logging.Ctx(ctx)
	payload := &Payload{
		ID:           n.ID,
		Type:         t,
		FromUserID:   actorID,
		FromUserName: actorName,
		Message:      body,
		CreatedAt:    n.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, recipientID, payload); err != nil {
		log.Warn().Err(err).Int64("user", recipientID).Msg("failed to relay notification")
	}

	if t == TypeMatch {
		s.deliverMatch(ctx, recipientID, actorName)
	}
	return nil
}

// deliverMatch sends the match by email and SMS when enabled. Failures are
// logged and never fail the triggering action.
func (s *service) deliverMatch(ctx context.Context, recipientID int64, actorName string) {
	if !s.config.EmailOnMatch && !s.config.SMSOnMatch {
		return
	}

	log := logging.Ctx(ctx)
	recipient, err := s.repo.GetContact(ctx, recipientID)
	if err != nil {
		log.Warn().Err(err).Int64("user", recipientID).Msg("no contact for match delivery")
		return
	}

	subject, body, err := Render(TypeMatch, actorName)
	if err != nil {
		log.Error().Err(err).Msg("failed to render match message")
		return
	}

	if s.config.EmailOnMatch && recipient.Email != nil && *recipient.Email != "" {
		err := s.email.SendEmail(ctx, &EmailMessage{To: *recipient.Email, Subject: subject, Body: body})
		recordDelivery("email", err)
		if err != nil {
			log.Error().Err(err).Int64("user", recipientID).Msg("failed to email match")
		}
	}

	if s.config.SMSOnMatch && recipient.Phone != nil && *recipient.Phone != "" {
		err := s.sms.SendSMS(ctx, &SMSMessage{To: *recipient.Phone, Body: body})
		recordDelivery("sms", err)
		if err != nil {
			log.Error().Err(err).Int64("user", recipientID).Msg("failed to text match")
		}
	}
}

func (s *service) List(ctx context.Context, userID int64, q ListQuery) (*NotificationsResponse, error) {
	notifications, err := s.repo.List(ctx, userID, q.Limit, q.Offset, q.UnreadOnly)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Count(ctx, userID, q.UnreadOnly)
	if err != nil {
		return nil, err
	}

	unread, err := s.repo.Count(ctx, userID, true)
	if err != nil {
		return nil, err
	}

	return &NotificationsResponse{
		Notifications: notifications,
		TotalCount:    total,
		UnreadCount:   unread,
		HasMore:       q.Offset+len(notifications) < total,
	}, nil
}

func (s *service) UnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.repo.Count(ctx, userID, true)
}

func (s *service) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

func (s *service) MarkAllAsRead(ctx context.Context, userID int64) error {
	_, err := s.repo.MarkAllAsRead(ctx, userID)
	return err
}

func (s *service) Cleanup(ctx context.Context, olderThan time.Duration) (int64, error) {
	return s.repo.DeleteOlderThan(ctx, s.now().Add(-olderThan))
}
