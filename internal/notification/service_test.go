package notification

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryRepository is an in-memory Repository for service and handler tests
type memoryRepository struct {
	mu            sync.Mutex
	nextID        int64
	notifications []*Notification
	contacts      map[int64]*Contact
	now           time.Time
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		contacts: make(map[int64]*Contact),
		now:      time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC),
	}
}

func (r *memoryRepository) addContact(c *Contact) {
	r.contacts[c.UserID] = c
}

func (r *memoryRepository) Create(_ context.Context, n *Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	n.ID = r.nextID
	n.CreatedAt = r.now.Add(time.Duration(r.nextID) * time.Second)
	stored := *n
	r.notifications = append(r.notifications, &stored)
	return nil
}

func (r *memoryRepository) filter(userID int64, unreadOnly bool) []*Notification {
	var out []*Notification
	for _, n := range r.notifications {
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	slices.Reverse(out)
	return out
}

func (r *memoryRepository) List(_ context.Context, userID int64, limit, offset int, unreadOnly bool) ([]*Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.filter(userID, unreadOnly)
	if offset >= len(all) {
		return []*Notification{}, nil
	}
	return all[offset:min(offset+limit, len(all))], nil
}

func (r *memoryRepository) Count(_ context.Context, userID int64, unreadOnly bool) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.filter(userID, unreadOnly)), nil
}

func (r *memoryRepository) MarkAsRead(_ context.Context, notificationID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == notificationID && n.UserID == userID {
			n.IsRead = true
			return nil
		}
	}
	return ErrNotificationNotFound
}

func (r *memoryRepository) MarkAllAsRead(_ context.Context, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, item := range r.notifications {
		if item.UserID == userID && !item.IsRead {
			item.IsRead = true
			n++
		}
	}
	return n, nil
}

func (r *memoryRepository) DeleteOlderThan(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.notifications[:0]
	var deleted int64
	for _, n := range r.notifications {
		if n.CreatedAt.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, n)
	}
	r.notifications = kept
	return deleted, nil
}

func (r *memoryRepository) GetContact(_ context.Context, userID int64) (*Contact, error) {
	if c, ok := r.contacts[userID]; ok {
		return c, nil
	}
	return nil, ErrContactNotFound
}

type recordingPublisher struct {
	mu        sync.Mutex
	published map[int64][]*Payload
	err       error
}

func (p *recordingPublisher) Publish(_ context.Context, userID int64, payload *Payload) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.published == nil {
		p.published = make(map[int64][]*Payload)
	}
	p.published[userID] = append(p.published[userID], payload)
	return p.err
}

func strPtr(s string) *string { return &s }

type fixture struct {
	repo      *memoryRepository
	publisher *recordingPublisher
	email     *MockEmailSender
	sms       *MockSMSSender
	service   Service
}

func newFixture(config Config) *fixture {
	f := &fixture{
		repo:      newMemoryRepository(),
		publisher: &recordingPublisher{},
		email:     NewMockEmailSender(),
		sms:       NewMockSMSSender(),
	}
	f.repo.addContact(&Contact{UserID: 1, Username: "alice", FirstName: "Alice", Email: strPtr("alice@example.com"), Phone: strPtr("+15550001")})
	f.repo.addContact(&Contact{UserID: 2, Username: "bob", Email: strPtr("bob@example.com")})
	f.service = NewService(f.repo, f.publisher, f.email, f.sms, config)
	return f
}

func TestNotifyStoresAndPublishes(t *testing.T) {
	f := newFixture(Config{})
	ctx := context.Background()

	require.NoError(t, f.service.Notify(ctx, 2, 1, TypeLike))

	list, err := f.service.List(ctx, 2, ListQuery{Limit: 10})
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)

	n := list.Notifications[0]
	assert.Equal(t, TypeLike, n.Type)
	require.NotNil(t, n.RelatedUserID)
	assert.Equal(t, int64(1), *n.RelatedUserID)
	assert.Equal(t, "Alice liked your profile", n.Message)

	require.Len(t, f.publisher.published[2], 1)
	payload := f.publisher.published[2][0]
	assert.Equal(t, n.ID, payload.ID)
	assert.Equal(t, int64(1), payload.FromUserID)
	assert.Equal(t, "Alice", payload.FromUserName)

	assert.Empty(t, f.email.Sent())
	assert.Empty(t, f.sms.Sent())
}

func TestNotifySelfIsNoop(t *testing.T) {
	f := newFixture(Config{})

	require.NoError(t, f.service.Notify(context.Background(), 1, 1, TypeView))

	count, err := f.service.UnreadCount(context.Background(), 1)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNotifyRejectsUnknownType(t *testing.T) {
	f := newFixture(Config{})

	err := f.service.Notify(context.Background(), 2, 1, Type("poke"))
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestNotifyUnknownActorUsesFallbackName(t *testing.T) {
	f := newFixture(Config{})

	require.NoError(t, f.service.Notify(context.Background(), 2, 99, TypeView))
	assert.Equal(t, "Someone", f.publisher.published[2][0].FromUserName)
}

func TestNotifyPublishFailureIsNotFatal(t *testing.T) {
	f := newFixture(Config{})
	f.publisher.err = errors.New("redis down")

	require.NoError(t, f.service.Notify(context.Background(), 2, 1, TypeLike))

	count, err := f.service.UnreadCount(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMatchDeliveredOutOfBandWhenEnabled(t *testing.T) {
	f := newFixture(Config{EmailOnMatch: true, SMSOnMatch: true})
	ctx := context.Background()

	require.NoError(t, f.service.Notify(ctx, 1, 2, TypeMatch))
	require.NoError(t, f.service.Notify(ctx, 2, 1, TypeMatch))

	emails := f.email.Sent()
	require.Len(t, emails, 2)
	assert.Equal(t, "alice@example.com", emails[0].To)
	assert.Equal(t, "It's a match!", emails[0].Subject)
	assert.Contains(t, emails[0].Body, "bob")

	// bob has no phone on file
	texts := f.sms.Sent()
	require.Len(t, texts, 1)
	assert.Equal(t, "+15550001", texts[0].To)
}

func TestMatchNotDeliveredOutOfBandWhenDisabled(t *testing.T) {
	f := newFixture(Config{})

	require.NoError(t, f.service.Notify(context.Background(), 1, 2, TypeMatch))

	assert.Empty(t, f.email.Sent())
	assert.Empty(t, f.sms.Sent())
}

func TestLikeIsNeverDeliveredOutOfBand(t *testing.T) {
	f := newFixture(Config{EmailOnMatch: true, SMSOnMatch: true})

	require.NoError(t, f.service.Notify(context.Background(), 1, 2, TypeLike))

	assert.Empty(t, f.email.Sent())
}

func TestListPaginationAndReadState(t *testing.T) {
	f := newFixture(Config{})
	ctx := context.Background()
	for _, typ := range []Type{TypeView, TypeLike, TypeMatch} {
		require.NoError(t, f.service.Notify(ctx, 2, 1, typ))
	}

	page, err := f.service.List(ctx, 2, ListQuery{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Notifications, 2)
	assert.Equal(t, 3, page.TotalCount)
	assert.Equal(t, 3, page.UnreadCount)
	assert.True(t, page.HasMore)
	// newest first
	assert.Equal(t, TypeMatch, page.Notifications[0].Type)

	require.NoError(t, f.service.MarkAsRead(ctx, page.Notifications[0].ID, 2))
	assert.ErrorIs(t, f.service.MarkAsRead(ctx, page.Notifications[0].ID, 1), ErrNotificationNotFound)

	unread, err := f.service.List(ctx, 2, ListQuery{Limit: 10, UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, unread.Notifications, 2)
	assert.False(t, unread.HasMore)

	require.NoError(t, f.service.MarkAllAsRead(ctx, 2))
	count, err := f.service.UnreadCount(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCleanup(t *testing.T) {
	f := newFixture(Config{})
	ctx := context.Background()
	require.NoError(t, f.service.Notify(ctx, 2, 1, TypeView))

	svc := f.service.(*service)
	svc.now = func() time.Time { return f.repo.now.Add(48 * time.Hour) }

	deleted, err := svc.Cleanup(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestRender(t *testing.T) {
	subject, body, err := Render(TypeUnlike, "Carol")
	require.NoError(t, err)
	assert.Equal(t, "Connection ended", subject)
	assert.Equal(t, "Carol is no longer connected with you", body)

	_, _, err = Render(Type("nope"), "Carol")
	assert.ErrorIs(t, err, ErrInvalidType)
}

func TestProviderSelection(t *testing.T) {
	email, err := NewEmailSender(EmailConfig{Provider: "mock"})
	require.NoError(t, err)
	assert.IsType(t, &MockEmailSender{}, email)

	_, err = NewEmailSender(EmailConfig{Provider: "sendgrid"})
	assert.Error(t, err)

	email, err = NewEmailSender(EmailConfig{Provider: "smtp", SMTPHost: "localhost", SMTPPort: 25, From: "a@b.c"})
	require.NoError(t, err)
	assert.IsType(t, &SMTPEmailSender{}, email)

	_, err = NewEmailSender(EmailConfig{Provider: "carrier-pigeon"})
	assert.Error(t, err)

	sms, err := NewSMSSender(SMSConfig{Provider: "mock"})
	require.NoError(t, err)
	assert.IsType(t, &MockSMSSender{}, sms)

	_, err = NewSMSSender(SMSConfig{Provider: "twilio"})
	assert.Error(t, err)
}

func TestNewPublisherWithoutRedis(t *testing.T) {
	assert.IsType(t, NopPublisher{}, NewPublisher(nil))
	assert.Equal(t, "notifications:user:42", Channel(42))
}
