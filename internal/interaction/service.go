// internal/interaction/service.go

package interaction

import (
	"context"
	"errors"
	"strings"

	"github.com/imadgeboyega/matcha-backend/internal/common/logging"
	"github.com/imadgeboyega/matcha-backend/internal/notification"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrCannotLikeSelf   = errors.New("cannot like yourself")
	ErrCannotBlockSelf  = errors.New("cannot block yourself")
	ErrCannotReportSelf = errors.New("cannot report yourself")
	ErrUserBlocked      = errors.New("user is blocked")
	ErrAlreadyBlocked   = errors.New("user already blocked")
	ErrNotBlocked       = errors.New("user is not blocked")
)

// FameRecomputer recomputes and persists a fame rating
type FameRecomputer interface {
	RecomputeFame(ctx context.Context, userID int64) (int, error)
}

// SuggestionInvalidator drops cached suggestions
type SuggestionInvalidator interface {
	InvalidateSuggestions(ctx context.Context, userIDs ...int64) error
}

// Notifier emits in-app notifications
type Notifier interface {
	Notify(ctx context.Context, recipientID, actorID int64, t notification.Type) error
}

// Service defines the interaction service interface
type Service interface {
	Like(ctx context.Context, likerID, likedID int64) (*LikeResult, error)
	Unlike(ctx context.Context, likerID, likedID int64) (*LikeResult, error)
	View(ctx context.Context, viewerID, viewedID int64) error
	Block(ctx context.Context, blockerID, blockedID int64) error
	Unblock(ctx context.Context, blockerID, blockedID int64) error
	Report(ctx context.Context, reporterID, reportedID int64, req *ReportRequest) error
}

type service struct {
	repo        Repository
	fame        FameRecomputer
	suggestions SuggestionInvalidator
	notifier    Notifier
}

// NewService creates a new interaction service. The matching service
// satisfies both FameRecomputer and SuggestionInvalidator.
func NewService(repo Repository, fame FameRecomputer, suggestions SuggestionInvalidator, notifier Notifier) Service {
	return &service{
		repo:        repo,
		fame:        fame,
		suggestions: suggestions,
		notifier:    notifier,
	}
}

func (s *service) Like(ctx context.Context, likerID, likedID int64) (*LikeResult, error) {
	result, err := s.like(ctx, likerID, likedID)
	recordAction("like", err)
	return result, err
}

func (s *service) like(ctx context.Context, likerID, likedID int64) (*LikeResult, error) {
	if likerID == likedID {
		return nil, ErrCannotLikeSelf
	}
	if err := s.checkTarget(ctx, likerID, likedID); err != nil {
		return nil, err
	}

	created, err := s.repo.CreateLike(ctx, likerID, likedID)
	if err != nil {
		return nil, err
	}
	s.recompute(ctx, likedID)

	mutual, err := s.repo.LikeExists(ctx, likedID, likerID)
	if err != nil {
		s.recompute(ctx, likerID)
		return nil, err
	}
	if mutual {
		s.recompute(ctx, likerID)
	}

	result := &LikeResult{UserID: likedID, Liked: true, Match: mutual}
	if !created {
		// Repeated like: no new edge, so no notification
		return result, nil
	}

	if mutual {
		matchesTotal.Inc()
		s.notify(ctx, likedID, likerID, notification.TypeMatch)
		s.notify(ctx, likerID, likedID, notification.TypeMatch)
	} else {
		s.notify(ctx, likedID, likerID, notification.TypeLike)
	}
	s.invalidate(ctx, likerID, likedID)

	return result, nil
}

func (s *service) Unlike(ctx context.Context, likerID, likedID int64) (*LikeResult, error) {
	result, err := s.unlike(ctx, likerID, likedID)
	recordAction("unlike", err)
	return result, err
}

func (s *service) unlike(ctx context.Context, likerID, likedID int64) (*LikeResult, error) {
	if likerID == likedID {
		return nil, ErrCannotLikeSelf
	}
	if err := s.checkExists(ctx, likedID); err != nil {
		return nil, err
	}

	deleted, err := s.repo.DeleteLike(ctx, likerID, likedID)
	if err != nil {
		return nil, err
	}
	s.recompute(ctx, likedID)

	result := &LikeResult{UserID: likedID}
	if !deleted {
		return result, nil
	}

	wasMutual, err := s.repo.LikeExists(ctx, likedID, likerID)
	if err != nil {
		s.recompute(ctx, likerID)
		return nil, err
	}

	if wasMutual {
		s.recompute(ctx, likerID)
		s.notify(ctx, likedID, likerID, notification.TypeUnlike)
	}
	s.invalidate(ctx, likerID, likedID)

	return result, nil
}

// View records a profile view. Viewing oneself is ignored.
func (s *service) View(ctx context.Context, viewerID, viewedID int64) error {
	if viewerID == viewedID {
		return nil
	}

	err := s.view(ctx, viewerID, viewedID)
	recordAction("view", err)
	return err
}

func (s *service) view(ctx context.Context, viewerID, viewedID int64) error {
	if err := s.checkTarget(ctx, viewerID, viewedID); err != nil {
		return err
	}
	if err := s.repo.RecordView(ctx, viewerID, viewedID); err != nil {
		return err
	}

	s.recompute(ctx, viewedID)
	s.notify(ctx, viewedID, viewerID, notification.TypeView)
	return nil
}

func (s *service) Block(ctx context.Context, blockerID, blockedID int64) error {
	err := s.block(ctx, blockerID, blockedID)
	recordAction("block", err)
	return err
}

func (s *service) block(ctx context.Context, blockerID, blockedID int64) error {
	if blockerID == blockedID {
		return ErrCannotBlockSelf
	}
	if err := s.checkExists(ctx, blockedID); err != nil {
		return err
	}

	created, err := s.repo.CreateBlock(ctx, blockerID, blockedID)
	if err != nil {
		return err
	}
	if !created {
		return ErrAlreadyBlocked
	}

	// Like edges in both directions are gone
	s.recompute(ctx, blockerID)
	s.recompute(ctx, blockedID)
	s.invalidate(ctx, blockerID, blockedID)
	return nil
}

func (s *service) Unblock(ctx context.Context, blockerID, blockedID int64) error {
	err := s.unblock(ctx, blockerID, blockedID)
	recordAction("unblock", err)
	return err
}

func (s *service) unblock(ctx context.Context, blockerID, blockedID int64) error {
	deleted, err := s.repo.DeleteBlock(ctx, blockerID, blockedID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNotBlocked
	}

	s.invalidate(ctx, blockerID, blockedID)
	return nil
}

func (s *service) Report(ctx context.Context, reporterID, reportedID int64, req *ReportRequest) error {
	err := s.report(ctx, reporterID, reportedID, req)
	recordAction("report", err)
	return err
}

func (s *service) report(ctx context.Context, reporterID, reportedID int64, req *ReportRequest) error {
	if reporterID == reportedID {
		return ErrCannotReportSelf
	}
	if err := s.checkExists(ctx, reportedID); err != nil {
		return err
	}

	report := &Report{ReporterID: reporterID, ReportedID: reportedID}
	if req != nil {
		if reason := strings.TrimSpace(req.Reason); reason != "" {
			report.Reason = &reason
		}
	}
	if err := s.repo.CreateReport(ctx, report); err != nil {
		return err
	}

	logging.Ctx(ctx).Warn().
		Int64("reporter", reporterID).
		Int64("reported", reportedID).
		Int64("report", report.ID).
		Msg("user reported")
	return nil
}

func (s *service) checkExists(ctx context.Context, userID int64) error {
	exists, err := s.repo.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}
	return nil
}

// checkTarget requires the target to exist and no block in either direction
func (s *service) checkTarget(ctx context.Context, actorID, targetID int64) error {
	if err := s.checkExists(ctx, targetID); err != nil {
		return err
	}
	blocked, err := s.repo.IsBlocked(ctx, actorID, targetID)
	if err != nil {
		return err
	}
	if blocked {
		return ErrUserBlocked
	}
	return nil
}

// Side effects below run after the edge is committed. A failure is logged;
// fame recompute is idempotent, so a retried like or the periodic sweep over
// recently changed edges repairs it.

func (s *service) recompute(ctx context.Context, userID int64) {
	if s.fame == nil {
		return
	}
	if _, err := s.fame.RecomputeFame(ctx, userID); err != nil {
		logging.Ctx(ctx).Error().Err(err).Int64("user", userID).Msg("failed to recompute fame")
	}
}

func (s *service) notify(ctx context.Context, recipientID, actorID int64, t notification.Type) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, recipientID, actorID, t); err != nil {
		logging.Ctx(ctx).Error().Err(err).
			Int64("user", recipientID).
			Str("type", string(t)).
			Msg("failed to notify")
	}
}

func (s *service) invalidate(ctx context.Context, userIDs ...int64) {
	if s.suggestions == nil {
		return
	}
	if err := s.suggestions.InvalidateSuggestions(ctx, userIDs...); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Ints64("users", userIDs).Msg("failed to invalidate suggestions")
	}
}
