package engagement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anonto42/inkwell/backend/internal/metrics"
	"github.com/anonto42/inkwell/backend/internal/models"
)

// Ledger is the authoritative record of who liked what.
type Ledger struct {
	log        *slog.Logger
	resolver   *Resolver
	likes      LikeStore
	linker     *Linker
	aggregator *Aggregator
	now        func() time.Time
}

func NewLedger(
	log *slog.Logger,
	resolver *Resolver,
	likes LikeStore,
	linker *Linker,
	aggregator *Aggregator,
	now func() time.Time,
) *Ledger {
	return &Ledger{
		log:        log.With("component", "ledger"),
		resolver:   resolver,
		likes:      likes,
		linker:     linker,
		aggregator: aggregator,
		now:        now,
	}
}

// Like records actorID liking the target, then notifies the target's owner and
// adds the target to the actor's activity aggregate. A like that already exists
// is rejected with ErrAlreadyEngaged. Failures after the record is written are
// logged and leave a tolerated partial state; the like itself still succeeds.
func (l *Ledger) Like(ctx context.Context, actorID uint, kind models.TargetKind, targetID string) (like *models.Like, err error) {
	defer func() { metrics.Observe("like", err, isRejection) }()

	actor, err := l.resolver.User(ctx, actorID)
	if err != nil {
		return nil, err
	}
	target, err := l.resolver.Resolve(ctx, kind, targetID)
	if err != nil {
		return nil, err
	}

	_, err = l.likes.GetLike(ctx, actorID, kind, targetID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("user %d %s %s: %w", actorID, kind, targetID, ErrAlreadyEngaged)
	case !errors.Is(err, models.ErrRecordNotFound):
		return nil, fmt.Errorf("get like: %w", err)
	}

	like = &models.Like{
		UserID:     actorID,
		TargetType: kind,
		TargetID:   targetID,
		CreatedAt:  l.now(),
	}
	if err := l.likes.CreateLike(ctx, like); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return nil, fmt.Errorf("user %d %s %s: %w", actorID, kind, targetID, ErrAlreadyEngaged)
		}
		return nil, fmt.Errorf("create like: %w", err)
	}

	message := RenderLikeMessage(actor.Name(), kind)
	if _, err := l.linker.Attach(ctx, like, actorID, target.OwnerID, models.NotificationTypeLike, message); err != nil {
		metrics.CounterPartialStates.WithLabelValues("notification").Inc()
		l.log.WarnContext(ctx, "like stored without notification",
			"like_id", like.ID, "user_id", actorID, "target_type", kind, "target_id", targetID, "error", err)
	}

	set, _ := SetForLike(kind)
	if err := l.aggregator.Track(ctx, actorID, set, targetID); err != nil {
		metrics.CounterPartialStates.WithLabelValues("activity").Inc()
		l.log.WarnContext(ctx, "like stored without activity entry",
			"like_id", like.ID, "user_id", actorID, "set", set, "target_id", targetID, "error", err)
	}

	l.confirm(ctx, like, set)
	return like, nil
}

// confirm re-reads the tuple after the side effects are written. An unlike that
// ran between CreateLike and here removed the record before those side effects
// existed, so they are removed again. The like is reported as made and undone.
func (l *Ledger) confirm(ctx context.Context, like *models.Like, set string) {
	_, err := l.likes.GetLike(ctx, like.UserID, like.TargetType, like.TargetID)
	if err == nil || !errors.Is(err, models.ErrRecordNotFound) {
		return
	}

	l.log.InfoContext(ctx, "like removed by concurrent unlike",
		"like_id", like.ID, "user_id", like.UserID, "target_type", like.TargetType, "target_id", like.TargetID)
	if err := l.linker.Detach(ctx, like); err != nil {
		metrics.CounterPartialStates.WithLabelValues("notification").Inc()
		l.log.WarnContext(ctx, "notification left for removed like",
			"like_id", like.ID, "notification_id", *like.NotificationID, "error", err)
	}
	if err := l.aggregator.Untrack(ctx, like.UserID, set, like.TargetID); err != nil {
		metrics.CounterPartialStates.WithLabelValues("activity").Inc()
		l.log.WarnContext(ctx, "activity entry left for removed like",
			"like_id", like.ID, "user_id", like.UserID, "set", set, "target_id", like.TargetID, "error", err)
	}
	like.NotificationID = nil
}

// Unlike removes actorID's like of the target together with its notification and
// activity entry. Side effects are removed before the record, so an interrupted
// unlike leaves the record in place and can simply be retried.
func (l *Ledger) Unlike(ctx context.Context, actorID uint, kind models.TargetKind, targetID string) (err error) {
	defer func() { metrics.Observe("unlike", err, isRejection) }()

	if _, err := ParseTargetKind(string(kind)); err != nil {
		return err
	}

	like, err := l.likes.GetLike(ctx, actorID, kind, targetID)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return fmt.Errorf("user %d %s %s: %w", actorID, kind, targetID, ErrNotEngaged)
		}
		return fmt.Errorf("get like: %w", err)
	}

	if err := l.linker.Detach(ctx, like); err != nil {
		return err
	}
	set, _ := SetForLike(kind)
	if err := l.aggregator.Untrack(ctx, actorID, set, targetID); err != nil {
		return err
	}

	if err := l.likes.DeleteLike(ctx, like.ID); err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return fmt.Errorf("user %d %s %s: %w", actorID, kind, targetID, ErrNotEngaged)
		}
		return fmt.Errorf("delete like %d: %w", like.ID, err)
	}

	// A like of this tuple still finishing its side effects may have tracked
	// the target after the untrack above. Its own confirm step only sees the
	// delete if it runs after it, so sweep once more.
	if err := l.aggregator.Untrack(ctx, actorID, set, targetID); err != nil {
		metrics.CounterPartialStates.WithLabelValues("activity").Inc()
		l.log.WarnContext(ctx, "activity sweep after unlike failed",
			"user_id", actorID, "set", set, "target_id", targetID, "error", err)
	}
	return nil
}

// HasLiked reports whether the like record exists.
func (l *Ledger) HasLiked(ctx context.Context, actorID uint, kind models.TargetKind, targetID string) (bool, error) {
	_, err := l.likes.GetLike(ctx, actorID, kind, targetID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, models.ErrRecordNotFound):
		return false, nil
	}
	return false, fmt.Errorf("get like: %w", err)
}

// LikeCount counts likes on one target.
func (l *Ledger) LikeCount(ctx context.Context, kind models.TargetKind, targetID string) (int64, error) {
	if _, err := l.resolver.Resolve(ctx, kind, targetID); err != nil {
		return 0, err
	}
	n, err := l.likes.CountLikes(ctx, kind, []string{targetID})
	if err != nil {
		return 0, fmt.Errorf("count likes: %w", err)
	}
	return n, nil
}

// RenderLikeMessage renders the notification text for a like.
func RenderLikeMessage(senderName string, kind models.TargetKind) string {
	return fmt.Sprintf("%s liked your %s", senderName, kind)
}

// isRejection reports errors that mean "already in the requested state" or a
// caller mistake rather than a failure of the engine.
func isRejection(err error) bool {
	for _, target := range []error{
		ErrNotFound, ErrInvalidKind, ErrAlreadyEngaged, ErrNotEngaged,
		ErrAlreadyFollowing, ErrNotFollowing, ErrSelfFollow,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
