package engagement

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/inkwell/backend/internal/models"
)

var errUnknownSet = errors.New("unknown activity set")

// Aggregator maintains the per-user activity sets.
type Aggregator struct {
	activity ActivityStore
}

func NewAggregator(activity ActivityStore) *Aggregator {
	return &Aggregator{activity: activity}
}

// SetForLike maps a like target kind to the activity set it is tracked in.
func SetForLike(kind models.TargetKind) (string, error) {
	switch kind {
	case models.TargetPost:
		return models.SetLikedPosts, nil
	case models.TargetComment:
		return models.SetLikedComments, nil
	case models.TargetReply:
		return models.SetLikedReplies, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, kind)
}

func validSet(set string) error {
	switch set {
	case models.SetLikedPosts, models.SetCommentedPosts, models.SetRepliedComments,
		models.SetLikedComments, models.SetLikedReplies:
		return nil
	}
	return fmt.Errorf("%w: %q", errUnknownSet, set)
}

// Track adds targetID to the user's set. Repeating it is a no-op.
func (a *Aggregator) Track(ctx context.Context, userID uint, set, targetID string) error {
	if err := validSet(set); err != nil {
		return err
	}
	if err := a.activity.AddToSet(ctx, userID, set, targetID); err != nil {
		return fmt.Errorf("track %s %s for user %d: %w", set, targetID, userID, err)
	}
	return nil
}

// Untrack removes targetID from the user's set. Removing an absent id is a no-op.
func (a *Aggregator) Untrack(ctx context.Context, userID uint, set, targetID string) error {
	if err := validSet(set); err != nil {
		return err
	}
	if err := a.activity.Pull(ctx, userID, set, targetID); err != nil {
		return fmt.Errorf("untrack %s %s for user %d: %w", set, targetID, userID, err)
	}
	return nil
}

// Activity returns the user's aggregate, empty if the user has no activity yet.
func (a *Aggregator) Activity(ctx context.Context, userID uint) (*models.UserActivity, error) {
	activity, err := a.activity.GetActivity(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return &models.UserActivity{UserID: userID}, nil
		}
		return nil, fmt.Errorf("get activity for user %d: %w", userID, err)
	}
	return activity, nil
}
