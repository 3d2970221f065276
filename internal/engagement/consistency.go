package engagement

import (
	"context"
	"fmt"

	"github.com/anonto42/inkwell/backend/internal/models"
)

const defaultPartialStateLimit = 100

// PartialStateReport describes one like that is missing its notification link.
type PartialStateReport struct {
	Like models.Like
	Err  error
}

// ConsistencyCheck looks for tolerated partial states left by interrupted likes.
type ConsistencyCheck struct {
	likes LikeStore
}

func NewConsistencyCheck(likes LikeStore) *ConsistencyCheck {
	return &ConsistencyCheck{likes: likes}
}

// FindPartialStates lists up to limit likes with no linked notification. Each
// report's Err wraps ErrPartialState.
func (c *ConsistencyCheck) FindPartialStates(ctx context.Context, limit int) ([]PartialStateReport, error) {
	if limit <= 0 {
		limit = defaultPartialStateLimit
	}
	likes, err := c.likes.FindUnlinked(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("find unlinked likes: %w", err)
	}
	reports := make([]PartialStateReport, len(likes))
	for i, like := range likes {
		reports[i] = PartialStateReport{
			Like: like,
			Err: fmt.Errorf("like %d (user %d, %s %s) has no notification: %w",
				like.ID, like.UserID, like.TargetType, like.TargetID, ErrPartialState),
		}
	}
	return reports, nil
}
