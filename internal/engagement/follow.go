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

// FollowGraph maintains follow edges and the followed user's follower counter.
// The edge is the source of truth; the counter may drift if its adjustment
// fails and is corrected by ReconcileFollowCounter.
type FollowGraph struct {
	log      *slog.Logger
	resolver *Resolver
	follows  FollowStore
	users    UserStore
	now      func() time.Time
}

func NewFollowGraph(log *slog.Logger, resolver *Resolver, follows FollowStore, users UserStore, now func() time.Time) *FollowGraph {
	return &FollowGraph{
		log:      log.With("component", "follow_graph"),
		resolver: resolver,
		follows:  follows,
		users:    users,
		now:      now,
	}
}

// Follow creates the followerID -> followedID edge and increments the followed
// user's counter.
func (g *FollowGraph) Follow(ctx context.Context, followerID, followedID uint) (err error) {
	defer func() { metrics.Observe("follow", err, isRejection) }()

	if followerID == followedID {
		return fmt.Errorf("user %d: %w", followerID, ErrSelfFollow)
	}
	if _, err := g.resolver.User(ctx, followerID); err != nil {
		return err
	}
	if _, err := g.resolver.User(ctx, followedID); err != nil {
		return err
	}

	following, err := g.follows.IsFollowing(ctx, followerID, followedID)
	if err != nil {
		return fmt.Errorf("check follow: %w", err)
	}
	if following {
		return fmt.Errorf("user %d -> %d: %w", followerID, followedID, ErrAlreadyFollowing)
	}

	follow := &models.Follow{
		FollowerID:  followerID,
		FollowingID: followedID,
		CreatedAt:   g.now(),
	}
	if err := g.follows.CreateFollow(ctx, follow); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return fmt.Errorf("user %d -> %d: %w", followerID, followedID, ErrAlreadyFollowing)
		}
		return fmt.Errorf("create follow: %w", err)
	}

	g.adjustCounter(ctx, followedID, 1)
	return nil
}

// Unfollow deletes the edge and decrements the followed user's counter.
func (g *FollowGraph) Unfollow(ctx context.Context, followerID, followedID uint) (err error) {
	defer func() { metrics.Observe("unfollow", err, isRejection) }()

	if followerID == followedID {
		return fmt.Errorf("user %d: %w", followerID, ErrSelfFollow)
	}
	if err := g.follows.DeleteFollow(ctx, followerID, followedID); err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return fmt.Errorf("user %d -> %d: %w", followerID, followedID, ErrNotFollowing)
		}
		return fmt.Errorf("delete follow: %w", err)
	}

	g.adjustCounter(ctx, followedID, -1)
	return nil
}

func (g *FollowGraph) adjustCounter(ctx context.Context, userID uint, delta int64) {
	if err := g.users.AdjustFollowCount(ctx, userID, delta); err != nil {
		metrics.CounterPartialStates.WithLabelValues("follow_counter").Inc()
		g.log.WarnContext(ctx, "follower counter not adjusted",
			"user_id", userID, "delta", delta, "error", err)
	}
}

func (g *FollowGraph) IsFollowing(ctx context.Context, followerID, followedID uint) (bool, error) {
	following, err := g.follows.IsFollowing(ctx, followerID, followedID)
	if err != nil {
		return false, fmt.Errorf("check follow: %w", err)
	}
	return following, nil
}

// FollowerCount counts inbound edges, ignoring the denormalized counter.
func (g *FollowGraph) FollowerCount(ctx context.Context, userID uint) (int64, error) {
	n, err := g.follows.CountFollowers(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count followers of %d: %w", userID, err)
	}
	return n, nil
}

// ReconcileFollowCounter recomputes the user's follower counter from the edge
// set and returns the corrected value.
func (g *FollowGraph) ReconcileFollowCounter(ctx context.Context, userID uint) (int64, error) {
	user, err := g.resolver.User(ctx, userID)
	if err != nil {
		return 0, err
	}
	n, err := g.FollowerCount(ctx, userID)
	if err != nil {
		return 0, err
	}
	if user.TotalFollows == n {
		return n, nil
	}
	if err := g.users.SetFollowCount(ctx, userID, n); err != nil {
		return 0, fmt.Errorf("set follow count of %d: %w", userID, err)
	}
	metrics.CounterFollowDrift.Inc()
	g.log.InfoContext(ctx, "follower counter reconciled",
		"user_id", userID, "stored", user.TotalFollows, "actual", n)
	return n, nil
}
