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

// Tracker records reading history and interest tags on content access.
//
// Interest tags are deduplicated by reading the current set and adding only
// the missing tags. Two concurrent accesses can both see a tag as missing and
// add it twice; that race is accepted.
type Tracker struct {
	log      *slog.Logger
	resolver *Resolver
	posts    PostStore
	reading  ReadingStore
	now      func() time.Time
}

func NewTracker(log *slog.Logger, resolver *Resolver, posts PostStore, reading ReadingStore, now func() time.Time) *Tracker {
	return &Tracker{
		log:      log.With("component", "tracker"),
		resolver: resolver,
		posts:    posts,
		reading:  reading,
		now:      now,
	}
}

// RecordAccess appends a history entry and adds any of tags the user is not
// yet interested in.
func (t *Tracker) RecordAccess(ctx context.Context, userID uint, postID string, tags []string) error {
	entry := models.ReadingEntry{PostID: postID, Timestamp: t.now()}
	if err := t.reading.AppendHistory(ctx, userID, entry); err != nil {
		return fmt.Errorf("append reading history: %w", err)
	}
	if len(tags) == 0 {
		return nil
	}

	current, err := t.reading.GetInterestedTags(ctx, userID)
	if err != nil && !errors.Is(err, models.ErrRecordNotFound) {
		return fmt.Errorf("get interested tags: %w", err)
	}
	missing := missingTags(current, tags)
	if len(missing) == 0 {
		return nil
	}
	if err := t.reading.AddInterestedTags(ctx, userID, missing); err != nil {
		return fmt.Errorf("add interested tags: %w", err)
	}
	return nil
}

// AccessPost records that userID read postID, using the post's tags.
func (t *Tracker) AccessPost(ctx context.Context, userID uint, postID string) (err error) {
	defer func() { metrics.Observe("access", err, isRejection) }()

	if _, err := t.resolver.User(ctx, userID); err != nil {
		return err
	}
	if _, err := t.resolver.Resolve(ctx, models.TargetPost, postID); err != nil {
		return err
	}
	tags, err := t.posts.GetPostTags(ctx, postID)
	if err != nil {
		return fmt.Errorf("get tags of post %s: %w", postID, err)
	}
	return t.RecordAccess(ctx, userID, postID, tags)
}

// missingTags returns the tags not in current, in first-seen order and without
// repeats.
func missingTags(current, tags []string) []string {
	seen := make(map[string]struct{}, len(current)+len(tags))
	for _, tag := range current {
		seen[tag] = struct{}{}
	}
	var missing []string
	for _, tag := range tags {
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		missing = append(missing, tag)
	}
	return missing
}
