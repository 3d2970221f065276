package engagement

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anonto42/inkwell/backend/internal/metrics"
	"github.com/anonto42/inkwell/backend/internal/models"
)

// BookmarkList keeps the posts a user saved for later. A bookmark is a single
// record with no side effects.
type BookmarkList struct {
	resolver  *Resolver
	bookmarks BookmarkStore
	now       func() time.Time
}

func NewBookmarkList(resolver *Resolver, bookmarks BookmarkStore, now func() time.Time) *BookmarkList {
	return &BookmarkList{resolver: resolver, bookmarks: bookmarks, now: now}
}

func (b *BookmarkList) Bookmark(ctx context.Context, userID uint, postID string) (bookmark *models.Bookmark, err error) {
	defer func() { metrics.Observe("bookmark", err, isRejection) }()

	if _, err := b.resolver.User(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := b.resolver.Resolve(ctx, models.TargetPost, postID); err != nil {
		return nil, err
	}

	bookmark = &models.Bookmark{UserID: userID, PostID: postID, CreatedAt: b.now()}
	if err := b.bookmarks.CreateBookmark(ctx, bookmark); err != nil {
		if errors.Is(err, models.ErrDuplicate) {
			return nil, fmt.Errorf("user %d bookmark %s: %w", userID, postID, ErrAlreadyEngaged)
		}
		return nil, fmt.Errorf("create bookmark: %w", err)
	}
	return bookmark, nil
}

func (b *BookmarkList) Unbookmark(ctx context.Context, userID uint, postID string) (err error) {
	defer func() { metrics.Observe("unbookmark", err, isRejection) }()

	if err := b.bookmarks.DeleteBookmark(ctx, userID, postID); err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return fmt.Errorf("user %d bookmark %s: %w", userID, postID, ErrNotEngaged)
		}
		return fmt.Errorf("delete bookmark: %w", err)
	}
	return nil
}

// Bookmarks lists the user's bookmarks, newest first.
func (b *BookmarkList) Bookmarks(ctx context.Context, userID uint) ([]models.Bookmark, error) {
	list, err := b.bookmarks.GetBookmarksByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks of %d: %w", userID, err)
	}
	return list, nil
}
