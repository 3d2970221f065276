package engagement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anonto42/inkwell/backend/internal/models"
)

// Linker owns the notification that belongs to a like.
type Linker struct {
	log           *slog.Logger
	notifications NotificationStore
	likes         LikeStore
	now           func() time.Time
}

func NewLinker(log *slog.Logger, notifications NotificationStore, likes LikeStore, now func() time.Time) *Linker {
	return &Linker{
		log:           log.With("component", "linker"),
		notifications: notifications,
		likes:         likes,
		now:           now,
	}
}

// Attach creates the notification for a freshly stored like and records its id
// on the like. If the link cannot be stored the notification is deleted again,
// leaving the like unlinked rather than the notification orphaned.
func (l *Linker) Attach(
	ctx context.Context,
	record *models.Like,
	senderID, recipientID uint,
	kind, message string,
) (*models.Notification, error) {
	notification := &models.Notification{
		Type:        kind,
		ActorID:     senderID,
		RecipientID: recipientID,
		TargetID:    record.TargetID,
		TargetType:  record.TargetType,
		Message:     message,
		CreatedAt:   l.now(),
	}
	if err := l.notifications.CreateNotification(ctx, notification); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	if err := l.likes.SetNotification(ctx, record.ID, notification.ID); err != nil {
		if delErr := l.notifications.DeleteNotification(ctx, notification.ID); delErr != nil {
			l.log.ErrorContext(ctx, "orphaned notification",
				"notification_id", notification.ID, "like_id", record.ID, "error", delErr)
		}
		return nil, fmt.Errorf("link notification %d to like %d: %w", notification.ID, record.ID, err)
	}

	id := notification.ID
	record.NotificationID = &id
	return notification, nil
}

// Detach deletes the like's notification. An unlinked like, or a link to a
// notification that is already gone, is a no-op.
func (l *Linker) Detach(ctx context.Context, record *models.Like) error {
	if record.NotificationID == nil {
		return nil
	}
	err := l.notifications.DeleteNotification(ctx, *record.NotificationID)
	if err != nil && !errors.Is(err, models.ErrRecordNotFound) {
		return fmt.Errorf("delete notification %d: %w", *record.NotificationID, err)
	}
	return nil
}
