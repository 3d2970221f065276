package models

import "time"

// TargetKind names the kind of content a like points at.
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
	TargetReply   TargetKind = "reply"
)

// Like is one engagement record: user UserID likes the TargetType/TargetID target.
// At most one row exists per (user_id, target_type, target_id).
type Like struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	UserID         uint       `json:"user_id" gorm:"not null;index;uniqueIndex:idx_like_actor_target"`
	TargetType     TargetKind `json:"target_type" gorm:"size:10;not null;uniqueIndex:idx_like_actor_target"`
	TargetID       string     `json:"target_id" gorm:"size:24;not null;index;uniqueIndex:idx_like_actor_target"`
	NotificationID *uint      `json:"notification_id,omitempty" gorm:"index"`
	CreatedAt      time.Time  `json:"created_at"`
}
