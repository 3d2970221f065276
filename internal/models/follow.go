package models

import "time"

// Follow is a directed follower -> followed edge. No self edges, one edge per ordered pair.
type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  uint      `json:"follower_id" gorm:"not null;index;uniqueIndex:idx_follow_pair"`
	FollowingID uint      `json:"following_id" gorm:"not null;index;uniqueIndex:idx_follow_pair"`
	CreatedAt   time.Time `json:"created_at"`
}
