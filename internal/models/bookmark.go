package models

import "time"

// Bookmark is a post saved by a user for later reading (PostgreSQL)
type Bookmark struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"index;uniqueIndex:idx_bookmark_user_post"`
	PostID    string    `json:"post_id" gorm:"size:24;index;uniqueIndex:idx_bookmark_user_post"`
	CreatedAt time.Time `json:"created_at"`
}
