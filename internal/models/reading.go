package models

import "time"

// ReadingEntry records one post access. Repeated entries for a post are expected.
type ReadingEntry struct {
	PostID    string    `json:"post_id" bson:"post_id"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// ReadingProfile holds a user's reading history and interest tags (MongoDB).
type ReadingProfile struct {
	UserID         uint           `json:"user_id" bson:"user_id"`
	ReadingHistory []ReadingEntry `json:"reading_history" bson:"reading_history"`
	InterestedTags []string       `json:"interested_tags" bson:"interested_tags"`
}

// AuthorStatistics is a point-in-time summary of an author's content and engagement.
type AuthorStatistics struct {
	AuthorID          uint  `json:"author_id"`
	PostCount         int64 `json:"post_count"`
	TotalCommentCount int64 `json:"total_comment_count"`
	TotalLikes        int64 `json:"total_likes"`
	DistinctViewers   int64 `json:"distinct_viewers"`
}
