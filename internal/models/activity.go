package models

// Activity set names; they double as the bson field names of UserActivity.
const (
	SetLikedPosts      = "liked_posts"
	SetCommentedPosts  = "commented_posts"
	SetRepliedComments = "replied_comments"
	SetLikedComments   = "liked_comments"
	SetLikedReplies    = "liked_replies"
)

// UserActivity is the per-user aggregate of engaged target ids (MongoDB).
// It is derived from likes and content actions; it is never the source of truth.
type UserActivity struct {
	UserID          uint     `json:"user_id" bson:"user_id"`
	LikedPosts      []string `json:"liked_posts" bson:"liked_posts"`
	CommentedPosts  []string `json:"commented_posts" bson:"commented_posts"`
	RepliedComments []string `json:"replied_comments" bson:"replied_comments"`
	LikedComments   []string `json:"liked_comments" bson:"liked_comments"`
	LikedReplies    []string `json:"liked_replies" bson:"liked_replies"`
}

// Set returns the members of the named set.
func (a *UserActivity) Set(name string) []string {
	switch name {
	case SetLikedPosts:
		return a.LikedPosts
	case SetCommentedPosts:
		return a.CommentedPosts
	case SetRepliedComments:
		return a.RepliedComments
	case SetLikedComments:
		return a.LikedComments
	case SetLikedReplies:
		return a.LikedReplies
	}
	return nil
}
