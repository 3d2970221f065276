package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a comment on a post
type Comment struct {
	ID        primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	PostID    primitive.ObjectID   `json:"post_id" bson:"post_id"`
	AuthorID  uint                 `json:"author_id" bson:"author_id"`
	Content   string               `json:"content" bson:"content"`
	Replies   []primitive.ObjectID `json:"replies" bson:"replies"`
	CreatedAt time.Time            `json:"created_at" bson:"created_at"`
}

// Reply is an answer to a comment
type Reply struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CommentID primitive.ObjectID `json:"comment_id" bson:"comment_id"`
	AuthorID  uint               `json:"author_id" bson:"author_id"`
	Content   string             `json:"content" bson:"content"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}

// CreateCommentRequest defines the request body for creating a comment or a reply
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}
