package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post represents a blog post stored in MongoDB
type Post struct {
	ID              primitive.ObjectID   `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID        uint                 `json:"author_id" bson:"author_id"`
	Title           string               `json:"title" bson:"title"`
	Content         string               `json:"content" bson:"content"`
	Tags            []string             `json:"tags,omitempty" bson:"tags,omitempty"`
	Comments        []primitive.ObjectID `json:"comments" bson:"comments"`
	PublicationDate time.Time            `json:"publication_date" bson:"publication_date"`
	UpdatedAt       time.Time            `json:"updated_at" bson:"updated_at"`
}

// PostSummary is the per-post projection the statistics view aggregates over.
type PostSummary struct {
	ID           string `json:"id" bson:"_id"`
	CommentCount int64  `json:"comment_count" bson:"comment_count"`
}

// CreatePostRequest defines the request body for publishing a post
type CreatePostRequest struct {
	Title   string   `json:"title" validate:"required,max=200"`
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags" validate:"max=20,dive,required,max=40"`
}
