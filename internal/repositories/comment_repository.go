package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/inkwell/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCommentRepository stores comments and replies in MongoDB and keeps the
// child id arrays on their parents.
type MongoCommentRepository struct {
	posts    *mongo.Collection
	comments *mongo.Collection
	replies  *mongo.Collection
}

// NewMongoCommentRepository creates a new MongoCommentRepository
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{
		posts:    db.Collection("posts"),
		comments: db.Collection("comments"),
		replies:  db.Collection("replies"),
	}
}

// CreateComment inserts the comment under postID. Linking it into the post is
// a separate step.
func (r *MongoCommentRepository) CreateComment(ctx context.Context, postID string, comment *models.Comment) error {
	parent, err := objectID(postID)
	if err != nil {
		return err
	}
	comment.PostID = parent
	comment.ID = primitive.NewObjectID()
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = time.Now()
	}
	if comment.Replies == nil {
		comment.Replies = []primitive.ObjectID{}
	}
	_, err = r.comments.InsertOne(ctx, comment)
	return mongoError(err)
}

// CreateReply inserts the reply under commentID. Linking it into the comment
// is a separate step.
func (r *MongoCommentRepository) CreateReply(ctx context.Context, commentID string, reply *models.Reply) error {
	parent, err := objectID(commentID)
	if err != nil {
		return err
	}
	reply.CommentID = parent
	reply.ID = primitive.NewObjectID()
	if reply.CreatedAt.IsZero() {
		reply.CreatedAt = time.Now()
	}
	_, err = r.replies.InsertOne(ctx, reply)
	return mongoError(err)
}

// AppendChildReference pushes childID onto the parent's child array: a
// post's comments or a comment's replies.
func (r *MongoCommentRepository) AppendChildReference(ctx context.Context, parentKind models.TargetKind, parentID, childID string) error {
	parent, err := objectID(parentID)
	if err != nil {
		return err
	}
	child, err := objectID(childID)
	if err != nil {
		return err
	}

	var (
		collection *mongo.Collection
		field      string
	)
	switch parentKind {
	case models.TargetPost:
		collection, field = r.posts, "comments"
	case models.TargetComment:
		collection, field = r.comments, "replies"
	default:
		return fmt.Errorf("%s cannot have children", parentKind)
	}

	res, err := collection.UpdateOne(ctx, bson.M{"_id": parent}, bson.M{"$push": bson.M{field: child}})
	if err != nil {
		return mongoError(err)
	}
	if res.MatchedCount == 0 {
		return models.ErrRecordNotFound
	}
	return nil
}

// CommentOwner returns the author of the comment
func (r *MongoCommentRepository) CommentOwner(ctx context.Context, id string) (uint, error) {
	return owner(ctx, r.comments, id)
}

// ReplyOwner returns the author of the reply
func (r *MongoCommentRepository) ReplyOwner(ctx context.Context, id string) (uint, error) {
	return owner(ctx, r.replies, id)
}

// GetCommentsByPostID retrieves the comments of a post, oldest first
func (r *MongoCommentRepository) GetCommentsByPostID(ctx context.Context, postID string) ([]models.Comment, error) {
	objID, err := objectID(postID)
	if err != nil {
		return nil, err
	}
	cursor, err := r.comments.Find(ctx, bson.M{"post_id": objID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, mongoError(err)
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// GetRepliesByCommentID retrieves the replies to a comment, oldest first
func (r *MongoCommentRepository) GetRepliesByCommentID(ctx context.Context, commentID string) ([]models.Reply, error) {
	objID, err := objectID(commentID)
	if err != nil {
		return nil, err
	}
	cursor, err := r.replies.Find(ctx, bson.M{"comment_id": objID}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, mongoError(err)
	}
	defer cursor.Close(ctx)

	var replies []models.Reply
	if err := cursor.All(ctx, &replies); err != nil {
		return nil, err
	}
	return replies, nil
}

func owner(ctx context.Context, collection *mongo.Collection, id string) (uint, error) {
	objID, err := objectID(id)
	if err != nil {
		return 0, err
	}
	var doc struct {
		AuthorID uint `bson:"author_id"`
	}
	opts := options.FindOne().SetProjection(bson.M{"author_id": 1})
	if err := collection.FindOne(ctx, bson.M{"_id": objID}, opts).Decode(&doc); err != nil {
		return 0, mongoError(err)
	}
	return doc.AuthorID, nil
}
