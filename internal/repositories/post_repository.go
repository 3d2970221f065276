package repositories

import (
	"context"
	"time"

	"github.com/anonto42/inkwell/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPostRepository implements post storage for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

// CreatePost creates a new post in MongoDB
func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	if post.PublicationDate.IsZero() {
		post.PublicationDate = time.Now()
	}
	post.UpdatedAt = post.PublicationDate
	if post.Comments == nil {
		post.Comments = []primitive.ObjectID{}
	}
	_, err := r.collection.InsertOne(ctx, post)
	return mongoError(err)
}

// GetPostByID retrieves a post by ID from MongoDB
func (r *MongoPostRepository) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	objID, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var post models.Post
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&post); err != nil {
		return nil, mongoError(err)
	}
	return &post, nil
}

// GetPostsByAuthorID retrieves an author's posts, newest first
func (r *MongoPostRepository) GetPostsByAuthorID(ctx context.Context, authorID uint, skip, limit int64) ([]models.Post, error) {
	var posts []models.Post
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "publication_date", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"author_id": authorID}, findOptions)
	if err != nil {
		return nil, mongoError(err)
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// ListPosts pages through all posts, newest first
func (r *MongoPostRepository) ListPosts(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "publication_date", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, mongoError(err)
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// PostOwner returns the author of the post
func (r *MongoPostRepository) PostOwner(ctx context.Context, postID string) (uint, error) {
	objID, err := objectID(postID)
	if err != nil {
		return 0, err
	}

	var post struct {
		AuthorID uint `bson:"author_id"`
	}
	opts := options.FindOne().SetProjection(bson.M{"author_id": 1})
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}, opts).Decode(&post); err != nil {
		return 0, mongoError(err)
	}
	return post.AuthorID, nil
}

// GetPostTags returns the tags of the post
func (r *MongoPostRepository) GetPostTags(ctx context.Context, postID string) ([]string, error) {
	objID, err := objectID(postID)
	if err != nil {
		return nil, err
	}

	var post struct {
		Tags []string `bson:"tags"`
	}
	opts := options.FindOne().SetProjection(bson.M{"tags": 1})
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}, opts).Decode(&post); err != nil {
		return nil, mongoError(err)
	}
	return post.Tags, nil
}

// ListPostSummaries returns the id and comment count of each of the author's posts
func (r *MongoPostRepository) ListPostSummaries(ctx context.Context, authorID uint) ([]models.PostSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"author_id": authorID}}},
		{{Key: "$project", Value: bson.M{
			"_id":           bson.M{"$toString": "$_id"},
			"comment_count": bson.M{"$size": bson.M{"$ifNull": bson.A{"$comments", bson.A{}}}},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, mongoError(err)
	}
	defer cursor.Close(ctx)

	var summaries []models.PostSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}
