package repositories

import (
	"context"

	"github.com/anonto42/inkwell/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoActivityRepository keeps one user_activities document per user with
// one array per activity set. Arrays are maintained with $addToSet and $pull,
// so repeated writes are idempotent without a read.
type MongoActivityRepository struct {
	collection *mongo.Collection
}

func NewMongoActivityRepository(db *mongo.Database) *MongoActivityRepository {
	return &MongoActivityRepository{collection: db.Collection("user_activities")}
}

// AddToSet adds targetID to the named set, creating the document if needed.
func (r *MongoActivityRepository) AddToSet(ctx context.Context, userID uint, set, targetID string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$addToSet": bson.M{set: targetID}},
		options.Update().SetUpsert(true),
	)
	return mongoError(err)
}

// Pull removes targetID from the named set. A missing document is left missing.
func (r *MongoActivityRepository) Pull(ctx context.Context, userID uint, set, targetID string) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$pull": bson.M{set: targetID}},
	)
	return mongoError(err)
}

func (r *MongoActivityRepository) GetActivity(ctx context.Context, userID uint) (*models.UserActivity, error) {
	var activity models.UserActivity
	if err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&activity); err != nil {
		return nil, mongoError(err)
	}
	return &activity, nil
}
