package repositories

import (
	"context"

	"github.com/anonto42/inkwell/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoReadingRepository stores reading profiles: the reading history and
// the interest tags of each user.
type MongoReadingRepository struct {
	collection *mongo.Collection
}

func NewMongoReadingRepository(db *mongo.Database) *MongoReadingRepository {
	return &MongoReadingRepository{collection: db.Collection("reading_profiles")}
}

// AppendHistory pushes an entry onto the reading history. Entries are never
// deduplicated.
func (r *MongoReadingRepository) AppendHistory(ctx context.Context, userID uint, entry models.ReadingEntry) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$push": bson.M{"reading_history": entry}},
		options.Update().SetUpsert(true),
	)
	return mongoError(err)
}

func (r *MongoReadingRepository) GetInterestedTags(ctx context.Context, userID uint) ([]string, error) {
	var profile struct {
		InterestedTags []string `bson:"interested_tags"`
	}
	opts := options.FindOne().SetProjection(bson.M{"interested_tags": 1})
	if err := r.collection.FindOne(ctx, bson.M{"user_id": userID}, opts).Decode(&profile); err != nil {
		return nil, mongoError(err)
	}
	return profile.InterestedTags, nil
}

// AddInterestedTags appends tags as given. The caller filters out tags that
// are already present.
func (r *MongoReadingRepository) AddInterestedTags(ctx context.Context, userID uint, tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"user_id": userID},
		bson.M{"$push": bson.M{"interested_tags": bson.M{"$each": tags}}},
		options.Update().SetUpsert(true),
	)
	return mongoError(err)
}

// CountReaders counts users whose history contains any of postIDs
func (r *MongoReadingRepository) CountReaders(ctx context.Context, postIDs []string) (int64, error) {
	if len(postIDs) == 0 {
		return 0, nil
	}
	n, err := r.collection.CountDocuments(ctx, bson.M{"reading_history.post_id": bson.M{"$in": postIDs}})
	return n, mongoError(err)
}

func (r *MongoReadingRepository) GetProfile(ctx context.Context, userID uint) (*models.ReadingProfile, error) {
	var profile models.ReadingProfile
	if err := r.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&profile); err != nil {
		return nil, mongoError(err)
	}
	return &profile, nil
}
