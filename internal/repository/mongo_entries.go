package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/OsGift/focusflow-api/internal/models"
)

// MongoTimeEntryRepository implements TimeEntryRepository over a
// time_entries collection
type MongoTimeEntryRepository struct {
	collection *mongo.Collection
}

// NewMongoTimeEntryRepository creates a new MongoTimeEntryRepository
func NewMongoTimeEntryRepository(db *mongo.Database) *MongoTimeEntryRepository {
	return &MongoTimeEntryRepository{collection: db.Collection("time_entries")}
}

func (r *MongoTimeEntryRepository) Insert(ctx context.Context, entry *models.TimeEntry) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

func (r *MongoTimeEntryRepository) FindByID(ctx context.Context, userID, id primitive.ObjectID) (*models.TimeEntry, error) {
	var entry models.TimeEntry
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&entry)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

func (r *MongoTimeEntryRepository) FindByUserInRange(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]models.TimeEntry, error) {
	query := bson.M{
		"user_id":    userID,
		"start_time": bson.M{"$gte": start, "$lte": end},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "start_time", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []models.TimeEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Finalize writes end_time and duration for an open entry. The filter
// requires end_time to be unset so a finalized entry can never be mutated
// again, even under concurrent requests.
func (r *MongoTimeEntryRepository) Finalize(ctx context.Context, entry *models.TimeEntry) error {
	filter := bson.M{
		"_id":      entry.ID,
		"user_id":  entry.UserID,
		"end_time": bson.M{"$exists": false},
	}
	update := bson.M{"$set": bson.M{
		"end_time":         entry.EndTime,
		"duration_seconds": entry.DurationSeconds,
	}}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrAlreadyFinalized
	}
	return nil
}
