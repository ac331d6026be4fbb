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

// MongoTaskRepository implements TaskRepository over a tasks collection
type MongoTaskRepository struct {
	collection *mongo.Collection
}

// NewMongoTaskRepository creates a new MongoTaskRepository
func NewMongoTaskRepository(db *mongo.Database) *MongoTaskRepository {
	return &MongoTaskRepository{collection: db.Collection("tasks")}
}

func (r *MongoTaskRepository) Insert(ctx context.Context, task *models.Task) error {
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	_, err := r.collection.InsertOne(ctx, task)
	return err
}

func (r *MongoTaskRepository) FindByID(ctx context.Context, userID, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&task)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *MongoTaskRepository) FindByUser(ctx context.Context, userID primitive.ObjectID, filter models.TaskFilter) ([]models.Task, error) {
	query := bson.M{"user_id": userID}
	if filter.Completed != nil {
		query["completed"] = *filter.Completed
	}
	if filter.Priority != "" {
		query["priority"] = filter.Priority
	}
	if filter.Tag != "" {
		query["tags"] = filter.Tag
	}
	if filter.Search != "" {
		searchPattern := primitive.Regex{Pattern: filter.Search, Options: "i"}
		query["$or"] = []bson.M{
			{"title": searchPattern},
			{"description": searchPattern},
		}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err = cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *MongoTaskRepository) FindByUserInRange(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]models.Task, error) {
	// A task is in range when it was created or completed inside the window,
	// so trend buckets see both events.
	query := bson.M{
		"user_id": userID,
		"$or": []bson.M{
			{"created_at": bson.M{"$gte": start, "$lte": end}},
			{"completed_date": bson.M{"$gte": start, "$lte": end}},
		},
	}
	cursor, err := r.collection.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err = cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *MongoTaskRepository) Update(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": task.ID, "user_id": task.UserID}, task)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *MongoTaskRepository) Delete(ctx context.Context, userID, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *MongoTaskRepository) AddProgress(ctx context.Context, userID, id primitive.ObjectID, minutes, pomodoros int64) error {
	update := bson.M{
		"$inc": bson.M{"time_spent": minutes, "pomodoro_count": pomodoros},
		"$set": bson.M{"updated_at": time.Now()},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "user_id": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
