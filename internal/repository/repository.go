// Package repository abstracts persistence behind explicit interfaces so the
// analytics aggregator and the pomodoro engine can run against an in-memory
// store in tests. Production wiring uses the MongoDB implementations.
package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/OsGift/focusflow-api/internal/models"
)

// TaskRepository persists tasks, always scoped to one owning user.
type TaskRepository interface {
	Insert(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, userID, id primitive.ObjectID) (*models.Task, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID, filter models.TaskFilter) ([]models.Task, error)
	FindByUserInRange(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, userID, id primitive.ObjectID) error

	// AddProgress increments the task's accumulated counters. Used by the
	// pomodoro engine's completion write-back and manual tracking.
	AddProgress(ctx context.Context, userID, id primitive.ObjectID, minutes, pomodoros int64) error
}

// TimeEntryRepository persists time-tracking records.
type TimeEntryRepository interface {
	Insert(ctx context.Context, entry *models.TimeEntry) error
	FindByID(ctx context.Context, userID, id primitive.ObjectID) (*models.TimeEntry, error)
	FindByUserInRange(ctx context.Context, userID primitive.ObjectID, start, end time.Time) ([]models.TimeEntry, error)
	Finalize(ctx context.Context, entry *models.TimeEntry) error
}

// UserRepository persists user accounts.
type UserRepository interface {
	Insert(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}
