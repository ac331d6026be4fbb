package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TaskPriority represents the priority of a task
type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
)

// Task represents a single task item
type Task struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID        primitive.ObjectID `bson:"user_id" json:"user_id"` // Owner of the task
	Title         string             `bson:"title" json:"title" validate:"required,min=1"`
	Description   string             `bson:"description" json:"description"`
	Priority      TaskPriority       `bson:"priority" json:"priority" validate:"required,oneof=low medium high"`
	Tags          []string           `bson:"tags" json:"tags"`
	DueDate       *time.Time         `bson:"due_date,omitempty" json:"due_date,omitempty"`
	Completed     bool               `bson:"completed" json:"completed"`
	CompletedDate *time.Time         `bson:"completed_date,omitempty" json:"completed_date,omitempty"`
	TimeSpent     int64              `bson:"time_spent" json:"time_spent"`         // accumulated minutes
	PomodoroCount int64              `bson:"pomodoro_count" json:"pomodoro_count"` // completed work sessions
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}

// MarkCompleted transitions a task to completed, stamping completed_date.
// Calling it on an already-completed task keeps the original completion date.
func (t *Task) MarkCompleted(now time.Time) {
	if t.Completed && t.CompletedDate != nil {
		return
	}
	t.Completed = true
	t.CompletedDate = &now
}

// MarkIncomplete transitions a task back to pending and clears completed_date.
func (t *Task) MarkIncomplete() {
	t.Completed = false
	t.CompletedDate = nil
}

// CreateTaskRequest is for creating a new task
type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,min=1"`
	Description string     `json:"description"`
	Priority    string     `json:"priority" validate:"omitempty,oneof=low medium high"`
	Tags        []string   `json:"tags"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// UpdateTaskRequest is for updating an existing task
type UpdateTaskRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=1"`
	Description *string    `json:"description,omitempty"`
	Priority    *string    `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	Tags        *[]string  `json:"tags,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
}

// TaskFilter narrows a task listing; zero-value fields are ignored.
type TaskFilter struct {
	Completed *bool
	Priority  TaskPriority
	Tag       string
	Search    string
}

// TaskListResponse holds tasks and count metadata
type TaskListResponse struct {
	Tasks      []Task `json:"tasks"`
	TotalCount int64  `json:"total_count"`
}
