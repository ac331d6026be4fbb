package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EntryType distinguishes how a time entry was recorded
type EntryType string

const (
	EntryTypePomodoro EntryType = "pomodoro"
	EntryTypeManual   EntryType = "manual"
)

// TimeEntry represents one timed work session. An entry is open while
// end_time is nil; finalizing sets end_time and derives duration_seconds.
// Finalized entries are never mutated again.
type TimeEntry struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	UserID          primitive.ObjectID  `bson:"user_id" json:"user_id"`
	TaskID          *primitive.ObjectID `bson:"task_id,omitempty" json:"task_id,omitempty"`
	StartTime       time.Time           `bson:"start_time" json:"start_time"`
	EndTime         *time.Time          `bson:"end_time,omitempty" json:"end_time,omitempty"`
	DurationSeconds int64               `bson:"duration_seconds" json:"duration_seconds"`
	Type            EntryType           `bson:"type" json:"type"`
	CreatedAt       time.Time           `bson:"created_at" json:"created_at"`
}

// Finalized reports whether the entry has ended.
func (e *TimeEntry) Finalized() bool {
	return e.EndTime != nil
}

// StartTrackingRequest opens a new time entry
type StartTrackingRequest struct {
	TaskID *string `json:"task_id,omitempty"`
	Type   string  `json:"type" validate:"omitempty,oneof=pomodoro manual"`
}

// TimeEntryListResponse holds entries for a user/date range
type TimeEntryListResponse struct {
	Entries    []TimeEntry `json:"entries"`
	TotalCount int64       `json:"total_count"`
}
