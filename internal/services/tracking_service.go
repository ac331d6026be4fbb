package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/OsGift/focusflow-api/internal/models"
	"github.com/OsGift/focusflow-api/internal/repository"
)

// TrackingService manages time-tracking sessions. It also implements
// pomodoro.Recorder so the engine can write completed work sessions back.
type TrackingService struct {
	entries repository.TimeEntryRepository
	tasks   repository.TaskRepository
}

// NewTrackingService creates a new TrackingService
func NewTrackingService(entries repository.TimeEntryRepository, tasks repository.TaskRepository) *TrackingService {
	return &TrackingService{entries: entries, tasks: tasks}
}

// StartSession opens a new time entry with no end time. The task reference,
// if given, must resolve to one of the user's tasks.
func (s *TrackingService) StartSession(userID primitive.ObjectID, req *models.StartTrackingRequest) (*models.TimeEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entryType := models.EntryType(req.Type)
	if entryType == "" {
		entryType = models.EntryTypeManual
	}

	var taskID *primitive.ObjectID
	if req.TaskID != nil && *req.TaskID != "" {
		objID, err := primitive.ObjectIDFromHex(*req.TaskID)
		if err != nil {
			return nil, models.NewValidationError("invalid task ID format")
		}
		if _, err := s.tasks.FindByID(ctx, userID, objID); err != nil {
			return nil, err
		}
		taskID = &objID
	}

	entry := &models.TimeEntry{
		UserID:    userID,
		TaskID:    taskID,
		StartTime: time.Now(),
		Type:      entryType,
		CreatedAt: time.Now(),
	}
	if err := s.entries.Insert(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// EndSession finalizes an open entry, deriving duration from the wall-clock
// interval. Ending an already-finalized entry is rejected so the duration is
// written exactly once. A bound task accrues the elapsed minutes.
func (s *TrackingService) EndSession(userID primitive.ObjectID, id string) (*models.TimeEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.NewValidationError("invalid entry ID format")
	}

	entry, err := s.entries.FindByID(ctx, userID, objID)
	if err != nil {
		return nil, err
	}
	if entry.Finalized() {
		return nil, models.ErrAlreadyFinalized
	}

	now := time.Now()
	if now.Before(entry.StartTime) {
		now = entry.StartTime
	}
	entry.EndTime = &now
	entry.DurationSeconds = int64(now.Sub(entry.StartTime).Seconds())

	if err := s.entries.Finalize(ctx, entry); err != nil {
		return nil, err
	}

	if entry.TaskID != nil {
		minutes := entry.DurationSeconds / 60
		if err := s.tasks.AddProgress(ctx, userID, *entry.TaskID, minutes, 0); err != nil && err != models.ErrNotFound {
			return nil, err
		}
		// ErrNotFound means the task was deleted mid-session; the entry
		// stands on its own.
	}
	return entry, nil
}

// ListSessions returns the user's entries in a date range, newest first.
func (s *TrackingService) ListSessions(userID primitive.ObjectID, start, end time.Time) ([]models.TimeEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.entries.FindByUserInRange(ctx, userID, start, end)
}

// RecordWorkSession persists a completed pomodoro work interval: a finalized
// pomodoro entry is always written, and the bound task, if any, accrues the
// elapsed minutes plus one pomodoro.
func (s *TrackingService) RecordWorkSession(ctx context.Context, userID primitive.ObjectID, taskID *primitive.ObjectID, start, end time.Time) error {
	duration := int64(end.Sub(start).Seconds())
	entry := &models.TimeEntry{
		UserID:          userID,
		TaskID:          taskID,
		StartTime:       start,
		EndTime:         &end,
		DurationSeconds: duration,
		Type:            models.EntryTypePomodoro,
		CreatedAt:       time.Now(),
	}
	if err := s.entries.Insert(ctx, entry); err != nil {
		return err
	}

	if taskID != nil {
		if err := s.tasks.AddProgress(ctx, userID, *taskID, duration/60, 1); err != nil && err != models.ErrNotFound {
			return err
		}
	}
	return nil
}
