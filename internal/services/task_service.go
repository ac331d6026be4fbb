package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/OsGift/focusflow-api/internal/models"
	"github.com/OsGift/focusflow-api/internal/repository"
)

// TaskService provides methods for task-related operations
type TaskService struct {
	tasks repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(tasks repository.TaskRepository) *TaskService {
	return &TaskService{tasks: tasks}
}

// CreateTask creates a new task for the user
func (s *TaskService) CreateTask(userID primitive.ObjectID, req *models.CreateTaskRequest) (*models.Task, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	priority := models.TaskPriority(req.Priority)
	if priority == "" {
		priority = models.PriorityMedium
	}

	now := time.Now()
	task := &models.Task{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		Tags:        req.Tags,
		DueDate:     req.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.tasks.Insert(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// GetTaskByID retrieves one of the user's tasks
func (s *TaskService) GetTaskByID(userID primitive.ObjectID, id string) (*models.Task, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.NewValidationError("invalid task ID format")
	}
	return s.tasks.FindByID(ctx, userID, objID)
}

// ListTasks retrieves the user's tasks with optional filtering and search,
// newest first
func (s *TaskService) ListTasks(userID primitive.ObjectID, filter models.TaskFilter) ([]models.Task, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.tasks.FindByUser(ctx, userID, filter)
}

// UpdateTask applies a partial update to an existing task. Completion state
// only changes through the explicit mark transitions so the completed_date
// invariant holds.
func (s *TaskService) UpdateTask(userID primitive.ObjectID, id string, req *models.UpdateTaskRequest) (*models.Task, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.NewValidationError("invalid task ID format")
	}

	task, err := s.tasks.FindByID(ctx, userID, objID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		task.Priority = models.TaskPriority(*req.Priority)
	}
	if req.Tags != nil {
		task.Tags = *req.Tags
	}
	if req.DueDate != nil {
		task.DueDate = req.DueDate
	}
	if req.Completed != nil {
		if *req.Completed {
			task.MarkCompleted(time.Now())
		} else {
			task.MarkIncomplete()
		}
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask deletes one of the user's tasks. Time entries referencing the
// task are left in place; aggregation resolves them to "Unknown Task".
func (s *TaskService) DeleteTask(userID primitive.ObjectID, id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.NewValidationError("invalid task ID format")
	}
	return s.tasks.Delete(ctx, userID, objID)
}
