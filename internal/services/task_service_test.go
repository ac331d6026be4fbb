package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/OsGift/focusflow-api/internal/models"
	"github.com/OsGift/focusflow-api/internal/repository"
)

func newTaskFixture() *TaskService {
	return NewTaskService(repository.NewMemoryTaskRepository())
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func TestCreateTaskDefaultsPriorityToMedium(t *testing.T) {
	svc := newTaskFixture()

	task, err := svc.CreateTask(primitive.NewObjectID(), &models.CreateTaskRequest{Title: "plan sprint"})
	require.NoError(t, err)

	assert.Equal(t, models.PriorityMedium, task.Priority)
	assert.False(t, task.Completed)
	assert.Nil(t, task.CompletedDate)
	assert.False(t, task.CreatedAt.IsZero())
}

func TestCompletedDateInvariant(t *testing.T) {
	svc := newTaskFixture()
	userID := primitive.NewObjectID()

	task, err := svc.CreateTask(userID, &models.CreateTaskRequest{Title: "ship release"})
	require.NoError(t, err)

	// completed=true stamps the completion date.
	updated, err := svc.UpdateTask(userID, task.ID.Hex(), &models.UpdateTaskRequest{Completed: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	require.NotNil(t, updated.CompletedDate)
	firstCompleted := *updated.CompletedDate

	// Completing again keeps the original date.
	updated, err = svc.UpdateTask(userID, task.ID.Hex(), &models.UpdateTaskRequest{Completed: boolPtr(true)})
	require.NoError(t, err)
	require.NotNil(t, updated.CompletedDate)
	assert.Equal(t, firstCompleted, *updated.CompletedDate)

	// completed=false clears it.
	updated, err = svc.UpdateTask(userID, task.ID.Hex(), &models.UpdateTaskRequest{Completed: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, updated.Completed)
	assert.Nil(t, updated.CompletedDate)
}

func TestMarkTransitionsHoldInvariantDirectly(t *testing.T) {
	task := &models.Task{Title: "invariant check"}

	task.MarkCompleted(time.Now())
	assert.True(t, task.Completed)
	assert.NotNil(t, task.CompletedDate)

	task.MarkIncomplete()
	assert.False(t, task.Completed)
	assert.Nil(t, task.CompletedDate)
}

func TestListTasksFilters(t *testing.T) {
	svc := newTaskFixture()
	userID := primitive.NewObjectID()

	_, err := svc.CreateTask(userID, &models.CreateTaskRequest{Title: "write docs", Priority: "high", Tags: []string{"writing"}})
	require.NoError(t, err)
	second, err := svc.CreateTask(userID, &models.CreateTaskRequest{Title: "buy groceries", Priority: "low", Tags: []string{"errand"}})
	require.NoError(t, err)
	_, err = svc.UpdateTask(userID, second.ID.Hex(), &models.UpdateTaskRequest{Completed: boolPtr(true)})
	require.NoError(t, err)

	byPriority, err := svc.ListTasks(userID, models.TaskFilter{Priority: models.PriorityHigh})
	require.NoError(t, err)
	require.Len(t, byPriority, 1)
	assert.Equal(t, "write docs", byPriority[0].Title)

	byTag, err := svc.ListTasks(userID, models.TaskFilter{Tag: "errand"})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, "buy groceries", byTag[0].Title)

	completed, err := svc.ListTasks(userID, models.TaskFilter{Completed: boolPtr(true)})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, second.ID, completed[0].ID)

	bySearch, err := svc.ListTasks(userID, models.TaskFilter{Search: "DOCS"})
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "write docs", bySearch[0].Title)
}

func TestUpdateTaskPartialFields(t *testing.T) {
	svc := newTaskFixture()
	userID := primitive.NewObjectID()

	task, err := svc.CreateTask(userID, &models.CreateTaskRequest{Title: "old title", Priority: "low"})
	require.NoError(t, err)

	updated, err := svc.UpdateTask(userID, task.ID.Hex(), &models.UpdateTaskRequest{
		Title:    strPtr("new title"),
		Priority: strPtr("high"),
	})
	require.NoError(t, err)

	assert.Equal(t, "new title", updated.Title)
	assert.Equal(t, models.PriorityHigh, updated.Priority)
	assert.Equal(t, task.CreatedAt, updated.CreatedAt, "creation date is immutable")
}

func TestTaskOwnershipFoldedIntoNotFound(t *testing.T) {
	svc := newTaskFixture()
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()

	task, err := svc.CreateTask(owner, &models.CreateTaskRequest{Title: "private"})
	require.NoError(t, err)

	_, err = svc.GetTaskByID(stranger, task.ID.Hex())
	assert.ErrorIs(t, err, models.ErrNotFound)

	err = svc.DeleteTask(stranger, task.ID.Hex())
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.UpdateTask(stranger, task.ID.Hex(), &models.UpdateTaskRequest{Completed: boolPtr(true)})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestTaskInvalidIDIsValidationError(t *testing.T) {
	svc := newTaskFixture()

	_, err := svc.GetTaskByID(primitive.NewObjectID(), "not-a-hex-id")
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
}
