package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/OsGift/focusflow-api/internal/models"
	"github.com/OsGift/focusflow-api/internal/repository"
)

func newAnalyticsFixture() (*AnalyticsService, *repository.MemoryTaskRepository, *repository.MemoryTimeEntryRepository) {
	tasks := repository.NewMemoryTaskRepository()
	entries := repository.NewMemoryTimeEntryRepository()
	return NewAnalyticsService(tasks, entries), tasks, entries
}

func insertTask(t *testing.T, repo *repository.MemoryTaskRepository, task models.Task) {
	t.Helper()
	require.NoError(t, repo.Insert(context.Background(), &task))
}

func insertEntry(t *testing.T, repo *repository.MemoryTimeEntryRepository, entry models.TimeEntry) {
	t.Helper()
	require.NoError(t, repo.Insert(context.Background(), &entry))
}

func finalizedEntry(userID primitive.ObjectID, taskID *primitive.ObjectID, start time.Time, seconds int64) models.TimeEntry {
	end := start.Add(time.Duration(seconds) * time.Second)
	return models.TimeEntry{
		UserID:          userID,
		TaskID:          taskID,
		StartTime:       start,
		EndTime:         &end,
		DurationSeconds: seconds,
		Type:            models.EntryTypeManual,
		CreatedAt:       start,
	}
}

func TestSummarizeCompletionScenario(t *testing.T) {
	svc, tasks, _ := newAnalyticsFixture()
	userID := primitive.NewObjectID()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)
	mid := start.AddDate(0, 0, 10)

	// 10 tasks, 6 completed; one completed task with 30 minutes spent and
	// another with 50, the rest untouched.
	for i := 0; i < 10; i++ {
		task := models.Task{
			UserID:    userID,
			Title:     fmt.Sprintf("task %d", i),
			Priority:  models.PriorityMedium,
			CreatedAt: start.AddDate(0, 0, i),
		}
		if i < 6 {
			completedAt := mid
			task.Completed = true
			task.CompletedDate = &completedAt
		}
		switch i {
		case 0:
			task.TimeSpent = 30
		case 1:
			task.TimeSpent = 50
		}
		insertTask(t, tasks, task)
	}

	summary, err := svc.Summarize(userID, start, end)
	require.NoError(t, err)

	assert.Equal(t, int64(10), summary.TotalTasks)
	assert.Equal(t, int64(6), summary.CompletedTasks)
	assert.Equal(t, int64(4), summary.PendingTasks)
	assert.Equal(t, 60.0, summary.CompletionRate)
	assert.InDelta(t, 80.0/6.0, summary.AvgCompletionTime, 0.01)
}

func TestSummarizeEmptyUser(t *testing.T) {
	svc, _, _ := newAnalyticsFixture()

	summary, err := svc.Summarize(primitive.NewObjectID(), time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, int64(0), summary.TotalTasks)
	assert.Equal(t, 0.0, summary.CompletionRate)
	assert.Equal(t, 0.0, summary.AvgCompletionTime)
	assert.Equal(t, 0.0, summary.AvgSessionSeconds)
	assert.Equal(t, 0.0, summary.Comparison.CompletedChange)
	for _, bucket := range summary.PriorityDistribution {
		assert.Equal(t, 0.0, bucket.Percentage)
	}
}

func TestSummarizePriorityDistribution(t *testing.T) {
	svc, tasks, _ := newAnalyticsFixture()
	userID := primitive.NewObjectID()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 29)

	priorities := []models.TaskPriority{
		models.PriorityHigh, models.PriorityHigh,
		models.PriorityMedium,
		models.PriorityLow,
	}
	for i, p := range priorities {
		insertTask(t, tasks, models.Task{
			UserID:    userID,
			Title:     fmt.Sprintf("task %d", i),
			Priority:  p,
			CreatedAt: start.AddDate(0, 0, i),
		})
	}

	summary, err := svc.Summarize(userID, start, end)
	require.NoError(t, err)

	assert.Equal(t, int64(2), summary.PriorityDistribution[models.PriorityHigh].Count)
	assert.Equal(t, 50.0, summary.PriorityDistribution[models.PriorityHigh].Percentage)
	assert.Equal(t, 25.0, summary.PriorityDistribution[models.PriorityMedium].Percentage)
	assert.Equal(t, 25.0, summary.PriorityDistribution[models.PriorityLow].Percentage)
}

func TestSummarizeTrendBuckets(t *testing.T) {
	svc, tasks, _ := newAnalyticsFixture()
	userID := primitive.NewObjectID()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 29)

	created := start.Add(9 * time.Hour)  // Aug 1
	completed := created.AddDate(0, 0, 2) // Aug 3
	insertTask(t, tasks, models.Task{
		UserID:        userID,
		Title:         "spread across days",
		Priority:      models.PriorityMedium,
		CreatedAt:     created,
		Completed:     true,
		CompletedDate: &completed,
	})

	summary, err := svc.Summarize(userID, start, end)
	require.NoError(t, err)

	// Same task shows up in the created bucket on day one and the completed
	// bucket two days later.
	require.Len(t, summary.Trend, 2)
	assert.Equal(t, "2026-08-01", summary.Trend[0].Date)
	assert.Equal(t, int64(1), summary.Trend[0].Created)
	assert.Equal(t, int64(0), summary.Trend[0].Completed)
	assert.Equal(t, "2026-08-03", summary.Trend[1].Date)
	assert.Equal(t, int64(0), summary.Trend[1].Created)
	assert.Equal(t, int64(1), summary.Trend[1].Completed)
}

func TestSummarizeSessionStats(t *testing.T) {
	svc, _, entries := newAnalyticsFixture()
	userID := primitive.NewObjectID()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 29)

	insertEntry(t, entries, finalizedEntry(userID, nil, start.Add(time.Hour), 600))
	insertEntry(t, entries, finalizedEntry(userID, nil, start.Add(2*time.Hour), 1200))
	// Open entries contribute nothing until finalized.
	insertEntry(t, entries, models.TimeEntry{
		UserID:    userID,
		StartTime: start.Add(3 * time.Hour),
		Type:      models.EntryTypeManual,
	})

	summary, err := svc.Summarize(userID, start, end)
	require.NoError(t, err)

	assert.Equal(t, int64(2), summary.SessionCount)
	assert.Equal(t, int64(1800), summary.TrackedSeconds)
	assert.Equal(t, 900.0, summary.AvgSessionSeconds)
}

func TestSummarizeOrphanedEntriesUseUnknownTaskLabel(t *testing.T) {
	svc, tasks, entries := newAnalyticsFixture()
	userID := primitive.NewObjectID()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 29)

	task := models.Task{
		UserID:    userID,
		Title:     "doomed",
		Priority:  models.PriorityLow,
		CreatedAt: start,
	}
	require.NoError(t, tasks.Insert(context.Background(), &task))
	insertEntry(t, entries, finalizedEntry(userID, &task.ID, start.Add(time.Hour), 300))
	require.NoError(t, tasks.Delete(context.Background(), userID, task.ID))

	summary, err := svc.Summarize(userID, start, end)
	require.NoError(t, err)

	require.Len(t, summary.TimeByTask, 1)
	assert.Equal(t, models.UnknownTaskLabel, summary.TimeByTask[0].Title)
	assert.Equal(t, int64(300), summary.TimeByTask[0].Seconds)
}

// failingFindTaskRepository fails every title lookup, standing in for a
// store that is reachable for range scans but not for point reads.
type failingFindTaskRepository struct {
	*repository.MemoryTaskRepository
}

func (r *failingFindTaskRepository) FindByID(ctx context.Context, userID, id primitive.ObjectID) (*models.Task, error) {
	return nil, fmt.Errorf("store unreachable")
}

func TestSummarizeFailsWhenTitleLookupFails(t *testing.T) {
	tasks := repository.NewMemoryTaskRepository()
	entries := repository.NewMemoryTimeEntryRepository()
	svc := NewAnalyticsService(&failingFindTaskRepository{tasks}, entries)

	userID := primitive.NewObjectID()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 29)

	task := models.Task{
		UserID:    userID,
		Title:     "reachable by range only",
		Priority:  models.PriorityMedium,
		CreatedAt: start,
	}
	require.NoError(t, tasks.Insert(context.Background(), &task))
	insertEntry(t, entries, finalizedEntry(userID, &task.ID, start.Add(time.Hour), 300))

	// A failing lookup must surface as an error, never degrade to the
	// "Unknown Task" label reserved for genuinely deleted tasks.
	_, err := svc.Summarize(userID, start, end)
	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrNotFound)
}

func TestSummarizeCountsCompletionsByDateInWindow(t *testing.T) {
	svc, tasks, _ := newAnalyticsFixture()
	userID := primitive.NewObjectID()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)

	// Created inside the window, completed well after it. It counts as a
	// task of the period but not as a completion of the period, matching
	// the trend buckets.
	done := time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
	insertTask(t, tasks, models.Task{
		UserID:        userID,
		Title:         "finished later",
		Priority:      models.PriorityMedium,
		CreatedAt:     start.AddDate(0, 0, 4),
		Completed:     true,
		CompletedDate: &done,
	})

	summary, err := svc.Summarize(userID, start, end)
	require.NoError(t, err)

	assert.Equal(t, int64(1), summary.CompletedTasks)
	assert.Equal(t, int64(0), summary.Comparison.CurrentCompleted)
	assert.Equal(t, 0.0, summary.Comparison.CompletedChange)
	for _, point := range summary.Trend {
		assert.Equal(t, int64(0), point.Completed)
	}
}

func TestSummarizeTopTags(t *testing.T) {
	svc, tasks, _ := newAnalyticsFixture()
	userID := primitive.NewObjectID()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 29)

	tagSets := [][]string{
		{"work", "deep"},
		{"work"},
		{"home"},
	}
	for i, tags := range tagSets {
		insertTask(t, tasks, models.Task{
			UserID:    userID,
			Title:     fmt.Sprintf("task %d", i),
			Priority:  models.PriorityMedium,
			Tags:      tags,
			CreatedAt: start.AddDate(0, 0, i),
		})
	}

	summary, err := svc.Summarize(userID, start, end)
	require.NoError(t, err)

	require.Len(t, summary.TopTags, 3)
	assert.Equal(t, models.TagCount{Tag: "work", Count: 2}, summary.TopTags[0])
}

func TestSummarizePreviousPeriodComparison(t *testing.T) {
	svc, tasks, _ := newAnalyticsFixture()
	userID := primitive.NewObjectID()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 9)
	prev := start.AddDate(0, 0, -5)

	completedNow := start.AddDate(0, 0, 2)
	completedBefore := prev

	// Two completions this period, one in the window before it.
	for i := 0; i < 2; i++ {
		done := completedNow
		insertTask(t, tasks, models.Task{
			UserID:        userID,
			Title:         fmt.Sprintf("current %d", i),
			Priority:      models.PriorityMedium,
			CreatedAt:     start,
			Completed:     true,
			CompletedDate: &done,
		})
	}
	done := completedBefore
	insertTask(t, tasks, models.Task{
		UserID:        userID,
		Title:         "previous",
		Priority:      models.PriorityMedium,
		CreatedAt:     prev,
		Completed:     true,
		CompletedDate: &done,
	})

	summary, err := svc.Summarize(userID, start, end)
	require.NoError(t, err)

	assert.Equal(t, int64(2), summary.Comparison.CurrentCompleted)
	assert.Equal(t, int64(1), summary.Comparison.PreviousCompleted)
	assert.Equal(t, 100.0, summary.Comparison.CompletedChange)
}

func TestSummarizeComparisonDefinedOnZeroPrevious(t *testing.T) {
	svc, tasks, _ := newAnalyticsFixture()
	userID := primitive.NewObjectID()
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 9)

	done := start.AddDate(0, 0, 1)
	insertTask(t, tasks, models.Task{
		UserID:        userID,
		Title:         "only current",
		Priority:      models.PriorityMedium,
		CreatedAt:     start,
		Completed:     true,
		CompletedDate: &done,
	})

	summary, err := svc.Summarize(userID, start, end)
	require.NoError(t, err)

	// previous = 0 and current > 0 is pinned to +100%.
	assert.Equal(t, 100.0, summary.Comparison.CompletedChange)
	assert.Equal(t, 0.0, summary.Comparison.TrackedChange)
}

func TestSummarizeRejectsInvertedRange(t *testing.T) {
	svc, _, _ := newAnalyticsFixture()
	start := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

	_, err := svc.Summarize(primitive.NewObjectID(), start, start.AddDate(0, 0, -1))
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
}

func TestCompletionRateStaysInBounds(t *testing.T) {
	assert.Equal(t, 0.0, rate(0, 0))
	assert.Equal(t, 100.0, rate(7, 7))
	assert.Equal(t, 33.3, rate(1, 3))
	assert.Equal(t, 66.7, rate(2, 3))
}
