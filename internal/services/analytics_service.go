package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/OsGift/focusflow-api/internal/models"
	"github.com/OsGift/focusflow-api/internal/repository"
)

const topTagLimit = 10

// AnalyticsService derives summary statistics from the task and
// time-tracking stores. It is read-only and never returns a partially
// populated summary: any stage failing fails the whole aggregation.
type AnalyticsService struct {
	tasks   repository.TaskRepository
	entries repository.TimeEntryRepository
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(tasks repository.TaskRepository, entries repository.TimeEntryRepository) *AnalyticsService {
	return &AnalyticsService{tasks: tasks, entries: entries}
}

// Summarize aggregates the user's activity over [start, end]. A zero start
// and end default to the trailing 30 days.
func (s *AnalyticsService) Summarize(userID primitive.ObjectID, start, end time.Time) (*models.AnalyticsSummary, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if start.IsZero() || end.IsZero() {
		end = time.Now()
		start = end.AddDate(0, 0, -30)
	}
	if end.Before(start) {
		return nil, models.NewValidationError("end date precedes start date")
	}

	tasks, err := s.tasks.FindByUserInRange(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("aggregating tasks: %w", err)
	}
	entries, err := s.entries.FindByUserInRange(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("aggregating time entries: %w", err)
	}

	summary := &models.AnalyticsSummary{
		StartDate: start,
		EndDate:   end,
	}

	completedInWindow := s.aggregateTasks(summary, tasks, start, end)
	if err := s.aggregateEntries(ctx, summary, userID, entries); err != nil {
		return nil, fmt.Errorf("aggregating time entries: %w", err)
	}

	if err := s.compareToPreviousPeriod(ctx, summary, userID, start, end, completedInWindow); err != nil {
		return nil, fmt.Errorf("aggregating previous period: %w", err)
	}
	return summary, nil
}

// aggregateTasks fills in the task-derived stats and returns the number of
// tasks whose completion date falls inside the window, which feeds the
// period comparison.
func (s *AnalyticsService) aggregateTasks(summary *models.AnalyticsSummary, tasks []models.Task, start, end time.Time) int64 {
	summary.TotalTasks = int64(len(tasks))

	var completedTime int64
	priorityCounts := map[models.TaskPriority]int64{
		models.PriorityLow:    0,
		models.PriorityMedium: 0,
		models.PriorityHigh:   0,
	}
	tagCounts := make(map[string]int64)
	trendCreated := make(map[string]int64)
	trendCompleted := make(map[string]int64)

	for _, task := range tasks {
		if task.Completed {
			summary.CompletedTasks++
			completedTime += task.TimeSpent
		}
		summary.TimeSpentMinutes += task.TimeSpent
		priorityCounts[task.Priority]++
		for _, tag := range task.Tags {
			tagCounts[tag]++
		}
		// A task lands in the created bucket on its creation day and the
		// completed bucket on its completion day; both only if in range.
		if inWindow(task.CreatedAt, start, end) {
			trendCreated[dayKey(task.CreatedAt)]++
		}
		if task.CompletedDate != nil && inWindow(*task.CompletedDate, start, end) {
			trendCompleted[dayKey(*task.CompletedDate)]++
		}
	}

	summary.PendingTasks = summary.TotalTasks - summary.CompletedTasks
	summary.CompletionRate = rate(summary.CompletedTasks, summary.TotalTasks)
	if summary.CompletedTasks > 0 {
		summary.AvgCompletionTime = float64(completedTime) / float64(summary.CompletedTasks)
	}

	summary.PriorityDistribution = make(map[models.TaskPriority]models.PriorityBucket, len(priorityCounts))
	for priority, count := range priorityCounts {
		summary.PriorityDistribution[priority] = models.PriorityBucket{
			Count:      count,
			Percentage: rate(count, summary.TotalTasks),
		}
	}

	summary.TopTags = topTags(tagCounts, topTagLimit)
	summary.Trend = buildTrend(trendCreated, trendCompleted)

	var completedInWindow int64
	for _, count := range trendCompleted {
		completedInWindow += count
	}
	return completedInWindow
}

func (s *AnalyticsService) aggregateEntries(ctx context.Context, summary *models.AnalyticsSummary, userID primitive.ObjectID, entries []models.TimeEntry) error {
	timeByTask := make(map[string]int64) // task hex id ("" for unlinked) -> seconds
	for _, entry := range entries {
		if !entry.Finalized() {
			continue
		}
		summary.SessionCount++
		summary.TrackedSeconds += entry.DurationSeconds
		key := ""
		if entry.TaskID != nil {
			key = entry.TaskID.Hex()
		}
		timeByTask[key] += entry.DurationSeconds
	}
	if summary.SessionCount > 0 {
		summary.AvgSessionSeconds = float64(summary.TrackedSeconds) / float64(summary.SessionCount)
	}

	byTask, err := s.resolveTaskTitles(ctx, userID, timeByTask)
	if err != nil {
		return err
	}
	summary.TimeByTask = byTask
	return nil
}

// resolveTaskTitles maps tracked seconds to task titles. Only entries whose
// task is actually gone degrade to the "Unknown Task" sentinel; a failing
// store lookup fails the whole aggregation rather than mislabelling it.
func (s *AnalyticsService) resolveTaskTitles(ctx context.Context, userID primitive.ObjectID, timeByTask map[string]int64) ([]models.TaskTime, error) {
	var out []models.TaskTime
	for key, seconds := range timeByTask {
		if key == "" {
			out = append(out, models.TaskTime{Title: "Untracked", Seconds: seconds})
			continue
		}
		objID, err := primitive.ObjectIDFromHex(key)
		if err != nil {
			continue
		}
		title := models.UnknownTaskLabel
		task, err := s.tasks.FindByID(ctx, userID, objID)
		switch {
		case err == nil:
			title = task.Title
		case errors.Is(err, models.ErrNotFound):
			// deleted task, keep the sentinel
		default:
			return nil, err
		}
		out = append(out, models.TaskTime{TaskID: key, Title: title, Seconds: seconds})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Seconds != out[j].Seconds {
			return out[i].Seconds > out[j].Seconds
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

// compareToPreviousPeriod fills in the equal-length window immediately
// preceding [start, end]. Both sides count completions by completion date
// falling inside their window, same as the trend buckets.
func (s *AnalyticsService) compareToPreviousPeriod(ctx context.Context, summary *models.AnalyticsSummary, userID primitive.ObjectID, start, end time.Time, completedInWindow int64) error {
	window := end.Sub(start)
	prevEnd := start.Add(-time.Nanosecond)
	prevStart := prevEnd.Add(-window)

	prevTasks, err := s.tasks.FindByUserInRange(ctx, userID, prevStart, prevEnd)
	if err != nil {
		return err
	}
	prevEntries, err := s.entries.FindByUserInRange(ctx, userID, prevStart, prevEnd)
	if err != nil {
		return err
	}

	var prevCompleted, prevTracked int64
	for _, task := range prevTasks {
		if task.CompletedDate != nil && inWindow(*task.CompletedDate, prevStart, prevEnd) {
			prevCompleted++
		}
	}
	for _, entry := range prevEntries {
		if entry.Finalized() {
			prevTracked += entry.DurationSeconds
		}
	}

	summary.Comparison = models.PeriodComparison{
		PreviousCompleted: prevCompleted,
		CurrentCompleted:  completedInWindow,
		CompletedChange:   percentChange(completedInWindow, prevCompleted),
		PreviousTracked:   prevTracked,
		CurrentTracked:    summary.TrackedSeconds,
		TrackedChange:     percentChange(summary.TrackedSeconds, prevTracked),
	}
	return nil
}

// rate returns part/total as a percentage rounded to one decimal, 0 when
// total is 0.
func rate(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}

// percentChange is (current-previous)/previous*100, pinned to 100 when
// previous is 0 and current is positive, and 0 when both are 0.
func percentChange(current, previous int64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return math.Round(float64(current-previous)/float64(previous)*1000) / 10
}

func dayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

func inWindow(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

func topTags(tagCounts map[string]int64, limit int) []models.TagCount {
	out := make([]models.TagCount, 0, len(tagCounts))
	for tag, count := range tagCounts {
		out = append(out, models.TagCount{Tag: tag, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Tag < out[j].Tag
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func buildTrend(created, completed map[string]int64) []models.TrendPoint {
	days := make(map[string]struct{})
	for day := range created {
		days[day] = struct{}{}
	}
	for day := range completed {
		days[day] = struct{}{}
	}
	out := make([]models.TrendPoint, 0, len(days))
	for day := range days {
		out = append(out, models.TrendPoint{
			Date:      day,
			Created:   created[day],
			Completed: completed[day],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
