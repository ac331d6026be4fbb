package models

import "time"

// UnknownTaskLabel is substituted when a time entry references a task that
// no longer exists. Deleting a task does not cascade to its entries.
const UnknownTaskLabel = "Unknown Task"

// PriorityBucket holds the count and share of tasks at one priority level
type PriorityBucket struct {
	Count      int64   `json:"count"`
	Percentage float64 `json:"percentage"`
}

// TagCount is one entry of the tag frequency distribution
type TagCount struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

// TaskTime is tracked time attributed to one task. Entries whose task was
// deleted are grouped under the UnknownTaskLabel sentinel.
type TaskTime struct {
	TaskID  string `json:"task_id,omitempty"`
	Title   string `json:"title"`
	Seconds int64  `json:"seconds"`
}

// TrendPoint is a single calendar-day bucket of the activity trend
type TrendPoint struct {
	Date      string `json:"date"` // YYYY-MM-DD
	Created   int64  `json:"created"`
	Completed int64  `json:"completed"`
}

// PeriodComparison compares the current window against the equal-length
// window immediately preceding it.
type PeriodComparison struct {
	PreviousCompleted int64   `json:"previous_completed"`
	CurrentCompleted  int64   `json:"current_completed"`
	CompletedChange   float64 `json:"completed_change_pct"`
	PreviousTracked   int64   `json:"previous_tracked_seconds"`
	CurrentTracked    int64   `json:"current_tracked_seconds"`
	TrackedChange     float64 `json:"tracked_change_pct"`
}

// AnalyticsSummary is the full aggregation result for one user/date range
type AnalyticsSummary struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`

	TotalTasks     int64   `json:"total_tasks"`
	CompletedTasks int64   `json:"completed_tasks"`
	PendingTasks   int64   `json:"pending_tasks"`
	CompletionRate float64 `json:"completion_rate"` // percent, one decimal

	TimeSpentMinutes  int64   `json:"time_spent_minutes"`  // from task counters
	TrackedSeconds    int64   `json:"tracked_seconds"`     // from finalized entries
	SessionCount      int64   `json:"session_count"`       // finalized entries in range
	AvgSessionSeconds float64 `json:"avg_session_seconds"` // 0 when no sessions
	AvgCompletionTime float64 `json:"avg_completion_time"` // minutes, 0 when none completed

	PriorityDistribution map[TaskPriority]PriorityBucket `json:"priority_distribution"`
	TopTags              []TagCount                      `json:"top_tags"`
	TimeByTask           []TaskTime                      `json:"time_by_task"`
	Trend                []TrendPoint                    `json:"trend"`
	Comparison           PeriodComparison                `json:"comparison"`
}

// InsightResponse is the parsed output of the insight generator
type InsightResponse struct {
	Summary  string   `json:"summary"`
	Insights []string `json:"insights"`
}
