package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/OsGift/focusflow-api/internal/models"
)

// TextGenerator abstracts the external text-generation service.
// Implementations can target OpenAI, Ollama, or any compatible endpoint.
type TextGenerator interface {
	// Generate sends a prompt and returns the model's text response.
	Generate(ctx context.Context, prompt string) (string, error)
}

// bulletPattern matches numbered ("1." / "1)") and bulleted ("-", "*", "•")
// list markers at the start of a line.
var bulletPattern = regexp.MustCompile(`^\s*(?:\d+[.)]|[-*•])\s+`)

// InsightService turns an analytics summary into natural-language insights.
// Upstream failures degrade to a canned response; they are never surfaced
// to the user as errors.
type InsightService struct {
	generator TextGenerator
	timeout   time.Duration
}

// NewInsightService creates a new InsightService
func NewInsightService(generator TextGenerator, timeout time.Duration) *InsightService {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &InsightService{generator: generator, timeout: timeout}
}

// GenerateInsights asks the generator for a short coaching write-up of the
// aggregated summary.
func (s *InsightService) GenerateInsights(summary *models.AnalyticsSummary) *models.InsightResponse {
	if s.generator == nil {
		return fallbackInsights()
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	response, err := s.generator.Generate(ctx, buildInsightPrompt(summary))
	if err != nil {
		log.Warn().Err(err).Msg("insight generation failed, using fallback")
		return fallbackInsights()
	}

	parsed := parseInsightResponse(response)
	if parsed == nil {
		log.Warn().Msg("insight response unparseable, using fallback")
		return fallbackInsights()
	}
	return parsed
}

// buildInsightPrompt renders the summary into the fixed prompt template.
func buildInsightPrompt(summary *models.AnalyticsSummary) string {
	var b strings.Builder
	b.WriteString("You are a productivity coach. Based on the statistics below, write one short paragraph summarizing the user's productivity, then 3 numbered actionable tips.\n\n")
	fmt.Fprintf(&b, "Period: %s to %s\n", summary.StartDate.Format("2006-01-02"), summary.EndDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "Tasks: %d total, %d completed, %d pending (%.1f%% completion rate)\n",
		summary.TotalTasks, summary.CompletedTasks, summary.PendingTasks, summary.CompletionRate)
	fmt.Fprintf(&b, "Time tracked: %d minutes on tasks, %d focus sessions averaging %.0f seconds\n",
		summary.TimeSpentMinutes, summary.SessionCount, summary.AvgSessionSeconds)
	fmt.Fprintf(&b, "Completed tasks vs previous period: %+.1f%%\n", summary.Comparison.CompletedChange)
	if len(summary.TopTags) > 0 {
		tags := make([]string, 0, len(summary.TopTags))
		for _, tc := range summary.TopTags {
			tags = append(tags, fmt.Sprintf("%s (%d)", tc.Tag, tc.Count))
		}
		fmt.Fprintf(&b, "Most used tags: %s\n", strings.Join(tags, ", "))
	}
	return b.String()
}

// parseInsightResponse splits the free-text response into a summary
// paragraph and a list of insights. Returns nil when nothing usable is
// found.
func parseInsightResponse(text string) *models.InsightResponse {
	paragraphs := splitParagraphs(text)
	if len(paragraphs) == 0 {
		return nil
	}

	result := &models.InsightResponse{Summary: paragraphs[0]}

	for _, paragraph := range paragraphs[1:] {
		for _, line := range strings.Split(paragraph, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if bulletPattern.MatchString(line) {
				result.Insights = append(result.Insights, bulletPattern.ReplaceAllString(line, ""))
			}
		}
	}

	// No list markers anywhere: treat the remaining paragraphs themselves
	// as insights.
	if len(result.Insights) == 0 {
		for _, paragraph := range paragraphs[1:] {
			result.Insights = append(result.Insights, strings.Join(strings.Fields(paragraph), " "))
		}
	}
	return result
}

func splitParagraphs(text string) []string {
	var out []string
	for _, block := range regexp.MustCompile(`\n\s*\n`).Split(strings.ReplaceAll(text, "\r\n", "\n"), -1) {
		block = strings.TrimSpace(block)
		if block != "" {
			out = append(out, block)
		}
	}
	return out
}

func fallbackInsights() *models.InsightResponse {
	return &models.InsightResponse{
		Summary: "Keep up the good work! Consistent effort on your tasks adds up quickly, even when progress feels slow.",
		Insights: []string{
			"Break large tasks into smaller ones you can finish in a single focus session.",
			"Use the pomodoro timer to protect a few distraction-free blocks every day.",
			"Review your pending tasks each morning and pick the highest-priority one first.",
		},
	}
}
