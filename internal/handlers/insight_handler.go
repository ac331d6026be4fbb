package handlers

import (
	"net/http"

	"github.com/OsGift/focusflow-api/internal/middleware"
	"github.com/OsGift/focusflow-api/internal/services"
	"github.com/OsGift/focusflow-api/internal/utils"
)

// InsightHandler serves AI-generated productivity insights
type InsightHandler struct {
	analyticsService *services.AnalyticsService
	insightService   *services.InsightService
}

// NewInsightHandler creates a new InsightHandler
func NewInsightHandler(as *services.AnalyticsService, is *services.InsightService) *InsightHandler {
	return &InsightHandler{analyticsService: as, insightService: is}
}

// GetInsights aggregates the caller's activity and returns a natural-language
// summary plus tips. An unreachable generation service falls back to canned
// advice; aggregation failures are still real errors.
func (h *InsightHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	authContext, err := middleware.GetAuthContext(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
		return
	}

	start, end, err := parseDateRange(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.analyticsService.Summarize(authContext.UserID, start, end)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, h.insightService.GenerateInsights(summary))
}
