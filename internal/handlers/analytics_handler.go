package handlers

import (
	"net/http"

	"github.com/OsGift/focusflow-api/internal/middleware"
	"github.com/OsGift/focusflow-api/internal/services"
	"github.com/OsGift/focusflow-api/internal/utils"
)

// AnalyticsHandler serves aggregated productivity statistics
type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(as *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: as}
}

// GetSummary aggregates the caller's tasks and time entries over the
// requested date range (trailing 30 days by default)
func (h *AnalyticsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
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

	utils.RespondWithJSON(w, http.StatusOK, summary)
}
