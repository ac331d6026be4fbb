package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/OsGift/focusflow-api/internal/middleware"
	"github.com/OsGift/focusflow-api/internal/models"
	"github.com/OsGift/focusflow-api/internal/services"
	"github.com/OsGift/focusflow-api/internal/utils"
)

// TrackingHandler handles time-tracking HTTP requests
type TrackingHandler struct {
	trackingService *services.TrackingService
	validator       *validator.Validate
}

// NewTrackingHandler creates a new TrackingHandler
func NewTrackingHandler(ts *services.TrackingService) *TrackingHandler {
	return &TrackingHandler{
		trackingService: ts,
		validator:       validator.New(),
	}
}

// StartSession opens a new time entry
func (h *TrackingHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var req models.StartTrackingRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}
	}

	if err := h.validator.Struct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	authContext, err := middleware.GetAuthContext(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
		return
	}

	entry, err := h.trackingService.StartSession(authContext.UserID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, entry)
}

// EndSession finalizes an open time entry
func (h *TrackingHandler) EndSession(w http.ResponseWriter, r *http.Request) {
	authContext, err := middleware.GetAuthContext(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
		return
	}

	entry, err := h.trackingService.EndSession(authContext.UserID, mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, entry)
}

// ListSessions returns the caller's entries for a date range, defaulting to
// the trailing 30 days
func (h *TrackingHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
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
	if start.IsZero() || end.IsZero() {
		end = time.Now()
		start = end.AddDate(0, 0, -30)
	}

	entries, err := h.trackingService.ListSessions(authContext.UserID, start, end)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []models.TimeEntry{}
	}

	utils.RespondWithJSON(w, http.StatusOK, models.TimeEntryListResponse{
		Entries:    entries,
		TotalCount: int64(len(entries)),
	})
}

// parseDateRange reads optional start_date/end_date query params in either
// RFC3339 or plain YYYY-MM-DD form. An end date without a time component
// covers the whole day.
func parseDateRange(r *http.Request) (time.Time, time.Time, error) {
	var start, end time.Time

	if raw := r.URL.Query().Get("start_date"); raw != "" {
		parsed, err := parseDate(raw, false)
		if err != nil {
			return start, end, err
		}
		start = parsed
	}
	if raw := r.URL.Query().Get("end_date"); raw != "" {
		parsed, err := parseDate(raw, true)
		if err != nil {
			return start, end, err
		}
		end = parsed
	}
	if !start.IsZero() && end.IsZero() {
		end = time.Now()
	}
	if start.IsZero() && !end.IsZero() {
		start = end.AddDate(0, 0, -30)
	}
	return start, end, nil
}

func parseDate(raw string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, models.NewValidationError("invalid date %q, use YYYY-MM-DD or RFC3339", raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
