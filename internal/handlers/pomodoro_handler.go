package handlers

import (
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/OsGift/focusflow-api/internal/middleware"
	"github.com/OsGift/focusflow-api/internal/pomodoro"
	"github.com/OsGift/focusflow-api/internal/utils"
)

// PomodoroHandler exposes the per-user pomodoro engine over HTTP
type PomodoroHandler struct {
	manager *pomodoro.Manager
}

// NewPomodoroHandler creates a new PomodoroHandler
func NewPomodoroHandler(m *pomodoro.Manager) *PomodoroHandler {
	return &PomodoroHandler{manager: m}
}

type startWorkRequest struct {
	TaskID *string `json:"task_id,omitempty"`
}

type startBreakRequest struct {
	Long bool `json:"long"`
}

// StartWork begins a work session, optionally bound to a task
func (h *PomodoroHandler) StartWork(w http.ResponseWriter, r *http.Request) {
	authContext, err := middleware.GetAuthContext(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req startWorkRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}
	}

	var taskID *primitive.ObjectID
	if req.TaskID != nil && *req.TaskID != "" {
		objID, err := primitive.ObjectIDFromHex(*req.TaskID)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid task ID format")
			return
		}
		taskID = &objID
	}

	engine := h.manager.Engine(authContext.UserID)
	if err := engine.StartWork(taskID); err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, engine.State())
}

// StartBreak begins a short or long break
func (h *PomodoroHandler) StartBreak(w http.ResponseWriter, r *http.Request) {
	authContext, err := middleware.GetAuthContext(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var req startBreakRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}
	}

	engine := h.manager.Engine(authContext.UserID)
	if err := engine.StartBreak(req.Long); err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, engine.State())
}

// Pause freezes the running countdown
func (h *PomodoroHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(e *pomodoro.Engine) error { return e.Pause() })
}

// Resume continues a paused countdown
func (h *PomodoroHandler) Resume(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(e *pomodoro.Engine) error { return e.Resume() })
}

// Stop discards the active session without persisting it
func (h *PomodoroHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(e *pomodoro.Engine) error { return e.Stop() })
}

// Acknowledge dismisses a completed session and returns the engine to idle
func (h *PomodoroHandler) Acknowledge(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, func(e *pomodoro.Engine) error { return e.Acknowledge() })
}

func (h *PomodoroHandler) transition(w http.ResponseWriter, r *http.Request, fn func(*pomodoro.Engine) error) {
	authContext, err := middleware.GetAuthContext(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
		return
	}

	engine := h.manager.Engine(authContext.UserID)
	if err := fn(engine); err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, engine.State())
}

// GetState returns a snapshot of the caller's engine
func (h *PomodoroHandler) GetState(w http.ResponseWriter, r *http.Request) {
	authContext, err := middleware.GetAuthContext(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, h.manager.Engine(authContext.UserID).State())
}

// UpdateSettings replaces the caller's session durations
func (h *PomodoroHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	authContext, err := middleware.GetAuthContext(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
		return
	}

	var settings pomodoro.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	engine := h.manager.Engine(authContext.UserID)
	if err := engine.UpdateSettings(settings); err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, engine.State())
}
