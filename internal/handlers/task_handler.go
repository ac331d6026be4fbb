package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/OsGift/focusflow-api/internal/middleware"
	"github.com/OsGift/focusflow-api/internal/models"
	"github.com/OsGift/focusflow-api/internal/services"
	"github.com/OsGift/focusflow-api/internal/utils"
)

// TaskHandler handles task related HTTP requests
type TaskHandler struct {
	taskService *services.TaskService
	validator   *validator.Validate
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(ts *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: ts,
		validator:   validator.New(),
	}
}

// CreateTask handles creating a new task
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
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

	createdTask, err := h.taskService.CreateTask(authContext.UserID, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, createdTask)
}

// GetTasks handles listing the caller's tasks with filters and search
func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	authContext, err := middleware.GetAuthContext(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
		return
	}

	filter := models.TaskFilter{
		Tag:    r.URL.Query().Get("tag"),
		Search: r.URL.Query().Get("search"),
	}

	if completedParam := r.URL.Query().Get("completed"); completedParam != "" {
		completed, err := strconv.ParseBool(completedParam)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid completed filter. Must be true or false.")
			return
		}
		filter.Completed = &completed
	}

	if priorityParam := r.URL.Query().Get("priority"); priorityParam != "" {
		switch strings.ToLower(priorityParam) {
		case "low", "medium", "high":
			filter.Priority = models.TaskPriority(strings.ToLower(priorityParam))
		default:
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid priority filter. Must be 'low', 'medium', or 'high'.")
			return
		}
	}

	tasks, err := h.taskService.ListTasks(authContext.UserID, filter)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	utils.RespondWithJSON(w, http.StatusOK, models.TaskListResponse{
		Tasks:      tasks,
		TotalCount: int64(len(tasks)),
	})
}

// GetTaskByID handles retrieving a single task by ID
func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	authContext, err := middleware.GetAuthContext(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
		return
	}

	task, err := h.taskService.GetTaskByID(authContext.UserID, mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, task)
}

// UpdateTask handles partial updates, including completion toggles
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
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

	updatedTask, err := h.taskService.UpdateTask(authContext.UserID, mux.Vars(r)["id"], &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, updatedTask)
}

// DeleteTask handles deleting a task
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	authContext, err := middleware.GetAuthContext(r)
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, err.Error())
		return
	}

	if err := h.taskService.DeleteTask(authContext.UserID, mux.Vars(r)["id"]); err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "Task deleted"})
}
