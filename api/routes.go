package api

import (
	"github.com/gorilla/mux"

	"github.com/OsGift/focusflow-api/internal/handlers"
	"github.com/OsGift/focusflow-api/internal/middleware"
)

// SetupRoutes configures all API routes
func SetupRoutes(
	router *mux.Router,
	authMiddleware *middleware.AuthMiddleware,
	authHandler *handlers.AuthHandler,
	taskHandler *handlers.TaskHandler,
	trackingHandler *handlers.TrackingHandler,
	pomodoroHandler *handlers.PomodoroHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	insightHandler *handlers.InsightHandler,
) {
	v1 := router.PathPrefix("/api/v1").Subrouter()

	// Authentication routes (public)
	v1.HandleFunc("/auth/register", authHandler.RegisterUser).Methods("POST")
	v1.HandleFunc("/auth/login", authHandler.LoginUser).Methods("POST")

	// Task routes (protected)
	v1.HandleFunc("/tasks", authMiddleware.JWTAuth(taskHandler.CreateTask)).Methods("POST")
	v1.HandleFunc("/tasks", authMiddleware.JWTAuth(taskHandler.GetTasks)).Methods("GET")
	v1.HandleFunc("/tasks/{id}", authMiddleware.JWTAuth(taskHandler.GetTaskByID)).Methods("GET")
	v1.HandleFunc("/tasks/{id}", authMiddleware.JWTAuth(taskHandler.UpdateTask)).Methods("PUT")
	v1.HandleFunc("/tasks/{id}", authMiddleware.JWTAuth(taskHandler.DeleteTask)).Methods("DELETE")

	// Time-tracking routes (protected)
	v1.HandleFunc("/tracking/start", authMiddleware.JWTAuth(trackingHandler.StartSession)).Methods("POST")
	v1.HandleFunc("/tracking/{id}/end", authMiddleware.JWTAuth(trackingHandler.EndSession)).Methods("PUT")
	v1.HandleFunc("/tracking", authMiddleware.JWTAuth(trackingHandler.ListSessions)).Methods("GET")

	// Pomodoro routes (protected)
	v1.HandleFunc("/pomodoro", authMiddleware.JWTAuth(pomodoroHandler.GetState)).Methods("GET")
	v1.HandleFunc("/pomodoro/work", authMiddleware.JWTAuth(pomodoroHandler.StartWork)).Methods("POST")
	v1.HandleFunc("/pomodoro/break", authMiddleware.JWTAuth(pomodoroHandler.StartBreak)).Methods("POST")
	v1.HandleFunc("/pomodoro/pause", authMiddleware.JWTAuth(pomodoroHandler.Pause)).Methods("POST")
	v1.HandleFunc("/pomodoro/resume", authMiddleware.JWTAuth(pomodoroHandler.Resume)).Methods("POST")
	v1.HandleFunc("/pomodoro/stop", authMiddleware.JWTAuth(pomodoroHandler.Stop)).Methods("POST")
	v1.HandleFunc("/pomodoro/acknowledge", authMiddleware.JWTAuth(pomodoroHandler.Acknowledge)).Methods("POST")
	v1.HandleFunc("/pomodoro/settings", authMiddleware.JWTAuth(pomodoroHandler.UpdateSettings)).Methods("PUT")

	// Analytics and insights (protected)
	v1.HandleFunc("/analytics", authMiddleware.JWTAuth(analyticsHandler.GetSummary)).Methods("GET")
	v1.HandleFunc("/insights", authMiddleware.JWTAuth(insightHandler.GetInsights)).Methods("GET")
}
