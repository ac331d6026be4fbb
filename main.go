package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/OsGift/focusflow-api/api"
	"github.com/OsGift/focusflow-api/internal/config"
	"github.com/OsGift/focusflow-api/internal/database"
	"github.com/OsGift/focusflow-api/internal/handlers"
	"github.com/OsGift/focusflow-api/internal/middleware"
	"github.com/OsGift/focusflow-api/internal/pomodoro"
	"github.com/OsGift/focusflow-api/internal/repository"
	"github.com/OsGift/focusflow-api/internal/services"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// 1. Load configuration
	cfg, err := config.LoadConfig(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("error loading config")
	}

	// 2. Connect to MongoDB
	client, err := database.ConnectMongoDB(cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("error connecting to MongoDB")
	}
	defer func() {
		if err = client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("error disconnecting from MongoDB")
		}
	}()

	db := client.Database(cfg.DBName)
	if err := database.EnsureIndexes(db); err != nil {
		log.Fatal().Err(err).Msg("error creating indexes")
	}

	// 3. Initialize repositories
	taskRepo := repository.NewMongoTaskRepository(db)
	entryRepo := repository.NewMongoTimeEntryRepository(db)
	userRepo := repository.NewMongoUserRepository(db)

	// 4. Initialize services
	taskService := services.NewTaskService(taskRepo)
	trackingService := services.NewTrackingService(entryRepo, taskRepo)
	analyticsService := services.NewAnalyticsService(taskRepo, entryRepo)
	authService := services.NewAuthService(userRepo, []byte(cfg.JWTSecret))

	generator := services.NewOpenAIClient(cfg.InsightsBaseURL, cfg.InsightsAPIKey, cfg.InsightsModel)
	insightService := services.NewInsightService(generator, cfg.InsightsTimeout)

	pomodoroDefaults := pomodoro.Settings{
		WorkMinutes:            cfg.PomodoroWorkMinutes,
		ShortBreakMinutes:      cfg.PomodoroShortBreakMinutes,
		LongBreakMinutes:       cfg.PomodoroLongBreakMinutes,
		SessionsUntilLongBreak: cfg.PomodoroSessionsUntilLong,
	}
	if err := pomodoroDefaults.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid pomodoro defaults")
	}
	pomodoroManager := pomodoro.NewManager(pomodoroDefaults, trackingService)

	// 5. Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)
	trackingHandler := handlers.NewTrackingHandler(trackingService)
	pomodoroHandler := handlers.NewPomodoroHandler(pomodoroManager)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	insightHandler := handlers.NewInsightHandler(analyticsService, insightService)

	// 6. Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware([]byte(cfg.JWTSecret), authService)

	// 7. Setup router
	router := mux.NewRouter()
	api.SetupRoutes(router, authMiddleware, authHandler, taskHandler, trackingHandler, pomodoroHandler, analyticsHandler, insightHandler)

	c := cors.AllowAll()
	handlerWithCORS := c.Handler(router)

	// 8. Start HTTP server
	log.Info().Str("port", cfg.Port).Msg("server starting")
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handlerWithCORS,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Str("port", cfg.Port).Msg("server stopped")
	}
}
