package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitkraft/backend/internal/api"
	"fitkraft/backend/internal/config"
	"fitkraft/backend/internal/planner"
	mongorepo "fitkraft/backend/internal/repository/mongo"
	"fitkraft/backend/internal/service"
	"fitkraft/backend/internal/storage"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: could not load config: %v", err)
	}

	mongoClient, err := mongorepo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: could not connect to database: %v", err)
	}
	defer func() {
		if err := mongorepo.DisconnectDB(mongoClient); err != nil {
			log.Printf("WARN: error disconnecting from database: %v", err)
		}
	}()

	db := mongoClient.Database(cfg.Database.Name)

	// Index creation is idempotent and must not delay startup.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		mongorepo.EnsureUserIndexes(ctx, db.Collection("users"))
		mongorepo.EnsureWorkoutIndexes(ctx, db.Collection("workouts"))
		mongorepo.EnsureExerciseIndexes(ctx, db.Collection("exercises"))
		mongorepo.EnsureStoredExerciseIndexes(ctx, db.Collection("stored_exercises"))
	}()

	fileStorage, err := storage.NewS3Storage(cfg.S3)
	if err != nil {
		log.Fatalf("FATAL: could not initialize file storage: %v", err)
	}

	userRepo := mongorepo.NewMongoUserRepository(db)
	workoutRepo := mongorepo.NewMongoWorkoutRepository(db)
	exerciseRepo := mongorepo.NewMongoExerciseRepository(db)
	storedExerciseRepo := mongorepo.NewMongoStoredExerciseRepository(db)

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	catalogService := service.NewCatalogService(storedExerciseRepo, exerciseRepo, fileStorage)
	workoutService := service.NewWorkoutService(workoutRepo, exerciseRepo, catalogService)
	plannerClient := planner.NewHTTPClient(cfg.Planner.Endpoint, cfg.Planner.RequestTimeout)
	plannerService := service.NewPlannerService(plannerClient, authService, workoutService, cfg.Planner.RequestTimeout, cfg.Planner.DayTimeout)

	authHandler := api.NewAuthHandler(authService)
	workoutHandler := api.NewWorkoutHandler(workoutService, authService, plannerService)
	exerciseHandler := api.NewExerciseHandler(catalogService)

	router := api.SetupRouter(authHandler, workoutHandler, exerciseHandler, cfg.JWT.Secret)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: router,
	}

	go func() {
		log.Printf("INFO: starting server on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: could not start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("INFO: shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("FATAL: server forced to shutdown: %v", err)
	}

	log.Println("INFO: server exited gracefully")
}
