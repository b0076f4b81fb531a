package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures the Gin engine with all application routes.
func SetupRouter(
	authHandler *AuthHandler,
	workoutHandler *WorkoutHandler,
	exerciseHandler *ExerciseHandler,
	jwtSecret string,
) *gin.Engine {
	router := gin.Default()

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router.POST("/user/register", authHandler.Register)
	router.POST("/user/login", authHandler.Login)

	authed := router.Group("/")
	authed.Use(AuthMiddleware(jwtSecret))
	{
		authed.GET("/user/me", authHandler.Me)

		workout := authed.Group("/workout")
		{
			workout.POST("/create", workoutHandler.CreateWorkout)
			workout.GET("/get/:userId", workoutHandler.GetWorkouts)
			workout.GET("/get/last7days/:userId", workoutHandler.GetLast7Days)
			workout.POST("/:workoutId/exercises", workoutHandler.AddExercise)
			workout.PUT("/:workoutId/exercises/:exerciseId", workoutHandler.UpdateExercise)
			workout.DELETE("/:workoutId/exercises/:exerciseId", workoutHandler.RemoveExercise)
			workout.PUT("/update/completestatus/:exerciseId", workoutHandler.SetCompleteStatus)
			workout.PUT("/update/exercises/:workoutId", workoutHandler.ReplaceExercises)
			workout.DELETE("/delete/:workoutId", workoutHandler.DeleteWorkout)
			workout.DELETE("/history/:userId", workoutHandler.PruneHistory)
			workout.POST("/generate/:userId", workoutHandler.GeneratePlan)
		}

		exercise := authed.Group("/exercise")
		{
			exercise.POST("/create", exerciseHandler.CreateExercise)
			exercise.GET("/get", exerciseHandler.ListExercises)
			exercise.GET("/get/:name", exerciseHandler.SearchExercises)
			exercise.POST("/createStored", exerciseHandler.CreateStoredExercise)
			exercise.POST("/media/upload-url", exerciseHandler.RequestMediaUploadURL)
			exercise.POST("/media/confirm", exerciseHandler.ConfirmMediaUpload)
		}
	}

	return router
}
