package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"fitkraft/backend/internal/domain"
	"fitkraft/backend/internal/planner"
	"fitkraft/backend/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutHandler handles workout and plan-generation requests.
type WorkoutHandler struct {
	workoutService service.WorkoutService
	authService    service.AuthService
	plannerService service.PlannerService
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(
	workoutService service.WorkoutService,
	authService service.AuthService,
	plannerService service.PlannerService,
) *WorkoutHandler {
	return &WorkoutHandler{
		workoutService: workoutService,
		authService:    authService,
		plannerService: plannerService,
	}
}

type exerciseRequest struct {
	Name     string          `json:"name" binding:"required"`
	Type     string          `json:"type"`
	Duration durationRequest `json:"duration"`
	Sets     *int            `json:"sets"`
	Reps     *int            `json:"reps"`
	Weight   *float64        `json:"weight"`

	Description string `json:"description"`
	BodyPart    string `json:"bodyPart"`
	Equipment   string `json:"equipment"`
}

type durationRequest struct {
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

func (r exerciseRequest) toInput() service.ExerciseInput {
	return service.ExerciseInput{
		Name:        r.Name,
		Type:        r.Type,
		Duration:    domain.Duration{Minutes: r.Duration.Minutes, Seconds: r.Duration.Seconds},
		Sets:        r.Sets,
		Reps:        r.Reps,
		Weight:      r.Weight,
		Description: r.Description,
		BodyPart:    r.BodyPart,
		Equipment:   r.Equipment,
	}
}

func toInputs(reqs []exerciseRequest) []service.ExerciseInput {
	inputs := make([]service.ExerciseInput, 0, len(reqs))
	for _, r := range reqs {
		inputs = append(inputs, r.toInput())
	}
	return inputs
}

type createWorkoutRequest struct {
	Exercises []exerciseRequest `json:"exercises" binding:"required"`
	Date      *time.Time        `json:"date"`
}

// CreateWorkout handles POST /workout/create
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, "user identity missing from context")
		return
	}

	var req createWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	details, err := h.workoutService.CreateWorkout(c.Request.Context(), userID, toInputs(req.Exercises), req.Date, h.userWeight(c, userID))
	if err != nil {
		h.respondWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusCreated, details)
}

// AddExercise handles POST /workout/:workoutId/exercises
func (h *WorkoutHandler) AddExercise(c *gin.Context) {
	workoutID, ok := parseObjectID(c, "workoutId")
	if !ok {
		return
	}

	var req exerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	details, err := h.workoutService.AddExercise(c.Request.Context(), workoutID, req.toInput())
	if err != nil {
		h.respondWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// Fields a partial exercise update may never touch: identity is immutable,
// completion has a dedicated endpoint, and calories are derived.
var protectedExerciseFields = []string{"_id", "id", "completed", "caloriesBurned"}

// UpdateExercise handles PUT /workout/:workoutId/exercises/:exerciseId
func (h *WorkoutHandler) UpdateExercise(c *gin.Context) {
	workoutID, ok := parseObjectID(c, "workoutId")
	if !ok {
		return
	}
	exerciseID, ok := parseObjectID(c, "exerciseId")
	if !ok {
		return
	}

	var fields map[string]json.RawMessage
	if err := c.ShouldBindJSON(&fields); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	for _, name := range protectedExerciseFields {
		if _, present := fields[name]; present {
			abortWithError(c, http.StatusBadRequest, "field cannot be updated: "+name)
			return
		}
	}

	update, err := decodeExerciseUpdate(fields)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	details, err := h.workoutService.UpdateExercise(c.Request.Context(), workoutID, exerciseID, update)
	if err != nil {
		h.respondWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

func decodeExerciseUpdate(fields map[string]json.RawMessage) (service.ExerciseUpdate, error) {
	var update service.ExerciseUpdate
	if raw, ok := fields["name"]; ok {
		if err := json.Unmarshal(raw, &update.Name); err != nil {
			return update, err
		}
	}
	if raw, ok := fields["type"]; ok {
		if err := json.Unmarshal(raw, &update.Type); err != nil {
			return update, err
		}
	}
	if raw, ok := fields["duration"]; ok {
		var d durationRequest
		if err := json.Unmarshal(raw, &d); err != nil {
			return update, err
		}
		update.Duration = &domain.Duration{Minutes: d.Minutes, Seconds: d.Seconds}
	}
	if raw, ok := fields["sets"]; ok {
		if err := json.Unmarshal(raw, &update.Sets); err != nil {
			return update, err
		}
	}
	if raw, ok := fields["reps"]; ok {
		if err := json.Unmarshal(raw, &update.Reps); err != nil {
			return update, err
		}
	}
	if raw, ok := fields["weight"]; ok {
		if err := json.Unmarshal(raw, &update.Weight); err != nil {
			return update, err
		}
	}
	return update, nil
}

// RemoveExercise handles DELETE /workout/:workoutId/exercises/:exerciseId
func (h *WorkoutHandler) RemoveExercise(c *gin.Context) {
	workoutID, ok := parseObjectID(c, "workoutId")
	if !ok {
		return
	}
	exerciseID, ok := parseObjectID(c, "exerciseId")
	if !ok {
		return
	}

	details, err := h.workoutService.RemoveExercise(c.Request.Context(), workoutID, exerciseID)
	if err != nil {
		h.respondWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

type completeStatusRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// SetCompleteStatus handles PUT /workout/update/completestatus/:exerciseId
func (h *WorkoutHandler) SetCompleteStatus(c *gin.Context) {
	exerciseID, ok := parseObjectID(c, "exerciseId")
	if !ok {
		return
	}

	var req completeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	exercise, err := h.workoutService.SetExerciseCompleted(c.Request.Context(), exerciseID, *req.Completed)
	if err != nil {
		h.respondWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercise)
}

type replaceExercisesRequest struct {
	Exercises []exerciseRequest `json:"exercises" binding:"required"`
}

// ReplaceExercises handles PUT /workout/update/exercises/:workoutId
func (h *WorkoutHandler) ReplaceExercises(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		abortWithError(c, http.StatusUnauthorized, "user identity missing from context")
		return
	}
	workoutID, ok := parseObjectID(c, "workoutId")
	if !ok {
		return
	}

	var req replaceExercisesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	details, err := h.workoutService.ReplaceExercises(c.Request.Context(), workoutID, userID, toInputs(req.Exercises))
	if err != nil {
		h.respondWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// GetWorkouts handles GET /workout/get/:userId
func (h *WorkoutHandler) GetWorkouts(c *gin.Context) {
	userID := c.Param("userId")

	details, err := h.workoutService.GetWorkouts(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to load workouts")
		return
	}
	if len(details) == 0 {
		abortWithError(c, http.StatusNotFound, "no workouts found for user")
		return
	}
	c.JSON(http.StatusOK, details)
}

// GetLast7Days handles GET /workout/get/last7days/:userId
func (h *WorkoutHandler) GetLast7Days(c *gin.Context) {
	userID := c.Param("userId")

	details, err := h.workoutService.GetLast7Days(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to load workouts")
		return
	}
	c.JSON(http.StatusOK, details)
}

// DeleteWorkout handles DELETE /workout/delete/:workoutId
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	workoutID, ok := parseObjectID(c, "workoutId")
	if !ok {
		return
	}

	if err := h.workoutService.DeleteWorkout(c.Request.Context(), workoutID); err != nil {
		h.respondWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "workout deleted"})
}

// PruneHistory handles DELETE /workout/history/:userId
func (h *WorkoutHandler) PruneHistory(c *gin.Context) {
	userID := c.Param("userId")

	deleted, err := h.workoutService.PruneHistory(c.Request.Context(), userID)
	if err != nil {
		h.respondWorkoutError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

type generatePlanRequest struct {
	PlanningPreferences service.PlanPreferences `json:"planning_preferences"`
}

// GeneratePlan handles POST /workout/generate/:userId
func (h *WorkoutHandler) GeneratePlan(c *gin.Context) {
	userID := c.Param("userId")

	var req generatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	report, err := h.plannerService.GeneratePlan(c.Request.Context(), userID, req.PlanningPreferences)
	if err != nil {
		var upstream *planner.UpstreamError
		var validation *planner.ValidationError
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			abortWithError(c, http.StatusNotFound, "user not found")
		case errors.As(err, &upstream):
			c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{
				"error":          "plan generation service unavailable",
				"upstreamStatus": upstream.StatusCode,
				"upstreamBody":   string(upstream.Body),
			})
		case errors.As(err, &validation):
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
				"error":        "generated plan failed validation",
				"errors":       validation.Messages,
				"rejectedPlan": validation.Raw,
			})
		default:
			abortWithError(c, http.StatusInternalServerError, "failed to generate plan")
		}
		return
	}

	c.JSON(http.StatusCreated, report)
}

// userWeight resolves the user's body weight for calorie attribution; an
// unknown profile falls back to the service-level default.
func (h *WorkoutHandler) userWeight(c *gin.Context, userID string) float64 {
	user, err := h.authService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		return 0
	}
	return user.WeightKg
}

func (h *WorkoutHandler) respondWorkoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrWorkoutNotFound):
		abortWithError(c, http.StatusNotFound, "workout not found")
	case errors.Is(err, service.ErrExerciseNotFound):
		abortWithError(c, http.StatusNotFound, "exercise not found")
	case errors.Is(err, service.ErrWorkoutValidation), errors.Is(err, service.ErrTemplateValidation):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "internal server error")
	}
}

func parseObjectID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	return parseObjectIDString(c, c.Param(param), param)
}

func parseObjectIDString(c *gin.Context, value, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(value)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid "+name+" format")
		return primitive.NilObjectID, false
	}
	return id, true
}
