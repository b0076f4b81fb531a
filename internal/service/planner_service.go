package service

import (
	"context"
	"log"
	"time"

	"fitkraft/backend/internal/planner"
)

// PlanPreferences are the caller-supplied knobs for plan generation. Zero
// values fall back to the standard defaults; an explicit experience level
// overrides the one inferred from the profile.
type PlanPreferences struct {
	ExperienceLevel         string   `json:"experience_level"`
	AvailableDaysForNewPlan int      `json:"availableDaysForNewPlan"`
	TimePerSessionMinutes   int      `json:"timePerSessionMinutes"`
	AvailableEquipment      []string `json:"availableEquipment"`
}

// PlanDayReport records the materialization outcome of one generated day.
type PlanDayReport struct {
	Date          string `json:"date"`
	Status        string `json:"status"`
	WorkoutID     string `json:"workoutId,omitempty"`
	ExerciseCount int    `json:"exerciseCount,omitempty"`
	Error         string `json:"error,omitempty"`
}

// PlanReport summarizes a whole generation run, including days that failed
// to materialize.
type PlanReport struct {
	ExperienceLevel string          `json:"experienceLevel"`
	DaysRequested   int             `json:"daysRequested"`
	Created         int             `json:"created"`
	Failed          int             `json:"failed"`
	Days            []PlanDayReport `json:"days"`
}

const (
	planDayCreated = "created"
	planDayFailed  = "failed"
)

// PlannerService orchestrates plan generation: it assembles the user's
// profile and recent history into a generation request, validates the
// untrusted response strictly, and materializes each approved day as a
// regular workout. Materialization tolerates per-day failures; a run is only
// rejected wholesale when the response itself fails validation.
type PlannerService interface {
	GeneratePlan(ctx context.Context, userID string, prefs PlanPreferences) (*PlanReport, error)
}

type plannerService struct {
	client         planner.Client
	authService    AuthService
	workoutService WorkoutService
	requestTimeout time.Duration
	dayTimeout     time.Duration
}

// NewPlannerService creates a new instance of plannerService.
func NewPlannerService(
	client planner.Client,
	authService AuthService,
	workoutService WorkoutService,
	requestTimeout time.Duration,
	dayTimeout time.Duration,
) PlannerService {
	if requestTimeout <= 0 {
		requestTimeout = 45 * time.Second
	}
	if dayTimeout <= 0 {
		dayTimeout = 10 * time.Second
	}
	return &plannerService{
		client:         client,
		authService:    authService,
		workoutService: workoutService,
		requestTimeout: requestTimeout,
		dayTimeout:     dayTimeout,
	}
}

func (s *plannerService) GeneratePlan(ctx context.Context, userID string, prefs PlanPreferences) (*PlanReport, error) {
	user, err := s.authService.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.workoutService.GetLast7Days(ctx, userID)
	if err != nil {
		return nil, err
	}
	history := make([]planner.WorkoutHistory, 0, len(recent))
	for _, w := range recent {
		history = append(history, planner.WorkoutHistory{Date: w.Date, Exercises: w.Exercises})
	}

	days := prefs.AvailableDaysForNewPlan
	if days <= 0 {
		days = planner.DefaultDaysPerWeek
	}
	sessionMinutes := prefs.TimePerSessionMinutes
	if sessionMinutes <= 0 {
		sessionMinutes = planner.DefaultTimePerSessionMinutes
	}
	equipment := prefs.AvailableEquipment
	if len(equipment) == 0 {
		equipment = planner.DefaultEquipment()
	}
	experience := prefs.ExperienceLevel
	if experience == "" {
		experience = planner.InferExperienceLevel(user.ActivityLevel)
	}

	request := planner.GenerationRequest{
		User: planner.ProfileSummary{
			WeightKg:      user.WeightKg,
			HeightCm:      user.HeightCm,
			Age:           user.Age,
			Gender:        user.Gender,
			ActivityLevel: user.ActivityLevel,
			Goal:          user.Goal,
			BMI:           user.BMI,
			BMR:           user.BMR,
		},
		AvailableDaysForNewPlan: days,
		TimePerSessionMinutes:   sessionMinutes,
		AvailableEquipment:      equipment,
		ExperienceLevel:         experience,
		LastWeekWorkout:         planner.SummarizeHistory(history),
	}

	requestCtx, cancel := context.WithTimeout(ctx, s.requestTimeout)
	defer cancel()
	raw, err := s.client.GeneratePlan(requestCtx, request)
	if err != nil {
		return nil, err
	}

	plan, validationErr := planner.ValidatePlan(raw, days)
	if validationErr != nil {
		return nil, validationErr
	}

	report := &PlanReport{
		ExperienceLevel: experience,
		DaysRequested:   days,
		Days:            make([]PlanDayReport, 0, len(plan.Days)),
	}
	for _, day := range plan.Days {
		report.Days = append(report.Days, s.materializeDay(ctx, userID, user.WeightKg, day))
	}
	for _, entry := range report.Days {
		if entry.Status == planDayCreated {
			report.Created++
		} else {
			report.Failed++
		}
	}
	return report, nil
}

// materializeDay persists one generated day as a workout. Each day stands
// alone: a failure is captured in the report and never aborts the rest of
// the plan.
func (s *plannerService) materializeDay(ctx context.Context, userID string, weightKg float64, day planner.PlanDay) PlanDayReport {
	inputs := make([]ExerciseInput, 0, len(day.Exercises))
	for _, ex := range day.Exercises {
		inputs = append(inputs, ExerciseInput{
			Name:     ex.Name,
			Type:     ex.Type,
			Duration: ex.Duration,
			Sets:     ex.Sets,
			Reps:     ex.Reps,
			Weight:   ex.Weight,
		})
	}

	dayCtx, cancel := context.WithTimeout(ctx, s.dayTimeout)
	defer cancel()
	details, err := s.workoutService.CreateWorkoutFromPlan(dayCtx, userID, inputs, day.Date, weightKg)
	if err != nil {
		log.Printf("WARN: failed to materialize plan day %s for user %s: %v", day.DateLabel, userID, err)
		return PlanDayReport{
			Date:   day.DateLabel,
			Status: planDayFailed,
			Error:  err.Error(),
		}
	}
	return PlanDayReport{
		Date:          day.DateLabel,
		Status:        planDayCreated,
		WorkoutID:     details.ID.Hex(),
		ExerciseCount: len(details.Exercises),
	}
}
