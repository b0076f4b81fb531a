// Package planner holds the contract with the external workout-plan
// generation service: the request payload sent to it, the strict validation
// of its untrusted response, and the HTTP client that talks to it.
package planner

import (
	"strings"
	"time"

	"fitkraft/backend/internal/domain"
)

// Experience levels sent to the generation service.
const (
	ExperienceBeginner     = "Beginner"
	ExperienceIntermediate = "Intermediate"
	ExperienceAdvanced     = "Advanced"
)

// Defaults applied when the caller supplies no planning preferences.
const (
	DefaultDaysPerWeek           = 5
	DefaultTimePerSessionMinutes = 60
)

// DefaultEquipment returns the equipment assumed when none is given.
func DefaultEquipment() []string {
	return []string{"Bodyweight", "Dumbbells"}
}

// ProfileSummary is the subset of the user profile shared with the
// generation service.
type ProfileSummary struct {
	WeightKg      float64 `json:"weight"`
	HeightCm      float64 `json:"height"`
	Age           int     `json:"age"`
	Gender        string  `json:"gender"`
	ActivityLevel string  `json:"activityLevel"`
	Goal          string  `json:"goal"`
	BMI           float64 `json:"bmi"`
	BMR           float64 `json:"bmr"`
}

// HistoryExercise is one flattened exercise inside the history summary.
// Numeric fields are null when absent so the generator can tell "not
// recorded" from zero.
type HistoryExercise struct {
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Duration  domain.Duration `json:"duration"`
	Sets      *int            `json:"sets"`
	Reps      *int            `json:"reps"`
	Weight    *float64        `json:"weight"`
	Completed bool            `json:"completed"`
}

// HistoryDay is one summarized training day, labeled human-readably for the
// prompt.
type HistoryDay struct {
	Date      string            `json:"date"`
	Exercises []HistoryExercise `json:"exercises"`
}

// GenerationRequest is the payload POSTed to the generation service.
type GenerationRequest struct {
	User                    ProfileSummary `json:"user"`
	AvailableDaysForNewPlan int            `json:"availableDaysForNewPlan"`
	TimePerSessionMinutes   int            `json:"timePerSessionMinutes"`
	AvailableEquipment      []string       `json:"availableEquipment"`
	ExperienceLevel         string         `json:"experienceLevel"`
	LastWeekWorkout         []HistoryDay   `json:"lastWeekWorkout"`
}

// Plan is a generation-service response that passed validation.
type Plan struct {
	Days []PlanDay
}

// PlanDay is one validated day of the plan.
type PlanDay struct {
	// Date is the parsed calendar date for the day.
	Date time.Time
	// DateLabel is the date string exactly as the service sent it, kept for
	// per-day reporting.
	DateLabel string
	Exercises []PlanExercise
}

// PlanExercise is one validated exercise descriptor from the plan. It
// mirrors the Exercise attribute shape exactly.
type PlanExercise struct {
	Name     string
	Type     string
	Duration domain.Duration
	Sets     *int
	Reps     *int
	Weight   *float64
}

// InferExperienceLevel maps a profile activity level onto the experience
// vocabulary the generation service understands. Unrecognized or absent
// levels map to Beginner.
func InferExperienceLevel(activityLevel string) string {
	switch normalizeLevel(activityLevel) {
	case "sedentary", "lightly active":
		return ExperienceBeginner
	case "moderately active":
		return ExperienceIntermediate
	case "very active", "extremely active":
		return ExperienceAdvanced
	default:
		return ExperienceBeginner
	}
}

// normalizeLevel lowercases an activity level and treats hyphens and
// underscores as spaces, so "Lightly-Active" and "lightly active" match.
func normalizeLevel(level string) string {
	lowered := strings.ToLower(strings.TrimSpace(level))
	lowered = strings.ReplaceAll(lowered, "-", " ")
	lowered = strings.ReplaceAll(lowered, "_", " ")
	return strings.Join(strings.Fields(lowered), " ")
}

// WorkoutHistory is the raw material for the prompt summary: one persisted
// workout with its member exercises resolved.
type WorkoutHistory struct {
	Date      time.Time
	Exercises []domain.Exercise
}

// historyDayLimit caps the summary at one week of entries.
const historyDayLimit = 7

// SummarizeHistory reduces raw recent workouts to at most seven day entries,
// most recent first. Exercises without a name are dropped; a day left with no
// valid exercises is dropped entirely. An exercise with no reps but a
// non-zero duration gets reps defaulted to 1 — this shapes the prompt only
// and never touches persisted data.
func SummarizeHistory(history []WorkoutHistory) []HistoryDay {
	days := make([]HistoryDay, 0, historyDayLimit)
	for _, workout := range history {
		if len(days) == historyDayLimit {
			break
		}

		exercises := make([]HistoryExercise, 0, len(workout.Exercises))
		for _, ex := range workout.Exercises {
			if ex.Name == "" {
				continue
			}
			entry := HistoryExercise{
				Name:      ex.Name,
				Type:      ex.Type,
				Duration:  ex.Duration,
				Sets:      ex.Sets,
				Reps:      ex.Reps,
				Weight:    ex.Weight,
				Completed: ex.Completed,
			}
			if entry.Reps == nil && ex.Duration.TotalSeconds() > 0 {
				one := 1
				entry.Reps = &one
			}
			exercises = append(exercises, entry)
		}
		if len(exercises) == 0 {
			continue
		}

		days = append(days, HistoryDay{
			Date:      workout.Date.Format("Monday, 02 Jan 2006"),
			Exercises: exercises,
		})
	}
	return days
}
