package planner

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"fitkraft/backend/internal/domain"
)

// Date layouts the generation service is allowed to use.
var planDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02-01-2006",
	"January 2, 2006",
}

// ValidatePlan checks an untrusted generation-service response against the
// plan contract and returns the typed plan on success. Violations are
// collected rather than short-circuited so the caller sees every problem at
// once; any violation rejects the whole plan.
func ValidatePlan(raw []byte, wantDays int) (*Plan, *ValidationError) {
	fail := func(messages []string) *ValidationError {
		return &ValidationError{Messages: messages, Raw: json.RawMessage(raw)}
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fail([]string{fmt.Sprintf("response is not a JSON object: %v", err)})
	}

	scheduleRaw, ok := doc["workout_schedule"]
	if !ok {
		return nil, fail([]string{"workout_schedule: missing"})
	}
	schedule, ok := scheduleRaw.([]any)
	if !ok {
		return nil, fail([]string{"workout_schedule: must be a list"})
	}

	var messages []string
	if len(schedule) != wantDays {
		messages = append(messages, fmt.Sprintf("workout_schedule: expected %d day plans, got %d", wantDays, len(schedule)))
	}

	plan := &Plan{Days: make([]PlanDay, 0, len(schedule))}
	for i, dayRaw := range schedule {
		path := fmt.Sprintf("workout_schedule[%d]", i)
		dayObj, ok := dayRaw.(map[string]any)
		if !ok {
			messages = append(messages, path+": must be an object")
			continue
		}

		day := PlanDay{}
		dateStr, ok := dayObj["date"].(string)
		if !ok || dateStr == "" {
			messages = append(messages, path+".date: must be a non-empty string")
		} else {
			day.DateLabel = dateStr
			date, err := parsePlanDate(dateStr)
			if err != nil {
				messages = append(messages, fmt.Sprintf("%s.date: %q is not a calendar date", path, dateStr))
			} else {
				day.Date = date
			}
		}

		exercisesRaw, ok := dayObj["exercises"].([]any)
		if !ok {
			messages = append(messages, path+".exercises: must be a list")
			continue
		}
		if len(exercisesRaw) == 0 && wantDays > 0 {
			messages = append(messages, path+".exercises: must not be empty")
		}

		day.Exercises = make([]PlanExercise, 0, len(exercisesRaw))
		for j, exRaw := range exercisesRaw {
			exPath := fmt.Sprintf("%s.exercises[%d]", path, j)
			ex, exMessages := validatePlanExercise(exPath, exRaw)
			if len(exMessages) > 0 {
				messages = append(messages, exMessages...)
				continue
			}
			day.Exercises = append(day.Exercises, ex)
		}

		plan.Days = append(plan.Days, day)
	}

	if len(messages) > 0 {
		return nil, fail(messages)
	}
	return plan, nil
}

func validatePlanExercise(path string, raw any) (PlanExercise, []string) {
	var ex PlanExercise
	obj, ok := raw.(map[string]any)
	if !ok {
		return ex, []string{path + ": must be an object"}
	}

	var messages []string

	if name, ok := obj["name"].(string); ok && name != "" {
		ex.Name = name
	} else {
		messages = append(messages, path+".name: must be a non-empty string")
	}
	if typ, ok := obj["type"].(string); ok && typ != "" {
		ex.Type = typ
	} else {
		messages = append(messages, path+".type: must be a non-empty string")
	}

	if durObj, ok := obj["duration"].(map[string]any); ok {
		minutes, okMin := intValue(durObj["minutes"])
		seconds, okSec := intValue(durObj["seconds"])
		if !okMin {
			messages = append(messages, path+".duration.minutes: must be an integer")
		}
		if !okSec {
			messages = append(messages, path+".duration.seconds: must be an integer")
		}
		if okMin && okSec {
			ex.Duration = domain.Duration{Minutes: minutes, Seconds: seconds}
		}
	} else {
		messages = append(messages, path+".duration: must be an object with minutes and seconds")
	}

	var ok2 bool
	if ex.Sets, ok2 = optionalInt(obj["sets"]); !ok2 {
		messages = append(messages, path+".sets: must be null or a number")
	}
	if ex.Reps, ok2 = optionalInt(obj["reps"]); !ok2 {
		messages = append(messages, path+".reps: must be null or a number")
	}
	if ex.Weight, ok2 = optionalNumber(obj["weight"]); !ok2 {
		messages = append(messages, path+".weight: must be null or a number")
	}

	completed, ok := obj["completed"].(bool)
	switch {
	case !ok:
		messages = append(messages, path+".completed: must be a boolean")
	case completed:
		// Generated exercises have not been performed yet; a true flag means
		// the service is not following the contract.
		messages = append(messages, path+".completed: must be false")
	}

	return ex, messages
}

func parsePlanDate(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range planDateLayouts {
		date, err := time.Parse(layout, value)
		if err == nil {
			return date, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// intValue accepts a JSON number with no fractional part.
func intValue(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// optionalInt accepts null/absent or a number; fractional parts are truncated.
func optionalInt(v any) (*int, bool) {
	if v == nil {
		return nil, true
	}
	f, ok := v.(float64)
	if !ok {
		return nil, false
	}
	n := int(f)
	return &n, true
}

// optionalNumber accepts null/absent or a number.
func optionalNumber(v any) (*float64, bool) {
	if v == nil {
		return nil, true
	}
	f, ok := v.(float64)
	if !ok {
		return nil, false
	}
	return &f, true
}
