package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitkraft/backend/internal/domain"
	"fitkraft/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func timePtr(v time.Time) *time.Time { return &v }

func newTestWorkoutService() (WorkoutService, *fakeWorkoutRepo, *fakeExerciseRepo, *fakeStoredExerciseRepo) {
	workoutRepo := newFakeWorkoutRepo()
	exerciseRepo := newFakeExerciseRepo()
	storedRepo := newFakeStoredExerciseRepo()
	catalog := NewCatalogService(storedRepo, exerciseRepo, fakeFileStorage{})
	return NewWorkoutService(workoutRepo, exerciseRepo, catalog), workoutRepo, exerciseRepo, storedRepo
}

func TestCreateWorkoutComputesTotals(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestWorkoutService()

	details, err := svc.CreateWorkout(context.Background(), "user-1", []ExerciseInput{
		{Name: "Push Ups", Type: "strength", Duration: domain.Duration{Minutes: 2, Seconds: 50}},
		{Name: "Plank", Type: "core", Duration: domain.Duration{Minutes: 1, Seconds: 20}},
	}, nil, 80)
	if err != nil {
		t.Fatalf("CreateWorkout returned error: %v", err)
	}

	want := domain.Duration{Minutes: 4, Seconds: 10}
	if details.Duration != want {
		t.Errorf("total duration = %+v, want %+v", details.Duration, want)
	}
	// round(4 MET * 80 kg * 170s/3600) + round(4 * 80 * 80s/3600) = 15 + 7.
	if details.CaloriesBurned != 22 {
		t.Errorf("total calories = %v, want 22", details.CaloriesBurned)
	}
	if len(details.Exercises) != 2 {
		t.Fatalf("created workout has %d exercises, want 2", len(details.Exercises))
	}
}

func TestCreateWorkoutDefaultsWeightForCalories(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestWorkoutService()

	details, err := svc.CreateWorkout(context.Background(), "user-1", []ExerciseInput{
		{Name: "Rowing", Type: "cardio", Duration: domain.Duration{Minutes: 30}},
	}, nil, 0)
	if err != nil {
		t.Fatalf("CreateWorkout returned error: %v", err)
	}
	// round(4 MET * 70 kg default * 0.5 h) = 140.
	if details.CaloriesBurned != 140 {
		t.Errorf("total calories = %v, want 140", details.CaloriesBurned)
	}
}

func TestCreateWorkoutEstimatesDurationFromSetsAndReps(t *testing.T) {
	t.Parallel()
	svc, _, exerciseRepo, _ := newTestWorkoutService()

	_, err := svc.CreateWorkout(context.Background(), "user-1", []ExerciseInput{
		{Name: "Squats", Type: "strength", Sets: intPtr(3), Reps: intPtr(10)},
	}, nil, 70)
	if err != nil {
		t.Fatalf("CreateWorkout returned error: %v", err)
	}

	exercise, err := exerciseRepo.FindByName(context.Background(), "Squats")
	if err != nil {
		t.Fatalf("FindByName returned error: %v", err)
	}
	// 3 sets * 10 reps * 30s = 900s; round(4 * 70 * 0.25 h) = 70.
	if exercise.CaloriesBurned != 70 {
		t.Errorf("attributed calories = %v, want 70", exercise.CaloriesBurned)
	}
}

func TestCreateWorkoutReusesInstanceByName(t *testing.T) {
	t.Parallel()
	svc, _, exerciseRepo, _ := newTestWorkoutService()

	existingID, err := exerciseRepo.Create(context.Background(), &domain.Exercise{
		Name:     "Push Ups",
		Type:     "strength",
		Duration: domain.Duration{Minutes: 5},
	})
	if err != nil {
		t.Fatalf("seeding exercise failed: %v", err)
	}

	details, err := svc.CreateWorkout(context.Background(), "user-1", []ExerciseInput{
		{Name: "push ups", Type: "strength", Duration: domain.Duration{Minutes: 2}},
	}, nil, 70)
	if err != nil {
		t.Fatalf("CreateWorkout returned error: %v", err)
	}

	if len(details.Workout.Exercises) != 1 || details.Workout.Exercises[0] != existingID {
		t.Errorf("workout references %v, want reused instance %s", details.Workout.Exercises, existingID.Hex())
	}
	all, _ := exerciseRepo.GetAll(context.Background())
	if len(all) != 1 {
		t.Errorf("exercise instances = %d, want 1 (no duplicate)", len(all))
	}
	// Totals reflect the reused instance's duration, not the request's.
	if details.Duration != (domain.Duration{Minutes: 5}) {
		t.Errorf("total duration = %+v, want 5m from reused instance", details.Duration)
	}
}

func TestCreateWorkoutNormalizesCatalog(t *testing.T) {
	t.Parallel()
	svc, _, _, storedRepo := newTestWorkoutService()

	for i := 0; i < 2; i++ {
		_, err := svc.CreateWorkout(context.Background(), "user-1", []ExerciseInput{
			{Name: "Deadlift", Type: "strength", Duration: domain.Duration{Minutes: 10}, BodyPart: "back"},
		}, nil, 70)
		if err != nil {
			t.Fatalf("CreateWorkout #%d returned error: %v", i+1, err)
		}
	}

	template, err := storedRepo.FindByName(context.Background(), domain.UserScope("user-1"), "Deadlift")
	if err != nil {
		t.Fatalf("expected user-scoped template, got error: %v", err)
	}
	if template.BodyPart != "back" {
		t.Errorf("template body part = %q, want %q", template.BodyPart, "back")
	}
	if len(storedRepo.templates) != 1 {
		t.Errorf("templates = %d, want 1 (no duplicate from second workout)", len(storedRepo.templates))
	}
}

func TestCreateWorkoutRejectsMissingUser(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestWorkoutService()

	if _, err := svc.CreateWorkout(context.Background(), "", []ExerciseInput{}, nil, 70); !errors.Is(err, ErrWorkoutValidation) {
		t.Errorf("error = %v, want ErrWorkoutValidation", err)
	}
}

func TestAddExerciseAlwaysCreatesFresh(t *testing.T) {
	t.Parallel()
	svc, _, exerciseRepo, _ := newTestWorkoutService()

	details, err := svc.CreateWorkout(context.Background(), "user-1", []ExerciseInput{
		{Name: "Push Ups", Duration: domain.Duration{Minutes: 2}},
	}, nil, 70)
	if err != nil {
		t.Fatalf("CreateWorkout returned error: %v", err)
	}

	updated, err := svc.AddExercise(context.Background(), details.ID, ExerciseInput{
		Name:     "Push Ups",
		Duration: domain.Duration{Minutes: 3},
	})
	if err != nil {
		t.Fatalf("AddExercise returned error: %v", err)
	}

	if len(updated.Exercises) != 2 {
		t.Fatalf("workout has %d exercises, want 2", len(updated.Exercises))
	}
	all, _ := exerciseRepo.GetAll(context.Background())
	if len(all) != 2 {
		t.Errorf("exercise instances = %d, want 2 (add never dedupes)", len(all))
	}
	if updated.Duration != (domain.Duration{Minutes: 5}) {
		t.Errorf("total duration = %+v, want 5m", updated.Duration)
	}
}

func TestAddExerciseMissingWorkout(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestWorkoutService()

	_, err := svc.AddExercise(context.Background(), primitive.NewObjectID(), ExerciseInput{Name: "Plank"})
	if !errors.Is(err, ErrWorkoutNotFound) {
		t.Errorf("error = %v, want ErrWorkoutNotFound", err)
	}
}

func TestUpdateExerciseRecomputesTotals(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestWorkoutService()

	details, err := svc.CreateWorkout(context.Background(), "user-1", []ExerciseInput{
		{Name: "Plank", Duration: domain.Duration{Minutes: 1, Seconds: 30}},
	}, nil, 70)
	if err != nil {
		t.Fatalf("CreateWorkout returned error: %v", err)
	}
	exerciseID := details.Workout.Exercises[0]

	updated, err := svc.UpdateExercise(context.Background(), details.ID, exerciseID, ExerciseUpdate{
		Duration: &domain.Duration{Minutes: 2, Seconds: 45},
		Sets:     intPtr(4),
	})
	if err != nil {
		t.Fatalf("UpdateExercise returned error: %v", err)
	}

	if updated.Duration != (domain.Duration{Minutes: 2, Seconds: 45}) {
		t.Errorf("total duration = %+v, want 2m45s", updated.Duration)
	}
	if updated.Exercises[0].Sets == nil || *updated.Exercises[0].Sets != 4 {
		t.Errorf("sets not applied: %+v", updated.Exercises[0].Sets)
	}
}

func TestUpdateExerciseRejectsNegativeValues(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestWorkoutService()

	details, err := svc.CreateWorkout(context.Background(), "user-1", []ExerciseInput{
		{Name: "Plank", Duration: domain.Duration{Minutes: 1}},
	}, nil, 70)
	if err != nil {
		t.Fatalf("CreateWorkout returned error: %v", err)
	}

	_, err = svc.UpdateExercise(context.Background(), details.ID, details.Workout.Exercises[0], ExerciseUpdate{
		Reps: intPtr(-3),
	})
	if !errors.Is(err, ErrWorkoutValidation) {
		t.Errorf("error = %v, want ErrWorkoutValidation", err)
	}
}

func TestRemoveExerciseIsIdempotent(t *testing.T) {
	t.Parallel()
	svc, _, exerciseRepo, _ := newTestWorkoutService()

	details, err := svc.CreateWorkout(context.Background(), "user-1", []ExerciseInput{
		{Name: "Push Ups", Duration: domain.Duration{Minutes: 2}},
		{Name: "Plank", Duration: domain.Duration{Minutes: 1}},
	}, nil, 70)
	if err != nil {
		t.Fatalf("CreateWorkout returned error: %v", err)
	}
	removedID := details.Workout.Exercises[0]

	first, err := svc.RemoveExercise(context.Background(), details.ID, removedID)
	if err != nil {
		t.Fatalf("first RemoveExercise returned error: %v", err)
	}
	if len(first.Exercises) != 1 {
		t.Fatalf("after removal workout has %d exercises, want 1", len(first.Exercises))
	}
	if _, err := exerciseRepo.GetByID(context.Background(), removedID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("detached instance still present, err = %v", err)
	}

	// Removing a reference that is already gone succeeds with no change.
	second, err := svc.RemoveExercise(context.Background(), details.ID, removedID)
	if err != nil {
		t.Fatalf("second RemoveExercise returned error: %v", err)
	}
	if len(second.Exercises) != 1 || second.Duration != first.Duration {
		t.Errorf("second removal changed state: %+v vs %+v", second, first)
	}
}

func TestRemoveExerciseMissingWorkout(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestWorkoutService()

	_, err := svc.RemoveExercise(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	if !errors.Is(err, ErrWorkoutNotFound) {
		t.Errorf("error = %v, want ErrWorkoutNotFound", err)
	}
}

func TestReplaceExercisesSwapsInstances(t *testing.T) {
	t.Parallel()
	svc, _, exerciseRepo, _ := newTestWorkoutService()

	details, err := svc.CreateWorkout(context.Background(), "user-1", []ExerciseInput{
		{Name: "Push Ups", Duration: domain.Duration{Minutes: 2}},
	}, nil, 70)
	if err != nil {
		t.Fatalf("CreateWorkout returned error: %v", err)
	}
	oldID := details.Workout.Exercises[0]

	replaced, err := svc.ReplaceExercises(context.Background(), details.ID, "user-1", []ExerciseInput{
		{Name: "Burpees", Duration: domain.Duration{Minutes: 3}},
		{Name: "Lunges", Duration: domain.Duration{Minutes: 2, Seconds: 30}},
	})
	if err != nil {
		t.Fatalf("ReplaceExercises returned error: %v", err)
	}

	if len(replaced.Exercises) != 2 {
		t.Fatalf("replaced workout has %d exercises, want 2", len(replaced.Exercises))
	}
	if _, err := exerciseRepo.GetByID(context.Background(), oldID); err == nil {
		t.Errorf("old instance survived replacement")
	}
	if replaced.Duration != (domain.Duration{Minutes: 5, Seconds: 30}) {
		t.Errorf("total duration = %+v, want 5m30s", replaced.Duration)
	}
}

func TestSetExerciseCompletedLeavesTotalsAlone(t *testing.T) {
	t.Parallel()
	svc, workoutRepo, _, _ := newTestWorkoutService()

	details, err := svc.CreateWorkout(context.Background(), "user-1", []ExerciseInput{
		{Name: "Plank", Duration: domain.Duration{Minutes: 2}},
	}, nil, 70)
	if err != nil {
		t.Fatalf("CreateWorkout returned error: %v", err)
	}

	exercise, err := svc.SetExerciseCompleted(context.Background(), details.Workout.Exercises[0], true)
	if err != nil {
		t.Fatalf("SetExerciseCompleted returned error: %v", err)
	}
	if !exercise.Completed {
		t.Errorf("exercise not marked completed")
	}

	after, err := workoutRepo.GetByID(context.Background(), details.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if after.Duration != details.Duration || after.CaloriesBurned != details.CaloriesBurned {
		t.Errorf("completion changed totals: %+v vs %+v", after, details.Workout)
	}
}

func TestDeleteWorkoutCascadesToExercises(t *testing.T) {
	t.Parallel()
	svc, _, exerciseRepo, _ := newTestWorkoutService()

	details, err := svc.CreateWorkout(context.Background(), "user-1", []ExerciseInput{
		{Name: "Push Ups", Duration: domain.Duration{Minutes: 2}},
		{Name: "Plank", Duration: domain.Duration{Minutes: 1}},
	}, nil, 70)
	if err != nil {
		t.Fatalf("CreateWorkout returned error: %v", err)
	}

	if err := svc.DeleteWorkout(context.Background(), details.ID); err != nil {
		t.Fatalf("DeleteWorkout returned error: %v", err)
	}

	all, _ := exerciseRepo.GetAll(context.Background())
	if len(all) != 0 {
		t.Errorf("member instances survived workout deletion: %d left", len(all))
	}

	if err := svc.DeleteWorkout(context.Background(), details.ID); !errors.Is(err, ErrWorkoutNotFound) {
		t.Errorf("second delete error = %v, want ErrWorkoutNotFound", err)
	}
}

func TestGetLast7DaysWindow(t *testing.T) {
	t.Parallel()
	svc, _, _, _ := newTestWorkoutService()

	now := time.Now().UTC()
	if _, err := svc.CreateWorkout(context.Background(), "user-1", []ExerciseInput{
		{Name: "Recent", Duration: domain.Duration{Minutes: 1}},
	}, timePtr(now.AddDate(0, 0, -2)), 70); err != nil {
		t.Fatalf("CreateWorkout returned error: %v", err)
	}
	if _, err := svc.CreateWorkout(context.Background(), "user-1", []ExerciseInput{
		{Name: "Old", Duration: domain.Duration{Minutes: 1}},
	}, timePtr(now.AddDate(0, 0, -10)), 70); err != nil {
		t.Fatalf("CreateWorkout returned error: %v", err)
	}

	recent, err := svc.GetLast7Days(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetLast7Days returned error: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("recent workouts = %d, want 1", len(recent))
	}
	if recent[0].Exercises[0].Name != "Recent" {
		t.Errorf("unexpected workout in window: %q", recent[0].Exercises[0].Name)
	}
}

func TestPruneHistoryDeletesOlderThanOneMonth(t *testing.T) {
	t.Parallel()
	svc, workoutRepo, _, _ := newTestWorkoutService()

	now := time.Now().UTC()
	if _, err := svc.CreateWorkout(context.Background(), "user-1", []ExerciseInput{
		{Name: "Keep", Duration: domain.Duration{Minutes: 1}},
	}, timePtr(now.AddDate(0, 0, -5)), 70); err != nil {
		t.Fatalf("CreateWorkout returned error: %v", err)
	}
	if _, err := svc.CreateWorkout(context.Background(), "user-1", []ExerciseInput{
		{Name: "Drop", Duration: domain.Duration{Minutes: 1}},
	}, timePtr(now.AddDate(0, -2, 0)), 70); err != nil {
		t.Fatalf("CreateWorkout returned error: %v", err)
	}

	deleted, err := svc.PruneHistory(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("PruneHistory returned error: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	remaining, _ := workoutRepo.GetByUserID(context.Background(), "user-1")
	if len(remaining) != 1 {
		t.Errorf("remaining workouts = %d, want 1", len(remaining))
	}
}
