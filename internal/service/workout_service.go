package service

import (
	"context"
	"errors"
	"log"
	"math"
	"time"

	"fitkraft/backend/internal/domain"
	"fitkraft/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// --- Error Definitions ---
var (
	ErrWorkoutNotFound   = errors.New("workout not found")
	ErrExerciseNotFound  = errors.New("exercise not found")
	ErrWorkoutValidation = errors.New("workout validation failed")
)

// Calorie estimation constants carried from the workout-metrics derivation:
// a flat moderate-intensity MET, a default body weight when none is known,
// and a 30-second allowance per rep when an exercise has sets/reps but no
// recorded duration.
const (
	metModerate     = 4.0
	defaultWeightKg = 70.0
	secondsPerRep   = 30
)

// ExerciseInput describes one exercise to attach to a workout. The catalog
// metadata fields (Description, BodyPart, Equipment) only feed template
// normalization; the persisted Exercise instance ignores them.
type ExerciseInput struct {
	Name     string
	Type     string
	Duration domain.Duration
	Sets     *int
	Reps     *int
	Weight   *float64

	Description string
	BodyPart    string
	Equipment   string
}

// ExerciseUpdate carries the mutable fields of an exercise instance; nil
// means "leave unchanged". Identity, completion state, and the calorie
// attribution are not updatable here: completion has its own operation and
// calories are derived.
type ExerciseUpdate struct {
	Name     *string
	Type     *string
	Duration *domain.Duration
	Sets     *int
	Reps     *int
	Weight   *float64
}

// WorkoutDetails is a workout with its member exercises resolved.
type WorkoutDetails struct {
	domain.Workout
	Exercises []domain.Exercise `json:"exercises"`
}

// --- Service Interface ---

// WorkoutService keeps a workout's exercise membership and derived totals
// consistent under incremental mutation.
type WorkoutService interface {
	// CreateWorkout persists a new workout. Each descriptor is normalized
	// into the template catalog as a side effect and resolved against
	// existing exercise instances by case-insensitive name, reusing a match
	// rather than creating a duplicate.
	CreateWorkout(ctx context.Context, userID string, exercises []ExerciseInput, date *time.Time, weightKg float64) (*WorkoutDetails, error)
	// CreateWorkoutFromPlan persists a generated day verbatim: instances are
	// still deduplicated by name, but the descriptors bypass the template
	// catalog entirely.
	CreateWorkoutFromPlan(ctx context.Context, userID string, exercises []ExerciseInput, date time.Time, weightKg float64) (*WorkoutDetails, error)
	// AddExercise appends one always-fresh exercise instance to a workout.
	AddExercise(ctx context.Context, workoutID primitive.ObjectID, input ExerciseInput) (*WorkoutDetails, error)
	// UpdateExercise applies partial fields to a member exercise.
	UpdateExercise(ctx context.Context, workoutID, exerciseID primitive.ObjectID, update ExerciseUpdate) (*WorkoutDetails, error)
	// RemoveExercise detaches an exercise from the workout and deletes the
	// orphaned instance best-effort. A reference that was never in the list
	// is not an error.
	RemoveExercise(ctx context.Context, workoutID, exerciseID primitive.ObjectID) (*WorkoutDetails, error)
	// ReplaceExercises swaps a workout's whole exercise set for freshly
	// created instances, normalizing each descriptor through the catalog.
	ReplaceExercises(ctx context.Context, workoutID primitive.ObjectID, userID string, exercises []ExerciseInput) (*WorkoutDetails, error)
	// SetExerciseCompleted flips completion on the instance directly.
	// Completion does not affect duration/calorie aggregates, so no
	// recomputation is triggered.
	SetExerciseCompleted(ctx context.Context, exerciseID primitive.ObjectID, completed bool) (*domain.Exercise, error)
	GetWorkouts(ctx context.Context, userID string) ([]WorkoutDetails, error)
	// GetLast7Days returns the user's workouts from the trailing week,
	// newest first, members resolved.
	GetLast7Days(ctx context.Context, userID string) ([]WorkoutDetails, error)
	// DeleteWorkout removes a workout and explicitly cascades to its member
	// exercise instances.
	DeleteWorkout(ctx context.Context, workoutID primitive.ObjectID) error
	// PruneHistory deletes the user's workouts older than one month and
	// reports how many went.
	PruneHistory(ctx context.Context, userID string) (int64, error)
}

// --- Service Implementation ---

type workoutService struct {
	workoutRepo  repository.WorkoutRepository
	exerciseRepo repository.ExerciseRepository
	catalog      CatalogService
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	exerciseRepo repository.ExerciseRepository,
	catalog CatalogService,
) WorkoutService {
	return &workoutService{
		workoutRepo:  workoutRepo,
		exerciseRepo: exerciseRepo,
		catalog:      catalog,
	}
}

func (s *workoutService) CreateWorkout(ctx context.Context, userID string, exercises []ExerciseInput, date *time.Time, weightKg float64) (*WorkoutDetails, error) {
	return s.createWorkout(ctx, userID, exercises, date, weightKg, true)
}

func (s *workoutService) CreateWorkoutFromPlan(ctx context.Context, userID string, exercises []ExerciseInput, date time.Time, weightKg float64) (*WorkoutDetails, error) {
	return s.createWorkout(ctx, userID, exercises, &date, weightKg, false)
}

func (s *workoutService) createWorkout(ctx context.Context, userID string, exercises []ExerciseInput, date *time.Time, weightKg float64, normalize bool) (*WorkoutDetails, error) {
	if userID == "" {
		return nil, ErrWorkoutValidation
	}
	if exercises == nil {
		return nil, ErrWorkoutValidation
	}

	// Per-exercise work fans out; all must succeed, since a partial exercise
	// list is not acceptable for initial creation.
	exerciseIDs := make([]primitive.ObjectID, len(exercises))
	g, gctx := errgroup.WithContext(ctx)
	for i, input := range exercises {
		g.Go(func() error {
			if normalize {
				if _, err := s.catalog.Normalize(gctx, userID, input); err != nil {
					return err
				}
			}
			id, err := s.resolveOrCreateExercise(gctx, input, weightKg)
			if err != nil {
				return err
			}
			exerciseIDs[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	workout := &domain.Workout{
		UserID:    userID,
		Exercises: exerciseIDs,
	}
	if date != nil {
		workout.Date = *date
	}

	workoutID, err := s.workoutRepo.Create(ctx, workout)
	if err != nil {
		return nil, err
	}

	// Reused instances may carry different durations than the incoming
	// descriptors, so derive the aggregates from the actual members.
	s.recompute(ctx, workoutID)

	return s.details(ctx, workoutID)
}

// resolveOrCreateExercise reuses an existing instance with a matching name
// regardless of which workout it came from, otherwise creates a fresh one
// with its calorie attribution estimated up front.
func (s *workoutService) resolveOrCreateExercise(ctx context.Context, input ExerciseInput, weightKg float64) (primitive.ObjectID, error) {
	existing, err := s.exerciseRepo.FindByName(ctx, input.Name)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return primitive.NilObjectID, err
	}

	exercise := exerciseFromInput(input)
	exercise.CaloriesBurned = estimateCalories(effectiveSeconds(input), weightKg)
	return s.exerciseRepo.Create(ctx, exercise)
}

func (s *workoutService) AddExercise(ctx context.Context, workoutID primitive.ObjectID, input ExerciseInput) (*WorkoutDetails, error) {
	if _, err := s.workoutRepo.GetByID(ctx, workoutID); err != nil {
		return nil, mapWorkoutErr(err)
	}

	// Unlike bulk creation, adding never reuses an instance.
	exerciseID, err := s.exerciseRepo.Create(ctx, exerciseFromInput(input))
	if err != nil {
		return nil, err
	}

	if err := s.workoutRepo.AppendExercise(ctx, workoutID, exerciseID); err != nil {
		return nil, mapWorkoutErr(err)
	}

	s.recompute(ctx, workoutID)
	return s.details(ctx, workoutID)
}

func (s *workoutService) UpdateExercise(ctx context.Context, workoutID, exerciseID primitive.ObjectID, update ExerciseUpdate) (*WorkoutDetails, error) {
	if _, err := s.workoutRepo.GetByID(ctx, workoutID); err != nil {
		return nil, mapWorkoutErr(err)
	}

	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		return nil, mapExerciseErr(err)
	}

	if update.Name != nil {
		exercise.Name = *update.Name
	}
	if update.Type != nil {
		exercise.Type = *update.Type
	}
	if update.Duration != nil {
		if update.Duration.Minutes < 0 || update.Duration.Seconds < 0 || update.Duration.Seconds > 59 {
			return nil, ErrWorkoutValidation
		}
		exercise.Duration = *update.Duration
	}
	if update.Sets != nil {
		if *update.Sets < 0 {
			return nil, ErrWorkoutValidation
		}
		exercise.Sets = update.Sets
	}
	if update.Reps != nil {
		if *update.Reps < 0 {
			return nil, ErrWorkoutValidation
		}
		exercise.Reps = update.Reps
	}
	if update.Weight != nil {
		if *update.Weight < 0 {
			return nil, ErrWorkoutValidation
		}
		exercise.Weight = update.Weight
	}

	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		return nil, mapExerciseErr(err)
	}

	s.recompute(ctx, workoutID)
	return s.details(ctx, workoutID)
}

func (s *workoutService) RemoveExercise(ctx context.Context, workoutID, exerciseID primitive.ObjectID) (*WorkoutDetails, error) {
	if err := s.workoutRepo.PullExercise(ctx, workoutID, exerciseID); err != nil {
		return nil, mapWorkoutErr(err)
	}

	// The workout's consistency is the primary guarantee; a leaked orphan
	// instance only costs storage.
	if err := s.exerciseRepo.Delete(ctx, exerciseID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Printf("WARN: failed to delete detached exercise %s: %v", exerciseID.Hex(), err)
	}

	s.recompute(ctx, workoutID)
	return s.details(ctx, workoutID)
}

func (s *workoutService) ReplaceExercises(ctx context.Context, workoutID primitive.ObjectID, userID string, exercises []ExerciseInput) (*WorkoutDetails, error) {
	if userID == "" || exercises == nil {
		return nil, ErrWorkoutValidation
	}

	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		return nil, mapWorkoutErr(err)
	}
	previous := workout.Exercises

	// Bulk replacement always creates fresh instances; the catalog dedupes
	// templates, not instances.
	exerciseIDs := make([]primitive.ObjectID, len(exercises))
	g, gctx := errgroup.WithContext(ctx)
	for i, input := range exercises {
		g.Go(func() error {
			if _, err := s.catalog.Normalize(gctx, userID, input); err != nil {
				return err
			}
			id, err := s.exerciseRepo.Create(gctx, exerciseFromInput(input))
			if err != nil {
				return err
			}
			exerciseIDs[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.workoutRepo.ReplaceExercises(ctx, workoutID, exerciseIDs); err != nil {
		return nil, mapWorkoutErr(err)
	}

	// Detached instances are exclusively owned, so drop them best-effort.
	if err := s.exerciseRepo.DeleteMany(ctx, previous); err != nil {
		log.Printf("WARN: failed to delete replaced exercises for workout %s: %v", workoutID.Hex(), err)
	}

	s.recompute(ctx, workoutID)
	return s.details(ctx, workoutID)
}

func (s *workoutService) SetExerciseCompleted(ctx context.Context, exerciseID primitive.ObjectID, completed bool) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.SetCompleted(ctx, exerciseID, completed)
	if err != nil {
		return nil, mapExerciseErr(err)
	}
	return exercise, nil
}

func (s *workoutService) GetWorkouts(ctx context.Context, userID string) ([]WorkoutDetails, error) {
	workouts, err := s.workoutRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.resolveAll(ctx, workouts)
}

func (s *workoutService) GetLast7Days(ctx context.Context, userID string) ([]WorkoutDetails, error) {
	now := time.Now().UTC()
	workouts, err := s.workoutRepo.GetByUserBetween(ctx, userID, now.AddDate(0, 0, -7), now)
	if err != nil {
		return nil, err
	}
	return s.resolveAll(ctx, workouts)
}

func (s *workoutService) DeleteWorkout(ctx context.Context, workoutID primitive.ObjectID) error {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		return mapWorkoutErr(err)
	}

	if err := s.workoutRepo.Delete(ctx, workoutID); err != nil {
		return mapWorkoutErr(err)
	}

	// Cascade is explicit: the store does no referential cleanup on its own.
	if err := s.exerciseRepo.DeleteMany(ctx, workout.Exercises); err != nil {
		log.Printf("WARN: failed to cascade-delete exercises of workout %s: %v", workoutID.Hex(), err)
	}
	return nil
}

func (s *workoutService) PruneHistory(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, ErrWorkoutValidation
	}
	cutoff := time.Now().UTC().AddDate(0, -1, 0)
	return s.workoutRepo.DeleteOlderThan(ctx, userID, cutoff)
}

// recompute refreshes the workout's derived totals after a mutation.
// Failures are logged only: the mutation already happened, and a stale
// aggregate is an accepted transient state until the next recomputation.
func (s *workoutService) recompute(ctx context.Context, workoutID primitive.ObjectID) {
	if err := s.recomputeTotals(ctx, workoutID); err != nil {
		log.Printf("WARN: failed to recompute totals for workout %s: %v", workoutID.Hex(), err)
	}
}

// recomputeTotals loads the workout with members resolved, sums durations in
// seconds and calorie attributions, folds seconds back into minutes, and
// writes the aggregates. A workout that disappeared between read and write is
// a no-op, not an error.
func (s *workoutService) recomputeTotals(ctx context.Context, workoutID primitive.ObjectID) error {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	}

	members, err := s.exerciseRepo.GetByIDs(ctx, workout.Exercises)
	if err != nil {
		return err
	}

	totalSeconds := 0
	totalCalories := 0.0
	for _, ex := range members {
		totalSeconds += ex.Duration.TotalSeconds()
		totalCalories += ex.CaloriesBurned
	}

	err = s.workoutRepo.SetTotals(ctx, workoutID, domain.DurationFromSeconds(totalSeconds), totalCalories)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}

func (s *workoutService) details(ctx context.Context, workoutID primitive.ObjectID) (*WorkoutDetails, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		return nil, mapWorkoutErr(err)
	}
	members, err := s.exerciseRepo.GetByIDs(ctx, workout.Exercises)
	if err != nil {
		return nil, err
	}
	return &WorkoutDetails{Workout: *workout, Exercises: members}, nil
}

func (s *workoutService) resolveAll(ctx context.Context, workouts []domain.Workout) ([]WorkoutDetails, error) {
	details := make([]WorkoutDetails, 0, len(workouts))
	for _, w := range workouts {
		members, err := s.exerciseRepo.GetByIDs(ctx, w.Exercises)
		if err != nil {
			return nil, err
		}
		details = append(details, WorkoutDetails{Workout: w, Exercises: members})
	}
	return details, nil
}

// --- Helpers ---

func exerciseFromInput(input ExerciseInput) *domain.Exercise {
	return &domain.Exercise{
		Name:     input.Name,
		Type:     input.Type,
		Duration: input.Duration,
		Sets:     input.Sets,
		Reps:     input.Reps,
		Weight:   input.Weight,
	}
}

// effectiveSeconds is the exercise's recorded duration, or the sets×reps
// allowance when no duration was recorded.
func effectiveSeconds(input ExerciseInput) int {
	seconds := input.Duration.TotalSeconds()
	if seconds == 0 && input.Sets != nil && input.Reps != nil && *input.Sets > 0 && *input.Reps > 0 {
		seconds = *input.Sets * *input.Reps * secondsPerRep
	}
	return seconds
}

func estimateCalories(seconds int, weightKg float64) float64 {
	if weightKg <= 0 {
		weightKg = defaultWeightKg
	}
	hours := float64(seconds) / 3600.0
	calories := math.Round(metModerate * weightKg * hours)
	if calories < 0 {
		return 0
	}
	return calories
}

func mapWorkoutErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrWorkoutNotFound
	}
	return err
}

func mapExerciseErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrExerciseNotFound
	}
	return err
}
