package repository

import (
	"context"
	"time"

	"fitkraft/backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicateKey = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// WorkoutRepository defines the interface for interacting with workout
// sessions. Membership mutations use the store's native array operators so a
// single call is atomic on the document.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	GetByUserID(ctx context.Context, userID string) ([]domain.Workout, error)
	// GetByUserBetween returns the user's workouts with from <= date <= to,
	// newest first.
	GetByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.Workout, error)
	// AppendExercise pushes an exercise reference onto the workout's list.
	AppendExercise(ctx context.Context, workoutID, exerciseID primitive.ObjectID) error
	// PullExercise removes an exercise reference from the workout's list.
	// A reference that was never present is not an error; only a missing
	// workout is.
	PullExercise(ctx context.Context, workoutID, exerciseID primitive.ObjectID) error
	// ReplaceExercises swaps the workout's entire membership list.
	ReplaceExercises(ctx context.Context, workoutID primitive.ObjectID, exerciseIDs []primitive.ObjectID) error
	// SetTotals writes the derived duration/calorie aggregates.
	SetTotals(ctx context.Context, workoutID primitive.ObjectID, duration domain.Duration, caloriesBurned float64) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// DeleteOlderThan removes the user's workouts dated before the cutoff and
	// reports how many were deleted.
	DeleteOlderThan(ctx context.Context, userID string, cutoff time.Time) (int64, error)
}

// ExerciseRepository defines the interface for interacting with exercise
// instances.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	// GetByIDs resolves a list of references; missing documents are skipped,
	// not errors, since a workout's list may briefly reference a deleted
	// exercise.
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error)
	// FindByName matches one exercise by exact name, case-insensitively.
	FindByName(ctx context.Context, name string) (*domain.Exercise, error)
	// SearchByName matches exercises whose name contains the fragment,
	// case-insensitively.
	SearchByName(ctx context.Context, fragment string) ([]domain.Exercise, error)
	GetAll(ctx context.Context) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	SetCompleted(ctx context.Context, id primitive.ObjectID, completed bool) (*domain.Exercise, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteMany(ctx context.Context, ids []primitive.ObjectID) error
}

// StoredExerciseRepository defines the interface for the exercise template
// catalog.
type StoredExerciseRepository interface {
	Create(ctx context.Context, template *domain.StoredExercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.StoredExercise, error)
	// FindByName matches one template by exact name within the given scope,
	// case-insensitively.
	FindByName(ctx context.Context, scope domain.Scope, name string) (*domain.StoredExercise, error)
	// SearchByName matches templates across all scopes whose name contains
	// the fragment, case-insensitively.
	SearchByName(ctx context.Context, fragment string) ([]domain.StoredExercise, error)
	SetGifURL(ctx context.Context, id primitive.ObjectID, gifURL string) error
}
