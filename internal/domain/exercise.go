// internal/domain/exercise.go
package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Duration is a minutes/seconds pair as stored on exercises and workouts.
// A normalized Duration keeps Seconds in [0,59].
type Duration struct {
	Minutes int `bson:"minutes" json:"minutes"`
	Seconds int `bson:"seconds" json:"seconds"`
}

// TotalSeconds flattens the pair into seconds.
func (d Duration) TotalSeconds() int {
	return d.Minutes*60 + d.Seconds
}

// DurationFromSeconds folds a raw second count back into minutes/seconds.
func DurationFromSeconds(total int) Duration {
	if total < 0 {
		total = 0
	}
	return Duration{
		Minutes: total / 60,
		Seconds: total % 60,
	}
}

// Exercise is one performed or planned movement instance. An instance is
// referenced by at most one workout; the reusable catalog entry it may have
// been derived from lives in StoredExercise.
type Exercise struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name     string             `bson:"name" json:"name"`
	Type     string             `bson:"type" json:"type"`
	Duration Duration           `bson:"duration" json:"duration"`

	// Sets/Reps/Weight are optional; nil means the client never supplied them.
	Sets   *int     `bson:"sets,omitempty" json:"sets"`
	Reps   *int     `bson:"reps,omitempty" json:"reps"`
	Weight *float64 `bson:"weight,omitempty" json:"weight"`

	// CaloriesBurned is this instance's contribution to the owning workout's
	// calorie aggregate. Derived, never set directly by clients.
	CaloriesBurned float64 `bson:"caloriesBurned,omitempty" json:"caloriesBurned"`

	Completed bool `bson:"completed" json:"completed"`
}
