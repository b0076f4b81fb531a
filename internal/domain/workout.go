package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workout is one dated training session for one user.
//
// Duration and CaloriesBurned are derived aggregates: they must equal the sum
// over the currently referenced exercises as of the last successful
// recomputation. They are rewritten, never edited.
type Workout struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	// UserID is an opaque external identifier; no foreign-key relation is
	// enforced against the users collection.
	UserID string `bson:"userId" json:"userId"`

	// Exercises holds the ordered member exercise references.
	Exercises []primitive.ObjectID `bson:"exercises" json:"exercises"`

	Duration       Duration  `bson:"duration" json:"duration"`
	CaloriesBurned float64   `bson:"caloriesBurned" json:"caloriesBurned"`
	Date           time.Time `bson:"date" json:"date"`
}
