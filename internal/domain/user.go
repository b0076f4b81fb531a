package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account with its fitness profile. BMI and BMR are derived at
// registration/profile-update time and stored alongside the raw measurements.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Nickname     string             `bson:"nickname" json:"nickname"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"password" json:"-"`

	HeightCm      float64 `bson:"height,omitempty" json:"height,omitempty"`
	WeightKg      float64 `bson:"weight,omitempty" json:"weight,omitempty"`
	Age           int     `bson:"age,omitempty" json:"age,omitempty"`
	Gender        string  `bson:"gender,omitempty" json:"gender,omitempty"`
	Goal          string  `bson:"goal,omitempty" json:"goal,omitempty"`
	ActivityLevel string  `bson:"activityLevel,omitempty" json:"activityLevel,omitempty"`

	BMI float64 `bson:"bmi,omitempty" json:"bmi,omitempty"`
	BMR float64 `bson:"bmr,omitempty" json:"bmr,omitempty"`
}
