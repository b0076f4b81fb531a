// internal/repository/mongo/workout_repo.go
package mongo

import (
	"context"
	"errors"
	"time"

	"fitkraft/backend/internal/domain"
	"fitkraft/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new workout repository backed by MongoDB.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// Create inserts a new workout.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.UserID == "" {
		return primitive.NilObjectID, errors.New("workout requires userId")
	}
	workout.ID = primitive.NewObjectID()
	if workout.Date.IsZero() {
		workout.Date = time.Now().UTC()
	}
	if workout.Exercises == nil {
		workout.Exercises = []primitive.ObjectID{}
	}

	result, err := r.collection.InsertOne(ctx, workout)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted workout ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single workout by its ID.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	var workout domain.Workout
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// GetByUserID retrieves all workouts for a user, newest first.
func (r *mongoWorkoutRepository) GetByUserID(ctx context.Context, userID string) ([]domain.Workout, error) {
	return r.findSorted(ctx, bson.M{"userId": userID})
}

// GetByUserBetween retrieves the user's workouts within [from, to], newest first.
func (r *mongoWorkoutRepository) GetByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.Workout, error) {
	filter := bson.M{
		"userId": userID,
		"date":   bson.M{"$gte": from, "$lte": to},
	}
	return r.findSorted(ctx, filter)
}

func (r *mongoWorkoutRepository) findSorted(ctx context.Context, filter bson.M) ([]domain.Workout, error) {
	var workouts []domain.Workout
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return workouts, nil
}

// AppendExercise pushes an exercise reference onto the workout's list.
func (r *mongoWorkoutRepository) AppendExercise(ctx context.Context, workoutID, exerciseID primitive.ObjectID) error {
	filter := bson.M{"_id": workoutID}
	update := bson.M{"$push": bson.M{"exercises": exerciseID}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// PullExercise removes an exercise reference from the workout's list.
// $pull does not report whether the reference was present; only a missing
// workout is an error.
func (r *mongoWorkoutRepository) PullExercise(ctx context.Context, workoutID, exerciseID primitive.ObjectID) error {
	filter := bson.M{"_id": workoutID}
	update := bson.M{"$pull": bson.M{"exercises": exerciseID}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ReplaceExercises swaps the workout's entire membership list.
func (r *mongoWorkoutRepository) ReplaceExercises(ctx context.Context, workoutID primitive.ObjectID, exerciseIDs []primitive.ObjectID) error {
	if exerciseIDs == nil {
		exerciseIDs = []primitive.ObjectID{}
	}
	filter := bson.M{"_id": workoutID}
	update := bson.M{"$set": bson.M{"exercises": exerciseIDs}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetTotals writes the derived duration/calorie aggregates in one update.
func (r *mongoWorkoutRepository) SetTotals(ctx context.Context, workoutID primitive.ObjectID, duration domain.Duration, caloriesBurned float64) error {
	filter := bson.M{"_id": workoutID}
	update := bson.M{"$set": bson.M{
		"duration":       duration,
		"caloriesBurned": caloriesBurned,
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a workout document.
func (r *mongoWorkoutRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteOlderThan removes the user's workouts dated before the cutoff.
func (r *mongoWorkoutRepository) DeleteOlderThan(ctx context.Context, userID string, cutoff time.Time) (int64, error) {
	filter := bson.M{
		"userId": userID,
		"date":   bson.M{"$lt": cutoff},
	}
	result, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// History queries filter by user and date range.
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: -1}},
			Options: options.Index(),
		},
		{
			// Reverse lookup from an exercise reference to its owning workout.
			Keys:    bson.D{{Key: "exercises", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
