// internal/repository/mongo/stored_exercise_repo.go
package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"fitkraft/backend/internal/domain"
	"fitkraft/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const storedExerciseCollectionName = "stored_exercises"

// mongoStoredExerciseRepository implements repository.StoredExerciseRepository
type mongoStoredExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoStoredExerciseRepository creates a new catalog repository backed by MongoDB.
func NewMongoStoredExerciseRepository(db *mongo.Database) repository.StoredExerciseRepository {
	return &mongoStoredExerciseRepository{
		collection: db.Collection(storedExerciseCollectionName),
	}
}

// Create inserts a new catalog template.
func (r *mongoStoredExerciseRepository) Create(ctx context.Context, template *domain.StoredExercise) (primitive.ObjectID, error) {
	if template.Name == "" {
		return primitive.NilObjectID, errors.New("template name is required")
	}
	template.ID = primitive.NewObjectID()

	result, err := r.collection.InsertOne(ctx, template)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted template ID")
	}
	return insertedID, nil
}

// GetByID retrieves a template by its ID.
func (r *mongoStoredExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.StoredExercise, error) {
	var template domain.StoredExercise
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&template)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &template, nil
}

// FindByName matches one template by exact name within the given scope.
// Global scope translates to documents without an ownerId.
func (r *mongoStoredExerciseRepository) FindByName(ctx context.Context, scope domain.Scope, name string) (*domain.StoredExercise, error) {
	filter := bson.M{"name": primitive.Regex{
		Pattern: "^" + regexp.QuoteMeta(name) + "$",
		Options: "i",
	}}
	switch scope.Kind {
	case domain.ScopeGlobal:
		filter["ownerId"] = bson.M{"$exists": false}
	case domain.ScopeUser:
		filter["ownerId"] = scope.UserID
	default:
		return nil, fmt.Errorf("unknown catalog scope kind %d", scope.Kind)
	}

	var template domain.StoredExercise
	err := r.collection.FindOne(ctx, filter).Decode(&template)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &template, nil
}

// SearchByName matches templates across all scopes whose name contains the
// fragment.
func (r *mongoStoredExerciseRepository) SearchByName(ctx context.Context, fragment string) ([]domain.StoredExercise, error) {
	var templates []domain.StoredExercise
	filter := bson.M{"name": primitive.Regex{
		Pattern: regexp.QuoteMeta(fragment),
		Options: "i",
	}}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &templates); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return templates, nil
}

// SetGifURL stores the media reference for a template after its upload is
// confirmed.
func (r *mongoStoredExerciseRepository) SetGifURL(ctx context.Context, id primitive.ObjectID, gifURL string) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"gifUrl": gifURL}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureStoredExerciseIndexes creates necessary indexes. Call during startup.
func EnsureStoredExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Normalization looks templates up by owner then name.
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
