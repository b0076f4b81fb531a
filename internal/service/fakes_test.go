package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"fitkraft/backend/internal/domain"
	"fitkraft/backend/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes. They mirror the store's observable behavior
// closely enough for service-level tests: sort orders, not-found semantics,
// and array-membership mutations.

type fakeWorkoutRepo struct {
	mu       sync.Mutex
	workouts map[primitive.ObjectID]*domain.Workout
}

func newFakeWorkoutRepo() *fakeWorkoutRepo {
	return &fakeWorkoutRepo{workouts: make(map[primitive.ObjectID]*domain.Workout)}
}

func (r *fakeWorkoutRepo) Create(_ context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	stored := *workout
	stored.ID = id
	if stored.Date.IsZero() {
		stored.Date = time.Now().UTC()
	}
	if stored.Exercises == nil {
		stored.Exercises = []primitive.ObjectID{}
	}
	r.workouts[id] = &stored
	return id, nil
}

func (r *fakeWorkoutRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	workout, ok := r.workouts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *workout
	copied.Exercises = append([]primitive.ObjectID(nil), workout.Exercises...)
	return &copied, nil
}

func (r *fakeWorkoutRepo) GetByUserID(_ context.Context, userID string) ([]domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Workout
	for _, w := range r.workouts {
		if w.UserID == userID {
			result = append(result, *w)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.After(result[j].Date) })
	return result, nil
}

func (r *fakeWorkoutRepo) GetByUserBetween(_ context.Context, userID string, from, to time.Time) ([]domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Workout
	for _, w := range r.workouts {
		if w.UserID == userID && !w.Date.Before(from) && !w.Date.After(to) {
			result = append(result, *w)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.After(result[j].Date) })
	return result, nil
}

func (r *fakeWorkoutRepo) AppendExercise(_ context.Context, workoutID, exerciseID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	workout, ok := r.workouts[workoutID]
	if !ok {
		return repository.ErrNotFound
	}
	workout.Exercises = append(workout.Exercises, exerciseID)
	return nil
}

func (r *fakeWorkoutRepo) PullExercise(_ context.Context, workoutID, exerciseID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	workout, ok := r.workouts[workoutID]
	if !ok {
		return repository.ErrNotFound
	}
	kept := workout.Exercises[:0]
	for _, id := range workout.Exercises {
		if id != exerciseID {
			kept = append(kept, id)
		}
	}
	workout.Exercises = kept
	return nil
}

func (r *fakeWorkoutRepo) ReplaceExercises(_ context.Context, workoutID primitive.ObjectID, exerciseIDs []primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	workout, ok := r.workouts[workoutID]
	if !ok {
		return repository.ErrNotFound
	}
	workout.Exercises = append([]primitive.ObjectID(nil), exerciseIDs...)
	return nil
}

func (r *fakeWorkoutRepo) SetTotals(_ context.Context, workoutID primitive.ObjectID, duration domain.Duration, caloriesBurned float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	workout, ok := r.workouts[workoutID]
	if !ok {
		return repository.ErrNotFound
	}
	workout.Duration = duration
	workout.CaloriesBurned = caloriesBurned
	return nil
}

func (r *fakeWorkoutRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.workouts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.workouts, id)
	return nil
}

func (r *fakeWorkoutRepo) DeleteOlderThan(_ context.Context, userID string, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var deleted int64
	for id, w := range r.workouts {
		if w.UserID == userID && w.Date.Before(cutoff) {
			delete(r.workouts, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeExerciseRepo struct {
	mu        sync.Mutex
	exercises map[primitive.ObjectID]*domain.Exercise
}

func newFakeExerciseRepo() *fakeExerciseRepo {
	return &fakeExerciseRepo{exercises: make(map[primitive.ObjectID]*domain.Exercise)}
}

func (r *fakeExerciseRepo) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	stored := *exercise
	stored.ID = id
	r.exercises[id] = &stored
	return id, nil
}

func (r *fakeExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exercise, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *exercise
	return &copied, nil
}

func (r *fakeExerciseRepo) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.Exercise, 0, len(ids))
	for _, id := range ids {
		if exercise, ok := r.exercises[id]; ok {
			result = append(result, *exercise)
		}
	}
	return result, nil
}

func (r *fakeExerciseRepo) FindByName(_ context.Context, name string) (*domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, exercise := range r.exercises {
		if strings.EqualFold(exercise.Name, name) {
			copied := *exercise
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeExerciseRepo) SearchByName(_ context.Context, fragment string) ([]domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Exercise
	for _, exercise := range r.exercises {
		if strings.Contains(strings.ToLower(exercise.Name), strings.ToLower(fragment)) {
			result = append(result, *exercise)
		}
	}
	return result, nil
}

func (r *fakeExerciseRepo) GetAll(_ context.Context) ([]domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.Exercise, 0, len(r.exercises))
	for _, exercise := range r.exercises {
		result = append(result, *exercise)
	}
	return result, nil
}

func (r *fakeExerciseRepo) Update(_ context.Context, exercise *domain.Exercise) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.exercises[exercise.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Name = exercise.Name
	stored.Type = exercise.Type
	stored.Duration = exercise.Duration
	stored.Sets = exercise.Sets
	stored.Reps = exercise.Reps
	stored.Weight = exercise.Weight
	return nil
}

func (r *fakeExerciseRepo) SetCompleted(_ context.Context, id primitive.ObjectID, completed bool) (*domain.Exercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exercise, ok := r.exercises[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	exercise.Completed = completed
	copied := *exercise
	return &copied, nil
}

func (r *fakeExerciseRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.exercises[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.exercises, id)
	return nil
}

func (r *fakeExerciseRepo) DeleteMany(_ context.Context, ids []primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.exercises, id)
	}
	return nil
}

type fakeStoredExerciseRepo struct {
	mu        sync.Mutex
	templates map[primitive.ObjectID]*domain.StoredExercise
}

func newFakeStoredExerciseRepo() *fakeStoredExerciseRepo {
	return &fakeStoredExerciseRepo{templates: make(map[primitive.ObjectID]*domain.StoredExercise)}
}

func (r *fakeStoredExerciseRepo) Create(_ context.Context, template *domain.StoredExercise) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := primitive.NewObjectID()
	stored := *template
	stored.ID = id
	r.templates[id] = &stored
	return id, nil
}

func (r *fakeStoredExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.StoredExercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	template, ok := r.templates[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *template
	return &copied, nil
}

func (r *fakeStoredExerciseRepo) FindByName(_ context.Context, scope domain.Scope, name string) (*domain.StoredExercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, template := range r.templates {
		if !strings.EqualFold(template.Name, name) {
			continue
		}
		switch scope.Kind {
		case domain.ScopeGlobal:
			if template.OwnerID == "" {
				copied := *template
				return &copied, nil
			}
		case domain.ScopeUser:
			if template.OwnerID == scope.UserID {
				copied := *template
				return &copied, nil
			}
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeStoredExerciseRepo) SearchByName(_ context.Context, fragment string) ([]domain.StoredExercise, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.StoredExercise
	for _, template := range r.templates {
		if strings.Contains(strings.ToLower(template.Name), strings.ToLower(fragment)) {
			result = append(result, *template)
		}
	}
	return result, nil
}

func (r *fakeStoredExerciseRepo) SetGifURL(_ context.Context, id primitive.ObjectID, gifURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	template, ok := r.templates[id]
	if !ok {
		return repository.ErrNotFound
	}
	template.GifURL = gifURL
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return primitive.NilObjectID, repository.ErrDuplicateKey
		}
	}
	id := primitive.NewObjectID()
	stored := *user
	stored.ID = id
	r.users[id] = &stored
	return id, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

// fakeFileStorage records presign calls without talking to object storage.
type fakeFileStorage struct{}

func (fakeFileStorage) GeneratePresignedUploadURL(_ context.Context, objectKey, _ string, _ time.Duration) (string, error) {
	return "https://storage.test/upload/" + objectKey, nil
}

func (fakeFileStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://storage.test/download/" + objectKey, nil
}

func (fakeFileStorage) DeleteObject(_ context.Context, _ string) error {
	return nil
}
