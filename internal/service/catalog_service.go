package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fitkraft/backend/internal/domain"
	"fitkraft/backend/internal/repository"
	"fitkraft/backend/internal/storage"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrTemplateNotFound   = errors.New("exercise template not found")
	ErrTemplateValidation = errors.New("exercise template validation failed")
)

// SearchResult groups a name search across both exercise instances and
// catalog templates.
type SearchResult struct {
	Exercises []domain.Exercise       `json:"exercises"`
	Templates []domain.StoredExercise `json:"storedExercises"`
}

// CatalogService maintains the stored-exercise template catalog: the
// per-user and global reference entries that workouts are normalized
// against, plus their media attachments.
type CatalogService interface {
	// Normalize resolves an exercise descriptor to the user's template,
	// creating one if needed. Precedence: an existing user-scoped template
	// wins; otherwise a global template with the same name is cloned into
	// the user's scope; otherwise a fresh user-scoped template is created
	// from the descriptor.
	Normalize(ctx context.Context, userID string, input ExerciseInput) (*domain.StoredExercise, error)
	// CreateGlobalTemplate adds an unowned catalog entry visible to every
	// user's normalization.
	CreateGlobalTemplate(ctx context.Context, input ExerciseInput) (*domain.StoredExercise, error)
	// CreateExercise creates a standalone exercise instance not attached to
	// any workout.
	CreateExercise(ctx context.Context, input ExerciseInput) (*domain.Exercise, error)
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
	// Search matches instances and templates by name substring,
	// case-insensitive.
	Search(ctx context.Context, name string) (*SearchResult, error)
	// RequestMediaUploadURL returns a presigned PUT URL and the object key
	// for a template's demonstration GIF.
	RequestMediaUploadURL(ctx context.Context, templateID primitive.ObjectID, contentType string) (uploadURL, objectKey string, err error)
	// ConfirmMediaUpload records the uploaded object key on the template and
	// returns a presigned GET URL for immediate display.
	ConfirmMediaUpload(ctx context.Context, templateID primitive.ObjectID, objectKey string) (string, error)
}

type catalogService struct {
	storedRepo   repository.StoredExerciseRepository
	exerciseRepo repository.ExerciseRepository
	fileStorage  storage.FileStorage
}

// NewCatalogService creates a new instance of catalogService.
func NewCatalogService(
	storedRepo repository.StoredExerciseRepository,
	exerciseRepo repository.ExerciseRepository,
	fileStorage storage.FileStorage,
) CatalogService {
	return &catalogService{
		storedRepo:   storedRepo,
		exerciseRepo: exerciseRepo,
		fileStorage:  fileStorage,
	}
}

func (s *catalogService) Normalize(ctx context.Context, userID string, input ExerciseInput) (*domain.StoredExercise, error) {
	if userID == "" || strings.TrimSpace(input.Name) == "" {
		return nil, ErrTemplateValidation
	}

	owned, err := s.storedRepo.FindByName(ctx, domain.UserScope(userID), input.Name)
	if err == nil {
		return owned, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	template := &domain.StoredExercise{
		Name:        input.Name,
		Type:        input.Type,
		Description: input.Description,
		BodyPart:    input.BodyPart,
		Equipment:   input.Equipment,
		OwnerID:     userID,
	}

	// A global entry provides the richer metadata; the clone keeps the
	// user's copy independently editable.
	global, err := s.storedRepo.FindByName(ctx, domain.GlobalScope(), input.Name)
	if err == nil {
		template.Name = global.Name
		template.Type = global.Type
		template.Description = global.Description
		template.GifURL = global.GifURL
		template.BodyPart = global.BodyPart
		template.Equipment = global.Equipment
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	id, err := s.storedRepo.Create(ctx, template)
	if err != nil {
		return nil, err
	}
	template.ID = id
	return template, nil
}

func (s *catalogService) CreateGlobalTemplate(ctx context.Context, input ExerciseInput) (*domain.StoredExercise, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrTemplateValidation
	}

	template := &domain.StoredExercise{
		Name:        input.Name,
		Type:        input.Type,
		Description: input.Description,
		BodyPart:    input.BodyPart,
		Equipment:   input.Equipment,
	}
	id, err := s.storedRepo.Create(ctx, template)
	if err != nil {
		return nil, err
	}
	template.ID = id
	return template, nil
}

func (s *catalogService) CreateExercise(ctx context.Context, input ExerciseInput) (*domain.Exercise, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrTemplateValidation
	}

	exercise := exerciseFromInput(input)
	id, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	exercise.ID = id
	return exercise, nil
}

func (s *catalogService) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	return s.exerciseRepo.GetAll(ctx)
}

func (s *catalogService) Search(ctx context.Context, name string) (*SearchResult, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrTemplateValidation
	}

	exercises, err := s.exerciseRepo.SearchByName(ctx, name)
	if err != nil {
		return nil, err
	}
	templates, err := s.storedRepo.SearchByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return &SearchResult{Exercises: exercises, Templates: templates}, nil
}

func (s *catalogService) RequestMediaUploadURL(ctx context.Context, templateID primitive.ObjectID, contentType string) (string, string, error) {
	if _, err := s.storedRepo.GetByID(ctx, templateID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", "", ErrTemplateNotFound
		}
		return "", "", err
	}

	objectKey := fmt.Sprintf("stored-exercises/%s/%s.gif", templateID.Hex(), uuid.NewString())
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate upload URL: %w", err)
	}
	return uploadURL, objectKey, nil
}

func (s *catalogService) ConfirmMediaUpload(ctx context.Context, templateID primitive.ObjectID, objectKey string) (string, error) {
	if strings.TrimSpace(objectKey) == "" {
		return "", ErrTemplateValidation
	}

	if err := s.storedRepo.SetGifURL(ctx, templateID, objectKey); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrTemplateNotFound
		}
		return "", err
	}

	downloadURL, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to generate download URL: %w", err)
	}
	return downloadURL, nil
}
