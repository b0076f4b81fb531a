package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fitkraft/backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestCatalogService() (CatalogService, *fakeStoredExerciseRepo, *fakeExerciseRepo) {
	storedRepo := newFakeStoredExerciseRepo()
	exerciseRepo := newFakeExerciseRepo()
	return NewCatalogService(storedRepo, exerciseRepo, fakeFileStorage{}), storedRepo, exerciseRepo
}

func TestNormalizePrefersUserTemplate(t *testing.T) {
	t.Parallel()
	svc, storedRepo, _ := newTestCatalogService()

	ownedID, err := storedRepo.Create(context.Background(), &domain.StoredExercise{
		Name:    "Bench Press",
		OwnerID: "user-1",
	})
	if err != nil {
		t.Fatalf("seeding template failed: %v", err)
	}

	template, err := svc.Normalize(context.Background(), "user-1", ExerciseInput{Name: "bench press"})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if template.ID != ownedID {
		t.Errorf("Normalize returned template %s, want existing %s", template.ID.Hex(), ownedID.Hex())
	}
	if len(storedRepo.templates) != 1 {
		t.Errorf("templates = %d, want 1", len(storedRepo.templates))
	}
}

func TestNormalizeClonesGlobalTemplate(t *testing.T) {
	t.Parallel()
	svc, storedRepo, _ := newTestCatalogService()

	if _, err := storedRepo.Create(context.Background(), &domain.StoredExercise{
		Name:        "Bench Press",
		Type:        "strength",
		Description: "Barbell press on a flat bench",
		GifURL:      "media/bench.gif",
		BodyPart:    "chest",
		Equipment:   "barbell",
	}); err != nil {
		t.Fatalf("seeding global template failed: %v", err)
	}

	clone, err := svc.Normalize(context.Background(), "user-1", ExerciseInput{Name: "Bench Press"})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}

	if clone.OwnerID != "user-1" {
		t.Errorf("clone owner = %q, want user-1", clone.OwnerID)
	}
	if clone.Description != "Barbell press on a flat bench" || clone.GifURL != "media/bench.gif" {
		t.Errorf("clone did not inherit global metadata: %+v", clone)
	}
	// Global stays; user copy added.
	if len(storedRepo.templates) != 2 {
		t.Errorf("templates = %d, want 2", len(storedRepo.templates))
	}
	if _, err := storedRepo.FindByName(context.Background(), domain.GlobalScope(), "Bench Press"); err != nil {
		t.Errorf("global template gone after clone: %v", err)
	}
}

func TestNormalizeCreatesFreshTemplate(t *testing.T) {
	t.Parallel()
	svc, storedRepo, _ := newTestCatalogService()

	template, err := svc.Normalize(context.Background(), "user-1", ExerciseInput{
		Name:     "Goblet Squat",
		Type:     "strength",
		BodyPart: "legs",
	})
	if err != nil {
		t.Fatalf("Normalize returned error: %v", err)
	}
	if template.OwnerID != "user-1" || template.BodyPart != "legs" {
		t.Errorf("fresh template = %+v", template)
	}
	if len(storedRepo.templates) != 1 {
		t.Errorf("templates = %d, want 1", len(storedRepo.templates))
	}
}

func TestNormalizeRejectsBlankName(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestCatalogService()

	if _, err := svc.Normalize(context.Background(), "user-1", ExerciseInput{Name: "   "}); !errors.Is(err, ErrTemplateValidation) {
		t.Errorf("error = %v, want ErrTemplateValidation", err)
	}
}

func TestSearchCoversInstancesAndTemplates(t *testing.T) {
	t.Parallel()
	svc, storedRepo, exerciseRepo := newTestCatalogService()

	if _, err := exerciseRepo.Create(context.Background(), &domain.Exercise{Name: "Incline Push Ups"}); err != nil {
		t.Fatalf("seeding instance failed: %v", err)
	}
	if _, err := storedRepo.Create(context.Background(), &domain.StoredExercise{Name: "Push Ups"}); err != nil {
		t.Fatalf("seeding template failed: %v", err)
	}

	result, err := svc.Search(context.Background(), "push")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(result.Exercises) != 1 || len(result.Templates) != 1 {
		t.Errorf("search found %d instances and %d templates, want 1 and 1", len(result.Exercises), len(result.Templates))
	}
}

func TestMediaUploadRoundTrip(t *testing.T) {
	t.Parallel()
	svc, storedRepo, _ := newTestCatalogService()

	templateID, err := storedRepo.Create(context.Background(), &domain.StoredExercise{Name: "Bench Press"})
	if err != nil {
		t.Fatalf("seeding template failed: %v", err)
	}

	uploadURL, objectKey, err := svc.RequestMediaUploadURL(context.Background(), templateID, "image/gif")
	if err != nil {
		t.Fatalf("RequestMediaUploadURL returned error: %v", err)
	}
	if uploadURL == "" {
		t.Fatal("empty upload URL")
	}
	if !strings.HasPrefix(objectKey, "stored-exercises/"+templateID.Hex()+"/") {
		t.Errorf("object key %q not namespaced under template", objectKey)
	}

	downloadURL, err := svc.ConfirmMediaUpload(context.Background(), templateID, objectKey)
	if err != nil {
		t.Fatalf("ConfirmMediaUpload returned error: %v", err)
	}
	if downloadURL == "" {
		t.Fatal("empty download URL")
	}

	template, err := storedRepo.GetByID(context.Background(), templateID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if template.GifURL != objectKey {
		t.Errorf("template gif key = %q, want %q", template.GifURL, objectKey)
	}
}

func TestMediaUploadUnknownTemplate(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestCatalogService()

	if _, _, err := svc.RequestMediaUploadURL(context.Background(), primitive.NewObjectID(), "image/gif"); !errors.Is(err, ErrTemplateNotFound) {
		t.Errorf("error = %v, want ErrTemplateNotFound", err)
	}
}
