package api

import (
	"errors"
	"net/http"

	"fitkraft/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler handles exercise catalog requests.
type ExerciseHandler struct {
	catalogService service.CatalogService
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(catalogService service.CatalogService) *ExerciseHandler {
	return &ExerciseHandler{catalogService: catalogService}
}

// CreateExercise handles POST /exercise/create
func (h *ExerciseHandler) CreateExercise(c *gin.Context) {
	var req exerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	exercise, err := h.catalogService.CreateExercise(c.Request.Context(), req.toInput())
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, exercise)
}

// ListExercises handles GET /exercise/get
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	exercises, err := h.catalogService.ListExercises(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "failed to load exercises")
		return
	}
	c.JSON(http.StatusOK, exercises)
}

// SearchExercises handles GET /exercise/get/:name
func (h *ExerciseHandler) SearchExercises(c *gin.Context) {
	result, err := h.catalogService.Search(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type createStoredRequest struct {
	Name        string `json:"name" binding:"required"`
	Type        string `json:"type"`
	Description string `json:"description"`
	BodyPart    string `json:"bodyPart"`
	Equipment   string `json:"equipment"`
}

// CreateStoredExercise handles POST /exercise/createStored
func (h *ExerciseHandler) CreateStoredExercise(c *gin.Context) {
	var req createStoredRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	template, err := h.catalogService.CreateGlobalTemplate(c.Request.Context(), service.ExerciseInput{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		BodyPart:    req.BodyPart,
		Equipment:   req.Equipment,
	})
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusCreated, template)
}

type mediaUploadURLRequest struct {
	TemplateID  string `json:"templateId" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

// RequestMediaUploadURL handles POST /exercise/media/upload-url
func (h *ExerciseHandler) RequestMediaUploadURL(c *gin.Context) {
	var req mediaUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	templateID, ok := parseObjectIDString(c, req.TemplateID, "templateId")
	if !ok {
		return
	}

	uploadURL, objectKey, err := h.catalogService.RequestMediaUploadURL(c.Request.Context(), templateID, req.ContentType)
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"uploadUrl": uploadURL, "objectKey": objectKey})
}

type mediaConfirmRequest struct {
	TemplateID string `json:"templateId" binding:"required"`
	ObjectKey  string `json:"objectKey" binding:"required"`
}

// ConfirmMediaUpload handles POST /exercise/media/confirm
func (h *ExerciseHandler) ConfirmMediaUpload(c *gin.Context) {
	var req mediaConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	templateID, ok := parseObjectIDString(c, req.TemplateID, "templateId")
	if !ok {
		return
	}

	downloadURL, err := h.catalogService.ConfirmMediaUpload(c.Request.Context(), templateID, req.ObjectKey)
	if err != nil {
		h.respondCatalogError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"gifUrl": downloadURL})
}

func (h *ExerciseHandler) respondCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTemplateNotFound):
		abortWithError(c, http.StatusNotFound, "exercise template not found")
	case errors.Is(err, service.ErrTemplateValidation):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "internal server error")
	}
}
