package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CareLink-2025/clinic-service/internal/services"
	"github.com/CareLink-2025/clinic-service/internal/utils"
	"github.com/CareLink-2025/clinic-service/internal/validator"
)

// PredictionHandler serves symptom analysis endpoints.
type PredictionHandler struct {
	predictions services.PredictionService
	validator   *validator.Validator
	logger      utils.Logger
}

func NewPredictionHandler(predictions services.PredictionService, v *validator.Validator, logger utils.Logger) *PredictionHandler {
	return &PredictionHandler{predictions: predictions, validator: v, logger: logger}
}

func (h *PredictionHandler) Create(c *gin.Context) {
	identity, _ := GetIdentity(c)

	var req services.PredictionCreateRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	resp, err := h.predictions.Predict(c.Request.Context(), identity.UserID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *PredictionHandler) Get(c *gin.Context) {
	identity, _ := GetIdentity(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	resp, err := h.predictions.GetByID(c.Request.Context(), id, identity.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *PredictionHandler) ListMine(c *gin.Context) {
	identity, _ := GetIdentity(c)
	limit, offset := pagination(c)

	resp, err := h.predictions.ListByPatient(c.Request.Context(), identity.UserID, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *PredictionHandler) ListSymptoms(c *gin.Context) {
	symptoms, err := h.predictions.ListSymptoms(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"symptoms": symptoms})
}
