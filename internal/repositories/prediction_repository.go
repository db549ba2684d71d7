package repositories

import (
	"context"

	"github.com/CareLink-2025/clinic-service/internal/models"
)

type PredictionRepository interface {
	Create(ctx context.Context, prediction *models.Prediction) error
	GetByID(ctx context.Context, id uint) (*models.Prediction, error)
	ListByPatient(ctx context.Context, patientID uint, limit, offset int) ([]*models.Prediction, int64, error)

	// Symptom catalog (seeded at startup, additive only).
	ListSymptoms(ctx context.Context) ([]*models.SymptomCatalogEntry, error)
	EnsureSymptom(ctx context.Context, code, name, category string) error
}
