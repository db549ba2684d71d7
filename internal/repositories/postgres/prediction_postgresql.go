package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/CareLink-2025/clinic-service/internal/models"
	"github.com/CareLink-2025/clinic-service/internal/repositories"
)

type PredictionPostgreSQL struct {
	db *gorm.DB
}

func NewPredictionPostgreSQL(db *gorm.DB) repositories.PredictionRepository {
	return &PredictionPostgreSQL{db: db}
}

func (r *PredictionPostgreSQL) Create(ctx context.Context, prediction *models.Prediction) error {
	if err := r.db.WithContext(ctx).Create(prediction).Error; err != nil {
		return fmt.Errorf("failed to create prediction: %w", err)
	}
	return nil
}

func (r *PredictionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Prediction, error) {
	var prediction models.Prediction
	if err := r.db.WithContext(ctx).First(&prediction, id).Error; err != nil {
		return nil, err
	}
	return &prediction, nil
}

func (r *PredictionPostgreSQL) ListByPatient(ctx context.Context, patientID uint, limit, offset int) ([]*models.Prediction, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Prediction{}).Where("patient_id = ?", patientID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count predictions: %w", err)
	}

	var predictions []*models.Prediction
	if err := applyPagination(query, limit, offset).Order("created_at DESC").Find(&predictions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list predictions: %w", err)
	}

	return predictions, total, nil
}

func (r *PredictionPostgreSQL) ListSymptoms(ctx context.Context) ([]*models.SymptomCatalogEntry, error) {
	var symptoms []*models.SymptomCatalogEntry
	if err := r.db.WithContext(ctx).Order("category, name").Find(&symptoms).Error; err != nil {
		return nil, fmt.Errorf("failed to list symptom catalog: %w", err)
	}
	return symptoms, nil
}

func (r *PredictionPostgreSQL) EnsureSymptom(ctx context.Context, code, name, category string) error {
	entry := models.SymptomCatalogEntry{Code: code, Name: name, Category: category}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, DoNothing: true}).
		Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to ensure symptom %s: %w", code, err)
	}
	return nil
}
