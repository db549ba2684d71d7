package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"gorm.io/datatypes"

	"github.com/CareLink-2025/clinic-service/internal/models"
	"github.com/CareLink-2025/clinic-service/internal/repositories"
	"github.com/CareLink-2025/clinic-service/internal/validator"
)

type predictionService struct {
	repo      repositories.Repository
	events    NotificationEventService
	logger    *slog.Logger
	validator *validator.Validator

	// rng injects the confidence jitter; tests pass a fixed seed.
	rng *rand.Rand
}

func NewPredictionService(repo repositories.Repository, events NotificationEventService, logger *slog.Logger, v *validator.Validator) PredictionService {
	return &predictionService{
		repo:      repo,
		events:    events,
		logger:    logger,
		validator: v,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewPredictionServiceWithRand is like NewPredictionService with a caller
// supplied random source, used by tests for reproducible jitter.
func NewPredictionServiceWithRand(repo repositories.Repository, events NotificationEventService, logger *slog.Logger, v *validator.Validator, rng *rand.Rand) PredictionService {
	return &predictionService{
		repo:      repo,
		events:    events,
		logger:    logger,
		validator: v,
		rng:       rng,
	}
}

func (s *predictionService) Predict(ctx context.Context, patientID uint, req *PredictionCreateRequest) (*PredictionResponse, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	symptomNames := s.canonicalSymptomNames(ctx, req.Symptoms)
	candidates, specializations := s.evaluateRules(req.Symptoms)

	overall := overallUrgency(candidates)
	recommendations := composeRecommendations(overall)

	prediction := &models.Prediction{
		PatientID:       patientID,
		Age:             req.Age,
		Gender:          req.Gender,
		OverallUrgency:  overall,
		Symptoms:        mustJSON(symptomNames),
		Conditions:      mustJSON(candidates),
		Recommendations: mustJSON(recommendations),
		Specializations: mustJSON(specializations),
	}

	if err := s.repo.Prediction().Create(ctx, prediction); err != nil {
		return nil, fmt.Errorf("failed to store prediction: %w", err)
	}

	s.logger.Info("prediction created",
		"prediction_id", prediction.ID,
		"patient_id", patientID,
		"symptom_count", len(req.Symptoms),
		"overall_urgency", overall,
	)

	if s.events != nil {
		if err := s.events.PredictionCreated(ctx, patientID, prediction.ID, overall); err != nil {
			s.logger.Warn("failed to publish prediction event", "prediction_id", prediction.ID, "error", err)
		}
	}

	return buildPredictionResponse(prediction)
}

func (s *predictionService) GetByID(ctx context.Context, id uint, callerID uint) (*PredictionResponse, error) {
	prediction, err := s.repo.Prediction().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPredictionNotFound
		}
		return nil, fmt.Errorf("failed to get prediction: %w", err)
	}

	if prediction.PatientID != callerID {
		return nil, NewAccessError(callerID, "prediction", "read", "not the owning patient")
	}

	return buildPredictionResponse(prediction)
}

func (s *predictionService) ListByPatient(ctx context.Context, patientID uint, limit, offset int) (*PredictionListResponse, error) {
	predictions, total, err := s.repo.Prediction().ListByPatient(ctx, patientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}

	responses := make([]*PredictionResponse, 0, len(predictions))
	for _, p := range predictions {
		resp, err := buildPredictionResponse(p)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}

	if limit <= 0 {
		limit = 20
	}
	return &PredictionListResponse{
		Predictions: responses,
		Total:       total,
		Page:        offset/limit + 1,
		Size:        limit,
	}, nil
}

func (s *predictionService) ListSymptoms(ctx context.Context) ([]*models.SymptomCatalogEntry, error) {
	return s.repo.Prediction().ListSymptoms(ctx)
}

// canonicalSymptomNames maps submitted identifiers to catalog names. An
// identifier missing from the catalog passes through as its own label;
// a submission never fails on unknown symptoms.
func (s *predictionService) canonicalSymptomNames(ctx context.Context, codes []string) []string {
	catalog, err := s.repo.Prediction().ListSymptoms(ctx)
	if err != nil {
		s.logger.Warn("symptom catalog unavailable, using raw identifiers", "error", err)
		catalog = nil
	}

	byCode := make(map[string]string, len(catalog))
	for _, entry := range catalog {
		byCode[entry.Code] = entry.Name
	}

	names := make([]string, 0, len(codes))
	for _, code := range codes {
		if name, ok := byCode[code]; ok {
			names = append(names, name)
		} else {
			names = append(names, code)
		}
	}
	return names
}

// evaluateRules runs the ordered rule set against the submitted symptom
// identifiers and returns ranked candidates plus suggested specializations.
func (s *predictionService) evaluateRules(symptoms []string) ([]models.ConditionCandidate, []string) {
	submitted := make(map[string]struct{}, len(symptoms))
	for _, code := range symptoms {
		submitted[code] = struct{}{}
	}

	var candidates []models.ConditionCandidate
	specialtySeen := make(map[string]struct{})
	var specializations []string

	for _, rule := range conditionRules {
		if !intersects(submitted, rule.Triggers) {
			continue
		}

		candidates = append(candidates, models.ConditionCandidate{
			Condition:   rule.Condition,
			Probability: s.jittered(rule.BaseProbability),
			Urgency:     rule.Urgency,
			Description: rule.Description,
			Treatment:   rule.Treatment,
		})

		if _, ok := specialtySeen[rule.Specialty]; !ok {
			specialtySeen[rule.Specialty] = struct{}{}
			specializations = append(specializations, rule.Specialty)
		}
	}

	if len(candidates) == 0 {
		candidates = append(candidates, models.ConditionCandidate{
			Condition:   fallbackRule.Condition,
			Probability: s.jittered(fallbackRule.BaseProbability),
			Urgency:     fallbackRule.Urgency,
			Description: fallbackRule.Description,
			Treatment:   fallbackRule.Treatment,
		})
		specializations = []string{defaultSpecialty}
	}

	// Stable: near-tied probabilities keep rule order.
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Probability > candidates[j].Probability
	})

	return candidates, specializations
}

// jittered adds the pseudo-random confidence variance to a base
// probability, clamped away from 0 and 1.
func (s *predictionService) jittered(base float64) float64 {
	p := base + (s.rng.Float64()-0.5)*jitterWidth
	if p < 0.05 {
		p = 0.05
	}
	if p > 0.99 {
		p = 0.99
	}
	return p
}

func intersects(submitted map[string]struct{}, triggers []string) bool {
	for _, t := range triggers {
		if _, ok := submitted[t]; ok {
			return true
		}
	}
	return false
}

func overallUrgency(candidates []models.ConditionCandidate) models.UrgencyTier {
	overall := models.UrgencyLow
	for _, c := range candidates {
		overall = overall.Max(c.Urgency)
	}
	return overall
}

// composeRecommendations builds the fixed four-entry guidance list. The
// third entry branches on overall urgency.
func composeRecommendations(overall models.UrgencyTier) []string {
	care := "Schedule a routine appointment with your doctor to discuss these results."
	if overall.Rank() >= models.UrgencyHigh.Rank() {
		care = "Seek urgent care promptly; do not wait for a routine appointment."
	}

	return []string{
		"This analysis is a suggestion, not a diagnosis.",
		"Keep a record of when each symptom started and how it develops.",
		care,
		"Call emergency services immediately if symptoms escalate suddenly.",
	}
}

func buildPredictionResponse(p *models.Prediction) (*PredictionResponse, error) {
	var (
		symptoms        []string
		conditions      []models.ConditionCandidate
		recommendations []string
		specializations []string
	)

	for _, field := range []struct {
		raw  datatypes.JSON
		dest interface{}
	}{
		{p.Symptoms, &symptoms},
		{p.Conditions, &conditions},
		{p.Recommendations, &recommendations},
		{p.Specializations, &specializations},
	} {
		if len(field.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(field.raw, field.dest); err != nil {
			return nil, fmt.Errorf("failed to decode prediction %d: %w", p.ID, err)
		}
	}

	if len(conditions) == 0 {
		return nil, fmt.Errorf("prediction %d has no conditions", p.ID)
	}

	return &PredictionResponse{
		ID:                       p.ID,
		CreatedAt:                p.CreatedAt,
		Symptoms:                 symptoms,
		Conditions:               conditions,
		PrimaryCondition:         conditions[0],
		OverallUrgency:           p.OverallUrgency,
		Recommendations:          recommendations,
		SuggestedSpecializations: specializations,
	}, nil
}

func mustJSON(v interface{}) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil {
		// All inputs are plain structs and slices; marshal cannot fail.
		panic(err)
	}
	return datatypes.JSON(data)
}
