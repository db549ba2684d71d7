package services

import (
	"context"
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/CareLink-2025/clinic-service/internal/models"
	"github.com/CareLink-2025/clinic-service/internal/validator"
)

func newTestPredictionService(repo *mockRepository) PredictionService {
	return NewPredictionServiceWithRand(repo, nil, testLogger(), validator.New(), rand.New(rand.NewSource(1)))
}

func TestPredictionService_FeverAndCough(t *testing.T) {
	predRepo := &mockPredictionRepo{}
	repo := &mockRepository{prediction: predRepo}
	svc := newTestPredictionService(repo)

	resp, err := svc.Predict(context.Background(), 1, &PredictionCreateRequest{
		Symptoms: []string{"fever", "cough"},
		Age:      30,
		Gender:   "female",
	})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	if len(resp.Conditions) == 0 {
		t.Fatal("condition list must never be empty")
	}

	for i := 1; i < len(resp.Conditions); i++ {
		if resp.Conditions[i].Probability > resp.Conditions[i-1].Probability {
			t.Errorf("conditions not sorted descending at index %d", i)
		}
	}

	found := false
	for _, c := range resp.Conditions {
		if c.Condition == "Common Cold" {
			found = true
		}
	}
	if !found {
		t.Error("expected a Common Cold entry for fever+cough")
	}

	if resp.PrimaryCondition.Condition != resp.Conditions[0].Condition {
		t.Error("primary condition must be the highest-probability entry")
	}
}

func TestPredictionService_EmptySymptomsYieldsFallback(t *testing.T) {
	predRepo := &mockPredictionRepo{}
	repo := &mockRepository{prediction: predRepo}
	svc := newTestPredictionService(repo)

	resp, err := svc.Predict(context.Background(), 1, &PredictionCreateRequest{
		Symptoms: nil,
		Age:      40,
		Gender:   "male",
	})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	if len(resp.Conditions) != 1 {
		t.Fatalf("expected exactly the fallback condition, got %d entries", len(resp.Conditions))
	}
	if resp.Conditions[0].Condition != "Unspecified Condition" {
		t.Errorf("unexpected fallback condition %q", resp.Conditions[0].Condition)
	}
	if resp.OverallUrgency != models.UrgencyMedium {
		t.Errorf("fallback urgency = %s, want medium", resp.OverallUrgency)
	}
	if len(resp.SuggestedSpecializations) != 1 || resp.SuggestedSpecializations[0] != "General Practice" {
		t.Errorf("expected default specialization, got %v", resp.SuggestedSpecializations)
	}
}

func TestPredictionService_UnrecognizedSymptomsYieldFallback(t *testing.T) {
	predRepo := &mockPredictionRepo{}
	repo := &mockRepository{prediction: predRepo}
	svc := newTestPredictionService(repo)

	resp, err := svc.Predict(context.Background(), 1, &PredictionCreateRequest{
		Symptoms: []string{"glowing_ears"},
		Age:      25,
		Gender:   "other",
	})
	if err != nil {
		t.Fatalf("unrecognized symptoms must not fail the request: %v", err)
	}
	if len(resp.Conditions) != 1 || resp.Conditions[0].Condition != "Unspecified Condition" {
		t.Errorf("expected only the fallback condition, got %v", resp.Conditions)
	}

	// The unknown identifier passes through as its own label.
	if len(resp.Symptoms) != 1 || resp.Symptoms[0] != "glowing_ears" {
		t.Errorf("expected pass-through symptom label, got %v", resp.Symptoms)
	}
}

func TestPredictionService_OverallUrgencyIsMax(t *testing.T) {
	predRepo := &mockPredictionRepo{}
	repo := &mockRepository{prediction: predRepo}
	svc := newTestPredictionService(repo)

	// sneezing fires the low-urgency rules; wheezing fires the
	// high-urgency asthma rule.
	resp, err := svc.Predict(context.Background(), 1, &PredictionCreateRequest{
		Symptoms: []string{"sneezing", "wheezing"},
		Age:      50,
		Gender:   "male",
	})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	if resp.OverallUrgency != models.UrgencyHigh {
		t.Errorf("overall urgency = %s, want high", resp.OverallUrgency)
	}
}

func TestPredictionService_UrgentRecommendationBranch(t *testing.T) {
	predRepo := &mockPredictionRepo{}
	repo := &mockRepository{prediction: predRepo}
	svc := newTestPredictionService(repo)
	ctx := context.Background()

	routine, err := svc.Predict(ctx, 1, &PredictionCreateRequest{
		Symptoms: []string{"sneezing"}, Age: 20, Gender: "female",
	})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}
	urgent, err := svc.Predict(ctx, 1, &PredictionCreateRequest{
		Symptoms: []string{"chest_pain"}, Age: 60, Gender: "male",
	})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	if len(routine.Recommendations) != 4 || len(urgent.Recommendations) != 4 {
		t.Fatal("recommendation list must have exactly four entries")
	}
	if routine.Recommendations[2] == urgent.Recommendations[2] {
		t.Error("third recommendation must branch on overall urgency")
	}
}

func TestPredictionService_JitterBounds(t *testing.T) {
	predRepo := &mockPredictionRepo{}
	repo := &mockRepository{prediction: predRepo}
	svc := newTestPredictionService(repo)

	for i := 0; i < 50; i++ {
		resp, err := svc.Predict(context.Background(), 1, &PredictionCreateRequest{
			Symptoms: []string{"fever", "cough"},
			Age:      30,
			Gender:   "female",
		})
		if err != nil {
			t.Fatalf("Predict failed: %v", err)
		}
		for _, c := range resp.Conditions {
			if c.Probability < 0.05 || c.Probability > 0.99 {
				t.Fatalf("probability %f out of bounds", c.Probability)
			}
		}
	}
}

func TestPredictionService_SpecializationsDeduplicated(t *testing.T) {
	predRepo := &mockPredictionRepo{}
	repo := &mockRepository{prediction: predRepo}
	svc := newTestPredictionService(repo)

	// fever+fatigue fires both General Practice rules; the tag appears once.
	resp, err := svc.Predict(context.Background(), 1, &PredictionCreateRequest{
		Symptoms: []string{"fever", "fatigue"},
		Age:      35,
		Gender:   "female",
	})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	seen := make(map[string]int)
	for _, spec := range resp.SuggestedSpecializations {
		seen[spec]++
	}
	if seen["General Practice"] != 1 {
		t.Errorf("General Practice should appear exactly once, got %d", seen["General Practice"])
	}
}

func TestPredictionService_ResponseRoundTrip(t *testing.T) {
	predRepo := &mockPredictionRepo{}
	repo := &mockRepository{prediction: predRepo}
	svc := newTestPredictionService(repo)

	resp, err := svc.Predict(context.Background(), 1, &PredictionCreateRequest{
		Symptoms: []string{"fever", "cough", "headache"},
		Age:      30,
		Gender:   "female",
	})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var parsed PredictionResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if parsed.OverallUrgency != resp.OverallUrgency {
		t.Errorf("urgency changed through round trip: %s vs %s", parsed.OverallUrgency, resp.OverallUrgency)
	}
	if len(parsed.Conditions) != len(resp.Conditions) {
		t.Fatalf("condition count changed through round trip")
	}
	for i := range parsed.Conditions {
		if parsed.Conditions[i].Condition != resp.Conditions[i].Condition {
			t.Errorf("condition order changed at index %d", i)
		}
	}
}

func TestPredictionService_GetByID_OwnerOnly(t *testing.T) {
	predRepo := &mockPredictionRepo{}
	repo := &mockRepository{prediction: predRepo}
	svc := newTestPredictionService(repo)
	ctx := context.Background()

	resp, err := svc.Predict(ctx, 7, &PredictionCreateRequest{
		Symptoms: []string{"fever"}, Age: 30, Gender: "male",
	})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	if _, err := svc.GetByID(ctx, resp.ID, 7); err != nil {
		t.Errorf("owner read failed: %v", err)
	}
	if _, err := svc.GetByID(ctx, resp.ID, 8); !IsAccessError(err) {
		t.Errorf("expected access error for non-owner, got %v", err)
	}
}

func TestPredictionService_CanonicalNamesFromCatalog(t *testing.T) {
	predRepo := &mockPredictionRepo{
		catalog: []*models.SymptomCatalogEntry{
			{Code: "fever", Name: "Fever"},
			{Code: "cough", Name: "Cough"},
		},
	}
	repo := &mockRepository{prediction: predRepo}
	svc := newTestPredictionService(repo)

	resp, err := svc.Predict(context.Background(), 1, &PredictionCreateRequest{
		Symptoms: []string{"fever", "cough", "mystery"},
		Age:      30,
		Gender:   "female",
	})
	if err != nil {
		t.Fatalf("Predict failed: %v", err)
	}

	want := []string{"Fever", "Cough", "mystery"}
	if len(resp.Symptoms) != len(want) {
		t.Fatalf("got %v, want %v", resp.Symptoms, want)
	}
	for i := range want {
		if resp.Symptoms[i] != want[i] {
			t.Errorf("symptom %d = %q, want %q", i, resp.Symptoms[i], want[i])
		}
	}
}
