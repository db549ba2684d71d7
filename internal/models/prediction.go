package models

import (
	"time"

	"gorm.io/datatypes"
)

// UrgencyTier is the ordinal severity classification of a predicted
// condition and of the aggregate result.
type UrgencyTier string

const (
	UrgencyLow      UrgencyTier = "low"
	UrgencyMedium   UrgencyTier = "medium"
	UrgencyHigh     UrgencyTier = "high"
	UrgencyCritical UrgencyTier = "critical"
)

var urgencyRank = map[UrgencyTier]int{
	UrgencyLow:      0,
	UrgencyMedium:   1,
	UrgencyHigh:     2,
	UrgencyCritical: 3,
}

// Rank returns the ordinal position of the tier (low < medium < high < critical).
func (u UrgencyTier) Rank() int {
	return urgencyRank[u]
}

// Max returns the more severe of the two tiers.
func (u UrgencyTier) Max(other UrgencyTier) UrgencyTier {
	if other.Rank() > u.Rank() {
		return other
	}
	return u
}

// Valid reports whether the tier is one of the four known values.
func (u UrgencyTier) Valid() bool {
	_, ok := urgencyRank[u]
	return ok
}

// ConditionCandidate is one ranked entry of a prediction result.
type ConditionCandidate struct {
	Condition   string      `json:"condition"`
	Probability float64     `json:"probability"`
	Urgency     UrgencyTier `json:"urgency"`
	Description string      `json:"description"`
	Treatment   string      `json:"treatment"`
}

type Prediction struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	PatientID uint `json:"patient_id" gorm:"not null;index"`

	Symptoms datatypes.JSON `json:"symptoms" gorm:"type:jsonb"`
	Age      int            `json:"age"`
	Gender   string         `json:"gender" gorm:"size:20"`

	Conditions      datatypes.JSON `json:"conditions" gorm:"type:jsonb"`
	OverallUrgency  UrgencyTier    `json:"overall_urgency" gorm:"not null;size:20"`
	Recommendations datatypes.JSON `json:"recommendations" gorm:"type:jsonb"`
	Specializations datatypes.JSON `json:"specializations" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
}

func (Prediction) TableName() string {
	return "predictions"
}

// SymptomCatalogEntry maps a submitted symptom identifier to its canonical
// display name. Seeded at startup; unknown identifiers pass through as
// their own label at prediction time.
type SymptomCatalogEntry struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Code     string `json:"code" gorm:"uniqueIndex;not null;size:64"`
	Name     string `json:"name" gorm:"not null;size:100"`
	Category string `json:"category" gorm:"size:50"`

	CreatedAt time.Time `json:"created_at"`
}

func (SymptomCatalogEntry) TableName() string {
	return "symptom_catalog"
}
