package services

import "github.com/CareLink-2025/clinic-service/internal/models"

// conditionRule is one entry of the ordered rule set evaluated against a
// symptom submission. A rule fires when the submitted symptom set
// intersects its trigger set.
type conditionRule struct {
	Condition       string
	Triggers        []string
	BaseProbability float64
	Urgency         models.UrgencyTier
	Description     string
	Treatment       string
	Specialty       string
}

// jitterWidth is the total spread of the pseudo-random confidence
// variance added to each fired rule's base probability (±0.05).
const jitterWidth = 0.10

// conditionRules is evaluated in order; ties in probability keep this
// order through the stable sort.
var conditionRules = []conditionRule{
	{
		Condition:       "Common Cold",
		Triggers:        []string{"fever", "cough", "sore_throat", "runny_nose", "sneezing"},
		BaseProbability: 0.72,
		Urgency:         models.UrgencyLow,
		Description:     "Viral upper respiratory infection, usually self-limiting within a week.",
		Treatment:       "Rest, fluids and over-the-counter decongestants as needed.",
		Specialty:       "General Practice",
	},
	{
		Condition:       "Influenza",
		Triggers:        []string{"fever", "chills", "body_ache", "fatigue", "headache"},
		BaseProbability: 0.64,
		Urgency:         models.UrgencyMedium,
		Description:     "Seasonal flu with systemic symptoms; contagious in the first days.",
		Treatment:       "Rest, hydration and antipyretics; antivirals if seen within 48 hours.",
		Specialty:       "General Practice",
	},
	{
		Condition:       "Allergic Rhinitis",
		Triggers:        []string{"sneezing", "runny_nose", "itchy_eyes", "nasal_congestion"},
		BaseProbability: 0.58,
		Urgency:         models.UrgencyLow,
		Description:     "Allergen-triggered nasal inflammation, often seasonal.",
		Treatment:       "Antihistamines and allergen avoidance.",
		Specialty:       "Allergology",
	},
	{
		Condition:       "Migraine",
		Triggers:        []string{"headache", "nausea", "light_sensitivity", "visual_aura"},
		BaseProbability: 0.60,
		Urgency:         models.UrgencyMedium,
		Description:     "Recurrent throbbing headache, often one-sided with sensory sensitivity.",
		Treatment:       "Dark quiet room, analgesics; triptans for established diagnoses.",
		Specialty:       "Neurology",
	},
	{
		Condition:       "Gastroenteritis",
		Triggers:        []string{"nausea", "vomiting", "diarrhea", "abdominal_pain"},
		BaseProbability: 0.63,
		Urgency:         models.UrgencyMedium,
		Description:     "Inflammation of the digestive tract, commonly viral or food-borne.",
		Treatment:       "Oral rehydration and bland diet; seek care if symptoms persist over 48 hours.",
		Specialty:       "Gastroenterology",
	},
	{
		Condition:       "Urinary Tract Infection",
		Triggers:        []string{"painful_urination", "frequent_urination", "lower_back_pain"},
		BaseProbability: 0.66,
		Urgency:         models.UrgencyMedium,
		Description:     "Bacterial infection of the urinary tract.",
		Treatment:       "Increased fluid intake; antibiotics per urine culture.",
		Specialty:       "Urology",
	},
	{
		Condition:       "Asthma Exacerbation",
		Triggers:        []string{"wheezing", "shortness_of_breath", "chest_tightness"},
		BaseProbability: 0.59,
		Urgency:         models.UrgencyHigh,
		Description:     "Acute narrowing of the airways with audible wheeze.",
		Treatment:       "Rescue inhaler immediately; urgent care if breathing does not ease.",
		Specialty:       "Pulmonology",
	},
	{
		Condition:       "Pneumonia",
		Triggers:        []string{"high_fever", "productive_cough", "shortness_of_breath", "chest_pain"},
		BaseProbability: 0.55,
		Urgency:         models.UrgencyHigh,
		Description:     "Lung infection with fever and breathing difficulty.",
		Treatment:       "Clinical examination and chest imaging required; antibiotics if bacterial.",
		Specialty:       "Pulmonology",
	},
	{
		Condition:       "Acute Coronary Syndrome",
		Triggers:        []string{"chest_pain", "arm_pain", "shortness_of_breath", "cold_sweat", "dizziness"},
		BaseProbability: 0.48,
		Urgency:         models.UrgencyCritical,
		Description:     "Possible restriction of blood flow to the heart muscle.",
		Treatment:       "Emergency evaluation now; do not drive yourself.",
		Specialty:       "Cardiology",
	},
}

// fallbackRule is emitted alone when no rule fires, keeping the result
// list non-empty.
var fallbackRule = conditionRule{
	Condition:       "Unspecified Condition",
	Triggers:        nil,
	BaseProbability: 0.35,
	Urgency:         models.UrgencyMedium,
	Description:     "The reported symptoms did not match a known pattern.",
	Treatment:       "Monitor symptoms and consult a general practitioner if they persist or worsen.",
	Specialty:       "General Practice",
}

const defaultSpecialty = "General Practice"
