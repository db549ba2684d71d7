package seed

import (
	"context"
	"fmt"

	"github.com/CareLink-2025/clinic-service/internal/models"
	"github.com/CareLink-2025/clinic-service/internal/repositories"
	"github.com/CareLink-2025/clinic-service/internal/utils"
)

// permissionSeed is the full permission catalog. Seeding is additive:
// rerunning never removes an existing grant or catalog entry.
var permissionSeed = []struct {
	name     string
	category string
}{
	{models.PermPredictionsCreate, "predictions"},
	{models.PermPredictionsView, "predictions"},
	{models.PermAppointmentsBook, "appointments"},
	{models.PermAppointmentsView, "appointments"},
	{models.PermAppointmentsManage, "appointments"},
	{models.PermUsersManage, "administration"},
	{models.PermRolesManage, "administration"},
	{models.PermDoctorsVerify, "administration"},
	{models.PermReportsView, "administration"},
}

// rolePermissionSeed maps each built-in role to its default grants.
var rolePermissionSeed = map[models.RoleName][]string{
	models.RolePatient: {
		models.PermPredictionsCreate,
		models.PermPredictionsView,
		models.PermAppointmentsBook,
		models.PermAppointmentsView,
	},
	models.RoleDoctor: {
		models.PermPredictionsView,
		models.PermAppointmentsView,
		models.PermAppointmentsManage,
	},
	models.RoleAdmin: {
		models.PermPredictionsView,
		models.PermAppointmentsView,
		models.PermAppointmentsManage,
		models.PermUsersManage,
		models.PermRolesManage,
		models.PermDoctorsVerify,
		models.PermReportsView,
	},
}

// symptomSeed is the symptom catalog backing the analysis rules. Codes
// are the canonical identifiers clients submit; names are display labels.
var symptomSeed = []struct {
	code     string
	name     string
	category string
}{
	{"fever", "Fever", "general"},
	{"fatigue", "Fatigue", "general"},
	{"chills", "Chills", "general"},
	{"headache", "Headache", "neurological"},
	{"dizziness", "Dizziness", "neurological"},
	{"nausea", "Nausea", "digestive"},
	{"vomiting", "Vomiting", "digestive"},
	{"diarrhea", "Diarrhea", "digestive"},
	{"abdominal_pain", "Abdominal Pain", "digestive"},
	{"cough", "Cough", "respiratory"},
	{"sore_throat", "Sore Throat", "respiratory"},
	{"runny_nose", "Runny Nose", "respiratory"},
	{"sneezing", "Sneezing", "respiratory"},
	{"wheezing", "Wheezing", "respiratory"},
	{"shortness_of_breath", "Shortness of Breath", "respiratory"},
	{"chest_tightness", "Chest Tightness", "respiratory"},
	{"chest_pain", "Chest Pain", "cardiac"},
	{"palpitations", "Palpitations", "cardiac"},
	{"sweating", "Sweating", "cardiac"},
	{"muscle_aches", "Muscle Aches", "musculoskeletal"},
	{"itchy_eyes", "Itchy Eyes", "allergy"},
	{"light_sensitivity", "Light Sensitivity", "neurological"},
	{"painful_urination", "Painful Urination", "urinary"},
	{"frequent_urination", "Frequent Urination", "urinary"},
}

// Run seeds roles, the permission catalog, role grants and the symptom
// catalog. Safe to run on every startup.
func Run(ctx context.Context, repo repositories.Repository, logger utils.Logger) error {
	permIDs := make(map[string]uint, len(permissionSeed))
	for _, p := range permissionSeed {
		perm, err := repo.Permission().EnsurePermission(ctx, p.name, p.category)
		if err != nil {
			return fmt.Errorf("seed permission %s: %w", p.name, err)
		}
		permIDs[p.name] = perm.ID
	}

	for roleName, grants := range rolePermissionSeed {
		role, err := repo.Permission().EnsureRole(ctx, roleName)
		if err != nil {
			return fmt.Errorf("seed role %s: %w", roleName, err)
		}
		for _, permName := range grants {
			if err := repo.Permission().AssignToRole(ctx, role.ID, permIDs[permName]); err != nil {
				return fmt.Errorf("seed grant %s -> %s: %w", roleName, permName, err)
			}
		}
	}

	for _, s := range symptomSeed {
		if err := repo.Prediction().EnsureSymptom(ctx, s.code, s.name, s.category); err != nil {
			return fmt.Errorf("seed symptom %s: %w", s.code, err)
		}
	}

	logger.Info("seed complete",
		"permissions", len(permissionSeed),
		"roles", len(rolePermissionSeed),
		"symptoms", len(symptomSeed))
	return nil
}
