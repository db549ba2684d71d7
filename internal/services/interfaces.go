package services

import (
	"context"
	"time"

	"github.com/CareLink-2025/clinic-service/internal/models"
	"github.com/CareLink-2025/clinic-service/internal/repositories"
	"github.com/CareLink-2025/clinic-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Request DTOs are owned by the validator package.
type RegisterRequest = validator.RegisterRequest
type LoginRequest = validator.LoginRequest
type PredictionCreateRequest = validator.PredictionCreateRequest
type AppointmentCreateRequest = validator.AppointmentCreateRequest
type AppointmentStatusRequest = validator.AppointmentStatusRequest
type DoctorProfileRequest = validator.DoctorProfileRequest

// PredictionResponse is the wire shape of a completed prediction.
type PredictionResponse struct {
	ID                       uint                        `json:"id"`
	CreatedAt                time.Time                   `json:"created_at"`
	Symptoms                 []string                    `json:"symptoms"`
	Conditions               []models.ConditionCandidate `json:"conditions"`
	PrimaryCondition         models.ConditionCandidate   `json:"primary_condition"`
	OverallUrgency           models.UrgencyTier          `json:"overall_urgency"`
	Recommendations          []string                    `json:"recommendations"`
	SuggestedSpecializations []string                    `json:"suggested_specializations"`
}

type PredictionListResponse struct {
	Predictions []*PredictionResponse `json:"predictions"`
	Total       int64                 `json:"total"`
	Page        int                   `json:"page"`
	Size        int                   `json:"size"`
}

type AppointmentListResponse struct {
	Appointments []*models.Appointment `json:"appointments"`
	Total        int64                 `json:"total"`
	Page         int                   `json:"page"`
	Size         int                   `json:"size"`
}

type UserListResponse struct {
	Users []*models.User `json:"users"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
}

// ===== SERVICE INTERFACES =====

// PermissionService decides allow/deny for (user, permission) pairs and
// administers grants. Boolean queries are fail-closed: any store error
// surfaces as a denial, never as an exception.
type PermissionService interface {
	HasPermission(ctx context.Context, userID uint, permissionName string) bool
	GetUserPermissions(ctx context.Context, userID uint) []string

	AssignPermissionToUser(ctx context.Context, userID, permissionID uint) bool
	RemovePermissionFromUser(ctx context.Context, userID, permissionID uint) bool
	AssignPermissionToRole(ctx context.Context, roleID, permissionID uint) bool
	RemovePermissionFromRole(ctx context.Context, roleID, permissionID uint) bool

	ListPermissions(ctx context.Context) ([]*models.Permission, error)
}

type UserService interface {
	Register(ctx context.Context, req *RegisterRequest) (*models.User, error)
	Authenticate(ctx context.Context, req *LoginRequest) (*models.User, error)
	GetByID(ctx context.Context, id uint) (*models.User, error)

	List(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error)
	ListDoctors(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error)

	Deactivate(ctx context.Context, id uint) error
	CreateDoctorProfile(ctx context.Context, userID uint, req *DoctorProfileRequest) error
	VerifyDoctor(ctx context.Context, userID uint) error
}

type PredictionService interface {
	Predict(ctx context.Context, patientID uint, req *PredictionCreateRequest) (*PredictionResponse, error)
	GetByID(ctx context.Context, id uint, callerID uint) (*PredictionResponse, error)
	ListByPatient(ctx context.Context, patientID uint, limit, offset int) (*PredictionListResponse, error)
	ListSymptoms(ctx context.Context) ([]*models.SymptomCatalogEntry, error)
}

type AppointmentService interface {
	Book(ctx context.Context, patientID uint, req *AppointmentCreateRequest) (*models.Appointment, error)
	GetByID(ctx context.Context, id uint, callerID uint) (*models.Appointment, error)
	List(ctx context.Context, filters repositories.AppointmentFilters) (*AppointmentListResponse, error)
	UpdateStatus(ctx context.Context, id uint, callerID uint, req *AppointmentStatusRequest) error
	Cancel(ctx context.Context, id uint, callerID uint) error
}

// NotificationEventService publishes domain events for downstream
// notification delivery.
type NotificationEventService interface {
	AppointmentBooked(ctx context.Context, appointment *models.Appointment) error
	AppointmentStatusChanged(ctx context.Context, appointment *models.Appointment) error
	PredictionCreated(ctx context.Context, patientID uint, predictionID uint, urgency models.UrgencyTier) error
	PermissionChanged(ctx context.Context, eventType models.NotificationType, subjectID uint, permissionID uint) error
}

type ReportService interface {
	AppointmentsWorkbook(ctx context.Context, filters repositories.AppointmentFilters) ([]byte, error)
}

// ServiceManager wires and owns all service instances.
type ServiceManager interface {
	Permission() PermissionService
	User() UserService
	Prediction() PredictionService
	Appointment() AppointmentService
	Notification() NotificationEventService
	Report() ReportService

	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
