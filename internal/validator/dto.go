package validator

import "time"

// RegisterRequest creates a new patient account.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"required,min=1,max=100"`
}

// LoginRequest opens a session.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// PredictionCreateRequest submits reported symptoms for analysis. An empty
// symptom list is accepted and yields the fallback condition.
type PredictionCreateRequest struct {
	Symptoms []string `json:"symptoms" validate:"max=30,dive,min=1,max=64"`
	Age      int      `json:"age" validate:"patient_age"`
	Gender   string   `json:"gender" validate:"required,gender"`
}

// AppointmentCreateRequest books an appointment with a doctor.
type AppointmentCreateRequest struct {
	DoctorID     uint      `json:"doctor_id" validate:"required"`
	ScheduledAt  time.Time `json:"scheduled_at" validate:"required,future_date"`
	Reason       string    `json:"reason" validate:"appointment_reason"`
	PredictionID *uint     `json:"prediction_id"`
}

// AppointmentStatusRequest transitions an appointment.
type AppointmentStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
	Notes  *string `json:"notes" validate:"omitempty,max=2000"`
}

// UserGrantRequest assigns or removes a direct permission grant.
type UserGrantRequest struct {
	PermissionID uint `json:"permission_id" validate:"required"`
}

// RoleGrantRequest assigns or removes a role permission grant.
type RoleGrantRequest struct {
	RoleID       uint `json:"role_id" validate:"required"`
	PermissionID uint `json:"permission_id" validate:"required"`
}

// DoctorProfileRequest upgrades an account to a doctor pending verification.
type DoctorProfileRequest struct {
	Specialization string `json:"specialization" validate:"required,min=2,max=100"`
	LicenseNumber  string `json:"license_number" validate:"omitempty,max=100"`
}
