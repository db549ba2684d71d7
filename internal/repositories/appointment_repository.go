package repositories

import (
	"context"
	"time"

	"github.com/CareLink-2025/clinic-service/internal/models"
)

// AppointmentFilters defines filters for appointment queries.
type AppointmentFilters struct {
	PatientID *uint
	DoctorID  *uint
	Status    *models.AppointmentStatus
	DateFrom  *time.Time
	DateTo    *time.Time
	Limit     int
	Offset    int
}

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *models.Appointment) error
	GetByID(ctx context.Context, id uint) (*models.Appointment, error)
	List(ctx context.Context, filters AppointmentFilters) ([]*models.Appointment, int64, error)
	UpdateStatus(ctx context.Context, id uint, status models.AppointmentStatus) error
	UpdateNotes(ctx context.Context, id uint, notes string) error
	HasConflict(ctx context.Context, doctorID uint, scheduledAt time.Time) (bool, error)
}
