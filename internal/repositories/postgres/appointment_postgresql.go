package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/CareLink-2025/clinic-service/internal/models"
	"github.com/CareLink-2025/clinic-service/internal/repositories"
)

type AppointmentPostgreSQL struct {
	db *gorm.DB
}

func NewAppointmentPostgreSQL(db *gorm.DB) repositories.AppointmentRepository {
	return &AppointmentPostgreSQL{db: db}
}

func (r *AppointmentPostgreSQL) Create(ctx context.Context, appointment *models.Appointment) error {
	if err := r.db.WithContext(ctx).Create(appointment).Error; err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *AppointmentPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Appointment, error) {
	var appointment models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor").
		First(&appointment, id).Error
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

func (r *AppointmentPostgreSQL) List(ctx context.Context, filters repositories.AppointmentFilters) ([]*models.Appointment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Appointment{})
	query = r.applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count appointments: %w", err)
	}

	var appointments []*models.Appointment
	err := applyPagination(query, filters.Limit, filters.Offset).
		Preload("Patient").
		Preload("Doctor").
		Order("scheduled_at DESC").
		Find(&appointments).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list appointments: %w", err)
	}

	return appointments, total, nil
}

func (r *AppointmentPostgreSQL) UpdateStatus(ctx context.Context, id uint, status models.AppointmentStatus) error {
	result := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update appointment status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *AppointmentPostgreSQL) UpdateNotes(ctx context.Context, id uint, notes string) error {
	result := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("id = ?", id).Update("notes", notes)
	if result.Error != nil {
		return fmt.Errorf("failed to update appointment notes: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// HasConflict reports whether the doctor already has a non-cancelled
// appointment in the half-hour slot starting at scheduledAt.
func (r *AppointmentPostgreSQL) HasConflict(ctx context.Context, doctorID uint, scheduledAt time.Time) (bool, error) {
	var count int64
	slotEnd := scheduledAt.Add(30 * time.Minute)
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).
		Where("doctor_id = ? AND status IN ? AND scheduled_at >= ? AND scheduled_at < ?",
			doctorID,
			[]models.AppointmentStatus{models.AppointmentPending, models.AppointmentConfirmed},
			scheduledAt, slotEnd).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check appointment conflict: %w", err)
	}
	return count > 0, nil
}

func (r *AppointmentPostgreSQL) applyFilters(query *gorm.DB, filters repositories.AppointmentFilters) *gorm.DB {
	if filters.PatientID != nil {
		query = query.Where("patient_id = ?", *filters.PatientID)
	}
	if filters.DoctorID != nil {
		query = query.Where("doctor_id = ?", *filters.DoctorID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.DateFrom != nil {
		query = query.Where("scheduled_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("scheduled_at <= ?", *filters.DateTo)
	}
	return query
}
