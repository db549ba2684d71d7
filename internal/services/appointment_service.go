package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/CareLink-2025/clinic-service/internal/models"
	"github.com/CareLink-2025/clinic-service/internal/repositories"
	"github.com/CareLink-2025/clinic-service/internal/validator"
)

type appointmentService struct {
	repo      repositories.Repository
	events    NotificationEventService
	logger    *slog.Logger
	validator *validator.Validator
}

func NewAppointmentService(repo repositories.Repository, events NotificationEventService, logger *slog.Logger, v *validator.Validator) AppointmentService {
	return &appointmentService{
		repo:      repo,
		events:    events,
		logger:    logger,
		validator: v,
	}
}

// Book creates a pending appointment with a verified doctor.
func (s *appointmentService) Book(ctx context.Context, patientID uint, req *AppointmentCreateRequest) (*models.Appointment, error) {
	if errs := s.validator.ValidateAppointmentCreate(req); len(errs) > 0 {
		return nil, errs
	}

	doctor, err := s.repo.User().GetByID(ctx, req.DoctorID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrDoctorNotFound
		}
		return nil, fmt.Errorf("failed to load doctor: %w", err)
	}
	if doctor.Role.Name != string(models.RoleDoctor) || doctor.DoctorProfile == nil {
		return nil, ErrDoctorNotFound
	}
	if !doctor.DoctorProfile.Verified {
		return nil, ErrDoctorNotVerified
	}

	conflict, err := s.repo.Appointment().HasConflict(ctx, req.DoctorID, req.ScheduledAt)
	if err != nil {
		return nil, fmt.Errorf("failed to check availability: %w", err)
	}
	if conflict {
		return nil, ErrSlotTaken
	}

	appointment := &models.Appointment{
		PatientID:    patientID,
		DoctorID:     req.DoctorID,
		ScheduledAt:  req.ScheduledAt,
		Status:       models.AppointmentPending,
		Reason:       req.Reason,
		PredictionID: req.PredictionID,
	}

	if err := s.repo.Appointment().Create(ctx, appointment); err != nil {
		return nil, err
	}

	s.logger.Info("appointment booked",
		"appointment_id", appointment.ID,
		"patient_id", patientID,
		"doctor_id", req.DoctorID,
	)

	if s.events != nil {
		if err := s.events.AppointmentBooked(ctx, appointment); err != nil {
			s.logger.Warn("failed to publish booking event", "appointment_id", appointment.ID, "error", err)
		}
	}

	return appointment, nil
}

func (s *appointmentService) GetByID(ctx context.Context, id uint, callerID uint) (*models.Appointment, error) {
	appointment, err := s.loadAppointment(ctx, id)
	if err != nil {
		return nil, err
	}

	if appointment.PatientID != callerID && appointment.DoctorID != callerID {
		return nil, NewAccessError(callerID, "appointment", "read", "not a participant")
	}

	return appointment, nil
}

func (s *appointmentService) List(ctx context.Context, filters repositories.AppointmentFilters) (*AppointmentListResponse, error) {
	appointments, total, err := s.repo.Appointment().List(ctx, filters)
	if err != nil {
		return nil, err
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 20
	}
	return &AppointmentListResponse{
		Appointments: appointments,
		Total:        total,
		Page:         filters.Offset/limit + 1,
		Size:         limit,
	}, nil
}

// UpdateStatus transitions an appointment. Only the assigned doctor may
// confirm or complete; the patient may only cancel via Cancel.
func (s *appointmentService) UpdateStatus(ctx context.Context, id uint, callerID uint, req *AppointmentStatusRequest) error {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return errs
	}

	appointment, err := s.loadAppointment(ctx, id)
	if err != nil {
		return err
	}

	if appointment.DoctorID != callerID {
		return NewAccessError(callerID, "appointment", "update", "not the assigned doctor")
	}

	status := models.AppointmentStatus(req.Status)
	if err := s.repo.Appointment().UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	if req.Notes != nil {
		if err := s.repo.Appointment().UpdateNotes(ctx, id, *req.Notes); err != nil {
			return fmt.Errorf("failed to update notes: %w", err)
		}
	}

	appointment.Status = status
	s.publishStatusChange(ctx, appointment)
	return nil
}

// Cancel lets either participant cancel the appointment.
func (s *appointmentService) Cancel(ctx context.Context, id uint, callerID uint) error {
	appointment, err := s.loadAppointment(ctx, id)
	if err != nil {
		return err
	}

	if appointment.PatientID != callerID && appointment.DoctorID != callerID {
		return NewAccessError(callerID, "appointment", "cancel", "not a participant")
	}

	if err := s.repo.Appointment().UpdateStatus(ctx, id, models.AppointmentCancelled); err != nil {
		return fmt.Errorf("failed to cancel appointment: %w", err)
	}

	appointment.Status = models.AppointmentCancelled
	s.publishStatusChange(ctx, appointment)
	return nil
}

func (s *appointmentService) loadAppointment(ctx context.Context, id uint) (*models.Appointment, error) {
	appointment, err := s.repo.Appointment().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrAppointmentNotFound
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return appointment, nil
}

func (s *appointmentService) publishStatusChange(ctx context.Context, appointment *models.Appointment) {
	if s.events == nil {
		return
	}
	if err := s.events.AppointmentStatusChanged(ctx, appointment); err != nil {
		s.logger.Warn("failed to publish status event", "appointment_id", appointment.ID, "error", err)
	}
}
