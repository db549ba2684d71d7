package services

import (
	"context"
	"log/slog"

	"github.com/CareLink-2025/clinic-service/internal/events"
	"github.com/CareLink-2025/clinic-service/internal/models"
)

type notificationEventService struct {
	publisher events.EventPublisher
	logger    *slog.Logger
}

func NewNotificationEventService(publisher events.EventPublisher, logger *slog.Logger) NotificationEventService {
	return &notificationEventService{
		publisher: publisher,
		logger:    logger,
	}
}

func (s *notificationEventService) AppointmentBooked(ctx context.Context, appointment *models.Appointment) error {
	return s.publisher.Publish(ctx, events.Event{
		Type: models.NotificationAppointmentBooked,
		Payload: map[string]interface{}{
			"appointment_id": appointment.ID,
			"patient_id":     appointment.PatientID,
			"doctor_id":      appointment.DoctorID,
			"scheduled_at":   appointment.ScheduledAt,
		},
	})
}

func (s *notificationEventService) AppointmentStatusChanged(ctx context.Context, appointment *models.Appointment) error {
	eventType := models.NotificationAppointmentConfirmed
	if appointment.Status == models.AppointmentCancelled {
		eventType = models.NotificationAppointmentCancelled
	}

	return s.publisher.Publish(ctx, events.Event{
		Type: eventType,
		Payload: map[string]interface{}{
			"appointment_id": appointment.ID,
			"patient_id":     appointment.PatientID,
			"doctor_id":      appointment.DoctorID,
			"status":         appointment.Status,
		},
	})
}

func (s *notificationEventService) PredictionCreated(ctx context.Context, patientID uint, predictionID uint, urgency models.UrgencyTier) error {
	return s.publisher.Publish(ctx, events.Event{
		Type: models.NotificationPredictionCreated,
		Payload: map[string]interface{}{
			"prediction_id":   predictionID,
			"patient_id":      patientID,
			"overall_urgency": urgency,
		},
	})
}

func (s *notificationEventService) PermissionChanged(ctx context.Context, eventType models.NotificationType, subjectID uint, permissionID uint) error {
	return s.publisher.Publish(ctx, events.Event{
		Type: eventType,
		Payload: map[string]interface{}{
			"subject_id":    subjectID,
			"permission_id": permissionID,
		},
	})
}
