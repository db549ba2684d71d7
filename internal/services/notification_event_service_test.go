package services

import (
	"context"
	"testing"
	"time"

	"github.com/CareLink-2025/clinic-service/internal/events"
	"github.com/CareLink-2025/clinic-service/internal/models"
)

func TestNotificationEventService_PublishEvents(t *testing.T) {
	logger := testLogger()
	mockPublisher := events.NewMockEventPublisher(logger)
	svc := NewNotificationEventService(mockPublisher, logger)
	ctx := context.Background()

	t.Run("AppointmentBooked", func(t *testing.T) {
		appointment := &models.Appointment{
			ID:          10,
			PatientID:   1,
			DoctorID:    2,
			ScheduledAt: time.Now().Add(24 * time.Hour),
		}

		if err := svc.AppointmentBooked(ctx, appointment); err != nil {
			t.Fatalf("AppointmentBooked failed: %v", err)
		}

		published := mockPublisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("expected 1 event, got %d", len(published))
		}
		if published[0].Type != models.NotificationAppointmentBooked {
			t.Errorf("unexpected event type %s", published[0].Type)
		}
		if published[0].Payload["appointment_id"] != uint(10) {
			t.Errorf("unexpected payload %v", published[0].Payload)
		}
	})

	t.Run("CancellationMapsToCancelledEvent", func(t *testing.T) {
		appointment := &models.Appointment{
			ID:        11,
			PatientID: 1,
			DoctorID:  2,
			Status:    models.AppointmentCancelled,
		}

		if err := svc.AppointmentStatusChanged(ctx, appointment); err != nil {
			t.Fatalf("AppointmentStatusChanged failed: %v", err)
		}

		published := mockPublisher.GetPublishedEvents()
		last := published[len(published)-1]
		if last.Type != models.NotificationAppointmentCancelled {
			t.Errorf("unexpected event type %s", last.Type)
		}
	})

	t.Run("PredictionCreated", func(t *testing.T) {
		if err := svc.PredictionCreated(ctx, 1, 33, models.UrgencyHigh); err != nil {
			t.Fatalf("PredictionCreated failed: %v", err)
		}

		published := mockPublisher.GetPublishedEvents()
		last := published[len(published)-1]
		if last.Type != models.NotificationPredictionCreated {
			t.Errorf("unexpected event type %s", last.Type)
		}
		if last.Payload["overall_urgency"] != models.UrgencyHigh {
			t.Errorf("unexpected payload %v", last.Payload)
		}
	})

	t.Run("PermissionChanged", func(t *testing.T) {
		if err := svc.PermissionChanged(ctx, models.NotificationPermissionGranted, 5, 9); err != nil {
			t.Fatalf("PermissionChanged failed: %v", err)
		}

		published := mockPublisher.GetPublishedEvents()
		last := published[len(published)-1]
		if last.Type != models.NotificationPermissionGranted {
			t.Errorf("unexpected event type %s", last.Type)
		}
	})
}
