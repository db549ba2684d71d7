package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/CareLink-2025/clinic-service/internal/models"
	"github.com/CareLink-2025/clinic-service/internal/repositories"
)

func TestReportService_AppointmentsWorkbook(t *testing.T) {
	apptRepo := &mockAppointmentRepo{
		appointments: []*models.Appointment{
			{
				ID:          1,
				PatientID:   1,
				DoctorID:    2,
				ScheduledAt: time.Date(2026, 9, 10, 9, 30, 0, 0, time.UTC),
				Status:      models.AppointmentConfirmed,
				Reason:      "follow-up",
				Patient:     &models.User{FullName: "Pat Patient"},
				Doctor:      &models.User{FullName: "Dr Who"},
			},
			{
				ID:          2,
				PatientID:   3,
				DoctorID:    2,
				ScheduledAt: time.Date(2026, 9, 11, 14, 0, 0, 0, time.UTC),
				Status:      models.AppointmentPending,
			},
		},
	}
	repo := &mockRepository{appointment: apptRepo}
	svc := NewReportService(repo, testLogger())

	data, err := svc.AppointmentsWorkbook(context.Background(), repositories.AppointmentFilters{})
	if err != nil {
		t.Fatalf("AppointmentsWorkbook failed: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("generated workbook does not open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Appointments")
	if err != nil {
		t.Fatalf("failed to read sheet: %v", err)
	}

	// Header plus one row per appointment.
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][4] != "Status" {
		t.Errorf("unexpected header row %v", rows[0])
	}
	if rows[1][1] != "Pat Patient" || rows[1][2] != "Dr Who" {
		t.Errorf("unexpected data row %v", rows[1])
	}
}
