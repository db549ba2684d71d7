package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"github.com/CareLink-2025/clinic-service/internal/models"
	"github.com/CareLink-2025/clinic-service/internal/repositories"
)

type reportService struct {
	repo   repositories.Repository
	logger *slog.Logger
}

func NewReportService(repo repositories.Repository, logger *slog.Logger) ReportService {
	return &reportService{repo: repo, logger: logger}
}

var appointmentReportHeader = []string{
	"ID", "Patient", "Doctor", "Scheduled At", "Status", "Reason",
}

// AppointmentsWorkbook renders the filtered appointments as an xlsx
// workbook for admin export.
func (s *reportService) AppointmentsWorkbook(ctx context.Context, filters repositories.AppointmentFilters) ([]byte, error) {
	if filters.Limit <= 0 {
		filters.Limit = 1000
	}

	appointments, total, err := s.repo.Appointment().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to load appointments for report: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Appointments"
	f.SetSheetName("Sheet1", sheet)

	for col, title := range appointmentReportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for row, appointment := range appointments {
		values := []interface{}{
			appointment.ID,
			participantName(appointment.Patient),
			participantName(appointment.Doctor),
			appointment.ScheduledAt.Format("2006-01-02 15:04"),
			string(appointment.Status),
			appointment.Reason,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, fmt.Errorf("failed to build cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row %d: %w", row+2, err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}

	s.logger.Info("appointment report generated", "rows", len(appointments), "total_matching", total)
	return buf.Bytes(), nil
}

func participantName(user *models.User) string {
	if user == nil {
		return ""
	}
	return user.FullName
}
