package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"gorm.io/gorm"

	"github.com/CareLink-2025/clinic-service/internal/events"
	"github.com/CareLink-2025/clinic-service/internal/repositories"
	"github.com/CareLink-2025/clinic-service/internal/validator"
)

// serviceManager implements ServiceManager.
type serviceManager struct {
	db        *gorm.DB
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher events.EventPublisher

	permissionService  PermissionService
	userService        UserService
	predictionService  PredictionService
	appointmentService AppointmentService
	notificationSvc    NotificationEventService
	reportService      ReportService

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a service manager with all dependencies.
func NewServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, v *validator.Validator, publisher events.EventPublisher) ServiceManager {
	return &serviceManager{
		db:        db,
		repo:      repo,
		logger:    logger,
		validator: v,
		publisher: publisher,
	}
}

func (m *serviceManager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if m.repo == nil {
		return fmt.Errorf("repository is required")
	}
	if m.publisher == nil {
		// No broker configured; events stay in process.
		m.publisher = events.NewMockEventPublisher(m.logger)
	}

	m.notificationSvc = NewNotificationEventService(m.publisher, m.logger)
	m.permissionService = NewPermissionService(m.repo, m.notificationSvc, m.logger)
	m.userService = NewUserService(m.repo, m.notificationSvc, m.logger, m.validator)
	m.predictionService = NewPredictionService(m.repo, m.notificationSvc, m.logger, m.validator)
	m.appointmentService = NewAppointmentService(m.repo, m.notificationSvc, m.logger, m.validator)
	m.reportService = NewReportService(m.repo, m.logger)

	m.initialized = true
	m.logger.Info("services initialized")
	return nil
}

func (m *serviceManager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.shutdown {
		return nil
	}
	m.shutdown = true

	if m.publisher != nil {
		if err := m.publisher.Close(); err != nil {
			return fmt.Errorf("failed to close event publisher: %w", err)
		}
	}

	m.logger.Info("services shut down")
	return nil
}

func (m *serviceManager) Permission() PermissionService {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.permissionService
}

func (m *serviceManager) User() UserService {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.userService
}

func (m *serviceManager) Prediction() PredictionService {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.predictionService
}

func (m *serviceManager) Appointment() AppointmentService {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.appointmentService
}

func (m *serviceManager) Notification() NotificationEventService {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.notificationSvc
}

func (m *serviceManager) Report() ReportService {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reportService
}
