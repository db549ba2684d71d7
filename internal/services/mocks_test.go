package services

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/CareLink-2025/clinic-service/internal/models"
	"github.com/CareLink-2025/clinic-service/internal/repositories"
)

// mockRepository is a hand-written Repository for tests. Sub-repositories
// default to nil; tests set the ones they exercise.
type mockRepository struct {
	user        repositories.UserRepository
	permission  repositories.PermissionRepository
	appointment repositories.AppointmentRepository
	prediction  repositories.PredictionRepository
}

func (m *mockRepository) User() repositories.UserRepository               { return m.user }
func (m *mockRepository) Permission() repositories.PermissionRepository   { return m.permission }
func (m *mockRepository) Appointment() repositories.AppointmentRepository { return m.appointment }
func (m *mockRepository) Prediction() repositories.PredictionRepository   { return m.prediction }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}

func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

// mockUserRepo overrides the methods a test needs; the rest panic via the
// nil embedded interface.
type mockUserRepo struct {
	repositories.UserRepository

	getWithGrantsFn func(ctx context.Context, id uint) (*models.User, error)
	getByIDFn       func(ctx context.Context, id uint) (*models.User, error)
}

func (m *mockUserRepo) GetWithGrants(ctx context.Context, id uint) (*models.User, error) {
	return m.getWithGrantsFn(ctx, id)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return m.getByIDFn(ctx, id)
}

// mockPermissionRepo keeps link pairs in memory and mirrors the
// idempotent behavior of the postgres implementation.
type mockPermissionRepo struct {
	repositories.PermissionRepository

	userLinks map[[2]uint]bool
	roleLinks map[[2]uint]bool

	assignUserCalls int
	failAll         error
}

func newMockPermissionRepo() *mockPermissionRepo {
	return &mockPermissionRepo{
		userLinks: make(map[[2]uint]bool),
		roleLinks: make(map[[2]uint]bool),
	}
}

func (m *mockPermissionRepo) AssignToUser(ctx context.Context, userID, permissionID uint) error {
	if m.failAll != nil {
		return m.failAll
	}
	m.assignUserCalls++
	m.userLinks[[2]uint{userID, permissionID}] = true
	return nil
}

func (m *mockPermissionRepo) RemoveFromUser(ctx context.Context, userID, permissionID uint) error {
	if m.failAll != nil {
		return m.failAll
	}
	delete(m.userLinks, [2]uint{userID, permissionID})
	return nil
}

func (m *mockPermissionRepo) AssignToRole(ctx context.Context, roleID, permissionID uint) error {
	if m.failAll != nil {
		return m.failAll
	}
	m.roleLinks[[2]uint{roleID, permissionID}] = true
	return nil
}

func (m *mockPermissionRepo) RemoveFromRole(ctx context.Context, roleID, permissionID uint) error {
	if m.failAll != nil {
		return m.failAll
	}
	delete(m.roleLinks, [2]uint{roleID, permissionID})
	return nil
}

// mockPredictionRepo stores created predictions in memory.
type mockPredictionRepo struct {
	repositories.PredictionRepository

	created  []*models.Prediction
	catalog  []*models.SymptomCatalogEntry
	createID uint
}

func (m *mockPredictionRepo) Create(ctx context.Context, prediction *models.Prediction) error {
	m.createID++
	prediction.ID = m.createID
	prediction.CreatedAt = time.Now()
	m.created = append(m.created, prediction)
	return nil
}

func (m *mockPredictionRepo) GetByID(ctx context.Context, id uint) (*models.Prediction, error) {
	for _, p := range m.created {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPredictionRepo) ListSymptoms(ctx context.Context) ([]*models.SymptomCatalogEntry, error) {
	return m.catalog, nil
}

// mockAppointmentRepo serves a fixed appointment list.
type mockAppointmentRepo struct {
	repositories.AppointmentRepository

	appointments []*models.Appointment
}

func (m *mockAppointmentRepo) List(ctx context.Context, filters repositories.AppointmentFilters) ([]*models.Appointment, int64, error) {
	return m.appointments, int64(len(m.appointments)), nil
}
