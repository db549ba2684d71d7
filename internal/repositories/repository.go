package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository aggregates all per-domain repository interfaces.
type Repository interface {
	User() UserRepository
	Permission() PermissionRepository
	Appointment() AppointmentRepository
	Prediction() PredictionRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// IsNotFoundError reports whether err is a record-not-found error from
// the underlying store.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicateError reports whether err is a unique-constraint violation.
// Callers performing idempotent link inserts treat it as "already applied".
func IsDuplicateError(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
