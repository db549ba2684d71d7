package repositories

import (
	"context"

	"github.com/CareLink-2025/clinic-service/internal/models"
)

// UserFilters defines filters for user queries.
type UserFilters struct {
	Query          string // search query for name or email
	Role           *models.RoleName
	Active         *bool
	Specialization string // doctor listings only
	Limit          int
	Offset         int
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetWithGrants loads the user together with its role's permission
	// links and its direct permission links in a single fetch.
	GetWithGrants(ctx context.Context, id uint) (*models.User, error)

	List(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)
	ListDoctors(ctx context.Context, filters UserFilters) ([]*models.User, int64, error)

	SetActive(ctx context.Context, id uint, active bool) error
	SetDoctorVerified(ctx context.Context, userID uint, verified bool) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
