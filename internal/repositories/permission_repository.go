package repositories

import (
	"context"

	"github.com/CareLink-2025/clinic-service/internal/models"
)

type PermissionRepository interface {
	ListAll(ctx context.Context) ([]*models.Permission, error)
	GetByID(ctx context.Context, id uint) (*models.Permission, error)
	GetByName(ctx context.Context, name string) (*models.Permission, error)
	GetRoleByName(ctx context.Context, name models.RoleName) (*models.Role, error)

	// Link mutations. Each is a single transactional insert/delete and is
	// idempotent: inserting an existing pair or deleting an absent pair
	// succeeds without effect.
	AssignToUser(ctx context.Context, userID, permissionID uint) error
	RemoveFromUser(ctx context.Context, userID, permissionID uint) error
	AssignToRole(ctx context.Context, roleID, permissionID uint) error
	RemoveFromRole(ctx context.Context, roleID, permissionID uint) error

	// Seeding helpers; additive only.
	EnsurePermission(ctx context.Context, name, category string) (*models.Permission, error)
	EnsureRole(ctx context.Context, name models.RoleName) (*models.Role, error)
}
