package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/CareLink-2025/clinic-service/internal/models"
	"github.com/CareLink-2025/clinic-service/internal/repositories"
)

type PermissionPostgreSQL struct {
	db *gorm.DB
}

func NewPermissionPostgreSQL(db *gorm.DB) repositories.PermissionRepository {
	return &PermissionPostgreSQL{db: db}
}

func (r *PermissionPostgreSQL) ListAll(ctx context.Context) ([]*models.Permission, error) {
	var permissions []*models.Permission
	if err := r.db.WithContext(ctx).Order("category, name").Find(&permissions).Error; err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	return permissions, nil
}

func (r *PermissionPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Permission, error) {
	var permission models.Permission
	if err := r.db.WithContext(ctx).First(&permission, id).Error; err != nil {
		return nil, err
	}
	return &permission, nil
}

func (r *PermissionPostgreSQL) GetByName(ctx context.Context, name string) (*models.Permission, error) {
	var permission models.Permission
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&permission).Error; err != nil {
		return nil, err
	}
	return &permission, nil
}

func (r *PermissionPostgreSQL) GetRoleByName(ctx context.Context, name models.RoleName) (*models.Role, error) {
	var role models.Role
	if err := r.db.WithContext(ctx).Where("name = ?", string(name)).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// AssignToUser inserts a (user, permission) link row. A concurrent
// identical grant may win the race; the duplicate-key outcome is treated
// as already applied.
func (r *PermissionPostgreSQL) AssignToUser(ctx context.Context, userID, permissionID uint) error {
	link := models.UserPermission{UserID: userID, PermissionID: permissionID}
	err := r.db.WithContext(ctx).Create(&link).Error
	if err != nil && !repositories.IsDuplicateError(err) {
		return fmt.Errorf("failed to assign permission %d to user %d: %w", permissionID, userID, err)
	}
	return nil
}

// RemoveFromUser deletes the (user, permission) link row. Deleting an
// absent pair is a no-op success.
func (r *PermissionPostgreSQL) RemoveFromUser(ctx context.Context, userID, permissionID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND permission_id = ?", userID, permissionID).
		Delete(&models.UserPermission{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove permission %d from user %d: %w", permissionID, userID, err)
	}
	return nil
}

func (r *PermissionPostgreSQL) AssignToRole(ctx context.Context, roleID, permissionID uint) error {
	link := models.RolePermission{RoleID: roleID, PermissionID: permissionID}
	err := r.db.WithContext(ctx).Create(&link).Error
	if err != nil && !repositories.IsDuplicateError(err) {
		return fmt.Errorf("failed to assign permission %d to role %d: %w", permissionID, roleID, err)
	}
	return nil
}

func (r *PermissionPostgreSQL) RemoveFromRole(ctx context.Context, roleID, permissionID uint) error {
	err := r.db.WithContext(ctx).
		Where("role_id = ? AND permission_id = ?", roleID, permissionID).
		Delete(&models.RolePermission{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove permission %d from role %d: %w", permissionID, roleID, err)
	}
	return nil
}

func (r *PermissionPostgreSQL) EnsurePermission(ctx context.Context, name, category string) (*models.Permission, error) {
	permission := models.Permission{Name: name, Category: category}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&permission).Error
	if err != nil {
		return nil, fmt.Errorf("failed to ensure permission %s: %w", name, err)
	}
	// On conflict the insert returns no ID; re-read the row.
	if permission.ID == 0 {
		return r.GetByName(ctx, name)
	}
	return &permission, nil
}

func (r *PermissionPostgreSQL) EnsureRole(ctx context.Context, name models.RoleName) (*models.Role, error) {
	role := models.Role{Name: string(name)}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&role).Error
	if err != nil {
		return nil, fmt.Errorf("failed to ensure role %s: %w", name, err)
	}
	if role.ID == 0 {
		return r.GetRoleByName(ctx, name)
	}
	return &role, nil
}
