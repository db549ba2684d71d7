package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/CareLink-2025/clinic-service/internal/cache"
	"github.com/CareLink-2025/clinic-service/internal/models"
	"github.com/CareLink-2025/clinic-service/internal/repositories"
)

type UserPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewUserPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) repositories.UserRepository {
	return &UserPostgreSQL{db: db, cacheManager: cacheManager}
}

func (r *UserPostgreSQL) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserPostgreSQL) Update(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	r.invalidateUser(ctx, user.ID)
	return nil
}

func (r *UserPostgreSQL) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User

	cacheKey := fmt.Sprintf("%d", id)
	if r.cacheManager != nil {
		if err := r.cacheManager.User.GetWithConfig(ctx, cacheKey, &user, cache.UserCacheConfig); err == nil {
			return &user, nil
		}
	}

	if err := r.db.WithContext(ctx).Preload("Role").Preload("DoctorProfile").First(&user, id).Error; err != nil {
		return nil, err
	}

	if r.cacheManager != nil {
		_ = r.cacheManager.User.SetWithConfig(ctx, cacheKey, &user, cache.UserCacheConfig)
	}

	return &user, nil
}

func (r *UserPostgreSQL) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Preload("Role").Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetWithGrants loads the user with its role's permissions and its direct
// permissions preloaded, so a permission check needs no further queries.
// Grant data is never served from cache: a fresh grant must be visible on
// the next check.
func (r *UserPostgreSQL) GetWithGrants(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Preload("Role.Permissions").
		Preload("DirectPermissions").
		First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserPostgreSQL) List(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{}).Preload("Role")
	query = r.applyFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []*models.User
	if err := applyPagination(query, filters.Limit, filters.Offset).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

func (r *UserPostgreSQL) ListDoctors(ctx context.Context, filters repositories.UserFilters) ([]*models.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.User{}).
		Preload("DoctorProfile").
		Joins("JOIN roles ON roles.id = users.role_id AND roles.name = ?", models.RoleDoctor).
		Joins("JOIN doctor_profiles ON doctor_profiles.user_id = users.id AND doctor_profiles.verified = TRUE").
		Where("users.is_active = TRUE")

	if filters.Specialization != "" {
		query = query.Where("doctor_profiles.specialization = ?", filters.Specialization)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count doctors: %w", err)
	}

	var doctors []*models.User
	if err := applyPagination(query, filters.Limit, filters.Offset).Order("users.full_name ASC").Find(&doctors).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list doctors: %w", err)
	}

	return doctors, total, nil
}

func (r *UserPostgreSQL) SetActive(ctx context.Context, id uint, active bool) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return fmt.Errorf("failed to update user active flag: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.invalidateUser(ctx, id)
	return nil
}

func (r *UserPostgreSQL) SetDoctorVerified(ctx context.Context, userID uint, verified bool) error {
	result := r.db.WithContext(ctx).Model(&models.DoctorProfile{}).
		Where("user_id = ?", userID).Update("verified", verified)
	if result.Error != nil {
		return fmt.Errorf("failed to update doctor verification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.invalidateUser(ctx, userID)
	return nil
}

func (r *UserPostgreSQL) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return count > 0, nil
}

func (r *UserPostgreSQL) applyFilters(query *gorm.DB, filters repositories.UserFilters) *gorm.DB {
	if filters.Query != "" {
		like := "%" + filters.Query + "%"
		query = query.Where("full_name ILIKE ? OR email ILIKE ?", like, like)
	}
	if filters.Role != nil {
		query = query.Joins("JOIN roles ON roles.id = users.role_id").Where("roles.name = ?", *filters.Role)
	}
	if filters.Active != nil {
		query = query.Where("is_active = ?", *filters.Active)
	}
	return query
}

func (r *UserPostgreSQL) invalidateUser(ctx context.Context, id uint) {
	if r.cacheManager != nil {
		_ = r.cacheManager.User.Delete(ctx, cache.UserCacheConfig.Prefix+fmt.Sprintf("%d", id))
	}
}

func applyPagination(query *gorm.DB, limit, offset int) *gorm.DB {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return query.Limit(limit).Offset(offset)
}
