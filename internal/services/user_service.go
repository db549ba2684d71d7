package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/CareLink-2025/clinic-service/internal/models"
	"github.com/CareLink-2025/clinic-service/internal/repositories"
	"github.com/CareLink-2025/clinic-service/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	events    NotificationEventService
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, events NotificationEventService, logger *slog.Logger, v *validator.Validator) UserService {
	return &userService{
		repo:      repo,
		events:    events,
		logger:    logger,
		validator: v,
	}
}

// Register creates a new account with the patient role.
func (s *userService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	taken, err := s.repo.User().ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	role, err := s.repo.Permission().GetRoleByName(ctx, models.RolePatient)
	if err != nil {
		return nil, fmt.Errorf("failed to load patient role: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		IsActive:     true,
		RoleID:       role.ID,
	}

	if err := s.repo.User().Create(ctx, user); err != nil {
		return nil, err
	}
	user.Role = *role

	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Authenticate checks credentials for login. Deactivated accounts cannot
// open new sessions.
func (s *userService) Authenticate(ctx context.Context, req *LoginRequest) (*models.User, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	user, err := s.repo.User().GetByEmail(ctx, req.Email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error) {
	users, total, err := s.repo.User().List(ctx, filters)
	if err != nil {
		return nil, err
	}
	return buildUserListResponse(users, total, filters), nil
}

func (s *userService) ListDoctors(ctx context.Context, filters repositories.UserFilters) (*UserListResponse, error) {
	doctors, total, err := s.repo.User().ListDoctors(ctx, filters)
	if err != nil {
		return nil, err
	}
	return buildUserListResponse(doctors, total, filters), nil
}

// Deactivate flags the account inactive. Records are never deleted.
func (s *userService) Deactivate(ctx context.Context, id uint) error {
	if err := s.repo.User().SetActive(ctx, id, false); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to deactivate user: %w", err)
	}

	s.logger.Info("user deactivated", "user_id", id)
	return nil
}

// CreateDoctorProfile switches the account to the doctor role and records
// an unverified profile; an admin verifies it separately.
func (s *userService) CreateDoctorProfile(ctx context.Context, userID uint, req *DoctorProfileRequest) error {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return errs
	}

	return s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		user, err := txRepo.User().GetByID(ctx, userID)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return ErrUserNotFound
			}
			return err
		}

		role, err := txRepo.Permission().GetRoleByName(ctx, models.RoleDoctor)
		if err != nil {
			return fmt.Errorf("failed to load doctor role: %w", err)
		}

		user.RoleID = role.ID
		user.DoctorProfile = &models.DoctorProfile{
			UserID:         userID,
			Specialization: req.Specialization,
			LicenseNumber:  req.LicenseNumber,
			Verified:       false,
		}

		if err := txRepo.User().Update(ctx, user); err != nil {
			return fmt.Errorf("failed to save doctor profile: %w", err)
		}
		return nil
	})
}

func (s *userService) VerifyDoctor(ctx context.Context, userID uint) error {
	if err := s.repo.User().SetDoctorVerified(ctx, userID, true); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrDoctorNotFound
		}
		return fmt.Errorf("failed to verify doctor: %w", err)
	}

	s.logger.Info("doctor verified", "user_id", userID)
	return nil
}

func buildUserListResponse(users []*models.User, total int64, filters repositories.UserFilters) *UserListResponse {
	limit := filters.Limit
	if limit <= 0 {
		limit = 20
	}
	return &UserListResponse{
		Users: users,
		Total: total,
		Page:  filters.Offset/limit + 1,
		Size:  limit,
	}
}
