package services

import (
	"context"
	"log/slog"

	"github.com/CareLink-2025/clinic-service/internal/models"
	"github.com/CareLink-2025/clinic-service/internal/repositories"
)

type permissionService struct {
	repo   repositories.Repository
	events NotificationEventService
	logger *slog.Logger
}

func NewPermissionService(repo repositories.Repository, events NotificationEventService, logger *slog.Logger) PermissionService {
	return &permissionService{
		repo:   repo,
		events: events,
		logger: logger,
	}
}

// HasPermission reports whether the user holds the permission directly or
// through its role. Unknown users and store failures both yield false:
// authorization reads are fail-closed.
func (s *permissionService) HasPermission(ctx context.Context, userID uint, permissionName string) bool {
	user, err := s.repo.User().GetWithGrants(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			s.logger.Warn("permission check for unknown user", "user_id", userID, "permission", permissionName)
		} else {
			s.logger.Error("permission check failed, denying", "user_id", userID, "permission", permissionName, "error", err)
		}
		return false
	}

	// Direct grants first; a hit needs no role data.
	for _, p := range user.DirectPermissions {
		if p.Name == permissionName {
			return true
		}
	}

	for _, p := range user.Role.Permissions {
		if p.Name == permissionName {
			return true
		}
	}

	return false
}

// GetUserPermissions returns the deduplicated union of role and direct
// permission names. Store failures yield an empty list.
func (s *permissionService) GetUserPermissions(ctx context.Context, userID uint) []string {
	user, err := s.repo.User().GetWithGrants(ctx, userID)
	if err != nil {
		s.logger.Error("failed to load user permissions", "user_id", userID, "error", err)
		return nil
	}

	seen := make(map[string]struct{})
	names := make([]string, 0, len(user.Role.Permissions)+len(user.DirectPermissions))

	for _, p := range user.Role.Permissions {
		if _, ok := seen[p.Name]; !ok {
			seen[p.Name] = struct{}{}
			names = append(names, p.Name)
		}
	}
	for _, p := range user.DirectPermissions {
		if _, ok := seen[p.Name]; !ok {
			seen[p.Name] = struct{}{}
			names = append(names, p.Name)
		}
	}

	return names
}

// AssignPermissionToUser grants a direct permission. Idempotent: granting
// an already-granted pair succeeds. Returns false when the change may not
// have been applied.
func (s *permissionService) AssignPermissionToUser(ctx context.Context, userID, permissionID uint) bool {
	if err := s.repo.Permission().AssignToUser(ctx, userID, permissionID); err != nil {
		s.logger.Error("failed to assign permission to user", "user_id", userID, "permission_id", permissionID, "error", err)
		return false
	}

	s.publishPermissionChange(ctx, models.NotificationPermissionGranted, userID, permissionID)
	return true
}

func (s *permissionService) RemovePermissionFromUser(ctx context.Context, userID, permissionID uint) bool {
	if err := s.repo.Permission().RemoveFromUser(ctx, userID, permissionID); err != nil {
		s.logger.Error("failed to remove permission from user", "user_id", userID, "permission_id", permissionID, "error", err)
		return false
	}

	s.publishPermissionChange(ctx, models.NotificationPermissionRevoked, userID, permissionID)
	return true
}

func (s *permissionService) AssignPermissionToRole(ctx context.Context, roleID, permissionID uint) bool {
	if err := s.repo.Permission().AssignToRole(ctx, roleID, permissionID); err != nil {
		s.logger.Error("failed to assign permission to role", "role_id", roleID, "permission_id", permissionID, "error", err)
		return false
	}

	s.publishPermissionChange(ctx, models.NotificationPermissionGranted, roleID, permissionID)
	return true
}

func (s *permissionService) RemovePermissionFromRole(ctx context.Context, roleID, permissionID uint) bool {
	if err := s.repo.Permission().RemoveFromRole(ctx, roleID, permissionID); err != nil {
		s.logger.Error("failed to remove permission from role", "role_id", roleID, "permission_id", permissionID, "error", err)
		return false
	}

	s.publishPermissionChange(ctx, models.NotificationPermissionRevoked, roleID, permissionID)
	return true
}

func (s *permissionService) ListPermissions(ctx context.Context) ([]*models.Permission, error) {
	return s.repo.Permission().ListAll(ctx)
}

func (s *permissionService) publishPermissionChange(ctx context.Context, eventType models.NotificationType, subjectID, permissionID uint) {
	if s.events == nil {
		return
	}
	if err := s.events.PermissionChanged(ctx, eventType, subjectID, permissionID); err != nil {
		s.logger.Warn("failed to publish permission event", "type", eventType, "error", err)
	}
}
