package services

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sort"
	"testing"

	"github.com/CareLink-2025/clinic-service/internal/models"
	"gorm.io/gorm"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func userWithGrants(rolePerms, directPerms []string) *models.User {
	user := &models.User{ID: 1, RoleID: 2, Role: models.Role{ID: 2, Name: "patient"}}
	for i, name := range rolePerms {
		user.Role.Permissions = append(user.Role.Permissions, models.Permission{ID: uint(i + 1), Name: name})
	}
	for i, name := range directPerms {
		user.DirectPermissions = append(user.DirectPermissions, models.Permission{ID: uint(i + 100), Name: name})
	}
	return user
}

func TestPermissionService_HasPermission(t *testing.T) {
	tests := []struct {
		name        string
		rolePerms   []string
		directPerms []string
		check       string
		want        bool
	}{
		{
			name:      "role grant",
			rolePerms: []string{models.PermAppointmentsBook},
			check:     models.PermAppointmentsBook,
			want:      true,
		},
		{
			name:        "direct grant",
			directPerms: []string{models.PermReportsView},
			check:       models.PermReportsView,
			want:        true,
		},
		{
			name:        "granted both ways",
			rolePerms:   []string{models.PermPredictionsCreate},
			directPerms: []string{models.PermPredictionsCreate},
			check:       models.PermPredictionsCreate,
			want:        true,
		},
		{
			name:        "not granted",
			rolePerms:   []string{models.PermAppointmentsBook},
			directPerms: []string{models.PermReportsView},
			check:       models.PermUsersManage,
			want:        false,
		},
		{
			name:  "no grants at all",
			check: models.PermUsersManage,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepository{
				user: &mockUserRepo{
					getWithGrantsFn: func(ctx context.Context, id uint) (*models.User, error) {
						return userWithGrants(tt.rolePerms, tt.directPerms), nil
					},
				},
			}
			svc := NewPermissionService(repo, nil, testLogger())

			if got := svc.HasPermission(context.Background(), 1, tt.check); got != tt.want {
				t.Errorf("HasPermission(%q) = %v, want %v", tt.check, got, tt.want)
			}
		})
	}
}

func TestPermissionService_HasPermission_UnknownUser(t *testing.T) {
	repo := &mockRepository{
		user: &mockUserRepo{
			getWithGrantsFn: func(ctx context.Context, id uint) (*models.User, error) {
				return nil, gorm.ErrRecordNotFound
			},
		},
	}
	svc := NewPermissionService(repo, nil, testLogger())

	if svc.HasPermission(context.Background(), 99, models.PermAppointmentsBook) {
		t.Error("expected false for unknown user")
	}
}

func TestPermissionService_HasPermission_StoreFailureIsDenial(t *testing.T) {
	repo := &mockRepository{
		user: &mockUserRepo{
			getWithGrantsFn: func(ctx context.Context, id uint) (*models.User, error) {
				return nil, errors.New("connection refused")
			},
		},
	}
	svc := NewPermissionService(repo, nil, testLogger())

	if svc.HasPermission(context.Background(), 1, models.PermAppointmentsBook) {
		t.Error("store failure must deny, not allow")
	}
}

func TestPermissionService_GetUserPermissions_Dedup(t *testing.T) {
	repo := &mockRepository{
		user: &mockUserRepo{
			getWithGrantsFn: func(ctx context.Context, id uint) (*models.User, error) {
				return userWithGrants(
					[]string{models.PermAppointmentsBook, models.PermPredictionsCreate},
					[]string{models.PermPredictionsCreate, models.PermReportsView},
				), nil
			},
		},
	}
	svc := NewPermissionService(repo, nil, testLogger())

	got := svc.GetUserPermissions(context.Background(), 1)
	sort.Strings(got)

	want := []string{models.PermAppointmentsBook, models.PermPredictionsCreate, models.PermReportsView}
	sort.Strings(want)

	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestPermissionService_GetUserPermissions_StoreFailureIsEmpty(t *testing.T) {
	repo := &mockRepository{
		user: &mockUserRepo{
			getWithGrantsFn: func(ctx context.Context, id uint) (*models.User, error) {
				return nil, errors.New("connection refused")
			},
		},
	}
	svc := NewPermissionService(repo, nil, testLogger())

	if got := svc.GetUserPermissions(context.Background(), 1); len(got) != 0 {
		t.Errorf("expected empty list on store failure, got %v", got)
	}
}

func TestPermissionService_AssignToUser_Idempotent(t *testing.T) {
	permRepo := newMockPermissionRepo()
	repo := &mockRepository{permission: permRepo}
	svc := NewPermissionService(repo, nil, testLogger())
	ctx := context.Background()

	if !svc.AssignPermissionToUser(ctx, 1, 5) {
		t.Fatal("first assign should succeed")
	}
	if !svc.AssignPermissionToUser(ctx, 1, 5) {
		t.Fatal("second assign of same pair should succeed")
	}
	if len(permRepo.userLinks) != 1 {
		t.Errorf("expected exactly one link row, got %d", len(permRepo.userLinks))
	}
}

func TestPermissionService_RemoveFromUser_AbsentPairIsSuccess(t *testing.T) {
	permRepo := newMockPermissionRepo()
	repo := &mockRepository{permission: permRepo}
	svc := NewPermissionService(repo, nil, testLogger())

	if !svc.RemovePermissionFromUser(context.Background(), 1, 5) {
		t.Error("removing an absent pair should report success")
	}
	if len(permRepo.userLinks) != 0 {
		t.Error("no link rows expected")
	}
}

func TestPermissionService_MutationFailureReturnsFalse(t *testing.T) {
	permRepo := newMockPermissionRepo()
	permRepo.failAll = errors.New("connection refused")
	repo := &mockRepository{permission: permRepo}
	svc := NewPermissionService(repo, nil, testLogger())
	ctx := context.Background()

	if svc.AssignPermissionToUser(ctx, 1, 5) {
		t.Error("assign should report failure")
	}
	if svc.RemovePermissionFromUser(ctx, 1, 5) {
		t.Error("remove should report failure")
	}
	if svc.AssignPermissionToRole(ctx, 2, 5) {
		t.Error("role assign should report failure")
	}
	if svc.RemovePermissionFromRole(ctx, 2, 5) {
		t.Error("role remove should report failure")
	}
}
