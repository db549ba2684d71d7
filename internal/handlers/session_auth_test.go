package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/CareLink-2025/clinic-service/internal/models"
	"github.com/CareLink-2025/clinic-service/internal/repositories"
	"github.com/CareLink-2025/clinic-service/internal/session"
)

type stubUserRepo struct {
	repositories.UserRepository
	users map[uint]*models.User
}

func (s *stubUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

type stubChecker struct {
	granted map[uint]map[string]bool
}

func (s *stubChecker) HasPermission(_ context.Context, userID uint, name string) bool {
	return s.granted[userID][name]
}

func newGateRouter(t *testing.T, checker PermissionChecker, perms ...string) (*gin.Engine, session.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := session.NewMemoryStore(30 * time.Minute)
	userRepo := &stubUserRepo{users: map[uint]*models.User{
		1: {ID: 1, FullName: "Pat Patient", IsActive: true, Role: models.Role{Name: string(models.RolePatient)}},
		2: {ID: 2, FullName: "Gone Goner", IsActive: false, Role: models.Role{Name: string(models.RolePatient)}},
	}}

	auth := NewSessionAuthMiddleware(store, userRepo, checker, "clinic_session")

	router := gin.New()
	router.Use(auth.ResolveSession())
	router.GET("/guarded", auth.RequirePermissions(perms...), func(c *gin.Context) {
		identity, _ := GetIdentity(c)
		c.JSON(http.StatusOK, gin.H{"user_id": identity.UserID})
	})
	return router, store
}

func doGuarded(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "clinic_session", Value: token})
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequirePermissions_NoSession(t *testing.T) {
	checker := &stubChecker{}
	router, _ := newGateRouter(t, checker, "appointments:view")

	w := doGuarded(router, "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), "authentication required") {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestRequirePermissions_UnknownToken(t *testing.T) {
	checker := &stubChecker{granted: map[uint]map[string]bool{
		1: {"appointments:view": true},
	}}
	router, _ := newGateRouter(t, checker, "appointments:view")

	w := doGuarded(router, "not-a-real-token")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestRequirePermissions_AnyOfListSuffices(t *testing.T) {
	// The caller holds only the second of the two acceptable permissions.
	checker := &stubChecker{granted: map[uint]map[string]bool{
		1: {"appointments:manage": true},
	}}
	router, store := newGateRouter(t, checker, "appointments:view", "appointments:manage")

	token, err := store.Create(context.Background(), session.Session{UserID: 1})
	if err != nil {
		t.Fatalf("session create failed: %v", err)
	}

	w := doGuarded(router, token)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
}

func TestRequirePermissions_DeniedNamesAllAlternatives(t *testing.T) {
	checker := &stubChecker{granted: map[uint]map[string]bool{}}
	router, store := newGateRouter(t, checker, "appointments:view", "appointments:manage")

	token, err := store.Create(context.Background(), session.Session{UserID: 1})
	if err != nil {
		t.Fatalf("session create failed: %v", err)
	}

	w := doGuarded(router, token)
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, "appointments:view OR appointments:manage") {
		t.Errorf("denial must name every acceptable permission, got %s", body)
	}
}

func TestResolveSession_DeactivatedUserIsAnonymous(t *testing.T) {
	checker := &stubChecker{granted: map[uint]map[string]bool{
		2: {"appointments:view": true},
	}}
	router, store := newGateRouter(t, checker, "appointments:view")

	token, err := store.Create(context.Background(), session.Session{UserID: 2})
	if err != nil {
		t.Fatalf("session create failed: %v", err)
	}

	w := doGuarded(router, token)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("deactivated user must resolve anonymous, status = %d", w.Code)
	}
}
