package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CareLink-2025/clinic-service/internal/config"
	"github.com/CareLink-2025/clinic-service/internal/models"
	"github.com/CareLink-2025/clinic-service/internal/services"
	"github.com/CareLink-2025/clinic-service/internal/session"
	"github.com/CareLink-2025/clinic-service/internal/utils"
	"github.com/CareLink-2025/clinic-service/internal/validator"
)

type stubUserService struct {
	services.UserService
	user *models.User
}

func (s *stubUserService) Authenticate(_ context.Context, req *services.LoginRequest) (*models.User, error) {
	if s.user == nil || req.Email != s.user.Email || req.Password != "correct-horse" {
		return nil, services.ErrInvalidCredentials
	}
	return s.user, nil
}

func (s *stubUserService) GetByID(_ context.Context, id uint) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, services.ErrUserNotFound
	}
	return s.user, nil
}

func newAuthRouter(t *testing.T) (*gin.Engine, session.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
	store := session.NewMemoryStore(30 * time.Minute)
	users := &stubUserService{user: &models.User{
		ID:       1,
		Email:    "pat@example.com",
		FullName: "Pat Patient",
		IsActive: true,
		Role:     models.Role{Name: string(models.RolePatient)},
	}}

	cookieCfg := config.SessionConfig{CookieName: "clinic_session", IdleTTL: 30 * time.Minute}
	handler := NewAuthHandler(users, store, validator.New(), logger, cookieCfg)

	router := gin.New()
	router.POST("/login", handler.Login)
	router.POST("/logout", handler.Logout)
	return router, store
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == "clinic_session" {
			return c
		}
	}
	return nil
}

func TestAuthHandler_LoginSetsOpaqueSessionCookie(t *testing.T) {
	router, store := newAuthRouter(t)

	body := `{"email":"pat@example.com","password":"correct-horse"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	cookie := sessionCookie(w)
	if cookie == nil {
		t.Fatal("login must set the session cookie")
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
	if strings.Contains(cookie.Value, "pat@example.com") {
		t.Error("token must be opaque, not carry identity")
	}

	sess, err := store.Get(context.Background(), cookie.Value)
	if err != nil {
		t.Fatalf("token must resolve in the store: %v", err)
	}
	if sess.UserID != 1 {
		t.Errorf("session user = %d, want 1", sess.UserID)
	}
}

func TestAuthHandler_LoginRejectsBadPassword(t *testing.T) {
	router, _ := newAuthRouter(t)

	body := `{"email":"pat@example.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if sessionCookie(w) != nil {
		t.Error("failed login must not set a session cookie")
	}
}

func TestAuthHandler_LogoutInvalidatesSession(t *testing.T) {
	router, store := newAuthRouter(t)

	token, err := store.Create(context.Background(), session.Session{UserID: 1})
	if err != nil {
		t.Fatalf("session create failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: "clinic_session", Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if _, err := store.Get(context.Background(), token); err != session.ErrNotFound {
		t.Errorf("token must be dead after logout, got %v", err)
	}
}
