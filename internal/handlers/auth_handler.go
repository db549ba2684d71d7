package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CareLink-2025/clinic-service/internal/config"
	"github.com/CareLink-2025/clinic-service/internal/services"
	"github.com/CareLink-2025/clinic-service/internal/session"
	"github.com/CareLink-2025/clinic-service/internal/utils"
	"github.com/CareLink-2025/clinic-service/internal/validator"
)

// AuthHandler serves registration, login and session lifecycle.
type AuthHandler struct {
	users     services.UserService
	store     session.Store
	validator *validator.Validator
	logger    utils.Logger
	cookie    config.SessionConfig
}

func NewAuthHandler(users services.UserService, store session.Store, v *validator.Validator, logger utils.Logger, cookie config.SessionConfig) *AuthHandler {
	return &AuthHandler{
		users:     users,
		store:     store,
		validator: v,
		logger:    logger,
		cookie:    cookie,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	user, err := h.users.Register(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "conflict", "message": err.Error()})
			return
		}
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        user.ID,
		"email":     user.Email,
		"full_name": user.FullName,
		"role":      user.Role.Name,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req services.LoginRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) || errors.Is(err, services.ErrUserInactive) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": err.Error()})
			return
		}
		respondServiceError(c, err)
		return
	}

	token, err := h.store.Create(c.Request.Context(), session.Session{
		UserID:      user.ID,
		Role:        user.Role.Name,
		DisplayName: user.FullName,
	})
	if err != nil {
		h.logger.Error("failed to create session", "error", err, "user_id", user.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal", "message": "failed to open session"})
		return
	}

	h.setSessionCookie(c, token, int(h.cookie.IdleTTL.Seconds()))
	c.JSON(http.StatusOK, gin.H{
		"id":        user.ID,
		"email":     user.Email,
		"full_name": user.FullName,
		"role":      user.Role.Name,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token, err := c.Cookie(h.cookie.CookieName)
	if err == nil && token != "" {
		if err := h.store.Delete(c.Request.Context(), token); err != nil {
			h.logger.Warn("failed to delete session", "error", err)
		}
	}

	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := GetIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "authentication required"})
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), identity.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := gin.H{
		"id":        user.ID,
		"email":     user.Email,
		"full_name": user.FullName,
		"role":      user.Role.Name,
		"is_active": user.IsActive,
	}
	if user.DoctorProfile != nil {
		resp["doctor_profile"] = gin.H{
			"specialization": user.DoctorProfile.Specialization,
			"verified":       user.DoctorProfile.Verified,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// setSessionCookie writes the HttpOnly session cookie. The token is
// opaque; everything about the session lives server-side.
func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, token, maxAge, "/", "", h.cookie.Secure, true)
}
