package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/CareLink-2025/clinic-service/internal/models"
	"github.com/CareLink-2025/clinic-service/internal/repositories"
	"github.com/CareLink-2025/clinic-service/internal/services"
	"github.com/CareLink-2025/clinic-service/internal/utils"
	"github.com/CareLink-2025/clinic-service/internal/validator"
)

// AdminHandler serves user administration, grant management and reporting.
type AdminHandler struct {
	users       services.UserService
	permissions services.PermissionService
	reports     services.ReportService
	validator   *validator.Validator
	logger      utils.Logger
}

func NewAdminHandler(users services.UserService, permissions services.PermissionService, reports services.ReportService, v *validator.Validator, logger utils.Logger) *AdminHandler {
	return &AdminHandler{
		users:       users,
		permissions: permissions,
		reports:     reports,
		validator:   v,
		logger:      logger,
	}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit, offset := pagination(c)
	filters := repositories.UserFilters{
		Query:  c.Query("q"),
		Limit:  limit,
		Offset: offset,
	}
	if raw := c.Query("role"); raw != "" {
		role := models.RoleName(raw)
		filters.Role = &role
	}

	resp, err := h.users.List(c.Request.Context(), filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) DeactivateUser(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.users.Deactivate(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user deactivated"})
}

func (h *AdminHandler) CreateDoctorProfile(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.DoctorProfileRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	if err := h.users.CreateDoctorProfile(c.Request.Context(), id, &req); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "doctor profile created, pending verification"})
}

func (h *AdminHandler) VerifyDoctor(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.users.VerifyDoctor(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "doctor verified"})
}

func (h *AdminHandler) ListPermissions(c *gin.Context) {
	permissions, err := h.permissions.ListPermissions(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"permissions": permissions})
}

// GetUserPermissions returns the effective permission names of a user,
// direct grants and role grants combined.
func (h *AdminHandler) GetUserPermissions(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	names := h.permissions.GetUserPermissions(c.Request.Context(), id)
	c.JSON(http.StatusOK, gin.H{"user_id": id, "permissions": names})
}

func (h *AdminHandler) GrantUserPermission(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req validator.UserGrantRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	if !h.permissions.AssignPermissionToUser(c.Request.Context(), id, req.PermissionID) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "grant_failed", "message": "permission grant was not applied"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "permission granted"})
}

func (h *AdminHandler) RevokeUserPermission(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	permissionID, ok := pathID(c, "permission_id")
	if !ok {
		return
	}

	if !h.permissions.RemovePermissionFromUser(c.Request.Context(), id, permissionID) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "revoke_failed", "message": "permission revoke was not applied"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "permission revoked"})
}

func (h *AdminHandler) GrantRolePermission(c *gin.Context) {
	var req validator.RoleGrantRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	if !h.permissions.AssignPermissionToRole(c.Request.Context(), req.RoleID, req.PermissionID) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "grant_failed", "message": "permission grant was not applied"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "permission granted to role"})
}

func (h *AdminHandler) RevokeRolePermission(c *gin.Context) {
	var req validator.RoleGrantRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	if !h.permissions.RemovePermissionFromRole(c.Request.Context(), req.RoleID, req.PermissionID) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "revoke_failed", "message": "permission revoke was not applied"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "permission revoked from role"})
}

// AppointmentsReport streams an xlsx export of appointments.
func (h *AdminHandler) AppointmentsReport(c *gin.Context) {
	filters := repositories.AppointmentFilters{Limit: 1000}
	if raw := c.Query("status"); raw != "" {
		status := models.AppointmentStatus(raw)
		filters.Status = &status
	}

	data, err := h.reports.AppointmentsWorkbook(c.Request.Context(), filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("appointments-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
