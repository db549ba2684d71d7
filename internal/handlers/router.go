package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/CareLink-2025/clinic-service/internal/config"
	"github.com/CareLink-2025/clinic-service/internal/models"
	"github.com/CareLink-2025/clinic-service/internal/repositories"
	"github.com/CareLink-2025/clinic-service/internal/services"
	"github.com/CareLink-2025/clinic-service/internal/session"
	"github.com/CareLink-2025/clinic-service/internal/utils"
	"github.com/CareLink-2025/clinic-service/internal/validator"
)

// HandlerManager owns all HTTP handlers and route registration.
type HandlerManager struct {
	auth         *AuthHandler
	predictions  *PredictionHandler
	appointments *AppointmentHandler
	admin        *AdminHandler
	sessionAuth  *SessionAuthMiddleware

	repo   repositories.Repository
	logger utils.Logger
}

func NewHandlerManager(
	svc services.ServiceManager,
	repo repositories.Repository,
	store session.Store,
	v *validator.Validator,
	logger utils.Logger,
	cfg *config.Config,
) *HandlerManager {
	return &HandlerManager{
		auth:         NewAuthHandler(svc.User(), store, v, logger, cfg.Session),
		predictions:  NewPredictionHandler(svc.Prediction(), v, logger),
		appointments: NewAppointmentHandler(svc.Appointment(), svc.User(), v, logger),
		admin:        NewAdminHandler(svc.User(), svc.Permission(), svc.Report(), v, logger),
		sessionAuth:  NewSessionAuthMiddleware(store, repo.User(), svc.Permission(), cfg.Session.CookieName),
		repo:         repo,
		logger:       logger,
	}
}

// SetupRoutes registers all routes on the router.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.healthCheck)

	api := router.Group("/api/v1")
	api.Use(hm.sessionAuth.ResolveSession())

	auth := api.Group("/auth")
	{
		auth.POST("/register", hm.auth.Register)
		auth.POST("/login", hm.auth.Login)
		auth.POST("/logout", hm.auth.Logout)
		auth.GET("/me", hm.auth.Me)
	}

	predictions := api.Group("/predictions")
	{
		predictions.POST("",
			hm.sessionAuth.RequirePermissions(models.PermPredictionsCreate),
			hm.predictions.Create)
		predictions.GET("",
			hm.sessionAuth.RequirePermissions(models.PermPredictionsView),
			hm.predictions.ListMine)
		predictions.GET("/:id",
			hm.sessionAuth.RequirePermissions(models.PermPredictionsView),
			hm.predictions.Get)
	}
	api.GET("/symptoms", hm.sessionAuth.RequireAuth(), hm.predictions.ListSymptoms)

	appointments := api.Group("/appointments")
	{
		appointments.POST("",
			hm.sessionAuth.RequirePermissions(models.PermAppointmentsBook),
			hm.appointments.Book)
		appointments.GET("",
			hm.sessionAuth.RequirePermissions(models.PermAppointmentsView, models.PermAppointmentsManage),
			hm.appointments.ListMine)
		appointments.GET("/:id",
			hm.sessionAuth.RequirePermissions(models.PermAppointmentsView, models.PermAppointmentsManage),
			hm.appointments.Get)
		appointments.PUT("/:id/status",
			hm.sessionAuth.RequirePermissions(models.PermAppointmentsManage),
			hm.appointments.UpdateStatus)
		appointments.DELETE("/:id",
			hm.sessionAuth.RequirePermissions(models.PermAppointmentsBook, models.PermAppointmentsManage),
			hm.appointments.Cancel)
	}
	api.GET("/doctors", hm.sessionAuth.RequireAuth(), hm.appointments.ListDoctors)

	admin := api.Group("/admin")
	{
		admin.GET("/users",
			hm.sessionAuth.RequirePermissions(models.PermUsersManage),
			hm.admin.ListUsers)
		admin.POST("/users/:id/deactivate",
			hm.sessionAuth.RequirePermissions(models.PermUsersManage),
			hm.admin.DeactivateUser)
		admin.POST("/users/:id/doctor-profile",
			hm.sessionAuth.RequirePermissions(models.PermUsersManage),
			hm.admin.CreateDoctorProfile)
		admin.POST("/users/:id/verify-doctor",
			hm.sessionAuth.RequirePermissions(models.PermDoctorsVerify, models.PermUsersManage),
			hm.admin.VerifyDoctor)

		admin.GET("/permissions",
			hm.sessionAuth.RequirePermissions(models.PermUsersManage, models.PermRolesManage),
			hm.admin.ListPermissions)
		admin.GET("/users/:id/permissions",
			hm.sessionAuth.RequirePermissions(models.PermUsersManage, models.PermRolesManage),
			hm.admin.GetUserPermissions)
		admin.POST("/users/:id/permissions",
			hm.sessionAuth.RequirePermissions(models.PermUsersManage),
			hm.admin.GrantUserPermission)
		admin.DELETE("/users/:id/permissions/:permission_id",
			hm.sessionAuth.RequirePermissions(models.PermUsersManage),
			hm.admin.RevokeUserPermission)
		admin.POST("/roles/permissions",
			hm.sessionAuth.RequirePermissions(models.PermRolesManage),
			hm.admin.GrantRolePermission)
		admin.DELETE("/roles/permissions",
			hm.sessionAuth.RequirePermissions(models.PermRolesManage),
			hm.admin.RevokeRolePermission)

		admin.GET("/reports/appointments",
			hm.sessionAuth.RequirePermissions(models.PermReportsView),
			hm.admin.AppointmentsReport)
	}
}

func (hm *HandlerManager) healthCheck(c *gin.Context) {
	if err := hm.repo.Ping(c.Request.Context()); err != nil {
		hm.logger.Error("health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}
