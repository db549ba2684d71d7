package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/CareLink-2025/clinic-service/internal/models"
	"github.com/CareLink-2025/clinic-service/internal/repositories"
	"github.com/CareLink-2025/clinic-service/internal/services"
	"github.com/CareLink-2025/clinic-service/internal/utils"
	"github.com/CareLink-2025/clinic-service/internal/validator"
)

// AppointmentHandler serves appointment booking and lifecycle endpoints.
type AppointmentHandler struct {
	appointments services.AppointmentService
	users        services.UserService
	validator    *validator.Validator
	logger       utils.Logger
}

func NewAppointmentHandler(appointments services.AppointmentService, users services.UserService, v *validator.Validator, logger utils.Logger) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments, users: users, validator: v, logger: logger}
}

func (h *AppointmentHandler) Book(c *gin.Context) {
	identity, _ := GetIdentity(c)

	var req services.AppointmentCreateRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	appointment, err := h.appointments.Book(c.Request.Context(), identity.UserID, &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, appointment)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	identity, _ := GetIdentity(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	appointment, err := h.appointments.GetByID(c.Request.Context(), id, identity.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, appointment)
}

// ListMine lists the caller's appointments, as patient or as doctor
// depending on the resolved role.
func (h *AppointmentHandler) ListMine(c *gin.Context) {
	identity, _ := GetIdentity(c)
	filters := h.listFilters(c)

	if identity.Role == string(models.RoleDoctor) {
		filters.DoctorID = &identity.UserID
	} else {
		filters.PatientID = &identity.UserID
	}

	resp, err := h.appointments.List(c.Request.Context(), filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	identity, _ := GetIdentity(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req services.AppointmentStatusRequest
	if !bindAndValidate(c, h.validator, &req) {
		return
	}

	if err := h.appointments.UpdateStatus(c.Request.Context(), id, identity.UserID, &req); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "appointment updated"})
}

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	identity, _ := GetIdentity(c)
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.appointments.Cancel(c.Request.Context(), id, identity.UserID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "appointment cancelled"})
}

// ListDoctors lists verified doctors available for booking.
func (h *AppointmentHandler) ListDoctors(c *gin.Context) {
	limit, offset := pagination(c)
	filters := repositories.UserFilters{
		Specialization: c.Query("specialization"),
		Limit:          limit,
		Offset:         offset,
	}

	resp, err := h.users.ListDoctors(c.Request.Context(), filters)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AppointmentHandler) listFilters(c *gin.Context) repositories.AppointmentFilters {
	limit, offset := pagination(c)
	filters := repositories.AppointmentFilters{
		Limit:  limit,
		Offset: offset,
	}
	if raw := c.Query("status"); raw != "" {
		status := models.AppointmentStatus(raw)
		filters.Status = &status
	}
	if raw := c.Query("doctor_id"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			doctorID := uint(id)
			filters.DoctorID = &doctorID
		}
	}
	return filters
}
