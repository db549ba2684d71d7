package validator

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/CareLink-2025/clinic-service/internal/models"
)

// registerBusinessRules registers the clinic's custom validation tags.
func (v *Validator) registerBusinessRules() {
	v.validate.RegisterValidation("gender", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "male", "female", "other":
			return true
		}
		return false
	})

	v.validate.RegisterValidation("urgency_tier", func(fl validator.FieldLevel) bool {
		return models.UrgencyTier(fl.Field().String()).Valid()
	})

	v.validate.RegisterValidation("patient_age", func(fl validator.FieldLevel) bool {
		age := fl.Field().Int()
		return age >= 0 && age <= 130
	})

	v.validate.RegisterValidation("future_date", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		return t.After(time.Now())
	})

	v.validate.RegisterValidation("appointment_reason", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= 500
	})
}

// ValidateAppointmentCreate applies struct rules plus booking business rules.
func (v *Validator) ValidateAppointmentCreate(req *AppointmentCreateRequest) ValidationErrors {
	errs := v.Validate(req)

	// Bookings are same-quarter at most: reject dates over 90 days out.
	if req.ScheduledAt.After(time.Now().Add(90 * 24 * time.Hour)) {
		errs = append(errs, ValidationError{
			Field:   "scheduled_at",
			Message: "must be within the next 90 days",
			Value:   req.ScheduledAt,
			Rule:    "booking_window",
		})
	}

	return errs
}
