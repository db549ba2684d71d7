package services

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUserInactive        = errors.New("user account is deactivated")
	ErrPermissionNotFound  = errors.New("permission not found")
	ErrRoleNotFound        = errors.New("role not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrPredictionNotFound  = errors.New("prediction not found")
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrDoctorNotVerified   = errors.New("doctor is not verified")
	ErrSlotTaken           = errors.New("doctor already has an appointment in this slot")
)

// AccessError is returned when an operation is refused for the caller.
type AccessError struct {
	UserID    uint
	Resource  string
	Operation string
	Reason    string
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("access denied for user %d on %s %s: %s", e.UserID, e.Resource, e.Operation, e.Reason)
}

func NewAccessError(userID uint, resource, operation, reason string) *AccessError {
	return &AccessError{UserID: userID, Resource: resource, Operation: operation, Reason: reason}
}

// IsAccessError reports whether err is an AccessError.
func IsAccessError(err error) bool {
	var accessErr *AccessError
	return errors.As(err, &accessErr)
}
