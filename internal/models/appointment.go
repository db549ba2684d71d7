package models

import (
	"time"

	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

type Appointment struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	PatientID uint `json:"patient_id" gorm:"not null;index"`
	DoctorID  uint `json:"doctor_id" gorm:"not null;index"`

	ScheduledAt time.Time         `json:"scheduled_at" gorm:"not null;index"`
	Status      AppointmentStatus `json:"status" gorm:"not null;size:20;default:pending"`
	Reason      string            `json:"reason" gorm:"size:500"`
	Notes       string            `json:"notes" gorm:"size:2000"`

	// Set when the booking came out of a prediction flow.
	PredictionID *uint `json:"prediction_id,omitempty" gorm:"index"`

	Patient *User `json:"patient,omitempty" gorm:"foreignKey:PatientID"`
	Doctor  *User `json:"doctor,omitempty" gorm:"foreignKey:DoctorID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Appointment) TableName() string {
	return "appointments"
}
