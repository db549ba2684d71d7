package models

// NotificationType is the single canonical event/notification enumeration.
// Earlier revisions of the system carried two overlapping notification
// enums with divergent naming; they are unified here.
type NotificationType string

const (
	NotificationAppointmentBooked    NotificationType = "appointment.booked"
	NotificationAppointmentConfirmed NotificationType = "appointment.confirmed"
	NotificationAppointmentCancelled NotificationType = "appointment.cancelled"
	NotificationPredictionCreated    NotificationType = "prediction.created"
	NotificationPermissionGranted    NotificationType = "permission.granted"
	NotificationPermissionRevoked    NotificationType = "permission.revoked"
	NotificationDoctorVerified       NotificationType = "doctor.verified"
	NotificationUserDeactivated      NotificationType = "user.deactivated"
)
