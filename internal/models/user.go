package models

import (
	"time"

	"gorm.io/gorm"
)

type RoleName string

const (
	RolePatient RoleName = "patient"
	RoleDoctor  RoleName = "doctor"
	RoleAdmin   RoleName = "admin"
)

// Permission names, grouped by category. The catalog is seeded at startup
// and only ever grows.
const (
	PermPredictionsCreate  = "predictions:create"
	PermPredictionsView    = "predictions:view"
	PermAppointmentsBook   = "appointments:book"
	PermAppointmentsView   = "appointments:view"
	PermAppointmentsManage = "appointments:manage"
	PermUsersManage        = "users:manage"
	PermRolesManage        = "roles:manage"
	PermDoctorsVerify      = "doctors:verify"
	PermReportsView        = "reports:view"
)

type User struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	Email        string `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string `json:"-" gorm:"not null;size:255"`
	FullName     string `json:"full_name" gorm:"not null;size:100"`
	IsActive     bool   `json:"is_active" gorm:"not null;default:true"`

	RoleID uint `json:"role_id" gorm:"not null;index"`
	Role   Role `json:"role" gorm:"foreignKey:RoleID"`

	// Direct grants, independent of the role.
	DirectPermissions []Permission `json:"-" gorm:"many2many:user_permissions;joinForeignKey:UserID;joinReferences:PermissionID"`

	DoctorProfile *DoctorProfile `json:"doctor_profile,omitempty" gorm:"foreignKey:UserID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

type Role struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null;size:50"`

	Permissions []Permission `json:"permissions,omitempty" gorm:"many2many:role_permissions;joinForeignKey:RoleID;joinReferences:PermissionID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Role) TableName() string {
	return "roles"
}

type Permission struct {
	ID       uint   `json:"id" gorm:"primaryKey"`
	Name     string `json:"name" gorm:"uniqueIndex;not null;size:100"`
	Category string `json:"category" gorm:"not null;size:50"`

	CreatedAt time.Time `json:"created_at"`
}

func (Permission) TableName() string {
	return "permissions"
}

// RolePermission is the link row behind the role_permissions join table.
// The pair is unique; a race between two identical grants resolves to a
// single row.
type RolePermission struct {
	RoleID       uint      `json:"role_id" gorm:"primaryKey;autoIncrement:false"`
	PermissionID uint      `json:"permission_id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt    time.Time `json:"created_at"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}

// UserPermission is the link row behind the user_permissions join table.
// Grants are additive only; there is no deny override.
type UserPermission struct {
	UserID       uint      `json:"user_id" gorm:"primaryKey;autoIncrement:false"`
	PermissionID uint      `json:"permission_id" gorm:"primaryKey;autoIncrement:false"`
	CreatedAt    time.Time `json:"created_at"`
}

func (UserPermission) TableName() string {
	return "user_permissions"
}

type DoctorProfile struct {
	ID             uint   `json:"id" gorm:"primaryKey"`
	UserID         uint   `json:"user_id" gorm:"uniqueIndex;not null"`
	Specialization string `json:"specialization" gorm:"not null;size:100"`
	LicenseNumber  string `json:"license_number" gorm:"size:100"`
	Verified       bool   `json:"verified" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}
