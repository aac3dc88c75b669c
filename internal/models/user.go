package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleGuest        Role = "guest"
	RoleAdmin        Role = "admin"
	RoleManager      Role = "manager"
	RoleReceptionist Role = "receptionist"
	RoleHousekeeping Role = "housekeeping"
	RoleMaintenance  Role = "maintenance"
)

// StaffRoles is the allow-list for admin-created accounts. Guest is
// deliberately absent: guest accounts only come from self-registration.
var StaffRoles = []Role{
	RoleAdmin,
	RoleManager,
	RoleReceptionist,
	RoleHousekeeping,
	RoleMaintenance,
}

// ParseRole maps a raw string onto the closed role enumeration.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleGuest, RoleAdmin, RoleManager, RoleReceptionist, RoleHousekeeping, RoleMaintenance:
		return Role(s), true
	default:
		return "", false
	}
}

// IsStaff reports whether the role is one of the five staff roles.
func (r Role) IsStaff() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleReceptionist, RoleHousekeeping, RoleMaintenance:
		return true
	default:
		return false
	}
}

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Email        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"` // Never expose password hash in JSON
	Phone        string    `gorm:"type:varchar(30);not null" json:"phone"`
	Address      string    `gorm:"type:varchar(255);not null" json:"address"`
	Department   string    `gorm:"type:varchar(50)" json:"department,omitempty"` // staff only
	Role         Role      `gorm:"type:varchar(20);not null;default:'guest'" json:"role"`
	// No gorm default: Create would omit false as a zero value and store true.
	IsActive     bool      `gorm:"not null" json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
