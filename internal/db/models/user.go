package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleStaff      UserRole = "STAFF"
	RoleReviewer   UserRole = "REVIEWER"
	RoleAdmin      UserRole = "ADMIN"
	RoleSuperAdmin UserRole = "SUPER_ADMIN"
)

var roleRank = map[UserRole]int{
	RoleStaff:      1,
	RoleReviewer:   2,
	RoleAdmin:      3,
	RoleSuperAdmin: 4,
}

// AtLeast reports whether r meets the given minimum role. Higher roles
// inherit every gate of the roles below them.
func (r UserRole) AtLeast(min UserRole) bool {
	return roleRank[r] >= roleRank[min]
}

func (r UserRole) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

type User struct {
	gorm.Model
	Username     string    `gorm:"unique;not null" json:"username"`
	Email        string    `gorm:"unique;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         UserRole  `gorm:"not null;default:'STAFF'" json:"role"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Department   string    `json:"department"`
	ActiveStatus bool      `gorm:"not null;default:true" json:"active"`
	LastLogin    time.Time `json:"last_login"`
}
