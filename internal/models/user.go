package models

import "time"

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleCashier UserRole = "cashier"
	RoleWaiter  UserRole = "waiter"
)

func ValidRole(r UserRole) bool {
	switch r {
	case RoleAdmin, RoleCashier, RoleWaiter:
		return true
	}
	return false
}

type User struct {
	ID           uint     `gorm:"primaryKey"`
	FirstName    string   `gorm:"size:100;not null"`
	LastName     string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
