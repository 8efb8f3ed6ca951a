package domain

import "time"

// AdminRole role of a venue administrator
type AdminRole string

const (
	RoleOwner AdminRole = "owner"
	RoleAdmin AdminRole = "admin"
	RoleStaff AdminRole = "staff"
)

// AdminUser venue staff account for the admin API
type AdminUser struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash string
	VenueID      int64
	Role         AdminRole
	IsActive     bool
	CreatedAt    time.Time
}
