package domain

import "time"

// ProfileRole enumerates operator roles.
type ProfileRole string

const (
	RoleAdministrator ProfileRole = "Administrador"
	RoleSupervisor    ProfileRole = "Supervisor"
	RoleTechnician    ProfileRole = "Técnico"
)

// Profile is the domain model for an authenticated operator.
type Profile struct {
	ID           string
	FullName     *string
	Email        string
	PasswordHash string
	Role         ProfileRole
	Department   *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
