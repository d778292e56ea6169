package user

import "time"

// Role represents the role a user holds on the platform. Accounts are
// provisioned by the main application; this service only reads them for
// authorization checks and notification fan-out.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleProjectManager Role = "project_manager"
	RoleAccounting     Role = "accounting"
	RoleFieldEngineer  Role = "field_engineer"
)

type User struct {
	ID        string
	Email     string
	Name      string
	Role      Role
	CreatedAt time.Time
}
