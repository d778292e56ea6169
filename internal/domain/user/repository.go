package user

import "context"

// Repository defines read access to provisioned user accounts.
type Repository interface {
	GetByID(ctx context.Context, id string) (*User, error)
	ListByRoles(ctx context.Context, roles []Role) ([]*User, error)
}
