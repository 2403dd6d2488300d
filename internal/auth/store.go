package auth

import "context"

// Store describes the persistence operations required by the auth subsystem.
// Implementations must enforce username and role-name uniqueness atomically
// (unique-constraint semantics) and surface duplicates as ErrConflict.
type Store interface {
	// FindUserByUsername returns the user with its role set eagerly resolved.
	FindUserByUsername(ctx context.Context, username string) (*User, error)
	FindUserByID(ctx context.Context, id int64) (*User, error)
	ListUsers(ctx context.Context, offset, limit int) ([]*User, error)

	// CreateUser stores a new user with an already-hashed password and links
	// the given role ids. ErrNotFound if any role id does not exist.
	CreateUser(ctx context.Context, u *User, roleIDs []int64) (*User, error)
	UpdateUser(ctx context.Context, id int64, upd UserUpdate) (*User, error)

	// ReplaceRoleAssignments swaps the user's full assignment set in one
	// transaction. ErrNotFound if any role id is unknown; the previous set
	// must remain intact in that case.
	ReplaceRoleAssignments(ctx context.Context, userID int64, roleIDs []int64) error

	FindRoleByID(ctx context.Context, id int64) (*Role, error)
	FindRoleByName(ctx context.Context, name string) (*Role, error)
	CreateRole(ctx context.Context, r *Role) (*Role, error)
	ListRoles(ctx context.Context, offset, limit int) ([]*Role, error)
}
