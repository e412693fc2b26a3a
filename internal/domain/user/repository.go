package user

import "context"

// Repository defines the data access operations for users.
//
// Lookups that find nothing report it through the bool result and a nil error.
// Errors are reserved for infrastructure failures and uniqueness conflicts,
// see pkg/errors.
type Repository interface {
	// ListUsers returns all users ordered by ascending ID.
	ListUsers(ctx context.Context) ([]User, error)
	// GetUser returns the user with the given ID, or found=false.
	GetUser(ctx context.Context, id int64) (*User, bool, error)
	// CreateUser inserts a user and returns it with the store-assigned ID.
	CreateUser(ctx context.Context, in Input) (*User, error)
	// UpdateUser replaces name and email of an existing user, or reports found=false.
	UpdateUser(ctx context.Context, id int64, in Input) (*User, bool, error)
	// DeleteUser removes a user and reports whether a row was removed.
	DeleteUser(ctx context.Context, id int64) (bool, error)
	// Ping checks that a connection can be obtained from the pool.
	Ping(ctx context.Context) error
}
